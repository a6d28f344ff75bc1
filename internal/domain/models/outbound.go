package models

// OutboundMessageRequest represents requests to send a message manually via the API.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}

// OutboundTemplateRequest represents requests to send a template manually via the API.
type OutboundTemplateRequest struct {
	To       string `json:"to" binding:"required"`
	Template string `json:"template" binding:"required"`
	Language string `json:"language"`
}

// CommandReply describes the response that will be sent back to the sender
// based on the parsed command.
type CommandReply struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}
