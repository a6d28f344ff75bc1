package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/lordskyzw/pygwan/internal/config"
	"github.com/lordskyzw/pygwan/internal/domain/models"
)

const (
	digestRange = "Digests!A:F"
	dateLayout  = "2006-01-02"
)

// Repository defines the export operations supported by the Google Sheets adapter.
type Repository interface {
	AppendDigest(ctx context.Context, digest models.Digest) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendDigest appends a digest as a single row to the digest sheet.
func (r *GoogleSheetRepository) AppendDigest(ctx context.Context, digest models.Digest) error {
	values := []interface{}{
		digest.Date.Format(dateLayout),
		digest.Inbound,
		digest.Outbound,
		digest.Failed,
		digest.UniqueSenders,
		digest.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, digestRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append digest row into range %s: %w", digestRange, err)
	}

	r.logger.Debug("digest appended to sheet", zap.String("range", digestRange))
	return nil
}
