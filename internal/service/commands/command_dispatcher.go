package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/lordskyzw/pygwan/internal/domain/models"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

const (
	statsDefaultWindowDays = 7
	statsMaxWindowDays     = 90
)

// ReportingAdapter defines the reporting functions required by the dispatcher.
type ReportingAdapter interface {
	TrafficSummaryMessage(ctx context.Context, start, end time.Time) (string, error)
}

// SubscriberRegistry defines the subscription mutations required by the dispatcher.
type SubscriberRegistry interface {
	Add(waID string) bool
	Remove(waID string) bool
}

// Dispatcher executes parsed commands and builds the reply for the sender.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (models.CommandReply, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	subscribers SubscriberRegistry
	reporting   ReportingAdapter
	logger      *zap.Logger
	now         func() time.Time
}

// NewService constructs a command dispatcher.
func NewService(subscribers SubscriberRegistry, reporting ReportingAdapter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		subscribers: subscribers,
		reporting:   reporting,
		logger:      logger,
		now:         time.Now,
	}
}

var commandReplies = map[models.CommandType]models.CommandReply{
	models.CommandHelp: {
		Title:   "Help",
		Message: "Supported commands: /help, /ping, /stats [days], /subscribe, /unsubscribe. Anything else is echoed back.",
	},
	models.CommandPing: {
		Title:   "Ping",
		Message: "pong",
	},
	models.CommandUnknown: {
		Title:   "Command Help",
		Message: "Unknown command. Supported: /help, /ping, /stats, /subscribe, /unsubscribe.",
	},
}

// HandleCommand executes the command side effects and returns the reply to
// send back to the sender.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (models.CommandReply, error) {
	s.logger.Debug("dispatching command",
		zap.String("command", string(cmd.Type)),
		zap.String("sender", sender),
		zap.Any("args", cmd.Args))

	switch cmd.Type {
	case models.CommandHelp, models.CommandPing:
		return commandReplies[cmd.Type], nil
	case models.CommandStats:
		days, err := parseStatsWindow(cmd.Args)
		if errors.Is(err, ErrInvalidArguments) {
			return models.CommandReply{
				Title:   "Traffic Stats",
				Message: fmt.Sprintf("Usage: /stats [days], where days is between 1 and %d.", statsMaxWindowDays),
			}, nil
		}

		end := s.now()
		start := end.AddDate(0, 0, -days)
		summary, err := s.reporting.TrafficSummaryMessage(ctx, start, end)
		if err != nil {
			return models.CommandReply{}, fmt.Errorf("stats summary: %w", err)
		}
		return models.CommandReply{Title: "Traffic Stats", Message: summary}, nil
	case models.CommandSubscribe:
		if s.subscribers.Add(sender) {
			return models.CommandReply{Title: "Digest Subscription", Message: "You are now subscribed to the daily digest."}, nil
		}
		return models.CommandReply{Title: "Digest Subscription", Message: "You are already subscribed to the daily digest."}, nil
	case models.CommandUnsubscribe:
		if s.subscribers.Remove(sender) {
			return models.CommandReply{Title: "Digest Subscription", Message: "You are unsubscribed from the daily digest."}, nil
		}
		return models.CommandReply{Title: "Digest Subscription", Message: "You were not subscribed to the daily digest."}, nil
	default:
		return commandReplies[models.CommandUnknown], nil
	}
}

func parseStatsWindow(args []string) (int, error) {
	if len(args) == 0 {
		return statsDefaultWindowDays, nil
	}

	days, err := strconv.Atoi(args[0])
	if err != nil || days < 1 || days > statsMaxWindowDays {
		return 0, ErrInvalidArguments
	}

	return days, nil
}
