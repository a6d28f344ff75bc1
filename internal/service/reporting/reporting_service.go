package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lordskyzw/pygwan/internal/domain/models"
	"github.com/lordskyzw/pygwan/internal/repository/mongodb"
	sheetsrepo "github.com/lordskyzw/pygwan/internal/repository/sheets"
)

const dateLayout = "2006-01-02"

// Service exposes lightweight analytics over the message log for WhatsApp summaries.
type Service struct {
	messages mongodb.Repository
	sheets   sheetsrepo.Repository
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new reporting service instance. The sheets repository may
// be nil when the export is not configured.
func NewService(messages mongodb.Repository, sheets sheetsrepo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{messages: messages, sheets: sheets, logger: logger, now: time.Now}
}

// TrafficSummaryMessage aggregates message traffic for a period and returns a
// formatted string.
func (s *Service) TrafficSummaryMessage(ctx context.Context, start, end time.Time) (string, error) {
	summary, err := s.messages.TrafficSummary(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("load traffic summary: %w", err)
	}

	if summary.Inbound == 0 && summary.Outbound == 0 {
		return fmt.Sprintf("Traffic (%s-%s): no messages yet.", start.Format(dateLayout), end.Format(dateLayout)), nil
	}

	return fmt.Sprintf("Traffic (%s-%s): %d in, %d out, %d failed, %d unique senders.",
		start.Format(dateLayout), end.Format(dateLayout),
		summary.Inbound, summary.Outbound, summary.Failed, summary.UniqueSenders), nil
}

// BuildDigest aggregates one calendar day of traffic into a digest. The day is
// interpreted in its own location, covering midnight to midnight.
func (s *Service) BuildDigest(ctx context.Context, day time.Time) (models.Digest, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	summary, err := s.messages.TrafficSummary(ctx, start, end)
	if err != nil {
		return models.Digest{}, fmt.Errorf("build digest for %s: %w", start.Format(dateLayout), err)
	}

	return models.Digest{
		Date:          start,
		Inbound:       summary.Inbound,
		Outbound:      summary.Outbound,
		Failed:        summary.Failed,
		UniqueSenders: summary.UniqueSenders,
		CreatedAt:     s.now().UTC(),
	}, nil
}

// PublishDigest persists the digest to MongoDB and, when configured, exports
// it to Google Sheets. The export is best-effort: a failed append is logged
// but does not fail the digest run.
func (s *Service) PublishDigest(ctx context.Context, digest models.Digest) error {
	if err := s.messages.SaveDigest(ctx, digest); err != nil {
		return fmt.Errorf("save digest: %w", err)
	}

	if s.sheets != nil {
		if err := s.sheets.AppendDigest(ctx, digest); err != nil {
			s.logger.Warn("digest export to sheets failed", zap.Error(err))
		}
	}

	return nil
}

// FormatDigest renders a digest as WhatsApp-ready text.
func (s *Service) FormatDigest(digest models.Digest) string {
	return fmt.Sprintf("Daily digest %s\nInbound: %d\nOutbound: %d\nFailed: %d\nUnique senders: %d",
		digest.Date.Format(dateLayout), digest.Inbound, digest.Outbound, digest.Failed, digest.UniqueSenders)
}
