package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lordskyzw/pygwan/internal/domain/models"
)

type fakeMessageLog struct {
	summary    models.TrafficSummary
	summaryErr error
	start      time.Time
	end        time.Time

	digests       []models.Digest
	saveDigestErr error
}

func (f *fakeMessageLog) SaveMessage(context.Context, models.MessageRecord) error { return nil }

func (f *fakeMessageLog) TrafficSummary(_ context.Context, start, end time.Time) (models.TrafficSummary, error) {
	f.start = start
	f.end = end
	return f.summary, f.summaryErr
}

func (f *fakeMessageLog) SaveDigest(_ context.Context, digest models.Digest) error {
	if f.saveDigestErr != nil {
		return f.saveDigestErr
	}
	f.digests = append(f.digests, digest)
	return nil
}

type fakeSheetExport struct {
	digests []models.Digest
	err     error
}

func (f *fakeSheetExport) AppendDigest(_ context.Context, digest models.Digest) error {
	if f.err != nil {
		return f.err
	}
	f.digests = append(f.digests, digest)
	return nil
}

func TestTrafficSummaryMessage(t *testing.T) {
	log := &fakeMessageLog{summary: models.TrafficSummary{Inbound: 12, Outbound: 11, Failed: 1, UniqueSenders: 4}}
	svc := NewService(log, nil, nil)

	start := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	msg, err := svc.TrafficSummaryMessage(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, "Traffic (2024-03-08-2024-03-15): 12 in, 11 out, 1 failed, 4 unique senders.", msg)
	assert.Equal(t, start, log.start)
	assert.Equal(t, end, log.end)
}

func TestTrafficSummaryMessageWithoutTraffic(t *testing.T) {
	svc := NewService(&fakeMessageLog{}, nil, nil)

	msg, err := svc.TrafficSummaryMessage(context.Background(),
		time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "Traffic (2024-03-08-2024-03-15): no messages yet.", msg)
}

func TestTrafficSummaryMessageError(t *testing.T) {
	svc := NewService(&fakeMessageLog{summaryErr: errors.New("mongo down")}, nil, nil)

	_, err := svc.TrafficSummaryMessage(context.Background(), time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load traffic summary")
}

func TestBuildDigest(t *testing.T) {
	harare := time.FixedZone("CAT", 2*60*60)
	log := &fakeMessageLog{summary: models.TrafficSummary{Inbound: 40, Outbound: 38, Failed: 2, UniqueSenders: 9}}
	svc := NewService(log, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 7, 0, 0, 0, time.UTC) }

	day := time.Date(2024, 3, 14, 18, 30, 0, 0, harare)
	digest, err := svc.BuildDigest(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, harare), log.start)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, harare), log.end)

	assert.True(t, digest.Date.Equal(time.Date(2024, 3, 14, 0, 0, 0, 0, harare)))
	assert.Equal(t, int64(40), digest.Inbound)
	assert.Equal(t, int64(38), digest.Outbound)
	assert.Equal(t, int64(2), digest.Failed)
	assert.Equal(t, int64(9), digest.UniqueSenders)
	assert.Equal(t, time.Date(2024, 3, 15, 7, 0, 0, 0, time.UTC), digest.CreatedAt)
}

func TestBuildDigestError(t *testing.T) {
	svc := NewService(&fakeMessageLog{summaryErr: errors.New("mongo down")}, nil, nil)

	_, err := svc.BuildDigest(context.Background(), time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build digest for 2024-03-14")
}

func TestPublishDigest(t *testing.T) {
	log := &fakeMessageLog{}
	export := &fakeSheetExport{}
	svc := NewService(log, export, nil)

	digest := models.Digest{Date: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), Inbound: 5}
	require.NoError(t, svc.PublishDigest(context.Background(), digest))

	require.Len(t, log.digests, 1)
	require.Len(t, export.digests, 1)
	assert.Equal(t, int64(5), export.digests[0].Inbound)
}

func TestPublishDigestWithoutSheets(t *testing.T) {
	log := &fakeMessageLog{}
	svc := NewService(log, nil, nil)

	require.NoError(t, svc.PublishDigest(context.Background(), models.Digest{}))
	assert.Len(t, log.digests, 1)
}

func TestPublishDigestToleratesSheetsFailure(t *testing.T) {
	log := &fakeMessageLog{}
	export := &fakeSheetExport{err: errors.New("quota exceeded")}
	svc := NewService(log, export, nil)

	require.NoError(t, svc.PublishDigest(context.Background(), models.Digest{}))
	assert.Len(t, log.digests, 1)
}

func TestPublishDigestSaveFailure(t *testing.T) {
	log := &fakeMessageLog{saveDigestErr: errors.New("mongo down")}
	export := &fakeSheetExport{}
	svc := NewService(log, export, nil)

	err := svc.PublishDigest(context.Background(), models.Digest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save digest")
	assert.Empty(t, export.digests, "export must not run when the save fails")
}

func TestFormatDigest(t *testing.T) {
	svc := NewService(&fakeMessageLog{}, nil, nil)

	digest := models.Digest{
		Date:          time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		Inbound:       40,
		Outbound:      38,
		Failed:        2,
		UniqueSenders: 9,
	}

	assert.Equal(t, "Daily digest 2024-03-14\nInbound: 40\nOutbound: 38\nFailed: 2\nUnique senders: 9", svc.FormatDigest(digest))
}
