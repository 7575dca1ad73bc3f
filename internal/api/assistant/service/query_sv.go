package assistantService

import (
	"context"

	"github.com/sirupsen/logrus"

	"ProjectLark/internal/api/assistant"
	"ProjectLark/internal/entity"
	contextPkg "ProjectLark/pkg/context"
)

func (s *assistantService) Synthesize(ctx context.Context, text, voice string) ([]byte, bool, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if voice == "" {
		voice = "alloy"
	}

	// Binary audio rides the same keyed cache as text responses; a hit is
	// reported to the caller through the X-Cache response header.
	key := "tts:" + voice + ":" + text

	hit := true
	audio, err := s.cache.Fetch(ctx, key, func(ctx context.Context) (string, error) {
		hit = false
		data, _, err := s.backend.Synthesize(ctx, text, voice)
		if err != nil {
			return "", err
		}
		return string(data), nil
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Speech synthesis failed")
		return nil, false, assistant.ErrTTSFailed
	}

	return []byte(audio), hit, nil
}

func (s *assistantService) GetHistory(ctx context.Context, page, limit int) ([]entity.CommandRecord, int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	offset := (page - 1) * limit

	records, total, err := repo.Commands.GetCommandRecords(ctx, limit, offset)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to load command history")
		return nil, 0, assistant.ErrHistoryUnavailable
	}

	return records, total, nil
}

func (s *assistantService) GetAnalytics(ctx context.Context) (*assistant.AnalyticsSummary, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	records, err := repo.Commands.GetRecentCommandRecords(ctx, 500)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to load command records for analytics")
		return nil, err
	}

	return summarize(records), nil
}

func summarize(records []entity.CommandRecord) *assistant.AnalyticsSummary {
	summary := &assistant.AnalyticsSummary{
		TotalCommands:   len(records),
		ByAction:        make(map[string]int),
		ByTier:          make(map[string]int),
		UsageByTime:     make(map[string]int),
		ConfidenceStats: make(map[string]float64),
	}

	if len(records) == 0 {
		return summary
	}

	successCount := 0
	confidenceSum := 0.0
	confidenceCount := 0
	latencySum := int64(0)

	for _, rec := range records {
		summary.ByAction[string(rec.Action)]++
		summary.ByTier[string(rec.Tier)]++

		if rec.Executed {
			successCount++
		}

		if rec.Confidence > 0 {
			confidenceSum += rec.Confidence
			confidenceCount++
		}

		latencySum += rec.LatencyMs

		hour := rec.CreatedAt.Hour()
		var timeSlot string
		switch {
		case hour >= 6 && hour < 12:
			timeSlot = "morning"
		case hour >= 12 && hour < 18:
			timeSlot = "afternoon"
		case hour >= 18 && hour < 22:
			timeSlot = "evening"
		default:
			timeSlot = "night"
		}
		summary.UsageByTime[timeSlot]++
	}

	summary.SuccessRate = float64(successCount) / float64(len(records)) * 100
	summary.AvgLatencyMs = float64(latencySum) / float64(len(records))

	if confidenceCount > 0 {
		summary.AvgConfidence = confidenceSum / float64(confidenceCount)
		summary.ConfidenceStats["average"] = summary.AvgConfidence
		summary.ConfidenceStats["total_samples"] = float64(confidenceCount)
	}

	return summary
}
