package assistant

import (
	"ProjectLark/pkg/matcher"
)

type CommandRequest struct {
	Transcript string `json:"transcript" validate:"required,min=1,max=500"`
	SessionID  string `json:"session_id,omitempty" validate:"omitempty,max=64"`
}

type TTSRequest struct {
	Text  string `json:"text" validate:"required,min=1,max=2000"`
	Voice string `json:"voice,omitempty" validate:"omitempty,max=64"`
}

type MatcherTestRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}

type MatcherTestResponse struct {
	Input      string                `json:"input"`
	Matched    bool                  `json:"matched"`
	Action     string                `json:"action,omitempty"`
	Confidence float64               `json:"confidence,omitempty"`
	Parameters map[string]string     `json:"parameters,omitempty"`
	Matches    []matcher.MatchDetail `json:"matches,omitempty"`
}

type AnalyticsSummary struct {
	TotalCommands   int                `json:"total_commands"`
	SuccessRate     float64            `json:"success_rate"`
	ByAction        map[string]int     `json:"by_action"`
	ByTier          map[string]int     `json:"by_tier"`
	AvgConfidence   float64            `json:"avg_confidence"`
	AvgLatencyMs    float64            `json:"avg_latency_ms"`
	UsageByTime     map[string]int     `json:"usage_by_time"`
	ConfidenceStats map[string]float64 `json:"confidence_stats"`
}
