package entity

import (
	"time"
)

// Action is the closed set of command actions the dispatcher knows how to
// execute. Values outside the set normalize to ActionUnknown.
type Action string

const (
	ActionMiranda      Action = "miranda"
	ActionStatute      Action = "statute"
	ActionThreat       Action = "threat"
	ActionTactical     Action = "tactical"
	ActionGeneralQuery Action = "general_query"
	ActionUnknown      Action = "unknown"
)

func ParseAction(s string) Action {
	switch Action(s) {
	case ActionMiranda, ActionStatute, ActionThreat, ActionTactical, ActionGeneralQuery:
		return Action(s)
	default:
		return ActionUnknown
	}
}

func (a Action) Valid() bool {
	return a != ActionUnknown && ParseAction(string(a)) == a
}

type ResolutionTier string

const (
	TierOffline ResolutionTier = "offline"
	TierLocal   ResolutionTier = "local"
	TierRemote  ResolutionTier = "remote"
)

type ResolvedCommand struct {
	Command    string            `json:"command"`
	Action     Action            `json:"action"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Tier       ResolutionTier    `json:"resolution_tier"`
	Confidence float64           `json:"confidence,omitempty"`
}

// Param returns the named parameter or "" when absent.
func (r *ResolvedCommand) Param(key string) string {
	if r.Parameters == nil {
		return ""
	}
	return r.Parameters[key]
}

type ExecutionResult struct {
	ResolvedCommand
	Executed bool                   `json:"executed"`
	Result   string                 `json:"result,omitempty"`
	Error    string                 `json:"error,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type CommandRecord struct {
	ID         string                 `json:"id"`
	Transcript string                 `json:"transcript"`
	Corrected  string                 `json:"corrected"`
	Action     Action                 `json:"action"`
	Tier       ResolutionTier         `json:"resolution_tier"`
	Executed   bool                   `json:"executed"`
	Response   string                 `json:"response"`
	Confidence float64                `json:"confidence"`
	LatencyMs  int64                  `json:"latency_ms"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
}

// PipelineState is advisory session state surfaced to the UI. InProgress does
// not serialize concurrent invocations.
type PipelineState struct {
	InProgress  bool   `json:"in_progress"`
	LastCommand string `json:"last_command,omitempty"`
	LastAction  Action `json:"last_action,omitempty"`
	Offline     bool   `json:"offline"`
}
