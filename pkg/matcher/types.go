package matcher

import (
	"ProjectLark/internal/entity"
)

// CommandMapping describes one recognizable command family for the local
// fuzzy tier.
type CommandMapping struct {
	Action      entity.Action `json:"action"`
	Keywords    []string      `json:"keywords"`
	Synonyms    []string      `json:"synonyms"`
	Description string        `json:"description"`
}

type MatchDetail struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
	Type    string  `json:"type"` // exact, synonym, fuzzy
}

// IMatcher is the local pattern tier: a pure in-process transcript matcher
// that returns nil when nothing is recognized with enough confidence.
type IMatcher interface {
	Match(transcript string) *entity.ResolvedCommand
	Explain(transcript string) (*entity.ResolvedCommand, []MatchDetail)
}

// IOfflineMatcher is the zero-connectivity tier: a deterministic rule table
// for commands that must work without any network.
type IOfflineMatcher interface {
	Match(transcript string) *entity.ResolvedCommand
}
