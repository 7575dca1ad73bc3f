package matcher

import (
	"regexp"
	"strings"

	"ProjectLark/internal/entity"
)

// Rules in this table must stay deterministic and self-contained: they are
// the only resolution path when the device has no connectivity.

var (
	mirandaPattern = regexp.MustCompile(`(?i)\bmiranda\b|\bread\s+(?:him|her|them)\s+(?:his|her|their)\s+rights\b`)
	statutePattern = regexp.MustCompile(`(?i)\b(?:statute|rs|r\.s\.)\s*(\d+[:.]\d+(?:\.\d+)?)\b`)
	languages      = []string{"english", "spanish", "french", "vietnamese", "mandarin", "german", "portuguese"}
)

type offlineMatcher struct{}

func NewOffline() IOfflineMatcher {
	return &offlineMatcher{}
}

func (m *offlineMatcher) Match(transcript string) *entity.ResolvedCommand {
	normalized := strings.ToLower(strings.TrimSpace(transcript))
	if normalized == "" {
		return nil
	}

	if mirandaPattern.MatchString(normalized) {
		params := map[string]string{}
		if lang := detectLanguage(normalized); lang != "" {
			params["language"] = lang
		}
		return &entity.ResolvedCommand{
			Command:    transcript,
			Action:     entity.ActionMiranda,
			Parameters: params,
			Tier:       entity.TierOffline,
			Confidence: 1.0,
		}
	}

	if groups := statutePattern.FindStringSubmatch(normalized); groups != nil {
		statute := strings.ReplaceAll(groups[1], ".", ":")
		return &entity.ResolvedCommand{
			Command:    transcript,
			Action:     entity.ActionStatute,
			Parameters: map[string]string{"statute": statute},
			Tier:       entity.TierOffline,
			Confidence: 1.0,
		}
	}

	return nil
}

func detectLanguage(normalized string) string {
	for _, lang := range languages {
		if strings.Contains(normalized, lang) {
			return lang
		}
	}
	return ""
}
