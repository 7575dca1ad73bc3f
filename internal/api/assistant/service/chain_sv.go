package assistantService

import (
	"regexp"
	"strings"
)

// Chained commands are detected by the literal connectives " and " and
// " then " (and the combined " and then "). The split is intentionally
// naive: a connective inside a quoted statute name or query text still
// splits. Known limitation.
var chainDelimiter = regexp.MustCompile(`(?i)\s+and\s+then\s+|\s+and\s+|\s+then\s+`)

func splitChain(transcript string) []string {
	parts := chainDelimiter.Split(transcript, -1)

	commands := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			commands = append(commands, part)
		}
	}

	if len(commands) == 0 {
		return []string{strings.TrimSpace(transcript)}
	}

	return commands
}
