package matcher

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"ProjectLark/internal/entity"
)

// matchThreshold is the minimum confidence for the local tier to claim a
// transcript instead of deferring to remote interpretation.
const matchThreshold = 0.35

var (
	bareStatutePattern = regexp.MustCompile(`\b(\d+[:.]\d+(?:\.\d+)?)\b`)
	locationPattern    = regexp.MustCompile(`(?i)\b(?:at|near|on|by)\s+(.{3,})$`)
)

type localMatcher struct {
	mappings  []CommandMapping
	stopWords map[string]bool
}

func New() IMatcher {
	stopWords := map[string]bool{
		"the": true, "a": true, "an": true, "to": true, "of": true,
		"me": true, "my": true, "i": true, "is": true, "it": true,
		"please": true, "can": true, "you": true, "could": true,
		"would": true, "give": true, "tell": true, "show": true,
		"what": true, "whats": true, "for": true, "this": true,
	}

	return &localMatcher{
		mappings:  defaultCommandMappings(),
		stopWords: stopWords,
	}
}

func (m *localMatcher) Match(transcript string) *entity.ResolvedCommand {
	resolved, _ := m.Explain(transcript)
	return resolved
}

// Explain returns the resolution plus the per-keyword evidence, used by the
// matcher dry-run endpoint.
func (m *localMatcher) Explain(transcript string) (*entity.ResolvedCommand, []MatchDetail) {
	cleanText := m.cleanText(transcript)
	if cleanText == "" {
		return nil, nil
	}

	tokens := m.extractTokens(cleanText)

	type scored struct {
		mapping    CommandMapping
		confidence float64
		details    []MatchDetail
	}

	var candidates []scored
	for _, mapping := range m.mappings {
		confidence, details := m.score(tokens, cleanText, mapping)
		if confidence >= matchThreshold {
			candidates = append(candidates, scored{mapping: mapping, confidence: confidence, details: details})
		}
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].confidence > candidates[j].confidence
	})

	best := candidates[0]
	resolved := &entity.ResolvedCommand{
		Command:    transcript,
		Action:     best.mapping.Action,
		Parameters: extractParameters(best.mapping.Action, transcript),
		Tier:       entity.TierLocal,
		Confidence: best.confidence,
	}

	return resolved, best.details
}

func (m *localMatcher) score(tokens []string, fullText string, mapping CommandMapping) (float64, []MatchDetail) {
	var details []MatchDetail
	totalScore := 0.0
	maxPossibleScore := 0.0

	for _, keyword := range mapping.Keywords {
		for _, token := range tokens {
			if strings.EqualFold(token, keyword) {
				details = append(details, MatchDetail{Keyword: keyword, Score: 1.0, Type: "exact"})
				totalScore += 1.0
			}
		}
		maxPossibleScore += 1.0
	}

	for _, synonym := range mapping.Synonyms {
		similarity := m.similarity(fullText, synonym)
		if similarity > 0.6 {
			details = append(details, MatchDetail{Keyword: synonym, Score: similarity, Type: "synonym"})
			totalScore += similarity * 1.2
		}
	}

	for _, keyword := range mapping.Keywords {
		for _, token := range tokens {
			similarity := m.similarity(token, keyword)
			if similarity > 0.5 && similarity < 1.0 {
				details = append(details, MatchDetail{Keyword: keyword, Score: similarity * 0.7, Type: "fuzzy"})
				totalScore += similarity * 0.7
			}
		}
	}

	confidence := totalScore / math.Max(maxPossibleScore, 1.0)
	if len(details) > 1 {
		confidence *= 1.1
	}
	confidence = math.Min(confidence, 1.0)

	return confidence, details
}

func (m *localMatcher) similarity(text1, text2 string) float64 {
	norm1 := m.cleanText(text1)
	norm2 := m.cleanText(text2)

	if norm1 == norm2 {
		return 1.0
	}

	if strings.Contains(norm1, norm2) || strings.Contains(norm2, norm1) {
		shorter, longer := norm1, norm2
		if len(norm1) > len(norm2) {
			shorter, longer = norm2, norm1
		}
		return float64(len(shorter)) / float64(len(longer))
	}

	distance := levenshteinDistance(norm1, norm2)
	maxLen := math.Max(float64(len(norm1)), float64(len(norm2)))
	if maxLen == 0 {
		return 0.0
	}

	return math.Max(0, 1.0-(float64(distance)/maxLen))
}

func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}

	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}

			matrix[i][j] = minOf(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}

func minOf(a, b, c int) int {
	if a < b && a < c {
		return a
	} else if b < c {
		return b
	}
	return c
}

func (m *localMatcher) cleanText(text string) string {
	text = strings.ToLower(text)

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, _ := transform.String(t, text)

	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == ':' || r == '.' {
			return r
		}
		return ' '
	}, result)

	words := strings.Fields(result)
	return strings.Join(words, " ")
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

func (m *localMatcher) extractTokens(text string) []string {
	words := strings.Fields(text)
	var tokens []string

	for _, word := range words {
		word = strings.TrimSpace(word)
		if len(word) > 1 && !m.stopWords[word] {
			tokens = append(tokens, word)
		}
	}

	return tokens
}

func extractParameters(action entity.Action, transcript string) map[string]string {
	params := map[string]string{}
	normalized := strings.ToLower(transcript)

	switch action {
	case entity.ActionMiranda:
		if lang := detectLanguage(normalized); lang != "" {
			params["language"] = lang
		}
	case entity.ActionStatute:
		if groups := statutePattern.FindStringSubmatch(normalized); groups != nil {
			params["statute"] = strings.ReplaceAll(groups[1], ".", ":")
		} else if groups := bareStatutePattern.FindStringSubmatch(normalized); groups != nil {
			params["statute"] = strings.ReplaceAll(groups[1], ".", ":")
		}
	case entity.ActionThreat:
		if groups := locationPattern.FindStringSubmatch(strings.TrimSpace(transcript)); groups != nil {
			params["location"] = strings.TrimSpace(groups[1])
		}
		params["threat"] = transcript
	case entity.ActionGeneralQuery:
		params["query"] = transcript
	}

	return params
}

func defaultCommandMappings() []CommandMapping {
	return []CommandMapping{
		{
			Action:      entity.ActionMiranda,
			Keywords:    []string{"miranda", "rights", "mirandize"},
			Synonyms:    []string{"read miranda rights", "read him his rights", "read her her rights", "advise of rights"},
			Description: "Read Miranda rights, optionally in a specific language",
		},
		{
			Action:      entity.ActionStatute,
			Keywords:    []string{"statute", "rs", "law", "ordinance", "code"},
			Synonyms:    []string{"look up statute", "statute lookup", "louisiana revised statute", "what is rs", "penal code"},
			Description: "Look up statute text by number",
		},
		{
			Action:      entity.ActionThreat,
			Keywords:    []string{"threat", "danger", "hostile", "risk", "suspicious"},
			Synonyms:    []string{"threat assessment", "assess the threat", "is it safe", "scan the area", "danger level"},
			Description: "Assess the current threat situation",
		},
		{
			Action:      entity.ActionTactical,
			Keywords:    []string{"tactical", "backup", "perimeter", "pursuit", "cover", "approach"},
			Synonyms:    []string{"tactical advice", "request backup", "set up a perimeter", "how should i approach"},
			Description: "Tactical guidance for the current situation",
		},
	}
}
