package agent

import "strings"

// Strategy is the model-chosen retrieval plan for a single query.
type Strategy string

const (
	TranscriptOnly Strategy = "TRANSCRIPT_ONLY"
	BookOnly       Strategy = "BOOK_ONLY"
	BothSources    Strategy = "BOTH_SOURCES"
	NoSearch       Strategy = "NO_SEARCH"
)

// ParseStrategy resolves the model's decision text to a Strategy by
// case-insensitive substring match. Match order is fixed:
// TRANSCRIPT_ONLY, BOOK_ONLY, BOTH_SOURCES; anything unrecognized
// defaults to NoSearch so a malformed decision never fails the query.
func ParseStrategy(text string) Strategy {
	decision := strings.ToUpper(strings.TrimSpace(text))

	switch {
	case strings.Contains(decision, string(TranscriptOnly)):
		return TranscriptOnly
	case strings.Contains(decision, string(BookOnly)):
		return BookOnly
	case strings.Contains(decision, string(BothSources)):
		return BothSources
	default:
		return NoSearch
	}
}
