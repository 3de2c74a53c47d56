package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStrategy(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected Strategy
	}{
		{
			name:     "exact transcript label",
			text:     "TRANSCRIPT_ONLY",
			expected: TranscriptOnly,
		},
		{
			name:     "label embedded in surrounding text",
			text:     "Kararım: BOTH_SOURCES olmalı.",
			expected: BothSources,
		},
		{
			name:     "lowercase label",
			text:     "both_sources",
			expected: BothSources,
		},
		{
			name:     "book label with whitespace",
			text:     "  BOOK_ONLY\n",
			expected: BookOnly,
		},
		{
			name:     "explicit no search",
			text:     "NO_SEARCH",
			expected: NoSearch,
		},
		{
			name:     "unrecognized output defaults to no search",
			text:     "bilmiyorum, belki arama gerekebilir",
			expected: NoSearch,
		},
		{
			name:     "empty string defaults to no search",
			text:     "",
			expected: NoSearch,
		},
		{
			name:     "transcript label wins over both",
			text:     "TRANSCRIPT_ONLY veya BOTH_SOURCES",
			expected: TranscriptOnly,
		},
		{
			name:     "book label wins over both",
			text:     "BOOK_ONLY ya da BOTH_SOURCES",
			expected: BookOnly,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseStrategy(tc.text))
		})
	}
}
