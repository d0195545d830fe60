package storage

import (
	"regexp"
	"strings"
)

// HighlightSpan marks one matched range within a title, as [start, end)
// byte offsets.
type HighlightSpan struct {
	Start int
	End   int
}

// ConversationMatch is one filtered conversation plus the highlight spans
// for any query occurrences in its title.
type ConversationMatch struct {
	Conversation *Conversation
	TitleSpans   []HighlightSpan
}

// FilterConversations narrows a conversation set by a case-insensitive
// substring query over titles and message bodies. An empty query returns the
// full set. Order follows the store's most-recently-updated-first sort. The
// query is escaped before any pattern use so user input is never treated as
// a regular expression.
func (s *Store) FilterConversations(query string) []ConversationMatch {
	convs := s.Conversations()

	if query == "" {
		matches := make([]ConversationMatch, 0, len(convs))
		for _, conv := range convs {
			matches = append(matches, ConversationMatch{Conversation: conv})
		}
		return matches
	}

	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(query))
	queryLower := strings.ToLower(query)

	var matches []ConversationMatch
	for _, conv := range convs {
		spans := titleSpans(pattern, conv.Title)
		if len(spans) > 0 {
			matches = append(matches, ConversationMatch{Conversation: conv, TitleSpans: spans})
			continue
		}
		if anyMessageContains(conv.Messages, queryLower) {
			matches = append(matches, ConversationMatch{Conversation: conv})
		}
	}
	return matches
}

func titleSpans(pattern *regexp.Regexp, title string) []HighlightSpan {
	var spans []HighlightSpan
	for _, loc := range pattern.FindAllStringIndex(title, -1) {
		spans = append(spans, HighlightSpan{Start: loc[0], End: loc[1]})
	}
	return spans
}

func anyMessageContains(messages []Message, queryLower string) bool {
	for _, msg := range messages {
		if strings.Contains(strings.ToLower(msg.Text), queryLower) {
			return true
		}
	}
	return false
}

// ClipSpans restricts spans to the first limit bytes of a title, for list
// views that truncate before highlighting. Spans past the boundary are
// dropped; a span straddling it is cut at the boundary.
func ClipSpans(spans []HighlightSpan, limit int) []HighlightSpan {
	var clipped []HighlightSpan
	for _, span := range spans {
		if span.Start >= limit {
			continue
		}
		if span.End > limit {
			span.End = limit
		}
		clipped = append(clipped, span)
	}
	return clipped
}

// HighlightTitle renders a matched title with each span wrapped by the given
// mark function, for display in list views.
func HighlightTitle(title string, spans []HighlightSpan, mark func(string) string) string {
	if len(spans) == 0 {
		return title
	}

	var b strings.Builder
	prev := 0
	for _, span := range spans {
		if span.Start < prev || span.End > len(title) {
			continue
		}
		b.WriteString(title[prev:span.Start])
		b.WriteString(mark(title[span.Start:span.End]))
		prev = span.End
	}
	b.WriteString(title[prev:])
	return b.String()
}
