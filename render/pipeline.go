// Package render projects conversation state into displayable records.
// The pipeline is a pure function of the message list; the ui calls it
// after every mutation and redraws the whole viewport.
package render

import (
	"time"

	"p2pchat/storage"
)

// NoMessagesPlaceholder is shown for an empty conversation.
const NoMessagesPlaceholder = "No messages yet. Start chatting!"

// SegmentKind distinguishes prose from fenced code within one message.
type SegmentKind int

const (
	SegmentProse SegmentKind = iota
	SegmentCode
)

// Segment is one renderable slice of a message. For code segments Raw
// holds the unhighlighted source so it can be copied to the clipboard.
type Segment struct {
	Kind     SegmentKind
	Text     string
	Raw      string
	Language string
}

// Record is one entry of the projected message list.
type Record struct {
	Type        storage.MessageType
	Timestamp   time.Time
	Streaming   bool
	Placeholder bool
	Segments    []Segment
}

// PlainText returns the record's display text with segments joined in order.
func (r Record) PlainText() string {
	var out string
	for _, seg := range r.Segments {
		out += seg.Text
	}
	return out
}

// Project converts an ordered message list into renderable records,
// preserving order exactly. Empty input yields a single placeholder
// record. Assistant text is split into prose and highlighted code
// segments; everything else passes through sanitized.
func Project(messages []storage.Message, width int) []Record {
	if len(messages) == 0 {
		return []Record{{
			Placeholder: true,
			Segments:    []Segment{{Kind: SegmentProse, Text: NoMessagesPlaceholder}},
		}}
	}

	records := make([]Record, 0, len(messages))
	for _, msg := range messages {
		records = append(records, projectMessage(msg, width))
	}
	return records
}

func projectMessage(msg storage.Message, width int) Record {
	rec := Record{
		Type:      msg.Type,
		Timestamp: msg.Timestamp,
		Streaming: msg.Type == storage.MessageStreaming,
	}

	switch msg.Type {
	case storage.MessageAssistant:
		rec.Segments = projectAssistant(msg.Text, width)
	case storage.MessageStreaming:
		// Live text, no markdown pass until finalized.
		rec.Segments = []Segment{{Kind: SegmentProse, Text: Sanitize(msg.Text)}}
	default:
		rec.Segments = []Segment{{Kind: SegmentProse, Text: Sanitize(msg.Text)}}
	}
	return rec
}

func projectAssistant(text string, width int) []Segment {
	segments := SplitFences(text)
	for i, seg := range segments {
		switch seg.Kind {
		case SegmentCode:
			// Sanitize before highlighting or escape bytes inside the
			// fence reach the terminal verbatim. Raw stays untouched for
			// clipboard copy.
			segments[i].Text = Highlight(Sanitize(seg.Raw), seg.Language)
		case SegmentProse:
			segments[i].Text = RenderMarkdown(Sanitize(seg.Raw), width)
		}
	}
	return segments
}
