package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// SplitFences splits message text into prose and fenced code segments.
// A fence opens with ``` plus an optional language tag on its own line
// and closes with ```. An unterminated fence runs to the end of input.
// Raw carries the original source for every segment; code segments are
// highlighted later, prose segments keep their literal whitespace.
func SplitFences(text string) []Segment {
	var segments []Segment
	var prose strings.Builder
	var code strings.Builder
	var language string
	inFence := false

	flushProse := func() {
		if prose.Len() > 0 {
			segments = append(segments, Segment{Kind: SegmentProse, Raw: prose.String()})
			prose.Reset()
		}
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !inFence && strings.HasPrefix(trimmed, "```") {
			flushProse()
			inFence = true
			language = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			code.Reset()
			continue
		}

		if inFence && trimmed == "```" {
			segments = append(segments, Segment{
				Kind:     SegmentCode,
				Raw:      code.String(),
				Language: language,
			})
			inFence = false
			continue
		}

		if inFence {
			code.WriteString(line)
			code.WriteString("\n")
			continue
		}

		prose.WriteString(line)
		if i < len(lines)-1 {
			prose.WriteString("\n")
		}
	}

	if inFence {
		// Unterminated fence, keep what arrived so far as code.
		segments = append(segments, Segment{
			Kind:     SegmentCode,
			Raw:      code.String(),
			Language: language,
		})
	} else {
		flushProse()
	}

	return segments
}

// Highlight renders source with terminal ANSI colors. The language tag
// picks the lexer; undetermined tags fall back to content analysis and
// finally to plain text.
func Highlight(source, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return buf.String()
}
