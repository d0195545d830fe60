package ui

import (
	"fmt"
	"strings"
	"time"

	"p2pchat/render"
	"p2pchat/storage"
)

func (a *AppView) updateViewportContent(gotoBottom bool) {
	var messages []storage.Message
	if conv := a.dataModel.Store.Current(); conv != nil {
		messages = conv.Messages
	}

	records := render.Project(messages, a.width)

	var content strings.Builder
	for _, rec := range records {
		if rec.Placeholder {
			content.WriteString(DimStyle.Render(rec.PlainText()))
			content.WriteString("\n")
			continue
		}
		content.WriteString(a.formatRecord(rec))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func (a *AppView) formatRecord(rec render.Record) string {
	switch rec.Type {
	case storage.MessageUser:
		timestamp := DimStyle.Render(rec.Timestamp.Format("[15:04]"))
		return formatUserMessage(timestamp, UserStyle.Render("You"), rec.PlainText())

	case storage.MessageStreaming:
		timestamp := DimStyle.Render(time.Now().Format("[15:04]"))
		role := AssistantStyle.Render("Assistant")

		// Spinner until the first delta, then live text with a cursor
		body := a.loadingSpinner.View()
		if text := rec.PlainText(); text != "" {
			body = text + "▋"
		}
		return fmt.Sprintf("%s %s\n%s\n\n", timestamp, role, body)

	case storage.MessageError:
		timestamp := DimStyle.Render(rec.Timestamp.Format("[15:04]"))
		role := ErrorStyle.Render("Error")
		return fmt.Sprintf("%s %s\n%s\n\n", timestamp, role, ErrorStyle.Render("❌ "+rec.PlainText()))

	default:
		timestamp := DimStyle.Render(rec.Timestamp.Format("[15:04]"))
		role := AssistantStyle.Render("Assistant")
		return fmt.Sprintf("%s %s\n%s\n\n", timestamp, role, rec.PlainText())
	}
}

// formatUserMessage prefixes every line of a user message with a green
// vertical bar.
func formatUserMessage(timestamp, role, content string) string {
	greenBold := "\x1b[32;1m"
	reset := "\x1b[0m"
	bar := greenBold + "┃" + reset

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")

	return result.String()
}
