package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"p2pchat/config"
)

// handleStreamingMessage routes stream events into the accumulator. Every
// event carries the target tagged at session start; the accumulator drops
// anything stale (conversation switched, deleted, already terminal), so a
// late delta can never land in the wrong conversation.
func (a AppView) handleStreamingMessage(msg tea.Msg) (AppView, tea.Cmd) {
	acc := a.dataModel.Stream
	if acc == nil {
		config.Log.Debugf("stream event with no active session, dropping")
		return a, nil
	}

	switch msg := msg.(type) {
	case streamDeltaMsg:
		acc.Delta(msg.Target, msg.Text)
		a.updateViewportContent(true)
		return a, a.dataModel.NextStreamEvent()

	case streamToolCallMsg:
		for _, name := range msg.Names {
			acc.ToolCall(msg.Target, name)
		}
		a.updateViewportContent(true)
		return a, a.dataModel.NextStreamEvent()

	case streamDoneMsg:
		config.Log.Debugf("stream done, %d chars", len(msg.FullResponse))
		acc.Done(msg.Target, msg.FullResponse)
		a.dataModel.EndStream()
		a.textarea.Focus()
		a.updateViewportContent(true)
		return a, nil

	case streamErrorMsg:
		config.Log.Warnf("stream error: %v", msg.Err)
		acc.Fail(msg.Target, msg.Err.Error())
		a.dataModel.EndStream()
		a.textarea.Focus()
		a.updateViewportContent(true)
		return a, nil
	}

	return a, nil
}
