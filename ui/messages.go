package ui

import (
	"p2pchat/model"
)

type Message = model.Message

type streamDeltaMsg = model.StreamDeltaMsg
type streamToolCallMsg = model.StreamToolCallMsg
type streamDoneMsg = model.StreamDoneMsg
type streamErrorMsg = model.StreamErrorMsg
type modelsListMsg = model.ModelsListMsg
type conversationExportedMsg = model.ConversationExportedMsg
type conversationImportedMsg = model.ConversationImportedMsg
type globalSearchResultsMsg = model.GlobalSearchResultsMsg
