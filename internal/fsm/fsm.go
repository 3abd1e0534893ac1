package fsm

import (
	"github.com/ivanka58/convertobot/internal/catalog"
	"github.com/ivanka58/convertobot/types"
)

type EventKind string

const (
	EventStartConvert EventKind = "start_convert"
	EventStartExtract EventKind = "start_extract"
	EventStartRemove  EventKind = "start_remove"
	EventText         EventKind = "text"
	EventDocument     EventKind = "document"
	EventVideo        EventKind = "video"
)

// Event представляет входное событие диалога, очищенное от транспортных деталей.
type Event struct {
	Kind     EventKind
	Text     string
	FileID   string
	FileName string
}

type EffectKind string

const (
	// EffectNone: переход без побочного действия, транспорт молчит.
	EffectNone EffectKind = "none"
	// EffectReprompt: ввод не прошёл проверку, транспорт повторяет подсказку.
	EffectReprompt           EffectKind = "reprompt"
	EffectPromptInputFormat  EffectKind = "prompt_input_format"
	EffectPromptOutputFormat EffectKind = "prompt_output_format"
	EffectPromptFile         EffectKind = "prompt_file"
	EffectPromptMedia        EffectKind = "prompt_media"
	// EffectStartJob: диалог собран, параметры готовы для JobRunner.
	EffectStartJob EffectKind = "start_job"
	EffectBusy     EffectKind = "busy"
)

type Effect struct {
	Kind    EffectKind
	Choices []string
	Flow    types.FlowKind
}

// Step выполняет чистый переход: (сессия, событие) -> (сессия, эффект).
// Сессия передаётся по значению, проваленный guard возвращает её без изменений.
func Step(sess types.Session, ev Event) (types.Session, Effect) {
	switch ev.Kind {
	case EventStartConvert:
		sess = reset(sess, types.StateAwaitInputFormat, types.FlowConvert)
		return sess, Effect{Kind: EffectPromptInputFormat, Choices: catalog.Formats(catalog.GroupDocuments)}
	case EventStartExtract:
		sess = reset(sess, types.StateAwaitMedia, types.FlowExtractAudio)
		return sess, Effect{Kind: EffectPromptMedia, Flow: types.FlowExtractAudio}
	case EventStartRemove:
		sess = reset(sess, types.StateAwaitMedia, types.FlowRemoveAudio)
		return sess, Effect{Kind: EffectPromptMedia, Flow: types.FlowRemoveAudio}
	}

	switch sess.State {
	case types.StateIdle:
		return sess, Effect{Kind: EffectNone}

	case types.StateAwaitInputFormat:
		if ev.Kind != EventText {
			return sess, Effect{Kind: EffectReprompt, Choices: catalog.Formats(catalog.GroupDocuments)}
		}
		format, ok := catalog.Normalize(ev.Text)
		if !ok || catalog.GroupOf(format) != catalog.GroupDocuments {
			return sess, Effect{Kind: EffectReprompt, Choices: catalog.Formats(catalog.GroupDocuments)}
		}
		sess.InputFormat = format
		sess.State = types.StateAwaitOutputFormat
		return sess, Effect{Kind: EffectPromptOutputFormat, Choices: catalog.OutputOptions(format)}

	case types.StateAwaitOutputFormat:
		if ev.Kind != EventText {
			return sess, Effect{Kind: EffectReprompt, Choices: catalog.OutputOptions(sess.InputFormat)}
		}
		format, ok := catalog.Normalize(ev.Text)
		if !ok || !catalog.IsConvertiblePair(sess.InputFormat, format) {
			return sess, Effect{Kind: EffectReprompt, Choices: catalog.OutputOptions(sess.InputFormat)}
		}
		sess.OutputFormat = format
		sess.State = types.StateAwaitFile
		return sess, Effect{Kind: EffectPromptFile}

	case types.StateAwaitFile:
		if ev.Kind != EventDocument || ev.FileID == "" {
			return sess, Effect{Kind: EffectReprompt}
		}
		return sess, Effect{Kind: EffectStartJob, Flow: types.FlowConvert}

	case types.StateAwaitMedia:
		if ev.Kind != EventVideo || ev.FileID == "" {
			return sess, Effect{Kind: EffectReprompt, Flow: sess.Flow}
		}
		return sess, Effect{Kind: EffectStartJob, Flow: sess.Flow}

	case types.StateProcessing:
		return sess, Effect{Kind: EffectBusy}
	}

	return sess, Effect{Kind: EffectNone}
}

func reset(sess types.Session, state types.SessionState, flow types.FlowKind) types.Session {
	sess.State = state
	sess.Flow = flow
	sess.InputFormat = ""
	sess.OutputFormat = ""
	return sess
}
