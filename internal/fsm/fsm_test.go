package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanka58/convertobot/types"
)

func idleSession() types.Session {
	return types.Session{
		ID:     "sess-1",
		UserID: 42,
		ChatID: 42,
		State:  types.StateIdle,
	}
}

func TestStep_ConvertDialogueHappyPath(t *testing.T) {
	sess := idleSession()

	sess, eff := Step(sess, Event{Kind: EventStartConvert})
	require.Equal(t, types.StateAwaitInputFormat, sess.State)
	require.Equal(t, EffectPromptInputFormat, eff.Kind)
	assert.Equal(t, []string{"DOCX", "PDF", "TXT"}, eff.Choices)

	sess, eff = Step(sess, Event{Kind: EventText, Text: "DOCX"})
	require.Equal(t, types.StateAwaitOutputFormat, sess.State)
	require.Equal(t, EffectPromptOutputFormat, eff.Kind)
	assert.Equal(t, "DOCX", sess.InputFormat)
	assert.NotContains(t, eff.Choices, "DOCX", "input format must never be offered as output")

	sess, eff = Step(sess, Event{Kind: EventText, Text: "PDF"})
	require.Equal(t, types.StateAwaitFile, sess.State)
	require.Equal(t, EffectPromptFile, eff.Kind)
	assert.Equal(t, "PDF", sess.OutputFormat)

	_, eff = Step(sess, Event{Kind: EventDocument, FileID: "file-1", FileName: "report.docx"})
	require.Equal(t, EffectStartJob, eff.Kind)
	assert.Equal(t, types.FlowConvert, eff.Flow)
}

func TestStep_UnrecognizedInputKeepsStateAndSelections(t *testing.T) {
	sess := idleSession()
	sess, _ = Step(sess, Event{Kind: EventStartConvert})

	next, eff := Step(sess, Event{Kind: EventText, Text: "вот такой формат"})
	assert.Equal(t, EffectReprompt, eff.Kind)
	assert.Equal(t, sess, next, "guard failure must not mutate the session")

	// То же самое на шаге выбора целевого формата.
	sess, _ = Step(sess, Event{Kind: EventText, Text: "DOCX"})
	next, eff = Step(sess, Event{Kind: EventText, Text: "zip"})
	assert.Equal(t, EffectReprompt, eff.Kind)
	assert.Equal(t, sess, next)
	assert.Equal(t, "DOCX", next.InputFormat, "collected selections survive a re-prompt")
}

func TestStep_SelfConversionRejected(t *testing.T) {
	sess := idleSession()
	sess, _ = Step(sess, Event{Kind: EventStartConvert})
	sess, _ = Step(sess, Event{Kind: EventText, Text: "DOCX"})

	next, eff := Step(sess, Event{Kind: EventText, Text: "DOCX"})
	assert.Equal(t, EffectReprompt, eff.Kind)
	assert.Equal(t, types.StateAwaitOutputFormat, next.State)
	assert.Empty(t, next.OutputFormat)
	assert.Equal(t, "DOCX", next.InputFormat)
}

func TestStep_NonFileMessageWhileAwaitingFile(t *testing.T) {
	sess := idleSession()
	sess, _ = Step(sess, Event{Kind: EventStartConvert})
	sess, _ = Step(sess, Event{Kind: EventText, Text: "DOCX"})
	sess, _ = Step(sess, Event{Kind: EventText, Text: "PDF"})

	next, eff := Step(sess, Event{Kind: EventText, Text: "где кнопка?"})
	assert.Equal(t, EffectReprompt, eff.Kind)
	assert.Equal(t, types.StateAwaitFile, next.State)
}

func TestStep_MediaFlows(t *testing.T) {
	for _, tt := range []struct {
		event EventKind
		flow  types.FlowKind
	}{
		{EventStartExtract, types.FlowExtractAudio},
		{EventStartRemove, types.FlowRemoveAudio},
	} {
		sess := idleSession()
		sess, eff := Step(sess, Event{Kind: tt.event})
		require.Equal(t, types.StateAwaitMedia, sess.State)
		require.Equal(t, EffectPromptMedia, eff.Kind)
		assert.Equal(t, tt.flow, sess.Flow)

		// Документ вместо видео не проходит guard.
		next, eff := Step(sess, Event{Kind: EventDocument, FileID: "f"})
		assert.Equal(t, EffectReprompt, eff.Kind)
		assert.Equal(t, sess, next)

		_, eff = Step(sess, Event{Kind: EventVideo, FileID: "v-1", FileName: "clip.mp4"})
		require.Equal(t, EffectStartJob, eff.Kind)
		assert.Equal(t, tt.flow, eff.Flow)
	}
}

func TestStep_TopLevelCommandSupersedesAnyState(t *testing.T) {
	sess := idleSession()
	sess, _ = Step(sess, Event{Kind: EventStartExtract})
	require.Equal(t, types.StateAwaitMedia, sess.State)

	// Сценарий 4: смена сценария на полпути сбрасывает выборы целиком.
	sess, eff := Step(sess, Event{Kind: EventStartConvert})
	assert.Equal(t, types.StateAwaitInputFormat, sess.State)
	assert.Equal(t, EffectPromptInputFormat, eff.Kind)
	assert.Equal(t, types.FlowConvert, sess.Flow)
	assert.Empty(t, sess.InputFormat)
	assert.Empty(t, sess.OutputFormat)

	sess, _ = Step(sess, Event{Kind: EventText, Text: "DOCX"})
	sess, _ = Step(sess, Event{Kind: EventStartRemove})
	assert.Equal(t, types.StateAwaitMedia, sess.State)
	assert.Empty(t, sess.InputFormat, "superseding discards collected selections")
}

func TestStep_IdleIgnoresStrayInput(t *testing.T) {
	sess := idleSession()
	next, eff := Step(sess, Event{Kind: EventText, Text: "привет"})
	assert.Equal(t, EffectNone, eff.Kind)
	assert.Equal(t, sess, next)

	next, eff = Step(sess, Event{Kind: EventDocument, FileID: "f"})
	assert.Equal(t, EffectNone, eff.Kind)
	assert.Equal(t, sess, next)
}

func TestStep_ProcessingReportsBusy(t *testing.T) {
	sess := idleSession()
	sess.State = types.StateProcessing

	next, eff := Step(sess, Event{Kind: EventDocument, FileID: "f"})
	assert.Equal(t, EffectBusy, eff.Kind)
	assert.Equal(t, sess, next)

	// Команда верхнего уровня пробивает и занятость.
	next, eff = Step(sess, Event{Kind: EventStartConvert})
	assert.Equal(t, types.StateAwaitInputFormat, next.State)
	assert.Equal(t, EffectPromptInputFormat, eff.Kind)
}
