package orchestrator

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ivanka58/convertobot/internal/fsm"
	"github.com/ivanka58/convertobot/internal/jobs"
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
	EventVideoNote    EventKind = "video_note"
)

// Event представляет транспортное событие, уже разобранное адаптером.
type Event struct {
	UserID   int64
	ChatID   int64
	Kind     EventKind
	Text     string
	FileID   string
	FileName string
}

// Prompter отправляет подсказки и клавиатуры выбора через транспорт.
type Prompter interface {
	PromptChoices(ctx context.Context, chatID int64, text string, choices []string) error
	Send(ctx context.Context, chatID int64, text string) error
}

type Messages struct {
	ChooseInputFormat  string
	ChooseOutputFormat string
	SendFile           string
	SendVideoExtract   string
	SendVideoRemove    string
	Busy               string
	JobAccepted        string
	FailureText        func(kind jobs.ErrorKind) string
}

// Orchestrator сериализует обработку по пользователю: события одного
// userID никогда не накладываются друг на друга, разные пользователи
// обрабатываются независимо.
type Orchestrator struct {
	sessions types.SessionStore
	runner   *jobs.Runner
	prompter Prompter
	history  types.HistoryStore
	msgs     Messages

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
	gates map[int64]*sync.Mutex

	jobWG sync.WaitGroup
}

func New(sessions types.SessionStore, runner *jobs.Runner, prompter Prompter, history types.HistoryStore, msgs Messages) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		runner:   runner,
		prompter: prompter,
		history:  history,
		msgs:     msgs,
		locks:    make(map[int64]*sync.Mutex),
		gates:    make(map[int64]*sync.Mutex),
	}
}

// Wait дожидается завершения запущенных заданий. Для корректной
// остановки: уборка временных файлов должна успеть отработать.
func (o *Orchestrator) Wait() {
	o.jobWG.Wait()
}

func (o *Orchestrator) userLock(userID int64) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	l, ok := o.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		o.locks[userID] = l
	}
	return l
}

// jobGate выдаёт второй замок на пользователя: не более одного задания
// в полёте. Отдельный от userLock, чтобы долгое задание не блокировало
// обработку новых событий этого же пользователя.
func (o *Orchestrator) jobGate(userID int64) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	g, ok := o.gates[userID]
	if !ok {
		g = &sync.Mutex{}
		o.gates[userID] = g
	}
	return g
}

func (o *Orchestrator) HandleEvent(ctx context.Context, ev Event) {
	lock := o.userLock(ev.UserID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := o.sessions.Get(ev.UserID)
	if err != nil {
		sess = o.newSession(ev)
	}
	sess.ChatID = ev.ChatID

	fsmEv, topLevel := mapEvent(ev)
	if topLevel {
		// Новая команда верхнего уровня вытесняет сессию целиком:
		// свежий ID отвязывает её от ещё не завершившегося задания.
		sess = o.newSession(ev)
	}

	next, eff := fsm.Step(*sess, fsmEv)
	next.UpdatedAt = time.Now()

	if eff.Kind == fsm.EffectStartJob {
		o.startJob(ctx, &next, ev, eff.Flow)
		return
	}

	if err := o.sessions.Put(&next); err != nil {
		log.Printf("orchestrator: persist session for user %d: %v", ev.UserID, err)
	}
	o.emitPrompt(ctx, &next, eff)
}

func (o *Orchestrator) newSession(ev Event) *types.Session {
	now := time.Now()
	return &types.Session{
		ID:        uuid.New().String(),
		UserID:    ev.UserID,
		ChatID:    ev.ChatID,
		State:     types.StateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func mapEvent(ev Event) (fsm.Event, bool) {
	switch ev.Kind {
	case EventStartConvert:
		return fsm.Event{Kind: fsm.EventStartConvert}, true
	case EventStartExtract:
		return fsm.Event{Kind: fsm.EventStartExtract}, true
	case EventStartRemove:
		return fsm.Event{Kind: fsm.EventStartRemove}, true
	case EventDocument:
		return fsm.Event{Kind: fsm.EventDocument, FileID: ev.FileID, FileName: ev.FileName}, false
	case EventVideo, EventVideoNote:
		return fsm.Event{Kind: fsm.EventVideo, FileID: ev.FileID, FileName: ev.FileName}, false
	default:
		return fsm.Event{Kind: fsm.EventText, Text: ev.Text}, false
	}
}

func (o *Orchestrator) emitPrompt(ctx context.Context, sess *types.Session, eff fsm.Effect) {
	var err error
	switch eff.Kind {
	case fsm.EffectNone:
		return
	case fsm.EffectPromptInputFormat:
		err = o.prompter.PromptChoices(ctx, sess.ChatID, o.msgs.ChooseInputFormat, eff.Choices)
	case fsm.EffectPromptOutputFormat:
		err = o.prompter.PromptChoices(ctx, sess.ChatID, o.msgs.ChooseOutputFormat, eff.Choices)
	case fsm.EffectPromptFile:
		err = o.prompter.Send(ctx, sess.ChatID, o.msgs.SendFile)
	case fsm.EffectPromptMedia:
		text := o.msgs.SendVideoExtract
		if eff.Flow == types.FlowRemoveAudio {
			text = o.msgs.SendVideoRemove
		}
		err = o.prompter.Send(ctx, sess.ChatID, text)
	case fsm.EffectReprompt:
		// Guard не прошёл: состояние и собранные выборы не тронуты,
		// просто повторяем ту же подсказку.
		if len(eff.Choices) > 0 {
			err = o.prompter.PromptChoices(ctx, sess.ChatID, o.repromptText(sess), eff.Choices)
		} else {
			err = o.prompter.Send(ctx, sess.ChatID, o.repromptText(sess))
		}
	case fsm.EffectBusy:
		err = o.prompter.Send(ctx, sess.ChatID, o.msgs.Busy)
	}
	if err != nil {
		log.Printf("orchestrator: prompt to chat %d: %v", sess.ChatID, err)
	}
}

func (o *Orchestrator) repromptText(sess *types.Session) string {
	switch sess.State {
	case types.StateAwaitInputFormat:
		return o.msgs.ChooseInputFormat
	case types.StateAwaitOutputFormat:
		return o.msgs.ChooseOutputFormat
	case types.StateAwaitFile:
		return o.msgs.SendFile
	case types.StateAwaitMedia:
		if sess.Flow == types.FlowRemoveAudio {
			return o.msgs.SendVideoRemove
		}
		return o.msgs.SendVideoExtract
	default:
		return o.msgs.Busy
	}
}

func (o *Orchestrator) startJob(ctx context.Context, sess *types.Session, ev Event, flow types.FlowKind) {
	sess.State = types.StateProcessing
	if err := o.sessions.Put(sess); err != nil {
		log.Printf("orchestrator: persist session for user %d: %v", sess.UserID, err)
	}

	job := &types.ConversionJob{
		ID:           uuid.New().String(),
		SessionID:    sess.ID,
		UserID:       sess.UserID,
		ChatID:       sess.ChatID,
		Flow:         flow,
		InputFormat:  jobInputFormat(sess, ev, flow),
		OutputFormat: sess.OutputFormat,
		FileID:       ev.FileID,
		FileName:     ev.FileName,
		Status:       types.JobQueued,
		CreatedAt:    time.Now(),
	}

	if err := o.prompter.Send(ctx, sess.ChatID, o.msgs.JobAccepted); err != nil {
		log.Printf("orchestrator: prompt to chat %d: %v", sess.ChatID, err)
	}

	o.jobWG.Add(1)
	go o.runJob(ctx, job)
}

func jobInputFormat(sess *types.Session, ev Event, flow types.FlowKind) string {
	if flow == types.FlowConvert {
		return sess.InputFormat
	}
	// Для медиа-операций формат берётся из имени вложения,
	// по умолчанию считается обычное телеграмовское видео.
	if ext := fileExt(ev.FileName); ext != "" {
		return ext
	}
	return "mp4"
}

func fileExt(name string) string {
	return strings.TrimPrefix(filepath.Ext(name), ".")
}

// runJob исполняет задание под персональным шлюзом пользователя:
// пока одно задание не дошло до уборки, следующее не стартует.
// События пользователя при этом продолжают обрабатываться.
func (o *Orchestrator) runJob(ctx context.Context, job *types.ConversionJob) {
	defer o.jobWG.Done()

	gate := o.jobGate(job.UserID)
	gate.Lock()
	defer gate.Unlock()

	started := time.Now()
	outcome := o.runner.Run(ctx, job)

	if !outcome.Succeeded() {
		if err := o.prompter.Send(ctx, job.ChatID, o.msgs.FailureText(outcome.Kind)); err != nil {
			log.Printf("orchestrator: failure notice to chat %d: %v", job.ChatID, err)
		}
	}

	o.recordHistory(ctx, job, outcome, time.Since(started))

	// Сессию убираем только если её не вытеснила новая: устаревшее
	// задание не имеет права трогать уже начатый следующий диалог.
	// Удаление идёт под замком событий пользователя, иначе идущий
	// параллельно HandleEvent может записать уже удалённую сессию обратно.
	lock := o.userLock(job.UserID)
	lock.Lock()
	cleared, err := o.sessions.ClearIf(job.UserID, job.SessionID)
	lock.Unlock()
	if err != nil {
		log.Printf("orchestrator: clear session for user %d: %v", job.UserID, err)
	}
	if !cleared {
		log.Printf("orchestrator: session %s superseded, job %s result delivered to chat only", job.SessionID, job.ID)
	}
}

func (o *Orchestrator) recordHistory(ctx context.Context, job *types.ConversionJob, outcome jobs.Outcome, took time.Duration) {
	if o.history == nil {
		return
	}
	rec := types.JobRecord{
		UserID:       job.UserID,
		Flow:         job.Flow,
		InputFormat:  job.InputFormat,
		OutputFormat: job.OutputFormat,
		FileName:     job.FileName,
		Succeeded:    outcome.Succeeded(),
		DurationMS:   took.Milliseconds(),
		CreatedAt:    time.Now(),
	}
	if outcome.Err != nil {
		rec.Error = outcome.Err.Error()
	}
	if err := o.history.RecordJob(ctx, rec); err != nil {
		log.Printf("orchestrator: record history for user %d: %v", job.UserID, err)
	}
}
