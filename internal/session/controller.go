package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/futig/docqa-client/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DefaultInitGrace bounds how long an upload waits for the initial index clear.
const DefaultInitGrace = 3 * time.Second

// Controller owns the state of one chat session: the file selection, its upload
// status, the pending question and the transcript. The mutex is never held
// across a backend call.
type Controller struct {
	id      string
	backend Backend

	initOnce    sync.Once
	initStarted atomic.Bool
	initDone    chan struct{}
	initGrace   time.Duration

	mu             sync.Mutex
	files          []entity.SelectedFile
	generation     uint64
	uploadState    UploadState
	uploadErr      *entity.UploadError
	awaitingAnswer bool
	draft          string

	transcript *Transcript
}

// Status is a point-in-time view of a session.
type Status struct {
	ID          string
	Files       []string
	UploadState UploadState
	UploadErr   *entity.UploadError
	Gate        Gate
	Entries     int
}

type Option func(*Controller)

// WithInitGrace overrides DefaultInitGrace.
func WithInitGrace(d time.Duration) Option {
	return func(c *Controller) {
		c.initGrace = d
	}
}

func NewController(backend Backend, opts ...Option) *Controller {
	c := &Controller{
		id:          uuid.NewString(),
		backend:     backend,
		initDone:    make(chan struct{}),
		initGrace:   DefaultInitGrace,
		uploadState: UploadNotStarted,
		transcript:  newTranscript(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) ID() string {
	return c.id
}

func (c *Controller) withSession(ctx context.Context) context.Context {
	return ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(zap.String("session_id", c.id)))
}

// Initialize clears the backend index in the background. Only the first call
// has an effect; a failure is logged and otherwise ignored.
func (c *Controller) Initialize(ctx context.Context) {
	c.initOnce.Do(func() {
		c.initStarted.Store(true)
		ctx = c.withSession(context.WithoutCancel(ctx))

		go func() {
			defer close(c.initDone)

			if err := c.backend.ClearIndex(ctx); err != nil {
				ctxzap.Warn(ctx, "failed to clear backend index", zap.Error(err))
				return
			}
			ctxzap.Debug(ctx, "backend index cleared")
		}()
	})
}

// Initialized is closed once the index clear issued by Initialize has finished.
func (c *Controller) Initialized() <-chan struct{} {
	return c.initDone
}

// SelectFiles replaces the selection. Any previous upload result, including
// one still in flight, no longer applies.
func (c *Controller) SelectFiles(ctx context.Context, files []entity.SelectedFile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.files = cloneFiles(files)
	c.generation++
	c.uploadState = UploadNotStarted
	c.uploadErr = nil

	ctxzap.Debug(c.withSession(ctx), "file selection changed",
		zap.Strings("files", entity.FileNames(files)),
		zap.Uint64("generation", c.generation),
	)
}

// SelectedFiles returns a copy of the current selection.
func (c *Controller) SelectedFiles() []entity.SelectedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneFiles(c.files)
}

// Upload sends the whole selection to the backend in one request.
// The state is UploadInProgress from the moment the call is accepted.
func (c *Controller) Upload(ctx context.Context) error {
	ctx = c.withSession(ctx)

	c.mu.Lock()
	if len(c.files) == 0 {
		c.mu.Unlock()
		return entity.ErrNoFilesSelected
	}
	if c.uploadState == UploadInProgress {
		c.mu.Unlock()
		return entity.ErrUploadInProgress
	}

	files := cloneFiles(c.files)
	generation := c.generation
	c.uploadState = UploadInProgress
	c.uploadErr = nil
	c.mu.Unlock()

	if err := c.awaitInit(ctx); err != nil {
		c.mu.Lock()
		if generation == c.generation {
			c.uploadState = UploadNotStarted
		}
		c.mu.Unlock()
		return err
	}

	ctxzap.Info(ctx, "upload started",
		zap.Int("file_count", len(files)),
		zap.Uint64("generation", generation),
	)

	err := c.backend.Upload(ctx, files)

	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		ctxzap.Info(ctx, "dropping upload result for a replaced selection",
			zap.Uint64("generation", generation),
			zap.Uint64("current_generation", c.generation),
			zap.Error(err),
		)
		return entity.ErrUploadSuperseded
	}

	if err != nil {
		uploadErr := asUploadError(err)
		c.uploadState = UploadFailed
		c.uploadErr = uploadErr
		ctxzap.Warn(ctx, "upload failed", zap.String("reason", uploadErr.Reason()))
		return uploadErr
	}

	c.uploadState = UploadSucceeded
	ctxzap.Info(ctx, "upload succeeded")
	return nil
}

// awaitInit gives a running index clear a chance to finish so it does not wipe
// the upload. A clear that outlasts initGrace is ignored.
func (c *Controller) awaitInit(ctx context.Context) error {
	if !c.initStarted.Load() {
		return nil
	}

	timer := time.NewTimer(c.initGrace)
	defer timer.Stop()

	select {
	case <-c.initDone:
		return nil
	case <-timer.C:
		ctxzap.Warn(ctx, "backend index clear still running, uploading anyway",
			zap.Duration("grace", c.initGrace),
		)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) UploadState() UploadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploadState
}

// UploadError is the cause of the last failed upload, nil unless the state is UploadFailed.
func (c *Controller) UploadError() *entity.UploadError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploadErr
}

// CanAsk reports whether questions are allowed.
func (c *Controller) CanAsk() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploadState == UploadSucceeded
}

func (c *Controller) Gate() Gate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return deriveGate(c.uploadState, c.awaitingAnswer)
}

// Ask sends a question and, on success, appends the exchange to the transcript.
// It returns the appended entries.
func (c *Controller) Ask(ctx context.Context, question string) ([]Entry, error) {
	c.mu.Lock()
	err := c.beginAskLocked(question)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c.finishAsk(ctx, question)
}

// Submit asks the current draft.
func (c *Controller) Submit(ctx context.Context) ([]Entry, error) {
	c.mu.Lock()
	question := c.draft
	err := c.beginAskLocked(question)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c.finishAsk(ctx, question)
}

// SubmitText replaces the draft with text and asks it. The draft is kept when
// the question is rejected.
func (c *Controller) SubmitText(ctx context.Context, text string) ([]Entry, error) {
	c.mu.Lock()
	c.draft = text
	err := c.beginAskLocked(text)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c.finishAsk(ctx, text)
}

func (c *Controller) beginAskLocked(question string) error {
	switch {
	case c.uploadState != UploadSucceeded:
		return entity.ErrUploadRequired
	case strings.TrimSpace(question) == "":
		return entity.ErrEmptyQuestion
	case c.awaitingAnswer:
		return entity.ErrAnswerPending
	}
	c.awaitingAnswer = true
	return nil
}

func (c *Controller) finishAsk(ctx context.Context, question string) ([]Entry, error) {
	ctx = c.withSession(ctx)

	resp, err := c.backend.Ask(ctx, question)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.awaitingAnswer = false

	if err == nil && resp == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		var queryErr *entity.QueryError
		if !errors.As(err, &queryErr) {
			queryErr = &entity.QueryError{Cause: err}
		}
		ctxzap.Warn(ctx, "question failed", zap.Error(err))
		return nil, queryErr
	}

	entries := []Entry{Question{Text: question}, Answer{Text: resp.Answer}}
	if len(resp.Sources) > 0 {
		entries = append(entries, NewSourceList(resp.Sources))
	}
	c.transcript.append(entries...)
	// a newer draft typed while waiting stays
	if c.draft == question {
		c.draft = ""
	}

	ctxzap.Debug(ctx, "answer appended",
		zap.Int("source_count", len(resp.Sources)),
		zap.Int("transcript_len", c.transcript.Len()),
	)

	return entries, nil
}

func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Controller) Transcript() *Transcript {
	return c.transcript
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Status{
		ID:          c.id,
		Files:       entity.FileNames(c.files),
		UploadState: c.uploadState,
		UploadErr:   c.uploadErr,
		Gate:        deriveGate(c.uploadState, c.awaitingAnswer),
		Entries:     c.transcript.Len(),
	}
}

func asUploadError(err error) *entity.UploadError {
	var uploadErr *entity.UploadError
	if errors.As(err, &uploadErr) {
		return uploadErr
	}
	return &entity.UploadError{Cause: err}
}

func cloneFiles(files []entity.SelectedFile) []entity.SelectedFile {
	if len(files) == 0 {
		return nil
	}
	out := make([]entity.SelectedFile, len(files))
	copy(out, files)
	return out
}
