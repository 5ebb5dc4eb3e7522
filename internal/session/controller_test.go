package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/futig/docqa-client/internal/entity"
	pkghttp "github.com/futig/docqa-client/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploaded(t *testing.T, backend *fakeBackend) *Controller {
	t.Helper()

	c := NewController(backend)
	c.SelectFiles(context.Background(), []entity.SelectedFile{pdf("a.pdf")})
	require.NoError(t, c.Upload(context.Background()))
	require.Equal(t, UploadSucceeded, c.UploadState())
	return c
}

func TestNewController(t *testing.T) {
	c := NewController(&fakeBackend{})

	assert.NotEmpty(t, c.ID())
	assert.Equal(t, UploadNotStarted, c.UploadState())
	assert.False(t, c.CanAsk())
	assert.Empty(t, c.SelectedFiles())
	assert.Zero(t, c.Transcript().Len())
	assert.NotEqual(t, c.ID(), NewController(&fakeBackend{}).ID())
}

func TestUpload_NoFilesSelected(t *testing.T) {
	backend := &fakeBackend{}
	c := NewController(backend)

	err := c.Upload(context.Background())

	assert.ErrorIs(t, err, entity.ErrNoFilesSelected)
	assert.Equal(t, UploadNotStarted, c.UploadState())
	_, uploads, _ := backend.counts()
	assert.Zero(t, uploads)
}

func TestUpload_Success(t *testing.T) {
	backend := &fakeBackend{}
	c := NewController(backend)
	files := []entity.SelectedFile{pdf("a.pdf"), pdf("b.pdf")}
	c.SelectFiles(context.Background(), files)

	require.NoError(t, c.Upload(context.Background()))

	assert.Equal(t, UploadSucceeded, c.UploadState())
	assert.True(t, c.CanAsk())
	assert.Nil(t, c.UploadError())
	require.Len(t, backend.uploadCalls, 1)
	assert.Equal(t, files, backend.uploadCalls[0])
	// selection is kept after success
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, entity.FileNames(c.SelectedFiles()))
}

func TestUpload_FailureReasons(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantReason string
	}{
		{
			name:       "server detail",
			err:        &entity.UploadError{Detail: "Only PDF files are allowed", StatusCode: 400},
			wantReason: "Only PDF files are allowed",
		},
		{
			name:       "no response",
			err:        &entity.UploadError{NoResponse: true, Cause: &pkghttp.NetworkError{Err: errors.New("dial tcp: refused")}},
			wantReason: "no response received from server",
		},
		{
			name:       "raw error",
			err:        errors.New("boom"),
			wantReason: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{
				uploadFn: func(context.Context, []entity.SelectedFile) error { return tt.err },
			}
			c := NewController(backend)
			c.SelectFiles(context.Background(), []entity.SelectedFile{pdf("a.pdf")})

			err := c.Upload(context.Background())

			require.Error(t, err)
			assert.ErrorIs(t, err, entity.ErrUploadFailed)

			var uploadErr *entity.UploadError
			require.ErrorAs(t, err, &uploadErr)
			assert.Equal(t, tt.wantReason, uploadErr.Reason())

			assert.Equal(t, UploadFailed, c.UploadState())
			assert.Equal(t, uploadErr, c.UploadError())
			assert.False(t, c.CanAsk())
			// files are retained for a retry
			assert.Len(t, c.SelectedFiles(), 1)
		})
	}
}

func TestUpload_RetryAfterFailure(t *testing.T) {
	fail := true
	backend := &fakeBackend{
		uploadFn: func(context.Context, []entity.SelectedFile) error {
			if fail {
				return errors.New("boom")
			}
			return nil
		},
	}
	c := NewController(backend)
	c.SelectFiles(context.Background(), []entity.SelectedFile{pdf("a.pdf")})

	require.Error(t, c.Upload(context.Background()))
	fail = false
	require.NoError(t, c.Upload(context.Background()))

	assert.Equal(t, UploadSucceeded, c.UploadState())
	assert.Nil(t, c.UploadError())
	_, uploads, _ := backend.counts()
	assert.Equal(t, 2, uploads)
}

func TestSelectFiles_ResetsUploadState(t *testing.T) {
	c := uploaded(t, &fakeBackend{})

	c.SelectFiles(context.Background(), []entity.SelectedFile{pdf("b.pdf")})

	assert.Equal(t, UploadNotStarted, c.UploadState())
	assert.False(t, c.CanAsk())
	assert.Equal(t, []string{"b.pdf"}, entity.FileNames(c.SelectedFiles()))

	_, err := c.Ask(context.Background(), "q")
	assert.ErrorIs(t, err, entity.ErrUploadRequired)
}

func TestSelectFiles_ClearsUploadError(t *testing.T) {
	backend := &fakeBackend{
		uploadFn: func(context.Context, []entity.SelectedFile) error { return errors.New("boom") },
	}
	c := NewController(backend)
	c.SelectFiles(context.Background(), []entity.SelectedFile{pdf("a.pdf")})
	require.Error(t, c.Upload(context.Background()))

	c.SelectFiles(context.Background(), []entity.SelectedFile{pdf("b.pdf")})

	assert.Nil(t, c.UploadError())
	assert.Equal(t, UploadNotStarted, c.UploadState())
}

func TestSelectFiles_CopiesInput(t *testing.T) {
	c := NewController(&fakeBackend{})
	files := []entity.SelectedFile{pdf("a.pdf")}
	c.SelectFiles(context.Background(), files)

	files[0].Name = "changed.pdf"

	assert.Equal(t, "a.pdf", c.SelectedFiles()[0].Name)
}

func TestUpload_InProgress(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	backend := &fakeBackend{
		uploadFn: func(context.Context, []entity.SelectedFile) error {
			close(started)
			<-release
			return nil
		},
	}
	c := NewController(backend)
	c.SelectFiles(context.Background(), []entity.SelectedFile{pdf("a.pdf")})

	done := make(chan error, 1)
	go func() { done <- c.Upload(context.Background()) }()
	<-started

	assert.Equal(t, UploadInProgress, c.UploadState())
	assert.False(t, c.CanAsk())
	assert.ErrorIs(t, c.Upload(context.Background()), entity.ErrUploadInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, UploadSucceeded, c.UploadState())
	_, uploads, _ := backend.counts()
	assert.Equal(t, 1, uploads)
}

func TestUpload_SelectionChangedInFlight(t *testing.T) {
	for _, result := range []error{nil, errors.New("boom")} {
		started := make(chan struct{})
		release := make(chan struct{})
		backend := &fakeBackend{
			uploadFn: func(context.Context, []entity.SelectedFile) error {
				close(started)
				<-release
				return result
			},
		}
		c := NewController(backend)
		c.SelectFiles(context.Background(), []entity.SelectedFile{pdf("a.pdf")})

		done := make(chan error, 1)
		go func() { done <- c.Upload(context.Background()) }()
		<-started

		c.SelectFiles(context.Background(), []entity.SelectedFile{pdf("b.pdf")})
		close(release)

		assert.ErrorIs(t, <-done, entity.ErrUploadSuperseded)
		assert.Equal(t, UploadNotStarted, c.UploadState())
		assert.Nil(t, c.UploadError())
		assert.False(t, c.CanAsk())
	}
}

func TestUpload_NewSelectionUploadsWhileStaleInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 2)
	backend := &fakeBackend{
		uploadFn: func(_ context.Context, files []entity.SelectedFile) error {
			started <- struct{}{}
			if files[0].Name == "a.pdf" {
				<-release
			}
			return nil
		},
	}
	c := NewController(backend)
	c.SelectFiles(context.Background(), []entity.SelectedFile{pdf("a.pdf")})

	stale := make(chan error, 1)
	go func() { stale <- c.Upload(context.Background()) }()
	<-started

	c.SelectFiles(context.Background(), []entity.SelectedFile{pdf("b.pdf")})
	require.NoError(t, c.Upload(context.Background()))
	assert.Equal(t, UploadSucceeded, c.UploadState())

	close(release)
	assert.ErrorIs(t, <-stale, entity.ErrUploadSuperseded)
	assert.Equal(t, UploadSucceeded, c.UploadState())
}

func TestUpload_WaitsForInitialization(t *testing.T) {
	release := make(chan struct{})
	backend := &blockingClearBackend{fakeBackend: &fakeBackend{}, release: release}
	c := NewController(backend)
	c.Initialize(context.Background())
	c.SelectFiles(context.Background(), []entity.SelectedFile{pdf("a.pdf")})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Upload(ctx), context.DeadlineExceeded)
	assert.Equal(t, UploadNotStarted, c.UploadState())

	close(release)
	<-c.Initialized()
	assert.NoError(t, c.Upload(context.Background()))
}

func TestUpload_ProceedsWhenClearStalls(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	backend := &blockingClearBackend{fakeBackend: &fakeBackend{}, release: release}
	c := NewController(backend, WithInitGrace(100*time.Millisecond))
	c.Initialize(context.Background())
	c.SelectFiles(context.Background(), []entity.SelectedFile{pdf("doc.pdf")})

	done := make(chan error, 1)
	go func() { done <- c.Upload(context.Background()) }()

	assert.Eventually(t, func() bool {
		return c.UploadState() == UploadInProgress
	}, time.Second, 5*time.Millisecond)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("upload blocked behind the index clear")
	}

	assert.Equal(t, UploadSucceeded, c.UploadState())
	_, uploads, _ := backend.counts()
	assert.Equal(t, 1, uploads)
}

type blockingClearBackend struct {
	*fakeBackend
	release chan struct{}
}

func (b *blockingClearBackend) ClearIndex(ctx context.Context) error {
	<-b.release
	return b.fakeBackend.ClearIndex(ctx)
}

func TestGate(t *testing.T) {
	tests := []struct {
		state    UploadState
		awaiting bool
		want     Gate
	}{
		{UploadNotStarted, false, Gate{UploadState: UploadNotStarted}},
		{UploadInProgress, false, Gate{UploadState: UploadInProgress}},
		{UploadFailed, false, Gate{UploadState: UploadFailed}},
		{UploadSucceeded, false, Gate{UploadState: UploadSucceeded, InputEnabled: true, SubmitEnabled: true}},
		{UploadSucceeded, true, Gate{UploadState: UploadSucceeded, InputEnabled: true, AwaitingAnswer: true}},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, deriveGate(tt.state, tt.awaiting))
		})
	}
}

func TestAsk_Gated(t *testing.T) {
	backend := &fakeBackend{}
	c := NewController(backend)

	entries, err := c.Ask(context.Background(), "What is this?")

	assert.ErrorIs(t, err, entity.ErrUploadRequired)
	assert.Nil(t, entries)
	assert.Zero(t, c.Transcript().Len())
	_, _, asks := backend.counts()
	assert.Zero(t, asks)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	backend := &fakeBackend{}
	c := uploaded(t, backend)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := c.Ask(context.Background(), q)
		assert.ErrorIs(t, err, entity.ErrEmptyQuestion)
	}

	assert.Zero(t, c.Transcript().Len())
	_, _, asks := backend.counts()
	assert.Zero(t, asks)
}

func TestAsk_WithSources(t *testing.T) {
	backend := &fakeBackend{
		askFn: func(context.Context, string) (*entity.QAResponse, error) {
			return &entity.QAResponse{
				Answer:  "X is Y.",
				Sources: []entity.Source{{Filename: "a.pdf", Content: strPtr("alpha")}},
			}, nil
		},
	}
	c := uploaded(t, backend)
	c.SetDraft("What is X?")

	entries, err := c.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, Question{Text: "What is X?"}, entries[0])
	assert.Equal(t, Answer{Text: "X is Y."}, entries[1])
	sources, ok := entries[2].(SourceList)
	require.True(t, ok)
	require.Equal(t, 1, sources.Len())
	assert.Equal(t, "a.pdf", sources.Sources()[0].Filename)
	assert.Equal(t, "alpha", *sources.Sources()[0].Content)

	assert.Equal(t, entries, c.Transcript().Entries())
	assert.Empty(t, c.Draft())
	assert.False(t, c.Gate().AwaitingAnswer)
	assert.Equal(t, []string{"What is X?"}, backend.askCalls)
}

func TestAsk_WithoutSources(t *testing.T) {
	for name, sources := range map[string][]entity.Source{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			backend := &fakeBackend{
				askFn: func(context.Context, string) (*entity.QAResponse, error) {
					return &entity.QAResponse{Answer: "No idea.", Sources: sources}, nil
				},
			}
			c := uploaded(t, backend)

			entries, err := c.Ask(context.Background(), "Q?")
			require.NoError(t, err)

			assert.Equal(t, []Entry{Question{Text: "Q?"}, Answer{Text: "No idea."}}, entries)
			assert.Equal(t, 2, c.Transcript().Len())
		})
	}
}

func TestAsk_Failure(t *testing.T) {
	backend := &fakeBackend{
		askFn: func(context.Context, string) (*entity.QAResponse, error) {
			return nil, errors.New("HTTP 500")
		},
	}
	c := uploaded(t, backend)
	c.SetDraft("Q?")

	entries, err := c.Submit(context.Background())

	assert.Nil(t, entries)
	assert.ErrorIs(t, err, entity.ErrQueryFailed)
	var queryErr *entity.QueryError
	assert.ErrorAs(t, err, &queryErr)
	assert.Zero(t, c.Transcript().Len())
	assert.Equal(t, "Q?", c.Draft())
	assert.False(t, c.Gate().AwaitingAnswer)
	assert.True(t, c.Gate().SubmitEnabled)
}

func TestAsk_NilResponse(t *testing.T) {
	backend := &fakeBackend{
		askFn: func(context.Context, string) (*entity.QAResponse, error) { return nil, nil },
	}
	c := uploaded(t, backend)

	_, err := c.Ask(context.Background(), "Q?")

	assert.ErrorIs(t, err, entity.ErrQueryFailed)
	assert.Zero(t, c.Transcript().Len())
}

func TestAsk_Pending(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	backend := &fakeBackend{
		askFn: func(_ context.Context, q string) (*entity.QAResponse, error) {
			close(started)
			<-release
			return &entity.QAResponse{Answer: "A to " + q}, nil
		},
	}
	c := uploaded(t, backend)

	done := make(chan error, 1)
	go func() {
		_, err := c.Ask(context.Background(), "first")
		done <- err
	}()
	<-started

	gate := c.Gate()
	assert.True(t, gate.AwaitingAnswer)
	assert.True(t, gate.InputEnabled)
	assert.False(t, gate.SubmitEnabled)

	_, err := c.Ask(context.Background(), "second")
	assert.ErrorIs(t, err, entity.ErrAnswerPending)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, c.Gate().AwaitingAnswer)
	assert.Equal(t, []Entry{Question{Text: "first"}, Answer{Text: "A to first"}}, c.Transcript().Entries())
}

func TestAsk_TranscriptOrder(t *testing.T) {
	backend := &fakeBackend{
		askFn: func(_ context.Context, q string) (*entity.QAResponse, error) {
			return &entity.QAResponse{Answer: "A" + q[1:]}, nil
		},
	}
	c := uploaded(t, backend)

	for _, q := range []string{"Q1", "Q2", "Q3"} {
		_, err := c.Ask(context.Background(), q)
		require.NoError(t, err)
	}

	assert.Equal(t, []Entry{
		Question{Text: "Q1"}, Answer{Text: "A1"},
		Question{Text: "Q2"}, Answer{Text: "A2"},
		Question{Text: "Q3"}, Answer{Text: "A3"},
	}, c.Transcript().Entries())
}

func TestAsk_ConcurrentCallsOnlyOneReachesBackend(t *testing.T) {
	release := make(chan struct{})
	backend := &fakeBackend{
		askFn: func(context.Context, string) (*entity.QAResponse, error) {
			<-release
			return &entity.QAResponse{Answer: "A"}, nil
		},
	}
	c := uploaded(t, backend)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Ask(context.Background(), "Q")
			errs <- err
		}()
	}

	require.Eventually(t, func() bool {
		_, _, asks := backend.counts()
		return asks == 1 && c.Gate().AwaitingAnswer
	}, time.Second, time.Millisecond)

	close(release)
	wg.Wait()
	close(errs)

	var ok, pending int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, entity.ErrAnswerPending):
			pending++
		}
	}
	assert.GreaterOrEqual(t, ok, 1)
	assert.Equal(t, 10, ok+pending)
	_, _, asks := backend.counts()
	assert.Equal(t, ok, asks)
}

func TestInitialize_ClearsOnce(t *testing.T) {
	backend := &fakeBackend{}
	c := NewController(backend)

	c.Initialize(context.Background())
	c.Initialize(context.Background())
	<-c.Initialized()

	clears, _, _ := backend.counts()
	assert.Equal(t, 1, clears)
}

func TestInitialize_FailureIgnored(t *testing.T) {
	backend := &fakeBackend{clearErr: errors.New("unreachable")}
	c := NewController(backend)

	c.Initialize(context.Background())
	<-c.Initialized()

	assert.Equal(t, UploadNotStarted, c.UploadState())
	c.SelectFiles(context.Background(), []entity.SelectedFile{pdf("a.pdf")})
	assert.NoError(t, c.Upload(context.Background()))
}

func TestInitialize_SurvivesCancelledContext(t *testing.T) {
	backend := &fakeBackend{}
	c := NewController(backend)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c.Initialize(ctx)
	<-c.Initialized()

	clears, _, _ := backend.counts()
	assert.Equal(t, 1, clears)
}

func TestStatus(t *testing.T) {
	c := uploaded(t, &fakeBackend{})
	_, err := c.Ask(context.Background(), "Q")
	require.NoError(t, err)

	status := c.Status()

	assert.Equal(t, c.ID(), status.ID)
	assert.Equal(t, []string{"a.pdf"}, status.Files)
	assert.Equal(t, UploadSucceeded, status.UploadState)
	assert.True(t, status.Gate.SubmitEnabled)
	assert.Equal(t, 2, status.Entries)
}

func TestSubmitText_KeepsQuestionsApart(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	backend := &fakeBackend{
		askFn: func(_ context.Context, question string) (*entity.QAResponse, error) {
			close(started)
			<-release
			return &entity.QAResponse{Answer: "answer to " + question}, nil
		},
	}
	c := uploaded(t, backend)

	type result struct {
		entries []Entry
		err     error
	}
	first := make(chan result, 1)
	go func() {
		entries, err := c.SubmitText(context.Background(), "question A")
		first <- result{entries, err}
	}()
	<-started

	_, err := c.SubmitText(context.Background(), "question B")
	assert.ErrorIs(t, err, entity.ErrAnswerPending)
	assert.Equal(t, "question B", c.Draft())

	close(release)
	got := <-first
	require.NoError(t, got.err)
	assert.Equal(t, Question{Text: "question A"}, got.entries[0])
	assert.Equal(t, Answer{Text: "answer to question A"}, got.entries[1])

	backend.mu.Lock()
	assert.Equal(t, []string{"question A"}, backend.askCalls)
	backend.mu.Unlock()
	assert.Equal(t, "question B", c.Draft())
}

func TestSubmit_ClearsAskedDraft(t *testing.T) {
	c := uploaded(t, &fakeBackend{})

	_, err := c.SubmitText(context.Background(), "Q?")
	require.NoError(t, err)

	assert.Empty(t, c.Draft())
}
