package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/futig/docqa-client/internal/config"
	"github.com/futig/docqa-client/internal/entity"
	"github.com/futig/docqa-client/internal/integration/qa"
	"github.com/futig/docqa-client/internal/pkg/formatter"
	pkgRetry "github.com/futig/docqa-client/internal/pkg/retry"
	"github.com/futig/docqa-client/internal/pkg/validator"
	"github.com/futig/docqa-client/internal/session"
	"github.com/futig/docqa-client/internal/telegram/keyboard"
	"github.com/futig/docqa-client/internal/telegram/state"
	"github.com/futig/docqa-client/internal/testutil"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return tgbotapi.Message{}, b.sendErr
	}
	b.sent = append(b.sent, c)
	return tgbotapi.Message{}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetFileDirectURL(fileID string) (string, error) {
	return "https://api.telegram.org/file/bot/" + fileID, nil
}

func (b *fakeBot) messages() []tgbotapi.MessageConfig {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []tgbotapi.MessageConfig
	for _, c := range b.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (b *fakeBot) texts() []string {
	var out []string
	for _, m := range b.messages() {
		out = append(out, m.Text)
	}
	return out
}

func (b *fakeBot) lastMessage() tgbotapi.MessageConfig {
	msgs := b.messages()
	if len(msgs) == 0 {
		return tgbotapi.MessageConfig{}
	}
	return msgs[len(msgs)-1]
}

func (b *fakeBot) documents() []tgbotapi.DocumentConfig {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []tgbotapi.DocumentConfig
	for _, c := range b.sent {
		if d, ok := c.(tgbotapi.DocumentConfig); ok {
			out = append(out, d)
		}
	}
	return out
}

func (b *fakeBot) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = nil
	b.requests = nil
}

type fakeDownloader struct {
	mu    sync.Mutex
	files map[string][]byte
	calls int
}

func (d *fakeDownloader) Download(_ context.Context, fileID string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	data, ok := d.files[fileID]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

// failingBackend rejects uploads with a server detail
type failingBackend struct {
	*qa.MockConnector
}

func (failingBackend) Upload(context.Context, []entity.SelectedFile) error {
	return &entity.UploadError{Detail: "Only PDF files are allowed", StatusCode: 400}
}

type fixture struct {
	bot        *fakeBot
	downloader *fakeDownloader
	manager    *state.Manager
	commands   *CommandHandler
	documents  *DocumentHandler
	questions  *QuestionHandler
	callbacks  *CallbackHandler
}

const (
	testUserID = int64(42)
	testChatID = int64(4242)
	maxSize    = int64(1 << 20)
)

func newFixture(t *testing.T, backend session.Backend) *fixture {
	t.Helper()

	bot := &fakeBot{}
	downloader := &fakeDownloader{files: map[string][]byte{
		"a": testutil.PDF(t, "alpha"),
		"b": testutil.PDF(t, "beta"),
		"c": testutil.PDF(t, "gamma"),
		"x": []byte("not a pdf"),
	}}
	manager := state.NewManager(state.NewMemoryStorage(time.Hour), func() *session.Controller {
		return session.NewController(backend)
	})
	kb := keyboard.NewBuilder()
	sender := NewMessageSender(bot, &pkgRetry.RetryConfig{Attempts: 1})
	v := validator.NewFileValidator(config.UploadConfig{MaxFileSize: maxSize, MaxFileCount: 3})

	return &fixture{
		bot:        bot,
		downloader: downloader,
		manager:    manager,
		commands:   NewCommandHandler(bot, sender, manager, kb),
		documents:  NewDocumentHandler(bot, sender, manager, kb, downloader, v, maxSize),
		questions:  NewQuestionHandler(bot, sender, manager, kb),
		callbacks:  NewCallbackHandler(bot, sender, manager, kb, formatter.NewFactory()),
	}
}

func (f *fixture) sendDocument(t *testing.T, fileID, name string) {
	t.Helper()
	doc := &tgbotapi.Document{FileID: fileID, FileName: name, FileSize: 100}
	if err := f.documents.Handle(context.Background(), &Message{ChatID: testChatID, UserID: testUserID, Document: doc}); err != nil {
		t.Fatalf("document handler: %v", err)
	}
}

func (f *fixture) press(t *testing.T, data string) {
	t.Helper()
	msg := &Message{ChatID: testChatID, UserID: testUserID, CallbackData: data, CallbackID: "cb"}
	if err := f.callbacks.Handle(context.Background(), msg); err != nil {
		t.Fatalf("callback handler: %v", err)
	}
}

func (f *fixture) ask(t *testing.T, text string) {
	t.Helper()
	if err := f.questions.Handle(context.Background(), &Message{ChatID: testChatID, UserID: testUserID, Text: text}); err != nil {
		t.Fatalf("question handler: %v", err)
	}
}

func (f *fixture) command(t *testing.T, command string) {
	t.Helper()
	if err := f.commands.Handle(context.Background(), &Message{ChatID: testChatID, UserID: testUserID, Command: command}); err != nil {
		t.Fatalf("command handler: %v", err)
	}
}

func (f *fixture) session(t *testing.T) *session.Controller {
	t.Helper()
	sess, err := f.manager.GetOrCreate(context.Background(), testUserID, testChatID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	return sess.Controller
}

// gatedBackend holds uploads or questions until their gate is closed.
// A nil gate lets calls through.
type gatedBackend struct {
	*qa.MockConnector
	started    chan string
	uploadGate chan struct{}
	askGate    chan struct{}
}

func newGatedBackend() *gatedBackend {
	return &gatedBackend{
		MockConnector: qa.NewMockConnector(),
		started:       make(chan string, 4),
	}
}

func (b *gatedBackend) Upload(ctx context.Context, files []entity.SelectedFile) error {
	if b.uploadGate != nil {
		b.started <- "upload"
		<-b.uploadGate
	}
	return b.MockConnector.Upload(ctx, files)
}

func (b *gatedBackend) Ask(ctx context.Context, question string) (*entity.QAResponse, error) {
	if b.askGate != nil {
		b.started <- question
		<-b.askGate
	}
	return b.MockConnector.Ask(ctx, question)
}

// testContext returns a context cancelled when the test finishes
// (stand-in for testing.T.Context, unavailable on Go 1.21).
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
