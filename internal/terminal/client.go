// Package terminal is the interactive command-line front end of a chat session.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/futig/docqa-client/internal/config"
	"github.com/futig/docqa-client/internal/entity"
	"github.com/futig/docqa-client/internal/pkg/formatter"
	"github.com/futig/docqa-client/internal/pkg/validator"
	"github.com/futig/docqa-client/internal/render"
	"github.com/futig/docqa-client/internal/session"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxLineSize = 1 << 20

var errQuit = errors.New("quit")

// Client reads commands and questions line by line and drives one session.
type Client struct {
	backend   session.Backend
	validator *validator.Validator
	exporter  *formatter.Factory
	out       *render.Terminal
	uploadCfg config.UploadConfig

	controller *session.Controller
}

func NewClient(
	backend session.Backend,
	validator *validator.Validator,
	exporter *formatter.Factory,
	out *render.Terminal,
	uploadCfg config.UploadConfig,
) *Client {
	return &Client{
		backend:   backend,
		validator: validator,
		exporter:  exporter,
		out:       out,
		uploadCfg: uploadCfg,
	}
}

// Session returns the current session; it changes after /reset.
func (c *Client) Session() *session.Controller {
	return c.controller
}

// Run starts a session and serves input until EOF, /quit or ctx is done.
func (c *Client) Run(ctx context.Context, in io.Reader) error {
	c.newSession(ctx)
	c.out.Println(msgWelcome)
	c.out.Println(render.RenderFileHint(c.uploadCfg.MaxFileSize))
	c.out.Println(msgHelpHint)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.handleLine(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			c.notify(ctx, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func (c *Client) newSession(ctx context.Context) {
	c.controller = session.NewController(c.backend)
	// the index clear runs in the background; Upload gives it a short head start
	c.controller.Initialize(ctx)

	ctxzap.Info(ctx, "session started", zap.String("session_id", c.controller.ID()))
}

func (c *Client) handleLine(ctx context.Context, line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	if !strings.HasPrefix(line, "/") {
		return c.ask(ctx, line)
	}

	cmd, args := parseCommand(line)
	switch cmd {
	case cmdOpen:
		return c.open(ctx, args)
	case cmdUpload:
		return c.upload(ctx)
	case cmdAsk:
		return c.ask(ctx, strings.Join(args, " "))
	case cmdHistory:
		c.history()
	case cmdStatus:
		c.out.Println(render.RenderStatus(c.controller.Status()))
	case cmdExport:
		return c.export(ctx, args)
	case cmdReset:
		c.newSession(ctx)
		c.out.Info(msgNewSession)
	case cmdHelp:
		c.out.Println(msgHelp)
	case cmdQuit, cmdExit:
		return errQuit
	default:
		c.out.Println(fmt.Sprintf(msgUnknownCommand, cmd))
	}
	return nil
}

func (c *Client) open(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return entity.ErrNoFilesSelected
	}

	files, err := loadFiles(c.validator, args)
	if err != nil {
		return err
	}

	c.controller.SelectFiles(ctx, files)
	c.out.Println(render.RenderSelection(entity.FileNames(files)))
	return nil
}

func (c *Client) upload(ctx context.Context) error {
	if len(c.controller.SelectedFiles()) > 0 {
		c.out.Println(render.MsgUploading)
	}

	if err := c.controller.Upload(ctx); err != nil {
		return err
	}

	c.out.Info(render.MsgUploadSucceeded)
	return nil
}

func (c *Client) ask(ctx context.Context, question string) error {
	if c.controller.Gate().SubmitEnabled && strings.TrimSpace(question) != "" {
		c.out.Println(render.MsgFetchingAnswer)
	}

	entries, err := c.controller.Ask(ctx, question)
	if err != nil {
		return err
	}

	c.out.Render(entries)
	return nil
}

func (c *Client) history() {
	entries := c.controller.Transcript().Entries()
	if len(entries) == 0 {
		c.out.Println(msgEmptyHistory)
		return
	}
	c.out.Render(entries)
}

func (c *Client) export(ctx context.Context, args []string) error {
	if len(args) != 1 {
		c.out.Println(msgExportUsage)
		return nil
	}
	path := args[0]

	format, err := entity.ExportFormatFromPath(path)
	if err != nil {
		return err
	}

	export, err := render.ExportTranscript(c.exporter, format, c.controller.Transcript().Entries())
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, export.Data, 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}

	ctxzap.Info(ctx, "transcript exported", zap.String("path", path), zap.String("format", string(format)))
	c.out.Info(fmt.Sprintf(msgExported, path))
	return nil
}

func (c *Client) notify(ctx context.Context, err error) {
	notice := render.ClassifyError(err)

	switch notice.Severity {
	case render.SeverityError:
		ctxzap.Error(ctx, notice.LogMessage, zap.Error(err))
	default:
		ctxzap.Debug(ctx, notice.LogMessage, zap.Error(err))
	}

	c.out.Notice(notice)
}
