package qa

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/futig/docqa-client/internal/config"
	"github.com/futig/docqa-client/internal/entity"
	"github.com/futig/docqa-client/internal/integration/common"
	pkghttp "github.com/futig/docqa-client/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const formFieldFiles = "files"

type Connector struct {
	config    config.BackendConfig
	connector *pkghttp.Connector
}

func NewConnector(cfg config.BackendConfig) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig),
		config:    cfg,
	}
}

// ClearIndex drops everything the backend has indexed so far
// GET {clear_endpoint}, any 2xx is success
func (c *Connector) ClearIndex(ctx context.Context) error {
	ctxzap.Debug(ctx, "clearing backend index")

	if err := c.connector.DoRequest(ctx, http.MethodGet, c.config.ClearEndpoint, nil, nil); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}

	return nil
}

// Upload sends all files in one request
// POST {upload_endpoint} with multipart/form-data, one "files" part per file
func (c *Connector) Upload(ctx context.Context, files []entity.SelectedFile) error {
	ctxzap.Info(ctx, "uploading files to QA backend", zap.Int("file_count", len(files)))

	prepareBody := func(writer *multipart.Writer) error {
		for _, file := range files {
			part, err := writer.CreatePart(filePartHeader(file.Name))
			if err != nil {
				return fmt.Errorf("create form file: %w", err)
			}

			if _, err := part.Write(file.Content); err != nil {
				return fmt.Errorf("write file content: %w", err)
			}
		}
		return nil
	}

	err := c.connector.DoMultipartRequest(ctx, http.MethodPost, c.config.UploadEndpoint, prepareBody, nil)
	if err != nil {
		uploadErr := newUploadError(err)
		ctxzap.Error(ctx, "failed to upload files",
			zap.Error(err),
			zap.String("reason", uploadErr.Reason()),
		)
		return uploadErr
	}

	ctxzap.Info(ctx, "files uploaded successfully")
	return nil
}

// Ask sends a question and returns the answer with its cited sources
// POST {qa_endpoint} with {"question": "..."}
func (c *Connector) Ask(ctx context.Context, question string) (*entity.QAResponse, error) {
	ctxzap.Debug(ctx, "asking QA backend", zap.Int("question_length", len(question)))

	var resp entity.QAResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.QAEndpoint, &entity.QARequest{Question: question}, &resp)
	if err != nil {
		ctxzap.Error(ctx, "failed to get answer", zap.Error(err))
		return nil, &entity.QueryError{Cause: err}
	}

	if resp.Sources == nil {
		resp.Sources = []entity.Source{}
	}

	ctxzap.Debug(ctx, "answer received",
		zap.Int("answer_length", len(resp.Answer)),
		zap.Int("source_count", len(resp.Sources)),
	)

	return &resp, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func filePartHeader(filename string) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, formFieldFiles, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", "application/pdf")
	return h
}
