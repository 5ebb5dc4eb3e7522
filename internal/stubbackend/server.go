// Package stubbackend is an in-memory stand-in for the QA backend. It speaks
// the same HTTP contract (clear, multipart upload, JSON question) and is used
// for local runs and HTTP-level tests.
package stubbackend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/futig/docqa-client/internal/config"
	"github.com/futig/docqa-client/internal/entity"
	"github.com/futig/docqa-client/internal/pkg/logger"
	"github.com/futig/docqa-client/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	formFieldFiles   = "files"
	maxMultipartSize = 64 << 20
)

// Document is an indexed upload.
type Document struct {
	Name string
	Size int64
}

// Failure makes an endpoint answer with a fixed error.
type Failure struct {
	Status int
	Detail any
}

type Server struct {
	mu         sync.Mutex
	documents  []Document
	clears     int
	uploads    [][]string
	questions  []string
	uploadFail *Failure
	qaFail     *Failure
}

func New() *Server {
	return &Server{}
}

// Router exposes the backend endpoints at the paths configured for the client.
func (s *Server) Router(cfg config.EndpointConfig, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(requestLogger(log))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"status": "healthy"})
	})
	r.Get(cfg.ClearEndpoint, s.Clear)
	r.Post(cfg.UploadEndpoint, s.Upload)
	r.Post(cfg.QAEndpoint, s.Ask)

	return r
}

// Clear handles GET /clear-qdrant
func (s *Server) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Clear")

	s.mu.Lock()
	s.documents = nil
	s.clears++
	s.mu.Unlock()

	ctxzap.Info(ctx, "index cleared")
	response.Success(w, map[string]string{"message": "Collection cleared"})
}

// Upload handles POST /api/upload
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Upload")

	if f := s.failure(&s.uploadFail); f != nil {
		response.JSON(w, f.Status, response.ErrorResponse{Detail: f.Detail})
		return
	}

	if err := r.ParseMultipartForm(maxMultipartSize); err != nil {
		ctxzap.Warn(ctx, "failed to parse multipart form", zap.Error(err))
		response.ValidationError(w, missingFiles())
		return
	}

	headers := r.MultipartForm.File[formFieldFiles]
	if len(headers) == 0 {
		response.ValidationError(w, missingFiles())
		return
	}

	docs := make([]Document, 0, len(headers))
	names := make([]string, 0, len(headers))
	for _, h := range headers {
		if strings.ToLower(filepath.Ext(h.Filename)) != ".pdf" {
			response.Error(w, http.StatusBadRequest, "Only PDF files are allowed")
			return
		}
		docs = append(docs, Document{Name: h.Filename, Size: h.Size})
		names = append(names, h.Filename)
	}

	s.mu.Lock()
	s.documents = append(s.documents, docs...)
	s.uploads = append(s.uploads, names)
	s.mu.Unlock()

	ctxzap.Info(ctx, "documents indexed", zap.Strings("files", names))
	response.Success(w, map[string]any{
		"message": fmt.Sprintf("Successfully processed %d files", len(names)),
		"files":   names,
	})
}

// Ask handles POST /api/qa
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ask")

	if f := s.failure(&s.qaFail); f != nil {
		response.JSON(w, f.Status, response.ErrorResponse{Detail: f.Detail})
		return
	}

	var req entity.QARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		response.ValidationError(w, response.ValidationItem{
			Loc:  []any{"body", "question"},
			Msg:  "Field required",
			Type: "missing",
		})
		return
	}

	s.mu.Lock()
	s.questions = append(s.questions, req.Question)
	docs := make([]Document, len(s.documents))
	copy(docs, s.documents)
	s.mu.Unlock()

	ctxzap.Info(ctx, "answering question", zap.Int("documents", len(docs)))

	if len(docs) == 0 {
		// sources omitted, as the real backend does when nothing matched
		response.Success(w, map[string]string{"answer": "I could not find any uploaded documents."})
		return
	}

	sources := make([]entity.Source, 0, len(docs))
	for _, d := range docs {
		content := fmt.Sprintf("Indexed %s (%d bytes).", d.Name, d.Size)
		sources = append(sources, entity.Source{Filename: d.Name, Content: &content})
	}
	response.Success(w, entity.QAResponse{
		Answer:  fmt.Sprintf("Stub answer to %q from %d document(s).", req.Question, len(docs)),
		Sources: sources,
	})
}

// FailUploads makes every following upload fail until cleared with nil.
func (s *Server) FailUploads(f *Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadFail = f
}

// FailQuestions makes every following question fail until cleared with nil.
func (s *Server) FailQuestions(f *Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qaFail = f
}

func (s *Server) failure(f **Failure) *Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *f
}

func (s *Server) Documents() []Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Document, len(s.documents))
	copy(out, s.documents)
	return out
}

func (s *Server) Clears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}

// Uploads returns the file names of every accepted upload request.
func (s *Server) Uploads() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.uploads))
	copy(out, s.uploads)
	return out
}

func (s *Server) Questions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.questions))
	copy(out, s.questions)
	return out
}

func missingFiles() response.ValidationItem {
	return response.ValidationItem{
		Loc:  []any{"body", formFieldFiles},
		Msg:  "Field required",
		Type: "missing",
	}
}
