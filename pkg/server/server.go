// Package server exposes single-image validation over HTTP for callers that
// embed the validator in a moderation workflow rather than the CLI.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/carvida/photocheck/pkg/pipeline"
	"github.com/carvida/photocheck/pkg/processing"
	"github.com/carvida/photocheck/pkg/types"
)

// MaxUploadBytes caps the request body size for /validate.
const MaxUploadBytes = 20 << 20

// Server validates uploaded images through one validation path.
type Server struct {
	validator pipeline.Validator
	processor *processing.Processor
	logger    *zap.Logger
}

// New creates the HTTP server over a validator.
func New(v pipeline.Validator, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		validator: v,
		processor: processing.NewProcessor(),
		logger:    logger.Named("http"),
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/validate", s.handleValidate).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // vision-model validations can be slow
	}
	s.logger.Info("listening", zap.String("addr", addr))
	return srv.ListenAndServe()
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	logger := s.logger.With(zap.String("request_id", requestID))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxUploadBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			Code:    "BODY_TOO_LARGE",
			Message: "request body exceeds upload limit",
		})
		return
	}
	if len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "EMPTY_BODY",
			Message: "request body must contain an image",
		})
		return
	}

	img, err := s.processor.DecodeBytes(body)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    "INVALID_IMAGE",
			Message: "could not decode image",
		})
		return
	}

	name := r.URL.Query().Get("name")
	result := s.validator.ValidateImage(r.Context(), img, name)
	logger.Info("validated upload", zap.String("name", name), zap.String("result", result.Result))

	status := http.StatusOK
	if result.Result == types.ResultError {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
