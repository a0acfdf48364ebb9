package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/credit-engine/internal/config"
	"github.com/Dan9191/credit-engine/internal/models"
	"github.com/Dan9191/credit-engine/internal/scoring"
	"github.com/Dan9191/credit-engine/internal/service"
)

// maxJSONBody caps scoring request bodies.
const maxJSONBody = 1 << 20

type Handler struct {
	svc *service.Service
	cfg *config.Config
	log *logrus.Logger
}

func NewHandler(svc *service.Service, cfg *config.Config, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, cfg: cfg, log: log}
}

// CalculateCredit handles POST /api/credit/calculate
func (h *Handler) CalculateCredit(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	pred, err := h.svc.CalculateCredit(r.Context(), body)
	if err != nil {
		h.writeScoringError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, pred)
}

// AnalyzeIncome handles POST /api/income/analyze
func (h *Handler) AnalyzeIncome(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	analysis, err := h.svc.AnalyzeIncome(r.Context(), body)
	if err != nil {
		h.writeScoringError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, analysis)
}

// UploadDocuments handles POST /api/income/upload-documents
func (h *Handler) UploadDocuments(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.UploadMaxBytes)
	if err := r.ParseMultipartForm(h.cfg.UploadMaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeFieldError(w, http.StatusRequestEntityTooLarge, "files", "upload too large")
			return
		}
		h.writeFieldError(w, http.StatusBadRequest, "body", "malformed multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	res, err := h.svc.UploadDocuments(r.Context(), r.FormValue("assessmentId"), r.MultipartForm.File["files"])
	if errors.Is(err, service.ErrStorage) {
		h.writeJSON(w, http.StatusBadGateway, models.UploadResult{
			Success:       false,
			UploadedFiles: []string{},
			Message:       "Error uploading documents",
		})
		return
	}
	if err != nil {
		h.writeScoringError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// DashboardStats handles GET /api/dashboard/stats
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.DashboardStats())
}

// ScoreExplanation handles GET /api/score/explanation
func (h *Handler) ScoreExplanation(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.Policy())
}

// GetAssessment handles GET /api/assessments/{id}
func (h *Handler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetAssessment(r.Context(), mux.Vars(r)["id"])
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrAuditDisabled):
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	case err != nil:
		h.log.Errorf("Failed to get assessment: %v", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	default:
		h.writeJSON(w, http.StatusOK, rec)
	}
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": h.cfg.PingMessage,
		"service": h.cfg.ServiceName,
	})
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeFieldError(w, http.StatusRequestEntityTooLarge, "body", "request body too large")
			return nil, false
		}
		h.writeFieldError(w, http.StatusBadRequest, "body", "unreadable request body")
		return nil, false
	}
	return body, true
}

// writeScoringError maps engine errors: validation problems are the caller's,
// anything else is ours.
func (h *Handler) writeScoringError(w http.ResponseWriter, err error) {
	var verr *scoring.ValidationError
	if errors.As(err, &verr) {
		resp := models.ErrorResponse{Errors: make([]models.FieldError, 0, len(verr.Fields))}
		for _, f := range verr.Fields {
			resp.Errors = append(resp.Errors, models.FieldError{Field: f.Field, Reason: f.Reason})
		}
		h.writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	var cerr *scoring.ComputationError
	if errors.As(err, &cerr) {
		h.log.WithField("op", cerr.Op).Errorf("Scoring failed: %v", cerr)
	} else {
		h.log.Errorf("Request failed: %v", err)
	}
	h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func (h *Handler) writeFieldError(w http.ResponseWriter, status int, field, reason string) {
	h.writeJSON(w, status, models.ErrorResponse{Errors: []models.FieldError{{Field: field, Reason: reason}}})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithField("status", status).Debugf("Failed to encode response: %v", err)
	}
}
