package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/credit-engine/internal/config"
	"github.com/Dan9191/credit-engine/internal/integrations/stats"
	"github.com/Dan9191/credit-engine/internal/messaging"
	"github.com/Dan9191/credit-engine/internal/models"
	"github.com/Dan9191/credit-engine/internal/repository"
	"github.com/Dan9191/credit-engine/internal/scoring"
	"github.com/Dan9191/credit-engine/internal/utils"
)

var (
	// ErrNotFound is returned for unknown or malformed assessment ids.
	ErrNotFound = errors.New("assessment not found")
	// ErrAuditDisabled is returned when no audit store is configured.
	ErrAuditDisabled = errors.New("audit store not configured")
	// ErrStorage is returned when an uploaded document could not be stored.
	ErrStorage = errors.New("document storage failed")
)

const backgroundTimeout = 10 * time.Second

// AuditStore persists assessments and document metadata.
type AuditStore interface {
	SaveAssessment(ctx context.Context, rec *models.AssessmentRecord) error
	FindAssessmentByID(ctx context.Context, id string) (*models.AssessmentRecord, error)
	SaveDocument(ctx context.Context, doc *models.DocumentRecord) error
}

// EventPublisher announces stored assessments.
type EventPublisher interface {
	PublishAssessment(ctx context.Context, ev messaging.AssessmentEvent) error
}

// DocumentStore keeps uploaded document bodies.
type DocumentStore interface {
	ObjectKey(docID, fileName string) string
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Notifier tells the verification desk about new documents.
type Notifier interface {
	SendDocumentsReceived(assessmentID string, files []string) error
}

// StatsSource serves the latest dashboard statistics.
type StatsSource interface {
	Current() models.DashboardStats
}

// Recorder receives business metrics.
type Recorder interface {
	ObserveAssessment(kind, category string, score int)
	CollaboratorError(name string)
}

// Deps are the optional collaborators of the service. Nil members are skipped.
type Deps struct {
	Audit     AuditStore
	Events    EventPublisher
	Documents DocumentStore
	Notifier  Notifier
	Stats     StatsSource
	Metrics   Recorder
}

// Service runs the scoring engine and fans results out to collaborators.
// Collaborator failures are logged and counted; they never change a score.
type Service struct {
	engine *scoring.Engine
	deps   Deps
	log    *logrus.Logger
	config *config.Config

	wg sync.WaitGroup
}

// NewService initializes a new service
func NewService(engine *scoring.Engine, deps Deps, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{engine: engine, deps: deps, log: log, config: cfg}
}

// CalculateCredit scores a credit request body.
func (s *Service) CalculateCredit(ctx context.Context, body []byte) (models.CreditPrediction, error) {
	raw, err := scoring.ParseRaw(body)
	if err != nil {
		return models.CreditPrediction{}, err
	}
	a, err := s.engine.EvaluateCredit(raw)
	if err != nil {
		return models.CreditPrediction{}, err
	}

	pred := scoring.AssembleCredit(a)
	if reasons := scoring.ConfidenceReasons(a.Profile, a.Metrics); len(reasons) > 0 {
		s.log.WithField("reasons", reasons).Debug("Confidence reduced")
	}

	if id, ok := s.record(ctx, models.KindCredit, a.Profile, pred.Score, pred.Category, func(id string) any {
		p := pred
		p.AssessmentID = id
		return p
	}); ok {
		pred.AssessmentID = id
	}
	s.log.Infof("Credit score calculated: %d (%s)", pred.Score, pred.Category)
	return pred, nil
}

// AnalyzeIncome scores an income request body.
func (s *Service) AnalyzeIncome(ctx context.Context, body []byte) (models.IncomeAnalysis, error) {
	raw, err := scoring.ParseRaw(body)
	if err != nil {
		return models.IncomeAnalysis{}, err
	}
	a, err := s.engine.EvaluateIncome(raw)
	if err != nil {
		return models.IncomeAnalysis{}, err
	}

	analysis := scoring.AssembleIncome(a)
	if id, ok := s.record(ctx, models.KindIncome, a.Profile, analysis.Score, analysis.Category, func(id string) any {
		r := analysis
		r.AssessmentID = id
		return r
	}); ok {
		analysis.AssessmentID = id
	}
	s.log.Infof("Income analysed: %d (%s)", analysis.Score, analysis.Category)
	return analysis, nil
}

// record audits and announces one assessment. It reports the new id and
// whether the assessment was stored. Only stored assessments are announced.
func (s *Service) record(ctx context.Context, kind string, profile any, score int, category string, payload func(id string) any) (string, bool) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveAssessment(kind, category, score)
	}

	fingerprint, err := utils.Fingerprint(s.config.AuditSecret, profile)
	if err != nil {
		s.log.Errorf("Failed to fingerprint %s assessment: %v", kind, err)
		return "", false
	}

	rec := &models.AssessmentRecord{
		ID:          uuid.NewString(),
		Kind:        kind,
		Fingerprint: fingerprint,
		Score:       score,
		Category:    category,
		CreatedAt:   time.Now().UTC(),
	}

	stored := false
	if s.deps.Audit != nil {
		data, err := json.Marshal(payload(rec.ID))
		if err != nil {
			s.log.Errorf("Failed to encode %s payload: %v", kind, err)
			return "", false
		}
		rec.Payload = data
		if err := s.deps.Audit.SaveAssessment(ctx, rec); err != nil {
			s.collaboratorFailed("audit", err)
		} else {
			stored = true
		}
	}

	if stored && s.deps.Events != nil {
		ev := messaging.AssessmentEvent{
			AssessmentID: rec.ID,
			Kind:         kind,
			Score:        score,
			Category:     category,
			Fingerprint:  fingerprint,
			CreatedAt:    rec.CreatedAt,
		}
		s.background(func(ctx context.Context) {
			if err := s.deps.Events.PublishAssessment(ctx, ev); err != nil {
				s.collaboratorFailed("kafka", err)
			}
		})
	}

	return rec.ID, stored
}

// GetAssessment reads a stored assessment back from the audit log.
func (s *Service) GetAssessment(ctx context.Context, id string) (*models.AssessmentRecord, error) {
	if s.deps.Audit == nil {
		return nil, ErrAuditDisabled
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	rec, err := s.deps.Audit.FindAssessmentByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}
	return rec, nil
}

// UploadDocuments stores income documents and records their metadata. Without
// a document store only the metadata is kept. The upload is all or nothing:
// when one body fails to store, the bodies already written are removed and no
// metadata is recorded.
func (s *Service) UploadDocuments(ctx context.Context, assessmentID string, files []*multipart.FileHeader) (models.UploadResult, error) {
	verr := &scoring.ValidationError{}
	if len(files) == 0 {
		verr.Fields = append(verr.Fields, scoring.FieldError{Field: "files", Reason: "at least one file is required"})
	}
	if assessmentID != "" {
		if _, err := uuid.Parse(assessmentID); err != nil {
			verr.Fields = append(verr.Fields, scoring.FieldError{Field: "assessmentId", Reason: "must be a UUID"})
		}
	}
	if len(verr.Fields) > 0 {
		return models.UploadResult{}, verr
	}

	docs := make([]*models.DocumentRecord, 0, len(files))
	for _, fh := range files {
		doc := &models.DocumentRecord{
			ID:           uuid.NewString(),
			AssessmentID: assessmentID,
			FileName:     fh.Filename,
			ContentType:  fh.Header.Get("Content-Type"),
			SizeBytes:    fh.Size,
		}
		if doc.ContentType == "" {
			doc.ContentType = "application/octet-stream"
		}

		if s.deps.Documents != nil {
			doc.StorageKey = s.deps.Documents.ObjectKey(doc.ID, fh.Filename)
			if err := s.store(ctx, doc, fh); err != nil {
				s.collaboratorFailed("storage", err)
				s.discard(ctx, docs)
				return models.UploadResult{}, fmt.Errorf("%w: %s", ErrStorage, fh.Filename)
			}
		}
		docs = append(docs, doc)
	}

	// Metadata is written only once every body is stored.
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		if s.deps.Audit != nil {
			if err := s.deps.Audit.SaveDocument(ctx, doc); err != nil {
				s.collaboratorFailed("audit", err)
			}
		}
		names = append(names, doc.FileName)
	}

	if s.deps.Notifier != nil {
		s.background(func(context.Context) {
			if err := s.deps.Notifier.SendDocumentsReceived(assessmentID, names); err != nil {
				s.collaboratorFailed("email", err)
			}
		})
	}

	s.log.Infof("Documents uploaded: %d", len(names))
	return models.UploadResult{
		Success:       true,
		UploadedFiles: names,
		Message:       fmt.Sprintf("Successfully uploaded %d documents", len(names)),
	}, nil
}

func (s *Service) store(ctx context.Context, doc *models.DocumentRecord, fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()
	return s.deps.Documents.Put(ctx, doc.StorageKey, f, doc.SizeBytes, doc.ContentType)
}

// discard removes the bodies of an upload that failed part way.
func (s *Service) discard(ctx context.Context, docs []*models.DocumentRecord) {
	for _, doc := range docs {
		if err := s.deps.Documents.Delete(ctx, doc.StorageKey); err != nil {
			s.collaboratorFailed("storage", err)
		}
	}
}

// DashboardStats returns the latest statistics, or the defaults when no feed
// is wired.
func (s *Service) DashboardStats() models.DashboardStats {
	if s.deps.Stats == nil {
		return stats.Defaults
	}
	return s.deps.Stats.Current()
}

// Policy exposes the rules the engine applies.
func (s *Service) Policy() scoring.Policy {
	return scoring.CurrentPolicy()
}

// Close waits for pending background deliveries.
func (s *Service) Close() {
	s.wg.Wait()
}

func (s *Service) background(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func (s *Service) collaboratorFailed(name string, err error) {
	s.log.WithField("collaborator", name).Errorf("Collaborator call failed: %v", err)
	if s.deps.Metrics != nil {
		s.deps.Metrics.CollaboratorError(name)
	}
}
