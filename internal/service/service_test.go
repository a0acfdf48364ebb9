package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/credit-engine/internal/config"
	"github.com/Dan9191/credit-engine/internal/integrations/stats"
	"github.com/Dan9191/credit-engine/internal/messaging"
	"github.com/Dan9191/credit-engine/internal/models"
	"github.com/Dan9191/credit-engine/internal/repository"
	"github.com/Dan9191/credit-engine/internal/scoring"
)

const creditBody = `{
	"timelyRepayment": "92", "totalLoanTaken": "750000", "totalLoanRepaid": "540000",
	"annualIncome": "960000", "totalBankAccounts": "4", "totalBalance": "320000",
	"creditUtilization": "32", "age": "34", "averageMonthlyEMI": "18000"
}`

const incomeBody = `{
	"annualIncome": 2000000, "energyConsumption": 2000, "totalLoanAmount": 100000,
	"loanTenure": 12, "annualWaterBill": 10000, "householdMembers": 4, "monthlyExpenses": 50000
}`

type fakeAudit struct {
	mu          sync.Mutex
	assessments map[string]*models.AssessmentRecord
	documents   []*models.DocumentRecord
	saveErr     error
	findErr     error
}

func newFakeAudit() *fakeAudit {
	return &fakeAudit{assessments: map[string]*models.AssessmentRecord{}}
}

func (f *fakeAudit) SaveAssessment(_ context.Context, rec *models.AssessmentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.assessments[rec.ID] = rec
	return nil
}

func (f *fakeAudit) FindAssessmentByID(_ context.Context, id string) (*models.AssessmentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	rec, ok := f.assessments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rec, nil
}

func (f *fakeAudit) SaveDocument(_ context.Context, doc *models.DocumentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.documents = append(f.documents, doc)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []messaging.AssessmentEvent
	err    error
}

func (f *fakePublisher) PublishAssessment(_ context.Context, ev messaging.AssessmentEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

type fakeDocuments struct {
	bodies  map[string]string
	err     error
	failAt  int
	puts    int
	deleted []string
}

func (f *fakeDocuments) ObjectKey(docID, fileName string) string {
	return "docs/" + docID + "-" + fileName
}

func (f *fakeDocuments) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	f.puts++
	if f.err != nil {
		return f.err
	}
	if f.failAt > 0 && f.puts == f.failAt {
		return errors.New("bucket unavailable")
	}
	data, _ := io.ReadAll(body)
	f.bodies[key] = string(data)
	return nil
}

func (f *fakeDocuments) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.bodies, key)
	return nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (f *fakeNotifier) SendDocumentsReceived(_ string, files []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, files)
	return f.err
}

type fakeRecorder struct {
	mu          sync.Mutex
	assessments []string
	failures    []string
}

func (f *fakeRecorder) ObserveAssessment(kind, category string, _ int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assessments = append(f.assessments, kind+":"+category)
}

func (f *fakeRecorder) CollaboratorError(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, name)
}

type fixedStats struct{ s models.DashboardStats }

func (f fixedStats) Current() models.DashboardStats { return f.s }

func newTestService(deps Deps) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(scoring.NewEngine(), deps, log, &config.Config{AuditSecret: "test-audit-secret"})
}

func fileHeaders(t *testing.T, files map[string]string) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/income/upload-documents", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["files"]
}

func TestCalculateCredit_RecordsAndPublishes(t *testing.T) {
	audit := newFakeAudit()
	pub := &fakePublisher{}
	rec := &fakeRecorder{}
	svc := newTestService(Deps{Audit: audit, Events: pub, Metrics: rec})

	pred, err := svc.CalculateCredit(context.Background(), []byte(creditBody))
	require.NoError(t, err)
	svc.Close()

	assert.Equal(t, 746, pred.Score)
	assert.Equal(t, "Good", pred.Category)
	_, err = uuid.Parse(pred.AssessmentID)
	require.NoError(t, err)

	stored := audit.assessments[pred.AssessmentID]
	require.NotNil(t, stored)
	assert.Equal(t, models.KindCredit, stored.Kind)
	assert.Len(t, stored.Fingerprint, 64)

	var payload models.CreditPrediction
	require.NoError(t, json.Unmarshal(stored.Payload, &payload))
	assert.Equal(t, pred, payload)

	require.Len(t, pub.events, 1)
	assert.Equal(t, pred.AssessmentID, pub.events[0].AssessmentID)
	assert.Equal(t, stored.Fingerprint, pub.events[0].Fingerprint)
	assert.Equal(t, []string{"credit:Good"}, rec.assessments)
}

func TestCalculateCredit_SameProfileSameFingerprint(t *testing.T) {
	audit := newFakeAudit()
	svc := newTestService(Deps{Audit: audit})

	a, err := svc.CalculateCredit(context.Background(), []byte(creditBody))
	require.NoError(t, err)
	b, err := svc.CalculateCredit(context.Background(), []byte(creditBody))
	require.NoError(t, err)

	assert.NotEqual(t, a.AssessmentID, b.AssessmentID)
	assert.Equal(t, audit.assessments[a.AssessmentID].Fingerprint, audit.assessments[b.AssessmentID].Fingerprint)
}

func TestCalculateCredit_CollaboratorFailuresDoNotChangeScore(t *testing.T) {
	audit := newFakeAudit()
	audit.saveErr = errors.New("connection refused")
	pub := &fakePublisher{err: errors.New("broker down")}
	rec := &fakeRecorder{}
	svc := newTestService(Deps{Audit: audit, Events: pub, Metrics: rec})

	pred, err := svc.CalculateCredit(context.Background(), []byte(creditBody))
	require.NoError(t, err)
	svc.Close()

	assert.Equal(t, 746, pred.Score)
	assert.Empty(t, pred.AssessmentID)
	assert.Empty(t, pub.events)
	assert.Equal(t, []string{"audit"}, rec.failures)
}

func TestCalculateCredit_PublishFailureIsCounted(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	rec := &fakeRecorder{}
	svc := newTestService(Deps{Audit: newFakeAudit(), Events: pub, Metrics: rec})

	pred, err := svc.CalculateCredit(context.Background(), []byte(creditBody))
	require.NoError(t, err)
	svc.Close()

	assert.Equal(t, 746, pred.Score)
	assert.NotEmpty(t, pred.AssessmentID)
	assert.Len(t, pub.events, 1)
	assert.Equal(t, []string{"kafka"}, rec.failures)
}

func TestCalculateCredit_NoAuditNoEvent(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(Deps{Events: pub})

	_, err := svc.CalculateCredit(context.Background(), []byte(creditBody))
	require.NoError(t, err)
	svc.Close()

	assert.Empty(t, pub.events)
}

func TestCalculateCredit_NoCollaborators(t *testing.T) {
	svc := newTestService(Deps{})

	pred, err := svc.CalculateCredit(context.Background(), []byte(creditBody))
	require.NoError(t, err)
	assert.Equal(t, 746, pred.Score)
	assert.Empty(t, pred.AssessmentID)
}

func TestCalculateCredit_ValidationError(t *testing.T) {
	audit := newFakeAudit()
	svc := newTestService(Deps{Audit: audit})

	_, err := svc.CalculateCredit(context.Background(), []byte(`{"age": "12"}`))
	var verr *scoring.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Fields)
	assert.Empty(t, audit.assessments)

	_, err = svc.CalculateCredit(context.Background(), []byte(`[1,2]`))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "body", verr.Fields[0].Field)
}

func TestAnalyzeIncome_Records(t *testing.T) {
	audit := newFakeAudit()
	svc := newTestService(Deps{Audit: audit})

	got, err := svc.AnalyzeIncome(context.Background(), []byte(incomeBody))
	require.NoError(t, err)

	assert.Equal(t, 100, got.Score)
	assert.Equal(t, "High", got.Category)
	require.Contains(t, audit.assessments, got.AssessmentID)
	assert.Equal(t, models.KindIncome, audit.assessments[got.AssessmentID].Kind)
}

func TestGetAssessment(t *testing.T) {
	audit := newFakeAudit()
	svc := newTestService(Deps{Audit: audit})
	pred, err := svc.CalculateCredit(context.Background(), []byte(creditBody))
	require.NoError(t, err)

	rec, err := svc.GetAssessment(context.Background(), pred.AssessmentID)
	require.NoError(t, err)
	assert.Equal(t, 746, rec.Score)

	_, err = svc.GetAssessment(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetAssessment(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	audit.findErr = errors.New("timeout")
	_, err = svc.GetAssessment(context.Background(), pred.AssessmentID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestGetAssessment_AuditDisabled(t *testing.T) {
	_, err := newTestService(Deps{}).GetAssessment(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrAuditDisabled)
}

func TestUploadDocuments(t *testing.T) {
	audit := newFakeAudit()
	docs := &fakeDocuments{bodies: map[string]string{}}
	notifier := &fakeNotifier{}
	svc := newTestService(Deps{Audit: audit, Documents: docs, Notifier: notifier})
	assessmentID := uuid.NewString()

	res, err := svc.UploadDocuments(context.Background(), assessmentID, fileHeaders(t, map[string]string{"payslip.pdf": "%PDF-1.7"}))
	require.NoError(t, err)
	svc.Close()

	assert.True(t, res.Success)
	assert.Equal(t, []string{"payslip.pdf"}, res.UploadedFiles)
	assert.Equal(t, "Successfully uploaded 1 documents", res.Message)

	require.Len(t, audit.documents, 1)
	doc := audit.documents[0]
	assert.Equal(t, assessmentID, doc.AssessmentID)
	assert.Equal(t, "%PDF-1.7", docs.bodies[doc.StorageKey])
	assert.Equal(t, int64(8), doc.SizeBytes)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, []string{"payslip.pdf"}, notifier.calls[0])
}

func TestUploadDocuments_Validation(t *testing.T) {
	svc := newTestService(Deps{})

	_, err := svc.UploadDocuments(context.Background(), "bad-id", nil)
	var verr *scoring.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "files", verr.Fields[0].Field)
	assert.Equal(t, "assessmentId", verr.Fields[1].Field)
}

func TestUploadDocuments_StorageFailure(t *testing.T) {
	audit := newFakeAudit()
	rec := &fakeRecorder{}
	svc := newTestService(Deps{Audit: audit, Documents: &fakeDocuments{err: errors.New("denied")}, Metrics: rec})

	_, err := svc.UploadDocuments(context.Background(), "", fileHeaders(t, map[string]string{"a.pdf": "x"}))
	assert.ErrorIs(t, err, ErrStorage)
	assert.Empty(t, audit.documents)
	assert.Equal(t, []string{"storage"}, rec.failures)
}

func TestUploadDocuments_PartialFailureRemovesStoredBodies(t *testing.T) {
	audit := newFakeAudit()
	docs := &fakeDocuments{bodies: map[string]string{}, failAt: 2}
	notifier := &fakeNotifier{}
	rec := &fakeRecorder{}
	svc := newTestService(Deps{Audit: audit, Documents: docs, Notifier: notifier, Metrics: rec})

	_, err := svc.UploadDocuments(context.Background(), "", fileHeaders(t, map[string]string{"a.pdf": "a", "b.pdf": "b"}))
	svc.Close()

	assert.ErrorIs(t, err, ErrStorage)
	assert.Equal(t, 2, docs.puts)
	assert.Len(t, docs.deleted, 1)
	assert.Empty(t, docs.bodies)
	assert.Empty(t, audit.documents)
	assert.Empty(t, notifier.calls)
	assert.Equal(t, []string{"storage"}, rec.failures)
}

func TestUploadDocuments_MetadataOnly(t *testing.T) {
	svc := newTestService(Deps{})

	res, err := svc.UploadDocuments(context.Background(), "", fileHeaders(t, map[string]string{"bill.png": "png"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"bill.png"}, res.UploadedFiles)
}

func TestDashboardStats(t *testing.T) {
	assert.Equal(t, stats.Defaults, newTestService(Deps{}).DashboardStats())

	live := models.DashboardStats{HouseholdsAnalysed: "2M+", LoanVisibility: "x", InclusionUplift: "70%"}
	assert.Equal(t, live, newTestService(Deps{Stats: fixedStats{live}}).DashboardStats())
}

func TestPolicy(t *testing.T) {
	p := newTestService(Deps{}).Policy()
	assert.Len(t, p.CreditBands, 4)
	assert.Len(t, p.IncomeBands, 3)
}
