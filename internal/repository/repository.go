package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/credit-engine/internal/models"
)

// ErrNotFound is returned when no row matches the lookup.
var ErrNotFound = errors.New("not found")

const schemaDDL = `
	CREATE SCHEMA IF NOT EXISTS credit;
	CREATE TABLE IF NOT EXISTS credit.assessments (
		id          UUID PRIMARY KEY,
		kind        TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		score       INTEGER NOT NULL,
		category    TEXT NOT NULL,
		payload     JSONB NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS assessments_fingerprint_idx ON credit.assessments (fingerprint);
	CREATE TABLE IF NOT EXISTS credit.documents (
		id            UUID PRIMARY KEY,
		assessment_id UUID,
		file_name     TEXT NOT NULL,
		storage_key   TEXT NOT NULL,
		content_type  TEXT NOT NULL,
		size_bytes    BIGINT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the audit tables if they do not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveAssessment stores one evaluation in the audit log
func (r *Repository) SaveAssessment(ctx context.Context, rec *models.AssessmentRecord) error {
	query := `
		INSERT INTO credit.assessments (id, kind, fingerprint, score, category, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, rec.ID, rec.Kind, rec.Fingerprint, rec.Score, rec.Category, []byte(rec.Payload)).
		Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	return nil
}

// FindAssessmentByID retrieves an audit entry by id
func (r *Repository) FindAssessmentByID(ctx context.Context, id string) (*models.AssessmentRecord, error) {
	rec := &models.AssessmentRecord{}
	var payload []byte
	query := `
		SELECT id, kind, fingerprint, score, category, payload, created_at
		FROM credit.assessments
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&rec.ID, &rec.Kind, &rec.Fingerprint, &rec.Score, &rec.Category, &payload, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find assessment: %w", err)
	}
	rec.Payload = payload
	return rec, nil
}

// SaveDocument stores metadata of an uploaded document
func (r *Repository) SaveDocument(ctx context.Context, doc *models.DocumentRecord) error {
	query := `
		INSERT INTO credit.documents (id, assessment_id, file_name, storage_key, content_type, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		RETURNING created_at`
	var assessmentID sql.NullString
	if doc.AssessmentID != "" {
		assessmentID = sql.NullString{String: doc.AssessmentID, Valid: true}
	}
	err := r.db.QueryRowContext(ctx, query, doc.ID, assessmentID, doc.FileName, doc.StorageKey, doc.ContentType, doc.SizeBytes).
		Scan(&doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}
