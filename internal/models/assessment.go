package models

import (
	"encoding/json"
	"time"
)

// Assessment kinds stored in the audit log
const (
	KindCredit = "credit"
	KindIncome = "income"
)

// AssessmentRecord is an audit entry for one engine evaluation
type AssessmentRecord struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Fingerprint string          `json:"fingerprint"`
	Score       int             `json:"score"`
	Category    string          `json:"category"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
}

// DocumentRecord is the stored metadata of an uploaded income document
type DocumentRecord struct {
	ID           string    `json:"id"`
	AssessmentID string    `json:"assessment_id,omitempty"`
	FileName     string    `json:"file_name"`
	StorageKey   string    `json:"storage_key"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

// UploadResult is the response of POST /api/income/upload-documents
type UploadResult struct {
	Success       bool     `json:"success"`
	UploadedFiles []string `json:"uploaded_files"`
	Message       string   `json:"message"`
}

// ErrorResponse is returned for rejected requests
type ErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

// FieldError names one offending request field
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}
