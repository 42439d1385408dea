package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/muhammadolammi/resumescreener/internal/database"
	"github.com/muhammadolammi/resumescreener/internal/ranker"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Store is the subset of database.Queries the worker uses.
type Store interface {
	GetSession(ctx context.Context, id uuid.UUID) (database.Session, error)
	GetResumesBySession(ctx context.Context, sessionID uuid.UUID) ([]database.GetResumesBySessionRow, error)
	UpdateSessionStatus(ctx context.Context, arg database.UpdateSessionStatusParams) error
	CreateOrUpdateAnalysesResults(ctx context.Context, arg database.CreateOrUpdateAnalysesResultsParams) error
}

// ObjectStore holds uploaded resumes and generated exports.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key, contentType string, body []byte) error
}

// Publisher fans session status changes out to listeners.
type Publisher interface {
	PublishSessionUpdate(sessionID string, update SessionUpdate) error
}

// Analyzer ranks a batch of resumes against a job description.
type Analyzer interface {
	Analyze(ctx context.Context, docs []ranker.Document, jobDesc string) ([]ranker.Record, error)
}

type WorkerConfig struct {
	DB          Store
	Objects     ObjectStore
	Updates     Publisher
	Analyzer    Analyzer
	RABBITMQUrl string
	Log         zerolog.Logger
	Now         func() time.Time
}

// Session is the message body on the sessions queue. Only ID is required;
// missing job fields are read from the database.
type Session struct {
	ID             uuid.UUID `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Name           string    `json:"name"`
	UserID         uuid.UUID `json:"user_id"`
	Status         string    `json:"status"`
	JobTitle       string    `json:"job_title"`
	JobDescription string    `json:"job_description"`
}

type SessionUpdate struct {
	SessionID  uuid.UUID `json:"session_id"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	Candidates int       `json:"candidates,omitempty"`
	ExportKey  string    `json:"export_key,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// AnalysesResults is what gets stored per session: the ranked six-field rows
// in display order.
type AnalysesResults struct {
	SessionID uuid.UUID    `json:"session_id"`
	JobTitle  string       `json:"job_title"`
	Results   []ranker.Row `json:"results"`
	Skipped   []string     `json:"skipped,omitempty"`
	ExportKey string       `json:"export_key,omitempty"`
}
