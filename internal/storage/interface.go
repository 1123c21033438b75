// Package storage records the history of check runs in a SQL database.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sachi/sachi-go/internal/report"
)

// Common errors
var (
	ErrNotFound  = errors.New("not found")
	ErrAmbiguous = errors.New("ambiguous run id")
)

// Store defines the storage interface
type Store interface {
	// SaveRun stores a run together with its findings
	SaveRun(ctx context.Context, run *Run) error
	// ListRuns returns the most recent runs first, without findings
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	// GetRun returns a run and its findings. id may be a unique prefix.
	GetRun(ctx context.Context, id string) (*Run, error)

	// Close connection
	Close() error
}

// Run is one recorded analysis
type Run struct {
	ID         string    `db:"id" json:"id" yaml:"id"`
	StartedAt  time.Time `db:"started_at" json:"started_at" yaml:"started_at"`
	DurationMS int64     `db:"duration_ms" json:"duration_ms" yaml:"duration_ms"`
	Renderer   string    `db:"renderer" json:"renderer" yaml:"renderer"`
	Targets    int       `db:"targets" json:"targets" yaml:"targets"`
	Functions  int       `db:"functions" json:"functions" yaml:"functions"`
	Checks     int       `db:"checks" json:"checks" yaml:"checks"`
	Warnings   int       `db:"warnings" json:"warnings" yaml:"warnings"`
	Errors     int       `db:"errors" json:"errors" yaml:"errors"`

	Findings []Finding `db:"-" json:"findings,omitempty" yaml:"findings,omitempty"`
}

// Finding is a failed check of a run
type Finding struct {
	RunID  string  `db:"run_id" json:"-" yaml:"-"`
	Target string  `db:"target" json:"target" yaml:"target"`
	Line   int     `db:"line" json:"line" yaml:"line"`
	Col    int     `db:"col" json:"col" yaml:"col"`
	Rule   string  `db:"rule" json:"rule" yaml:"rule"`
	Scope  string  `db:"scope" json:"scope" yaml:"scope"`
	Value  float64 `db:"value" json:"value" yaml:"value"`
	Goal   float64 `db:"goal" json:"goal" yaml:"goal"`
}

// NewRun summarizes r into a run with a fresh id
func NewRun(r *report.Report, renderer string, startedAt time.Time, duration time.Duration) *Run {
	s := r.Summary()
	run := &Run{
		ID:         uuid.NewString(),
		StartedAt:  startedAt.UTC(),
		DurationMS: duration.Milliseconds(),
		Renderer:   renderer,
		Targets:    s.Targets,
		Functions:  s.Functions,
		Checks:     s.Checks,
		Warnings:   s.Warnings,
		Errors:     s.Errors,
	}

	for _, w := range r.Warnings() {
		run.Findings = append(run.Findings, Finding{
			RunID:  run.ID,
			Target: w.Target,
			Line:   w.Lineno,
			Col:    w.Col,
			Rule:   w.Rule.String(),
			Scope:  w.Scope,
			Value:  w.Value,
			Goal:   w.Goal,
		})
	}

	return run
}

// Duration returns the run duration
func (r *Run) Duration() time.Duration {
	return time.Duration(r.DurationMS) * time.Millisecond
}
