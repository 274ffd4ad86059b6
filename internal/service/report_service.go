package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rosterly/backend/internal/calculator"
	"github.com/rosterly/backend/internal/model"
)

var (
	// ErrInvalidSubmission wraps every ValidationError.
	ErrInvalidSubmission = errors.New("invalid report submission")
	// ErrReportInProgress is returned while a report for the same email is being generated.
	ErrReportInProgress = errors.New("report already in progress")
	// ErrReportFailed is returned when neither renderer produced a document.
	ErrReportFailed = errors.New("report generation failed")
	// ErrReportExpired is returned when the artifact has been purged.
	ErrReportExpired = errors.New("report expired")
)

// ValidationError names the submission field that was rejected.
type ValidationError struct {
	Field string
	Code  string // e.g. "email_required", "invalid_kind"
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Code
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSubmission
}

// ReportSubmission is the report form as posted by a visitor.
type ReportSubmission struct {
	CompanyName string             `json:"company_name"`
	ContactName string             `json:"contact_name"`
	Email       string             `json:"email"`
	Kind        string             `json:"kind"`
	Region      string             `json:"region"`
	Calculation CalculationRequest `json:"calculation"`
}

// ReportReceipt tells the visitor where to fetch the generated report.
type ReportReceipt struct {
	ID          string             `json:"id"`
	Filename    string             `json:"filename"`
	ContentType string             `json:"content_type"`
	Outcome     string             `json:"outcome"`
	DownloadURL string             `json:"download_url"`
	ExpiresAt   time.Time          `json:"expires_at"`
	Emailed     bool               `json:"emailed"`
	Industry    string             `json:"industry"`
	Results     calculator.Results `json:"results"`
}

// ReportDownload is an open artifact. The caller must close Body.
type ReportDownload struct {
	Body        io.ReadCloser
	Filename    string
	ContentType string
}

// ReportService generates, stores and serves savings reports.
type ReportService interface {
	// Create validates the submission, generates the report and records the lead.
	Create(ctx context.Context, sub ReportSubmission) (*ReportReceipt, error)

	// Download opens the artifact of report id when token grants access to it.
	Download(ctx context.Context, id, token string) (*ReportDownload, error)

	// List returns recorded report requests, newest first.
	List(ctx context.Context, opts model.ReportRequestListOptions) ([]*model.ReportRequest, error)

	// PurgeExpired deletes artifacts whose retention ended before now and
	// returns how many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}
