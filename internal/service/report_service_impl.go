package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rosterly/backend/internal/industry"
	mailer "github.com/rosterly/backend/internal/mail"
	"github.com/rosterly/backend/internal/model"
	"github.com/rosterly/backend/internal/observability"
	"github.com/rosterly/backend/internal/report"
	"github.com/rosterly/backend/internal/repository"
	"github.com/rosterly/backend/internal/storage"
	"github.com/rosterly/backend/pkg/auth"
)

const (
	maxNameLen     = 200
	maxEmailLen    = 254
	maxRegionLen   = 8
	defaultListLim = 50
	maxListLim     = 200
	purgeBatchSize = 100
)

// ReportServiceDeps lists the collaborators of the report service.
// Mailer and Metrics are optional.
type ReportServiceDeps struct {
	Repo       repository.ReportRequestRepository
	Storage    storage.Storage
	Calculator CalculatorService
	Registry   *industry.Registry
	Generator  *report.Generator
	Signer     *auth.DownloadSigner
	Mailer     mailer.Sender
	Metrics    *observability.Metrics

	// Retention is how long artifacts are kept after creation.
	Retention time.Duration
	// PublicBaseURL prefixes download links, e.g. "https://api.rosterly.example".
	PublicBaseURL string
}

// reportServiceImpl is the production implementation of ReportService.
type reportServiceImpl struct {
	ReportServiceDeps
	gate *report.Gate
	now  func() time.Time
}

// NewReportService creates a ReportService.
func NewReportService(deps ReportServiceDeps) ReportService {
	return &reportServiceImpl{
		ReportServiceDeps: deps,
		gate:              report.NewGate(),
		now:               time.Now,
	}
}

func (s *reportServiceImpl) Create(ctx context.Context, sub ReportSubmission) (*ReportReceipt, error) {
	sub, kind, err := normalizeSubmission(sub)
	if err != nil {
		return nil, err
	}

	if !s.gate.TryAcquire(sub.Email) {
		return nil, ErrReportInProgress
	}
	defer s.gate.Release(sub.Email)

	calc, err := s.Calculator.Calculate(ctx, sub.Calculation)
	if err != nil {
		return nil, fmt.Errorf("calculate: %w", err)
	}

	now := s.now().UTC()
	started := time.Now()
	artifact := s.Generator.Generate(ctx, report.Request{
		CompanyName: sub.CompanyName,
		ContactName: sub.ContactName,
		Email:       sub.Email,
		Kind:        kind,
		Region:      sub.Region,
		Industry:    s.Registry.Lookup(calc.ResolvedIndustry),
		Inputs:      calc.Inputs,
		Results:     calc.Results,
		GeneratedAt: now,
	})
	s.Metrics.ReportGenerated(string(kind), string(artifact.Outcome), time.Since(started))
	if !artifact.OK() {
		return nil, fmt.Errorf("%w: %v", ErrReportFailed, artifact.Err)
	}

	id := uuid.NewString()
	key := fmt.Sprintf("reports/%s/%s%s", now.Format("2006/01"), id, path.Ext(artifact.Filename))
	if err := s.Storage.Save(ctx, key, bytes.NewReader(artifact.Data), artifact.ContentType); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}

	token, tokenExpiry, err := s.Signer.Sign(id)
	if err != nil {
		s.discard(key)
		return nil, err
	}

	rec := &model.ReportRequest{
		ID:                 id,
		CompanyName:        sub.CompanyName,
		ContactName:        sub.ContactName,
		Email:              sub.Email,
		Industry:           calc.ResolvedIndustry,
		Region:             sub.Region,
		Kind:               string(kind),
		Employees:          calc.Inputs.Employees,
		TotalAnnualSavings: calc.Results.TotalAnnualSavings,
		ROIMultiple:        calc.Results.ROIMultiple,
		Outcome:            string(artifact.Outcome),
		Filename:           artifact.Filename,
		ContentType:        artifact.ContentType,
		ArtifactKey:        key,
		ExpiresAt:          now.Add(s.Retention),
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		s.discard(key)
		return nil, fmt.Errorf("save report request: %w", err)
	}

	receipt := &ReportReceipt{
		ID:          id,
		Filename:    artifact.Filename,
		ContentType: artifact.ContentType,
		Outcome:     string(artifact.Outcome),
		DownloadURL: s.downloadURL(id, token),
		ExpiresAt:   tokenExpiry,
		Industry:    calc.ResolvedIndustry,
		Results:     calc.Results,
	}
	receipt.Emailed = s.email(ctx, sub, kind, artifact, receipt)

	slog.Info("report created",
		"report_id", id,
		"industry", calc.ResolvedIndustry,
		"kind", kind,
		"outcome", artifact.Outcome,
		"emailed", receipt.Emailed,
	)
	return receipt, nil
}

// email sends the report as an attachment. Failures are logged, not returned.
func (s *reportServiceImpl) email(ctx context.Context, sub ReportSubmission, kind report.Kind, a report.Artifact, r *ReportReceipt) bool {
	if s.Mailer == nil {
		return false
	}

	greeting := "Hello"
	if sub.ContactName != "" {
		greeting = "Hello " + sub.ContactName
	}
	region := report.LookupRegion(sub.Region)
	body := fmt.Sprintf("%s,\n\nAttached is your %s.\n\nEstimated annual savings: %s\n\n"+
		"You can also download it until %s:\n%s\n\nThe Rosterly team\n",
		greeting,
		strings.ToLower(kind.Title()),
		region.Money(r.Results.TotalAnnualSavings),
		r.ExpiresAt.Format("2 January 2006"),
		r.DownloadURL,
	)

	err := s.Mailer.Send(ctx, mailer.Message{
		To:      sub.Email,
		Subject: "Your " + kind.Title(),
		Body:    body,
		Attachments: []mailer.Attachment{
			{Filename: a.Filename, ContentType: a.ContentType, Data: a.Data},
		},
	})
	if err != nil {
		s.Metrics.EmailFailed()
		slog.Warn("report email failed", "report_id", r.ID, "error", err)
		return false
	}
	return true
}

func (s *reportServiceImpl) downloadURL(id, token string) string {
	q := url.Values{"token": {token}}
	return strings.TrimRight(s.PublicBaseURL, "/") + "/api/reports/" + url.PathEscape(id) + "/download?" + q.Encode()
}

// discard removes an artifact whose request could not be recorded.
func (s *reportServiceImpl) discard(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Storage.Delete(ctx, key); err != nil {
		slog.Warn("discard orphaned report failed", "key", key, "error", err)
	}
}

func (s *reportServiceImpl) Download(ctx context.Context, id, token string) (*ReportDownload, error) {
	if err := s.Signer.Verify(token, id); err != nil {
		return nil, err
	}

	rec, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.ArtifactKey == "" {
		return nil, ErrReportExpired
	}

	body, err := s.Storage.Open(ctx, rec.ArtifactKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrReportExpired
	}
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	return &ReportDownload{Body: body, Filename: rec.Filename, ContentType: rec.ContentType}, nil
}

func (s *reportServiceImpl) List(ctx context.Context, opts model.ReportRequestListOptions) ([]*model.ReportRequest, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultListLim
	}
	if opts.Limit > maxListLim {
		opts.Limit = maxListLim
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.Repo.List(ctx, opts)
}

// PurgeExpired works in batches. A batch with failures ends the run so the
// same rows are not retried in a loop; they are picked up on the next run.
func (s *reportServiceImpl) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	purged := 0
	for {
		batch, err := s.Repo.ListExpired(ctx, now, purgeBatchSize)
		if err != nil {
			return purged, fmt.Errorf("list expired reports: %w", err)
		}

		var errs []error
		removed := 0
		for _, rec := range batch {
			if err := s.Storage.Delete(ctx, rec.ArtifactKey); err != nil {
				errs = append(errs, fmt.Errorf("delete %s: %w", rec.ID, err))
				continue
			}
			if err := s.Repo.ClearArtifact(ctx, rec.ID); err != nil {
				errs = append(errs, fmt.Errorf("clear %s: %w", rec.ID, err))
				continue
			}
			removed++
		}
		purged += removed
		s.Metrics.ArtifactsPurged(removed)

		if len(errs) > 0 {
			return purged, errors.Join(errs...)
		}
		if len(batch) < purgeBatchSize {
			return purged, nil
		}
		if err := ctx.Err(); err != nil {
			return purged, err
		}
	}
}

// normalizeSubmission trims the form fields and validates them.
func normalizeSubmission(sub ReportSubmission) (ReportSubmission, report.Kind, error) {
	sub.CompanyName = strings.TrimSpace(sub.CompanyName)
	sub.ContactName = strings.TrimSpace(sub.ContactName)
	sub.Email = strings.ToLower(strings.TrimSpace(sub.Email))
	sub.Region = strings.ToUpper(strings.TrimSpace(sub.Region))

	if sub.Email == "" {
		return sub, "", &ValidationError{Field: "email", Code: "email_required"}
	}
	if len(sub.Email) > maxEmailLen {
		return sub, "", &ValidationError{Field: "email", Code: "email_too_long"}
	}
	addr, err := mail.ParseAddress(sub.Email)
	if err != nil || addr.Address != sub.Email {
		return sub, "", &ValidationError{Field: "email", Code: "invalid_email"}
	}
	if len([]rune(sub.CompanyName)) > maxNameLen {
		return sub, "", &ValidationError{Field: "company_name", Code: "company_name_too_long"}
	}
	if len([]rune(sub.ContactName)) > maxNameLen {
		return sub, "", &ValidationError{Field: "contact_name", Code: "contact_name_too_long"}
	}
	if len(sub.Region) > maxRegionLen {
		return sub, "", &ValidationError{Field: "region", Code: "invalid_region"}
	}
	kind, err := report.ParseKind(sub.Kind)
	if err != nil {
		return sub, "", &ValidationError{Field: "kind", Code: "invalid_kind"}
	}
	return sub, kind, nil
}
