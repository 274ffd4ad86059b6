package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rosterly/backend/internal/model"
)

// PgReportRequestRepository is the PostgreSQL implementation of ReportRequestRepository.
type PgReportRequestRepository struct {
	pool *pgxpool.Pool
}

// NewPgReportRequestRepository creates a PgReportRequestRepository backed by the given pool.
func NewPgReportRequestRepository(pool *pgxpool.Pool) *PgReportRequestRepository {
	return &PgReportRequestRepository{pool: pool}
}

var _ ReportRequestRepository = (*PgReportRequestRepository)(nil)

const reportRequestCols = `id, COALESCE(company_name, ''), COALESCE(contact_name, ''), email, industry,
	COALESCE(region, ''), kind, employees, total_annual_savings, roi_multiple, outcome,
	filename, content_type, COALESCE(artifact_key, ''), expires_at, created_at`

func scanReportRequest(scan func(...any) error) (*model.ReportRequest, error) {
	var r model.ReportRequest
	err := scan(&r.ID, &r.CompanyName, &r.ContactName, &r.Email, &r.Industry,
		&r.Region, &r.Kind, &r.Employees, &r.TotalAnnualSavings, &r.ROIMultiple, &r.Outcome,
		&r.Filename, &r.ContentType, &r.ArtifactKey, &r.ExpiresAt, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Save inserts a report_requests row. ID is supplied by the caller; CreatedAt
// is populated from the RETURNING clause.
func (r *PgReportRequestRepository) Save(ctx context.Context, req *model.ReportRequest) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO report_requests
		   (id, company_name, contact_name, email, industry, region, kind, employees,
		    total_annual_savings, roi_multiple, outcome, filename, content_type, artifact_key, expires_at)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13, NULLIF($14, ''), $15)
		 RETURNING created_at`,
		req.ID, req.CompanyName, req.ContactName, req.Email, req.Industry, req.Region, req.Kind, req.Employees,
		req.TotalAnnualSavings, req.ROIMultiple, req.Outcome, req.Filename, req.ContentType, req.ArtifactKey, req.ExpiresAt,
	).Scan(&req.CreatedAt)
}

// FindByID returns ErrNotFound when no row matches.
func (r *PgReportRequestRepository) FindByID(ctx context.Context, id string) (*model.ReportRequest, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+reportRequestCols+` FROM report_requests WHERE id = $1`, id)
	req, err := scanReportRequest(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return req, err
}

// List returns requests newest first, optionally filtered by industry.
func (r *PgReportRequestRepository) List(ctx context.Context, opts model.ReportRequestListOptions) ([]*model.ReportRequest, error) {
	var conditions []string
	var args []any

	if industry := strings.TrimSpace(opts.Industry); industry != "" {
		args = append(args, industry)
		conditions = append(conditions, "industry = $1")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limitArg := strconv.Itoa(len(args) + 1)
	offsetArg := strconv.Itoa(len(args) + 2)
	args = append(args, opts.Limit, opts.Offset)

	query := `SELECT ` + reportRequestCols + ` FROM report_requests ` + where +
		` ORDER BY created_at DESC LIMIT $` + limitArg + ` OFFSET $` + offsetArg

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ReportRequest
	for rows.Next() {
		req, err := scanReportRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *PgReportRequestRepository) ListExpired(ctx context.Context, before time.Time, limit int) ([]*model.ReportRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reportRequestCols+` FROM report_requests
		 WHERE artifact_key IS NOT NULL AND expires_at < $1
		 ORDER BY expires_at
		 LIMIT $2`, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ReportRequest
	for rows.Next() {
		req, err := scanReportRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// ClearArtifact forgets the stored artifact of a request; the lead itself is kept.
func (r *PgReportRequestRepository) ClearArtifact(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE report_requests SET artifact_key = NULL WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
