package repository

import (
	"context"
	"time"

	"github.com/rosterly/backend/internal/model"
)

// DB checks that the database connection is alive.
type DB interface {
	Ping(ctx context.Context) error
}

// ReportRequestRepository persists report form submissions.
type ReportRequestRepository interface {
	Save(ctx context.Context, req *model.ReportRequest) error
	FindByID(ctx context.Context, id string) (*model.ReportRequest, error)
	List(ctx context.Context, opts model.ReportRequestListOptions) ([]*model.ReportRequest, error)
	// ListExpired returns up to limit requests whose artifact is still stored
	// but expired before the given time.
	ListExpired(ctx context.Context, before time.Time, limit int) ([]*model.ReportRequest, error)
	ClearArtifact(ctx context.Context, id string) error
}
