package report

import (
	"context"
	"database/sql"
	"time"

	"github.com/ecosort/ecosort-backend/internal/domain"
	"github.com/ecosort/ecosort-backend/internal/service/cache"
	apperrors "github.com/ecosort/ecosort-backend/pkg/errors"
	"go.uber.org/zap"
)

const (
	statsCacheKey = "ecosort:reports:stats"
	statsCacheTTL = 30 * time.Second
)

// Repository persists citizen garbage reports in PostgreSQL. Image bytes are
// stored inline alongside the report row. Dashboard statistics are served
// through a short-lived Redis cache when one is attached; the cache is
// best-effort and every miss or error falls through to a live count.
type Repository struct {
	db     *sql.DB
	cache  *cache.CacheService
	logger *zap.Logger
}

func NewRepository(db *sql.DB, cacheSvc *cache.CacheService, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		cache:  cacheSvc,
		logger: logger,
	}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS garbage_reports (
	id             BIGSERIAL PRIMARY KEY,
	type           TEXT NOT NULL DEFAULT 'Garbage Report',
	location       TEXT NOT NULL DEFAULT '',
	latitude       DOUBLE PRECISION,
	longitude      DOUBLE PRECISION,
	description    TEXT NOT NULL DEFAULT '',
	submitted_by   TEXT NOT NULL DEFAULT 'Anonymous',
	image_filename TEXT,
	image_data     BYTEA,
	status         TEXT NOT NULL DEFAULT 'pending',
	source         TEXT NOT NULL DEFAULT 'web',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_garbage_reports_status ON garbage_reports (status);
CREATE INDEX IF NOT EXISTS idx_garbage_reports_created_at ON garbage_reports (created_at DESC);
`

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return apperrors.NewStorageError("failed to ensure report schema", "migrate", err)
	}
	r.logger.Info("Report schema ready")
	return nil
}

// Insert stores a new report and returns it with server-assigned fields.
func (r *Repository) Insert(ctx context.Context, req *domain.NewReport) (*domain.GarbageReport, error) {
	submittedBy := req.SubmittedBy
	if submittedBy == "" {
		submittedBy = "Anonymous"
	}
	source := req.Source
	if source == "" {
		source = "web"
	}

	var imageData []byte
	var imageName sql.NullString
	if len(req.ImageData) > 0 {
		imageData = req.ImageData
		imageName = sql.NullString{String: req.ImageName, Valid: true}
	}

	report := &domain.GarbageReport{
		Type:        "Garbage Report",
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Description: req.Description,
		SubmittedBy: submittedBy,
		ImageName:   req.ImageName,
		HasImage:    len(req.ImageData) > 0,
		Status:      domain.ReportStatusPending,
		Source:      source,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO garbage_reports
			(location, latitude, longitude, description, submitted_by, image_filename, image_data, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		req.Location, req.Latitude, req.Longitude, req.Description,
		submittedBy, imageName, imageData, source,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to insert report", "insert", err)
	}

	r.invalidateStats(ctx)

	r.logger.Info("Garbage report stored",
		zap.Int64("id", report.ID),
		zap.String("source", source),
		zap.Bool("has_image", report.HasImage),
	)
	return report, nil
}

// List returns reports newest first. A limit of zero or less means all.
func (r *Repository) List(ctx context.Context, limit int) ([]*domain.GarbageReport, error) {
	query := `
		SELECT id, type, location, latitude, longitude, description, submitted_by,
		       image_filename, (image_data IS NOT NULL), status, source, created_at, updated_at
		FROM garbage_reports
		ORDER BY created_at DESC`

	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+" LIMIT $1", limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list reports", "list", err)
	}
	defer rows.Close()

	reports := make([]*domain.GarbageReport, 0)
	for rows.Next() {
		report := &domain.GarbageReport{}
		var imageName sql.NullString
		if err := rows.Scan(
			&report.ID, &report.Type, &report.Location, &report.Latitude, &report.Longitude,
			&report.Description, &report.SubmittedBy, &imageName, &report.HasImage,
			&report.Status, &report.Source, &report.CreatedAt, &report.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewStorageError("failed to scan report", "list", err)
		}
		report.ImageName = imageName.String
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to iterate reports", "list", err)
	}
	return reports, nil
}

// UpdateStatus moves one report to a new review status. The second return
// reports whether the id matched anything.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReportStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE garbage_reports
		SET status = $1, updated_at = now()
		WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return false, apperrors.NewStorageError("failed to update report status", "update", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewStorageError("failed to read update result", "update", err)
	}
	if affected == 0 {
		return false, nil
	}

	r.invalidateStats(ctx)

	r.logger.Info("Report status updated",
		zap.Int64("id", id),
		zap.String("status", string(status)),
	)
	return true, nil
}

// Stats counts reports by review status, serving from the cache when fresh.
func (r *Repository) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	if r.cache != nil {
		cached := &domain.DashboardStats{Total: -1}
		if err := r.cache.Get(ctx, statsCacheKey, cached); err == nil && cached.Total >= 0 {
			return cached, nil
		}
	}

	stats := &domain.DashboardStats{}
	err := r.db.QueryRowContext(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE status = 'pending'),
		       count(*) FILTER (WHERE status = 'approved'),
		       count(*) FILTER (WHERE status = 'rejected')
		FROM garbage_reports`,
	).Scan(&stats.Total, &stats.Pending, &stats.Approved, &stats.Rejected)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to count reports", "stats", err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, statsCacheKey, stats, statsCacheTTL); err != nil {
			r.logger.Debug("Stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// Image returns the stored photo bytes and filename for one report. A report
// without an image yields nil bytes and no error; a missing report likewise.
func (r *Repository) Image(ctx context.Context, id int64) ([]byte, string, error) {
	var data []byte
	var filename sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT image_data, image_filename
		FROM garbage_reports
		WHERE id = $1`,
		id,
	).Scan(&data, &filename)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", apperrors.NewStorageError("failed to load report image", "image", err)
	}
	return data, filename.String, nil
}

func (r *Repository) invalidateStats(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, statsCacheKey); err != nil {
		r.logger.Debug("Stats cache invalidation failed", zap.Error(err))
	}
}
