package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/signalement-service/internal/domain"
	"github.com/spec-kit/signalement-service/internal/search"
)

// ReportRepository encapsulates report persistence.
type ReportRepository interface {
	// Create stores the report and assigns id and timestamps.
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id int64) (*domain.Report, error)
	// Search returns the reports matching criteria, newest first.
	Search(ctx context.Context, criteria search.Criteria) ([]domain.Report, error)
	// Update applies mutate to the stored report atomically.
	Update(ctx context.Context, id int64, mutate func(*domain.Report) error) (*domain.Report, error)
	Delete(ctx context.Context, id int64) error
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `id, citizen_id, title, location, city, description, comment,
               category, severity, status, created_at, updated_at`

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO signalements (citizen_id, title, location, city, description, comment, category, severity, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		report.CitizenID,
		report.Title,
		report.Location,
		report.City,
		report.Description,
		report.Comment,
		report.Category,
		report.Severity,
		report.Status,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
	return translateError(err)
}

func (r *reportRepository) GetByID(ctx context.Context, id int64) (*domain.Report, error) {
	report, err := scanReport(r.pool.QueryRow(ctx, `SELECT `+reportColumns+` FROM signalements WHERE id=$1`, id))
	if err != nil {
		return nil, translateError(err)
	}
	return report, nil
}

func (r *reportRepository) Search(ctx context.Context, criteria search.Criteria) ([]domain.Report, error) {
	query, args := buildSearchQuery(criteria)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

// buildSearchQuery renders the filtered, newest-first report query.
func buildSearchQuery(criteria search.Criteria) (string, []any) {
	args := &search.Args{}
	query := `SELECT ` + reportColumns + ` FROM signalements`
	if where := search.Where(args, criteria.Predicates()...); where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY created_at DESC, id DESC`
	return query, args.Values()
}

func (r *reportRepository) Update(ctx context.Context, id int64, mutate func(*domain.Report) error) (*domain.Report, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	report, err := scanReport(tx.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM signalements WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return nil, translateError(err)
	}
	if err := mutate(report); err != nil {
		return nil, err
	}

	const query = `
        UPDATE signalements SET title=$1, location=$2, city=$3, description=$4, comment=$5,
            category=$6, severity=$7, status=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`
	if err := tx.QueryRow(ctx, query,
		report.Title,
		report.Location,
		report.City,
		report.Description,
		report.Comment,
		report.Category,
		report.Severity,
		report.Status,
		report.ID,
	).Scan(&report.UpdatedAt); err != nil {
		return nil, translateError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return report, nil
}

func (r *reportRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM signalements WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var report domain.Report
	if err := row.Scan(
		&report.ID,
		&report.CitizenID,
		&report.Title,
		&report.Location,
		&report.City,
		&report.Description,
		&report.Comment,
		&report.Category,
		&report.Severity,
		&report.Status,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}

func scanReports(rows pgx.Rows) ([]domain.Report, error) {
	result := []domain.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *report)
	}
	return result, rows.Err()
}
