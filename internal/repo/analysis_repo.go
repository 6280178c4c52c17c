package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Analysis/internal/domain"
)

// uniqueViolation — код ошибки PostgreSQL при нарушении уникальности.
const uniqueViolation = "23505"

// AnalysisRepo — репозиторий для работы с анализами.
type AnalysisRepo struct {
	pool *pgxpool.Pool
}

// NewAnalysisRepo создаёт новый AnalysisRepo.
func NewAnalysisRepo(pool *pgxpool.Pool) *AnalysisRepo {
	return &AnalysisRepo{pool: pool}
}

// Create сохраняет анализ вместе со статистикой в одной транзакции.
func (r *AnalysisRepo) Create(ctx context.Context, a *domain.Analysis) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := `
		INSERT INTO analyses (id, logfile, scenario, run_number, output_dir, status, tasks, error, created_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.Exec(ctx, query,
		a.ID,
		a.Logfile,
		a.Scenario,
		nullString(a.RunNumber),
		nullString(a.OutputDir),
		a.Status.String(),
		a.Tasks,
		nullString(a.Error),
		a.CreatedAt,
		a.FinishedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: analysis %s", ErrAlreadyExists, a.ID)
		}
		return fmt.Errorf("insert analysis: %w", err)
	}

	if len(a.Stats) > 0 {
		batch := &pgx.Batch{}
		for _, s := range a.Stats {
			batch.Queue(`
				INSERT INTO analysis_stats (analysis_id, name, min, max, mean, median, p95, stdev, count)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, a.ID, s.Name, s.Min, s.Max, s.Mean, s.Median, s.P95, s.Stdev, s.Count)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert analysis stats: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByLogfile возвращает последний анализ лога со статистикой.
func (r *AnalysisRepo) GetByLogfile(ctx context.Context, logfile string) (*domain.Analysis, error) {
	query := `
		SELECT id, logfile, scenario, run_number, output_dir, status, tasks, error, created_at, finished_at
		FROM analyses
		WHERE logfile = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	a, err := scanAnalysis(r.pool.QueryRow(ctx, query, logfile))
	if err != nil {
		return nil, err
	}

	stats, err := r.listStats(ctx, a)
	if err != nil {
		return nil, err
	}
	a.Stats = stats
	return a, nil
}

// ExistsByLogfile проверяет, анализировался ли лог.
// Анализы со статусом FAILED не учитываются.
func (r *AnalysisRepo) ExistsByLogfile(ctx context.Context, logfile string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM analyses WHERE logfile = $1 AND status <> 'FAILED'
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, logfile).Scan(&exists); err != nil {
		return false, fmt.Errorf("check analysis: %w", err)
	}
	return exists, nil
}

// ListRecent возвращает последние limit анализов без статистики.
func (r *AnalysisRepo) ListRecent(ctx context.Context, limit int) ([]domain.Analysis, error) {
	query := `
		SELECT id, logfile, scenario, run_number, output_dir, status, tasks, error, created_at, finished_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, *a)
	}
	return analyses, rows.Err()
}

// listStats возвращает статистику анализа, отсортированную по имени.
func (r *AnalysisRepo) listStats(ctx context.Context, a *domain.Analysis) ([]domain.Stat, error) {
	query := `
		SELECT name, min, max, mean, median, p95, stdev, count
		FROM analysis_stats
		WHERE analysis_id = $1
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query, a.ID)
	if err != nil {
		return nil, fmt.Errorf("list analysis stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.Stat
	for rows.Next() {
		var s domain.Stat
		if err := rows.Scan(&s.Name, &s.Min, &s.Max, &s.Mean, &s.Median, &s.P95, &s.Stdev, &s.Count); err != nil {
			return nil, fmt.Errorf("scan analysis stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// scanAnalysis сканирует одну строку в Analysis.
// pgx.Row покрывает и QueryRow, и Rows.
func scanAnalysis(row pgx.Row) (*domain.Analysis, error) {
	var a domain.Analysis
	var runNumber, outputDir, analysisError *string
	var status string

	err := row.Scan(
		&a.ID,
		&a.Logfile,
		&a.Scenario,
		&runNumber,
		&outputDir,
		&status,
		&a.Tasks,
		&analysisError,
		&a.CreatedAt,
		&a.FinishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan analysis: %w", err)
	}

	a.Status = domain.ParseAnalysisStatus(status)
	a.RunNumber = deref(runNumber)
	a.OutputDir = deref(outputDir)
	a.Error = deref(analysisError)
	return &a, nil
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
