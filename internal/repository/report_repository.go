package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/risk-optima/internal/database"
	"github.com/yourusername/risk-optima/internal/models"
)

const errScanReport = "failed to scan engine report: %w"

// PostgresReportRepository implements ReportRepository for PostgreSQL
type PostgresReportRepository struct {
	db *database.DB
}

// NewPostgresReportRepository creates a new engine report repository
func NewPostgresReportRepository(db *database.DB) ReportRepository {
	return &PostgresReportRepository{db: db}
}

// Save inserts an engine report. The metrics and recommendation
// structures are stored as JSONB alongside the headline figures.
func (r *PostgresReportRepository) Save(ctx context.Context, report *models.EngineReport) error {
	metricsJSON, err := json.Marshal(report.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}
	recommendationJSON, err := json.Marshal(report.Recommendation)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendation: %w", err)
	}
	warningsJSON, err := json.Marshal(report.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}

	query := `
		INSERT INTO engine_reports (
			run_id, created_at, kelly_fraction, optimal_f, twr,
			recommended_fraction, pass_rate, metrics, recommendation, warnings
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		report.RunID, report.CreatedAt, report.KellyFraction, report.OptimalF, report.TWR,
		report.Recommendation.RecommendedFraction, report.Recommendation.PassRate,
		metricsJSON, recommendationJSON, warningsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save engine report: %w", err)
	}
	return nil
}

// GetByID retrieves an engine report by run ID
func (r *PostgresReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.EngineReport, error) {
	query := `
		SELECT run_id, created_at, kelly_fraction, optimal_f, twr, metrics, recommendation, warnings
		FROM engine_reports WHERE run_id = $1
	`
	row := r.db.GetPool().QueryRow(ctx, query, id)

	report, err := scanReport(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}
		return nil, err
	}
	return report, nil
}

// GetLatest retrieves the most recent engine reports
func (r *PostgresReportRepository) GetLatest(ctx context.Context, limit int) ([]*models.EngineReport, error) {
	query := `
		SELECT run_id, created_at, kelly_fraction, optimal_f, twr, metrics, recommendation, warnings
		FROM engine_reports ORDER BY created_at DESC LIMIT $1
	`
	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest engine reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.EngineReport
	for rows.Next() {
		report, err := scanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// GetByDateRange retrieves engine reports within a date range
func (r *PostgresReportRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.EngineReport, error) {
	query := `
		SELECT run_id, created_at, kelly_fraction, optimal_f, twr, metrics, recommendation, warnings
		FROM engine_reports WHERE created_at >= $1 AND created_at <= $2 ORDER BY created_at DESC
	`
	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query engine reports by date range: %w", err)
	}
	defer rows.Close()

	var reports []*models.EngineReport
	for rows.Next() {
		report, err := scanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// Delete removes an engine report by run ID
func (r *PostgresReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.GetPool().Exec(ctx, `DELETE FROM engine_reports WHERE run_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete engine report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}

func scanReport(scan func(dest ...any) error) (*models.EngineReport, error) {
	report := &models.EngineReport{}
	var metricsJSON, recommendationJSON, warningsJSON []byte

	if err := scan(
		&report.RunID, &report.CreatedAt, &report.KellyFraction, &report.OptimalF, &report.TWR,
		&metricsJSON, &recommendationJSON, &warningsJSON,
	); err != nil {
		return nil, fmt.Errorf(errScanReport, err)
	}

	if err := json.Unmarshal(metricsJSON, &report.Metrics); err != nil {
		return nil, fmt.Errorf(errScanReport, err)
	}
	if err := json.Unmarshal(recommendationJSON, &report.Recommendation); err != nil {
		return nil, fmt.Errorf(errScanReport, err)
	}
	if len(warningsJSON) > 0 {
		if err := json.Unmarshal(warningsJSON, &report.Warnings); err != nil {
			return nil, fmt.Errorf(errScanReport, err)
		}
	}
	return report, nil
}
