// Package repository provides persistence for engine reports. It is
// optional: the engine is stateless and only the CLI wires a store in.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/risk-optima/internal/models"
)

// ReportRepository defines the interface for engine report data access
type ReportRepository interface {
	Save(ctx context.Context, report *models.EngineReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.EngineReport, error)
	GetLatest(ctx context.Context, limit int) ([]*models.EngineReport, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.EngineReport, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
