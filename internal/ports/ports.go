package ports

import (
	"context"
	"io"
	"time"

	"github.com/csg33k/wages-generator/internal/domain"
)

// RunRepository defines persistence operations for generated files.
type RunRepository interface {
	CreateRun(ctx context.Context, r *domain.Run) error
	GetRun(ctx context.Context, id string) (*domain.Run, error)
	// ListRuns returns runs newest first without their file content.
	ListRuns(ctx context.Context) ([]domain.Run, error)
	DeleteRun(ctx context.Context, id string) error
}

// RecordEncoder turns employee rows into fixed-width records.
type RecordEncoder interface {
	Encode(row domain.InputRow, now time.Time, batch string) (*domain.EncodedRecord, error)
	EncodeAll(ctx context.Context, rows []domain.InputRow, now time.Time, batch string) ([]domain.EncodedRecord, error)
}

// RowReader reads employee rows from an uploaded workbook. Blank rows are
// already dropped.
type RowReader interface {
	ReadRows(ctx context.Context, r io.Reader) ([]domain.InputRow, error)
}
