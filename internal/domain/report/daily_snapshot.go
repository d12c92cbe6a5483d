package report

import (
	"context"
	"time"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SnapshotKind selects which ledger a snapshot summarises
type SnapshotKind string

const (
	SnapshotKindRawMaterial SnapshotKind = "RAW_MATERIAL"
	SnapshotKindFeed        SnapshotKind = "FEED"
)

var ErrSnapshotNotFound = shared.NewDomainError(shared.CodeSnapshotNotFound, "No snapshot recorded for this date")

// DailySnapshot is the opening/in/out/closing balance of one material or feed
// category for one calendar day. It is derived from the ledgers and can be rebuilt.
type DailySnapshot struct {
	ID       uuid.UUID
	Kind     SnapshotKind
	EntityID uuid.UUID
	Date     time.Time
	Opening  decimal.Decimal
	In       decimal.Decimal
	Out      decimal.Decimal
	Closing  decimal.Decimal
	// UpdatedAt is the last time the row was (re)computed
	UpdatedAt time.Time
}

// NewDailySnapshot computes closing = opening + in - out
func NewDailySnapshot(kind SnapshotKind, entityID uuid.UUID, day time.Time, opening, in, out decimal.Decimal) *DailySnapshot {
	return &DailySnapshot{
		ID:        uuid.New(),
		Kind:      kind,
		EntityID:  entityID,
		Date:      time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
		Opening:   opening,
		In:        in,
		Out:       out,
		Closing:   opening.Add(in).Sub(out),
		UpdatedAt: time.Now(),
	}
}

// SnapshotRepository persists daily snapshots. Dates are calendar days stored at UTC midnight.
type SnapshotRepository interface {
	FindOne(ctx context.Context, kind SnapshotKind, entityID uuid.UUID, day time.Time) (*DailySnapshot, error)
	FindByDate(ctx context.Context, kind SnapshotKind, day time.Time) ([]DailySnapshot, error)
	// Upsert inserts or replaces the row keyed by (kind, entity, date)
	Upsert(ctx context.Context, snapshot *DailySnapshot) error
}
