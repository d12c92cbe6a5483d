package inventory

import (
	"strings"
	"time"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unit is the measuring unit of a raw material
type Unit string

const (
	UnitKG  Unit = "KG"
	UnitTon Unit = "TON"
)

// IsValid returns true if the unit is known
func (u Unit) IsValid() bool {
	return u == UnitKG || u == UnitTon
}

var (
	ErrRawMaterialNotFound = shared.NewDomainError(shared.CodeRawMaterialNotFound, "Raw material not found")
	ErrRawMaterialExists   = shared.NewDomainError(shared.CodeRawMaterialExists, "Raw material with this name already exists")
)

// RawMaterial is an input consumed by production batches
type RawMaterial struct {
	shared.BaseEntity
	Name string
	Unit Unit
}

// NewRawMaterial creates a raw material
func NewRawMaterial(name string, unit Unit) (*RawMaterial, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Raw material name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Raw material name cannot exceed 100 characters")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unit must be KG or TON")
	}
	return &RawMaterial{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Unit:       unit,
	}, nil
}

// RawTransactionType is the kind of a raw-material ledger entry
type RawTransactionType string

const (
	RawTransactionIn         RawTransactionType = "IN"
	RawTransactionOut        RawTransactionType = "OUT"
	RawTransactionAdjustment RawTransactionType = "ADJUSTMENT"
)

// IsValid returns true if the transaction type is known
func (t RawTransactionType) IsValid() bool {
	switch t {
	case RawTransactionIn, RawTransactionOut, RawTransactionAdjustment:
		return true
	}
	return false
}

// Reference types linking a ledger entry to its source document
const (
	ReferenceProductionBatch = "PRODUCTION_BATCH"
	ReferenceOrder           = "ORDER"
	ReferenceManual          = "MANUAL"
)

// RawMaterialTransaction is an append-only raw-material ledger entry.
// Quantity is always the absolute magnitude; Delta is the signed effect on the balance.
type RawMaterialTransaction struct {
	ID            uuid.UUID
	RawMaterialID uuid.UUID
	AdminUserID   uuid.UUID
	Type          RawTransactionType
	Quantity      decimal.Decimal
	Delta         decimal.Decimal
	ReferenceType string
	ReferenceID   string
	Notes         string
	CreatedAt     time.Time
}

// NewRawMaterialTransaction builds a ledger entry. For IN and OUT, quantity is a
// positive magnitude; for ADJUSTMENT it is the signed, non-zero delta to apply.
func NewRawMaterialTransaction(
	materialID, adminID uuid.UUID,
	txType RawTransactionType,
	quantity decimal.Decimal,
	notes string,
) (*RawMaterialTransaction, error) {
	if materialID == uuid.Nil {
		return nil, ErrRawMaterialNotFound
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Transaction type must be IN, OUT or ADJUSTMENT")
	}

	var delta decimal.Decimal
	switch txType {
	case RawTransactionIn:
		if !quantity.IsPositive() {
			return nil, shared.ErrInvalidQuantity.WithMessage("Quantity must be greater than zero")
		}
		delta = quantity
	case RawTransactionOut:
		if !quantity.IsPositive() {
			return nil, shared.ErrInvalidQuantity.WithMessage("Quantity must be greater than zero")
		}
		delta = quantity.Neg()
	case RawTransactionAdjustment:
		if quantity.IsZero() {
			return nil, shared.ErrInvalidQuantity.WithMessage("Adjustment delta must be non-zero")
		}
		delta = quantity
	}

	return &RawMaterialTransaction{
		ID:            uuid.New(),
		RawMaterialID: materialID,
		AdminUserID:   adminID,
		Type:          txType,
		Quantity:      quantity.Abs(),
		Delta:         delta,
		ReferenceType: ReferenceManual,
		Notes:         strings.TrimSpace(notes),
		CreatedAt:     time.Now(),
	}, nil
}

// WithReference links the entry to a source document
func (t *RawMaterialTransaction) WithReference(refType string, refID uuid.UUID) *RawMaterialTransaction {
	t.ReferenceType = refType
	t.ReferenceID = refID.String()
	return t
}

// RawMaterialBalance derives the current balance from ledger entries:
// sum(IN) + sum(ADJUSTMENT delta) - sum(OUT).
func RawMaterialBalance(entries []RawMaterialTransaction) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		switch e.Type {
		case RawTransactionIn:
			balance = balance.Add(e.Quantity)
		case RawTransactionOut:
			balance = balance.Sub(e.Quantity)
		case RawTransactionAdjustment:
			balance = balance.Add(e.Delta)
		}
	}
	return balance
}

// RawMaterialStock is a material paired with its derived balance
type RawMaterialStock struct {
	Material RawMaterial
	Balance  decimal.Decimal
}
