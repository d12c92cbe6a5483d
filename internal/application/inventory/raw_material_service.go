package inventory

import (
	"context"
	"time"

	"github.com/feedoffice/backend/internal/application/txn"
	"github.com/feedoffice/backend/internal/domain/inventory"
	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RawMaterialService manages raw materials and their append-only ledger
type RawMaterialService struct {
	scope txn.TransactionScope
	loc   *time.Location
}

// NewRawMaterialService creates a new RawMaterialService. loc is the business
// calendar used to interpret date filters.
func NewRawMaterialService(scope txn.TransactionScope, loc *time.Location) *RawMaterialService {
	if loc == nil {
		loc = time.UTC
	}
	return &RawMaterialService{scope: scope, loc: loc}
}

// Create registers a raw material; names are unique case-insensitively
func (s *RawMaterialService) Create(ctx context.Context, req CreateRawMaterialRequest) (*RawMaterialResponse, error) {
	material, err := inventory.NewRawMaterial(req.Name, inventory.Unit(req.Unit))
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos txn.Repositories) error {
		exists, err := repos.RawMaterials().ExistsByName(ctx, material.Name)
		if err != nil {
			return err
		}
		if exists {
			return inventory.ErrRawMaterialExists
		}
		return repos.RawMaterials().Save(ctx, material)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("raw material created",
		zap.String("raw_material_id", material.ID.String()),
		zap.String("name", material.Name))

	response := ToRawMaterialResponse(material, decimal.Zero)
	return &response, nil
}

// List returns every raw material with its current balance
func (s *RawMaterialService) List(ctx context.Context) ([]RawMaterialResponse, error) {
	repos := s.scope.Reader()
	materials, err := repos.RawMaterials().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	balances, err := repos.RawMaterialLedger().Balances(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]RawMaterialResponse, len(materials))
	for i := range materials {
		balance, ok := balances[materials[i].ID]
		if !ok {
			balance = decimal.Zero
		}
		responses[i] = ToRawMaterialResponse(&materials[i], balance)
	}
	return responses, nil
}

// Get returns one raw material with its balance
func (s *RawMaterialService) Get(ctx context.Context, id uuid.UUID) (*RawMaterialResponse, error) {
	repos := s.scope.Reader()
	material, err := repos.RawMaterials().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	balance, err := repos.RawMaterialLedger().Balance(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToRawMaterialResponse(material, balance)
	return &response, nil
}

// GetBalance returns Σ delta over the material's ledger
func (s *RawMaterialService) GetBalance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	repos := s.scope.Reader()
	if _, err := repos.RawMaterials().FindByID(ctx, id); err != nil {
		return decimal.Zero, err
	}
	return repos.RawMaterialLedger().Balance(ctx, id)
}

// RecordTransaction appends an IN, OUT or ADJUSTMENT entry. OUT is not
// checked against the balance: the ledger records what physically happened.
func (s *RawMaterialService) RecordTransaction(
	ctx context.Context,
	adminID, materialID uuid.UUID,
	req RecordRawTransactionRequest,
) (*RawMaterialTransactionResponse, error) {
	entry, err := inventory.NewRawMaterialTransaction(materialID, adminID, inventory.RawTransactionType(req.Type), req.Quantity, req.Notes)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos txn.Repositories) error {
		if _, err := repos.RawMaterials().FindByID(ctx, materialID); err != nil {
			return err
		}
		return repos.RawMaterialLedger().Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	response := ToRawMaterialTransactionResponse(entry)
	return &response, nil
}

// ListTransactions lists ledger entries by material, type and date range
func (s *RawMaterialService) ListTransactions(ctx context.Context, filter LedgerListFilter) (shared.Paginated[RawMaterialTransactionResponse], error) {
	if filter.Type != "" && !inventory.RawTransactionType(filter.Type).IsValid() {
		return shared.Paginated[RawMaterialTransactionResponse]{}, shared.ErrInvalidInput.WithMessage("Type must be IN, OUT or ADJUSTMENT")
	}
	domainFilter := filter.ToDomain(s.loc)
	entries, total, err := s.scope.Reader().RawMaterialLedger().FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[RawMaterialTransactionResponse]{}, err
	}

	items := make([]RawMaterialTransactionResponse, len(entries))
	for i := range entries {
		items[i] = ToRawMaterialTransactionResponse(&entries[i])
	}
	page := domainFilter.Page.Normalize(nil, "")
	return shared.NewPaginated(items, total, page.Page, page.PageSize), nil
}
