package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// Touch bumps UpdatedAt to now
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
