package shared

// BaseAggregateRoot adds an optimistic-locking version to BaseEntity.
// Repositories persist with WHERE version = ? and bump it on success.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}
