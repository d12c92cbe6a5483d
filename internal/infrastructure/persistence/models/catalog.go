package models

import (
	"github.com/feedoffice/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AnimalTypeModel is the persistence model for AnimalType
type AnimalTypeModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (AnimalTypeModel) TableName() string {
	return "animal_types"
}

// ToDomain converts the persistence model to a domain entity
func (m *AnimalTypeModel) ToDomain() *catalog.AnimalType {
	return &catalog.AnimalType{BaseEntity: m.BaseModel.ToDomain(), Name: m.Name}
}

// AnimalTypeModelFromDomain converts a domain entity to the persistence model
func AnimalTypeModelFromDomain(e *catalog.AnimalType) *AnimalTypeModel {
	m := &AnimalTypeModel{Name: e.Name}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}

// FeedCategoryModel is the persistence model for FeedCategory
type FeedCategoryModel struct {
	BaseModel
	AnimalTypeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_feed_category_animal_name,priority:1"`
	Name         string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_feed_category_animal_name,priority:2"`
	UnitSizeKg   decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	DefaultPrice decimal.Decimal `gorm:"type:numeric(18,2);not null"`
}

// TableName returns the table name for GORM
func (FeedCategoryModel) TableName() string {
	return "feed_categories"
}

// ToDomain converts the persistence model to a domain entity
func (m *FeedCategoryModel) ToDomain() *catalog.FeedCategory {
	return &catalog.FeedCategory{
		BaseEntity:   m.BaseModel.ToDomain(),
		AnimalTypeID: m.AnimalTypeID,
		Name:         m.Name,
		UnitSizeKg:   m.UnitSizeKg,
		DefaultPrice: m.DefaultPrice,
	}
}

// FeedCategoryModelFromDomain converts a domain entity to the persistence model
func FeedCategoryModelFromDomain(e *catalog.FeedCategory) *FeedCategoryModel {
	m := &FeedCategoryModel{
		AnimalTypeID: e.AnimalTypeID,
		Name:         e.Name,
		UnitSizeKg:   e.UnitSizeKg,
		DefaultPrice: e.DefaultPrice,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}
