package models

import (
	"github.com/feedoffice/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for Customer
type CustomerModel struct {
	AggregateModel
	Name      string               `gorm:"type:varchar(200);not null;index"`
	Phone     string               `gorm:"type:varchar(20);index"`
	Address   string               `gorm:"type:text"`
	Type      partner.CustomerType `gorm:"type:varchar(20);not null;index"`
	District  string               `gorm:"type:varchar(100);index"`
	State     string               `gorm:"type:varchar(100);index"`
	Latitude  *float64             `gorm:"type:double precision"`
	Longitude *float64             `gorm:"type:double precision"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain entity
func (m *CustomerModel) ToDomain() *partner.Customer {
	c := &partner.Customer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Phone:             m.Phone,
		Address:           m.Address,
		Type:              m.Type,
		District:          m.District,
		State:             m.State,
	}
	if m.Latitude != nil && m.Longitude != nil {
		c.Location = &partner.GeoPoint{Latitude: *m.Latitude, Longitude: *m.Longitude}
	}
	return c
}

// CustomerModelFromDomain converts a domain entity to the persistence model
func CustomerModelFromDomain(e *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		Name:     e.Name,
		Phone:    e.Phone,
		Address:  e.Address,
		Type:     e.Type,
		District: e.District,
		State:    e.State,
	}
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	if e.Location != nil {
		lat, lng := e.Location.Latitude, e.Location.Longitude
		m.Latitude = &lat
		m.Longitude = &lng
	}
	return m
}
