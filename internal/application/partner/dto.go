package partner

import (
	"time"

	"github.com/feedoffice/backend/internal/domain/partner"
	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LocationInput is an optional map pin for a customer
type LocationInput struct {
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

// CustomerRequest creates or replaces a customer's details
type CustomerRequest struct {
	Name     string         `json:"name" binding:"required,max=200"`
	Phone    string         `json:"phone" binding:"max=20"`
	Address  string         `json:"address" binding:"max=500"`
	Type     string         `json:"type" binding:"omitempty,oneof=SINGLE DISTRIBUTER"`
	District string         `json:"district" binding:"max=100"`
	State    string         `json:"state" binding:"max=100"`
	Location *LocationInput `json:"location"`
}

func (r CustomerRequest) details() partner.CustomerDetails {
	d := partner.CustomerDetails{
		Name:     r.Name,
		Phone:    r.Phone,
		Address:  r.Address,
		Type:     partner.CustomerType(r.Type),
		District: r.District,
		State:    r.State,
	}
	if r.Location != nil {
		d.Location = &partner.GeoPoint{Latitude: r.Location.Latitude, Longitude: r.Location.Longitude}
	}
	return d
}

// CustomerListFilter represents query options for customer listings
type CustomerListFilter struct {
	Type     string `form:"type" binding:"omitempty,oneof=SINGLE DISTRIBUTER"`
	District string `form:"district" binding:"max=100"`
	State    string `form:"state" binding:"max=100"`
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the query into a repository filter
func (f CustomerListFilter) ToDomain() partner.CustomerFilter {
	return partner.CustomerFilter{
		Page:     shared.Page{Page: f.Page, PageSize: f.PageSize, OrderBy: f.OrderBy, OrderDir: f.OrderDir},
		Type:     partner.CustomerType(f.Type),
		District: f.District,
		State:    f.State,
		Search:   f.Search,
	}
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Phone     string         `json:"phone,omitempty"`
	Address   string         `json:"address,omitempty"`
	Type      string         `json:"type"`
	District  string         `json:"district,omitempty"`
	State     string         `json:"state,omitempty"`
	Location  *LocationInput `json:"location,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Version   int            `json:"version"`
}

// ToCustomerResponse converts a customer to a response
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		Type:      string(c.Type),
		District:  c.District,
		State:     c.State,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
	if c.Location != nil {
		resp.Location = &LocationInput{Latitude: c.Location.Latitude, Longitude: c.Location.Longitude}
	}
	return resp
}
