package partner

import (
	"regexp"
	"strings"

	"github.com/feedoffice/backend/internal/domain/shared"
)

// CustomerType distinguishes retail buyers from distributors
type CustomerType string

const (
	CustomerTypeSingle      CustomerType = "SINGLE"
	CustomerTypeDistributer CustomerType = "DISTRIBUTER"
)

// IsValid returns true if the customer type is known
func (t CustomerType) IsValid() bool {
	return t == CustomerTypeSingle || t == CustomerTypeDistributer
}

var ErrCustomerNotFound = shared.NewDomainError(shared.CodeCustomerNotFound, "Customer not found")

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9\- ]{5,19}$`)

// GeoPoint is an optional map location
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// Customer buys finished feed. District and State are kept as separate
// fields; neither is derived from the other.
type Customer struct {
	shared.BaseAggregateRoot
	Name     string
	Phone    string
	Address  string
	Type     CustomerType
	District string
	State    string
	Location *GeoPoint
}

// CustomerDetails carries the editable attributes of a customer
type CustomerDetails struct {
	Name     string
	Phone    string
	Address  string
	Type     CustomerType
	District string
	State    string
	Location *GeoPoint
}

// NewCustomer creates a customer
func NewCustomer(details CustomerDetails) (*Customer, error) {
	c := &Customer{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := c.apply(details); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the customer's details
func (c *Customer) Update(details CustomerDetails) error {
	if err := c.apply(details); err != nil {
		return err
	}
	c.Touch()
	return nil
}

func (c *Customer) apply(d CustomerDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Customer name cannot exceed 200 characters")
	}
	phone := strings.TrimSpace(d.Phone)
	if phone != "" && !phoneRegex.MatchString(phone) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Invalid phone number")
	}
	if d.Type == "" {
		d.Type = CustomerTypeSingle
	}
	if !d.Type.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Customer type must be SINGLE or DISTRIBUTER")
	}
	if d.Location != nil {
		if d.Location.Latitude < -90 || d.Location.Latitude > 90 ||
			d.Location.Longitude < -180 || d.Location.Longitude > 180 {
			return shared.NewDomainError(shared.CodeInvalidInput, "Coordinates out of range")
		}
	}

	c.Name = name
	c.Phone = phone
	c.Address = strings.TrimSpace(d.Address)
	c.Type = d.Type
	c.District = strings.TrimSpace(d.District)
	c.State = strings.TrimSpace(d.State)
	c.Location = d.Location
	return nil
}
