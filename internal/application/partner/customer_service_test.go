package partner

import (
	"context"
	"testing"

	"github.com/feedoffice/backend/internal/domain/partner"
	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerService_CreateAndUpdate(t *testing.T) {
	env := testutil.NewEnv(t)
	svc := NewCustomerService(env.Scope)
	ctx := context.Background()

	created, err := svc.Create(ctx, CustomerRequest{
		Name:     " Sai Agro Distributors ",
		Phone:    "+91 99220 11223",
		Type:     "DISTRIBUTER",
		District: "Pune",
		State:    "Maharashtra",
		Location: &LocationInput{Latitude: 18.52, Longitude: 73.85},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sai Agro Distributors", created.Name)
	assert.Equal(t, "DISTRIBUTER", created.Type)
	require.NotNil(t, created.Location)
	assert.InDelta(t, 73.85, created.Location.Longitude, 1e-9)

	plain, err := svc.Create(ctx, CustomerRequest{Name: "Walk-in"})
	require.NoError(t, err)
	assert.Equal(t, "SINGLE", plain.Type, "type defaults to SINGLE")

	tests := []struct {
		name string
		req  CustomerRequest
	}{
		{"empty name", CustomerRequest{Name: "  "}},
		{"bad phone", CustomerRequest{Name: "X", Phone: "call me"}},
		{"unknown type", CustomerRequest{Name: "X", Type: "WHOLESALE"}},
		{"latitude out of range", CustomerRequest{Name: "X", Location: &LocationInput{Latitude: 91}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			require.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}

	updated, err := svc.Update(ctx, created.ID, CustomerRequest{
		Name:     "Sai Agro",
		Type:     "DISTRIBUTER",
		District: "Satara",
		State:    "Maharashtra",
	})
	require.NoError(t, err)
	assert.Equal(t, "Satara", updated.District)
	assert.Nil(t, updated.Location)
	assert.Equal(t, created.Version+1, updated.Version)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sai Agro", got.Name)
	assert.Empty(t, got.Phone)

	_, err = svc.Update(ctx, uuid.New(), CustomerRequest{Name: "Ghost"})
	require.ErrorIs(t, err, partner.ErrCustomerNotFound)
	_, err = svc.Get(ctx, uuid.New())
	require.ErrorIs(t, err, partner.ErrCustomerNotFound)
}

func TestCustomerService_StaleUpdate(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	customer := env.Customer(t, "Ramesh Poultry")

	stale, err := env.Scope.Reader().Customers().FindByID(ctx, customer.ID)
	require.NoError(t, err)

	svc := NewCustomerService(env.Scope)
	_, err = svc.Update(ctx, customer.ID, CustomerRequest{Name: "Ramesh Poultry Farm"})
	require.NoError(t, err)

	require.NoError(t, stale.Update(partner.CustomerDetails{Name: "Late edit"}))
	err = env.Scope.Reader().Customers().Save(ctx, stale)
	require.ErrorIs(t, err, shared.ErrConcurrentModification)
}

func TestCustomerService_List(t *testing.T) {
	env := testutil.NewEnv(t)
	svc := NewCustomerService(env.Scope)
	ctx := context.Background()

	for _, req := range []CustomerRequest{
		{Name: "Anand Dairy", Phone: "9822000001", District: "Nashik", State: "Maharashtra"},
		{Name: "Balaji Feeds", Phone: "9822000002", Type: "DISTRIBUTER", District: "Nashik", State: "Maharashtra"},
		{Name: "Chetan Farms", Phone: "9845000003", District: "Belagavi", State: "Karnataka"},
		{Name: "100% Organic", Phone: "9845000004", District: "Belagavi", State: "Karnataka"},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	names := func(p shared.Paginated[CustomerResponse]) []string {
		out := make([]string, len(p.Items))
		for i, c := range p.Items {
			out[i] = c.Name
		}
		return out
	}

	tests := []struct {
		name   string
		filter CustomerListFilter
		want   []string
	}{
		{"by district ignoring case", CustomerListFilter{District: "nashik", OrderBy: "name", OrderDir: "asc"}, []string{"Anand Dairy", "Balaji Feeds"}},
		{"by state and type", CustomerListFilter{State: "Maharashtra", Type: "DISTRIBUTER"}, []string{"Balaji Feeds"}},
		{"search name", CustomerListFilter{Search: "FARMS"}, []string{"Chetan Farms"}},
		{"search phone", CustomerListFilter{Search: "98450", OrderBy: "name", OrderDir: "asc"}, []string{"100% Organic", "Chetan Farms"}},
		{"percent is literal", CustomerListFilter{Search: "%"}, []string{"100% Organic"}},
		{"no match", CustomerListFilter{District: "Indore"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
			assert.Equal(t, int64(len(tt.want)), got.Total)
		})
	}

	paged, err := svc.List(ctx, CustomerListFilter{Page: 2, PageSize: 3, OrderBy: "name", OrderDir: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Chetan Farms"}, names(paged))
	assert.Equal(t, 2, paged.TotalPages)
}
