package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bagRequest struct {
	Name     string          `json:"name" binding:"required,min=2"`
	UnitKg   decimal.Decimal `json:"unit_kg" binding:"decimal_gt0"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Method   string          `json:"method" binding:"omitempty,oneof=CASH UPI"`
}

func bindBody(t *testing.T, body string) error {
	t.Helper()
	require.NoError(t, SetupValidator())
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var req bagRequest
	return c.ShouldBindJSON(&req)
}

func TestSetupValidator_Decimals(t *testing.T) {
	assert.NoError(t, bindBody(t, `{"name":"Layer Mash","unit_kg":"50","quantity":-3}`))
	assert.NoError(t, bindBody(t, `{"name":"Layer Mash","unit_kg":0.5,"quantity":"12.25"}`))

	err := bindBody(t, `{"name":"Layer Mash","unit_kg":0,"quantity":0}`)
	require.Error(t, err)
	details := ValidationDetails(err)
	fields := map[string]string{}
	for _, d := range details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "Must be greater than 0", fields["unit_kg"])
	assert.Equal(t, "This field is required", fields["quantity"])
}

func TestValidationDetails(t *testing.T) {
	err := bindBody(t, `{"name":"L","unit_kg":1,"quantity":1,"method":"CHEQUE"}`)
	require.Error(t, err)
	details := ValidationDetails(err)
	require.Len(t, details, 2)
	assert.Equal(t, "name", details[0].Field)
	assert.Equal(t, "Must be at least 2 characters", details[0].Message)
	assert.Equal(t, "method", details[1].Field)
	assert.Equal(t, "Must be one of: CASH UPI", details[1].Message)

	malformed := bindBody(t, `{"name":`)
	require.Error(t, malformed)
	details = ValidationDetails(malformed)
	require.Len(t, details, 1)
	assert.Equal(t, "body", details[0].Field)
}
