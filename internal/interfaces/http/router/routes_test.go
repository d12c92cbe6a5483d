package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	catalogapp "github.com/feedoffice/backend/internal/application/catalog"
	financeapp "github.com/feedoffice/backend/internal/application/finance"
	identityapp "github.com/feedoffice/backend/internal/application/identity"
	invapp "github.com/feedoffice/backend/internal/application/inventory"
	partnerapp "github.com/feedoffice/backend/internal/application/partner"
	reportapp "github.com/feedoffice/backend/internal/application/report"
	tradeapp "github.com/feedoffice/backend/internal/application/trade"
	"github.com/feedoffice/backend/internal/domain/identity"
	"github.com/feedoffice/backend/internal/infrastructure/auth"
	"github.com/feedoffice/backend/internal/infrastructure/config"
	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"github.com/feedoffice/backend/internal/infrastructure/persistence"
	"github.com/feedoffice/backend/internal/interfaces/http/dto"
	"github.com/feedoffice/backend/internal/interfaces/http/handler"
	"github.com/feedoffice/backend/internal/interfaces/http/middleware"
	"github.com/feedoffice/backend/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const apiPassword = "feedmill2024"

type apiFixture struct {
	env    *testutil.Env
	engine *gin.Engine
	redis  *fakePinger
}

type fakePinger struct{ err error }

func (p *fakePinger) Ping(context.Context) error { return p.err }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	require.NoError(t, middleware.SetupValidator())

	env := testutil.NewEnv(t)
	users := persistence.NewGormAdminUserRepository(env.DB)
	blacklist := auth.NewInMemoryTokenBlacklist()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "router-test-secret-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "feed-office",
	})
	authService := identityapp.NewAuthService(users, jwtService, blacklist)

	stock := invapp.NewFeedStockService(env.Scope, time.UTC, 10)
	payments := financeapp.NewPaymentService(env.Scope, time.UTC)
	redis := &fakePinger{}

	engine := gin.New()
	engine.Use(logger.GinMiddleware(zap.NewNop()))
	RegisterAPI(engine, Handlers{
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": handler.PingFunc(func(ctx context.Context) error {
				sqlDB, err := env.DB.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			}),
			"redis": redis,
		}),
		Auth:        handler.NewAuthHandler(authService, config.CookieConfig{SameSite: "strict"}),
		AdminUsers:  handler.NewAdminUserHandler(identityapp.NewAdminUserService(users, blacklist, 24*time.Hour)),
		Catalog:     handler.NewCatalogHandler(catalogapp.NewCategoryService(env.Scope)),
		Customers:   handler.NewCustomerHandler(partnerapp.NewCustomerService(env.Scope)),
		RawMaterial: handler.NewRawMaterialHandler(invapp.NewRawMaterialService(env.Scope, time.UTC)),
		FeedStock:   handler.NewFeedStockHandler(stock),
		Orders:      handler.NewOrderHandler(tradeapp.NewOrderService(env.Scope, time.UTC), payments),
		Finance:     handler.NewFinanceHandler(payments, financeapp.NewRefundService(env.Scope, time.UTC)),
		Reports: handler.NewReportHandler(
			reportapp.NewReportService(env.Scope, time.UTC, stock),
			reportapp.NewSnapshotService(env.Scope, time.UTC),
			time.UTC),
	}, authService)

	env.AdminUser(t, "owner", apiPassword, identity.RoleAdmin)
	env.AdminUser(t, "clerk", apiPassword, identity.RoleStaff)
	return &apiFixture{env: env, engine: engine, redis: redis}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (f *apiFixture) login(t *testing.T, username string) string {
	t.Helper()
	w, env := f.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": username, "password": apiPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result identityapp.LoginResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	return result.AccessToken
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestAPI_Authentication(t *testing.T) {
	f := newAPI(t)

	w, env := f.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": "owner", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	w, _ = f.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": "owner", "password": apiPassword})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, middleware.AccessTokenCookie)
	require.Contains(t, cookies, middleware.RefreshTokenCookie)
	assert.True(t, cookies[middleware.AccessTokenCookie].HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookies[middleware.AccessTokenCookie].SameSite)

	// the access cookie alone authenticates
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(cookies[middleware.AccessTokenCookie])
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"owner"`)

	w, env = f.do(t, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	token := f.login(t, "owner")
	w, _ = f.do(t, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = f.do(t, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_REVOKED", env.Error.Code)
}

func TestAPI_AdminUsersRequireAdminRole(t *testing.T) {
	f := newAPI(t)
	staff := f.login(t, "clerk")
	owner := f.login(t, "owner")

	w, env := f.do(t, http.MethodGet, "/admin-users", staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrCodeForbidden, env.Error.Code)

	w, env = f.do(t, http.MethodPost, "/admin-users", owner, gin.H{"username": "mill-manager", "password": "grain-store-9"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "STAFF", decodeData[identityapp.AdminUserResponse](t, env).Role)

	w, env = f.do(t, http.MethodPost, "/admin-users", owner, gin.H{"username": "MILL-MANAGER", "password": "grain-store-9"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "USERNAME_EXISTS", env.Error.Code)

	w, _ = f.do(t, http.MethodGet, "/admin-users", owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPI_RequestErrors(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, "owner")

	w, env := f.do(t, http.MethodGet, "/no-such-thing", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeRouteNotFound, env.Error.Code)

	w, env = f.do(t, http.MethodGet, "/customers/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)

	w, env = f.do(t, http.MethodGet, "/customers/"+testutil.NewTestUUID("ghost").String(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CUSTOMER_NOT_FOUND", env.Error.Code)

	w, env = f.do(t, http.MethodPost, "/customers", token, gin.H{"type": "RETAIL"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, dto.ErrCodeValidation, env.Error.Code)
	fields := map[string]bool{}
	for _, d := range env.Error.Details {
		fields[d.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["type"])

	w, env = f.do(t, http.MethodGet, "/orders?customer_id=nope", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "customer_id", env.Error.Details[0].Field)

	w, env = f.do(t, http.MethodGet, "/reports/daily?date=01-03-2024", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "date", env.Error.Details[0].Field)
}

func TestAPI_OrderLifecycle(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, "owner")

	w, env := f.do(t, http.MethodPost, "/animal-types", token, gin.H{"name": "Poultry"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	animal := decodeData[catalogapp.AnimalTypeResponse](t, env)

	w, env = f.do(t, http.MethodPost, "/feed-categories", token, gin.H{
		"animal_type_id": animal.ID, "name": "Layer Mash", "unit_size_kg": 0, "default_price": "1150",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unit_size_kg", env.Error.Details[0].Field)

	w, env = f.do(t, http.MethodPost, "/feed-categories", token, gin.H{
		"animal_type_id": animal.ID, "name": "Layer Mash", "unit_size_kg": 50, "default_price": "1150",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	category := decodeData[catalogapp.FeedCategoryResponse](t, env)
	f.env.Stock(t, category.ID, 40)

	w, env = f.do(t, http.MethodPost, "/customers", token, gin.H{
		"name": "Patil Poultry Farm", "type": "DISTRIBUTER", "district": "Nashik", "state": "Maharashtra",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	customer := decodeData[partnerapp.CustomerResponse](t, env)

	w, env = f.do(t, http.MethodPost, "/orders", token, gin.H{
		"customer_id": customer.ID,
		"items":       []gin.H{{"feed_category_id": category.ID, "quantity_bags": 100}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Error.Code)

	w, env = f.do(t, http.MethodPost, "/orders", token, gin.H{
		"customer_id": customer.ID,
		"items":       []gin.H{{"feed_category_id": category.ID, "quantity_bags": 10}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decodeData[tradeapp.OrderResponse](t, env)
	assert.Equal(t, "PENDING", order.Status)
	assert.True(t, decimal.NewFromInt(11500).Equal(order.FinalAmount))
	orderPath := "/orders/" + order.ID.String()

	w, env = f.do(t, http.MethodPatch, orderPath+"/status", token, gin.H{"status": "DISPATCHED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", env.Error.Code)

	for _, status := range []string{"CONFIRMED", "DISPATCHED"} {
		w, _ = f.do(t, http.MethodPatch, orderPath+"/status", token, gin.H{"status": status})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	assert.Equal(t, int64(30), f.env.Available(t, category.ID))

	w, env = f.do(t, http.MethodPost, orderPath+"/payments", token, gin.H{"amount": "4000", "payment_method": "UPI"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	paid := decodeData[financeapp.RecordPaymentResponse](t, env)
	assert.True(t, decimal.NewFromInt(7500).Equal(paid.DueAmount))

	w, env = f.do(t, http.MethodPost, orderPath+"/payments", token, gin.H{"amount": "9000", "payment_method": "CASH"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "OVERPAYMENT", env.Error.Code)

	w, env = f.do(t, http.MethodPost, orderPath+"/cancel", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "CANCELED", decodeData[tradeapp.OrderResponse](t, env).Status)
	assert.Equal(t, int64(40), f.env.Available(t, category.ID))

	w, env = f.do(t, http.MethodGet, "/refunds?status=PENDING&order_id="+order.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, int64(1), env.Meta.Total)
	refunds := decodeData[[]financeapp.RefundResponse](t, env)
	assert.True(t, decimal.NewFromInt(4000).Equal(refunds[0].Amount))

	w, env = f.do(t, http.MethodPost, "/refunds/"+refunds[0].ID.String()+"/approve", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "APPROVED", decodeData[financeapp.RefundResponse](t, env).Status)

	w, env = f.do(t, http.MethodPost, "/refunds/"+refunds[0].ID.String()+"/reject", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "REFUND_NOT_FOUND_OR_PROCESSED", env.Error.Code)

	w, env = f.do(t, http.MethodGet, "/orders?status=CANCELED", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), env.Meta.Total)
}

func TestAPI_Reports(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, "owner")
	staff := f.login(t, "clerk")
	f.env.RawMaterial(t, "Maize")

	w, env := f.do(t, http.MethodGet, "/reports/daily", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	daily := decodeData[reportapp.DailyReportResponse](t, env)
	assert.True(t, daily.Live)
	require.Len(t, daily.RawMaterials, 1)

	w, _ = f.do(t, http.MethodGet, "/reports/daily/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "daily-report-")
	book, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = book.Close() }()
	maize, err := book.GetCellValue(reportapp.SheetRawMaterials, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Maize", maize)

	w, _ = f.do(t, http.MethodPost, "/reports/snapshots/run?date=2024-03-01", staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = f.do(t, http.MethodPost, "/reports/snapshots/run?date=2024-03-01", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	run := decodeData[reportapp.RunResult](t, env)
	assert.Equal(t, 1, run.RawMaterial)
	assert.Zero(t, run.Failed)

	w, _ = f.do(t, http.MethodGet, "/reports/dashboard", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPI_Health(t *testing.T) {
	f := newAPI(t)

	w, _ := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	f.redis.err = errors.New("connection refused")
	w, env := f.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, string(env.Data), `"redis":"down"`)
}
