package router

import (
	"net/http"

	"github.com/feedoffice/backend/internal/domain/identity"
	"github.com/feedoffice/backend/internal/interfaces/http/dto"
	"github.com/feedoffice/backend/internal/interfaces/http/handler"
	"github.com/feedoffice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers holds every API handler
type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	AdminUsers  *handler.AdminUserHandler
	Catalog     *handler.CatalogHandler
	Customers   *handler.CustomerHandler
	RawMaterial *handler.RawMaterialHandler
	FeedStock   *handler.FeedStockHandler
	Orders      *handler.OrderHandler
	Finance     *handler.FinanceHandler
	Reports     *handler.ReportHandler
}

// RegisterAPI mounts the feed office API on engine. Everything except
// health, login and refresh requires a valid access token.
func RegisterAPI(engine *gin.Engine, h Handlers, authenticator middleware.Authenticator) {
	requireAuth := middleware.JWTAuth(authenticator)
	adminOnly := middleware.RequireRole(string(identity.RoleAdmin))

	health := NewDomainGroup("health", "/health").
		GET("", h.Health.Live).
		GET("/ready", h.Health.Ready)

	authGroup := NewDomainGroup("auth", "/auth").
		POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.Refresh).
		POST("/logout", requireAuth, h.Auth.Logout).
		GET("/me", requireAuth, h.Auth.Me)

	admins := NewDomainGroup("admin-users", "/admin-users").Use(requireAuth).
		GET("", adminOnly, h.AdminUsers.List).
		POST("", adminOnly, h.AdminUsers.Create).
		PUT("/:id/password", h.AdminUsers.ChangePassword).
		PUT("/:id/status", adminOnly, h.AdminUsers.SetStatus)

	animalTypes := NewDomainGroup("animal-types", "/animal-types").Use(requireAuth).
		GET("", h.Catalog.ListAnimalTypes).
		POST("", h.Catalog.CreateAnimalType)

	feedCategories := NewDomainGroup("feed-categories", "/feed-categories").Use(requireAuth).
		GET("", h.Catalog.ListFeedCategories).
		POST("", h.Catalog.CreateFeedCategory).
		GET("/:id", h.Catalog.GetFeedCategory).
		PUT("/:id", h.Catalog.UpdateFeedCategory)

	customers := NewDomainGroup("customers", "/customers").Use(requireAuth).
		GET("", h.Customers.List).
		POST("", h.Customers.Create).
		GET("/:id", h.Customers.Get).
		PUT("/:id", h.Customers.Update)

	rawMaterials := NewDomainGroup("raw-materials", "/raw-materials").Use(requireAuth).
		GET("", h.RawMaterial.List).
		POST("", h.RawMaterial.Create).
		GET("/transactions", h.RawMaterial.ListTransactions).
		GET("/:id", h.RawMaterial.Get).
		POST("/:id/transactions", h.RawMaterial.RecordTransaction)

	feedStock := NewDomainGroup("feed-stock", "/feed-stock").Use(requireAuth).
		GET("", h.FeedStock.ListStock).
		GET("/transactions", h.FeedStock.ListTransactions).
		POST("/adjustments", h.FeedStock.Adjust).
		GET("/:feedCategoryId", h.FeedStock.GetStock)

	batches := NewDomainGroup("production-batches", "/production-batches").Use(requireAuth).
		GET("", h.FeedStock.ListBatches).
		POST("", h.FeedStock.RecordProduction).
		GET("/:id", h.FeedStock.GetBatch)

	orders := NewDomainGroup("orders", "/orders").Use(requireAuth).
		GET("", h.Orders.List).
		POST("", h.Orders.Create).
		GET("/:id", h.Orders.Get).
		PATCH("/:id/status", h.Orders.UpdateStatus).
		POST("/:id/cancel", h.Orders.Cancel).
		POST("/:id/payments", h.Orders.RecordPayment)

	payments := NewDomainGroup("payments", "/payments").Use(requireAuth).
		GET("", h.Finance.ListPayments)

	refunds := NewDomainGroup("refunds", "/refunds").Use(requireAuth).
		GET("", h.Finance.ListRefunds).
		POST("/:id/approve", h.Finance.ApproveRefund).
		POST("/:id/reject", h.Finance.RejectRefund)

	reports := NewDomainGroup("reports", "/reports").Use(requireAuth).
		GET("/daily", h.Reports.Daily).
		GET("/daily/export", h.Reports.ExportDaily).
		GET("/dashboard", h.Reports.Dashboard).
		POST("/snapshots/run", adminOnly, h.Reports.RunSnapshots)

	NewRouter(engine).Register(
		health, authGroup, admins, animalTypes, feedCategories, customers,
		rawMaterials, feedStock, batches, orders, payments, refunds, reports,
	).Setup()

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeRouteNotFound,
			"Route "+c.Request.Method+" "+c.Request.URL.Path+" not found", c.GetString("request_id")))
	})
}
