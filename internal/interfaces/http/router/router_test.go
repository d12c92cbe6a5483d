package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouter_Setup(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("feed", "/feed").GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	NewRouter(engine, WithAPIVersion("v2")).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/feed/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/feed/ping", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDomainGroup_MiddlewareAndSubgroups(t *testing.T) {
	var trail []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			trail = append(trail, name)
			c.Next()
		}
	}

	group := NewDomainGroup("orders", "/orders").Use(mark("group"))
	group.PATCH("/:id/status", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })
	group.Group("items", "/:id/items").Use(mark("items")).
		PUT("/:itemId", func(c *gin.Context) { c.String(http.StatusOK, c.Param("itemId")) })

	assert.Equal(t, "orders", group.Name())
	assert.Equal(t, "/orders", group.Prefix())

	engine := gin.New()
	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/v1/orders/42/status", nil))
	assert.Equal(t, "42", w.Body.String())
	assert.Equal(t, []string{"group"}, trail)

	trail = nil
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/orders/42/items/7", nil))
	assert.Equal(t, "7", w.Body.String())
	assert.Equal(t, []string{"group", "items"}, trail)
}
