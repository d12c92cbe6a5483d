package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts registrars under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds registrars to be mounted by Setup
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup collects the routes of one bounded context under a prefix
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle("GET", path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle("POST", path, handlers)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle("PUT", path, handlers)
}

// PATCH registers a PATCH route
func (dg *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle("PATCH", path, handlers)
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}
