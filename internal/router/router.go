// Package router wires the HTTP routes to their handlers and applies the
// per-prefix access policies: /auth/** and /public/** are anonymous,
// /authenticated/** needs any live session, /management/** additionally
// needs a manager role.
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/dromero/jsonkeep/internal/handler"
	"github.com/dromero/jsonkeep/internal/middleware"
	"github.com/dromero/jsonkeep/internal/model"
)

// publicCacheTTL bounds staleness of cached public reads.
const publicCacheTTL = 60 * time.Second

// Register mounts every route on the Echo instance. rdb may be nil, which
// disables the public response cache.
func Register(e *echo.Echo, a *handler.AuthHandler, m *handler.ManagementHandler,
	p *handler.ProfileHandler, j *handler.JSONHandler, rdb *redis.Client) {

	e.GET("/healthz", handler.Health)

	v1 := e.Group("/api/v1")

	// Session lifecycle. Logout endpoints read the raw Authorization header
	// themselves so even a session the authenticator no longer accepts can
	// still be presented for revocation.
	sessions := v1.Group("/auth")
	sessions.POST("/authenticate", a.Authenticate)
	sessions.GET("/logout", a.Logout)
	sessions.GET("/logout-all", a.LogoutAll)
	sessions.GET("/invalid-jwt", a.InvalidJWT)

	pub := v1.Group("/public", middleware.PublicCache(rdb, publicCacheTTL))
	pub.GET("/json/:id", j.GetPublic)
	pub.GET("/json/by-name/:name", j.SearchPublic)

	// Any live session.
	authed := v1.Group("/authenticated", middleware.RequireAuth())
	authed.GET("/user", p.Get)
	authed.PATCH("/user", p.Update)
	authed.GET("/json", j.ListOwn)
	authed.GET("/json/:id", j.GetOwn)
	authed.POST("/json", j.Create)
	authed.PATCH("/json/:id", j.UpdateOwn)
	authed.DELETE("/json/:id", j.DeleteOwn)

	// Manager surface. Fine-grained rules (ADMIN-only manager writes) are
	// enforced in the services; the group gate keeps USER sessions out.
	mgmt := v1.Group("/management", middleware.RequireRole(model.RoleAdmin, model.RoleSupervisor))
	mgmt.GET("/managers", m.ListManagers)
	mgmt.GET("/managers/:id", m.GetManager)
	mgmt.POST("/managers", m.CreateManager)
	mgmt.PATCH("/managers/:id", m.UpdateManager)
	mgmt.DELETE("/managers/:id", m.DeleteManager)
	mgmt.PATCH("/managers/deactivate/:id", m.DeactivateManager)
	mgmt.GET("/users", m.ListUsers)
	mgmt.GET("/users/:id", m.GetUser)
	mgmt.POST("/users", m.CreateUser)
	mgmt.PATCH("/users/:id", m.UpdateUser)
	mgmt.DELETE("/users/:id", m.DeleteUser)
	mgmt.PATCH("/users/deactivate/:id", m.DeactivateUser)
	mgmt.GET("/json", j.ListAll)
	mgmt.GET("/json/:id", j.GetAny)
	mgmt.GET("/json/by-user/:id", j.ListByUser)
	mgmt.PATCH("/json/:id", j.UpdateAny)
	mgmt.DELETE("/json/:id", j.DeleteAny)
}
