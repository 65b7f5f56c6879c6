package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stybayev/graduate-work/internal/auth/middleware"
)

func RegisterRoutes(app *fiber.App, auth *AuthHandler, roles *RoleHandler, gate *middleware.Gate, admins middleware.AdminChecker) {
	v1 := app.Group("/api/v1")

	v1.Post("/register", auth.Register)
	v1.Post("/login", auth.Login)
	v1.Post("/token/refresh", gate.RequireRefresh(), auth.Refresh)
	v1.Post("/logout", gate.RequireRefresh(), auth.Logout)

	users := v1.Group("/users", gate.RequireAccess())
	users.Get("/me", auth.Me)
	users.Patch("/me", auth.UpdateCredentials)
	users.Get("/me/history", auth.LoginHistory)
	users.Get("/:id/permissions", roles.Permissions)

	v1.Get("/roles", gate.RequireAccess(), roles.List)
	v1.Get("/roles/:id", gate.RequireAccess(), roles.Get)

	// Admin-only endpoints. Guards are attached per route so unmatched
	// paths fall through to the framework's 404.
	requireAdmin := middleware.RequireAdmin(admins)
	v1.Post("/roles", gate.RequireAccess(), requireAdmin, roles.Create)
	v1.Patch("/roles/:id", gate.RequireAccess(), requireAdmin, roles.Update)
	v1.Delete("/roles/:id", gate.RequireAccess(), requireAdmin, roles.Delete)
	users.Post("/:id/roles/:roleID", requireAdmin, roles.Assign)
	users.Delete("/:id/roles/:roleID", requireAdmin, roles.Remove)
}
