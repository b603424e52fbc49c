package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/iccthub/portal-api/internal/middleware"
	"github.com/iccthub/portal-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth      *AuthHandler
	Events    *EventHandler
	LostItems *LostItemHandler
	FoundItem *FoundItemHandler
	Messages  *MessageHandler
	Profile   *ProfileHandler
	Users     *UserHandler
	Settings  *SettingsHandler
	Reports   *ReportHandler
	Metrics   *MetricsHandler
}

// RegisterRoutes mounts the portal API under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService) {
	api := r.Group(prefix)

	// Public surface: no token required.
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/admin-login", h.Auth.AdminLogin)
	api.GET("/events/public", h.Events.PublicFeed)
	api.GET("/settings/faqs", h.Settings.FAQs)

	secured := api.Group("")
	secured.Use(middleware.JWT(auth))

	secured.GET("/auth/me", h.Auth.Me)

	secured.GET("/events", h.Events.List)
	secured.GET("/events/:id", h.Events.Get)

	secured.GET("/lost-items", h.LostItems.List)
	secured.GET("/lost-items/:id", h.LostItems.Get)
	secured.POST("/lost-items", h.LostItems.Create)
	secured.PUT("/lost-items/:id", h.LostItems.Update)
	secured.DELETE("/lost-items/:id", h.LostItems.Archive)

	secured.GET("/found-items", h.FoundItem.List)
	secured.GET("/found-items/:id", h.FoundItem.Get)
	secured.POST("/found-items", h.FoundItem.Create)
	secured.PUT("/found-items/:id", h.FoundItem.Update)
	secured.DELETE("/found-items/:id", h.FoundItem.Archive)

	secured.GET("/messages/inbox", h.Messages.Inbox)
	secured.GET("/messages/sent", h.Messages.Sent)
	secured.GET("/messages/:id", h.Messages.Get)
	secured.POST("/messages", h.Messages.Send)
	secured.PATCH("/messages/:id/read", h.Messages.MarkRead)
	secured.PUT("/messages/:id/labels", h.Messages.SetLabels)
	secured.DELETE("/messages/:id", h.Messages.Archive)

	secured.GET("/profile", h.Profile.Get)
	secured.PUT("/profile", h.Profile.Update)
	secured.PUT("/profile/password", h.Profile.ChangePassword)
	secured.PUT("/profile/picture", h.Profile.UpdatePicture)

	secured.PUT("/settings/dark-mode", h.Settings.SetDarkMode)

	admin := secured.Group("")
	admin.Use(middleware.RequireAdmin())

	admin.POST("/events", h.Events.Create)
	admin.PUT("/events/:id", h.Events.Update)
	admin.DELETE("/events/:id", h.Events.Archive)

	admin.GET("/users", h.Users.List)
	admin.GET("/users/:id", h.Users.Get)
	admin.POST("/users", h.Users.Create)
	admin.PUT("/users/:id", h.Users.Update)
	admin.DELETE("/users/:id", h.Users.Archive)

	admin.GET("/reports/:kind", h.Reports.Download)
}
