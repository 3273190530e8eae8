// Package routes maps the dashboard API onto the gin router.
package routes

import (
	"github.com/commonsforge/pagecraft-go/internal/application/container"
	"github.com/commonsforge/pagecraft-go/internal/presentation/http/handlers"
	"github.com/commonsforge/pagecraft-go/internal/presentation/http/middleware"
	"github.com/commonsforge/pagecraft-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers all API routes on the router.
func SetupRoutes(router *gin.Engine, c *container.Container) {
	router.Use(middleware.CORSMiddleware(config.CORSAllowOrigins))

	authHandler := handlers.NewAuthHandler(c.AuthService)
	registryHandler := handlers.NewRegistryHandler(c.RegistryService)
	pageHandler := handlers.NewPageHandler(c.PageService, c.Logger)
	editorHandler := handlers.NewEditorHandler(c.EditorService, c.Logger)
	forumHandler := handlers.NewForumHandler(c.ForumService)
	eventHandler := handlers.NewEventHandler(c.EventService)
	wsHandler := handlers.NewWebSocketHandler(c.Broadcaster, c.AuthService, c.Logger)
	healthHandler := handlers.NewHealthHandler(c.PerfTracker, c.EditorService, c.Broadcaster)

	router.GET("/health", healthHandler.Health)

	api := router.Group("/api/v1")

	// Public surface: login and published-page rendering.
	api.POST("/auth/login", authHandler.Login)
	api.GET("/pages/slug/:slug", pageHandler.GetBySlug)
	api.GET("/ws/activity", wsHandler.ActivityFeed)

	// Authenticated dashboard surface.
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(c.AuthService))
	{
		authed.GET("/block-types", registryHandler.List)
		authed.GET("/block-types/:typeId", registryHandler.Get)

		authed.GET("/pages", pageHandler.List)
		authed.POST("/pages", pageHandler.Create)
		authed.GET("/pages/:id", pageHandler.Get)

		editor := authed.Group("/editor/sessions")
		{
			editor.POST("", editorHandler.Open)
			editor.GET("/:sessionId", editorHandler.Get)
			editor.DELETE("/:sessionId", editorHandler.Close)

			editor.POST("/:sessionId/drag/start", editorHandler.DragStart)
			editor.POST("/:sessionId/drag/over", editorHandler.DragOver)
			editor.POST("/:sessionId/drag/cancel", editorHandler.DragCancel)
			editor.POST("/:sessionId/drag/end", editorHandler.DragEnd)

			editor.POST("/:sessionId/blocks", editorHandler.AppendBlock)
			editor.POST("/:sessionId/blocks/move", editorHandler.MoveBlock)
			editor.POST("/:sessionId/blocks/delete", editorHandler.DeleteBlock)
			editor.GET("/:sessionId/blocks/:blockId/form", editorHandler.RenderForm)
			editor.PATCH("/:sessionId/blocks/:blockId/field", editorHandler.ChangeField)
			editor.PATCH("/:sessionId/blocks/:blockId/list", editorHandler.ChangeList)
			editor.PUT("/:sessionId/blocks/:blockId/properties", editorHandler.UpdateProperties)

			editor.PATCH("/:sessionId/settings", editorHandler.UpdateSettings)
			editor.POST("/:sessionId/save", editorHandler.Save)
			editor.POST("/:sessionId/publish", editorHandler.TogglePublish)
		}

		authed.GET("/forum/threads", forumHandler.List)
		authed.POST("/forum/threads", forumHandler.Create)
		authed.GET("/forum/threads/:id", forumHandler.Get)
		authed.PUT("/forum/threads/:id", forumHandler.Update)

		authed.GET("/events", eventHandler.List)
		authed.POST("/events", eventHandler.Create)
		authed.GET("/events/:id", eventHandler.Get)
		authed.PUT("/events/:id", eventHandler.Update)

		// Destructive and operational routes require the admin role.
		admin := authed.Group("")
		admin.Use(middleware.AdminOnlyMiddleware())
		{
			admin.DELETE("/pages/:id", pageHandler.Delete)
			admin.DELETE("/forum/threads/:id", forumHandler.Delete)
			admin.DELETE("/events/:id", eventHandler.Delete)
			admin.GET("/status", healthHandler.Status)
		}
	}
}
