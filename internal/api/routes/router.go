package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/linskybing/orgflow/internal/api/handlers"
	"github.com/linskybing/orgflow/internal/api/middleware"
	"github.com/linskybing/orgflow/internal/application"
	"github.com/linskybing/orgflow/internal/repository"
	"github.com/linskybing/orgflow/internal/storage"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/linskybing/orgflow/docs"
)

// RegisterRoutes wires repositories, services and handlers onto r and returns
// the services so callers can start background work against them.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, store storage.Driver) *application.Services {
	// init
	repos_instance := repository.NewRepositories(db)
	services_instance := application.New(repos_instance, store)
	handlers_instance := handlers.New(services_instance)
	authMiddleware := middleware.NewAuth(repos_instance)

	// public
	r.GET("/healthz", handlers.Healthz(db))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.POST("/register", handlers_instance.User.Register)
	r.POST("/login", handlers_instance.User.Login)
	r.POST("/logout", handlers_instance.User.Logout)

	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware())
	{
		// reachable with a token that is not scoped to a group
		auth.POST("/groups", handlers_instance.Group.CreateGroup)
		auth.GET("/groups/my", handlers_instance.Group.ListMyGroups)
	}

	member := auth.Group("/")
	member.Use(authMiddleware.Identity())
	{
		groups := member.Group("/groups/:id")
		{
			groups.GET("/members", handlers_instance.Group.ListMembers)
			groups.POST("/members", authMiddleware.Admin(), handlers_instance.Group.AddMember)
		}

		routes := member.Group("/routes")
		{
			routes.GET("", handlers_instance.Route.ListRoutes)
			routes.GET("/:id", handlers_instance.Route.GetRoute)
			routes.POST("", authMiddleware.Admin(), handlers_instance.Route.CreateRoute)
			routes.PUT("/:id", authMiddleware.Admin(), handlers_instance.Route.UpdateRoute)
			routes.DELETE("/:id", authMiddleware.Admin(), handlers_instance.Route.DeleteRoute)
		}

		templates := member.Group("/templates")
		{
			templates.GET("", handlers_instance.Template.ListTemplates)
			templates.GET("/:id", handlers_instance.Template.GetTemplate)
			templates.POST("", authMiddleware.Admin(), handlers_instance.Template.CreateTemplate)
			templates.PUT("/:id", authMiddleware.Admin(), handlers_instance.Template.UpdateTemplate)
			templates.DELETE("/:id", authMiddleware.Admin(), handlers_instance.Template.DeleteTemplate)
		}

		applications := member.Group("/applications")
		{
			applications.POST("", handlers_instance.Application.CreateApplication)
			applications.GET("", authMiddleware.Admin(), handlers_instance.Application.ListGroupApplications)
			applications.GET("/my", handlers_instance.Application.ListMyApplications)
			applications.GET("/inbox", handlers_instance.Application.ListInbox)
			applications.GET("/:id", handlers_instance.Application.GetApplication)
			applications.PATCH("/:id", handlers_instance.Application.Act)
		}

		attachments := member.Group("/attachments")
		{
			attachments.POST("", handlers_instance.Attachment.UploadAttachment)
			attachments.GET("/:id", handlers_instance.Attachment.DownloadAttachment)
		}

		member.GET("/audit/logs", authMiddleware.Admin(), handlers_instance.Audit.GetAuditLogs)
	}

	return services_instance
}
