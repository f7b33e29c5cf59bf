package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/ShivamHirwani/quick-desk/internal/auth"
	"github.com/ShivamHirwani/quick-desk/internal/config"
	"github.com/ShivamHirwani/quick-desk/internal/metrics"
	"github.com/ShivamHirwani/quick-desk/internal/middleware"
	"github.com/ShivamHirwani/quick-desk/internal/models"
	"github.com/ShivamHirwani/quick-desk/internal/policy"
	"github.com/ShivamHirwani/quick-desk/internal/repository"
	"github.com/ShivamHirwani/quick-desk/internal/session"
)

type Router struct {
	engine         *gin.Engine
	cfg            *config.Config
	authMiddleware *middleware.AuthMiddleware
	authHandler    *AuthHandler
	ticketHandler  *TicketHandler
	commentHandler *CommentHandler
	userHandler    *UserHandler
	lookupHandler  *LookupHandler
}

func NewRouter(db *sqlx.DB, cfg *config.Config, sessions session.Store) *Router {
	jwtManager := auth.NewJWTManager(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.TokenTTL)

	userRepo := repository.NewUserRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	eval := policy.NewEvaluator()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	if cfg.Metrics.Enabled {
		engine.Use(metrics.Middleware())
	}

	return &Router{
		engine:         engine,
		cfg:            cfg,
		authMiddleware: middleware.NewAuthMiddleware(jwtManager, sessions, cfg.Auth.Session.CookieName),
		authHandler:    NewAuthHandler(userRepo, jwtManager, sessions, cfg.Auth),
		ticketHandler:  NewTicketHandler(ticketRepo, userRepo, eval),
		commentHandler: NewCommentHandler(commentRepo, ticketRepo, eval),
		userHandler:    NewUserHandler(userRepo, sessions, eval),
		lookupHandler:  NewLookupHandler(categoryRepo, userRepo),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", r.healthCheck)
	if r.cfg.Metrics.Enabled {
		r.engine.GET(r.cfg.Metrics.Path, metrics.Handler())
	}

	v1 := r.engine.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", r.authHandler.Register)
			authGroup.POST("/login", r.authHandler.Login)
		}

		authProtected := v1.Group("/auth")
		authProtected.Use(r.authMiddleware.RequireAuth())
		{
			authProtected.POST("/logout", r.authHandler.Logout)
			authProtected.GET("/me", r.authHandler.Me)
		}

		ticketGroup := v1.Group("/tickets")
		ticketGroup.Use(r.authMiddleware.RequireAuth())
		{
			ticketGroup.GET("", r.ticketHandler.ListTickets)
			ticketGroup.POST("", r.ticketHandler.CreateTicket)
			ticketGroup.GET("/:id", r.ticketHandler.GetTicket)
			ticketGroup.POST("/:id/status", r.ticketHandler.UpdateStatus)
			ticketGroup.POST("/:id/assign", r.ticketHandler.AssignTicket)
			ticketGroup.GET("/:id/comments", r.commentHandler.ListComments)
			ticketGroup.POST("/:id/comments", r.commentHandler.CreateComment)
		}

		userGroup := v1.Group("/users")
		userGroup.Use(r.authMiddleware.RequireAuth())
		{
			userGroup.GET("", r.userHandler.ListUsers)
			userGroup.POST("", r.userHandler.CreateUser)
			userGroup.GET("/:id", r.userHandler.GetUser)
			userGroup.PUT("/:id", r.userHandler.UpdateUser)
			userGroup.DELETE("/:id", r.userHandler.DeleteUser)
			userGroup.POST("/bulk", r.userHandler.BulkUsers)
		}

		lookupGroup := v1.Group("")
		lookupGroup.Use(r.authMiddleware.RequireAuth())
		{
			lookupGroup.GET("/categories", r.lookupHandler.ListCategories)
			lookupGroup.GET("/agents",
				r.authMiddleware.RequireRole(string(models.RoleAgent), string(models.RoleAdmin)),
				r.lookupHandler.ListAgents)
		}
	}
}

// Engine exposes the underlying gin engine for serving and tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "app": r.cfg.App.Name})
}
