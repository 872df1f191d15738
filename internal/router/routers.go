package router

import (
	"time"

	"github.com/Payphone-Digital/contacts-api/config"
	"github.com/Payphone-Digital/contacts-api/internal/handler"
	"github.com/Payphone-Digital/contacts-api/internal/middleware"
	"github.com/Payphone-Digital/contacts-api/pkg/validation"
	"github.com/gin-gonic/gin"
)

type Router struct {
	contactHandler *handler.ContactHandler
	userHandler    *handler.UserHandler
	authHandler    *handler.AuthHandler
	healthHandler  *handler.HealthHandler

	validMw *middleware.ValidationMiddleware
	jwtMw   *middleware.JWTMiddleware
	limits  middleware.RateLimitStore
	Config  *config.Config
}

func NewRouter(
	contact *handler.ContactHandler,
	user *handler.UserHandler,
	auth *handler.AuthHandler,
	health *handler.HealthHandler,

	validMw *middleware.ValidationMiddleware,
	jwtMw *middleware.JWTMiddleware,
	limits middleware.RateLimitStore,
	config *config.Config,
) *Router {
	return &Router{
		contactHandler: contact,
		userHandler:    user,
		authHandler:    auth,
		healthHandler:  health,

		validMw: validMw,
		jwtMw:   jwtMw,
		limits:  limits,
		Config:  config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	validation.RegisterBindingFieldNames()

	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestContext("api"))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityLoggingMiddleware())
	router.Use(middleware.CORS(r.Config.CORS.AllowedOrigins))
	router.Use(middleware.RequestTimeout(r.Config.App.Timeout))

	router.GET("/", r.healthHandler.Root)
	router.GET("/api/health", r.healthHandler.HealthCheck)

	api := router.Group("/api")
	{
		api.Use(middleware.RateLimit(r.limits, "api", r.Config.RateLimit.Request, seconds(r.Config.RateLimit.Duration)))

		r.authRoutes(api)
		r.userRoutes(api)
		r.contactRoutes(api)
	}

	return router
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
