package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/api"
	"github.com/pageza/recipeshare/backend/internal/metrics"
	"github.com/pageza/recipeshare/backend/internal/middleware"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/storage"
)

// maxUploadMemory caps the multipart form kept in memory; larger parts spill to disk
const maxUploadMemory = 8 << 20

// Dependencies are the services the HTTP layer is built from
type Dependencies struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Files       storage.FileStore
	Auth        service.IAuthService
	Recipes     service.IRecipeService
	Users       service.IUserService
	Subscribers service.ISubscriberService
	CORSOrigins []string
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = maxUploadMemory

	router.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.CORS(deps.CORSOrigins),
		middleware.ErrorHandler(),
	)

	var limits api.RateLimiters
	if deps.Redis != nil {
		limits = api.RateLimiters{
			Creation:     middleware.NewRecipeCreationRateLimiter(deps.Redis),
			Modification: middleware.NewRecipeModificationRateLimiter(deps.Redis),
		}
	}

	health := api.NewHealthHandler(deps.DB, deps.Redis)
	router.GET("/health", health.HealthCheck)
	router.GET("/api/health", health.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api.NewUploadsHandler(deps.Files).RegisterRoutes(router)

	group := router.Group("/api")
	api.NewRecipeHandler(deps.Recipes, deps.Auth, limits).RegisterRoutes(group)
	api.NewUserHandler(deps.Users, deps.Subscribers, deps.Auth, limits).RegisterRoutes(group)

	return router
}
