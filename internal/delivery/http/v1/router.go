package v1

import (
	"net/http"
	"time"

	"ats-backend/config"
	"ats-backend/internal/delivery/http/middleware"
	"ats-backend/internal/delivery/http/response"
	"ats-backend/internal/domain"
	"ats-backend/internal/usecase"
	"ats-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	CandidateUC domain.CandidateUsecase
	HealthUC    usecase.HealthUsecase
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer // serves /metrics when set
	Redis       *goredis.Client     // nil selects the in-memory rate limiter
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{AppEnv: "development"}
	}
	if deps.HealthUC == nil {
		deps.HealthUC = usecase.NewHealthUsecase(cfg.AppEnv, nil)
	}

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.ErrorHandler())

	// Health Check
	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", deps.HealthUC.Check(c.Request.Context()))
	})

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limiter := middleware.NewRateLimiter(deps.Redis, middleware.RateLimitConfig{
		Limit:      cfg.RateLimitGlobalThreshold,
		Window:     time.Duration(cfg.RateLimitWindowSeconds) * time.Second,
		FailClosed: cfg.RateLimitFailClosed,
	})

	api := r.Group("/api")
	api.Use(limiter.Middleware())
	{
		NewCandidateHandler(api, deps.CandidateUC)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Route "+c.Request.URL.Path+" not found", nil)
	})

	return r
}
