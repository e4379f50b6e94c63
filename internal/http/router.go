package http

import (
	"context"
	"time"

	"github.com/geocoder89/placeshare/internal/auth"
	"github.com/geocoder89/placeshare/internal/config"
	"github.com/geocoder89/placeshare/internal/geo"
	"github.com/geocoder89/placeshare/internal/http/handlers"
	"github.com/geocoder89/placeshare/internal/http/middlewares"
	"github.com/geocoder89/placeshare/internal/observability"
	"github.com/geocoder89/placeshare/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(cfg config.Config, pool *pgxpool.Pool, rdb *redis.Client) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.MaxBodyBytes(8 << 20))
	r.Use(middlewares.ErrorHandler())
	r.Use(otelgin.Middleware("placeshare"))

	// metrics
	promReg := prometheus.NewRegistry()
	prom := observability.NewProm(promReg)
	r.Use(prom.GinHandleMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// uploaded assets
	r.Static("/uploads/images", cfg.UploadDir)

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	placesRepo := postgres.NewPlacesRepo(pool, prom)

	geocoder := geo.New(cfg.GeoBaseURL, cfg.GeoAPIKey, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL)
	authMw := middlewares.NewAuthMiddleware(jwtManager)

	limiter := middlewares.NewRateLimiter(rdb, 30, time.Minute)

	// wire up handlers
	placesHandler := handlers.NewPlacesHandler(placesRepo, usersRepo, geocoder, cfg.UploadDir)
	usersHandler := handlers.NewUsersHandler(usersRepo, jwtManager, cfg.UploadDir)

	api := r.Group("/api")

	places := api.Group("/places")
	places.GET("/:pid", placesHandler.GetPlaceByID)
	places.GET("/user/:uid", placesHandler.GetPlacesByUserID)
	places.POST("", authMw.RequireAuth(), middlewares.NewRateLimiter(rdb, 10, time.Minute).RateLimiterMiddleware(middlewares.KeyByUserOrIP), placesHandler.CreatePlace)
	places.PATCH("/:pid", authMw.RequireAuth(), middlewares.RequireJSON(), placesHandler.UpdatePlaceByID)
	places.DELETE("/:pid", authMw.RequireAuth(), placesHandler.DeletePlaceByID)

	users := api.Group("/users")
	users.GET("", usersHandler.GetUsers)
	users.POST("/signup", limiter.RateLimiterMiddleware(middlewares.KeyByIP), usersHandler.Signup)
	users.POST("/login", limiter.RateLimiterMiddleware(middlewares.KeyByIP), middlewares.RequireJSON(), usersHandler.Login)

	r.NoRoute(middlewares.NoRoute())

	return r
}
