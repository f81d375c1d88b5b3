package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/sriganeshautocars/ganesh-cars-backend/internal/auth"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/cache"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/config"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/http/handlers"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/http/middlewares"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/observability"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/repo/postgres"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/storage"
)

const maxBodyBytes = 10 << 20 // 10MB, matches the upload size cap

func NewRouter(pool *pgxpool.Pool, cfg config.Config, prom *observability.Prom, reg *prometheus.Registry, uploader *storage.Uploader) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("ganesh-cars-api"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

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

	if reg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	// wire up repositories and services
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	guard := middlewares.NewAuthMiddleware(jwtManager)

	usersRepo := postgres.NewUsersRepo(pool)
	carsRepo := postgres.NewCarsRepo(pool, prom)
	listCache := cache.New(10 * time.Second)

	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager, cfg)
	carsHandler := handlers.NewCarsHandler(carsRepo, listCache)
	uploadHandler := handlers.NewUploadHandler(uploader)

	api := r.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/check", authHandler.Check)

	cars := api.Group("/cars")
	cars.GET("", carsHandler.ListCars)
	cars.GET("/:id", carsHandler.GetCarByID)

	carsAdmin := api.Group("/cars", guard.RequireAuth())
	carsAdmin.POST("", carsHandler.CreateCar)
	carsAdmin.PUT("/:id", carsHandler.UpdateCar)
	carsAdmin.DELETE("/:id", carsHandler.DeleteCar)
	carsAdmin.PATCH("/:id/hold", carsHandler.UpdateHoldStatus)

	upload := api.Group("/upload", guard.RequireAuth())
	upload.POST("/single", uploadHandler.UploadSingle)
	upload.POST("/multiple", uploadHandler.UploadMultiple)

	return r
}
