package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adx-backend/internal/admin"
	"adx-backend/internal/auth"
	"adx-backend/internal/cache"
	"adx-backend/internal/categories"
	"adx-backend/internal/config"
	"adx-backend/internal/content"
	"adx-backend/internal/db"
	"adx-backend/internal/home"
	"adx-backend/internal/middleware"
	"adx-backend/internal/poll"
	"adx-backend/internal/projects"
	"adx-backend/internal/sitecontent"
	"adx-backend/internal/storage"
	"adx-backend/internal/transport"
	"adx-backend/internal/uploads"
	"adx-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	var store storage.Store
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3(ctx, storage.S3Config{
			Endpoint:      cfg.S3Endpoint,
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			logger.Error("s3 setup failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("s3 storage enabled", slog.String("bucket", cfg.S3Bucket))
		store = s3Store
	} else {
		logger.Warn("no s3 bucket configured, using in-memory storage")
		store = storage.NewMemory("")
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "adx-backend",
		}
	}

	val := validation.New()

	categoriesRepo := categories.NewRepository(cols.Categories)
	projectsRepo := projects.NewRepository(cols.Projects)
	contentRepo := content.NewRepository(cols.InternalContent)
	siteRepo := sitecontent.NewRepository(sitecontent.Collections{
		ContactInfo:      cols.ContactInfo,
		History:          cols.History,
		TrustedPartners:  cols.TrustedPartners,
		AboutImages:      cols.AboutImages,
		DownloadProfiles: cols.DownloadProfiles,
	})
	adminRepo := admin.NewRepository(cols.Admins)

	categoriesService := categories.NewService(categoriesRepo, projectsRepo, cfg.Timezone)
	projectsService := projects.NewService(projectsRepo, categoriesService, cfg.Timezone)
	contentService := content.NewService(contentRepo, store, projectsService, cfg.Timezone, logger)
	siteService := sitecontent.NewService(siteRepo, cfg.Timezone)
	adminService := admin.NewService(adminRepo, cfg.Timezone, logger)

	if err := adminService.Bootstrap(ctx, cfg.AdminUser, cfg.AdminPassword); err != nil {
		logger.Error("admin bootstrap failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	renderCacheTTL := time.Duration(cfg.RenderCacheTTLSeconds) * time.Second

	categoriesHandler := categories.NewHandler(categoriesService, val, logger)
	projectsHandler := projects.NewHandler(projectsService, val, logger)
	contentHandler := content.NewHandler(contentService, content.NewRenderer(), cacheStore, renderCacheTTL, val, logger)
	siteHandler := sitecontent.NewHandler(siteService, val, logger)
	adminHandler := admin.NewHandler(adminService, jwtManager, val, cfg.CookieSecure, logger)
	uploadsHandler := uploads.NewHandler(store, cfg.UploadMaxBytes, logger)

	homeFetcher := home.NewFetcher(categoriesService, projectsService, siteService)
	homePoller := poll.New("home", homeFetcher.Fetch, time.Duration(cfg.PollIntervalSeconds)*time.Second, logger)
	homeHandler := home.NewHandler(homePoller, logger)

	pollCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	go homePoller.Run(pollCtx)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	loginLimiter := middleware.NewRateLimiter(cfg.RateLimitLogin, time.Duration(cfg.RateLimitWindowSec)*time.Second)
	uploadsLimiter := middleware.NewRateLimiter(cfg.RateLimitUploads, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		api.Get("/home", homeHandler.Get)

		api.Get("/categories", categoriesHandler.PublicList)

		api.Get("/projects", projectsHandler.PublicList)
		api.Get("/projects/{id}", projectsHandler.PublicGet)
		api.Get("/projects/{id}/content", contentHandler.ProjectContent)
		api.Get("/projects/{id}/page", contentHandler.ProjectPage)

		api.Get("/content", contentHandler.PublicList)
		api.Get("/content/{key}", contentHandler.PublicGet)
		api.Get("/content/{key}/page", contentHandler.PublicPage)

		api.Route("/site", func(site chi.Router) {
			site.Get("/contact", siteHandler.PublicContact)
			site.Get("/history", siteHandler.PublicHistory)
			site.Get("/partners", siteHandler.PublicPartners)
			site.Get("/about-images", siteHandler.PublicAboutImages)
			site.Get("/profiles", siteHandler.PublicProfiles)
		})

		api.Route("/admin", func(adminRoutes chi.Router) {
			adminRoutes.With(loginLimiter.Middleware).Post("/login", adminHandler.Login)
			adminRoutes.Post("/refresh", adminHandler.Refresh)
			adminRoutes.Post("/logout", adminHandler.Logout)

			adminRoutes.Group(func(protected chi.Router) {
				protected.Use(middleware.AdminAuth(cfg.AdminAPIKey, jwtManager))

				protected.Post("/accounts", adminHandler.CreateAccount)
				protected.Put("/accounts/{id}/password", adminHandler.UpdatePassword)

				protected.Post("/categories", categoriesHandler.AdminCreate)
				protected.Put("/categories/{id}", categoriesHandler.AdminUpdate)
				protected.Delete("/categories/{id}", categoriesHandler.AdminDelete)
				protected.Post("/categories/reorder", categoriesHandler.AdminReorder)

				protected.Post("/projects", projectsHandler.AdminCreate)
				protected.Put("/projects/{id}", projectsHandler.AdminUpdate)
				protected.Delete("/projects/{id}", projectsHandler.AdminDelete)
				protected.Post("/projects/{id}/feature", projectsHandler.AdminToggleFeatured)
				protected.Post("/projects/{id}/images", projectsHandler.AdminAppendImage)
				protected.Post("/projects/reorder", projectsHandler.AdminReorder)

				protected.Post("/content", contentHandler.AdminCreate)
				protected.Delete("/content/{id}", contentHandler.AdminDelete)

				protected.Route("/site", func(site chi.Router) {
					site.Patch("/contact", siteHandler.AdminPatchContact)

					site.Post("/history", siteHandler.AdminCreateHistory)
					site.Put("/history/{id}", siteHandler.AdminUpdateHistory)
					site.Delete("/history/{id}", siteHandler.AdminDeleteHistory)

					site.Get("/partners", siteHandler.AdminListPartners)
					site.Post("/partners", siteHandler.AdminCreatePartner)
					site.Put("/partners/{id}", siteHandler.AdminUpdatePartner)
					site.Delete("/partners/{id}", siteHandler.AdminDeletePartner)

					site.Get("/about-images", siteHandler.AdminListAboutImages)
					site.Post("/about-images", siteHandler.AdminCreateAboutImage)
					site.Put("/about-images/{id}", siteHandler.AdminUpdateAboutImage)
					site.Delete("/about-images/{id}", siteHandler.AdminDeleteAboutImage)

					site.Get("/profiles", siteHandler.AdminListProfiles)
					site.Post("/profiles", siteHandler.AdminCreateProfile)
					site.Put("/profiles/{id}", siteHandler.AdminUpdateProfile)
					site.Delete("/profiles/{id}", siteHandler.AdminDeleteProfile)
				})

				protected.With(uploadsLimiter.Middleware).Post("/uploads", uploadsHandler.AdminUpload)
			})
		})
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	stopPoller()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
