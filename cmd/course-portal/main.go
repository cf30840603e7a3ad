package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-portal/api/swagger"
	"github.com/noah-isme/course-portal/internal/handler"
	"github.com/noah-isme/course-portal/internal/middleware"
	"github.com/noah-isme/course-portal/internal/repository"
	"github.com/noah-isme/course-portal/internal/service"
	"github.com/noah-isme/course-portal/internal/web"
	"github.com/noah-isme/course-portal/pkg/backend"
	"github.com/noah-isme/course-portal/pkg/config"
	"github.com/noah-isme/course-portal/pkg/export"
	"github.com/noah-isme/course-portal/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-portal/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-portal/pkg/middleware/requestid"
)

// @title Course Portal API
// @version 1.0.0
// @description Read-only course catalog with module PDF materials
// @BasePath /api/v1
// @schemes http https

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := backend.New(ctx, cfg, logr)
	defer func() {
		if err := backend.Close(client); err != nil {
			logr.Warn("closing backend", zap.Error(err))
		}
	}()

	r, err := newRouter(cfg, client, logr)
	if err != nil {
		logr.Fatal("router setup failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "backend_configured", client.Configured())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	case <-ctx.Done():
		logr.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logr.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

func newRouter(cfg *config.Config, client backend.Client, logr *zap.Logger) (*gin.Engine, error) {
	tmpl, err := web.Templates(cfg.Portal.DateLocale)
	if err != nil {
		return nil, err
	}

	metricsSvc := service.NewMetricsService()
	courseRepo := repository.NewCourseRepository(client, cfg.Backend.ModuleOrderColumn)
	materialRepo := repository.NewMaterialRepository(client, cfg.Backend.Bucket)
	courseSvc := service.NewCourseService(service.CourseServiceParams{
		Backend:   client,
		Courses:   courseRepo,
		Materials: materialRepo,
		Metrics:   metricsSvc,
		Logger:    logr,
		Config:    service.CourseServiceConfig{LookupConcurrency: cfg.Backend.LookupConcurrency},
	})

	var pdfOpts []export.PDFOption
	if cfg.Export.PDFFont != "" {
		pdfOpts = append(pdfOpts, export.WithUTF8Font(cfg.Export.PDFFont))
	}
	exportSvc := service.NewExportService(courseSvc, export.NewCSVExporter(cfg.Export.CSVBOM), export.NewPDFExporter(pdfOpts...), logr)

	courseHandler := handler.NewCourseHandler(courseSvc, exportSvc)
	pageHandler := handler.NewPageHandler(courseSvc, handler.PageConfig{
		Title:         cfg.Portal.Title,
		EnrollmentURL: cfg.Portal.EnrollmentURL,
	}, logr)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, client)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/metrics", "/static"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.SetHTMLTemplate(tmpl)

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.StaticFS("/static", web.Static())

	if cfg.Backend.StorageDriver == config.StorageDriverLocal && client.Configured() {
		r.Static(cfg.Local.PublicBaseURL, cfg.Local.Dir)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET("/", pageHandler.Index)
	r.GET("/course/:id", pageHandler.Course)
	r.NoRoute(pageHandler.NotFound)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	api.GET("/courses", courseHandler.List)
	api.GET("/courses/:id", courseHandler.Get)
	api.GET("/courses/:id/materials", courseHandler.Materials)

	return r, nil
}
