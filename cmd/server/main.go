package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/smartsplit/internal/auth"
	"github.com/mmynk/smartsplit/internal/blob"
	"github.com/mmynk/smartsplit/internal/config"
	"github.com/mmynk/smartsplit/internal/extract"
	"github.com/mmynk/smartsplit/internal/middleware"
	"github.com/mmynk/smartsplit/internal/notify"
	"github.com/mmynk/smartsplit/internal/service"
	"github.com/mmynk/smartsplit/internal/storage/sqlite"
	"github.com/mmynk/smartsplit/pkg/api/apiconnect"
	"github.com/mmynk/smartsplit/pkg/logging"
)

// imagePrefix is where disk-stored receipt photos are served.
const imagePrefix = "/images/"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := slog.Default()

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.Database.Path)

	mux := http.NewServeMux()

	images, err := newImageStore(ctx, cfg.Storage, mux)
	if err != nil {
		return err
	}

	extractor, err := newExtractor(ctx, cfg.Gemini)
	if err != nil {
		return err
	}

	mailer, err := newMailer(cfg.Mail)
	if err != nil {
		return err
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)
	readLimit := connect.WithReadMaxBytes(int(cfg.Server.MaxUploadBytes))

	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, store, jwtManager, logger),
		connect.WithInterceptors(
			metrics.Interceptor(),
			middleware.LoggingInterceptor(logger),
			middleware.OptionalAuth(jwtManager),
		),
		readLimit,
	)
	mux.Handle(authPath, authHandler)

	receiptPath, receiptHandler := apiconnect.NewReceiptServiceHandler(
		service.NewReceiptService(store, extractor, images, mailer, logger),
		connect.WithInterceptors(
			metrics.Interceptor(),
			middleware.LoggingInterceptor(logger),
			middleware.RequireAuth(jwtManager),
		),
		readLimit,
	)
	mux.Handle(receiptPath, receiptHandler)

	mux.Handle("/metrics", promhttp.Handler())

	staticDir, err := filepath.Abs(cfg.Server.StaticPath)
	if err != nil {
		return err
	}
	logger.Info("Serving static files", "path", staticDir)
	mux.Handle("/", staticHandler(staticDir))

	// h2c serves HTTP/2 without TLS, which Connect streaming clients need.
	handler := h2c.NewHandler(middleware.RequestLogger(logger, middleware.CORS(mux)), &http2.Server{})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newImageStore picks the configured photo backend. Disk photos are served
// from imagePrefix on mux.
func newImageStore(ctx context.Context, cfg config.StorageConfig, mux *http.ServeMux) (blob.Store, error) {
	if cfg.Backend == config.StorageS3 {
		store, err := blob.NewS3Store(ctx, blob.S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("Image storage initialized", "backend", "s3", "bucket", cfg.Bucket)
		return store, nil
	}

	store, err := blob.NewDiskStore(cfg.Dir, strings.TrimSuffix(imagePrefix, "/"))
	if err != nil {
		return nil, err
	}
	mux.Handle(imagePrefix, http.StripPrefix(imagePrefix, http.FileServer(http.Dir(store.Dir()))))
	slog.Info("Image storage initialized", "backend", "disk", "dir", store.Dir())
	return store, nil
}

// newExtractor returns nil when no Gemini key is set, which disables
// ExtractReceipt.
func newExtractor(ctx context.Context, cfg config.GeminiConfig) (extract.Extractor, error) {
	if cfg.APIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, receipt extraction disabled")
		return nil, nil
	}
	gen, err := extract.NewGenAIGenerator(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, err
	}
	slog.Info("Receipt extraction enabled", "model", gen.Name())
	return extract.NewPipeline(gen), nil
}

func newMailer(cfg config.MailConfig) (notify.Mailer, error) {
	if cfg.SendGridAPIKey == "" {
		slog.Warn("SENDGRID_API_KEY not set, shared splits are logged instead of emailed")
		return notify.LogMailer{}, nil
	}
	return notify.NewSendGridMailer(cfg.SendGridAPIKey, cfg.FromName, cfg.FromAddress)
}

// staticHandler serves the frontend, falling back to index.html for unknown
// paths.
func staticHandler(staticDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Unrouted Connect procedures are 404s, not the SPA.
		if strings.HasPrefix(r.URL.Path, "/smartsplit.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	})
}
