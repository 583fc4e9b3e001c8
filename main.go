package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"storefront/auth"
	"storefront/cache"
	"storefront/catalog"
	"storefront/config"
	"storefront/database"
	"storefront/handlers"
	"storefront/logging"
	"storefront/notify"
	"storefront/repository"
	"storefront/router"
	"storefront/search"
	"storefront/upload"
	"storefront/utils"
	"storefront/web"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config file] [serve|seed]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Init(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := flag.Arg(0)
	switch command {
	case "", "serve":
		err = serve(cfg)
	case "seed":
		err = seed(cfg)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		zap.S().Fatalw("Command failed", "command", command, "error", err)
	}
}

func serve(cfg *config.Config) error {
	if err := cfg.Auth.CheckSecret(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize MongoDB client
	client, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.Database)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	// Redis is optional; the catalog reads straight from MongoDB without it
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			zap.S().Warnf("Redis unavailable, caching disabled: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}
	productCache := cache.NewProductCache(redisClient)

	products := repository.NewProductRepository(db)
	users := repository.NewUserRepository(db)
	guard := auth.NewGuard(users, cfg.Auth)

	pages, err := web.Templates()
	if err != nil {
		return err
	}

	h := &handlers.Handler{
		Catalog:       catalog.NewService(products, productCache),
		Search:        search.NewService(products),
		Uploader:      newUploader(ctx, cfg.Storage),
		Notifier:      newNotifier(cfg.SMS),
		Auth:          guard,
		Pages:         pages,
		SecureCookies: strings.HasPrefix(cfg.BaseURL, "https://"),
		ErrorHdlr:     utils.NewErrorHandler(),
		ResponseHdlr:  handlers.NewResponseHandler(),
	}

	if redisClient != nil {
		job := utils.NewCacheRefreshJob(products, productCache)
		if err := job.Start(cfg.CacheRefreshSpec); err != nil {
			return err
		}
		defer job.Stop()
	}

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           otelhttp.NewHandler(router.SetupRoutes(h, guard), "storefront"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.S().Infof("Server running at http://localhost%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zap.S().Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newUploader returns an uploader with no object client when storage is not
// configured; uploads then fail with 503
func newUploader(ctx context.Context, cfg config.StorageConfig) *upload.Service {
	if !cfg.Configured() {
		zap.S().Warn("Object storage not configured, image upload disabled")
		return upload.NewService(nil, cfg)
	}
	client, err := upload.NewS3Client(ctx, cfg)
	if err != nil {
		zap.S().Warnf("Object storage unavailable, image upload disabled: %v", err)
		return upload.NewService(nil, cfg)
	}
	return upload.NewService(client, cfg)
}

func newNotifier(cfg config.SMSConfig) *notify.Service {
	if !cfg.Configured() {
		zap.S().Warn("SMS gateway not configured, inquiries disabled")
		return notify.NewService(nil, cfg)
	}
	return notify.NewService(notify.NewTwilioSender(cfg.AccountSID, cfg.AuthToken), cfg)
}
