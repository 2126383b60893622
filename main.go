package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dressmaker-orders-api/config"
	"github.com/kendall-kelly/dressmaker-orders-api/logger"
	"github.com/kendall-kelly/dressmaker-orders-api/metrics"
	"github.com/kendall-kelly/dressmaker-orders-api/queue"
	"github.com/kendall-kelly/dressmaker-orders-api/router"
	"github.com/kendall-kelly/dressmaker-orders-api/services"
	"github.com/kendall-kelly/dressmaker-orders-api/store"
	"github.com/kendall-kelly/dressmaker-orders-api/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dressmaker-orders-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(cfg.LogLevel, cfg.LoggerOptions())
	defer logger.Sync()
	log := logger.S()
	log.Infow("app_start", "env", cfg.GoEnv, "port", cfg.Port, "queue_enabled", cfg.QueueEnabled)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.Register()

	ctx := context.Background()
	db, err := config.ConnectDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			log.Warnw("database_close_failed", "error", err)
		}
	}()
	if err := store.EnsureIndexes(ctx, db.DB); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	orderStore := store.NewMongoOrderStore(db.DB)
	userStore := store.NewMongoUserStore(db.DB)

	images, uploadDir, err := newImageService(ctx, cfg)
	if err != nil {
		return err
	}

	line := services.NewLineClient(cfg.LineAPIBaseURL, cfg.LineChannelAccessToken)
	if !line.Enabled() {
		log.Warnw("line_messaging_disabled")
	}

	q := queue.NewClient(cfg)
	defer func() {
		q.Wait()
		_ = q.Close()
	}()
	consumer := &worker.Consumer{
		Orders:   orderStore,
		Users:    userStore,
		Line:     line,
		Sheet:    services.NewSheetAppender(cfg.SheetWebhookURL, cfg.SheetWorkbookPath),
		Links:    cfg,
		AdminIDs: cfg.AdminLineUserIDs,
	}
	if !q.Enabled() {
		q.SetInlineHandler(worker.NewMux(consumer))
	}

	orderService := services.NewOrderService(orderStore, userStore, services.NewQueueNotifier(q), images)
	memberService := services.NewMemberService(userStore)

	engine, err := router.Setup(router.Deps{
		Config:    cfg,
		Orders:    orderService,
		Members:   memberService,
		Auth:      services.NewAdminAuthService(cfg),
		Line:      line,
		DB:        db,
		UploadDir: uploadDir,
	})
	if err != nil {
		return err
	}

	svcs := []Service{NewHTTPService(":"+cfg.Port, engine)}
	if q.Enabled() {
		workerService, err := worker.NewService(cfg, consumer)
		if err != nil {
			return err
		}
		svcs = append(svcs, workerService)
	}

	return NewRunner(log, svcs...).RunUntilSignal(defaultStopTimeout)
}

// newImageService picks S3 when a bucket is configured. The returned
// directory is set only for local storage.
func newImageService(ctx context.Context, cfg *config.Config) (services.ImageService, string, error) {
	if cfg.UsesS3() {
		s3Service, err := services.NewS3Service(ctx, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialize S3: %w", err)
		}
		return services.NewS3ImageService(s3Service), "", nil
	}
	return services.NewLocalImageService(cfg.UploadDir), cfg.UploadDir, nil
}
