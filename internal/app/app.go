package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nsqio/go-nsq"

	"kbingest/backend/features/asset"
	"kbingest/backend/features/run"
	"kbingest/backend/internal/adapter/gemini"
	wstore "kbingest/backend/internal/adapter/weaviate"
	"kbingest/backend/internal/config"
	"kbingest/backend/internal/fileproc"
	"kbingest/backend/internal/ingest"
	"kbingest/backend/internal/settings"
	"kbingest/backend/internal/worker"
)

// defaultWorkspace receives the environment-seeded gemini key so a fresh
// single-tenant deployment works without touching workspace settings.
const defaultWorkspace = "default"

type App struct {
	cfg        *config.Config
	deps       *Dependencies
	Consumer   *worker.IngestConsumer
	Dispatcher *run.Dispatcher
	embedder   *gemini.WorkspaceEmbedder
}

func New(cfg *config.Config, deps *Dependencies) (*App, error) {
	assetRepo := asset.NewPostgresRepo(deps.DB)

	settingsRepo := settings.NewPostgresRepo(deps.DB)
	settingsService := settings.NewService(settingsRepo)

	if cfg.GeminiAPIKey != "" {
		if err := settingsService.Seed(context.Background(), defaultWorkspace, cfg.GeminiAPIKey); err != nil {
			slog.Warn("failed to seed gemini api key", "error", err)
		}
	}

	embedder := gemini.NewWorkspaceEmbedder(settingsService)
	vecStore := wstore.NewStore(deps.Weaviate)

	docling := fileproc.NewDoclingClient(cfg.DoclingURL)
	files := fileproc.NewProcessor(docling, cfg.ChunkSize, cfg.ChunkOverlap)

	processor := ingest.NewBatchProcessor(files, embedder, vecStore, assetRepo, settingsService, cfg.BatchSize)

	var sink ingest.ContinuationSink
	var dispatcher *run.Dispatcher
	switch cfg.ContinuationMode {
	case config.ContinuationRun:
		runRepo := run.NewPostgresRepo(deps.DB)
		sink = run.NewSink(runRepo)
		dispatcher = run.NewDispatcher(runRepo, deps.NSQProducer, config.TopicIngestBatch,
			time.Duration(cfg.RunDispatchIntervalSeconds)*time.Second)
	default:
		sink = ingest.NewQueueSink(deps.NSQProducer, config.TopicIngestBatch)
	}

	scheduler := ingest.NewScheduler(sink)
	consumer := worker.NewIngestConsumer(processor, scheduler, assetRepo, cfg.MaxRetries)

	return &App{
		cfg:        cfg,
		deps:       deps,
		Consumer:   consumer,
		Dispatcher: dispatcher,
		embedder:   embedder,
	}, nil
}

// Run blocks until ctx is cancelled, serving health checks and consuming
// the ingestion topic.
func (a *App) Run(ctx context.Context) error {
	nsqConsumer, err := nsq.NewConsumer(config.TopicIngestBatch, config.ChannelIngest, nsq.NewConfig())
	if err != nil {
		return fmt.Errorf("nsq consumer error: %w", err)
	}
	nsqConsumer.AddHandler(nsq.HandlerFunc(a.Consumer.HandleMessage))
	if err := nsqConsumer.ConnectToNSQLookupd(a.cfg.NSQLookupd); err != nil {
		return fmt.Errorf("nsq lookupd connect error: %w", err)
	}
	slog.Info("ingest consumer connected", "topic", config.TopicIngestBatch)

	if a.Dispatcher != nil {
		go a.Dispatcher.Start(ctx)
		slog.Info("run dispatcher started", "interval_seconds", a.cfg.RunDispatchIntervalSeconds)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.cfg.ServerPort),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down...")
		nsqConsumer.Stop()
		<-nsqConsumer.StopChan
		a.embedder.Close()
		a.deps.NSQProducer.Stop()
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "port", a.cfg.ServerPort)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
