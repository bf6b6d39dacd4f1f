package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gemfeed/gempress/app/api"
	"github.com/gemfeed/gempress/app/cache"
	"github.com/gemfeed/gempress/app/cfg"
	"github.com/gemfeed/gempress/app/content"
	"github.com/gemfeed/gempress/app/database"
	"github.com/gemfeed/gempress/app/llm"
	"github.com/gemfeed/gempress/app/pipeline"
	"github.com/gemfeed/gempress/app/posts"
	"github.com/gemfeed/gempress/app/rag"
	"github.com/gemfeed/gempress/app/refine"
	"github.com/gemfeed/gempress/app/sources"
	"github.com/gemfeed/gempress/app/tasks"
	"github.com/gemfeed/gempress/app/translate"
	"github.com/gemfeed/gempress/app/vector"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting GemPress server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	index, err := vector.LoadIndex(appCfg.IndexPath, appCfg.EmbedDim)
	if err != nil {
		slog.Error("Failed to load vector index", "path", appCfg.IndexPath, "error", err)
		os.Exit(1)
	}
	slog.Info("Vector index ready", "path", appCfg.IndexPath, "size", index.Size(), "dim", appCfg.EmbedDim)

	var htmlCache *cache.Cache
	if appCfg.RedisAddr != "" {
		htmlCache, err = cache.NewCache(appCfg.RedisAddr)
		if err != nil {
			slog.Error("Failed to connect to Redis", "addr", appCfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer htmlCache.Close()
	}

	articleRepo := database.NewArticleRepository(db)

	httpClient := &http.Client{Timeout: time.Duration(appCfg.FetchTimeout) * time.Second}
	llmHTTPClient := &http.Client{Timeout: time.Duration(appCfg.LLMTimeout) * time.Second}

	llmTimeout := time.Duration(appCfg.LLMTimeout) * time.Second
	cleanInvoker := llm.NewInvoker(llm.NewClient(appCfg.OllamaURL, appCfg.CleanModel, llmHTTPClient), appCfg.LLMMaxRetries, llmTimeout)
	chatInvoker := llm.NewInvoker(llm.NewClient(appCfg.OllamaURL, appCfg.ChatModel, llmHTTPClient), appCfg.LLMMaxRetries, llmTimeout)

	translator, err := translate.NewHTTPTranslator(appCfg.TranslateURL, appCfg.TargetLang, llmHTTPClient)
	if err != nil {
		slog.Error("Failed to configure translator", "target_lang", appCfg.TargetLang, "error", err)
		os.Exit(1)
	}

	pipe := pipeline.NewPipeline(
		content.NewFetcher(httpClient, appCfg.UserAgent),
		content.NewConverter(),
		refine.NewCleaner(cleanInvoker, appCfg.SegmentSize),
		refine.NewExtractor(cleanInvoker),
		translator,
		articleRepo,
		htmlCache,
	)

	embedder := vector.NewOllamaEmbedder(appCfg.OllamaURL, appCfg.EmbedModel, llmHTTPClient)
	vectorizer := vector.NewVectorizer(articleRepo, embedder, index, appCfg.IndexPath)
	postService := posts.NewService(articleRepo, posts.NewGenerator(chatInvoker))
	ragService := rag.NewService(embedder, index, articleRepo, appCfg.TopK)

	sourceLoader := sources.NewLoader(appCfg.SourcesDir)
	sourceResolver := sources.NewResolver(httpClient, appCfg.UserAgent)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval_seconds", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(sourceLoader, sourceResolver, pipe, vectorizer, postService, articleRepo)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(articleRepo, pipe, vectorizer, index, postService, ragService, scheduler)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout: 30 * time.Second,
		// Ingest and batch endpoints run LLM calls inline
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	if err := index.Save(appCfg.IndexPath); err != nil {
		slog.Error("Failed to save vector index on shutdown", "path", appCfg.IndexPath, "error", err)
	}

	slog.Info("Shutdown complete")
}
