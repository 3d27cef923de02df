package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/analytics"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/api"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/ats"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/auth"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/config"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/evaluate"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/interview"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/llm"
	applog "github.com/kumarswamy603digital/AI-powered-interview-guide/internal/logger"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/plan"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/redis"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/report"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("INTERVIEW_GUIDE_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := applog.New(os.Getenv("LOG_JSON") == "true", os.Getenv("LOG_DEBUG") == "true")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	dbType := os.Getenv("INTERVIEW_GUIDE_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := storage.Migrate(db, dbType); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	rdb, err := redis.NewClient(cfg)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", zap.Error(err))
		rdb = nil
	}
	defer rdb.Close()

	generator := buildTextGenerator(cfg, logger)
	timeout := time.Duration(cfg.Interview.GeneratorTimeoutSeconds) * time.Second

	questionGen := interview.NewGenerator(
		interview.NewAIStrategy(generator, timeout, logger),
		&interview.BankStrategy{},
	)
	interviewService := interview.NewService(
		interview.NewStore(db), questionGen, cfg.Interview.DefaultMaxQuestions, logger,
	)
	synthesizer := report.NewSynthesizer(generator, rdb, timeout, logger)

	tokenTTL := time.Duration(cfg.BasicConfig.TokenTTLMinutes) * time.Minute
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	authService := auth.NewService(db, rdb, tokenTTL)

	handlers := api.NewHandler(
		interviewService,
		synthesizer,
		plan.NewGenerator(generator, timeout, logger),
		evaluate.NewEvaluator(generator, timeout, logger),
		ats.NewScorer(generator, timeout, logger),
		analytics.NewService(interviewService.Store(), synthesizer, logger),
		authService,
		logger,
	)

	router := gin.Default()
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8090"
	}
	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// buildTextGenerator picks the AI backend: gemini when an API key is
// configured, otherwise the first configured chat-model provider. With
// neither configured it returns nil and every component runs on its
// deterministic fallback.
func buildTextGenerator(cfg *config.Config, logger *zap.Logger) llm.TextGenerator {
	ctx := context.Background()
	if cfg.Gemini.APIKey != "" {
		g, err := llm.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Fatalf("init gemini client: %v", err)
		}
		logger.Info("ai backend ready", zap.String("backend", "gemini"), zap.String("model", g.Model()))
		return g
	}
	for provider, provCfg := range cfg.Providers {
		if provCfg.APIKey == "" {
			continue
		}
		cm, err := llm.NewChatModel(ctx, provider, provCfg)
		if err != nil {
			log.Fatalf("init %s chat model: %v", provider, err)
		}
		logger.Info("ai backend ready", zap.String("backend", provider))
		return cm
	}
	logger.Info("no ai backend configured, using deterministic fallbacks")
	return nil
}
