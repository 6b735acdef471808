package bootstrap

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/export"
	"coverletter-backend/internal/letters"
	"coverletter-backend/internal/llm"
	"coverletter-backend/internal/llm/ollama"
	"coverletter-backend/internal/services/health"
	"coverletter-backend/internal/shared/config"
	"coverletter-backend/internal/shared/server"
	"coverletter-backend/internal/shared/storage/object"
	localstore "coverletter-backend/internal/shared/storage/object/local"
	s3store "coverletter-backend/internal/shared/storage/object/s3"
	"coverletter-backend/internal/shared/telemetry"
)

const probeTimeout = 2 * time.Second

// App holds shared dependencies and the assembled router.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	Store         object.ObjectStore
	LLM           llm.ChatStreamer
	LetterService *letters.Service
	Exporter      *export.Exporter
	LetterHandler *letters.Handler
	Health        *health.Service
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	return BuildWith(cfg, nil)
}

// BuildWith is Build with an injected chat client; a nil client selects
// Ollama at cfg.OllamaBaseURL.
func BuildWith(cfg config.Config, client llm.ChatStreamer) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	healthSvc := health.NewService()
	if client == nil {
		client = ollama.NewClient(cfg.OllamaBaseURL, cfg.OllamaTimeout)
		healthSvc.Register("ollama", health.HTTPProbe(strings.TrimSuffix(baseURL(cfg), "/")+"/api/version", probeTimeout))
	}

	svc := letters.NewService(client, cfg.LLMModel)
	exporter := export.New(cfg.ExportPath, store)
	handler := letters.NewHandler(svc, exporter, cfg.MaxUploadBytes)

	app := &App{
		Config:        cfg,
		Store:         store,
		LLM:           client,
		LetterService: svc,
		Exporter:      exporter,
		LetterHandler: handler,
		Health:        healthSvc,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		LetterHandler: handler,
		Health:        healthSvc,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"model":        svc.Model,
		"object_store": cfg.ObjectStoreType,
		"export_path":  exporter.Path,
	})
	return app, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "local":
		return localstore.New(cfg.LocalStoreDir), nil
	default:
		return nil, nil
	}
}

func baseURL(cfg config.Config) string {
	if strings.TrimSpace(cfg.OllamaBaseURL) == "" {
		return ollama.DefaultBaseURL
	}
	return cfg.OllamaBaseURL
}
