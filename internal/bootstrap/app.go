package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-fit/internal/analysis"
	"resume-fit/internal/extract"
	"resume-fit/internal/health"
	"resume-fit/internal/llm"
	"resume-fit/internal/llm/gemini"
	"resume-fit/internal/llm/openai"
	"resume-fit/internal/ocr"
	"resume-fit/internal/ocr/tesseract"
	"resume-fit/internal/shared/config"
	"resume-fit/internal/shared/server"
	"resume-fit/internal/shared/server/middleware"
	"resume-fit/internal/shared/storage/object"
	localstore "resume-fit/internal/shared/storage/object/local"
	s3store "resume-fit/internal/shared/storage/object/s3"
	"resume-fit/internal/shared/telemetry"
	"resume-fit/internal/uploads"
)

// App holds the process-wide dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	Store           object.Store
	OCR             *ocr.Engine
	LLM             *llm.Lazy
	Extractor       *extract.Extractor
	AnalysisService *analysis.Service
	UploadService   *uploads.Service
	Health          *health.Service
}

// Build prepares dependencies and the router. Neither the OCR engine nor the
// LLM provider is started here; both come up on first use.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app, err := BuildCore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app.UploadService = &uploads.Service{Store: app.Store, Extractor: app.Extractor}
	app.Health = health.NewService()
	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		Health:          app.Health,
		UploadHandler:   uploads.NewHandler(app.UploadService, app.Config.MaxUploadBytes),
		AnalysisHandler: analysis.NewHandler(app.AnalysisService),
		Limiter:         middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// BuildCore prepares everything except the HTTP layer. The CLI uses it directly.
func BuildCore(ctx context.Context, cfg config.Config) (*App, error) {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = config.DefaultMaxUploadBytes
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Store: store}

	opts := extract.Options{}
	if cfg.OCREnabled {
		app.OCR = ocr.NewEngine(tesseract.Factory(cfg.OCRLanguages...))
		opts.OCR = app.OCR
		opts.Rasterizer = ocr.Rasterizer{Binary: cfg.PDFToPPMPath, DPI: cfg.OCRDPI}
	}
	app.Extractor = extract.New(opts)

	app.LLM = buildLLM(cfg)
	app.AnalysisService = analysis.NewService(app.LLM, analysis.Options{
		Provider: providerDisplayName(cfg.LLMProvider),
		Timeout:  cfg.LLMTimeout,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"object_store": cfg.ObjectStoreType,
		"llm_provider": cfg.LLMProvider,
		"ocr_enabled":  cfg.OCREnabled,
	})
	return app, nil
}

// Close releases the OCR engine and the LLM provider.
func (a *App) Close() error {
	var errs []error
	if a.OCR != nil {
		if err := a.OCR.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close ocr: %w", err))
		}
	}
	if a.LLM != nil {
		if err := a.LLM.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close llm: %w", err))
		}
	}
	return errors.Join(errs...)
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) *llm.Lazy {
	switch cfg.LLMProvider {
	case "openai":
		return llm.NewLazy("openai", func(ctx context.Context) (llm.Client, error) {
			c, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, openai.Options{Timeout: cfg.LLMTimeout})
			if err != nil {
				return nil, err
			}
			return c, nil
		})
	default:
		return llm.NewLazy("gemini", func(ctx context.Context) (llm.Client, error) {
			c, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
			if err != nil {
				return nil, err
			}
			return c, nil
		})
	}
}

func providerDisplayName(provider string) string {
	if provider == "openai" {
		return "OpenAI"
	}
	return "Gemini"
}
