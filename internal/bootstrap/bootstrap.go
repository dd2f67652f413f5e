package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/loan-document-vetting/internal/config"
	"github.com/kirillkom/loan-document-vetting/internal/core/classifier"
	"github.com/kirillkom/loan-document-vetting/internal/core/patterns"
	"github.com/kirillkom/loan-document-vetting/internal/core/ports"
	"github.com/kirillkom/loan-document-vetting/internal/core/usecase"
	"github.com/kirillkom/loan-document-vetting/internal/core/validation"
	"github.com/kirillkom/loan-document-vetting/internal/infrastructure/extractor/ocr"
	"github.com/kirillkom/loan-document-vetting/internal/infrastructure/extractor/pdf"
	"github.com/kirillkom/loan-document-vetting/internal/infrastructure/extractor/plaintext"
	"github.com/kirillkom/loan-document-vetting/internal/infrastructure/extractor/router"
	"github.com/kirillkom/loan-document-vetting/internal/infrastructure/extractor/spreadsheet"
	"github.com/kirillkom/loan-document-vetting/internal/infrastructure/queue/nats"
	"github.com/kirillkom/loan-document-vetting/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/loan-document-vetting/internal/infrastructure/resilience"
	"github.com/kirillkom/loan-document-vetting/internal/infrastructure/storage/localfs"
)

// Options carries the observability hooks of the hosting process. Both are optional.
type Options struct {
	Observer             ports.VettingObserver
	OnBreakerStateChange func(operation, from, to string)
}

// Engine is the storage-free part of the service: everything needed to vet a
// file in memory. The CLI and the MCP server use it directly.
type Engine struct {
	Library    *patterns.Library
	Classifier *classifier.Classifier
	Validator  *validation.Set
	Extractor  *router.Router
	Vetter     *usecase.VettingEngine
}

func NewEngine(cfg config.Config, logger *slog.Logger, opts Options) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	library := patterns.New()
	docClassifier := classifier.New(library)
	validator := validation.NewSet(library)
	extractor := newExtractorRouter(cfg, logger, opts)

	vetter := usecase.NewVettingEngine(extractor, docClassifier, validator, opts.Observer, logger, usecase.VettingLimits{
		ExtractionTimeout: time.Duration(cfg.ExtractionTimeoutSeconds) * time.Second,
		BatchConcurrency:  cfg.BatchConcurrency,
	})

	return &Engine{
		Library:    library,
		Classifier: docClassifier,
		Validator:  validator,
		Extractor:  extractor,
		Vetter:     vetter,
	}
}

func newExtractorRouter(cfg config.Config, logger *slog.Logger, opts Options) *router.Router {
	extractors := router.Extractors{
		Text:        plaintext.NewExtractor(),
		Spreadsheet: spreadsheet.NewExtractor(cfg.SpreadsheetMaxRows),
	}

	var fallback ports.TextExtractor
	if cfg.OCREnabled {
		ocrExecutor := resilience.NewExecutor(resilience.SingleAttempt(resilienceConfig(cfg, logger, opts)))
		ocrExtractor := ocr.NewExtractor(ocr.Config{
			Tesseract: cfg.OCRTesseract,
			Pdftoppm:  cfg.OCRPdftoppm,
			Lang:      cfg.OCRLanguage,
			DPI:       cfg.OCRDPI,
			MaxPages:  cfg.OCRMaxPages,
		}, ocrExecutor, logger)
		extractors.Image = ocrExtractor
		fallback = ocrExtractor
	}
	extractors.PDF = pdf.NewExtractor(fallback, logger)

	return router.New(extractors)
}

func resilienceConfig(cfg config.Config, logger *slog.Logger, opts Options) resilience.Config {
	rc := resilience.DefaultConfig()
	if cfg.RetryMaxAttempts > 0 {
		rc.RetryMaxAttempts = cfg.RetryMaxAttempts
	}
	if cfg.BreakerOpenTimeoutSeconds > 0 {
		rc.BreakerOpenTimeout = time.Duration(cfg.BreakerOpenTimeoutSeconds) * time.Second
	}
	rc.Logger = logger
	rc.OnStateChange = opts.OnBreakerStateChange
	return rc
}

type App struct {
	Config config.Config
	Engine *Engine

	Queue        ports.MessageQueue
	Repo         ports.DocumentRepository
	IngestUC     ports.DocumentIngestor
	ProcessUC    ports.DocumentProcessor
	ComplianceUC ports.ComplianceReporter

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		QueueGroup:         cfg.NATSQueueGroup,
		ResilienceExecutor: resilience.NewExecutor(resilienceConfig(cfg, logger, opts)),
		Logger:             logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	engine := NewEngine(cfg, logger, opts)

	return &App{
		Config: cfg,
		Engine: engine,
		Queue:  queue,
		Repo:   repo,

		IngestUC:     usecase.NewIngestDocumentUseCase(repo, storage, queue),
		ProcessUC:    usecase.NewProcessDocumentUseCase(repo, storage, engine.Vetter),
		ComplianceUC: usecase.NewComplianceUseCase(repo),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
