package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/common"
	"github.com/ZordnajelA/aura/internal/handlers"
	"github.com/ZordnajelA/aura/internal/models"
	"github.com/ZordnajelA/aura/internal/queue"
	"github.com/ZordnajelA/aura/internal/ratelimit"
	"github.com/ZordnajelA/aura/internal/services/auth"
	"github.com/ZordnajelA/aura/internal/services/capture"
	"github.com/ZordnajelA/aura/internal/services/llm"
	"github.com/ZordnajelA/aura/internal/services/media"
	"github.com/ZordnajelA/aura/internal/services/notes"
	"github.com/ZordnajelA/aura/internal/services/para"
	"github.com/ZordnajelA/aura/internal/services/processing"
	"github.com/ZordnajelA/aura/internal/services/processors"
	"github.com/ZordnajelA/aura/internal/services/scheduler"
	"github.com/ZordnajelA/aura/internal/storage/sqlite"
	"github.com/ZordnajelA/aura/internal/worker"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage layer (shared SQLite database)
	DB *sqlite.DB

	// Job queue and workers
	QueueManager *queue.Manager
	WorkerPool   *worker.Pool
	Scheduler    *scheduler.Scheduler

	// Rate limiting
	Registry *ratelimit.Registry

	// Business services
	AuthService       *auth.Service
	NoteService       *notes.Service
	ParaService       *para.Service
	CaptureService    *capture.Service
	MediaService      *media.Service
	ProcessingService *processing.Service

	// HTTP handlers
	AuthHandler       *handlers.AuthHandler
	NoteHandler       *handlers.NoteHandler
	DailyNoteHandler  *handlers.DailyNoteHandler
	ParaHandler       *handlers.ParaHandler
	CaptureHandler    *handlers.CaptureHandler
	MediaHandler      *handlers.MediaHandler
	ProcessingHandler *handlers.ProcessingHandler
	StatusHandler     *handlers.StatusHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	db, err := sqlite.NewDB(logger, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.DB = db

	if err := app.initServices(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	return app, nil
}

// initServices initializes all business services in dependency order
func (a *App) initServices() error {
	userStorage := sqlite.NewUserStorage(a.DB, a.Logger)
	noteStorage := sqlite.NewNoteStorage(a.DB, a.Logger)
	paraStorage := sqlite.NewParaStorage(a.DB, a.Logger)
	captureStorage := sqlite.NewCaptureStorage(a.DB, a.Logger)
	mediaStorage := sqlite.NewMediaStorage(a.DB, a.Logger)
	jobStorage := sqlite.NewJobStorage(a.DB, a.Logger)

	// goqite shares the SQLite connection with the storage managers
	queueMgr, err := queue.NewManager(a.DB.SQL(), a.Config.Queue.Name)
	if err != nil {
		return fmt.Errorf("failed to initialize queue manager: %w", err)
	}
	a.QueueManager = queueMgr
	a.Logger.Debug().Str("queue_name", a.Config.Queue.Name).Msg("Queue manager initialized")

	a.Registry = ratelimit.NewRegistry(map[string]ratelimit.Limits{
		llm.ProviderGemini: {
			RPMLimit: a.Config.Providers.Gemini.RPMLimit,
			RPDLimit: a.Config.Providers.Gemini.RPDLimit,
		},
		llm.ProviderClaude: {
			RPMLimit: a.Config.Providers.Claude.RPMLimit,
			RPDLimit: a.Config.Providers.Claude.RPDLimit,
		},
	}, a.Logger)

	llmService, err := llm.NewService(a.Config, a.Registry, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM service: %w", err)
	}
	a.Logger.Debug().Str("provider", a.Config.LLM.DefaultProvider).Msg("LLM service initialized")

	a.AuthService, err = auth.NewService(userStorage, &a.Config.Auth, a.Config.TokenExpiry(), a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize auth service: %w", err)
	}

	a.NoteService = notes.NewService(noteStorage, paraStorage, a.Logger)
	a.ParaService = para.NewService(paraStorage, a.Logger)

	a.MediaService, err = media.NewService(mediaStorage, a.Config.Storage.UploadDir, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize media service: %w", err)
	}

	clipper := capture.NewWebClipper(&a.Config.Capture, a.Config.CaptureTimeout(), a.Logger)
	a.CaptureService = capture.NewService(captureStorage, mediaStorage, clipper, a.Logger)

	a.ProcessingService = processing.NewService(jobStorage, mediaStorage, noteStorage, queueMgr, a.Logger)

	uploadDir := a.MediaService.UploadDir()
	audioProcessor := processors.NewAudioProcessor(mediaStorage, uploadDir, llmService, a.Logger)
	a.ProcessingService.RegisterProcessor(models.JobTypeAudio, audioProcessor)
	// Video transcription goes through the same multimodal path as audio
	a.ProcessingService.RegisterProcessor(models.JobTypeVideo, audioProcessor)
	a.ProcessingService.RegisterProcessor(models.JobTypeImage,
		processors.NewImageProcessor(mediaStorage, uploadDir, llmService, a.Logger))
	a.ProcessingService.RegisterProcessor(models.JobTypeDocument,
		processors.NewDocumentProcessor(mediaStorage, uploadDir, llmService, a.Logger))
	a.ProcessingService.RegisterProcessor(models.JobTypeTextClassification,
		processors.NewClassifierProcessor(noteStorage, paraStorage, llmService, a.Logger))

	pollInterval, err := a.Config.PollInterval()
	if err != nil {
		return fmt.Errorf("invalid poll interval: %w", err)
	}
	a.WorkerPool = worker.NewPool(queueMgr, a.ProcessingService, a.Logger, a.Config.Queue.Concurrency, pollInterval)

	a.Scheduler = scheduler.New(jobStorage, a.Config, a.Logger)

	return nil
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() {
	a.AuthHandler = handlers.NewAuthHandler(a.AuthService, a.Logger)
	a.NoteHandler = handlers.NewNoteHandler(a.NoteService, a.Logger)
	a.DailyNoteHandler = handlers.NewDailyNoteHandler(a.NoteService, a.Logger)
	a.ParaHandler = handlers.NewParaHandler(a.ParaService, a.Logger)
	a.CaptureHandler = handlers.NewCaptureHandler(a.CaptureService, a.Logger)
	a.MediaHandler = handlers.NewMediaHandler(a.MediaService, a.Logger)
	a.ProcessingHandler = handlers.NewProcessingHandler(a.ProcessingService, a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.Registry, a.Logger)
}

// Start launches the background workers and the job reconciler
func (a *App) Start() error {
	a.WorkerPool.Start()

	if err := a.Scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	a.Logger.Info().
		Int("workers", a.Config.Queue.Concurrency).
		Msg("Application started")

	return nil
}

// Close stops background work and releases all resources
func (a *App) Close() error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}

	if a.WorkerPool != nil {
		a.WorkerPool.Stop()
		a.Logger.Info().Msg("Worker pool stopped")
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.Logger.Info().Msg("Database closed")
	}

	return nil
}
