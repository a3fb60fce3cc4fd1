// Package factory wires the application's components together.
package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quizwire/quizwire/internal/archive"
	"github.com/quizwire/quizwire/internal/catalog"
	"github.com/quizwire/quizwire/internal/coordinator"
	"github.com/quizwire/quizwire/internal/dependencies/clock"
	"github.com/quizwire/quizwire/internal/dependencies/random"
	"github.com/quizwire/quizwire/internal/grading"
	"github.com/quizwire/quizwire/internal/hub"
	"github.com/quizwire/quizwire/internal/session"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Quizzes is the authoritative in-memory quiz set, populated at
	// startup from the configured quiz file
	Quizzes *catalog.MemoryRepository
	// Catalog is what sessions read quizzes through (possibly a cache
	// in front of Quizzes)
	Catalog  catalog.Repository
	Archiver archive.Archiver

	Registry    *session.Registry
	Hub         *hub.Hub
	Coordinator *coordinator.Coordinator

	redisClient *redis.Client
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the backend for the quiz cache and session
	// archive ("memory" or "redis"). If empty, defaults to "memory".
	StorageType string
	// RedisConfig holds Redis connection settings (required if
	// StorageType is "redis")
	RedisConfig *RedisConfig
	// CatalogTTL bounds how long cached quizzes are served before
	// re-reading the authoritative set (redis storage only)
	CatalogTTL time.Duration
	// ArchiveTTL bounds how long completed session records are kept
	// (redis storage only; zero keeps them indefinitely)
	ArchiveTTL time.Duration
	// Strategy is the scoring strategy for new sessions (optional)
	// If nil, full credit scoring is used
	Strategy grading.Strategy
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	quizzes := catalog.NewMemoryRepository()

	var (
		cat         catalog.Repository = quizzes
		archiver    archive.Archiver   = archive.NewMemoryArchiver()
		redisClient *redis.Client
	)

	switch storageType {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		cat = catalog.NewRedisCache(redisClient, quizzes, cfg.CatalogTTL)
		archiver = archive.NewRedisArchiver(redisClient, cfg.ArchiveTTL)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	strategy := cfg.Strategy
	if strategy == nil {
		strategy = grading.FullCredit{}
	}

	app := newWithDependencies(quizzes, cat, archiver, strategy, clock.New(), random.New(), logger)
	app.redisClient = redisClient
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	quizzes *catalog.MemoryRepository,
	cat catalog.Repository,
	archiver archive.Archiver,
	strategy grading.Strategy,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *App {
	registry := session.NewRegistry(clk, rnd, logger)
	h := hub.New(logger)
	coord := coordinator.New(registry, h, cat, archiver, strategy, logger)

	return &App{
		Clock:       clk,
		Random:      rnd,
		Quizzes:     quizzes,
		Catalog:     cat,
		Archiver:    archiver,
		Registry:    registry,
		Hub:         h,
		Coordinator: coord,
	}
}

// LoadQuizFile populates the quiz set from a JSON file
func (a *App) LoadQuizFile(path string) (int, error) {
	return catalog.FillRepository(a.Quizzes, path)
}

// Close releases external connections
func (a *App) Close() error {
	if a.redisClient != nil {
		return a.redisClient.Close()
	}
	return nil
}
