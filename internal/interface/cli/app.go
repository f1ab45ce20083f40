package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/neilberkman/reviewrider/internal/core/analysis"
	"github.com/neilberkman/reviewrider/internal/core/config"
	"github.com/neilberkman/reviewrider/internal/core/db"
	"github.com/neilberkman/reviewrider/internal/core/logging"
	"github.com/neilberkman/reviewrider/internal/core/models"
	"github.com/neilberkman/reviewrider/internal/core/session"
	"github.com/neilberkman/reviewrider/internal/core/store"
)

// app holds everything a command needs. db is nil for --ephemeral runs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *db.DB
	store  *store.Store
}

// openApp loads config, the logger and the record store. Commands that own
// the terminal or stdio pass logToFile.
func openApp(logToFile bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if endpoint != "" {
		cfg.Endpoint = strings.TrimRight(endpoint, "/")
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var logger *zap.Logger
	if logToFile {
		logger, err = logging.NewFile(cfg.LogPath(), verbose)
	} else {
		logger, err = logging.New(verbose)
	}
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	if ephemeral {
		a.store = store.New(store.NewMemoryBackend(), logger)
		if err := a.seedFromDisk(); err != nil {
			logger.Warn("Starting ephemeral session empty", zap.String("db", cfg.DBPath), zap.Error(err))
		}
		return a, nil
	}

	database, err := db.New(cfg.DBPath)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.db = database
	a.store = store.New(store.NewSQLiteBackend(database), logger)
	return a, nil
}

// seedFromDisk copies the saved session, if any, into the in-memory store.
// The database is only read; later writes stay in memory.
func (a *app) seedFromDisk() error {
	if _, err := os.Stat(a.cfg.DBPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	database, err := db.New(a.cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	saved := store.New(store.NewSQLiteBackend(database), a.logger)
	return a.store.SaveSnapshot(saved.Snapshot())
}

// controller builds and restores the session controller
func (a *app) controller() (*session.Controller, error) {
	client, err := analysis.NewClient(a.cfg.Endpoint,
		analysis.WithTimeout(a.cfg.Timeout),
		analysis.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}

	ctrl := session.New(a.store, client,
		session.WithLogger(a.logger),
		session.WithTimeout(a.cfg.Timeout))
	ctrl.Restore()
	return ctrl, nil
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("Error closing database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// toMain walks the screen machine back to the main screen
func toMain(ctrl *session.Controller) error {
	for i := 0; i < 2; i++ {
		switch ctrl.View().State.Screen {
		case models.ScreenMain:
			return nil
		case models.ScreenResults:
			if err := ctrl.Back(); err != nil {
				return err
			}
		case models.ScreenHistory:
			if err := ctrl.BackToMain(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("cannot leave the %s screen", ctrl.View().State.Screen)
		}
	}
	return nil
}

// toHistory opens the history screen unless it is already current
func toHistory(ctrl *session.Controller) error {
	if ctrl.View().State.Screen == models.ScreenHistory {
		return nil
	}
	return ctrl.OpenHistory()
}

// userError turns typed errors into the message shown on the command line
func userError(err error) error {
	var verr *session.ValidationError
	if errors.As(err, &verr) {
		return errors.New(verr.Message)
	}
	var callErr *analysis.RemoteCallError
	if errors.As(err, &callErr) {
		return fmt.Errorf("analysis failed: %s", callErr.Message)
	}
	return err
}
