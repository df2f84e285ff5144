package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/roster/core/internal/adapters/repository"
	"github.com/roster/core/internal/application/services"
	"github.com/roster/core/internal/infrastructure/config"
	"github.com/roster/core/internal/infrastructure/logger"
	"github.com/roster/core/internal/infrastructure/metrics"
)

// app holds everything a command needs once startup succeeded.
type app struct {
	cfg      *config.Config
	logger   *logger.Logger
	metrics  *metrics.Metrics
	service  *services.EmployeeService
	location repository.Location
	explicit bool

	closeOnce sync.Once
}

// newApp loads configuration, resolves the roster file and loads it.
// args may carry an explicit file that overrides store.file.
func newApp(ctx context.Context, fs afero.Fs, cfg *config.Config, args []string) (*app, error) {
	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	file := cfg.Store.File
	if len(args) > 0 && args[0] != "" {
		file = args[0]
	}

	a := &app{cfg: cfg, logger: appLogger, metrics: metrics.New()}
	if file != "" {
		exists, _ := afero.Exists(fs, file)
		a.location = repository.Location{Path: file, Found: exists}
		a.explicit = true
	} else {
		loc, err := repository.Discover(fs, storeDir(cfg.Store.Dir), cfg.Store.DefaultName)
		if err != nil {
			_ = appLogger.Close()
			return nil, err
		}
		a.location = loc
	}

	repo := repository.NewCSVRepository(fs, a.location.Path, appLogger)
	if err := repo.Load(ctx); err != nil {
		_ = appLogger.Close()
		return nil, fmt.Errorf("failed to load roster %s: %w", a.location.Path, err)
	}
	a.service = services.NewEmployeeService(repo, a.metrics, appLogger)

	appLogger.Debugw("Roster ready", "path", a.location.Path, "records", repo.Len())
	return a, nil
}

// announce tells the user which file a discovered roster uses.
func (a *app) announce(w io.Writer) {
	if a.explicit {
		return
	}
	if a.location.Found {
		fmt.Fprintf(w, "📂 Found existing CSV: %s\n", a.location.Path)
	} else {
		fmt.Fprintf(w, "📄 No CSV found, will create new: %s\n", a.location.Path)
	}
}

// Close writes the metrics textfile when enabled and flushes the logger.
// Only the first call does anything.
func (a *app) Close() {
	a.closeOnce.Do(func() {
		if a.cfg.Metrics.Enabled {
			if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
				a.logger.WithError(err).Warnw("Failed to write metrics textfile", "path", a.cfg.Metrics.Textfile)
			}
		}
		_ = a.logger.Close()
	})
}

// storeDir falls back to the directory of the running executable.
func storeDir(dir string) string {
	if dir != "" {
		return dir
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
