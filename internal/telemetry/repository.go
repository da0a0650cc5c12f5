package telemetry

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/mutker/handheldctl/internal/errors"
	"codeberg.org/mutker/handheldctl/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

type Repository interface {
	Store(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	logger.Debug().Msgf("Initializing telemetry repository at: %s", cfg.DBPath)

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
			return nil, errFactory.Wrap(ErrStorageInit, err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteRepository{
		db: db,
	}, nil
}

func (r *sqliteRepository) Store(ctx context.Context, snapshot *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO ticks (
            timestamp, device, source,
            cpu_temperature, gpu_temperature, max_temperature,
            target_duty, current_duty, fan_rpm,
            control_enabled, monitor
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(timestamp) DO UPDATE SET
            device = excluded.device,
            source = excluded.source,
            cpu_temperature = excluded.cpu_temperature,
            gpu_temperature = excluded.gpu_temperature,
            max_temperature = excluded.max_temperature,
            target_duty = excluded.target_duty,
            current_duty = excluded.current_duty,
            fan_rpm = excluded.fan_rpm,
            control_enabled = excluded.control_enabled,
            monitor = excluded.monitor
    `,
		snapshot.Timestamp.Unix(),
		snapshot.Device,
		snapshot.Source,
		snapshot.Temperature.CPU,
		snapshot.Temperature.GPU,
		snapshot.Temperature.Max,
		snapshot.Fan.TargetDuty,
		snapshot.Fan.CurrentDuty,
		snapshot.Fan.Rpm,
		boolToInt(snapshot.SystemState.ControlEnabled),
		boolToInt(snapshot.SystemState.Monitor),
	)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}

	return nil
}
