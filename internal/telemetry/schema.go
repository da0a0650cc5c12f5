package telemetry

import (
	"database/sql"

	"codeberg.org/mutker/handheldctl/internal/errors"
)

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS ticks (
            timestamp INTEGER PRIMARY KEY,
            device TEXT,
            source TEXT,
            cpu_temperature REAL,
            gpu_temperature REAL,
            max_temperature REAL,
            target_duty REAL,
            current_duty REAL,
            fan_rpm INTEGER,
            control_enabled INTEGER,
            monitor INTEGER
        )
    `)
	if err != nil {
		return errors.New().Wrap(ErrStorageInit, err)
	}

	return nil
}
