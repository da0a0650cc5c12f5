// Package telemetry persists one row per control tick to a local sqlite
// database when telemetry is enabled.
package telemetry

import (
	"context"

	"codeberg.org/mutker/handheldctl/internal/errors"
)

type service struct {
	repo Repository
	cfg  Config
}

func NewService(cfg Config) (Collector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	repo, err := NewRepository(cfg)
	if err != nil {
		return nil, err
	}

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) Record(ctx context.Context, snapshot *Snapshot) error {
	errFactory := errors.New()

	if snapshot == nil {
		return errFactory.New(ErrInvalidSnapshot)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Store(ctx, snapshot); err != nil {
			return errFactory.Wrap(ErrRecordFailed, err)
		}
	}

	return nil
}

func (s *service) Close() error {
	if err := s.repo.Close(); err != nil {
		return errors.New().Wrap(ErrServiceShutdown, err)
	}

	return nil
}

type noopCollector struct{}

// NewNoop returns a collector that drops every snapshot. Used when
// telemetry is disabled so the control loop records unconditionally.
func NewNoop() Collector {
	return noopCollector{}
}

func (noopCollector) Record(context.Context, *Snapshot) error { return nil }
func (noopCollector) Close() error                            { return nil }
