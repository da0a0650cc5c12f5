package telemetry

import (
	"context"
	"time"
)

// Collector records control loop ticks.
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Snapshot is one control tick.
type Snapshot struct {
	Timestamp   time.Time
	Device      string
	Source      string
	Temperature TempMetrics
	Fan         FanMetrics
	SystemState StateMetrics
}

type TempMetrics struct {
	CPU *float64
	GPU *float64
	Max float64
}

type FanMetrics struct {
	TargetDuty  float64
	CurrentDuty float64
	Rpm         *int
}

type StateMetrics struct {
	ControlEnabled bool
	Monitor        bool
}
