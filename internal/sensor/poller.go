package sensor

import (
	"context"
	"math"
	"time"

	"codeberg.org/mutker/handheldctl/internal/logger"
)

const (
	// DefaultInterval is the temperature polling period. Thermal time
	// constants are seconds, so nothing faster is needed.
	DefaultInterval = 2 * time.Second

	// DefaultThreshold suppresses notifications below this temperature
	// delta, bounding the write rate into the hardware transport.
	DefaultThreshold = 1.0
)

// Poller reads temperatures on a fixed interval and raises change
// notifications when the maximum temperature moves by at least the
// threshold. Tick failures are delivered on a separate channel so the
// orchestrator can observe them.
type Poller struct {
	reader    Reader
	interval  time.Duration
	threshold float64

	readings chan Reading
	errs     chan error

	lastMax  float64
	hasValue bool
}

func NewPoller(reader Reader, interval time.Duration, threshold float64) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	return &Poller{
		reader:    reader,
		interval:  interval,
		threshold: threshold,
		readings:  make(chan Reading, 4),
		errs:      make(chan error, 4),
	}
}

// Readings delivers change notifications.
func (p *Poller) Readings() <-chan Reading {
	return p.readings
}

// Errors delivers per-tick read failures. The policy is log and continue,
// but failures stay observable.
func (p *Poller) Errors() <-chan error {
	return p.errs
}

// Run polls until the context is cancelled. It closes the notification
// channels on return.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	defer close(p.readings)
	defer close(p.errs)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

func (p *Poller) tick() {
	reading, err := p.reader.Read()
	if err != nil {
		logger.Warn().Err(err).Msg("Temperature read failed")
		select {
		case p.errs <- err:
		default:
		}

		return
	}

	if p.hasValue && math.Abs(reading.Max-p.lastMax) < p.threshold {
		return
	}

	p.lastMax = reading.Max
	p.hasValue = true

	select {
	case p.readings <- reading:
	default:
		logger.Debug().Msg("Dropping temperature notification, consumer is behind")
	}
}
