package sensor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/handheldctl/internal/errors"
	"codeberg.org/mutker/handheldctl/internal/sensor"
)

type fakeReader struct {
	readings []sensor.Reading
	errs     []error
	calls    int
}

func (r *fakeReader) Read() (sensor.Reading, error) {
	i := r.calls
	r.calls++
	if i >= len(r.readings) {
		i = len(r.readings) - 1
	}
	if r.errs != nil && r.errs[i] != nil {
		return sensor.Reading{}, r.errs[i]
	}

	return r.readings[i], nil
}

func reading(maxTemp float64) sensor.Reading {
	return sensor.NewReading(&maxTemp, nil, sensor.SourceACPI)
}

func TestNewReadingMax(t *testing.T) {
	cpu := 55.0
	gpu := 62.5

	r := sensor.NewReading(&cpu, &gpu, sensor.SourceDevice)
	assert.InDelta(t, 62.5, r.Max, 0.001)

	r = sensor.NewReading(&cpu, nil, sensor.SourceDevice)
	assert.InDelta(t, 55.0, r.Max, 0.001)

	gpuLow := 40.0
	r = sensor.NewReading(&cpu, &gpuLow, sensor.SourceDevice)
	assert.InDelta(t, 55.0, r.Max, 0.001)
}

func TestChainFallsThroughToFirstSuccess(t *testing.T) {
	errFactory := errors.New()
	failing := &fakeReader{
		readings: []sensor.Reading{{}},
		errs:     []error{errFactory.New(sensor.ErrReadFailed)},
	}
	working := &fakeReader{readings: []sensor.Reading{reading(48)}}
	untouched := &fakeReader{readings: []sensor.Reading{reading(99)}}

	chained := sensor.NewChain(failing, working, untouched)

	got, err := chained.Read()
	require.NoError(t, err)
	assert.InDelta(t, 48.0, got.Max, 0.001)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, working.calls)
	assert.Equal(t, 0, untouched.calls)
}

func TestChainAllTiersFail(t *testing.T) {
	errFactory := errors.New()
	failing := &fakeReader{
		readings: []sensor.Reading{{}},
		errs:     []error{errFactory.New(sensor.ErrReadFailed)},
	}

	chained := sensor.NewChain(failing, failing)

	_, err := chained.Read()
	require.Error(t, err)

	var appErr errors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, sensor.ErrNoReading, appErr.Code())
}

func TestChainEmpty(t *testing.T) {
	_, err := sensor.NewChain().Read()
	require.Error(t, err)

	var appErr errors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, sensor.ErrNoReading, appErr.Code())
}

type fakeDeviceSensor struct {
	cpu, gpu float64
	ok       bool
}

func (d *fakeDeviceSensor) SensorTemperatures() (float64, float64, bool) {
	return d.cpu, d.gpu, d.ok
}

func TestDeviceReader(t *testing.T) {
	r := sensor.NewDeviceReader(&fakeDeviceSensor{cpu: 51, gpu: 58, ok: true})

	got, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, sensor.SourceDevice, got.Source)
	assert.InDelta(t, 58.0, got.Max, 0.001)
	require.NotNil(t, got.CPU)
	assert.InDelta(t, 51.0, *got.CPU, 0.001)

	r = sensor.NewDeviceReader(&fakeDeviceSensor{ok: false})
	_, err = r.Read()
	require.Error(t, err)
}

func collect(t *testing.T, ch <-chan sensor.Reading, n int) []sensor.Reading {
	t.Helper()

	var out []sensor.Reading
	timeout := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case r, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, r)
		case <-timeout:
			t.Fatalf("timed out waiting for %d readings, got %d", n, len(out))
		}
	}

	return out
}

func TestPollerSuppressesSmallChanges(t *testing.T) {
	// 50.0 delivered, 50.4 suppressed, 51.5 delivered (delta from 50.0),
	// then 51.5 repeats and stays suppressed.
	fake := &fakeReader{
		readings: []sensor.Reading{reading(50.0), reading(50.4), reading(51.5)},
	}

	poller := sensor.NewPoller(fake, time.Millisecond, 1.0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	got := collect(t, poller.Readings(), 2)
	cancel()
	<-done

	assert.InDelta(t, 50.0, got[0].Max, 0.001)
	assert.InDelta(t, 51.5, got[1].Max, 0.001)
}

func TestPollerDeliversFirstReading(t *testing.T) {
	fake := &fakeReader{readings: []sensor.Reading{reading(42)}}

	poller := sensor.NewPoller(fake, time.Millisecond, 1.0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	got := collect(t, poller.Readings(), 1)
	cancel()
	<-done

	assert.InDelta(t, 42.0, got[0].Max, 0.001)
}

func TestPollerReportsErrors(t *testing.T) {
	errFactory := errors.New()
	fake := &fakeReader{
		readings: []sensor.Reading{{}},
		errs:     []error{errFactory.New(sensor.ErrReadFailed)},
	}

	poller := sensor.NewPoller(fake, time.Millisecond, 1.0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	select {
	case err := <-poller.Errors():
		require.Error(t, err)

		var appErr errors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, sensor.ErrReadFailed, appErr.Code())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for poller error")
	}

	cancel()
	<-done
}
