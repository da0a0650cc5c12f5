package wmi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/mutker/handheldctl/internal/errors"
	"codeberg.org/mutker/handheldctl/internal/wmi"
)

type fakeInvoker struct {
	result wmi.Result
	err    error
	calls  int
}

func (f *fakeInvoker) Invoke(_, _, _ string, _ map[string]interface{}, _ ...string) (wmi.Result, error) {
	f.calls++

	return f.result, f.err
}

func projectSpeed(r wmi.Result) (int, bool) {
	return r.Int("CurrentFanSpeed")
}

func TestValueProjectsResult(t *testing.T) {
	inv := &fakeInvoker{result: wmi.Result{"CurrentFanSpeed": int32(3200)}}

	got := wmi.Value(inv, `root\WMI`, "SELECT * FROM LENOVO_FAN_METHOD",
		"Fan_GetCurrentFanSpeed", nil, projectSpeed, "CurrentFanSpeed")

	assert.Equal(t, 3200, got)
	assert.Equal(t, 1, inv.calls)
}

func TestValueZeroOnInvokeFailure(t *testing.T) {
	inv := &fakeInvoker{err: errors.New().New(wmi.ErrInvokeFailed)}

	got := wmi.Value(inv, `root\WMI`, "SELECT * FROM LENOVO_FAN_METHOD",
		"Fan_GetCurrentFanSpeed", nil, projectSpeed, "CurrentFanSpeed")

	assert.Equal(t, 0, got)
}

func TestValueZeroOnFailedProjection(t *testing.T) {
	// The reply exists but lacks the expected out-parameter.
	inv := &fakeInvoker{result: wmi.Result{"Unrelated": int32(7)}}

	got := wmi.Value(inv, `root\WMI`, "SELECT * FROM LENOVO_FAN_METHOD",
		"Fan_GetCurrentFanSpeed", nil, projectSpeed, "CurrentFanSpeed")

	assert.Equal(t, 0, got)
}

func TestResultIntCoercions(t *testing.T) {
	r := wmi.Result{
		"i":       int(1),
		"i32":     int32(2),
		"i64":     int64(3),
		"u16":     uint16(4),
		"f64":     float64(5),
		"text":    "not a number",
		"nothing": nil,
	}

	for key, want := range map[string]int{"i": 1, "i32": 2, "i64": 3, "u16": 4, "f64": 5} {
		got, ok := r.Int(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}

	_, ok := r.Int("text")
	assert.False(t, ok)
	_, ok = r.Int("nothing")
	assert.False(t, ok)
	_, ok = r.Int("absent")
	assert.False(t, ok)
}
