//go:build !windows

package wmi

import "codeberg.org/mutker/handheldctl/internal/errors"

type stubInvoker struct{}

// NewInvoker is only functional on Windows, where the supported devices run.
func NewInvoker() (Invoker, error) {
	return nil, errors.New().New(ErrProviderUnavailable)
}

var _ Invoker = (*stubInvoker)(nil)

func (*stubInvoker) Invoke(_, _, _ string, _ map[string]interface{}, _ ...string) (Result, error) {
	return nil, errors.New().New(ErrProviderUnavailable)
}
