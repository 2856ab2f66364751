//go:build !windows

package strategy

import "errors"

// ErrUnsupportedBackend is returned for a backend this platform lacks.
var ErrUnsupportedBackend = errors.New("backend not supported on this platform")

func platformPresenter(opts PresenterOptions) (Presenter, error) {
	return NewDBusPresenter(opts.Timings, opts.Logger)
}

func newWindowsPresenter() (Presenter, error) {
	return nil, ErrUnsupportedBackend
}
