//go:build windows

package strategy

import (
	"context"
	"fmt"
	"sync/atomic"

	"gopkg.in/toast.v1"

	"github.com/jmylchreest/toasty/internal/model"
)

// WindowsPresenter shows toasts through the Windows notification center.
type WindowsPresenter struct {
	appID string
	icon  string
	seq   atomic.Uint32
}

// NewWindowsPresenter creates a presenter registered under appID.
func NewWindowsPresenter(appID, icon string) *WindowsPresenter {
	if appID == "" {
		appID = AppName
	}
	return &WindowsPresenter{appID: appID, icon: icon}
}

// Name implements Presenter.
func (p *WindowsPresenter) Name() string {
	return "windows"
}

// Present implements Presenter.
func (p *WindowsPresenter) Present(ctx context.Context, r *model.Request) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	notification := toast.Notification{
		AppID:    p.appID,
		Title:    r.Text,
		Actions:  []toast.Action{},
		Duration: toast.Short,
	}
	if r.Duration == model.DurationLong {
		notification.Duration = toast.Long
	}
	if p.icon != "" {
		notification.Icon = p.icon
	}

	if err := notification.Push(); err != nil {
		return 0, fmt.Errorf("windows toast failed: %w", err)
	}
	return Handle(p.seq.Add(1)), nil
}

// Dismiss implements Presenter. Pushed toasts cannot be withdrawn.
func (p *WindowsPresenter) Dismiss(context.Context, Handle) error {
	return nil
}
