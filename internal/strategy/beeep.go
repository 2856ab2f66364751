package strategy

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/gen2brain/beeep"

	"github.com/jmylchreest/toasty/internal/model"
)

// BeeepPresenter is the portable fallback. beeep cannot close a notification,
// so Dismiss is a no-op and the desktop expires the toast on its own.
type BeeepPresenter struct {
	title  string
	icon   string
	notify func(title, message, icon string) error
	seq    atomic.Uint32
}

// NewBeeepPresenter creates a presenter that titles every toast with title.
func NewBeeepPresenter(title, icon string) *BeeepPresenter {
	if title == "" {
		title = AppName
	}
	return &BeeepPresenter{
		title:  title,
		icon:   icon,
		notify: beeepNotify,
	}
}

func beeepNotify(title, message, icon string) error {
	return beeep.Notify(title, message, icon)
}

// Name implements Presenter.
func (p *BeeepPresenter) Name() string {
	return "beeep"
}

// Present implements Presenter.
func (p *BeeepPresenter) Present(ctx context.Context, r *model.Request) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := p.notify(p.title, r.Text, p.icon); err != nil {
		return 0, fmt.Errorf("beeep notify failed: %w", err)
	}
	return Handle(p.seq.Add(1)), nil
}

// Dismiss implements Presenter.
func (p *BeeepPresenter) Dismiss(context.Context, Handle) error {
	return nil
}
