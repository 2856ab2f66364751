package strategy

import (
	"context"
	"log/slog"

	"github.com/jmylchreest/toasty/internal/model"
)

// Sounder plays a sound file without blocking.
type Sounder interface {
	Play(path string) error
}

// SoundPresenter plays a sound whenever the wrapped presenter shows a toast.
// A sound that fails to play is logged; the toast is still shown.
type SoundPresenter struct {
	Presenter
	sounder Sounder
	path    string
	logger  *slog.Logger
}

// NewSoundPresenter wraps p so that each presented toast plays path.
func NewSoundPresenter(p Presenter, sounder Sounder, path string, logger *slog.Logger) *SoundPresenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SoundPresenter{Presenter: p, sounder: sounder, path: path, logger: logger}
}

// Present implements Presenter.
func (p *SoundPresenter) Present(ctx context.Context, r *model.Request) (Handle, error) {
	h, err := p.Presenter.Present(ctx, r)
	if err != nil {
		return h, err
	}
	if err := p.sounder.Play(p.path); err != nil {
		p.logger.Warn("failed to play toast sound", "path", p.path, "error", err)
	}
	return h, nil
}
