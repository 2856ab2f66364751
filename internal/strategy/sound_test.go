package strategy

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/platform"
)

type fakeSounder struct {
	mu     sync.Mutex
	played []string
	err    error
}

func (s *fakeSounder) Play(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.played = append(s.played, path)
	return s.err
}

func (s *fakeSounder) Played() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.played...)
}

func TestSoundPresenter(t *testing.T) {
	tests := []struct {
		name       string
		presentErr error
		soundErr   error
		wantErr    bool
		wantPlayed []string
	}{
		{name: "plays on present", wantPlayed: []string{"ding.ogg"}},
		{name: "sound failure keeps toast", soundErr: errors.New("no device"), wantPlayed: []string{"ding.ogg"}},
		{name: "silent when present fails", presentErr: errors.New("no notifier"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &fakePresenter{err: tt.presentErr}
			sounder := &fakeSounder{err: tt.soundErr}
			p := NewSoundPresenter(inner, sounder, "ding.ogg", nil)

			h, err := p.Present(context.Background(), toastRequest("hi", model.DurationShort, nil))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, Handle(1), h)
				assert.Equal(t, []string{"hi"}, inner.Presented())
			}
			assert.Equal(t, tt.wantPlayed, sounder.Played())

			assert.Equal(t, "fake", p.Name())
			require.NoError(t, p.Dismiss(context.Background(), h))
			assert.Equal(t, []Handle{h}, inner.Dismissed())
		})
	}
}

func TestSoundPresenter_WithNative(t *testing.T) {
	sounder := &fakeSounder{}
	n := NewNative(NewSoundPresenter(&fakePresenter{}, sounder, "ding.wav", nil), Timings{Short: 20 * time.Millisecond, Long: 40 * time.Millisecond}, nil)
	require.NoError(t, n.Register(platform.NewStatic(nil, false)))
	t.Cleanup(func() { _ = n.Close() })

	require.NoError(t, n.Show(resolved(n, "done", 0)))
	assert.Eventually(t, func() bool { return len(sounder.Played()) == 1 }, time.Second, 5*time.Millisecond)
}
