package strategy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toasty/internal/model"
)

const (
	// NotificationsBusName is the well-known name of the notification service.
	NotificationsBusName = "org.freedesktop.Notifications"
	// NotificationsPath is the object path of the notification service.
	NotificationsPath = "/org/freedesktop/Notifications"

	notifyMethod = NotificationsBusName + ".Notify"
	closeMethod  = NotificationsBusName + ".CloseNotification"

	// AppName is sent as the notification's application name.
	AppName = "toasty"
)

// Urgency levels from the freedesktop notification specification.
const (
	UrgencyLow byte = iota
	UrgencyNormal
	UrgencyCritical
)

// DBusPresenter shows toasts through org.freedesktop.Notifications. Each toast
// replaces the previous one so a single bubble is reused.
type DBusPresenter struct {
	obj     dbus.BusObject
	timings Timings
	logger  *slog.Logger

	mu   sync.Mutex
	last uint32
}

// NewDBusPresenter connects to the session bus.
func NewDBusPresenter(timings Timings, logger *slog.Logger) (*DBusPresenter, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return newDBusPresenter(conn.Object(NotificationsBusName, NotificationsPath), timings, logger), nil
}

func newDBusPresenter(obj dbus.BusObject, timings Timings, logger *slog.Logger) *DBusPresenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DBusPresenter{obj: obj, timings: timings, logger: logger}
}

// Name implements Presenter.
func (p *DBusPresenter) Name() string {
	return "dbus"
}

// Present implements Presenter.
func (p *DBusPresenter) Present(ctx context.Context, r *model.Request) (Handle, error) {
	p.mu.Lock()
	replaces := p.last
	p.mu.Unlock()

	timeout := int32(p.timings.For(r.Duration).Milliseconds())

	call := p.obj.CallWithContext(ctx, notifyMethod, 0,
		AppName,
		replaces,
		"",
		r.Text,
		"",
		[]string{},
		Hints(r),
		timeout,
	)

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("notify failed: %w", err)
	}

	p.mu.Lock()
	p.last = id
	p.mu.Unlock()

	p.logger.Debug("dbus notification sent", "id", r.ID, "dbus_id", id, "replaces", replaces)
	return Handle(id), nil
}

// Dismiss implements Presenter.
func (p *DBusPresenter) Dismiss(ctx context.Context, h Handle) error {
	if h == 0 {
		return nil
	}
	if err := p.obj.CallWithContext(ctx, closeMethod, 0, uint32(h)).Err; err != nil {
		return fmt.Errorf("close notification %d failed: %w", h, err)
	}
	return nil
}

// Hints builds the notification hints for r. Placement is carried in
// x-toasty-* hints for servers that understand them.
func Hints(r *model.Request) map[string]dbus.Variant {
	hints := map[string]dbus.Variant{
		"urgency":   dbus.MakeVariant(UrgencyLow),
		"transient": dbus.MakeVariant(true),
	}
	if r.Style == nil {
		return hints
	}

	place := r.Style.Placement()
	hints["x-toasty-style"] = dbus.MakeVariant(r.Style.Name())
	if place.Gravity != "" {
		hints["x-toasty-gravity"] = dbus.MakeVariant(string(place.Gravity))
	}
	if place.XOffset != 0 {
		hints["x-toasty-offset-x"] = dbus.MakeVariant(int32(place.XOffset))
	}
	if place.YOffset != 0 {
		hints["x-toasty-offset-y"] = dbus.MakeVariant(int32(place.YOffset))
	}
	if place.HorizontalMargin != 0 {
		hints["x-toasty-margin-h"] = dbus.MakeVariant(place.HorizontalMargin)
	}
	if place.VerticalMargin != 0 {
		hints["x-toasty-margin-v"] = dbus.MakeVariant(place.VerticalMargin)
	}
	if layout := r.Style.Appearance().Layout; layout != "" {
		hints["x-toasty-layout"] = dbus.MakeVariant(layout)
	}
	return hints
}
