// Package strategy turns resolved toast requests into something the user
// sees.
//
// A Strategy receives requests from any goroutine. The default Native
// strategy hands them to a single display loop which owns the Presenter, so
// the desktop notification service is only ever talked to from one place.
// The loop waits out each request's delay, dismisses whatever toast is
// visible before presenting the next one, and forgets a toast once its
// duration has elapsed.
//
// Presenters are backends: the freedesktop notification service over D-Bus,
// the cross-platform beeep notifier, the Windows toast API, and a terminal
// renderer.
package strategy
