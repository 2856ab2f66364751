// Package intercept provides the gates a toast passes before display.
// An interceptor sees the fully resolved request (minus its duration) and
// may suppress it by returning true. The default gate only logs.
package intercept
