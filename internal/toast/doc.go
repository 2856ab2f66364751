// Package toast is the entry point for showing toasts.
//
// A Toaster holds the process context and the current defaults: display
// strategy, style and interceptor. Every Show call turns its argument into a
// model.Request, fills the fields the caller left empty from those defaults,
// asks the interceptor whether to drop it, infers a duration from the text
// length and hands it to the strategy. The Toaster never blocks on display;
// waiting out delays and replacing visible toasts is the strategy's job.
//
// Basic usage:
//
//	t := toast.New()
//	if err := t.Init(platform.NewStatic(nil, false)); err != nil {
//	    return err
//	}
//	defer t.Close()
//	_ = t.SetGravity(style.GravityTopCenter)
//	_ = t.ShowText("Saved")
package toast
