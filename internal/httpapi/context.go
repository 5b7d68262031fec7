package httpapi

import (
	"context"
)

// serverBaseCtx is the daemon-lifetime context. Canceling it (on shutdown)
// terminates in-flight synthesis streams along with their requests.
var serverBaseCtx = context.Background()

// SetBaseContext installs the daemon-lifetime context handlers derive from.
// nil resets to Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// joinContexts yields a context canceled when either parent is done, so a
// synthesis stream stops on client disconnect and on daemon shutdown alike.
// The cancel func must be called when the handler returns.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-a.Done():
			cancel()
		case <-b.Done():
			cancel()
		}
	}()
	return ctx, cancel
}
