//go:build !windows

package tray

import "context"

// run waits for ctx; there is no tray on this platform.
func (t *Tray) run(ctx context.Context) {
	t.logger.Debug().Msg("System tray is only available on Windows")
	<-ctx.Done()
}
