//go:build windows

package tray

import (
	"context"
	_ "embed"

	"fyne.io/systray"

	"github.com/n0rule/nanachi/internal/notify"
)

// iconData is a 32x32 PNG.
//
//go:embed icon.png
var iconData []byte

func (t *Tray) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	onReady := func() {
		systray.SetIcon(iconData)
		systray.SetTitle(notify.AppName)
		systray.SetTooltip(notify.AppName + " v" + notify.Version)

		mAbout := systray.AddMenuItem(labelAbout, "About "+notify.AppName)
		mAutostart := systray.AddMenuItem(t.autostartLabel(), "Start the applet at logon")
		systray.AddSeparator()
		mExit := systray.AddMenuItem(labelExit, "Close the applet")

		go func() {
			for {
				select {
				case <-mAbout.ClickedCh:
					t.about()
				case <-mAutostart.ClickedCh:
					mAutostart.SetTitle(t.toggleAutostart())
				case <-mExit.ClickedCh:
					t.exit()
					systray.Quit()
					return
				case <-ctx.Done():
					systray.Quit()
					return
				}
			}
		}()
	}

	systray.Run(onReady, cancel)
}
