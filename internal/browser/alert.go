// internal/browser/alert.go
package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
)

type chromeAlert struct {
	s       *Session
	message string
	kind    page.DialogType
}

// Text returns the dialog message. Reading it leaves the dialog open.
func (a *chromeAlert) Text() string {
	return a.message
}

func (a *chromeAlert) Accept(ctx context.Context) error {
	return a.handle(ctx, true)
}

func (a *chromeAlert) Dismiss(ctx context.Context) error {
	return a.handle(ctx, false)
}

func (a *chromeAlert) handle(ctx context.Context, accept bool) error {
	if err := a.s.RunActions(ctx, page.HandleJavaScriptDialog(accept)); err != nil {
		return fmt.Errorf("failed to handle %s dialog: %w", a.kind, err)
	}
	// The closed event clears it too; clearing here keeps SwitchToAlert consistent
	// before that event arrives.
	a.s.clearDialog()
	return nil
}
