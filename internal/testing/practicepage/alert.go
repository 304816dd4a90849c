package practicepage

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/pagepilot/internal/browser"
)

type alert struct {
	p *Page
	d *dialog
}

func (a *alert) Text() string { return a.d.message }

func (a *alert) Accept(ctx context.Context) error  { return a.resolve(ctx, true) }
func (a *alert) Dismiss(ctx context.Context) error { return a.resolve(ctx, false) }

func (a *alert) resolve(ctx context.Context, accept bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.p.mu.Lock()
	defer a.p.mu.Unlock()
	if a.p.dialog != a.d {
		return fmt.Errorf("%w: dialog already handled", browser.ErrNoAlert)
	}
	if a.d.kind == "confirm" {
		a.p.lastConfirm = &accept
	}
	a.p.dialog = nil
	return nil
}
