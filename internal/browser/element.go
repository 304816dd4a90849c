// internal/browser/element.go
package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Functions evaluated with the resolved node bound to `this`.
const (
	jsText = `function() { return (this.innerText || this.textContent || '').trim(); }`

	jsAttribute = `function(name) {
		if (name === 'value' && 'value' in this) { return String(this.value); }
		const v = this.getAttribute(name);
		return v === null ? '' : v;
	}`

	jsDisplayed = `function() {
		if (!this.isConnected) { return false; }
		const style = window.getComputedStyle(this);
		if (style.display === 'none' || style.visibility === 'hidden' || style.visibility === 'collapse') { return false; }
		return this.offsetWidth > 0 || this.offsetHeight > 0 || this.getClientRects().length > 0;
	}`

	jsEnabled = `function() { return !this.disabled; }`

	// Clearing through the value property skips key events, so input and change are
	// dispatched for listeners such as autocomplete widgets.
	jsClear = `function() {
		if (!('value' in this)) { return false; }
		this.value = '';
		this.dispatchEvent(new Event('input', { bubbles: true }));
		this.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	}`
)

type chromeElement struct {
	s    *Session
	node *cdp.Node
	loc  Locator
}

func (e *chromeElement) call(ctx context.Context, fn string, res interface{}, args ...interface{}) error {
	return e.s.RunActions(ctx, callOnNode(e.node, fn, res, args...))
}

// callOnNode resolves node to a remote object and calls fn with it bound to `this`.
// The object is released afterwards.
func callOnNode(node *cdp.Node, fn string, res interface{}, args ...interface{}) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if node == nil {
			return fmt.Errorf("cannot call function on a nil node")
		}
		obj, err := dom.ResolveNode().WithBackendNodeID(node.BackendNodeID).Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve node: %w", err)
		}
		defer func() { _ = runtime.ReleaseObject(obj.ObjectID).Do(ctx) }()

		return chromedp.CallFunctionOn(fn, res,
			func(p *runtime.CallFunctionOnParams) *runtime.CallFunctionOnParams {
				return p.WithObjectID(obj.ObjectID).WithReturnByValue(true)
			},
			args...,
		).Do(ctx)
	})
}

// Click clicks the node. A click that opens a JavaScript dialog returns as soon as the
// dialog is open; the input dispatch itself only completes once the dialog is handled.
func (e *chromeElement) Click(ctx context.Context) error {
	e.s.drainDialogSignal()

	done := make(chan error, 1)
	go func() {
		done <- e.s.RunActions(ctx, chromedp.MouseClickNode(e.node))
	}()

	select {
	case err := <-done:
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("click action timed out for '%s': %w", e.loc, ctx.Err())
			}
			return fmt.Errorf("click action failed for '%s': %w", e.loc, err)
		}
		return nil
	case <-e.s.dialogOpened:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("click action timed out for '%s': %w", e.loc, ctx.Err())
	}
}

func (e *chromeElement) Clear(ctx context.Context) error {
	var ok bool
	if err := e.call(ctx, jsClear, &ok); err != nil {
		return fmt.Errorf("failed to clear '%s': %w", e.loc, err)
	}
	return nil
}

func (e *chromeElement) SendKeys(ctx context.Context, text string) error {
	if err := e.s.RunActions(ctx, chromedp.KeyEventNode(e.node, text)); err != nil {
		return fmt.Errorf("failed to type into '%s': %w", e.loc, err)
	}
	return nil
}

func (e *chromeElement) Text(ctx context.Context) (string, error) {
	var text string
	if err := e.call(ctx, jsText, &text); err != nil {
		return "", fmt.Errorf("failed to read text of '%s': %w", e.loc, err)
	}
	return text, nil
}

func (e *chromeElement) Attribute(ctx context.Context, name string) (string, error) {
	var value string
	if err := e.call(ctx, jsAttribute, &value, name); err != nil {
		return "", fmt.Errorf("failed to read attribute '%s' of '%s': %w", name, e.loc, err)
	}
	return value, nil
}

func (e *chromeElement) IsDisplayed(ctx context.Context) (bool, error) {
	var visible bool
	if err := e.call(ctx, jsDisplayed, &visible); err != nil {
		return false, fmt.Errorf("failed to check visibility of '%s': %w", e.loc, err)
	}
	return visible, nil
}

func (e *chromeElement) IsEnabled(ctx context.Context) (bool, error) {
	var enabled bool
	if err := e.call(ctx, jsEnabled, &enabled); err != nil {
		return false, fmt.Errorf("failed to check enabled state of '%s': %w", e.loc, err)
	}
	return enabled, nil
}
