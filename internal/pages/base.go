// Package pages holds the page objects: BasePage, the wait-before-every-interaction
// accessor, and the practice page model built on it.
package pages

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/browser"
)

// BasePage wraps a driver with one wait policy. Every element interaction resolves a
// fresh handle through a readiness wait first; handles are never kept between calls.
type BasePage struct {
	driver browser.Driver
	policy browser.WaitPolicy
	logger *zap.Logger
}

// NewBasePage creates the accessor. The policy is fixed for the lifetime of the page.
func NewBasePage(driver browser.Driver, policy browser.WaitPolicy, logger *zap.Logger) *BasePage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BasePage{
		driver: driver,
		policy: policy,
		logger: logger.Named("page"),
	}
}

// Policy returns the wait policy in use.
func (b *BasePage) Policy() browser.WaitPolicy { return b.policy }

func (b *BasePage) waitClickable(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	el, err := browser.Until(ctx, b.driver, b.policy, browser.ElementToBeClickable(loc))
	if err != nil {
		b.logger.Error("Element not clickable.", zap.Stringer("locator", loc), zap.Error(err))
		return nil, err
	}
	return el, nil
}

func (b *BasePage) waitVisible(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	el, err := browser.Until(ctx, b.driver, b.policy, browser.VisibilityOfElementLocated(loc))
	if err != nil {
		b.logger.Error("Element not visible.", zap.Stringer("locator", loc), zap.Error(err))
		return nil, err
	}
	return el, nil
}

// Click waits until loc is clickable and clicks it.
func (b *BasePage) Click(ctx context.Context, loc browser.Locator) error {
	el, err := b.waitClickable(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Click(ctx); err != nil {
		return fmt.Errorf("failed to click %s: %w", loc, err)
	}
	b.logger.Info("Clicked element.", zap.Stringer("locator", loc))
	return nil
}

// Type waits until loc is visible, clears it, resolves it again and sends text. The
// field ends up holding exactly text.
func (b *BasePage) Type(ctx context.Context, loc browser.Locator, text string) error {
	el, err := b.waitVisible(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear %s: %w", loc, err)
	}

	// Clearing can re-render the field, so the handle is resolved again before typing.
	el, err = b.waitVisible(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.SendKeys(ctx, text); err != nil {
		return fmt.Errorf("failed to type into %s: %w", loc, err)
	}
	b.logger.Info("Typed into element.", zap.Stringer("locator", loc), zap.Int("length", len(text)))
	return nil
}

// ReadText waits until loc is visible and returns its rendered text.
func (b *BasePage) ReadText(ctx context.Context, loc browser.Locator) (string, error) {
	el, err := b.waitVisible(ctx, loc)
	if err != nil {
		return "", err
	}
	text, err := el.Text(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read text of %s: %w", loc, err)
	}
	return text, nil
}

// ReadValue waits until loc is visible and returns its current value.
func (b *BasePage) ReadValue(ctx context.Context, loc browser.Locator) (string, error) {
	return b.ReadAttribute(ctx, loc, "value")
}

// ReadAttribute waits until loc is visible and returns the named attribute.
func (b *BasePage) ReadAttribute(ctx context.Context, loc browser.Locator, name string) (string, error) {
	el, err := b.waitVisible(ctx, loc)
	if err != nil {
		return "", err
	}
	v, err := el.Attribute(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to read attribute '%s' of %s: %w", name, loc, err)
	}
	return v, nil
}

// IsVisible waits for loc to become visible and reports whether it is. A timeout,
// absence or read failure all collapse to false; this is the only accessor that
// swallows a timeout.
func (b *BasePage) IsVisible(ctx context.Context, loc browser.Locator) bool {
	el, err := browser.Until(ctx, b.driver, b.policy, browser.VisibilityOfElementLocated(loc))
	if err != nil {
		b.logger.Debug("Element not visible within the wait.", zap.Stringer("locator", loc), zap.Error(err))
		return false
	}
	shown, err := el.IsDisplayed(ctx)
	if err != nil {
		b.logger.Debug("Visibility check failed.", zap.Stringer("locator", loc), zap.Error(err))
		return false
	}
	return shown
}

// WaitForMultiple blocks until at least one element matches loc and returns every match.
func (b *BasePage) WaitForMultiple(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	els, err := browser.Until(ctx, b.driver, b.policy, browser.PresenceOfAllElementsLocated(loc))
	if err != nil {
		b.logger.Error("Elements never appeared.", zap.Stringer("locator", loc), zap.Error(err))
		return nil, err
	}
	return els, nil
}

// SelectFromList clicks the first element whose text equals match exactly. When none
// matches nothing is clicked and false is returned without an error.
func (b *BasePage) SelectFromList(ctx context.Context, elements []browser.Element, match string) (bool, error) {
	for i, el := range elements {
		text, err := el.Text(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to read list item %d: %w", i, err)
		}
		if text != match {
			continue
		}
		if err := el.Click(ctx); err != nil {
			return false, fmt.Errorf("failed to click list item '%s': %w", match, err)
		}
		b.logger.Info("Selected list item.", zap.String("text", match))
		return true, nil
	}
	b.logger.Warn("No list item matched.", zap.String("text", match), zap.Int("candidates", len(elements)))
	return false, nil
}

// WaitForAlert blocks until a JavaScript dialog is open.
func (b *BasePage) WaitForAlert(ctx context.Context) (browser.Alert, error) {
	a, err := browser.Until(ctx, b.driver, b.policy, browser.AlertIsPresent())
	if err != nil {
		b.logger.Error("Alert never appeared.", zap.Error(err))
		return nil, err
	}
	return a, nil
}

// ReadAlertText waits for a dialog and returns its message. The dialog stays open.
func (b *BasePage) ReadAlertText(ctx context.Context) (string, error) {
	a, err := b.WaitForAlert(ctx)
	if err != nil {
		return "", err
	}
	return a.Text(), nil
}

// AcceptAlert waits for a dialog and accepts it.
func (b *BasePage) AcceptAlert(ctx context.Context) error {
	a, err := b.WaitForAlert(ctx)
	if err != nil {
		return err
	}
	if err := a.Accept(ctx); err != nil {
		return fmt.Errorf("failed to accept alert: %w", err)
	}
	b.logger.Info("Accepted alert.")
	return nil
}

// DismissAlert waits for a dialog and dismisses it.
func (b *BasePage) DismissAlert(ctx context.Context) error {
	a, err := b.WaitForAlert(ctx)
	if err != nil {
		return err
	}
	if err := a.Dismiss(ctx); err != nil {
		return fmt.Errorf("failed to dismiss alert: %w", err)
	}
	b.logger.Info("Dismissed alert.")
	return nil
}

// Navigate loads url without any readiness wait.
func (b *BasePage) Navigate(ctx context.Context, url string) error {
	b.logger.Info("Navigating.", zap.String("url", url))
	return b.driver.Navigate(ctx, url)
}

// PageTitle returns the document title without any readiness wait.
func (b *BasePage) PageTitle(ctx context.Context) (string, error) {
	return b.driver.Title(ctx)
}
