package browser

import "context"

// Element is a transient handle to a DOM node. Handles go stale on navigation or
// re-render, so callers resolve a fresh one for every interaction.
type Element interface {
	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	// Text returns the trimmed rendered text.
	Text(ctx context.Context) (string, error)
	// Attribute returns the live property for "value", otherwise the DOM attribute.
	// A missing attribute reads as "".
	Attribute(ctx context.Context, name string) (string, error)
	IsDisplayed(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
}

// Alert is an open JavaScript dialog (alert, confirm or prompt).
type Alert interface {
	Text() string
	Accept(ctx context.Context) error
	Dismiss(ctx context.Context) error
}

// Driver is the browser-control capability consumed by page objects.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Title(ctx context.Context) (string, error)
	Refresh(ctx context.Context) error
	// FindElement returns ErrNotFound when nothing matches.
	FindElement(ctx context.Context, loc Locator) (Element, error)
	// FindElements returns an empty slice when nothing matches.
	FindElements(ctx context.Context, loc Locator) ([]Element, error)
	// SwitchToAlert returns ErrNoAlert when no dialog is open.
	SwitchToAlert(ctx context.Context) (Alert, error)
	// Screenshot captures the viewport as PNG.
	Screenshot(ctx context.Context) ([]byte, error)
}

// SessionContext is one live browser session.
type SessionContext interface {
	Driver
	ID() string
	Close(ctx context.Context) error
}

// SessionFactory creates sessions; *Manager is the Chrome implementation.
type SessionFactory interface {
	NewSession(ctx context.Context) (SessionContext, error)
}
