// internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/config"
)

const defaultNavigationTimeout = 60 * time.Second

// Session is one Chrome tab driven over the DevTools protocol. It implements SessionContext.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	cfg    config.BrowserConfig
	logger *zap.Logger

	onClose   func()
	closeOnce sync.Once

	dialogMu sync.Mutex
	dialog   *dialogState
	// dialogOpened receives a signal for every dialog that opens; buffered so the
	// event listener never blocks.
	dialogOpened chan struct{}
}

type dialogState struct {
	message string
	kind    page.DialogType
}

var _ SessionContext = (*Session)(nil)

// newSession wraps an already connected chromedp tab context.
func newSession(ctx context.Context, cancel context.CancelFunc, cfg config.BrowserConfig, logger *zap.Logger) *Session {
	id := uuid.New().String()
	s := &Session{
		id:           id,
		ctx:          ctx,
		cancel:       cancel,
		cfg:          cfg,
		logger:       logger.With(zap.String("session_id", id)),
		dialogOpened: make(chan struct{}, 1),
	}
	chromedp.ListenTarget(ctx, s.handleTargetEvent)
	return s
}

// handleTargetEvent runs on chromedp's event loop and must not issue commands.
func (s *Session) handleTargetEvent(ev interface{}) {
	switch e := ev.(type) {
	case *page.EventJavascriptDialogOpening:
		s.dialogMu.Lock()
		s.dialog = &dialogState{message: e.Message, kind: e.Type}
		s.dialogMu.Unlock()
		s.logger.Debug("JavaScript dialog opened.", zap.String("type", string(e.Type)), zap.String("message", e.Message))
		select {
		case s.dialogOpened <- struct{}{}:
		default:
		}
	case *page.EventJavascriptDialogClosed:
		s.clearDialog()
		s.logger.Debug("JavaScript dialog closed.", zap.Bool("accepted", e.Result))
	}
}

func (s *Session) clearDialog() {
	s.dialogMu.Lock()
	s.dialog = nil
	s.dialogMu.Unlock()
}

func (s *Session) drainDialogSignal() {
	select {
	case <-s.dialogOpened:
	default:
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// RunActions executes chromedp actions bounded by both the session lifetime and ctx.
// Cancellation of ctx is reported ahead of whatever chromedp returned.
func (s *Session) RunActions(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := CombineContext(s.ctx, ctx)
	defer cancel()

	err := chromedp.Run(runCtx, actions...)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if s.ctx.Err() != nil {
			return fmt.Errorf("session closed: %w", s.ctx.Err())
		}
	}
	return err
}

// Navigate loads url, bounded by the configured navigation timeout.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating.", zap.String("url", url))

	navTimeout := s.cfg.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = defaultNavigationTimeout
	}
	navCtx, navCancel := context.WithTimeout(ctx, navTimeout)
	defer navCancel()

	if err := s.RunActions(navCtx, chromedp.Navigate(url)); err != nil {
		if navCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return fmt.Errorf("navigation to %s timed out after %s: %w", url, navTimeout, err)
		}
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// Title returns the document title.
func (s *Session) Title(ctx context.Context) (string, error) {
	var title string
	if err := s.RunActions(ctx, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("failed to read page title: %w", err)
	}
	return title, nil
}

// Refresh reloads the current page.
func (s *Session) Refresh(ctx context.Context) error {
	navTimeout := s.cfg.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = defaultNavigationTimeout
	}
	reloadCtx, cancel := context.WithTimeout(ctx, navTimeout)
	defer cancel()

	if err := s.RunActions(reloadCtx, chromedp.Reload()); err != nil {
		return fmt.Errorf("failed to reload page: %w", err)
	}
	return nil
}

// FindElements returns every node matching loc, possibly none.
func (s *Session) FindElements(ctx context.Context, loc Locator) ([]Element, error) {
	if !loc.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLocator, loc)
	}
	by := chromedp.ByQueryAll
	if loc.IsXPath() {
		by = chromedp.BySearch
	}

	var nodes []*cdp.Node
	if err := s.RunActions(ctx, chromedp.Nodes(loc.Selector(), &nodes, by, chromedp.AtLeast(0))); err != nil {
		return nil, fmt.Errorf("failed to query '%s': %w", loc, err)
	}

	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		elements = append(elements, &chromeElement{s: s, node: n, loc: loc})
	}
	return elements, nil
}

// FindElement returns the first node matching loc or ErrNotFound.
func (s *Session) FindElement(ctx context.Context, loc Locator) (Element, error) {
	elements, err := s.FindElements(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, loc)
	}
	return elements[0], nil
}

// SwitchToAlert returns the open dialog or ErrNoAlert.
func (s *Session) SwitchToAlert(ctx context.Context) (Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.dialogMu.Lock()
	defer s.dialogMu.Unlock()
	if s.dialog == nil {
		return nil, ErrNoAlert
	}
	return &chromeAlert{s: s, message: s.dialog.message, kind: s.dialog.kind}, nil
}

// Screenshot captures the viewport as PNG.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.RunActions(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}

// Close closes the tab. It is safe to call more than once.
func (s *Session) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.logger.Debug("Closing browser session.")
		if s.cancel != nil {
			s.cancel()
		}
		if s.onClose != nil {
			s.onClose()
		}
	})
	return nil
}
