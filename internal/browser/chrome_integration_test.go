// internal/browser/chrome_integration_test.go
package browser_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/pagepilot/internal/browser"
	"github.com/xkilldash9x/pagepilot/internal/config"
	"github.com/xkilldash9x/pagepilot/internal/testing/practicepage"
)

const chromeTestTimeout = 90 * time.Second

// newChromeSession starts a headless Chrome session on the embedded practice page.
// It skips when -short is set or no Chrome binary is installed.
func newChromeSession(t *testing.T) (context.Context, browser.SessionContext) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Chrome integration test in short mode")
	}

	cfg := config.NewDefaultConfig().Browser()
	cfg.Headless = true
	cfg.Args = []string{"--disable-dev-shm-usage"}
	if _, err := browser.FindChrome(cfg); err != nil {
		t.Skipf("Chrome not available: %v", err)
	}

	srv := httptest.NewServer(practicepage.Handler())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), chromeTestTimeout)
	t.Cleanup(cancel)

	mgr := browser.NewManager(ctx, cfg, zaptest.NewLogger(t))
	t.Cleanup(func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		_ = mgr.Shutdown(shutdownCtx)
	})

	session, err := mgr.NewSession(ctx)
	require.NoError(t, err)
	require.NoError(t, session.Navigate(ctx, srv.URL))
	return ctx, session
}

func TestChromeSession_PracticePage(t *testing.T) {
	ctx, s := newChromeSession(t)
	policy := browser.WaitPolicy{Timeout: 5 * time.Second, PollInterval: 100 * time.Millisecond}

	t.Run("Title", func(t *testing.T) {
		title, err := s.Title(ctx)
		require.NoError(t, err)
		assert.Contains(t, title, "Practice Page")
	})

	t.Run("ShowTypeHide", func(t *testing.T) {
		box, err := browser.Until(ctx, s, policy, browser.VisibilityOfElementLocated(browser.ID("displayed-text")))
		require.NoError(t, err)
		require.NoError(t, box.Clear(ctx))
		require.NoError(t, box.SendKeys(ctx, "Haryish"))

		value, err := box.Attribute(ctx, "value")
		require.NoError(t, err)
		assert.Equal(t, "Haryish", value)

		hide, err := browser.Until(ctx, s, policy, browser.ElementToBeClickable(browser.ID("hide-textbox")))
		require.NoError(t, err)
		require.NoError(t, hide.Click(ctx))

		short := browser.WaitPolicy{Timeout: 500 * time.Millisecond, PollInterval: 100 * time.Millisecond}
		_, err = browser.Until(ctx, s, short, browser.VisibilityOfElementLocated(browser.ID("displayed-text")))
		assert.ErrorIs(t, err, browser.ErrTimeout)
	})

	t.Run("AlertClickReturnsWhileOpen", func(t *testing.T) {
		name, err := browser.Until(ctx, s, policy, browser.VisibilityOfElementLocated(browser.Name("enter-name")))
		require.NoError(t, err)
		require.NoError(t, name.SendKeys(ctx, "Haryish ELangumaran"))

		btn, err := browser.Until(ctx, s, policy, browser.ElementToBeClickable(browser.ID("alertbtn")))
		require.NoError(t, err)
		require.NoError(t, btn.Click(ctx))

		alert, err := browser.Until(ctx, s, policy, browser.AlertIsPresent())
		require.NoError(t, err)
		assert.Contains(t, alert.Text(), "Haryish ELangumaran")
		require.NoError(t, alert.Accept(ctx))

		_, err = s.SwitchToAlert(ctx)
		assert.ErrorIs(t, err, browser.ErrNoAlert)
	})

	t.Run("AutoSuggestions", func(t *testing.T) {
		input, err := browser.Until(ctx, s, policy, browser.VisibilityOfElementLocated(browser.ID("autocomplete")))
		require.NoError(t, err)
		require.NoError(t, input.SendKeys(ctx, "Ind"))

		items, err := browser.Until(ctx, s, policy, browser.PresenceOfAllElementsLocated(browser.CSS("li.ui-menu-item div")))
		require.NoError(t, err)
		require.NotEmpty(t, items)

		var clicked bool
		for _, item := range items {
			text, err := item.Text(ctx)
			require.NoError(t, err)
			if text == "India" {
				require.NoError(t, item.Click(ctx))
				clicked = true
				break
			}
		}
		require.True(t, clicked)

		fresh, err := s.FindElement(ctx, browser.ID("autocomplete"))
		require.NoError(t, err)
		value, err := fresh.Attribute(ctx, "value")
		require.NoError(t, err)
		assert.Equal(t, "India", value)
	})

	t.Run("Screenshot", func(t *testing.T) {
		png, err := s.Screenshot(ctx)
		require.NoError(t, err)
		require.Greater(t, len(png), 8)
		assert.Equal(t, []byte("\x89PNG"), png[:4])
	})
}
