package practicepage

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pagepilot/internal/browser"
)

func TestPage_ShowHide(t *testing.T) {
	ctx := context.Background()
	p := New()

	box, err := p.FindElement(ctx, browser.ID(Textbox))
	require.NoError(t, err)
	shown, err := box.IsDisplayed(ctx)
	require.NoError(t, err)
	assert.True(t, shown)

	hide, err := p.FindElement(ctx, browser.CSS("#"+HideButton))
	require.NoError(t, err)
	require.NoError(t, hide.Click(ctx))

	shown, err = box.IsDisplayed(ctx)
	require.NoError(t, err)
	assert.False(t, shown)
	assert.ErrorIs(t, box.SendKeys(ctx, "x"), ErrNotInteractable)
}

func TestPage_AlertBlocksPage(t *testing.T) {
	ctx := context.Background()
	p := New()

	name, err := p.FindElement(ctx, browser.Name("enter-name"))
	require.NoError(t, err)
	require.NoError(t, name.SendKeys(ctx, "Ada"))

	btn, err := p.FindElement(ctx, browser.ID(AlertButton))
	require.NoError(t, err)
	require.NoError(t, btn.Click(ctx))

	_, err = p.Title(ctx)
	assert.ErrorIs(t, err, ErrUnexpectedAlert)

	a, err := p.SwitchToAlert(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada, share this practice page and share your knowledge", a.Text())
	require.NoError(t, a.Accept(ctx))
	assert.ErrorIs(t, a.Accept(ctx), browser.ErrNoAlert)

	_, err = p.SwitchToAlert(ctx)
	assert.ErrorIs(t, err, browser.ErrNoAlert)
	assert.Empty(t, p.Value(NameInput))
}

func TestPage_ConfirmRecordsResult(t *testing.T) {
	ctx := context.Background()
	p := New()

	btn, err := p.FindElement(ctx, browser.ID(ConfirmButton))
	require.NoError(t, err)
	require.NoError(t, btn.Click(ctx))

	a, err := p.SwitchToAlert(ctx)
	require.NoError(t, err)
	require.NoError(t, a.Dismiss(ctx))

	accepted, ok := p.LastConfirmResult()
	assert.True(t, ok)
	assert.False(t, accepted)
}

func TestPage_SuggestionsAppearAfterDelay(t *testing.T) {
	ctx := context.Background()
	p := New(WithSuggestionDelay(2))

	input, err := p.FindElement(ctx, browser.ID(Autocomplete))
	require.NoError(t, err)
	require.NoError(t, input.SendKeys(ctx, "Ind"))

	for i := 0; i < 2; i++ {
		items, err := p.FindElements(ctx, browser.CSS(SuggestionItems))
		require.NoError(t, err)
		assert.Empty(t, items)
	}

	items, err := p.FindElements(ctx, browser.CSS(SuggestionItems))
	require.NoError(t, err)
	var texts []string
	for _, it := range items {
		txt, err := it.Text(ctx)
		require.NoError(t, err)
		texts = append(texts, txt)
	}
	assert.Equal(t, []string{"British Indian Ocean Territory", "India", "Indonesia"}, texts)

	require.NoError(t, items[1].Click(ctx))
	assert.Equal(t, "India", p.Value(Autocomplete))

	_, err = items[0].Text(ctx)
	assert.ErrorIs(t, err, ErrStale, "the list closes after a selection")
}

func TestPage_RefreshInvalidatesHandles(t *testing.T) {
	ctx := context.Background()
	p := New()

	box, err := p.FindElement(ctx, browser.ID(Textbox))
	require.NoError(t, err)
	require.NoError(t, box.SendKeys(ctx, "typed"))
	require.NoError(t, p.Refresh(ctx))

	assert.Equal(t, 1, p.Refreshes())
	assert.Empty(t, p.Value(Textbox))
	_, err = box.IsDisplayed(ctx)
	assert.ErrorIs(t, err, ErrStale)
}

func TestPage_UnknownLocators(t *testing.T) {
	ctx := context.Background()
	p := New()

	_, err := p.FindElement(ctx, browser.ID("nope"))
	assert.ErrorIs(t, err, browser.ErrNotFound)

	els, err := p.FindElements(ctx, browser.XPath("//input"))
	require.NoError(t, err)
	assert.Empty(t, els)
}

func TestPage_Closed(t *testing.T) {
	ctx := context.Background()
	p := New()
	require.NoError(t, p.Close(ctx))
	assert.True(t, p.Closed())
	assert.ErrorIs(t, p.Navigate(ctx, "http://example.test"), ErrClosed)
	_, err := p.Screenshot(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestHandler(t *testing.T) {
	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<title>Practice Page</title>")
	assert.Contains(t, string(body), `id="displayed-text"`)
}
