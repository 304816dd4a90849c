package pages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xkilldash9x/pagepilot/internal/browser"
	"github.com/xkilldash9x/pagepilot/internal/mocks"
	"github.com/xkilldash9x/pagepilot/internal/testing/practicepage"
)

var testPolicy = browser.WaitPolicy{Timeout: 150 * time.Millisecond, PollInterval: 10 * time.Millisecond}

func newPracticePage(t *testing.T, opts ...practicepage.Option) (*PracticePage, *practicepage.Page) {
	t.Helper()
	fake := practicepage.New(opts...)
	base := NewBasePage(fake, testPolicy, zaptest.NewLogger(t))
	return NewPracticePage(base), fake
}

func TestPracticePage_ShowTypeHide(t *testing.T) {
	ctx := context.Background()
	page, _ := newPracticePage(t)

	require.NoError(t, page.ClickShowButton(ctx))
	assert.True(t, page.IsTextboxDisplayed(ctx))

	require.NoError(t, page.TypeInTextbox(ctx, "Haryish"))
	value, err := page.TextboxValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Haryish", value)

	require.NoError(t, page.ClickHideButton(ctx))
	assert.False(t, page.IsTextboxDisplayed(ctx))

	// A hidden field fails every visibility-qualified read with the timeout error.
	_, err = page.TextboxValue(ctx)
	var timeoutErr *browser.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, Textbox, timeoutErr.Locator)
}

func TestBasePage_TypeOverwrites(t *testing.T) {
	ctx := context.Background()
	page, fake := newPracticePage(t)

	require.NoError(t, page.TypeInTextbox(ctx, "first"))
	require.NoError(t, page.TypeInTextbox(ctx, "X"))
	assert.Equal(t, "X", fake.Value(practicepage.Textbox))
}

func TestBasePage_NeverVisible(t *testing.T) {
	ctx := context.Background()
	fake := practicepage.New()
	base := NewBasePage(fake, testPolicy, zaptest.NewLogger(t))
	require.NoError(t, base.Click(ctx, HideButton))

	assert.False(t, base.IsVisible(ctx, Textbox))

	ops := map[string]func() error{
		"Type":          func() error { return base.Type(ctx, Textbox, "x") },
		"ReadText":      func() error { _, err := base.ReadText(ctx, Textbox); return err },
		"ReadValue":     func() error { _, err := base.ReadValue(ctx, Textbox); return err },
		"ReadAttribute": func() error { _, err := base.ReadAttribute(ctx, Textbox, "id"); return err },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			assert.ErrorIs(t, err, browser.ErrTimeout)
		})
	}
}

func TestBasePage_AbsentElement(t *testing.T) {
	ctx := context.Background()
	base := NewBasePage(practicepage.New(), testPolicy, zaptest.NewLogger(t))
	missing := browser.ID("does-not-exist")

	assert.False(t, base.IsVisible(ctx, missing))

	err := base.Click(ctx, missing)
	assert.ErrorIs(t, err, browser.ErrTimeout)
	assert.ErrorIs(t, err, browser.ErrNotFound)

	_, err = base.WaitForMultiple(ctx, browser.CSS("ul.nothing li"))
	assert.ErrorIs(t, err, browser.ErrTimeout)
}

func TestBasePage_SelectFromList(t *testing.T) {
	ctx := context.Background()
	page, fake := newPracticePage(t)

	require.NoError(t, page.EnterPartialCountry(ctx, "Ind"))
	suggestions, err := page.WaitForSuggestions(ctx)
	require.NoError(t, err)
	require.Len(t, suggestions, 3)

	t.Run("NoExactMatchIsSilent", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		base := NewBasePage(fake, testPolicy, zap.New(core))

		selected, err := base.SelectFromList(ctx, suggestions, "Ind")
		require.NoError(t, err)
		assert.False(t, selected)
		assert.Equal(t, "Ind", fake.Value(practicepage.Autocomplete), "input is left unchanged")
		assert.Equal(t, 1, logs.FilterMessage("No list item matched.").Len())
	})

	t.Run("ExactMatchClicked", func(t *testing.T) {
		selected, err := page.SelectCountry(ctx, suggestions, "India")
		require.NoError(t, err)
		assert.True(t, selected)

		country, err := page.SelectedCountry(ctx)
		require.NoError(t, err)
		assert.Equal(t, "India", country)
	})
}

func TestBasePage_SelectFromListStopsAtFirstMatch(t *testing.T) {
	ctx := context.Background()
	first, second := new(mocks.MockElement), new(mocks.MockElement)
	first.On("Text", mock.Anything).Return("India", nil)
	first.On("Click", mock.Anything).Return(nil).Once()
	second.On("Text", mock.Anything).Return("India", nil).Maybe()

	base := NewBasePage(new(mocks.MockSessionContext), testPolicy, zaptest.NewLogger(t))
	selected, err := base.SelectFromList(ctx, []browser.Element{first, second}, "India")
	require.NoError(t, err)
	assert.True(t, selected)
	first.AssertExpectations(t)
	second.AssertNotCalled(t, "Click", mock.Anything)
}

func TestBasePage_SelectFromListReadError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("detached")
	el := new(mocks.MockElement)
	el.On("Text", mock.Anything).Return("", boom)

	base := NewBasePage(new(mocks.MockSessionContext), testPolicy, zaptest.NewLogger(t))
	selected, err := base.SelectFromList(ctx, []browser.Element{el}, "India")
	assert.False(t, selected)
	assert.ErrorIs(t, err, boom)
}

func TestPracticePage_Alerts(t *testing.T) {
	ctx := context.Background()

	t.Run("AlertReadThenAccept", func(t *testing.T) {
		page, fake := newPracticePage(t)
		require.NoError(t, page.TriggerAlertWithName(ctx, "Haryish ELangumaran"))
		require.NoError(t, page.WaitForAlert(ctx))

		text, err := page.AlertText(ctx)
		require.NoError(t, err)
		assert.Contains(t, text, "Haryish ELangumaran")
		assert.True(t, fake.DialogOpen(), "reading does not dismiss")

		require.NoError(t, page.AcceptAlert(ctx))
		assert.False(t, fake.DialogOpen())
	})

	t.Run("ConfirmDismissed", func(t *testing.T) {
		page, fake := newPracticePage(t)
		require.NoError(t, page.TriggerConfirmWithName(ctx, "Ada"))
		require.NoError(t, page.DismissAlert(ctx))

		accepted, ok := fake.LastConfirmResult()
		require.True(t, ok)
		assert.False(t, accepted)
	})

	t.Run("NoAlertTimesOut", func(t *testing.T) {
		page, _ := newPracticePage(t)
		err := page.AcceptAlert(ctx)
		assert.ErrorIs(t, err, browser.ErrTimeout)
		assert.ErrorIs(t, err, browser.ErrNoAlert)
	})
}

func TestPracticePage_OpenAndTitle(t *testing.T) {
	ctx := context.Background()
	page, fake := newPracticePage(t)

	require.NoError(t, page.Open(ctx, "https://practice.example/"))
	assert.Equal(t, "https://practice.example/", fake.URL())

	title, err := page.Title(ctx)
	require.NoError(t, err)
	assert.Contains(t, title, "Practice Page")
}

func TestBasePage_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	base := NewBasePage(practicepage.New(), testPolicy, nil)

	err := base.Click(ctx, ShowButton)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, base.IsVisible(ctx, Textbox))
}
