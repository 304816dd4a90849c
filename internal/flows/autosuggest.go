package flows

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/browser"
)

// SuggestionPage is the page surface the autosuggestion journey drives.
type SuggestionPage interface {
	EnterPartialCountry(ctx context.Context, partial string) error
	WaitForSuggestions(ctx context.Context) ([]browser.Element, error)
	SelectCountry(ctx context.Context, suggestions []browser.Element, country string) (bool, error)
	SelectedCountry(ctx context.Context) (string, error)
}

// AutoSuggestionFlow picks a country from the autocomplete widget.
type AutoSuggestionFlow struct {
	page SuggestionPage
	opts options
}

func NewAutoSuggestionFlow(page SuggestionPage, opts ...Option) *AutoSuggestionFlow {
	return &AutoSuggestionFlow{page: page, opts: newOptions(opts)}
}

// SelectCountryFromAutoSuggestions types partial, waits for the suggestion list,
// clicks the entry equal to full and returns the input's value read back afterwards.
// When no entry matches, the returned value is whatever the input still holds.
func (f *AutoSuggestionFlow) SelectCountryFromAutoSuggestions(ctx context.Context, partial, full string) (string, error) {
	j := f.opts.start("autosuggestion")

	if err := f.page.EnterPartialCountry(ctx, partial); err != nil {
		return "", err
	}
	if err := j.advance(StageTriggeredInteraction); err != nil {
		return "", err
	}

	if err := j.advance(StageAwaitingTransientArtifact); err != nil {
		return "", err
	}
	suggestions, err := f.page.WaitForSuggestions(ctx)
	if err != nil {
		return "", err
	}
	if err := j.advance(StageArtifactCaptured); err != nil {
		return "", err
	}

	selected, err := f.page.SelectCountry(ctx, suggestions, full)
	if err != nil {
		return "", err
	}
	value, err := f.page.SelectedCountry(ctx)
	if err != nil {
		return "", err
	}
	if err := j.advance(StageResolved); err != nil {
		return "", err
	}

	f.opts.logger.Info("Autosuggestion journey complete.",
		zap.String("partial", partial),
		zap.String("wanted", full),
		zap.Bool("matched", selected),
		zap.String("value", value),
	)
	return value, nil
}
