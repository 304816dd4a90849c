package practicepage

import (
	"context"
	"fmt"
)

// buttonLabels is the rendered text of the page's buttons.
var buttonLabels = map[string]string{
	HideButton:    "Hide",
	ShowButton:    "Show",
	AlertButton:   "Alert",
	ConfirmButton: "Confirm",
}

type element struct {
	p     *Page
	key   string
	index int
	text  string
	gen   int
}

// check validates the handle against the current document. Callers hold p.mu.
func (e *element) check(ctx context.Context) error {
	if err := e.p.usable(ctx); err != nil {
		return err
	}
	if e.gen != e.p.generation {
		return fmt.Errorf("%w: %s", ErrStale, e.key)
	}
	if e.key == SuggestionItems && !e.p.suggestionPresent(e.index, e.text) {
		return fmt.Errorf("%w: suggestion '%s'", ErrStale, e.text)
	}
	return nil
}

func (e *element) displayed() bool {
	if e.key == Textbox {
		return e.p.textboxShown
	}
	return true
}

func (e *element) Click(ctx context.Context) error {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()
	if err := e.check(ctx); err != nil {
		return err
	}
	if !e.displayed() {
		return fmt.Errorf("%w: %s", ErrNotInteractable, e.key)
	}

	p := e.p
	switch e.key {
	case HideButton:
		p.textboxShown = false
	case ShowButton:
		p.textboxShown = true
	case AlertButton:
		p.dialog = &dialog{
			kind:    "alert",
			message: fmt.Sprintf("Hello %s, share this practice page and share your knowledge", p.values[NameInput]),
		}
		p.values[NameInput] = ""
	case ConfirmButton:
		p.dialog = &dialog{
			kind:    "confirm",
			message: fmt.Sprintf("Hello %s, Are you sure you want to confirm?", p.values[NameInput]),
		}
		p.values[NameInput] = ""
	case SuggestionItems:
		p.values[Autocomplete] = e.text
		p.suggestions = nil
	}
	return nil
}

func (e *element) Clear(ctx context.Context) error {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()
	if err := e.check(ctx); err != nil {
		return err
	}
	if _, ok := e.p.values[e.key]; !ok {
		return nil
	}
	if !e.displayed() {
		return fmt.Errorf("%w: %s", ErrNotInteractable, e.key)
	}
	e.p.values[e.key] = ""
	if e.key == Autocomplete {
		e.p.suggest()
	}
	return nil
}

func (e *element) SendKeys(ctx context.Context, text string) error {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()
	if err := e.check(ctx); err != nil {
		return err
	}
	if !e.displayed() {
		return fmt.Errorf("%w: %s", ErrNotInteractable, e.key)
	}
	if _, ok := e.p.values[e.key]; !ok {
		return nil
	}
	e.p.values[e.key] += text
	if e.key == Autocomplete {
		e.p.suggest()
	}
	return nil
}

func (e *element) Text(ctx context.Context) (string, error) {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()
	if err := e.check(ctx); err != nil {
		return "", err
	}
	if e.key == SuggestionItems {
		return e.text, nil
	}
	return buttonLabels[e.key], nil
}

func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()
	if err := e.check(ctx); err != nil {
		return "", err
	}
	switch name {
	case "value":
		return e.p.values[e.key], nil
	case "id":
		if e.key == SuggestionItems {
			return "", nil
		}
		return e.key, nil
	}
	return "", nil
}

func (e *element) IsDisplayed(ctx context.Context) (bool, error) {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()
	if err := e.check(ctx); err != nil {
		return false, err
	}
	return e.displayed(), nil
}

func (e *element) IsEnabled(ctx context.Context) (bool, error) {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()
	if err := e.check(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// suggestionPresent reports whether the suggestion at index still shows text. Callers hold mu.
func (p *Page) suggestionPresent(index int, text string) bool {
	return index < len(p.suggestions) && p.suggestions[index] == text
}
