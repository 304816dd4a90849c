package pages

import (
	"context"

	"github.com/xkilldash9x/pagepilot/internal/browser"
)

// Locators on the automation practice page.
var (
	HideButton      = browser.ID("hide-textbox")
	ShowButton      = browser.ID("show-textbox")
	Textbox         = browser.ID("displayed-text")
	NameInput       = browser.ID("name")
	AlertButton     = browser.ID("alertbtn")
	ConfirmButton   = browser.ID("confirmbtn")
	CountryInput    = browser.ID("autocomplete")
	SuggestionItems = browser.CSS("li.ui-menu-item div")
)

// PracticePage exposes the practice page's capabilities by intent.
type PracticePage struct {
	base *BasePage
}

// NewPracticePage builds the page model on an accessor.
func NewPracticePage(base *BasePage) *PracticePage {
	return &PracticePage{base: base}
}

func (p *PracticePage) Open(ctx context.Context, url string) error {
	return p.base.Navigate(ctx, url)
}

func (p *PracticePage) Title(ctx context.Context) (string, error) {
	return p.base.PageTitle(ctx)
}

func (p *PracticePage) ClickShowButton(ctx context.Context) error {
	return p.base.Click(ctx, ShowButton)
}

func (p *PracticePage) ClickHideButton(ctx context.Context) error {
	return p.base.Click(ctx, HideButton)
}

// IsTextboxDisplayed reports false when the textbox stays hidden for the whole wait.
func (p *PracticePage) IsTextboxDisplayed(ctx context.Context) bool {
	return p.base.IsVisible(ctx, Textbox)
}

func (p *PracticePage) TypeInTextbox(ctx context.Context, text string) error {
	return p.base.Type(ctx, Textbox, text)
}

func (p *PracticePage) TextboxValue(ctx context.Context) (string, error) {
	return p.base.ReadValue(ctx, Textbox)
}

// TriggerAlertWithName fills the name field and presses Alert.
func (p *PracticePage) TriggerAlertWithName(ctx context.Context, name string) error {
	if err := p.base.Type(ctx, NameInput, name); err != nil {
		return err
	}
	return p.base.Click(ctx, AlertButton)
}

// TriggerConfirmWithName fills the name field and presses Confirm.
func (p *PracticePage) TriggerConfirmWithName(ctx context.Context, name string) error {
	if err := p.base.Type(ctx, NameInput, name); err != nil {
		return err
	}
	return p.base.Click(ctx, ConfirmButton)
}

func (p *PracticePage) WaitForAlert(ctx context.Context) error {
	_, err := p.base.WaitForAlert(ctx)
	return err
}

func (p *PracticePage) AlertText(ctx context.Context) (string, error) {
	return p.base.ReadAlertText(ctx)
}

func (p *PracticePage) AcceptAlert(ctx context.Context) error {
	return p.base.AcceptAlert(ctx)
}

func (p *PracticePage) DismissAlert(ctx context.Context) error {
	return p.base.DismissAlert(ctx)
}

func (p *PracticePage) EnterPartialCountry(ctx context.Context, partial string) error {
	return p.base.Type(ctx, CountryInput, partial)
}

func (p *PracticePage) WaitForSuggestions(ctx context.Context) ([]browser.Element, error) {
	return p.base.WaitForMultiple(ctx, SuggestionItems)
}

// SelectCountry clicks the suggestion reading exactly country; false means none did.
func (p *PracticePage) SelectCountry(ctx context.Context, suggestions []browser.Element, country string) (bool, error) {
	return p.base.SelectFromList(ctx, suggestions, country)
}

func (p *PracticePage) SelectedCountry(ctx context.Context) (string, error) {
	return p.base.ReadValue(ctx, CountryInput)
}
