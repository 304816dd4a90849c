// Package practicepage is an in-memory stand-in for the automation practice page. It
// implements browser.SessionContext so page objects, flows and scenarios can be tested
// deterministically without a browser.
package practicepage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/xkilldash9x/pagepilot/internal/browser"
)

// Title is the document title of the practice page.
const Title = "Practice Page"

// Element ids on the practice page.
const (
	HideButton    = "hide-textbox"
	ShowButton    = "show-textbox"
	Textbox       = "displayed-text"
	NameInput     = "name"
	AlertButton   = "alertbtn"
	ConfirmButton = "confirmbtn"
	Autocomplete  = "autocomplete"

	// SuggestionItems is the CSS selector of the rendered autosuggestion entries.
	SuggestionItems = "li.ui-menu-item div"
)

var (
	// ErrStale is returned for handles resolved before the last navigation or refresh.
	ErrStale = errors.New("stale element reference")
	// ErrNotInteractable is returned for input into a hidden element.
	ErrNotInteractable = errors.New("element not interactable")
	// ErrUnexpectedAlert is returned for element interaction while a dialog is open.
	ErrUnexpectedAlert = errors.New("unexpected alert open")
	// ErrClosed is returned once the session is closed.
	ErrClosed = errors.New("session closed")
)

// DefaultCountries feeds the autosuggestion widget.
var DefaultCountries = []string{
	"Australia", "Brazil", "British Indian Ocean Territory", "Canada", "France", "Germany",
	"Iceland", "India", "Indonesia", "Ireland", "Israel", "Italy", "Japan",
	"United Kingdom (UK)", "United States (USA)",
}

// minSuggestionChars matches the widget's minimum input length before it searches.
const minSuggestionChars = 2

// Page simulates the practice page's DOM and dialog state.
type Page struct {
	mu sync.Mutex

	id        string
	countries []string
	// suggestionDelay is the number of lookups that see an empty list after typing,
	// mimicking the widget's debounce.
	suggestionDelay int
	failScreenshot  error

	url          string
	generation   int
	closed       bool
	navigations  int
	refreshes    int
	textboxShown bool
	values       map[string]string
	dialog       *dialog
	suggestions  []string
	pendingPolls int
	lastConfirm  *bool
}

type dialog struct {
	kind    string
	message string
}

// Option configures a Page.
type Option func(*Page)

// WithSuggestionDelay makes the first n suggestion lookups after typing come back empty.
func WithSuggestionDelay(n int) Option {
	return func(p *Page) { p.suggestionDelay = n }
}

// WithCountries replaces the autosuggestion source list.
func WithCountries(countries ...string) Option {
	return func(p *Page) { p.countries = countries }
}

// WithScreenshotError makes Screenshot fail with err.
func WithScreenshotError(err error) Option {
	return func(p *Page) { p.failScreenshot = err }
}

// New returns a loaded practice page.
func New(opts ...Option) *Page {
	p := &Page{
		id:              uuid.New().String(),
		countries:       DefaultCountries,
		suggestionDelay: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.reset()
	return p
}

var _ browser.SessionContext = (*Page)(nil)

// reset restores the freshly loaded document. Callers hold mu.
func (p *Page) reset() {
	p.generation++
	p.textboxShown = true
	p.values = map[string]string{Textbox: "", NameInput: "", Autocomplete: ""}
	p.dialog = nil
	p.suggestions = nil
	p.pendingPolls = 0
}

// -- Inspection helpers for tests --

// Navigations returns how many times Navigate succeeded.
func (p *Page) Navigations() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.navigations
}

// Refreshes returns how many times Refresh succeeded.
func (p *Page) Refreshes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refreshes
}

// Closed reports whether Close was called.
func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// URL returns the last navigated URL.
func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

// Value returns the current value of the input with the given id.
func (p *Page) Value(id string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[id]
}

// DialogOpen reports whether a JavaScript dialog is showing.
func (p *Page) DialogOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dialog != nil
}

// LastConfirmResult reports how the most recent confirm dialog was resolved.
func (p *Page) LastConfirmResult() (accepted, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastConfirm == nil {
		return false, false
	}
	return *p.lastConfirm, true
}

// -- browser.SessionContext --

func (p *Page) ID() string { return p.id }

func (p *Page) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.usable(ctx); err != nil {
		return err
	}
	p.url = url
	p.navigations++
	p.reset()
	return nil
}

func (p *Page) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.usable(ctx); err != nil {
		return err
	}
	p.refreshes++
	p.reset()
	return nil
}

func (p *Page) Title(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.usable(ctx); err != nil {
		return "", err
	}
	return Title, nil
}

func (p *Page) FindElements(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.usable(ctx); err != nil {
		return nil, err
	}

	key, ok := resolve(loc)
	if !ok {
		return []browser.Element{}, nil
	}
	if key != SuggestionItems {
		return []browser.Element{&element{p: p, key: key, gen: p.generation}}, nil
	}

	if p.pendingPolls > 0 {
		p.pendingPolls--
		return []browser.Element{}, nil
	}
	items := make([]browser.Element, 0, len(p.suggestions))
	for i, s := range p.suggestions {
		items = append(items, &element{p: p, key: SuggestionItems, index: i, text: s, gen: p.generation})
	}
	return items, nil
}

func (p *Page) FindElement(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	els, err := p.FindElements(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", browser.ErrNotFound, loc)
	}
	return els[0], nil
}

func (p *Page) SwitchToAlert(ctx context.Context) (browser.Alert, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	if p.dialog == nil {
		return nil, browser.ErrNoAlert
	}
	return &alert{p: p, d: p.dialog}, nil
}

func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	if p.failScreenshot != nil {
		return nil, p.failScreenshot
	}
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// usable checks the preconditions shared by every page-level call. Callers hold mu.
func (p *Page) usable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.closed {
		return ErrClosed
	}
	if p.dialog != nil {
		return ErrUnexpectedAlert
	}
	return nil
}

// resolve maps a locator onto the page's element keys.
func resolve(loc browser.Locator) (string, bool) {
	var key string
	switch loc.Strategy {
	case browser.ByID:
		key = loc.Value
	case browser.ByCSS:
		if loc.Value == SuggestionItems {
			return SuggestionItems, true
		}
		if !strings.HasPrefix(loc.Value, "#") {
			return "", false
		}
		key = strings.TrimPrefix(loc.Value, "#")
	case browser.ByName:
		if loc.Value != "enter-name" {
			return "", false
		}
		key = NameInput
	default:
		return "", false
	}

	switch key {
	case HideButton, ShowButton, Textbox, NameInput, AlertButton, ConfirmButton, Autocomplete:
		return key, true
	}
	return "", false
}

// suggest recomputes the suggestion list for the autocomplete input. Callers hold mu.
func (p *Page) suggest() {
	term := strings.ToLower(p.values[Autocomplete])
	p.suggestions = nil
	if len(term) < minSuggestionChars {
		return
	}
	for _, c := range p.countries {
		if strings.Contains(strings.ToLower(c), term) {
			p.suggestions = append(p.suggestions, c)
		}
	}
	p.pendingPolls = p.suggestionDelay
}
