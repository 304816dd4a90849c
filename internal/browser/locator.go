// internal/browser/locator.go
package browser

import (
	"fmt"
	"regexp"
	"strings"
)

// Strategy names how a Locator's value is interpreted.
type Strategy string

const (
	ByID    Strategy = "id"
	ByCSS   Strategy = "css"
	ByXPath Strategy = "xpath"
	ByName  Strategy = "name"
)

// Locator is an immutable (strategy, value) pair identifying elements on a page.
type Locator struct {
	Strategy Strategy
	Value    string
}

// ID locates by element id.
func ID(value string) Locator { return Locator{Strategy: ByID, Value: value} }

// CSS locates by CSS selector.
func CSS(value string) Locator { return Locator{Strategy: ByCSS, Value: value} }

// XPath locates by XPath expression.
func XPath(value string) Locator { return Locator{Strategy: ByXPath, Value: value} }

// Name locates by the name attribute.
func Name(value string) Locator { return Locator{Strategy: ByName, Value: value} }

// simpleIdent matches ids that can be written as "#value" without escaping.
var simpleIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

var attrEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// ParseLocator parses the "strategy=value" form used in data files, e.g. "id=displayed-text"
// or "css=li.ui-menu-item div". Only the first '=' separates strategy from value.
func ParseLocator(s string) (Locator, error) {
	strategy, value, found := strings.Cut(s, "=")
	if !found {
		return Locator{}, fmt.Errorf("%w: '%s' is not of the form strategy=value", ErrInvalidLocator, s)
	}
	strategy = strings.ToLower(strings.TrimSpace(strategy))
	value = strings.TrimSpace(value)
	if value == "" {
		return Locator{}, fmt.Errorf("%w: empty value in '%s'", ErrInvalidLocator, s)
	}

	switch Strategy(strategy) {
	case ByID, ByCSS, ByXPath, ByName:
		return Locator{Strategy: Strategy(strategy), Value: value}, nil
	default:
		return Locator{}, fmt.Errorf("%w: unknown strategy '%s'", ErrInvalidLocator, strategy)
	}
}

// Valid reports whether the locator has a known strategy and a value.
func (l Locator) Valid() bool {
	switch l.Strategy {
	case ByID, ByCSS, ByXPath, ByName:
		return l.Value != ""
	}
	return false
}

// IsXPath reports whether Selector returns an XPath expression rather than CSS.
func (l Locator) IsXPath() bool { return l.Strategy == ByXPath }

// Selector renders the query the driver runs: CSS for id, css and name, XPath for xpath.
func (l Locator) Selector() string {
	switch l.Strategy {
	case ByID:
		if simpleIdent.MatchString(l.Value) {
			return "#" + l.Value
		}
		return fmt.Sprintf(`[id="%s"]`, attrEscaper.Replace(l.Value))
	case ByName:
		return fmt.Sprintf(`[name="%s"]`, attrEscaper.Replace(l.Value))
	default:
		return l.Value
	}
}

// String returns the strategy=value form accepted by ParseLocator.
func (l Locator) String() string {
	return string(l.Strategy) + "=" + l.Value
}
