// Package harness runs browser scenarios against a session factory and records
// their outcomes for the reporters.
package harness

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/browser"
)

// Scenario is one registered end-to-end check.
type Scenario struct {
	Name string
	Tags []string
	// Skip, when set, is the reason the scenario is not run.
	Skip string
	// ExpectFailure, when set, marks a known failure and gives the reason.
	ExpectFailure string
	Run           func(ctx context.Context, t *T) error
}

// HasTag reports whether the scenario carries tag.
func (s Scenario) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Select keeps the scenarios matching filter, a comma-separated list of terms. A
// term matches a scenario whose name contains it or which carries it as a tag. An
// empty filter keeps everything.
func Select(scenarios []Scenario, filter string) []Scenario {
	var terms []string
	for _, term := range strings.Split(filter, ",") {
		if term = strings.TrimSpace(term); term != "" {
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return scenarios
	}

	var out []Scenario
	for _, s := range scenarios {
		for _, term := range terms {
			if strings.Contains(s.Name, term) || s.HasTag(term) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// failNowSignal unwinds a scenario stopped by FailNow.
type failNowSignal struct{}

// T is handed to a running scenario. It satisfies testify's require.TestingT and
// assert.TestingT, so scenarios assert with the usual testify packages. Like
// testing.T, FailNow must be called from the scenario's own goroutine.
type T struct {
	name    string
	env     string
	session browser.SessionContext
	policy  browser.WaitPolicy
	logger  *zap.Logger
	lookup  func(env, key string) (string, error)

	mu       sync.Mutex
	failed   bool
	messages []string
}

func (t *T) Name() string { return t.name }

// Env is the selected configuration environment.
func (t *T) Env() string { return t.env }

// Session is the live browser session, already on the base URL.
func (t *T) Session() browser.SessionContext { return t.session }

// Policy is the readiness wait policy from configuration.
func (t *T) Policy() browser.WaitPolicy { return t.policy }

func (t *T) Logger() *zap.Logger { return t.logger }

// Lookup resolves key in the selected environment, falling back to default.
func (t *T) Lookup(key string) (string, error) { return t.lookup(t.env, key) }

// Errorf records a failure and lets the scenario continue.
func (t *T) Errorf(format string, args ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	t.mu.Lock()
	t.failed = true
	t.messages = append(t.messages, msg)
	t.mu.Unlock()
	t.logger.Error("Assertion failed.", zap.String("detail", msg))
}

// FailNow marks the scenario failed and stops it.
func (t *T) FailNow() {
	t.mu.Lock()
	t.failed = true
	t.mu.Unlock()
	panic(failNowSignal{})
}

// Helper is a no-op kept for testify's helper detection.
func (t *T) Helper() {}

func (t *T) Failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failed
}

func (t *T) failure() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.messages, "\n")
}
