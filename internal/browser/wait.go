// internal/browser/wait.go
package browser

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/xkilldash9x/pagepilot/internal/config"
)

const (
	defaultWaitTimeout  = 10 * time.Second
	defaultPollInterval = 500 * time.Millisecond
)

// WaitPolicy bounds a readiness wait: how long to keep trying and how often to look.
type WaitPolicy struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

// DefaultWaitPolicy polls every 500ms for up to 10s.
func DefaultWaitPolicy() WaitPolicy {
	return WaitPolicy{Timeout: defaultWaitTimeout, PollInterval: defaultPollInterval}
}

// PolicyFromConfig builds the policy from browser settings, filling gaps with defaults.
func PolicyFromConfig(cfg config.BrowserConfig) WaitPolicy {
	return WaitPolicy{Timeout: cfg.Timeout, PollInterval: cfg.PollInterval}.normalized()
}

func (p WaitPolicy) normalized() WaitPolicy {
	if p.Timeout <= 0 {
		p.Timeout = defaultWaitTimeout
	}
	if p.PollInterval <= 0 {
		p.PollInterval = defaultPollInterval
	}
	if p.PollInterval > p.Timeout {
		p.PollInterval = p.Timeout
	}
	return p
}

// Condition is a readiness predicate evaluated against the driver on every poll.
// Check reports the value and whether the condition holds. Any error is read as
// "not yet" and kept as the last error for the eventual timeout.
type Condition[T any] struct {
	Name    string
	Locator Locator
	Check   func(ctx context.Context, d Driver) (T, bool, error)
}

// Until polls cond at a fixed interval until it holds or the policy's timeout elapses.
// The first check runs immediately and the last one when the timeout elapses, so it may
// return up to one poll interval after the timeout. A timeout returns *TimeoutError;
// cancellation of ctx returns ctx.Err().
func Until[T any](ctx context.Context, d Driver, policy WaitPolicy, cond Condition[T]) (T, error) {
	var zero T
	policy = policy.normalized()

	waitCtx, cancel := context.WithTimeout(ctx, policy.Timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(policy.PollInterval), 1)
	var last error

	for {
		if err := limiter.Wait(waitCtx); err != nil {
			// Wait refuses a tick that would land past the deadline, so hold until the
			// deadline and check once more.
			<-waitCtx.Done()
			if ctx.Err() == nil {
				checkCtx, cancelCheck := context.WithTimeout(ctx, policy.PollInterval)
				v, ok, err := cond.Check(checkCtx, d)
				cancelCheck()
				if err == nil && ok {
					return v, nil
				}
				if err != nil {
					last = err
				}
			}
			break
		}

		v, ok, err := cond.Check(waitCtx, d)
		if err == nil && ok {
			return v, nil
		}
		if waitCtx.Err() != nil {
			break
		}
		if err != nil {
			last = err
		}
	}

	if ctx.Err() != nil {
		return zero, ctx.Err()
	}
	return zero, &TimeoutError{
		Condition: cond.Name,
		Locator:   cond.Locator,
		Timeout:   policy.Timeout,
		Last:      last,
	}
}

// PresenceOfElementLocated holds once at least one element matches loc.
func PresenceOfElementLocated(loc Locator) Condition[Element] {
	return Condition[Element]{
		Name:    "presence of element",
		Locator: loc,
		Check: func(ctx context.Context, d Driver) (Element, bool, error) {
			el, err := d.FindElement(ctx, loc)
			if err != nil {
				return nil, false, err
			}
			return el, true, nil
		},
	}
}

// VisibilityOfElementLocated holds once the first match is present and displayed.
func VisibilityOfElementLocated(loc Locator) Condition[Element] {
	return Condition[Element]{
		Name:    "visibility of element",
		Locator: loc,
		Check: func(ctx context.Context, d Driver) (Element, bool, error) {
			el, err := d.FindElement(ctx, loc)
			if err != nil {
				return nil, false, err
			}
			visible, err := el.IsDisplayed(ctx)
			if err != nil || !visible {
				return nil, false, err
			}
			return el, true, nil
		},
	}
}

// ElementToBeClickable holds once the first match is displayed and enabled.
func ElementToBeClickable(loc Locator) Condition[Element] {
	return Condition[Element]{
		Name:    "element to be clickable",
		Locator: loc,
		Check: func(ctx context.Context, d Driver) (Element, bool, error) {
			el, err := d.FindElement(ctx, loc)
			if err != nil {
				return nil, false, err
			}
			visible, err := el.IsDisplayed(ctx)
			if err != nil || !visible {
				return nil, false, err
			}
			enabled, err := el.IsEnabled(ctx)
			if err != nil || !enabled {
				return nil, false, err
			}
			return el, true, nil
		},
	}
}

// PresenceOfAllElementsLocated holds once at least one element matches and returns all matches.
func PresenceOfAllElementsLocated(loc Locator) Condition[[]Element] {
	return Condition[[]Element]{
		Name:    "presence of all elements",
		Locator: loc,
		Check: func(ctx context.Context, d Driver) ([]Element, bool, error) {
			els, err := d.FindElements(ctx, loc)
			if err != nil {
				return nil, false, err
			}
			if len(els) == 0 {
				return nil, false, ErrNotFound
			}
			return els, true, nil
		},
	}
}

// AlertIsPresent holds once a JavaScript dialog is open.
func AlertIsPresent() Condition[Alert] {
	return Condition[Alert]{
		Name: "alert to be present",
		Check: func(ctx context.Context, d Driver) (Alert, bool, error) {
			a, err := d.SwitchToAlert(ctx)
			if err != nil {
				return nil, false, err
			}
			return a, true, nil
		},
	}
}

// IsTimeout reports whether err came from a wait that ran out of time.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
