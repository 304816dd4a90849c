// Package scenarios registers the practice-page checks.
package scenarios

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pagepilot/internal/dataset"
	"github.com/xkilldash9x/pagepilot/internal/flows"
	"github.com/xkilldash9x/pagepilot/internal/harness"
	"github.com/xkilldash9x/pagepilot/internal/pages"
)

// Dataset columns read by the data-driven autosuggestion scenarios.
const (
	PartialField = "partial"
	CountryField = "country"
)

func practicePage(t *harness.T) *pages.PracticePage {
	return pages.NewPracticePage(pages.NewBasePage(t.Session(), t.Policy(), t.Logger()))
}

func flowOpts(t *harness.T) []flows.Option {
	return []flows.Option{flows.WithLogger(t.Logger())}
}

// Initial checks the page title.
func Initial() harness.Scenario {
	return harness.Scenario{
		Name: "test_initial",
		Tags: []string{"smoke"},
		Run: func(ctx context.Context, t *harness.T) error {
			title, err := practicePage(t).Title(ctx)
			require.NoError(t, err)
			assert.Contains(t, title, "Practice Page")
			return nil
		},
	}
}

// InteractingBasicWebElements shows the textbox, types into it and hides it again.
func InteractingBasicWebElements() harness.Scenario {
	return harness.Scenario{
		Name: "test_interacting_basic_web_elements_p1",
		Tags: []string{"elements"},
		Run: func(ctx context.Context, t *harness.T) error {
			page := practicePage(t)

			require.NoError(t, page.ClickShowButton(ctx))
			require.True(t, page.IsTextboxDisplayed(ctx), "Textbox should be visible after clicking show")

			require.NoError(t, page.TypeInTextbox(ctx, "Haryish"))
			value, err := page.TextboxValue(ctx)
			require.NoError(t, err)
			assert.Equal(t, "Haryish", value, "Typed value should appear")

			require.NoError(t, page.ClickHideButton(ctx))
			assert.False(t, page.IsTextboxDisplayed(ctx), "Textbox should be hidden after clicking hide")
			return nil
		},
	}
}

// CheckAlertMessageContent submits a name and checks the alert echoes it.
func CheckAlertMessageContent() harness.Scenario {
	return harness.Scenario{
		Name: "test_check_alert_message_content",
		Tags: []string{"alerts"},
		Run: func(ctx context.Context, t *harness.T) error {
			const name = "Haryish ELangumaran"
			msg, err := flows.NewAlertFlow(practicePage(t), flowOpts(t)...).SubmitNameAndGetAlertMessage(ctx, name)
			if err != nil {
				return err
			}
			assert.Contains(t, msg, name, "Alert message should contain the input name")
			return nil
		},
	}
}

// ConfirmDismissal submits a name through Confirm and cancels the dialog.
func ConfirmDismissal() harness.Scenario {
	return harness.Scenario{
		Name: "test_confirm_dismissal",
		Tags: []string{"alerts"},
		Run: func(ctx context.Context, t *harness.T) error {
			const name = "Haryish"
			msg, err := flows.NewConfirmFlow(practicePage(t), flowOpts(t)...).SubmitNameAndDismissConfirm(ctx, name)
			if err != nil {
				return err
			}
			assert.Contains(t, msg, name)
			assert.Contains(t, msg, "Are you sure you want to confirm?")
			return nil
		},
	}
}

func autosuggestion(name, partial, country string, tags ...string) harness.Scenario {
	return harness.Scenario{
		Name: name,
		Tags: append([]string{"autosuggest"}, tags...),
		Run: func(ctx context.Context, t *harness.T) error {
			selected, err := flows.NewAutoSuggestionFlow(practicePage(t), flowOpts(t)...).
				SelectCountryFromAutoSuggestions(ctx, partial, country)
			if err != nil {
				return err
			}
			assert.Equal(t, country, selected, "Selected country should be populated in the input field")
			return nil
		},
	}
}

// AutosuggestionDropdown types "Ind" and picks India from the suggestion list.
func AutosuggestionDropdown() harness.Scenario {
	return autosuggestion("test_autosuggestion_dropdown", "Ind", "India")
}

// Autosuggestions builds one autosuggestion scenario per record, named
// autosuggestion_dropdown[<partial>-<country>].
func Autosuggestions(records []dataset.Record) ([]harness.Scenario, error) {
	out := make([]harness.Scenario, 0, len(records))
	for i, rec := range records {
		partial, err := rec.Field(PartialField)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		country, err := rec.Field(CountryField)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		name := fmt.Sprintf("autosuggestion_dropdown[%s-%s]", partial, country)
		out = append(out, autosuggestion(name, partial, country, "data"))
	}
	return out, nil
}

// All returns the built-in scenarios in run order.
func All() []harness.Scenario {
	return []harness.Scenario{
		Initial(),
		InteractingBasicWebElements(),
		CheckAlertMessageContent(),
		AutosuggestionDropdown(),
		ConfirmDismissal(),
	}
}

// Registry returns the built-in scenarios followed by the data-driven ones read
// from dataFile, when set.
func Registry(dataFile string) ([]harness.Scenario, error) {
	all := All()
	if dataFile == "" {
		return all, nil
	}
	records, err := dataset.Load(dataFile)
	if err != nil {
		return nil, err
	}
	data, err := Autosuggestions(records)
	if err != nil {
		return nil, fmt.Errorf("invalid dataset %s: %w", dataFile, err)
	}
	return append(all, data...), nil
}
