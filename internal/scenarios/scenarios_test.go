package scenarios

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/pagepilot/internal/browser"
	"github.com/xkilldash9x/pagepilot/internal/config"
	"github.com/xkilldash9x/pagepilot/internal/dataset"
	"github.com/xkilldash9x/pagepilot/internal/harness"
	"github.com/xkilldash9x/pagepilot/internal/reporting"
	"github.com/xkilldash9x/pagepilot/internal/testing/practicepage"
)

type pageFactory struct {
	opts []practicepage.Option
}

func (f pageFactory) NewSession(context.Context) (browser.SessionContext, error) {
	return practicepage.New(f.opts...), nil
}

func run(t *testing.T, scenarios []harness.Scenario, opts ...practicepage.Option) *reporting.RunReport {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.BrowserCfg.Timeout = 200 * time.Millisecond
	cfg.BrowserCfg.PollInterval = 10 * time.Millisecond

	runner := harness.NewRunner(pageFactory{opts: opts}, cfg, nil, zaptest.NewLogger(t))
	report, err := runner.Run(context.Background(), scenarios)
	require.NoError(t, err)
	return report
}

func TestAll_PassAgainstPracticePage(t *testing.T) {
	report := run(t, All())
	require.Len(t, report.Cases, 5)
	for _, c := range report.Cases {
		assert.Equal(t, reporting.StatusPassed, c.Status, "%s: %s", c.Name, c.Error)
	}
}

func TestAll_Names(t *testing.T) {
	var names []string
	for _, s := range All() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"test_initial",
		"test_interacting_basic_web_elements_p1",
		"test_check_alert_message_content",
		"test_autosuggestion_dropdown",
		"test_confirm_dismissal",
	}, names)
}

func TestAutosuggestionDropdown_FailsWithoutMatch(t *testing.T) {
	report := run(t, []harness.Scenario{AutosuggestionDropdown()}, practicepage.WithCountries("Indonesia", "British Indian Ocean Territory"))
	require.Len(t, report.Cases, 1)
	assert.Equal(t, reporting.StatusFailed, report.Cases[0].Status)
	assert.Contains(t, report.Cases[0].Error, "Selected country should be populated")
}

func TestAutosuggestions_FromDataset(t *testing.T) {
	scenarios, err := Registry(filepath.Join("testdata", "autosuggestions.csv"))
	require.NoError(t, err)
	require.Len(t, scenarios, 7)
	assert.Equal(t, "autosuggestion_dropdown[Ind-India]", scenarios[5].Name)
	assert.Equal(t, "autosuggestion_dropdown[Bra-Brazil]", scenarios[6].Name)
	assert.True(t, scenarios[6].HasTag("data"))

	report := run(t, harness.Select(scenarios, "data"))
	require.Len(t, report.Cases, 2)
	for _, c := range report.Cases {
		assert.Equal(t, reporting.StatusPassed, c.Status, "%s: %s", c.Name, c.Error)
	}
}

func TestAutosuggestions_MissingColumn(t *testing.T) {
	_, err := Autosuggestions([]dataset.Record{{PartialField: "Ind"}})
	assert.ErrorIs(t, err, dataset.ErrMissingField)
}

func TestRegistry(t *testing.T) {
	scenarios, err := Registry("")
	require.NoError(t, err)
	assert.Len(t, scenarios, 5)

	_, err = Registry("cases.toml")
	assert.ErrorIs(t, err, dataset.ErrUnsupportedFormat)
}
