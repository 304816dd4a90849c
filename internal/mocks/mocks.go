// File: internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/xkilldash9x/pagepilot/internal/browser"
	"github.com/xkilldash9x/pagepilot/internal/config"
)

// -- Config Mock --

// MockConfig mocks the config.Interface.
type MockConfig struct {
	mock.Mock
}

func (m *MockConfig) Logger() config.LoggerConfig {
	args := m.Called()
	return args.Get(0).(config.LoggerConfig)
}

func (m *MockConfig) Browser() config.BrowserConfig {
	args := m.Called()
	return args.Get(0).(config.BrowserConfig)
}

func (m *MockConfig) Report() config.ReportConfig {
	args := m.Called()
	return args.Get(0).(config.ReportConfig)
}

func (m *MockConfig) Run() config.RunConfig {
	args := m.Called()
	return args.Get(0).(config.RunConfig)
}

func (m *MockConfig) Lookup(env, key string) (string, error) {
	args := m.Called(env, key)
	return args.String(0), args.Error(1)
}

// -- Driver Mocks --

// MockSessionContext implements browser.SessionContext for testing.
type MockSessionContext struct {
	mock.Mock
}

func (m *MockSessionContext) ID() string                      { return m.Called().String(0) }
func (m *MockSessionContext) Close(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockSessionContext) Navigate(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}
func (m *MockSessionContext) Refresh(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockSessionContext) Title(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *MockSessionContext) FindElement(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	args := m.Called(ctx, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(browser.Element), args.Error(1)
}
func (m *MockSessionContext) FindElements(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	args := m.Called(ctx, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]browser.Element), args.Error(1)
}
func (m *MockSessionContext) SwitchToAlert(ctx context.Context) (browser.Alert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(browser.Alert), args.Error(1)
}
func (m *MockSessionContext) Screenshot(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockElement implements browser.Element.
type MockElement struct {
	mock.Mock
}

func (m *MockElement) Click(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockElement) Clear(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockElement) SendKeys(ctx context.Context, text string) error {
	return m.Called(ctx, text).Error(0)
}
func (m *MockElement) Text(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *MockElement) Attribute(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}
func (m *MockElement) IsDisplayed(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}
func (m *MockElement) IsEnabled(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// MockAlert implements browser.Alert.
type MockAlert struct {
	mock.Mock
}

func (m *MockAlert) Text() string                      { return m.Called().String(0) }
func (m *MockAlert) Accept(ctx context.Context) error  { return m.Called(ctx).Error(0) }
func (m *MockAlert) Dismiss(ctx context.Context) error { return m.Called(ctx).Error(0) }

// MockSessionFactory mocks browser.SessionFactory.
type MockSessionFactory struct {
	mock.Mock
}

func (m *MockSessionFactory) NewSession(ctx context.Context) (browser.SessionContext, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(browser.SessionContext), args.Error(1)
}

// -- Page Mocks --

// MockAlertPage mocks the page surface the alert and confirm journeys drive.
type MockAlertPage struct {
	mock.Mock
}

func (m *MockAlertPage) TriggerAlertWithName(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockAlertPage) TriggerConfirmWithName(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockAlertPage) WaitForAlert(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockAlertPage) AlertText(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *MockAlertPage) AcceptAlert(ctx context.Context) error  { return m.Called(ctx).Error(0) }
func (m *MockAlertPage) DismissAlert(ctx context.Context) error { return m.Called(ctx).Error(0) }

// MockSuggestionPage mocks the page surface the autosuggestion journey drives.
type MockSuggestionPage struct {
	mock.Mock
}

func (m *MockSuggestionPage) EnterPartialCountry(ctx context.Context, partial string) error {
	return m.Called(ctx, partial).Error(0)
}
func (m *MockSuggestionPage) WaitForSuggestions(ctx context.Context) ([]browser.Element, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]browser.Element), args.Error(1)
}
func (m *MockSuggestionPage) SelectCountry(ctx context.Context, suggestions []browser.Element, country string) (bool, error) {
	args := m.Called(ctx, suggestions, country)
	return args.Bool(0), args.Error(1)
}
func (m *MockSuggestionPage) SelectedCountry(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
