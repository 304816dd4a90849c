package flows

import (
	"context"

	"go.uber.org/zap"
)

// AlertPage is the page surface the dialog journeys drive.
type AlertPage interface {
	TriggerAlertWithName(ctx context.Context, name string) error
	TriggerConfirmWithName(ctx context.Context, name string) error
	WaitForAlert(ctx context.Context) error
	AlertText(ctx context.Context) (string, error)
	AcceptAlert(ctx context.Context) error
	DismissAlert(ctx context.Context) error
}

// AlertFlow submits a name through the Alert button and captures the dialog message.
type AlertFlow struct {
	page AlertPage
	opts options
}

func NewAlertFlow(page AlertPage, opts ...Option) *AlertFlow {
	return &AlertFlow{page: page, opts: newOptions(opts)}
}

// SubmitNameAndGetAlertMessage triggers the alert with name, waits for it, reads its
// message, accepts it and returns the message.
func (f *AlertFlow) SubmitNameAndGetAlertMessage(ctx context.Context, name string) (string, error) {
	j := f.opts.start("alert")
	return runDialogJourney(ctx, j, dialogSteps{
		trigger: func(ctx context.Context) error { return f.page.TriggerAlertWithName(ctx, name) },
		wait:    f.page.WaitForAlert,
		capture: f.page.AlertText,
		resolve: f.page.AcceptAlert,
	})
}

// ConfirmFlow submits a name through the Confirm button and cancels the dialog.
type ConfirmFlow struct {
	page AlertPage
	opts options
}

func NewConfirmFlow(page AlertPage, opts ...Option) *ConfirmFlow {
	return &ConfirmFlow{page: page, opts: newOptions(opts)}
}

// SubmitNameAndDismissConfirm triggers the confirm dialog with name, waits for it,
// reads its message, dismisses it and returns the message.
func (f *ConfirmFlow) SubmitNameAndDismissConfirm(ctx context.Context, name string) (string, error) {
	j := f.opts.start("confirm")
	return runDialogJourney(ctx, j, dialogSteps{
		trigger: func(ctx context.Context) error { return f.page.TriggerConfirmWithName(ctx, name) },
		wait:    f.page.WaitForAlert,
		capture: f.page.AlertText,
		resolve: f.page.DismissAlert,
	})
}

type dialogSteps struct {
	trigger func(context.Context) error
	wait    func(context.Context) error
	capture func(context.Context) (string, error)
	resolve func(context.Context) error
}

func runDialogJourney(ctx context.Context, j *journey, s dialogSteps) (string, error) {
	if err := s.trigger(ctx); err != nil {
		return "", err
	}
	if err := j.advance(StageTriggeredInteraction); err != nil {
		return "", err
	}

	if err := j.advance(StageAwaitingTransientArtifact); err != nil {
		return "", err
	}
	if err := s.wait(ctx); err != nil {
		return "", err
	}

	message, err := s.capture(ctx)
	if err != nil {
		return "", err
	}
	if err := j.advance(StageArtifactCaptured); err != nil {
		return "", err
	}

	if err := s.resolve(ctx); err != nil {
		return "", err
	}
	if err := j.advance(StageResolved); err != nil {
		return "", err
	}

	j.opts.logger.Info("Dialog journey complete.", zap.String("journey", j.name), zap.String("message", message))
	return message, nil
}
