package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/moolen/halsuite/internal/console"
	"github.com/moolen/halsuite/internal/logging"
	"github.com/moolen/halsuite/internal/management"
	"golang.org/x/sync/errgroup"
)

// EditForm switches a form from read mode to edit mode.
func (s *Suite) EditForm(ctx context.Context, formID string) error {
	const action = "editForm"
	editing := console.FormSelector(formID, "", console.PartEditingRegion)
	edit := console.FormSelector(formID, "", console.PartEditButton)

	if err := s.driver.WaitHidden(ctx, editing); err != nil {
		return uiError(action, editing, err)
	}
	if err := s.driver.Click(ctx, edit, console.ClickOptions{}); err != nil {
		return uiError(action, edit, err)
	}
	return uiError(action, editing, s.driver.WaitVisible(ctx, editing))
}

// FormInput returns the editing input of an attribute.
func (s *Suite) FormInput(formID, attr string) console.Selector {
	return console.FormSelector(formID, attr, console.PartInput)
}

// Text replaces the content of an attribute's input with value. Calling it
// repeatedly with the same value leaves the input at value.
func (s *Suite) Text(ctx context.Context, formID, attr, value string) error {
	const action = "text"
	input := s.FormInput(formID, attr)

	if err := s.driver.Click(ctx, input, console.ClickOptions{Force: true}); err != nil {
		return uiError(action, input, err)
	}
	current, err := s.driver.Value(ctx, input)
	if err != nil {
		return uiError(action, input, err)
	}
	if current != "" {
		if err := s.ClearAttribute(ctx, formID, attr); err != nil {
			return err
		}
	}

	if err := s.driver.Click(ctx, input, console.ClickOptions{Force: true}); err != nil {
		return uiError(action, input, err)
	}
	if err := s.driver.Type(ctx, input, value); err != nil {
		return uiError(action, input, err)
	}

	if err := s.driver.WaitValue(ctx, input, value); err != nil {
		return uiError(action, input, err)
	}
	return uiError(action, input, s.driver.Trigger(ctx, input, "change"))
}

// ClearAttribute empties an attribute's input.
func (s *Suite) ClearAttribute(ctx context.Context, formID, attr string) error {
	const action = "clearAttribute"
	input := s.FormInput(formID, attr)

	if err := s.driver.Clear(ctx, input); err != nil {
		return uiError(action, input, err)
	}
	return uiError(action, input, s.driver.Trigger(ctx, input, "change"))
}

// Flip toggles a boolean switch. The checkbox must reach checked iff value
// is true before the click, and the opposite state after it.
func (s *Suite) Flip(ctx context.Context, formID, attr string, value bool) error {
	const action = "flip"
	input := s.FormInput(formID, attr)
	label := console.FormSelector(formID, attr, console.PartSwitch)

	if err := s.driver.Pause(ctx, s.config.Settle); err != nil {
		return err
	}
	if err := s.driver.WaitChecked(ctx, input, value); err != nil {
		return uiError(action, input, err)
	}

	if err := s.driver.Click(ctx, label, console.ClickOptions{}); err != nil {
		return uiError(action, label, err)
	}
	if err := s.driver.Pause(ctx, s.config.Settle); err != nil {
		return err
	}
	return uiError(action, input, s.driver.WaitChecked(ctx, input, !value))
}

// SaveForm clicks the save button of a form in edit mode.
func (s *Suite) SaveForm(ctx context.Context, formID string) error {
	const action = "saveForm"
	save := console.FormSelector(formID, "", console.PartSaveButton)

	if err := s.driver.ScrollIntoView(ctx, save); err != nil {
		return uiError(action, save, err)
	}
	return uiError(action, save, s.driver.Click(ctx, save, console.ClickOptions{}))
}

// ResetForm resets a form through the UI and checks that every attribute
// of the resource that declares a default now holds it. managementAPI is
// the full management API URL.
func (s *Suite) ResetForm(ctx context.Context, formID, managementAPI string, address management.Address) error {
	const action = "resetForm"
	reset := console.FormSelector(formID, "", console.PartResetButton)

	if err := s.driver.Click(ctx, reset, console.ClickOptions{}); err != nil {
		return uiError(action, reset, err)
	}
	if err := s.driver.Click(ctx, console.ModalConfirm, console.ClickOptions{Force: true}); err != nil {
		return uiError(action, console.ModalConfirm, err)
	}
	if err := s.VerifySuccess(ctx); err != nil {
		return err
	}

	resp, err := s.execute(ctx, action, management.Request{
		ManagementAPI: managementAPI,
		Operation:     management.OpReadResourceDescription,
		Address:       address,
	})
	if err != nil {
		return err
	}
	desc, err := resp.Description()
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	defaults, err := desc.WithDefaults()
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	s.logger.DebugWithFields("verifying defaults",
		logging.Field("form", formID),
		logging.Field("address", address.String()),
		logging.Field("attributes", len(defaults)),
	)

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(s.config.ResetConcurrency)
	for _, attr := range defaults {
		g.Go(func() error {
			err := s.verifyValue(ctx, action, managementAPI, address, attr.Name, attr.Value)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
