package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/moolen/halsuite/internal/console"
	"github.com/moolen/halsuite/internal/management"
	"github.com/stretchr/testify/assert"
)

// VerifySuccess waits for the success toast.
func (s *Suite) VerifySuccess(ctx context.Context) error {
	return uiError("verifySuccess", console.SuccessToast, s.driver.WaitVisible(ctx, console.SuccessToast))
}

// VerifyRemovedFromTable waits until no cell of the table contains
// resourceName.
func (s *Suite) VerifyRemovedFromTable(ctx context.Context, tableID, resourceName string) error {
	cell := console.TableCell(tableID, resourceName)
	return uiError("verifyRemovedFromTable", cell, s.driver.WaitAbsent(ctx, cell))
}

// ReadAttribute returns the live value of an attribute, decoded with
// management.DecodeValue.
func (s *Suite) ReadAttribute(ctx context.Context, endpoint string, address management.Address, name string) (any, error) {
	return s.readAttribute(ctx, "readAttribute", management.APIURL(endpoint), address, name)
}

// VerifyAttribute checks that an attribute equals expected.
func (s *Suite) VerifyAttribute(ctx context.Context, endpoint string, address management.Address, name string, expected any) error {
	return s.verifyValue(ctx, "verifyAttribute", management.APIURL(endpoint), address, name, expected)
}

// VerifyListAttributeContains checks that a list attribute holds an
// element deeply equal to expected.
func (s *Suite) VerifyListAttributeContains(ctx context.Context, endpoint string, address management.Address, name string, expected any) error {
	const action = "verifyListAttributeContains"
	found, err := s.listContains(ctx, action, endpoint, address, name, expected)
	if err != nil {
		return err
	}
	if !found {
		return mismatch(action, "%s of %s does not contain %v", name, address, expected)
	}
	return nil
}

// VerifyListAttributeDoesNotContain checks that no element of a list
// attribute is deeply equal to expected.
func (s *Suite) VerifyListAttributeDoesNotContain(ctx context.Context, endpoint string, address management.Address, name string, expected any) error {
	const action = "verifyListAttributeDoesNotContain"
	found, err := s.listContains(ctx, action, endpoint, address, name, expected)
	if err != nil {
		return err
	}
	if found {
		return mismatch(action, "%s of %s contains %v", name, address, expected)
	}
	return nil
}

// ValidateAddress checks whether a resource exists.
func (s *Suite) ValidateAddress(ctx context.Context, endpoint string, address management.Address, expected bool) error {
	const action = "validateAddress"
	valid, err := s.validate(ctx, action, endpoint, address)
	if err != nil {
		return err
	}
	if valid != expected {
		return mismatch(action, "%s valid=%t, want %t", address, valid, expected)
	}
	return nil
}

// execute runs req and requires a success outcome.
func (s *Suite) execute(ctx context.Context, action string, req management.Request) (*management.Response, error) {
	resp, err := s.exec.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	if !resp.Succeeded() {
		return nil, &AssertionError{
			Action: action,
			Kind:   ErrOutcome,
			Msg:    fmt.Sprintf("%s %s returned %q: %s", req.Operation, req.Address, resp.Outcome, resp.Failure()),
		}
	}
	return resp, nil
}

func (s *Suite) readAttribute(ctx context.Context, action, managementAPI string, address management.Address, name string) (any, error) {
	resp, err := s.execute(ctx, action, management.Request{
		ManagementAPI: managementAPI,
		Operation:     management.OpReadAttribute,
		Address:       address,
		Name:          name,
	})
	if err != nil {
		return nil, err
	}
	v, err := resp.Value()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	return v, nil
}

func (s *Suite) verifyValue(ctx context.Context, action, managementAPI string, address management.Address, name string, expected any) error {
	got, err := s.readAttribute(ctx, action, managementAPI, address, name)
	if err != nil {
		return err
	}
	want, err := normalize(expected)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if !assert.ObjectsAreEqual(want, got) {
		return mismatch(action, "%s of %s is %#v, want %#v", name, address, got, want)
	}
	return nil
}

func (s *Suite) listContains(ctx context.Context, action, endpoint string, address management.Address, name string, expected any) (bool, error) {
	got, err := s.readAttribute(ctx, action, management.APIURL(endpoint), address, name)
	if err != nil {
		return false, err
	}
	list, ok := got.([]any)
	if !ok {
		if got != nil {
			return false, mismatch(action, "%s of %s is %T, not a list", name, address, got)
		}
		// An undefined list attribute contains nothing.
		list = nil
	}
	want, err := normalize(expected)
	if err != nil {
		return false, fmt.Errorf("%s: %w", action, err)
	}
	for _, elem := range list {
		if assert.ObjectsAreEqual(want, elem) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Suite) validate(ctx context.Context, action, endpoint string, address management.Address) (bool, error) {
	resp, err := s.execute(ctx, action, management.Request{
		ManagementAPI: management.APIURL(endpoint),
		Operation:     management.OpValidateAddress,
		Value:         address,
	})
	if err != nil {
		return false, err
	}
	v, err := resp.Validity()
	if err != nil {
		return false, fmt.Errorf("%s: %w", action, err)
	}
	return v.Valid, nil
}

// normalize gives expected the shape a decoded result has, so that int 5
// equals a result of 5 and structs compare with objects.
func normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode expected value: %w", err)
	}
	out, err := management.DecodeValue(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode expected value: %w", err)
	}
	return out, nil
}
