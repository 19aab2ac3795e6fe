package commands

import (
	"context"
	"fmt"

	"github.com/moolen/halsuite/internal/containers"
	"github.com/moolen/halsuite/internal/logging"
	"github.com/moolen/halsuite/internal/management"
)

// AddAddress adds a resource. params are the add operation's parameters.
// The outcome is returned, not asserted.
func (s *Suite) AddAddress(ctx context.Context, endpoint string, address management.Address, params map[string]any) (*management.Response, error) {
	return s.add(ctx, "addAddress", endpoint, address, params)
}

// AddAddressIfDoesntExist adds a resource unless it already exists.
func (s *Suite) AddAddressIfDoesntExist(ctx context.Context, endpoint string, address management.Address, params map[string]any) error {
	const action = "addAddressIfDoesntExist"
	valid, err := s.validate(ctx, action, endpoint, address)
	if err != nil {
		return err
	}
	if valid {
		return nil
	}
	_, err = s.add(ctx, action, endpoint, address, params)
	return err
}

// RemoveAddressIfExists removes a resource if it exists.
func (s *Suite) RemoveAddressIfExists(ctx context.Context, endpoint string, address management.Address) error {
	const action = "removeAddressIfExists"
	valid, err := s.validate(ctx, action, endpoint, address)
	if err != nil {
		return err
	}
	if !valid {
		return nil
	}

	resp, err := s.exec.Execute(ctx, management.Request{
		ManagementAPI: management.APIURL(endpoint),
		Operation:     management.OpRemove,
		Address:       address,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	s.warnOnFailure(action, address, resp)
	return nil
}

func (s *Suite) add(ctx context.Context, action, endpoint string, address management.Address, params map[string]any) (*management.Response, error) {
	resp, err := s.exec.Execute(ctx, management.Request{
		ManagementAPI: management.APIURL(endpoint),
		Operation:     management.OpAdd,
		Address:       address,
		Params:        params,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	s.warnOnFailure(action, address, resp)
	return resp, nil
}

func (s *Suite) warnOnFailure(action string, address management.Address, resp *management.Response) {
	if resp.Succeeded() {
		return
	}
	s.logger.WarnWithFields("operation did not succeed",
		logging.Field("action", action),
		logging.Field("address", address.String()),
		logging.Field("outcome", resp.Outcome),
		logging.Field("failure", resp.Failure()),
	)
}

// StartWildflyContainer starts the server container of a scenario.
func (s *Suite) StartWildflyContainer(ctx context.Context, scenario string) (containers.Instance, error) {
	if s.provisioner == nil {
		return containers.Instance{}, fmt.Errorf("startWildflyContainer: no container provisioner configured")
	}
	return s.provisioner.Start(ctx, containers.ContainerName(scenario))
}

// ExecuteInWildflyContainer runs command in the server container of a
// scenario.
func (s *Suite) ExecuteInWildflyContainer(ctx context.Context, scenario, command string) (containers.ExecResult, error) {
	if s.provisioner == nil {
		return containers.ExecResult{}, fmt.Errorf("executeInWildflyContainer: no container provisioner configured")
	}
	return s.provisioner.Exec(ctx, containers.ContainerName(scenario), command)
}
