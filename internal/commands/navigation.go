package commands

import (
	"context"

	"github.com/moolen/halsuite/internal/console"
	"github.com/moolen/halsuite/internal/logging"
	"github.com/moolen/halsuite/internal/management"
)

// NavigateTo opens the console place identified by token, connected to the
// management endpoint, and waits for the console shell.
func (s *Suite) NavigateTo(ctx context.Context, endpoint, token string) error {
	return s.open(ctx, "navigateTo", console.ConnectURL(s.config.ConsoleURL, endpoint, token))
}

// NavigateToGenericSubsystemPage opens the generic subsystem page of a
// resource address.
func (s *Suite) NavigateToGenericSubsystemPage(ctx context.Context, endpoint string, address management.Address) error {
	return s.open(ctx, "navigateToGenericSubsystemPage",
		console.GenericSubsystemURL(s.config.ConsoleURL, endpoint, address))
}

func (s *Suite) open(ctx context.Context, action, url string) error {
	s.logger.DebugWithFields("navigating", logging.Field("action", action), logging.Field("url", url))

	if err := s.driver.Navigate(ctx, url); err != nil {
		return uiError(action, console.Selector(url), err)
	}
	return uiError(action, console.RootContainer, s.driver.WaitVisible(ctx, console.RootContainer))
}
