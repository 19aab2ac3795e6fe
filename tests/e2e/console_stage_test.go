package e2e

import (
	"context"
	"testing"

	"github.com/moolen/halsuite/internal/commands"
	"github.com/moolen/halsuite/internal/management"
	"github.com/moolen/halsuite/tests/e2e/helpers"
	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
)

type ConsoleStage struct {
	t       *testing.T
	require *require.Assertions
	testCtx *helpers.TestContext
	suite   *commands.Suite
	ctxs    *helpers.ContextHelper

	endpoint string
	lastErr  error
}

func NewConsoleStage(t *testing.T) (*ConsoleStage, *ConsoleStage, *ConsoleStage) {
	s := &ConsoleStage{
		t:       t,
		require: require.New(t),
		ctxs:    helpers.NewContextHelper(t),
	}
	return s, s, s
}

func (s *ConsoleStage) and() *ConsoleStage {
	return s
}

func (s *ConsoleStage) do(fn func(ctx context.Context) error, msgAndArgs ...any) *ConsoleStage {
	s.t.Helper()
	ctx, cancel := s.ctxs.WithDefaultTimeout()
	defer cancel()
	s.require.NoError(fn(ctx), msgAndArgs...)
	return s
}

func (s *ConsoleStage) a_server_of_its_own() *ConsoleStage {
	s.testCtx = helpers.SetupE2ETest(s.t)
	s.suite = s.testCtx.Suite
	s.endpoint = s.testCtx.Endpoint
	return s
}

func (s *ConsoleStage) resource_exists(address management.Address, params map[string]any) *ConsoleStage {
	return s.do(func(ctx context.Context) error {
		return s.suite.AddAddressIfDoesntExist(ctx, s.endpoint, address, params)
	}, "failed to ensure %s exists", address)
}

func (s *ConsoleStage) resource_is_absent(address management.Address) *ConsoleStage {
	return s.do(func(ctx context.Context) error {
		return s.suite.RemoveAddressIfExists(ctx, s.endpoint, address)
	}, "failed to ensure %s is absent", address)
}

func (s *ConsoleStage) console_is_opened_at(token string) *ConsoleStage {
	return s.do(func(ctx context.Context) error {
		return s.suite.NavigateTo(ctx, s.endpoint, token)
	}, "failed to open %s", token)
}

func (s *ConsoleStage) generic_subsystem_page_is_opened(address management.Address) *ConsoleStage {
	return s.do(func(ctx context.Context) error {
		return s.suite.NavigateToGenericSubsystemPage(ctx, s.endpoint, address)
	}, "failed to open generic subsystem page of %s", address)
}

// navigation_item_is_selected clicks an entry of the vertical navigation.
func (s *ConsoleStage) navigation_item_is_selected(id string) *ConsoleStage {
	err := s.testCtx.Browser.Page.Locator("#" + id).Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(s.testCtx.Config.Console.Timeout.Milliseconds())),
	})
	s.require.NoError(err, "failed to select navigation item %s", id)
	return s
}

func (s *ConsoleStage) form_is_edited(formID string) *ConsoleStage {
	return s.do(func(ctx context.Context) error { return s.suite.EditForm(ctx, formID) })
}

func (s *ConsoleStage) text_is_entered(formID, attr, value string) *ConsoleStage {
	return s.do(func(ctx context.Context) error { return s.suite.Text(ctx, formID, attr, value) })
}

func (s *ConsoleStage) attribute_is_cleared(formID, attr string) *ConsoleStage {
	return s.do(func(ctx context.Context) error { return s.suite.ClearAttribute(ctx, formID, attr) })
}

func (s *ConsoleStage) switch_is_flipped(formID, attr string, from bool) *ConsoleStage {
	return s.do(func(ctx context.Context) error { return s.suite.Flip(ctx, formID, attr, from) })
}

func (s *ConsoleStage) form_is_saved(formID string) *ConsoleStage {
	return s.do(func(ctx context.Context) error { return s.suite.SaveForm(ctx, formID) })
}

func (s *ConsoleStage) form_is_reset(formID string, address management.Address) *ConsoleStage {
	return s.do(func(ctx context.Context) error {
		return s.suite.ResetForm(ctx, formID, management.APIURL(s.endpoint), address)
	})
}

func (s *ConsoleStage) success_is_shown() *ConsoleStage {
	return s.do(s.suite.VerifySuccess, "no success notification")
}

func (s *ConsoleStage) attribute_is(address management.Address, name string, expected any) *ConsoleStage {
	helpers.EventuallyAttribute(s.t, s.suite, s.endpoint, address, name, expected, helpers.DefaultEventuallyOption)
	return s
}

func (s *ConsoleStage) list_attribute_contains(address management.Address, name string, expected any) *ConsoleStage {
	return s.do(func(ctx context.Context) error {
		return s.suite.VerifyListAttributeContains(ctx, s.endpoint, address, name, expected)
	})
}

func (s *ConsoleStage) list_attribute_does_not_contain(address management.Address, name string, expected any) *ConsoleStage {
	return s.do(func(ctx context.Context) error {
		return s.suite.VerifyListAttributeDoesNotContain(ctx, s.endpoint, address, name, expected)
	})
}

func (s *ConsoleStage) address_exists(address management.Address, expected bool) *ConsoleStage {
	return s.do(func(ctx context.Context) error {
		return s.suite.ValidateAddress(ctx, s.endpoint, address, expected)
	})
}

func (s *ConsoleStage) attribute_is_expected_to_be(address management.Address, name string, expected any) *ConsoleStage {
	ctx, cancel := s.ctxs.WithDefaultTimeout()
	defer cancel()
	s.lastErr = s.suite.VerifyAttribute(ctx, s.endpoint, address, name, expected)
	return s
}

func (s *ConsoleStage) assertion_fails_with(kind error) *ConsoleStage {
	helpers.RequireAssertionKind(s.t, s.lastErr, kind)
	return s
}

func (s *ConsoleStage) cli_command_succeeds(command string, contains string) *ConsoleStage {
	ctx, cancel := s.ctxs.WithDefaultTimeout()
	defer cancel()
	res, err := s.suite.ExecuteInWildflyContainer(ctx, s.t.Name(), command)
	s.require.NoError(err, "failed to execute %q", command)
	s.require.Equal(0, res.ExitCode, "command %q failed: %s", command, res.Output)
	s.require.Contains(res.Output, contains)
	return s
}
