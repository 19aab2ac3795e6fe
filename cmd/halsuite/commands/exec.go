package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/moolen/halsuite/internal/management"
	"github.com/moolen/halsuite/internal/tracing"
	"github.com/spf13/cobra"
)

type execFlags struct {
	endpoint  string
	operation string
	address   string
	name      string
	value     string
	params    []string
}

func newExecCmd(opts *options) *cobra.Command {
	f := &execFlags{}

	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Execute one management operation and print the response",
		Long: `Execute one operation against the HTTP management API of a server and
print the response envelope as JSON. The command fails when the outcome is
not "success".`,
		Example: `  halsuite exec --endpoint http://localhost:9990 --operation read-attribute \
    --address /subsystem=logging/root-logger=ROOT --name level
  halsuite exec --endpoint http://localhost:9990 --operation validate-address \
    --address /subsystem=mail/mail-session=test
  halsuite exec --endpoint http://localhost:9990 --operation add \
    --address /subsystem=mail/mail-session=test --param jndi-name=java:/mail/test`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := f.request()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			tp, err := tracing.NewProvider(ctx, opts.cfg.Tracer())
			if err != nil {
				return err
			}
			defer func() { _ = tp.Shutdown(ctx) }()

			resp, err := management.NewClient(opts.cfg.Client()).Execute(ctx, req)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode response: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if !resp.Succeeded() {
				return fmt.Errorf("%s %s: outcome %q: %s", req.Operation, req.Address, resp.Outcome, resp.Failure())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.endpoint, "endpoint", "http://localhost:9990", "Management endpoint of the server")
	cmd.Flags().StringVarP(&f.operation, "operation", "o", "", "Operation name (add, remove, validate-address, read-attribute, read-resource-description)")
	cmd.Flags().StringVarP(&f.address, "address", "a", "/", "Resource address in CLI form, e.g. /subsystem=logging")
	cmd.Flags().StringVar(&f.name, "name", "", "Attribute name")
	cmd.Flags().StringVar(&f.value, "value", "", "Value; parsed as JSON when possible, else taken as a string")
	cmd.Flags().StringArrayVarP(&f.params, "param", "p", nil, "Extra parameter key=value; the value is parsed like --value")
	_ = cmd.MarkFlagRequired("operation")

	return cmd
}

// request builds the management request described by the flags.
// validate-address takes the address as its value.
func (f *execFlags) request() (management.Request, error) {
	op, err := management.ParseOperation(f.operation)
	if err != nil {
		return management.Request{}, err
	}
	address, err := management.ParseAddress(f.address)
	if err != nil {
		return management.Request{}, err
	}

	req := management.Request{
		ManagementAPI: management.APIURL(f.endpoint),
		Operation:     op,
		Name:          f.name,
	}
	if op == management.OpValidateAddress {
		req.Value = address
	} else {
		req.Address = address
	}
	if f.value != "" {
		req.Value = parseValue(f.value)
	}

	if len(f.params) > 0 {
		req.Params = make(map[string]any, len(f.params))
		for _, p := range f.params {
			key, value, ok := strings.Cut(p, "=")
			if !ok || key == "" {
				return management.Request{}, fmt.Errorf("invalid --param %q, expected key=value", p)
			}
			req.Params[key] = parseValue(value)
		}
	}
	return req, nil
}

// parseValue decodes s as JSON, falling back to the plain string so that
// --value INFO works without quoting.
func parseValue(s string) any {
	v, err := management.DecodeValue([]byte(s))
	if err != nil {
		return s
	}
	return v
}
