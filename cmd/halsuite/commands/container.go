package commands

import (
	"fmt"

	"github.com/moolen/halsuite/internal/containers"
	"github.com/spf13/cobra"
)

func newContainerNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "container-name SCENARIO...",
		Short: "Print the container name derived from scenario names",
		Example: `  halsuite container-name logging-configuration.cy.ts
  docker logs "$(halsuite container-name TestMailSession)"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, scenario := range args {
				fmt.Fprintln(cmd.OutOrStdout(), containers.ContainerName(scenario))
			}
			return nil
		},
	}
}
