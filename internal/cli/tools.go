package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toolhost/toolhost/pkg/server"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools",
	RunE:  runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	svc, err := server.New(server.Config{})
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}

	for _, tool := range svc.ListTools().Tools {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", tool.Name, tool.Description)
	}
	return nil
}
