package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jasperwreed/chat-rewind/internal/rewind"
)

func NewProcessCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "process <file|folder>...",
		Short: "Compute rewind stats from exported chat files",
		Long: `Read one or more message_N.json files from the same conversation and compute
the year's statistics. Folders are expanded to the message files they contain.
A previously processed stats file is passed through unchanged.`,
		Example: `  # Print stats for one conversation folder
  rewind process ~/Downloads/inbox/ana_1234

  # Write the stats file next to the export
  rewind process message_1.json message_2.json --out .

  # Stats for a specific year in a given time zone
  rewind process ./ana_1234 --year 2024 --timezone Europe/Berlin`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args, out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write stats JSON to this file or directory (default: stdout)")

	return cmd
}

func runProcess(cmd *cobra.Command, args []string, out string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer settings.finish()

	result, err := processInputs(settings, args)
	if err != nil {
		return err
	}

	return writeResult(cmd, result, out)
}

func writeResult(cmd *cobra.Command, result *rewind.Result, out string) error {
	data, err := result.JSON()
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	if out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	path, err := NewValidator().ResolveOutputPath(out, result.Year())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Stats written to %s\n", path)
	return nil
}
