package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jasperwreed/chat-rewind/internal/capture"
)

func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file|folder>...",
		Short: "Check export files without computing stats",
		Long: `Classify every file and check that raw exports belong to the same conversation.
Nothing is aggregated, so this is a quick way to see why a batch would be rejected.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runValidate,
	}

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	paths, err := expandInputs(args)
	if err != nil {
		return err
	}

	docs, err := capture.ReadFiles(paths)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, doc := range docs {
		format, record := capture.DetectFormat(doc.Data)
		if record != nil {
			fmt.Fprintf(out, "  • %s: %s, %d messages\n", doc.Name, format, len(record.Messages))
		} else {
			fmt.Fprintf(out, "  • %s: %s\n", doc.Name, format)
		}
	}

	batch, err := capture.Partition(docs)
	if err != nil {
		return err
	}

	if batch.IsProcessed() {
		fmt.Fprintf(out, "\n✓ %s is a processed stats file and would be passed through as-is\n", batch.ProcessedName)
		return nil
	}

	if err := capture.CheckConsistency(batch.Exports); err != nil {
		return err
	}

	first := batch.Exports[0].Record
	fmt.Fprintf(out, "\n✓ %d file(s) from %q with %s\n",
		len(batch.Exports), first.Title, strings.Join(first.ParticipantNames(), ", "))
	return nil
}
