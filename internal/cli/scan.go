package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jasperwreed/chat-rewind/internal/scanner"
)

func NewScanCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "scan [export-folder]",
		Short: "List conversations found in an unpacked export",
		Long: `Discover conversation folders, the directories holding message_N.json files,
under an unpacked export. Without an argument the usual download locations
in the home directory are searched.

Each listed folder can be passed straight to process or summary.`,
		Example: `  # Scan an unpacked export
  rewind scan ~/Downloads/instagram-export

  # Show only the five busiest conversations
  rewind scan ./export --limit 5

  # Include file lists and skipped files
  rewind scan ./export --verbose`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := ""
			if len(args) == 1 {
				root = args[0]
			}
			return runScan(cmd, root, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many conversations (0 for all)")

	return cmd
}

func runScan(cmd *cobra.Command, root string, limit int) error {
	if err := NewValidator().ValidateDirectory(root); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔍 Scanning for exported conversations...")
	fmt.Fprintln(out)

	result, err := scanner.NewExportScanner(root).Scan()
	if err != nil {
		return err
	}

	if result.ThreadsFound == 0 {
		fmt.Fprintln(out, "No conversations found")
		return nil
	}

	threads := result.Threads
	if limit > 0 && len(threads) > limit {
		threads = threads[:limit]
	}

	for _, thread := range threads {
		fmt.Fprintf(out, "📁 %s: %q, %d messages in %d file(s)\n",
			thread.Name, thread.Title, thread.Messages, len(thread.Files))
		if verbose {
			fmt.Fprintf(out, "    Size: %d bytes, Modified: %s\n", thread.Size, thread.ModTime)
			for _, f := range thread.Files {
				fmt.Fprintf(out, "    • %s\n", filepath.Base(f))
			}
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════")
	fmt.Fprintf(out, "📊 Scan Complete\n")
	fmt.Fprintf(out, "   Root: %s\n", result.Root)
	fmt.Fprintf(out, "   Conversations found: %d\n", result.ThreadsFound)
	if result.Failed > 0 {
		fmt.Fprintf(out, "   Skipped files: %d\n", result.Failed)
		if verbose {
			for _, e := range result.Errors {
				fmt.Fprintf(out, "     %s\n", e)
			}
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "✨ Next:")
	fmt.Fprintf(out, "   rewind summary %s\n", threads[0].Dir)

	return nil
}
