package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jasperwreed/chat-rewind/internal/capture"
	"github.com/jasperwreed/chat-rewind/internal/rewind"
	"github.com/jasperwreed/chat-rewind/internal/watcher"
)

const watchOutputName = "rewind-stats.json"

func NewWatchCommand() *cobra.Command {
	var out string
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <folder>",
		Short: "Rebuild the stats file whenever the export folder changes",
		Long: `Watch a conversation folder and recompute the stats file each time JSON files
are added, rewritten or removed. Every rebuild reads the whole folder again.`,
		Example: `  # Keep rewind-stats.json in the folder up to date
  rewind watch ./inbox/ana_1234

  # Write somewhere else
  rewind watch ./inbox/ana_1234 --out /tmp/ana.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], out, debounce)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Stats file to keep updated (default: <folder>/"+watchOutputName+")")
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "Quiet period before a rebuild")

	return cmd
}

func runWatch(cmd *cobra.Command, dir, out string, debounce time.Duration) error {
	v := NewValidator()
	if err := v.ValidateDirectory(dir); err != nil {
		return err
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	if out == "" {
		out = filepath.Join(dir, watchOutputName)
	}
	outPath, err := v.ResolvePath(out)
	if err != nil {
		return err
	}

	w, err := watcher.NewExportWatcher(dir, debounce)
	if err != nil {
		return err
	}
	w.Ignore(outPath)

	processor := rewind.NewProcessor(settings.opts)
	w.AddHandler(func(event watcher.Event) error {
		defer settings.finish()
		settings.logger.Printf("%s event from %s: %d file(s)", event.Type, event.Path, len(event.Files))

		docs, err := capture.ReadFiles(event.Files)
		if errors.Is(err, capture.ErrNoDocuments) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Waiting for export files...")
			return nil
		}
		if err != nil {
			return err
		}

		result, err := processor.Process(docs)
		if err != nil {
			return fmt.Errorf("rebuild failed: %w", err)
		}

		data, err := result.JSON()
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write stats: %w", err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "%s Rebuilt %s from %d file(s)\n",
			time.Now().Format("15:04:05"), outPath, len(docs))
		return nil
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := w.Start(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", dir)

	<-ctx.Done()
	fmt.Fprintln(cmd.ErrOrStderr(), "Stopping watcher...")
	return w.Stop()
}
