package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"pseudoc/internal/converter"
)

var watchDebounce time.Duration

// watch: re-convert whenever a source file is written
var WatchCmd = &cobra.Command{
	Use:   "watch <path>",
	Short: "Re-convert files whenever they change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts := cfg.Options(debug)

		info, err := os.Stat(args[0])
		if err != nil {
			return err
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer watcher.Close()

		dir := args[0]
		if !info.IsDir() {
			dir = filepath.Dir(args[0])
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}

		fmt.Printf("↪ watching %s (ctrl-c to stop)\n", dir)
		return watchLoop(watcher, args[0], cfg.OutDir, opts)
	},
}

func init() {
	WatchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "delay before reacting to a burst of changes")
}

// watchLoop converts on write/create events, debounced so editors that write
// in several syscalls trigger one conversion.
func watchLoop(watcher *fsnotify.Watcher, target, outDir string, opts converter.Options) error {
	pending := map[string]bool{}
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(watchDebounce, func() {
			select {
			case fire <- struct{}{}:
			default:
			}
		})
	}

	singleFile := filepath.Ext(target) == ".py"

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if filepath.Ext(event.Name) != ".py" {
				continue
			}
			if singleFile && filepath.Clean(event.Name) != filepath.Clean(target) {
				continue
			}
			pending[event.Name] = true
			schedule()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)

		case <-fire:
			for src := range pending {
				if err := convertOne(src, outDir, opts); err != nil {
					fmt.Fprintf(os.Stderr, "convert error: %v\n", err)
				}
			}
			pending = map[string]bool{}
		}
	}
}
