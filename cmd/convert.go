package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"pseudoc/internal/converter"
)

var convertWorkers int

// convert: single file or a whole directory tree
var ConvertCmd = &cobra.Command{
	Use:   "convert <path>",
	Short: "Convert a (.py) source file or a directory of them",
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
		if info.IsDir() {
			return convertDir(args[0], cfg.OutDir, opts)
		}
		return convertOne(args[0], cfg.OutDir, opts)
	},
}

func init() {
	ConvertCmd.Flags().IntVarP(&convertWorkers, "workers", "w", 4, "parallel conversions for directory input")
}

func convertOne(srcPath, outDir string, opts converter.Options) error {
	outFile, result, err := converter.ConvertAndWrite(srcPath, outDir, opts)
	reportDiagnostics(srcPath, len(result.Errors), len(result.Warnings))
	if err != nil {
		for _, d := range result.Errors {
			fmt.Printf("  %s\n", d)
		}
		return err
	}
	fmt.Printf("✓ %s → %s\n", srcPath, outFile)
	return nil
}

// convertDir walks the tree and converts every .py file through a bounded
// worker pool. One failed file does not stop the rest.
func convertDir(root, outDir string, opts converter.Options) error {
	var sources []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".py" {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no .py files under %s", root)
	}

	workers := convertWorkers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range jobs {
				err := convertOne(src, outDir, opts)
				mu.Lock()
				if err != nil {
					failed++
				}
				mu.Unlock()
			}
		}()
	}
	for _, src := range sources {
		jobs <- src
	}
	close(jobs)
	wg.Wait()

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(sources))
	}
	fmt.Printf("✓ converted %d files\n", len(sources))
	return nil
}
