package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stratadb/strata/internal/classify"
	"github.com/stratadb/strata/internal/codegen"
	"github.com/stratadb/strata/internal/config"
	"github.com/stratadb/strata/internal/schema"
)

var generateVerbose bool

func init() {
	generateCmd.Flags().BoolVar(&generateVerbose, "verbose", false, "Show detailed generation output")
}

// newLogger builds the CLI logger. Verbose mode enables debug output.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Classify declarations, merge the model and generate bindings",
	Long: `Read the entity declaration file, merge the classified entities against
the persisted model to keep ids and uids stable, write the model back
and generate Go binding code for every entity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		startTime := time.Now()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger, err := newLogger(generateVerbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		decls, err := classify.LoadDecls(cfg.Declarations)
		if err != nil {
			return err
		}
		logger.Debug("loaded declarations",
			zap.String("path", cfg.Declarations),
			zap.Int("entities", len(decls.Entities)))

		entities, err := classify.Entities(decls)
		if err != nil {
			return err
		}

		prev, err := schema.LoadModel(cfg.Model)
		if err != nil {
			return err
		}
		if prev == nil {
			logger.Debug("no previous model, starting fresh", zap.String("path", cfg.Model))
		}

		model, err := schema.NewMerger().Merge(prev, entities)
		if err != nil {
			return err
		}
		if err := schema.SaveModel(model, cfg.Model); err != nil {
			return err
		}
		logger.Debug("model written", zap.String("path", cfg.Model))

		gen := codegen.NewGenerator(cfg.Output.Package)
		files, err := gen.GenerateAll(model)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		names := make([]string, 0, len(files))
		for name := range files {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fullPath := filepath.Join(cfg.Output.Dir, name)
			if err := os.WriteFile(fullPath, files[name], 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", name, err)
			}
			logger.Debug("generated", zap.String("file", fullPath))
		}

		elapsed := time.Since(startTime)
		color.Green("✓ Generated %d file(s) for %d entities in %.2fs",
			len(files), len(model.Entities), elapsed.Seconds())
		return nil
	},
}
