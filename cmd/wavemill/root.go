package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/wavemill/internal/config"
	"github.com/backmassage/wavemill/internal/display"
	"github.com/backmassage/wavemill/internal/logging"
	"github.com/backmassage/wavemill/internal/pipeline"
)

// version and commit are set at build time via -ldflags.
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

// errUsage marks argument errors so main can exit with a distinct status.
var errUsage = errors.New("usage error")

// errJobsFailed reports a batch where at least one file did not encode.
var errJobsFailed = errors.New("one or more files failed to encode")

func newRootCommand() *cobra.Command {
	cfg := config.Default()
	defaults := config.Default()
	var (
		configPath  string
		colorAlways bool
		colorNever  bool
	)

	cmd := &cobra.Command{
		Use:   "wavemill [flags] <directory>",
		Short: "Encode every PCM audio file in a directory to MP3",
		Long: "Wavemill converts the uncompressed PCM audio files found directly in a\n" +
			"directory into MP3 files placed next to their inputs, encoding several\n" +
			"files concurrently.\n\n" +
			"Supported file extensions: " + defaults.ExtensionList(),
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("%w: expected exactly one directory argument", errUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg.InputDir = args[0]

			// Layering: defaults < config file < explicit flags.
			if configPath != "" {
				if err := applyConfigFile(cmd, configPath, &cfg); err != nil {
					return err
				}
			}
			if colorAlways {
				cfg.ColorMode = config.ColorAlways
			}
			if colorNever {
				cfg.ColorMode = config.ColorNever
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logging.NewLogger(&cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			display.PrintBanner()
			log.Info("wavemill v%s", version)
			log.Info("Supported file extensions: %s", cfg.ExtensionList())
			log.Info("In: %s (%d workers)", cfg.InputDir, cfg.Workers)
			if cfg.DryRun {
				log.Warn("DRY RUN")
			}

			stats, err := pipeline.Run(cmd.Context(), &cfg, log)
			if errors.Is(err, pipeline.ErrNoFiles) {
				return fmt.Errorf("no files with a supported extension (%s) in %s",
					cfg.ExtensionList(), cfg.InputDir)
			}
			if err != nil {
				return err
			}
			if stats.Failed > 0 {
				return errJobsFailed
			}
			return nil
		},
	}

	// Argument mistakes and bad flag values are both usage errors; the usage
	// text always names the recognized extensions.
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})
	cmd.SetUsageTemplate(cmd.UsageTemplate() +
		"\nSupported file extensions: " + defaults.ExtensionList() + "\n")

	fl := cmd.Flags()
	fl.IntVarP(&cfg.Workers, "workers", "j", cfg.Workers, "Number of concurrent encode workers")
	fl.StringSliceVar(&cfg.Extensions, "ext", cfg.Extensions, "Recognized input extensions (no leading dot)")
	fl.BoolVarP(&cfg.DryRun, "dry-run", "d", false, "Preview only; do not encode")
	fl.BoolVar(&cfg.SkipExisting, "skip-existing", false, "Skip inputs whose .mp3 sibling already exists")
	fl.BoolVar(&cfg.NoLock, "no-lock", false, "Do not take the per-directory run lock")
	fl.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	fl.BoolVar(&colorAlways, "color", false, "Force colored logs")
	fl.BoolVar(&colorNever, "no-color", false, "Disable colored logs")
	fl.StringVarP(&cfg.LogFile, "log", "l", "", "Append logs to file")
	fl.StringVarP(&configPath, "config", "c", "", "TOML configuration file")

	return cmd
}

// applyConfigFile merges file settings into cfg without clobbering flags the
// user set explicitly.
func applyConfigFile(cmd *cobra.Command, path string, cfg *config.Config) error {
	base := config.Default()
	if err := config.LoadFile(path, &base); err != nil {
		return err
	}
	fl := cmd.Flags()
	if !fl.Changed("workers") {
		cfg.Workers = base.Workers
	}
	if !fl.Changed("ext") {
		cfg.Extensions = base.Extensions
	}
	if !fl.Changed("skip-existing") {
		cfg.SkipExisting = base.SkipExisting
	}
	if !fl.Changed("log") {
		cfg.LogFile = base.LogFile
	}
	if base.ColorMode != config.ColorAuto {
		cfg.ColorMode = base.ColorMode
	}
	return nil
}
