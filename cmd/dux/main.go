package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/dux/internal/config"
	"github.com/bamsammich/dux/internal/exclude"
	"github.com/bamsammich/dux/internal/report"
	"github.com/bamsammich/dux/internal/sizefmt"
	"github.com/bamsammich/dux/internal/stats"
	"github.com/bamsammich/dux/internal/walker"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		humanReadable  bool
		maxDepth       int
		summarize      bool
		apparentSize   bool
		grandTotal     bool
		blockSize      string
		thresholdStr   string
		oneFileSystem  string
		excludeFrom    string
		listAll        bool
		countLinks     bool
		followSymlinks bool
		workers        int
		verbose        bool
		quiet          bool
		showVersion    bool
	)

	rootCmd := &cobra.Command{
		Use:   "dux [flags] [path]",
		Short: "Report disk usage of a directory tree",
		Long: heredoc.Doc(`
			dux walks a directory tree and reports the aggregated size of every
			directory (and, with --all, every file), like du.

			Sizes default to 1K allocation units. --human-readable renders binary
			prefixes (K through Z), --bytes switches to apparent sizes, and
			--block-size quantizes to a unit letter or an explicit block size in
			bytes.

			Hard-linked files are counted once per run unless --count-links is
			set. --one-file-system bounds the walk to the filesystem of the given
			path. Unreadable entries are skipped and degrade the total rather
			than aborting the run.
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "dux %s\n", version)
				return nil
			}

			logLevel := slog.LevelWarn
			if verbose {
				logLevel = slog.LevelDebug
			} else if quiet {
				logLevel = slog.LevelError
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			}))
			slog.SetDefault(logger)

			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "error", err)
			}
			applyConfigDefaults(cmd.Flags(), cfg.Defaults,
				&humanReadable, &thresholdStr, &workers, &listAll)

			root := ""
			if len(args) == 1 {
				root = args[0]
			}
			boundFS := oneFileSystem != ""
			if boundFS {
				// -x names the path whose device bounds the walk, and that
				// path becomes the traversal root.
				root = oneFileSystem
			}

			mode, format, err := selectFormat(blockSize, apparentSize, humanReadable)
			if err != nil {
				return err
			}

			thresholdBytes, err := sizefmt.ParseSize(thresholdStr)
			if err != nil {
				return fmt.Errorf("invalid --threshold: %w", err)
			}
			threshold := thresholdBytes
			if mode == walker.DiskBlocks {
				// Threshold is compared in the accounting unit.
				threshold /= 1024
			}

			excl := exclude.NewSet()
			if excludeFrom != "" {
				cwd, cwdErr := os.Getwd()
				if cwdErr != nil {
					return fmt.Errorf("resolve working directory: %w", cwdErr)
				}
				excl, err = exclude.LoadFile(excludeFrom, cwd)
				if err != nil {
					return err
				}
			}

			collector := stats.NewCollector()
			sink := report.NewSink(cmd.OutOrStdout())

			w := walker.New(walker.Config{
				Root:           root,
				MaxDepth:       maxDepth,
				OneFileSystem:  boundFS,
				Exclusions:     excl,
				Mode:           mode,
				Format:         format,
				Threshold:      threshold,
				Summarize:      summarize,
				ListFiles:      listAll,
				CountHardLinks: countLinks,
				FollowSymlinks: followSymlinks,
				Workers:        workers,
			}, sink, collector)

			total, err := w.Walk()
			if err != nil {
				return err
			}

			// du prints the total line even under -s, after the summary.
			if grandTotal {
				sink.Total(format(total))
			}
			if err := sink.Flush(); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			if verbose && isatty.IsTerminal(os.Stderr.Fd()) {
				printSummary(collector.Snapshot())
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")

	rootCmd.Flags().
		BoolVarP(&humanReadable, "human-readable", "H", false, "print sizes with binary prefixes (e.g. 3.4M)")
	rootCmd.Flags().
		IntVarP(&maxDepth, "max-depth", "d", 0, "maximum traversal depth (0 = unbounded)")
	rootCmd.Flags().
		BoolVarP(&summarize, "summarize", "s", false, "display only a total for the root")
	rootCmd.Flags().
		BoolVarP(&apparentSize, "bytes", "b", false, "apparent sizes instead of disk usage")
	rootCmd.Flags().BoolVarP(&grandTotal, "total", "c", false, "produce a grand total line")
	rootCmd.Flags().
		StringVarP(&blockSize, "block-size", "B", "", "scale sizes to SIZE: a unit letter (K..Z) or bytes (e.g. 4096)")
	rootCmd.Flags().
		StringVarP(&thresholdStr, "threshold", "t", "0", "exclude entries smaller than SIZE from output (e.g. 1M)")
	rootCmd.Flags().
		StringVarP(&oneFileSystem, "one-file-system", "x", "", "walk PATH without crossing filesystem boundaries")
	rootCmd.Flags().
		StringVarP(&excludeFrom, "exclude-from", "X", "", "read exclusion paths and *.ext patterns from FILE")
	rootCmd.Flags().
		BoolVarP(&listAll, "all", "a", false, "list individual files, not just directories")
	rootCmd.Flags().
		BoolVarP(&countLinks, "count-links", "l", false, "count every hard link independently")
	rootCmd.Flags().BoolVar(&followSymlinks, "follow-symlinks", false, "follow symbolic links")
	rootCmd.Flags().
		IntVar(&workers, "workers", 1, "walk top-level subdirectories with N workers (sibling output order is then undefined)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	return rootCmd
}

// selectFormat picks the accounting mode and line formatter once per run;
// the walk itself never branches on output flags.
func selectFormat(blockSize string, apparentSize, humanReadable bool) (walker.SizeMode, sizefmt.Formatter, error) {
	if blockSize != "" {
		spec, err := sizefmt.ParseBlockSpec(blockSize)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid --block-size: %w", err)
		}
		return walker.DiskBytes, spec.Format, nil
	}
	if apparentSize {
		return walker.Bytes, sizefmt.Raw, nil
	}
	if humanReadable {
		return walker.DiskBytes, sizefmt.Human, nil
	}
	return walker.DiskBlocks, sizefmt.Raw, nil
}

// applyConfigDefaults applies config file defaults for flags not explicitly
// set on the CLI.
func applyConfigDefaults(
	flags *pflag.FlagSet,
	defaults config.DefaultsConfig,
	humanReadable *bool,
	threshold *string,
	workers *int,
	listAll *bool,
) {
	if !flags.Changed("human-readable") && defaults.HumanReadable != nil {
		*humanReadable = *defaults.HumanReadable
	}
	if !flags.Changed("threshold") && defaults.Threshold != nil {
		*threshold = *defaults.Threshold
	}
	if !flags.Changed("workers") && defaults.Workers != nil {
		*workers = *defaults.Workers
	}
	if !flags.Changed("all") && defaults.All != nil {
		*listAll = *defaults.All
	}
}

func printSummary(snap stats.Snapshot) {
	fmt.Fprintf(os.Stderr, "scanned %s entries (%s directories, %s files) in %s\n",
		humanize.Comma(snap.EntriesScanned),
		humanize.Comma(snap.DirsOpened),
		humanize.Comma(snap.FilesCounted),
		snap.Elapsed.Round(time.Millisecond))
	if snap.ErrorsSkipped > 0 || snap.HardlinksSkipped > 0 || snap.EntriesExcluded > 0 {
		fmt.Fprintf(os.Stderr, "skipped: %s unreadable, %s hard links, %s excluded\n",
			humanize.Comma(snap.ErrorsSkipped),
			humanize.Comma(snap.HardlinksSkipped),
			humanize.Comma(snap.EntriesExcluded))
	}
}
