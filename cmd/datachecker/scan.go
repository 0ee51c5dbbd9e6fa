package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/arjank/datachecker/internal/config"
	"github.com/arjank/datachecker/internal/engine"
	"github.com/arjank/datachecker/internal/logger"
	"github.com/arjank/datachecker/internal/reporter"
)

const defaultConfigPath = "config.json"

// scanOptions holds the scan command's bound CLI flags.
type scanOptions struct {
	workers    int
	bufferSize int64
	noProgress bool
	logLevel   string
	logFormat  string
	checks     checkFlagValues
}

func newScanCmd() *cobra.Command {
	opts := &scanOptions{logLevel: "warn", logFormat: "text"}

	cmd := &cobra.Command{
		Use:   "datachecker [directory]",
		Short: "Scan a directory tree for duplicates, integrity drift, and hygiene problems",
		Long: `Walks a directory tree once and runs a fixed set of checks over it:
byte-identical duplicates, broken links, sidecar hash-file integrity,
temporary/legacy files, confidential-content scanning, magic-number
mismatches, and directory/name hygiene.

With no directory argument, INPUT_FOLDER is read from config.json in
the current directory; if that is also absent, help is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "number of parallel workers (0 = detect CPU count)")
	cmd.Flags().Int64Var(&opts.bufferSize, "buffer-size", 0, "I/O buffer size in bytes (0 = use config/default)")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "disable progress spinners")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", opts.logLevel, "diagnostic log level: debug, info, warn, error")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", opts.logFormat, "diagnostic log format: text, json")
	opts.checks = bindCheckFlags(cmd.Flags())

	return cmd
}

func runScan(cmd *cobra.Command, args []string, opts *scanOptions) error {
	logger.Init(opts.logLevel, opts.logFormat, cmd.ErrOrStderr())

	cfg, inputFolder := config.LoadOrDefault(defaultConfigPath)

	if opts.workers > 0 {
		cfg.MaxJobs = opts.workers
	}
	if opts.bufferSize > 0 {
		cfg.BufferSize = opts.bufferSize
	}

	selected := opts.checks.selected()
	applySingleCheck(&cfg, selected)

	root := inputFolder
	if len(args) == 1 {
		root = args[0]
	}
	if root == "" {
		return cmd.Help()
	}

	if err := checkRootAccessible(root); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return newExitError(3, fmt.Errorf("input directory: %w", err))
		}
		return newExitError(1, fmt.Errorf("input directory unreadable: %w", err))
	}

	rep := reporter.New(cmd.OutOrStdout(), true, !opts.noProgress)
	eng, err := engine.New(cfg, rep)
	if err != nil {
		return newExitError(1, err)
	}

	if selected != "" {
		if _, ok := eng.RunSingle(root, selected); !ok {
			return fmt.Errorf("unknown check %q", selected)
		}
		return nil
	}

	eng.RunAll(root)
	return nil
}

// checkRootAccessible verifies root exists, is a directory, and its
// entries can be listed (spec §6 exit codes: a missing/non-directory
// root is exit 1 "input directory unreadable"; a directory that exists
// but cannot be read is exit 3 "access-denied at top level").
func checkRootAccessible(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}
	f, err := os.Open(root)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = f.ReadDir(1)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
