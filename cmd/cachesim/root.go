package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/recording"
	"github.com/sarchlab/cachesim/report"
	"github.com/sarchlab/cachesim/timing/cache"
	"github.com/sarchlab/cachesim/trace"
)

// parameterNames lists the positional hierarchy parameters in order.
var parameterNames = []string{
	"BLOCKSIZE", "L1_SIZE", "L1_ASSOC", "L2_SIZE", "L2_ASSOC", "PREF_N", "PREF_M",
}

type runOptions struct {
	configPath     string
	recordPath     string
	recordAccesses bool
	noColor        bool
	verbose        bool
}

func newRootCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use: "cachesim [flags] BLOCKSIZE L1_SIZE L1_ASSOC L2_SIZE L2_ASSOC " +
			"PREF_N PREF_M trace_file",
		Short: "Cachesim replays a memory trace through an L1/L2 cache " +
			"hierarchy.",
		Long: `Cachesim replays a memory trace through a write-back, ` +
			`write-allocate L1/L2 cache hierarchy with optional stream ` +
			`buffer prefetching, and reports the final cache contents and ` +
			`measurements.`,
		Args:         cobra.RangeArgs(1, len(parameterNames)+1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("record") {
				opts.recordPath = os.Getenv("CACHESIM_RECORD")
			}
			if os.Getenv("CACHESIM_NO_COLOR") != "" {
				opts.noColor = true
			}

			return run(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "",
		"Path to a cache configuration JSON file")
	cmd.Flags().StringVar(&opts.recordPath, "record", "",
		"Record the run into this SQLite database (without extension)")
	cmd.Flags().BoolVar(&opts.recordAccesses, "record-accesses", false,
		"Record every access, not only the final measurements")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false,
		"Disable coloured section headers")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Log every access to stderr")

	cmd.AddCommand(newConfigCmd())

	return cmd
}

// parseConfig builds the hierarchy configuration and picks the trace file
// out of the positional arguments.
func parseConfig(args []string, configPath string) (*cache.Config, string, error) {
	var config *cache.Config

	if configPath != "" {
		if len(args) != 1 {
			return nil, "", fmt.Errorf(
				"expected only a trace file with --config, got %d arguments",
				len(args))
		}

		loaded, err := cache.LoadConfig(configPath)
		if err != nil {
			return nil, "", err
		}
		config = loaded
	} else {
		if len(args) != len(parameterNames)+1 {
			return nil, "", fmt.Errorf("expected %d arguments, got %d",
				len(parameterNames)+1, len(args))
		}

		values := make([]uint32, len(parameterNames))
		for i, name := range parameterNames {
			v, err := strconv.ParseUint(args[i], 10, 32)
			if err != nil {
				return nil, "", fmt.Errorf("invalid %s %q: %w", name, args[i], err)
			}
			values[i] = uint32(v)
		}

		config = &cache.Config{
			BlockSize: values[0],
			L1Size:    values[1],
			L1Assoc:   values[2],
			L2Size:    values[3],
			L2Assoc:   values[4],
			PrefN:     values[5],
			PrefM:     values[6],
		}
	}

	if err := config.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid cache configuration: %w", err)
	}

	return config, args[len(args)-1], nil
}

func run(cmd *cobra.Command, args []string, opts *runOptions) error {
	config, traceFile, err := parseConfig(args, opts.configPath)
	if err != nil {
		return err
	}

	h := cache.NewHierarchy(config)

	if opts.verbose {
		h.AcceptHook(cache.NewAccessLogger(cmd.ErrOrStderr()))
	}

	var recorder *recording.Recorder
	if opts.recordPath != "" {
		recorder, err = recording.New(opts.recordPath)
		if err != nil {
			return err
		}
		defer func() { _ = recorder.Close() }()

		recorder.RecordRun(config, traceFile)

		if opts.recordAccesses {
			h.AcceptHook(recording.NewAccessHook(recorder))
		}
	}

	if _, err := trace.ReplayFile(traceFile, h); err != nil {
		return err
	}

	printer := report.NewPrinter(cmd.OutOrStdout())
	if opts.noColor {
		printer.DisableColor()
	}
	printer.PrintAll(config, traceFile, h)

	if recorder != nil {
		recorder.RecordLevels(h)
		if err := recorder.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Run %s recorded in %s\n",
			recorder.RunID(), recorder.Filename())
	}

	return nil
}
