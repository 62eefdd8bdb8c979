package main

import (
	"context"
	"fmt"
	"os"
	"time"

	flags "github.com/jessevdk/go-flags"

	"github.com/Xeway/process-scaler/pkg/logging"
	"github.com/Xeway/process-scaler/pkg/policy"
	"github.com/Xeway/process-scaler/pkg/supervisor"
)

type flagOptions struct {
	LimitsFile string        `long:"limits-file" description:"YAML file supplying resource ceilings, refreshed while the child runs"`
	Interval   time.Duration `long:"interval" default:"1s" description:"delay between monitoring cycles"`
	Verbose    bool          `long:"verbose" short:"v" description:"enable debug logging"`
}

func main() {
	os.Exit(run())
}

func run() int {
	var opts flagOptions
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash|flags.PassAfterNonOption)
	parser.Usage = "[OPTIONS] command [args...]"

	command, err := parser.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Command line flags parsing failed: %v\n", err)
		return 2
	}
	if len(command) == 0 {
		fmt.Fprintln(os.Stderr, "A command to supervise is required")
		return 2
	}

	backend, err := logging.NewZapLogger(opts.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}

	logger := logging.NewLogger("procscaler: ", logging.LogFuncs{
		Debugf: backend.Debugf,
		Infof:  backend.Infof,
		Warnf:  backend.Warnf,
		Errorf: backend.Errorf,
	})

	ctx := context.Background()

	var limitPolicy policy.LimitPolicy = policy.Default()
	if opts.LimitsFile != "" {
		filePolicy, err := policy.NewFilePolicy(opts.LimitsFile, 0, logger)
		if err != nil {
			logger.Errorf("Failed to load limits file: %v", err)
			return 1
		}
		if err := filePolicy.Start(ctx); err != nil {
			logger.Errorf("Failed to start limits file refresh: %v", err)
			return 1
		}
		defer filePolicy.Stop()
		limitPolicy = filePolicy
	}

	sup := supervisor.New(supervisor.Options{
		Policy:   limitPolicy,
		Interval: opts.Interval,
	}, logger)

	code, err := sup.Run(ctx, command[0], command[1:])
	if err != nil {
		logger.Errorf("Supervision failed: %v", err)
		return 1
	}

	return code
}
