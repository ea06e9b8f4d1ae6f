package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brayner/brayner/config"
	"github.com/brayner/brayner/pkg/logger"
)

// cli carries global flag values and the app built for the current
// invocation.
type cli struct {
	configPath string
	storeFlag  string
	verbose    bool

	opts   appOptions
	errOut io.Writer
	app    *app
}

func newCLI(opts appOptions, errOut io.Writer) *cli {
	if errOut == nil {
		errOut = os.Stderr
	}
	return &cli{opts: opts, errOut: errOut}
}

// command builds the root command with every subcommand attached.
func (c *cli) command() *cobra.Command {
	root := &cobra.Command{
		Use:   "brayner",
		Short: "Thirty day comeback program for SSC and HSC students",
		Long: `brayner guides a student through a 30 day comeback program.

Sign up or onboard, start the program, then complete daily tasks,
focus sessions and days. Progress is kept in a local document store
(file by default, or sqlite, postgres, redis).`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: c.teardown,
	}
	root.SetErr(c.errOut)

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $BRAYNER_CONFIG)")
	root.PersistentFlags().StringVar(&c.storeFlag, "store", "", "store driver: memory, file, sqlite, postgres, redis")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging and event trace")

	root.AddCommand(
		c.signupCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.onboardCmd(),
		c.profileCmd(),
		c.startCmd(),
		c.progressCmd(),
		c.completeCmd(),
		c.minutesCmd(),
		c.focusCmd(),
		c.advanceCmd(),
		c.levelCmd(),
		c.reviseCmd(),
		c.noteCmd(),
		c.resourceCmd(),
		c.settingsCmd(),
		c.coachCmd(),
		c.analyzeCmd(),
		c.resetCmd(),
	)
	return root
}

// setup loads configuration and builds the app before any subcommand runs.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.storeFlag != "" {
		cfg.Store.Driver = strings.ToLower(c.storeFlag)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
	}

	opts := logger.DefaultOptions()
	opts.Output = c.errOut
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	opts.Format = cfg.Observability.LogFormat
	opts.AddCaller = false
	log := logger.New(opts).With(logger.String("app", cfg.App.Name))
	if c.verbose {
		log.SetLevel(logger.LevelDebug)
	}

	a, err := newApp(cmd.Context(), cfg, log, cmd.OutOrStdout(), c.opts)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *cli) teardown(_ *cobra.Command, _ []string) {
	if c.app == nil {
		return
	}
	if c.verbose {
		for _, e := range c.app.recorder.Events() {
			fmt.Fprintf(c.errOut, "event %s aggregate=%s\n", e.EventType(), e.AggregateID())
		}
		if m := c.app.bus.Metrics(); m != nil {
			snap := m.Snapshot()
			c.app.log.Debug("event bus totals",
				logger.Any("types", c.app.recorder.Types()),
				logger.Int64("published", snap.TotalPublished),
				logger.Int64("handler_failures", snap.HandlerFailures),
			)
		}
	}
	c.app.close()
	_ = c.app.log.Sync() // stderr sync fails on some terminals
	c.app = nil
}
