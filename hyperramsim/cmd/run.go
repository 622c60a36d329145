package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/hyperram/config"
	"github.com/sarchlab/hyperram/platform"
)

type runOptions struct {
	configPath string
	envFiles   []string
	logLevel   string
	record     string
	waveform   bool
	uniqueIDs  bool
	monitor    bool
	port       int
	open       bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	c := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario.",
		Long: "`run --config scenario.yaml` replays the transactions of the " +
			"scenario and prints a report. Values from .env files and " +
			"HYPERRAM_* variables override the file; flags override both.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScenario(cmd, opts)
		},
	}

	f := c.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "scenario file")
	f.StringSliceVar(&opts.envFiles, "env-file", []string{".env"},
		"dotenv files to load")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	f.StringVar(&opts.record, "record", "",
		"record to the given SQLite file (without suffix)")
	f.BoolVar(&opts.waveform, "waveform", false,
		"record the per-cycle debug signals")
	f.BoolVar(&opts.uniqueIDs, "unique-ids", false,
		"give transactions globally unique IDs")
	f.BoolVar(&opts.monitor, "monitor", false, "start the monitoring server")
	f.IntVar(&opts.port, "port", 0, "port of the monitoring server")
	f.BoolVar(&opts.open, "open", false, "open the monitor in a browser")

	return c
}

func loadConfig(cmd *cobra.Command, opts *runOptions) (*config.Config, error) {
	if err := config.LoadDotEnv(opts.envFiles...); err != nil {
		return nil, err
	}

	cfg := config.Default()
	if opts.configPath != "" {
		var err error

		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnv(cfg, nil); err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}

	if flags.Changed("record") {
		cfg.Recording.Enabled = true
		cfg.Recording.Path = opts.record
	}

	if flags.Changed("waveform") {
		cfg.Recording.Waveform = opts.waveform
	}

	if flags.Changed("unique-ids") {
		cfg.Recording.UniqueIDs = opts.uniqueIDs
	}

	if flags.Changed("monitor") {
		cfg.Monitoring.Enabled = opts.monitor
	}

	if flags.Changed("port") {
		cfg.Monitoring.Enabled = true
		cfg.Monitoring.Port = opts.port
	}

	if flags.Changed("open") {
		cfg.Monitoring.OpenBrowser = opts.open
	}

	return cfg, config.Validate(cfg)
}

func runScenario(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p, err := platform.MakeBuilder().
		WithConfig(cfg).
		WithLogger(logger).
		Build()
	if err != nil {
		return err
	}

	summary, err := p.Run()
	closeErr := p.Close()

	if err != nil {
		return err
	}

	if closeErr != nil {
		return closeErr
	}

	if err := summary.Write(cmd.OutOrStdout()); err != nil {
		return err
	}

	return summary.Err()
}
