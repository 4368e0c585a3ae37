package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"navigator/internal/app"
	"navigator/internal/serial"
)

// options holds flag values before they are merged into app.Config
type options struct {
	configPath  string
	verbose     bool
	showVersion bool

	baud         int
	timeout      time.Duration
	file         string
	raw          bool
	ignoreErrors bool

	captureDir    string
	captureUTC    bool
	captureDays   int
	uiInterval    time.Duration
	history       int
	statsInterval time.Duration
	headless      bool
	webListen     string
	mqttBroker    string
	mqttTopic     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&options{})
}

func buildRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "navigator",
		Short: "NMEA 0183 GPS decoder",
		Long: `NMEA 0183 decoder for serial GPS receivers.

Reads GLL, GSA, GSV, VTG and TXT sentences from a serial port (or a capture
file), verifies their checksums and keeps the latest position, fix and
satellite view.

Example usage:
  navigator devices
  navigator debug /dev/ttyUSB0 --baud 9600 --raw
  navigator run /dev/ttyUSB0 --web :8080`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				app.ShowVersion(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.Flags().BoolVar(&opts.showVersion, "version", false, "Show version information")

	rootCmd.AddCommand(newDevicesCmd(), newDebugCmd(opts), newRunCmd(opts))
	return rootCmd
}

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available serial ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := serial.List()
			if err != nil {
				return err
			}
			app.PrintDevices(cmd.OutOrStdout(), ports)
			return nil
		},
	}
}

func addSourceFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().IntVarP(&opts.baud, "baud", "b", app.DefaultBaud, "Serial baud rate")
	cmd.Flags().DurationVarP(&opts.timeout, "timeout", "t", app.DefaultTimeout, "Serial read timeout (0 waits forever)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read sentences from a capture file instead of a serial port")
}

func newDebugCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug [device]",
		Short: "Print every decoded sentence",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args, opts)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			src, err := app.OpenSource(cfg)
			if err != nil {
				return err
			}
			defer src.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				// Unblocks a read waiting on the port
				<-ctx.Done()
				src.Close()
			}()

			return app.Debug(ctx, src, cmd.OutOrStdout(), cmd.ErrOrStderr(), app.DebugOptions{
				Raw:          cfg.Raw,
				IgnoreErrors: cfg.IgnoreErrors,
			})
		},
	}

	addSourceFlags(cmd, opts)
	cmd.Flags().BoolVarP(&opts.raw, "raw", "r", false, "Echo each raw line before its decoded form")
	cmd.Flags().BoolVarP(&opts.ignoreErrors, "ignore-errors", "i", false, "Print decode errors and keep going")
	return cmd
}

func newRunCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [device]",
		Short: "Decode continuously and show the dashboard",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args, opts)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return app.NewApplication(cfg).Start()
		},
	}

	addSourceFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.captureDir, "capture-dir", "", "Record raw sentences to daily files in this directory")
	cmd.Flags().BoolVar(&opts.captureUTC, "capture-utc", false, "Use UTC dates for capture file rotation")
	cmd.Flags().IntVar(&opts.captureDays, "capture-retention", 0, "Remove capture files older than this many days (0 keeps all)")
	cmd.Flags().DurationVar(&opts.uiInterval, "ui-interval", app.DefaultUIInterval, "Dashboard redraw interval")
	cmd.Flags().IntVar(&opts.history, "history", app.DefaultHistorySamples, "Number of mean SNR samples kept")
	cmd.Flags().DurationVar(&opts.statsInterval, "stats-interval", app.DefaultStatsInterval, "Interval between statistics log lines")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "Log to the terminal instead of showing the dashboard")
	cmd.Flags().StringVar(&opts.webListen, "web", "", "Serve the snapshot API and websocket feed on this address")
	cmd.Flags().StringVar(&opts.mqttBroker, "mqtt-broker", "", "Publish snapshots to this MQTT broker, e.g. tcp://localhost:1883")
	cmd.Flags().StringVar(&opts.mqttTopic, "mqtt-topic", app.DefaultMQTTTopicPrefix, "MQTT topic prefix")
	return cmd
}

// resolveConfig merges defaults, the optional YAML file and the flags that
// were set explicitly, in that order
func resolveConfig(cmd *cobra.Command, args []string, opts *options) (app.Config, error) {
	cfg := app.DefaultConfig()
	if opts.configPath != "" {
		if err := app.LoadConfig(opts.configPath, &cfg); err != nil {
			return app.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}
	if flags.Changed("baud") {
		cfg.Baud = opts.baud
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	if flags.Changed("file") {
		cfg.File = opts.file
	}
	if flags.Changed("raw") {
		cfg.Raw = opts.raw
	}
	if flags.Changed("ignore-errors") {
		cfg.IgnoreErrors = opts.ignoreErrors
	}
	if flags.Changed("capture-dir") {
		cfg.CaptureDir = opts.captureDir
	}
	if flags.Changed("capture-utc") {
		cfg.CaptureUTC = opts.captureUTC
	}
	if flags.Changed("capture-retention") {
		cfg.CaptureRetentionDays = opts.captureDays
	}
	if flags.Changed("ui-interval") {
		cfg.UIInterval = opts.uiInterval
	}
	if flags.Changed("history") {
		cfg.HistorySamples = opts.history
	}
	if flags.Changed("stats-interval") {
		cfg.StatsInterval = opts.statsInterval
	}
	if flags.Changed("headless") {
		cfg.Headless = opts.headless
	}
	if flags.Changed("web") {
		cfg.Web.Listen = opts.webListen
	}
	if flags.Changed("mqtt-broker") {
		cfg.MQTT.Broker = opts.mqttBroker
	}
	if flags.Changed("mqtt-topic") {
		cfg.MQTT.TopicPrefix = opts.mqttTopic
	}

	if len(args) > 0 {
		cfg.Device = args[0]
	}
	return cfg, nil
}
