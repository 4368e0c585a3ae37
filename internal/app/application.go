package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"navigator/internal/logging"
	"navigator/internal/publish"
	"navigator/internal/serial"
	"navigator/internal/store"
	"navigator/internal/tui"
	"navigator/internal/web"
)

const shutdownTimeout = 5 * time.Second

// Application represents the main application
type Application struct {
	config    Config
	logger    *logrus.Logger
	memory    *logging.MemoryHook
	store     *store.Store
	stats     *Stats
	source    io.ReadCloser
	reader    *Reader
	capture   *logging.CaptureLog
	web       *web.Server
	mqtt      mqtt.Client
	publisher *publish.Publisher

	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	readerDone chan error
	closeOnce  sync.Once
}

// NewApplication creates a new application instance
func NewApplication(config Config) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	logger := logrus.New()
	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	memory := logging.NewMemoryHook(DefaultLogEntries)
	logger.AddHook(memory)

	return &Application{
		config:     config,
		logger:     logger,
		memory:     memory,
		stats:      &Stats{},
		ctx:        ctx,
		cancel:     cancel,
		readerDone: make(chan error, 1),
	}
}

// Logger returns the application logger
func (app *Application) Logger() *logrus.Logger {
	return app.logger
}

// Store returns the aggregation store, nil before Start
func (app *Application) Store() *store.Store {
	return app.store
}

// Start runs until the source ends, a shutdown signal arrives or the
// dashboard is closed
func (app *Application) Start() error {
	if !app.config.Headless {
		// The dashboard owns the terminal; entries still reach the hook
		app.logger.SetOutput(io.Discard)
	}

	app.logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}).Info("Starting NMEA 0183 decoder")

	if err := app.initializeComponents(); err != nil {
		app.cancel()
		app.closeResources()
		return fmt.Errorf("failed to initialize components: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	app.run()

	var err error
	if app.config.Headless {
		select {
		case <-sigChan:
			app.logger.Info("Received shutdown signal")
		case err = <-app.readerDone:
		}
	} else {
		program := tui.NewProgram(tui.NewModel(app.store, app.memory, app.sourceName(), app.config.UIInterval))
		go func() {
			select {
			case <-sigChan:
				program.Quit()
			case <-app.ctx.Done():
			}
		}()
		if _, tuiErr := program.Run(); tuiErr != nil {
			err = fmt.Errorf("dashboard failed: %w", tuiErr)
		}
	}

	app.shutdown()
	return err
}

func (app *Application) sourceName() string {
	if app.config.File != "" {
		return app.config.File
	}
	return app.config.Device
}

// OpenSource opens the replay file or the serial port named by cfg
func OpenSource(cfg Config) (io.ReadCloser, error) {
	if cfg.File != "" {
		f, err := os.Open(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open replay file: %w", err)
		}
		return f, nil
	}
	return serial.Open(serial.Options{
		Device:  cfg.Device,
		Baud:    cfg.Baud,
		Timeout: cfg.Timeout,
	})
}

// initializeComponents initializes all application components
func (app *Application) initializeComponents() error {
	var err error

	app.store = store.New(app.logger, app.config.HistorySamples)

	app.source, err = OpenSource(app.config)
	if err != nil {
		return err
	}
	app.logger.WithField("source", app.sourceName()).Info("Source opened")

	var recorder LineRecorder
	if app.config.CaptureDir != "" {
		app.capture, err = logging.NewCaptureLog(app.config.CaptureDir, app.config.CaptureUTC, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize capture log: %w", err)
		}
		app.capture.SetRetention(app.config.CaptureRetentionDays)
		recorder = app.capture
	}

	app.reader = NewReader(app.store, recorder, app.stats, app.logger)

	if app.config.Web.Listen != "" {
		app.web = web.NewServer(app.config.Web.Listen, app.store, app.config.Web.Interval, app.logger)
	}

	if app.config.MQTT.Broker != "" {
		app.mqtt, err = publish.Connect(app.config.MQTT.Broker, app.config.MQTT.ClientID)
		if err != nil {
			return fmt.Errorf("failed to initialize MQTT: %w", err)
		}
		app.publisher = publish.NewPublisher(app.mqtt, app.config.MQTT.TopicPrefix, app.logger)
		app.logger.WithField("broker", app.config.MQTT.Broker).Info("Connected to MQTT broker")
	}

	return nil
}

// run starts the background goroutines
func (app *Application) run() {
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		err := app.reader.Run(app.ctx, app.source)
		if err != nil && !errors.Is(err, context.Canceled) {
			app.logger.WithError(err).Error("Reader stopped")
		} else {
			err = nil
		}
		app.readerDone <- err
	}()

	if app.capture != nil {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.capture.Start(app.ctx)
		}()
	}

	if app.web != nil {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			if err := app.web.ListenAndServe(); err != nil {
				app.logger.WithError(err).Error("Web server failed")
			}
		}()
	}

	if app.publisher != nil {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.publisher.Run(app.ctx, app.store, app.config.MQTT.Interval)
		}()
	}

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.reportStatistics()
	}()

	app.logger.Info("All components started successfully")
}

// reportStatistics reports reader statistics periodically
func (app *Application) reportStatistics() {
	ticker := time.NewTicker(app.config.StatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			snap := app.store.Snapshot()
			fields := app.stats.Fields()
			fields["fix"] = snap.Location.Fix.String()
			fields["satellites"] = len(snap.Satellites.Satellites)
			app.logger.WithFields(fields).Info("Decoder statistics")
		}
	}
}

// shutdown gracefully shuts down the application
func (app *Application) shutdown() {
	app.logger.Info("Shutting down application")
	app.cancel()

	// A read blocked on the port only returns once the port is closed
	if app.source != nil {
		app.source.Close()
	}

	if app.web != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := app.web.Shutdown(ctx); err != nil {
			app.logger.WithError(err).Warn("Web server shutdown failed")
		}
		cancel()
	}

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		app.logger.Info("All goroutines finished")
	case <-time.After(shutdownTimeout):
		app.logger.Warn("Shutdown timeout, forcing exit")
	}

	app.closeResources()
	app.logger.WithFields(app.stats.Fields()).Info("Shutdown completed")
}

func (app *Application) closeResources() {
	app.closeOnce.Do(func() {
		if app.source != nil {
			app.source.Close()
		}
		if app.mqtt != nil {
			app.mqtt.Disconnect(250)
		}
		if app.capture != nil {
			if err := app.capture.Close(); err != nil {
				app.logger.WithError(err).Warn("Failed to close capture log")
			}
		}
	})
}
