package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Alia5/padmapper/binding"
	"github.com/Alia5/padmapper/display"
	"github.com/Alia5/padmapper/engine"
	"github.com/Alia5/padmapper/internal/log"
	"github.com/Alia5/padmapper/internal/util"
	"github.com/Alia5/padmapper/internal/viiper"
	"github.com/Alia5/padmapper/output"
	"github.com/Alia5/padmapper/output/viiperout"
	"github.com/Alia5/padmapper/status"
	"github.com/Alia5/padmapper/store"
)

var errUnsupportedOutput = errors.New("output backend not supported on this platform")

// ControllerReader samples controller hardware for the engine.
type ControllerReader interface {
	engine.Source
	Run(ctx context.Context) error
}

// ReaderFactory builds the controller reader used by run. main binds the
// SDL reader.
type ReaderFactory func(logger *slog.Logger, pollInterval time.Duration) ControllerReader

type Run struct {
	Output       string        `help:"Output backend" enum:"viiper,uinput,win32" default:"${default_output}" env:"PADMAPPER_OUTPUT"`
	Enabled      bool          `help:"Start mapping immediately" default:"true" negatable:"" env:"PADMAPPER_ENABLED"`
	Rate         int           `help:"Engine tick rate in Hz" default:"120" env:"PADMAPPER_RATE"`
	PollInterval time.Duration `help:"Controller sampling interval" default:"4ms" env:"PADMAPPER_POLL_INTERVAL"`
	DisplayPoll  time.Duration `help:"Display layout refresh interval" default:"2s" env:"PADMAPPER_DISPLAY_POLL"`
	StatusAddr   string        `help:"Serve status and start/stop control over HTTP on this address (empty disables)" env:"PADMAPPER_STATUS_ADDR"`

	Viiper ViiperConfig `embed:"" prefix:"viiper." envprefix:"PADMAPPER_VIIPER_"`
	Uinput UinputConfig `embed:"" prefix:"uinput." envprefix:"PADMAPPER_UINPUT_"`
}

type ViiperConfig struct {
	Addr         string        `help:"VIIPER API server address" default:"localhost:3242" env:"ADDR"`
	Password     string        `help:"VIIPER API password" env:"PASSWORD"`
	PasswordFile string        `help:"File holding the VIIPER API password" type:"path" env:"PASSWORD_FILE"`
	Bus          uint32        `help:"Bus to attach to (0 reuses the first bus or creates one)" default:"0" env:"BUS"`
	Timeout      time.Duration `help:"Connect and request timeout" default:"3s" env:"TIMEOUT"`
	PingInterval time.Duration `help:"How often the server is checked" default:"2s" env:"PING_INTERVAL"`
}

type UinputConfig struct {
	Path string `help:"uinput device node" default:"/dev/uinput" env:"PATH"`
	Name string `help:"Virtual device name prefix" default:"padmapper" env:"NAME"`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger, bindings *store.File, newReader ReaderFactory) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.Start(ctx, logger, rawLogger, bindings, newReader)
}

// Start wires the reader, display watcher, bindings store, output backend and
// engine, and blocks until ctx is done or a component fails. The engine is
// stopped, and every held output released, before the backend is closed.
func (r *Run) Start(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger, bindings *store.File, newReader ReaderFactory) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cache := display.NewCache()
	watcher := display.NewWatcher(display.Screens{}, cache, r.DisplayPoll, logger)
	if _, err := watcher.Refresh(); err != nil {
		logger.Warn("Display layout unavailable, pointer is not clamped", "error", err)
	}
	go watcher.Run(ctx)
	cursor := output.NewCursor(cache)

	logger.Info("Opening output backend", "output", r.Output)
	dev, gate, err := r.openOutput(ctx, cursor, logger, rawLogger)
	if err != nil {
		if util.IsRunFromGUI() {
			waitForKey(err)
		}
		return err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			logger.Warn("Failed to close output backend", "error", err)
		}
	}()

	reader := newReader(logger, r.PollInterval)
	readerErr := make(chan error, 1)
	go func() { readerErr <- reader.Run(ctx) }()

	eng := engine.New(engine.Options{
		Source:   reader,
		Pointer:  dev,
		Keyboard: dev,
		Gate:     gate,
		Table:    bindings.Current(),
		Rate:     r.Rate,
		Logger:   logger,
	})
	defer eng.Stop()

	unsubscribe := followBindings(bindings, eng)
	defer unsubscribe()
	go func() {
		if err := bindings.Watch(ctx); err != nil {
			logger.Warn("Bindings file is not watched", "path", bindings.Path(), "error", err)
		}
	}()

	sup := newSupervisor(eng, gate, logger)

	statusErr := make(chan error, 1)
	if r.StatusAddr != "" {
		srv := status.NewServer(eng, cache, logger)
		srv.SetController(sup)
		go func() { statusErr <- srv.ListenAndServe(ctx, r.StatusAddr) }()
	}

	if r.Enabled {
		sup.Start()
	} else {
		logger.Info("Mapping disabled at startup")
	}
	supDone := make(chan struct{})
	go func() {
		defer close(supDone)
		sup.run(ctx, superviseInterval)
	}()
	// The supervisor must be gone before the deferred eng.Stop, or it
	// could restart the engine.
	defer func() {
		cancel()
		<-supDone
	}()

	if util.IsInteractive() {
		logger.Info("Press Ctrl+C to stop")
	} else if util.IsRunFromGUI() {
		go func() {
			time.Sleep(250 * time.Millisecond)
			util.HideConsoleWindow()
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
		return nil
	case err := <-readerErr:
		return fmt.Errorf("controller reader: %w", err)
	case err := <-statusErr:
		if err != nil {
			return fmt.Errorf("status server: %w", err)
		}
		return nil
	}
}

type reconfigurer interface {
	Reconfigure(t binding.Table)
}

// followBindings subscribes eng to table changes and then loads the file, so
// no change between the two is lost.
func followBindings(bindings *store.File, eng reconfigurer) (cancel func()) {
	cancel = bindings.Subscribe(eng.Reconfigure)
	bindings.Load()
	return cancel
}

func (r *Run) openOutput(ctx context.Context, cursor *output.Cursor, logger *slog.Logger, rawLogger log.RawLogger) (output.Device, engine.Gate, error) {
	if r.Output == "viiper" {
		return r.openViiper(ctx, cursor, logger, rawLogger)
	}
	return openPlatformOutput(r, cursor, logger)
}

func (r *Run) openViiper(ctx context.Context, cursor *output.Cursor, logger *slog.Logger, rawLogger log.RawLogger) (output.Device, engine.Gate, error) {
	password, err := r.Viiper.password()
	if err != nil {
		return nil, nil, err
	}
	client := viiper.NewWithConfig(r.Viiper.Addr, &viiper.Config{
		DialTimeout:  r.Viiper.Timeout,
		ReadTimeout:  r.Viiper.Timeout,
		WriteTimeout: r.Viiper.Timeout,
		Password:     password,
	})

	pinger := viiperout.NewPinger(client, r.Viiper.PingInterval, logger)
	if err := pinger.Ping(ctx); err != nil {
		return nil, nil, fmt.Errorf("VIIPER server at %s not reachable: %w", r.Viiper.Addr, err)
	}
	dev, err := viiperout.Open(ctx, client, viiperout.Options{
		BusID:  r.Viiper.Bus,
		Cursor: cursor,
		Logger: logger,
		Raw:    rawLogger,
	})
	if err != nil {
		return nil, nil, err
	}
	go pinger.Run(ctx)
	return dev, pinger.Gate(), nil
}

func (c ViiperConfig) password() (string, error) {
	if c.PasswordFile == "" {
		return c.Password, nil
	}
	data, err := os.ReadFile(c.PasswordFile)
	if err != nil {
		return "", fmt.Errorf("read VIIPER password file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func waitForKey(err error) {
	fmt.Println("padmapper failed to start:", err)
	fmt.Println("Press any key to exit...")
	b := make([]byte, 1)
	_, _ = os.Stdin.Read(b)
}
