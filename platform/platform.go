// Package platform assembles a complete HyperRAM simulation from a
// scenario: the engine, the controller with its PHY, the device, the host
// agent and the observability hooks.
package platform

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sarchlab/hyperram/config"
	"github.com/sarchlab/hyperram/hyperram"
	"github.com/sarchlab/hyperram/hyperram/device"
	"github.com/sarchlab/hyperram/hyperram/host"
	"github.com/sarchlab/hyperram/hyperram/phy"
	"github.com/sarchlab/hyperram/metrics"
	"github.com/sarchlab/hyperram/monitoring"
	"github.com/sarchlab/hyperram/recording"
	"github.com/sarchlab/hyperram/sim"
)

// Platform is a built simulation.
type Platform struct {
	Engine     *sim.SerialEngine
	Controller *hyperram.Comp
	Device     *device.Comp
	Host       *host.Agent
	Metrics    *metrics.Collector

	// Monitor and Recorder are nil unless enabled in the scenario.
	Monitor    *monitoring.Monitor
	MonitorURL string
	Recorder   recording.Recorder

	logger   *zap.Logger
	cfg      *config.Config
	txns     []*host.Transaction
	progress *monitoring.ProgressBar
}

// A Builder can build platforms.
type Builder struct {
	cfg    *config.Config
	logger *zap.Logger
}

// MakeBuilder returns a Builder with the default scenario.
func MakeBuilder() Builder {
	return Builder{cfg: config.Default()}
}

// WithConfig sets the scenario.
func (b Builder) WithConfig(cfg *config.Config) Builder {
	b.cfg = cfg
	return b
}

// WithLogger sets the logger. Without one nothing is logged.
func (b Builder) WithLogger(logger *zap.Logger) Builder {
	b.logger = logger
	return b
}

// Build validates the scenario and creates the platform.
func (b Builder) Build() (*Platform, error) {
	if err := config.Validate(b.cfg); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	p := &Platform{
		Engine: sim.NewSerialEngine(),
		logger: b.logger,
		cfg:    b.cfg,
	}

	if p.logger == nil {
		p.logger = zap.NewNop()
	}

	freq := sim.Freq(b.cfg.Clock.FreqMHz) * sim.MHz
	unique := b.cfg.Recording.UniqueIDs

	p.Host = host.MakeBuilder().
		WithUpstreamTimeout(b.cfg.Host.UpstreamTimeout).
		WithIDGenerator(sim.NewIDGenerator("host-", unique)).
		Build("Host")

	pp := phy.MakeBuilder().
		WithFreq(freq).
		WithSyncStages(b.cfg.PHY.SyncStages).
		WithResetLine(b.cfg.PHY.ResetLine).
		Build("HyperRAM.PHY")

	p.Controller = hyperram.MakeBuilder().
		WithEngine(p.Engine).
		WithFreq(freq).
		WithPHY(pp).
		WithBusMaster(&calibrator{
			phy:     pp,
			next:    p.Host,
			ioTaps:  b.cfg.PHY.IODelayTaps,
			clkTaps: b.cfg.PHY.ClockDelayTaps,
		}).
		WithIDGenerator(sim.NewIDGenerator("", unique)).
		Build("HyperRAM")

	p.Device = device.MakeBuilder().
		WithEngine(p.Engine).
		WithFreq(freq).
		WithLink(pp.Link()).
		WithLatency(b.cfg.Device.Latency).
		WithClockToOut(b.cfg.Device.ClockToOut).
		WithCapacity(b.cfg.Device.Capacity).
		WithStrobe(b.cfg.Device.Strobe).
		Build("Device")

	p.Metrics = metrics.NewCollector()
	p.Controller.AcceptHook(p.Metrics)
	p.Controller.AcceptHook(hyperram.NewLogHook(p.logger))

	if err := p.setupRecording(); err != nil {
		return nil, err
	}

	if err := p.setupMonitoring(); err != nil {
		if p.Recorder != nil {
			_ = p.Recorder.Close()
		}

		return nil, err
	}

	p.queueTransactions()

	return p, nil
}

func (p *Platform) setupRecording() error {
	if !p.cfg.Recording.Enabled {
		return nil
	}

	rec, err := recording.New(p.cfg.Recording.Path)
	if err != nil {
		return fmt.Errorf("creating recording: %w", err)
	}

	return p.attachRecorder(rec)
}

// attachRecorder hooks the recorder to the controller. The recorder is
// closed if its tables cannot be created.
func (p *Platform) attachRecorder(rec recording.Recorder) error {
	hook, err := hyperram.NewRecorderHook(rec, p.cfg.Recording.Waveform)
	if err != nil {
		_ = rec.Close()
		return fmt.Errorf("creating recording: %w", err)
	}

	p.Recorder = rec
	p.Controller.AcceptHook(hook)

	return nil
}

func (p *Platform) setupMonitoring() error {
	if !p.cfg.Monitoring.Enabled {
		return nil
	}

	m := monitoring.NewMonitor().
		WithPortNumber(p.cfg.Monitoring.Port).
		WithBrowser(p.cfg.Monitoring.OpenBrowser)
	m.RegisterEngine(p.Engine)
	m.RegisterComponent(p.Controller)
	m.RegisterComponent(p.Device)
	m.RegisterGatherer(p.Metrics.Registry())

	url, err := m.StartServer()
	if err != nil {
		return err
	}

	p.Monitor = m
	p.MonitorURL = url
	p.progress = m.CreateProgressBar("Transactions",
		uint64(len(p.cfg.Transactions)))
	p.Controller.AcceptHook(progressHook{bar: p.progress})

	return nil
}

func (p *Platform) queueTransactions() {
	for _, t := range p.cfg.Transactions {
		var txn *host.Transaction

		switch {
		case t.Op == config.OpWrite && len(t.Data) == 1:
			txn = p.Host.Write(t.Address, t.Data[0], t.ByteSelect())
		case t.Op == config.OpWrite:
			txn = p.Host.BurstWrite(t.Address, t.Data)
			txn.Sel = t.ByteSelect()
		default:
			txn = p.Host.BurstRead(t.Address, t.Words())
		}

		p.txns = append(p.txns, txn)
	}
}

// Transactions returns the host transactions in scenario order.
func (p *Platform) Transactions() []*host.Transaction {
	return p.txns
}

// Run simulates until every transaction is done and returns the report.
func (p *Platform) Run() (*Summary, error) {
	start := time.Now()

	p.Controller.TickLater()

	if err := p.Engine.Run(); err != nil {
		return nil, fmt.Errorf("running simulation: %w", err)
	}

	if p.Recorder != nil {
		if err := p.Recorder.Flush(); err != nil {
			return nil, err
		}
	}

	r := p.summary()

	p.logger.Info("simulation finished",
		zap.Int("transactions", r.Transactions),
		zap.Int("timed_out", r.TimedOut),
		zap.Int("mismatches", len(r.Mismatches)),
		zap.Uint64("cycles", r.Cycles),
		zap.Uint64("events", p.Engine.Stats().Handled),
		zap.Float64("sim_time", float64(r.SimTime)),
		zap.Duration("wall_time", time.Since(start)))

	return r, nil
}

// Close flushes the recording and stops the monitor.
func (p *Platform) Close() error {
	if p.Monitor != nil {
		p.Monitor.CompleteProgressBar(p.progress)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := p.Monitor.Shutdown(ctx); err != nil {
			return err
		}
	}

	if p.Recorder != nil {
		return p.Recorder.Close()
	}

	return nil
}

type progressHook struct {
	bar *monitoring.ProgressBar
}

func (h progressHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case hyperram.HookPosTransactionStart:
		h.bar.Begin(1)
	case hyperram.HookPosTransactionEnd:
		h.bar.Complete(1)
	}
}
