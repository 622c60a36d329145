package config

import (
	"fmt"

	"github.com/sarchlab/hyperram/hyperram/bus"
)

const maxDelayTaps = 127

// Validate checks a scenario. It does not change it.
func Validate(cfg *Config) error {
	if cfg.Clock.FreqMHz <= 0 {
		return fmt.Errorf("clock.freq_mhz must be positive, got %g",
			cfg.Clock.FreqMHz)
	}

	if cfg.PHY.SyncStages < 1 {
		return fmt.Errorf("phy.sync_stages must be at least 1, got %d",
			cfg.PHY.SyncStages)
	}

	if err := validateTaps("phy.io_delay_taps", cfg.PHY.IODelayTaps); err != nil {
		return err
	}

	if err := validateTaps("phy.clock_delay_taps", cfg.PHY.ClockDelayTaps); err != nil {
		return err
	}

	if err := validateDevice(cfg.Device); err != nil {
		return err
	}

	if cfg.Host.UpstreamTimeout < 1 {
		return fmt.Errorf("host.upstream_timeout must be positive, got %d",
			cfg.Host.UpstreamTimeout)
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error",
			cfg.Log.Level)
	}

	if cfg.Monitoring.Port < 0 || cfg.Monitoring.Port > 65535 {
		return fmt.Errorf("monitoring.port %d is out of range",
			cfg.Monitoring.Port)
	}

	for i, t := range cfg.Transactions {
		if err := validateTransaction(t); err != nil {
			return fmt.Errorf("transactions[%d]: %w", i, err)
		}
	}

	return nil
}

func validateTaps(name string, taps int) error {
	if taps < 0 || taps > maxDelayTaps {
		return fmt.Errorf("%s must be within [0, %d], got %d",
			name, maxDelayTaps, taps)
	}

	return nil
}

func validateDevice(d DeviceConfig) error {
	if d.Latency < 1 {
		return fmt.Errorf("device.latency must be at least 1, got %d",
			d.Latency)
	}

	if d.ClockToOut < 1 {
		return fmt.Errorf("device.clock_to_out must be at least 1, got %d",
			d.ClockToOut)
	}

	if d.Capacity == 0 {
		return fmt.Errorf("device.capacity cannot be 0")
	}

	return nil
}

func validateTransaction(t TransactionConfig) error {
	if t.Address > bus.AddressMask {
		return fmt.Errorf("address 0x%x does not fit in %d bits",
			t.Address, bus.AddressBits)
	}

	switch t.Op {
	case OpWrite:
		if len(t.Data) == 0 {
			return fmt.Errorf("write without data")
		}

		if t.Length != 0 || len(t.Expect) != 0 {
			return fmt.Errorf("length and expect only apply to reads")
		}

		if t.ByteSelect() > 0xF {
			return fmt.Errorf("sel 0x%x has more than four bits", t.ByteSelect())
		}
	case OpRead:
		if len(t.Data) != 0 || t.Sel != nil {
			return fmt.Errorf("data and sel only apply to writes")
		}

		if t.Length < 0 {
			return fmt.Errorf("negative length %d", t.Length)
		}

		if len(t.Expect) != 0 && len(t.Expect) != t.Words() {
			return fmt.Errorf("expect has %d words, the read moves %d",
				len(t.Expect), t.Words())
		}
	default:
		return fmt.Errorf("unknown op %q", t.Op)
	}

	return nil
}
