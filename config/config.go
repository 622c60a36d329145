// Package config loads the scenario files of the HyperRAM simulator.
package config

// Config is a complete simulation scenario.
type Config struct {
	Clock        ClockConfig         `yaml:"clock"`
	PHY          PHYConfig           `yaml:"phy"`
	Device       DeviceConfig        `yaml:"device"`
	Host         HostConfig          `yaml:"host"`
	Log          LogConfig           `yaml:"log"`
	Recording    RecordingConfig     `yaml:"recording"`
	Monitoring   MonitoringConfig    `yaml:"monitoring"`
	Transactions []TransactionConfig `yaml:"transactions"`
}

// ---- CLOCK ----

type ClockConfig struct {
	FreqMHz float64 `yaml:"freq_mhz"`
}

// ---- PHY ----

type PHYConfig struct {
	SyncStages     int  `yaml:"sync_stages"`
	ResetLine      bool `yaml:"reset_line"`
	IODelayTaps    int  `yaml:"io_delay_taps"`
	ClockDelayTaps int  `yaml:"clock_delay_taps"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Latency    int    `yaml:"latency"`
	ClockToOut int    `yaml:"clock_to_out"`
	Capacity   uint64 `yaml:"capacity"`
	Strobe     bool   `yaml:"strobe"`
}

// ---- HOST ----

type HostConfig struct {
	UpstreamTimeout int `yaml:"upstream_timeout"`
}

// ---- OBSERVABILITY ----

type LogConfig struct {
	// Level is one of debug, info, warn and error.
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type RecordingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Path     string `yaml:"path"` // without the .sqlite3 suffix
	Waveform bool   `yaml:"waveform"`

	// UniqueIDs gives transactions xid IDs instead of counters, so that the
	// recordings of several runs can be merged.
	UniqueIDs bool `yaml:"unique_ids"`
}

type MonitoringConfig struct {
	Enabled     bool `yaml:"enabled"`
	Port        int  `yaml:"port"`
	OpenBrowser bool `yaml:"open_browser"`
}

// ---- TRANSACTIONS ----

// Operations of a transaction.
const (
	OpRead  = "read"
	OpWrite = "write"
)

// TransactionConfig is one host transaction of the scenario. A write
// carries its words in Data. A read moves Length words and, when Expect is
// set, is checked against it.
type TransactionConfig struct {
	Op      string   `yaml:"op"`
	Address uint32   `yaml:"address"`
	Data    []uint32 `yaml:"data"`
	Sel     *uint8   `yaml:"sel"` // defaults to all four bytes
	Length  int      `yaml:"length"`
	Expect  []uint32 `yaml:"expect"`
}

// Words returns the number of words the transaction moves.
func (t TransactionConfig) Words() int {
	if t.Op == OpWrite {
		return len(t.Data)
	}

	if t.Length == 0 {
		return 1
	}

	return t.Length
}

// ByteSelect returns the byte-select mask of a write.
func (t TransactionConfig) ByteSelect() uint8 {
	if t.Sel == nil {
		return 0xF
	}

	return *t.Sel
}

// Default returns the scenario the simulator runs without a file: a 100 MHz
// controller, a three-stage PHY and a device with latency 11 and a
// clock-to-out of 2 bit-times.
func Default() *Config {
	return &Config{
		Clock: ClockConfig{FreqMHz: 100},
		PHY:   PHYConfig{SyncStages: 3},
		Device: DeviceConfig{
			Latency:    11,
			ClockToOut: 2,
			Capacity:   8 << 20,
			Strobe:     true,
		},
		Host: HostConfig{UpstreamTimeout: 128},
		Log:  LogConfig{Level: "info"},
		Monitoring: MonitoringConfig{
			Port: 0,
		},
	}
}
