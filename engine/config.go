package engine

import (
	"time"

	"github.com/lybxkl/subengine/common/constant"
)

// Config carries the engine's own tunables — every policy switch named
// in §4 and §9 of the core spec, plus the resource limits SPEC_FULL
// adds. The broker-level config loader embeds this under an "engine"
// table; engine.DefaultConfig returns the config.toml defaults. New uses
// the Config it is given as is: a zero Config is not filled in from
// DefaultConfig.
type Config struct {
	// MaxFilterLen and MaxLevelLen bound SubAdd's input, matching
	// §3 invariant 6.
	MaxFilterLen int `toml:"max_filter_len" label:"最大订阅主题长度" validate:"omitempty,gt=0"`
	MaxLevelLen  int `toml:"max_level_len" label:"最大主题层级长度" validate:"omitempty,gt=0"`

	// UpgradeOutgoingQos, when true, hands the publisher's QoS through
	// unchanged instead of §4.5's default min-of-both rule.
	UpgradeOutgoingQos bool `toml:"upgrade_outgoing_qos"`

	// LegacyRetainReplay selects §4.4's legacy-protocol SubAdd return
	// value for an updating re-subscribe.
	LegacyRetainReplay bool `toml:"legacy_retain_replay"`

	// ShareRotateOnDeny resolves §9's "observed oddity": whether a
	// shared-group head that was skipped by ACL still consumes its
	// rotation turn.
	ShareRotateOnDeny bool `toml:"share_rotate_on_deny"`

	// SubRatePerSec/SubRateBurst configure the per-client SubAdd rate
	// limiter; SubRatePerSec == 0 disables it. Otherwise each client's
	// bucket allows SubRateBurst calls per second, or SubRatePerSec calls
	// when SubRateBurst is 0; there is no separate refill rate, so a
	// non-zero SubRateBurst overrides SubRatePerSec as the rate.
	SubRatePerSec int `toml:"sub_rate_per_sec" validate:"omitempty,gte=0"`
	SubRateBurst  int `toml:"sub_rate_burst" validate:"omitempty,gte=0"`

	// WorkerPoolSize sizes internal/gopool for the $SYS observability
	// publish.
	WorkerPoolSize int `toml:"worker_pool_size" validate:"omitempty,gt=0"`

	// StatsFlushInterval is how often the demo wiring flushes Counters;
	// the engine itself does not schedule anything (§5 forbids the
	// engine from owning timers).
	StatsFlushInterval Duration `toml:"stats_flush_interval"`
}

// Duration wraps time.Duration with UnmarshalText so BurntSushi/toml can
// parse a quoted value like "10s" straight off the config file, the way
// the rest of engine.Config's scalar fields unmarshal without a
// second parsing pass at the call site.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig mirrors SPEC_FULL.md §2.2's config.toml defaults.
func DefaultConfig() Config {
	return Config{
		MaxFilterLen:       constant.MaxFilterLen,
		MaxLevelLen:        constant.MaxLevelLen,
		UpgradeOutgoingQos: false,
		LegacyRetainReplay: false,
		ShareRotateOnDeny:  true,
		SubRatePerSec:      0,
		SubRateBurst:       0,
		WorkerPoolSize:     32,
		StatsFlushInterval: Duration{10 * time.Second},
	}
}
