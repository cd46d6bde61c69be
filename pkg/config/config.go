// Package config loads the engine channel harness's tunables from
// defaults, a config file, environment variables, and command-line
// flags, in increasing order of priority.
package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment-variable override, e.g.
// RTSCRIPT_SAMPLE_RATE.
const EnvPrefix = "RTSCRIPT"

// Config holds every tunable the engine-channel harness (pkg/enginechannel)
// is sized from.
type Config struct {
	SampleRate uint32 `mapstructure:"sample_rate"`

	// MaxNotes bounds the preallocated note pool size — the concrete
	// value behind §5's GLOBAL_MAX_NOTES ceiling.
	MaxNotes int `mapstructure:"max_notes"`
	// MaxVoicesPerNote is loaded but no component reads it; the harness
	// keeps no voices.
	MaxVoicesPerNote int `mapstructure:"max_voices_per_note"`
	// MaxForksPerHandler bounds how many children fork() may create from
	// one script callback; 0 means no per-callback limit.
	MaxForksPerHandler int `mapstructure:"max_forks_per_handler"`
	// EventGroupCount is loaded but not consulted: callbacks use the fixed
	// sched.EventGroupCount (32) groups that by_marks/set_event_mark
	// address.
	EventGroupCount int `mapstructure:"event_group_count"`
	// ScriptCallbackPoolSize bounds the total number of concurrently
	// live script callbacks (root handlers plus forked children).
	ScriptCallbackPoolSize int `mapstructure:"script_callback_pool_size"`

	// IngressCapacity is loaded but no component reads it; nothing sizes
	// the control-thread-to-audio-thread ring buffer (C16) from it.
	IngressCapacity int `mapstructure:"ingress_capacity"`
	// MetricsAddr is loaded but no component reads it; nothing serves the
	// /metrics endpoint (C15) from it.
	MetricsAddr string `mapstructure:"metrics_addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sample_rate", 44100)
	v.SetDefault("max_notes", 1024)
	v.SetDefault("max_voices_per_note", 8)
	v.SetDefault("max_forks_per_handler", 8)
	v.SetDefault("event_group_count", 32)
	v.SetDefault("script_callback_pool_size", 64)
	v.SetDefault("ingress_capacity", 4096)
	v.SetDefault("metrics_addr", ":9090")
}

// New returns a viper instance pre-seeded with defaults, environment
// variable binding (RTSCRIPT_ prefix, underscored keys), and — if
// configPath is non-empty — a YAML config file merged in at file
// priority (above defaults, below env/flags).
func New(configPath string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", configPath, err)
		}
	}
	return v, nil
}

// flagKeys maps every Config mapstructure key to its flag name.
var flagKeys = map[string]string{
	"sample_rate":               "sample-rate",
	"max_notes":                 "max-notes",
	"max_voices_per_note":       "max-voices-per-note",
	"max_forks_per_handler":     "max-forks-per-handler",
	"event_group_count":         "event-group-count",
	"script_callback_pool_size": "script-callback-pool-size",
	"ingress_capacity":          "ingress-capacity",
	"metrics_addr":              "metrics-addr",
}

// BindFlags registers cmd's persistent flags for every Config field and
// binds them into v at flag priority (above env and file). Call this once
// per cobra.Command; use BindExistingFlags to rebind an already-flagged
// command's flags into a different Viper instance (e.g. after --config
// is known to name a file).
func BindFlags(cmd *cobra.Command, v *viper.Viper) error {
	flags := cmd.PersistentFlags()
	flags.Uint32("sample-rate", 44100, "audio sample rate in Hz")
	flags.Int("max-notes", 1024, "maximum concurrently live notes")
	flags.Int("max-voices-per-note", 8, "maximum voices per note")
	flags.Int("max-forks-per-handler", 8, "maximum fork() children per root handler")
	flags.Int("event-group-count", 32, "number of event-mark groups")
	flags.Int("script-callback-pool-size", 64, "maximum concurrently live script callbacks")
	flags.Int("ingress-capacity", 4096, "control-thread ingress ring buffer capacity")
	flags.String("metrics-addr", ":9090", "address for a /metrics endpoint (not read by any subcommand)")
	return BindExistingFlags(flags, v)
}

// BindExistingFlags binds an already-registered flag set into v, without
// redefining any flag — safe to call again against a fresh Viper instance.
func BindExistingFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	for key, flag := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("config: binding --%s: %w", flag, err)
		}
	}
	return nil
}

// Load unmarshals v's merged configuration into a Config.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &c, nil
}
