package config

import (
	"errors"
	"runtime"

	"github.com/spf13/viper"

	"github.com/azqeurio/sd-to-c-sort/internal/domain"
)

// Config is the full configuration for one run. It is assembled once at
// startup and immutable afterwards.
type Config struct {
	SourceDir string
	DestRoot  string

	GroupBy        domain.GroupMode
	SeparateRawJpg bool
	Policy         domain.DuplicatePolicy
	Mode           domain.TransferMode

	Recursive     bool
	SkipIdentical bool
	Workers       int
	DryRun        bool

	Verbose bool
	NoTUI   bool
}

// SetDefaults seeds viper with the defaults used when neither flag, env nor
// config file provides a value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("group_by", string(domain.GroupByCamera))
	v.SetDefault("separate_raw_jpg", false)
	v.SetDefault("duplicates", string(domain.PolicyRename))
	v.SetDefault("mode", string(domain.ModeCopy))
	v.SetDefault("recursive", true)
	v.SetDefault("skip_identical", false)
	v.SetDefault("workers", defaultWorkers())
}

// FromViper builds and validates a Config from the resolved viper state.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		SourceDir:      v.GetString("source"),
		DestRoot:       v.GetString("dest"),
		SeparateRawJpg: v.GetBool("separate_raw_jpg"),
		Recursive:      v.GetBool("recursive"),
		SkipIdentical:  v.GetBool("skip_identical"),
		Workers:        v.GetInt("workers"),
		DryRun:         v.GetBool("dry_run"),
		Verbose:        v.GetBool("verbose"),
		NoTUI:          v.GetBool("no_tui"),
	}

	if cfg.SourceDir == "" || cfg.DestRoot == "" {
		return Config{}, errors.New("source and dest are required")
	}
	if cfg.SourceDir == cfg.DestRoot {
		return Config{}, errors.New("source and dest must differ")
	}

	var err error
	if cfg.GroupBy, err = domain.ParseGroupMode(v.GetString("group_by")); err != nil {
		return Config{}, err
	}
	if cfg.Policy, err = domain.ParseDuplicatePolicy(v.GetString("duplicates")); err != nil {
		return Config{}, err
	}
	if cfg.Mode, err = domain.ParseTransferMode(v.GetString("mode")); err != nil {
		return Config{}, err
	}

	if cfg.Workers < 1 {
		cfg.Workers = defaultWorkers()
	}

	return cfg, nil
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > 4 {
		// Removable media rarely benefit from more parallel writers.
		n = 4
	}
	if n < 1 {
		n = 1
	}
	return n
}
