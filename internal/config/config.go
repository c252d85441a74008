// Package config loads and exposes the dispatcher's runtime configuration.
//
// Configuration precedence follows the teacher's layering: command-line
// flags override environment variables, which override a config file,
// which overrides the defaults set here.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultTemperature is room temperature in kelvin.
	DefaultTemperature = 298.15
	// DefaultElectronFreeEnergy is the default electron free energy used by redox predicates.
	DefaultElectronFreeEnergy = -1.4
	// DefaultCommitFreq is the number of reactions committed per store transaction.
	DefaultCommitFreq = 1000
	// DefaultNumberOfProcesses is the default worker pool size.
	DefaultNumberOfProcesses = 8

	// KB is Boltzmann's constant in eV/K.
	KB = 8.617333262e-5
	// PlanckH is Planck's constant in eV*s.
	PlanckH = 4.135667696e-15
)

// Params holds the values predicates are allowed to read but never mutate.
type Params struct {
	Temperature        float64
	ElectronFreeEnergy float64
	KB                 float64
	PlanckH            float64
}

// KT returns k_B * Temperature, the thermal energy scale used by default_rate.
func (p Params) KT() float64 {
	return p.KB * p.Temperature
}

// RMax returns kT / h, the rate ceiling used by default_rate.
func (p Params) RMax() float64 {
	return p.KT() / p.PlanckH
}

// Dispatch holds the process-wide options from the dispatcher configuration table.
type Dispatch struct {
	Params

	CommitFreq        int
	NumberOfProcesses int
	FactorZero        float64
	FactorTwo         float64
	FactorDuplicate   float64
	Verbose           bool

	BucketDBPath   string
	ReactionDBPath string
	ReportPath     string
	TreeConfigPath string
	LogPath        string
}

var v *viper.Viper

// Initialize sets up the viper singleton with defaults, environment binding
// (CRNGEN_ prefix) and an optional config file. Should be called once at
// startup, mirroring the teacher's internal/config.Initialize.
func Initialize(configFile string) error {
	v = viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix("CRNGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("temperature", DefaultTemperature)
	v.SetDefault("electron-free-energy", DefaultElectronFreeEnergy)
	v.SetDefault("commit-freq", DefaultCommitFreq)
	v.SetDefault("number-of-processes", DefaultNumberOfProcesses)
	v.SetDefault("factor-zero", 1.0)
	v.SetDefault("factor-two", 1.0)
	v.SetDefault("factor-duplicate", 1.0)
	v.SetDefault("verbose", false)

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return fmt.Errorf("config file %q not found: %w", configFile, err)
		}
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// LoadDispatch builds a Dispatch from the currently initialized viper
// instance. CLI flag overrides are expected to have been applied already
// through Set; the path arguments are copied in as given.
func LoadDispatch(bucketDB, reactionDB, reportPath, treeConfig, logPath string) Dispatch {
	return Dispatch{
		Params: Params{
			Temperature:        GetFloat("temperature"),
			ElectronFreeEnergy: GetFloat("electron-free-energy"),
			KB:                 KB,
			PlanckH:            PlanckH,
		},
		CommitFreq:        GetInt("commit-freq"),
		NumberOfProcesses: GetInt("number-of-processes"),
		FactorZero:        GetFloat("factor-zero"),
		FactorTwo:         GetFloat("factor-two"),
		FactorDuplicate:   GetFloat("factor-duplicate"),
		Verbose:           GetBool("verbose"),
		BucketDBPath:      bucketDB,
		ReactionDBPath:    reactionDB,
		ReportPath:        reportPath,
		TreeConfigPath:    treeConfig,
		LogPath:           logPath,
	}
}

// GetFloat retrieves a float64 configuration value.
func GetFloat(key string) float64 {
	if v == nil {
		return 0
	}
	return v.GetFloat64(key)
}

// GetInt retrieves an int configuration value.
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetBool retrieves a bool configuration value.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// Set overrides a configuration value, used to apply cobra flags that were explicitly set.
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}
