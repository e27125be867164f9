package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds the application's configuration
type Config struct {
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Policy    PolicyConfig    `mapstructure:"policy"`
	Taskset   TasksetConfig   `mapstructure:"taskset"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// SchedulerConfig contains run-level settings
type SchedulerConfig struct {
	// Ticks is the run length; 0 means one hyperperiod of the taskset.
	Ticks uint32 `mapstructure:"ticks"`
	// ReportInterval is the cadence of progress reports in ticks; 0
	// disables interim reports.
	ReportInterval uint32 `mapstructure:"report_interval"`
}

// PolicyConfig selects the decision policy
type PolicyConfig struct {
	Name string `mapstructure:"name"`
	// WeightsPath locates the quantized weights artifact; required for
	// the neural policy, ignored by the classical ones.
	WeightsPath string `mapstructure:"weights_path"`
}

// TaskSpec describes one periodic task, all quantities in ticks
type TaskSpec struct {
	Period   uint32 `mapstructure:"period"`
	Deadline uint32 `mapstructure:"deadline"`
	WCET     uint32 `mapstructure:"wcet"`
}

// TasksetConfig selects the taskset: a named preset or a custom list
type TasksetConfig struct {
	Preset string     `mapstructure:"preset"`
	Tasks  []TaskSpec `mapstructure:"tasks"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig contains metrics export settings
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// Tasksets used during policy training. The normal set has utilization
// ~1.03, the stressed one ~1.15 with heavier WCETs.
var (
	normalTaskset = []TaskSpec{
		{Period: 10, Deadline: 10, WCET: 2},
		{Period: 15, Deadline: 15, WCET: 3},
		{Period: 20, Deadline: 20, WCET: 4},
		{Period: 30, Deadline: 30, WCET: 5},
		{Period: 50, Deadline: 50, WCET: 8},
		{Period: 100, Deadline: 100, WCET: 10},
	}
	stressedTaskset = []TaskSpec{
		{Period: 10, Deadline: 10, WCET: 3},
		{Period: 15, Deadline: 15, WCET: 3},
		{Period: 20, Deadline: 20, WCET: 4},
		{Period: 30, Deadline: 30, WCET: 5},
		{Period: 50, Deadline: 50, WCET: 8},
		{Period: 100, Deadline: 100, WCET: 12},
	}
)

// Resolve returns the concrete task list for this taskset selection.
func (tc *TasksetConfig) Resolve() ([]TaskSpec, error) {
	switch strings.ToLower(tc.Preset) {
	case "", "normal":
		return normalTaskset, nil
	case "stressed":
		return stressedTaskset, nil
	case "custom":
		if len(tc.Tasks) == 0 {
			return nil, fmt.Errorf("taskset preset 'custom' requires a non-empty tasks list")
		}
		return tc.Tasks, nil
	default:
		return nil, fmt.Errorf("unknown taskset preset %q", tc.Preset)
	}
}

var AppConfig Config

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) error {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/rtos-scheduler/")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("RTOS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Config file not found, using defaults and environment variables")
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		log.Printf("Using config file: %s", viper.ConfigFileUsed())
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&AppConfig); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() Config {
	return AppConfig
}

func setDefaults() {
	viper.SetDefault("scheduler.ticks", 0)
	viper.SetDefault("scheduler.report_interval", 50)

	viper.SetDefault("policy.name", "neural")
	viper.SetDefault("policy.weights_path", "policy_weights.json")

	viper.SetDefault("taskset.preset", "normal")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.output", "stdout")

	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.port", 9090)
	viper.SetDefault("metrics.path", "/metrics")
}

func validateConfig(cfg *Config) error {
	if cfg.Policy.Name == "" {
		return fmt.Errorf("policy.name cannot be empty")
	}

	specs, err := cfg.Taskset.Resolve()
	if err != nil {
		return err
	}
	for i, ts := range specs {
		if ts.Period == 0 {
			return fmt.Errorf("task %d: period must be positive", i)
		}
		if ts.Deadline == 0 {
			return fmt.Errorf("task %d: deadline must be positive", i)
		}
		if ts.WCET == 0 {
			return fmt.Errorf("task %d: wcet must be positive", i)
		}
		if ts.WCET > ts.Deadline {
			return fmt.Errorf("task %d: wcet %d exceeds deadline %d, the job can never finish in time",
				i, ts.WCET, ts.Deadline)
		}
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port <= 0 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port %d out of range", cfg.Metrics.Port)
		}
		if cfg.Metrics.Path == "" {
			return fmt.Errorf("metrics.path cannot be empty")
		}
	}

	return nil
}

// WatchConfig watches for configuration file changes. The callback fires
// with the re-validated config; changes apply between runs only, a run in
// progress is never perturbed.
func WatchConfig(callback func(Config)) {
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Printf("Config file changed: %s", e.Name)
		var next Config
		if err := viper.Unmarshal(&next); err != nil {
			log.Printf("Failed to reload config: %v", err)
			return
		}
		if err := validateConfig(&next); err != nil {
			log.Printf("Config validation failed after reload: %v", err)
			return
		}
		AppConfig = next
		if callback != nil {
			callback(next)
		}
	})
}
