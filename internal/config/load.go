package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag names. The env var for each is XBE_<NAME> with dashes turned into underscores.
const (
	FlagConfig           = "config"
	FlagMode             = "mode"
	FlagBaseURL          = "base-url"
	FlagToken            = "token"
	FlagBinary           = "binary"
	FlagTimeout          = "timeout"
	FlagParallel         = "parallel"
	FlagTransientRetries = "retries"
	FlagSuitesDir        = "suites-dir"
	FlagFailFast         = "fail-fast"
	FlagVerbose          = "verbose"
	FlagDataFolder       = "data-folder"
	FlagXLSXPath         = "xlsx"
	FlagLogFormat        = "log-format"
	FlagLogLevel         = "log-level"
)

// RegisterTargetFlags adds the flags shared by every command that talks to xbe.
func RegisterTargetFlags(fs *pflag.FlagSet) {
	d := NewConfigurationWithOptionsAndDefaults()
	fs.String(FlagConfig, "", "optional YAML file with the same keys as the flags")
	fs.String(FlagMode, d.Target.Mode, "how requests reach the API: cli (run the xbe binary) or api (direct JSON:API calls)")
	fs.String(FlagBaseURL, d.Target.BaseURL, "API base URL")
	fs.String(FlagToken, d.Target.Token, "API token (XBE_TOKEN or XBE_API_TOKEN)")
	fs.String(FlagBinary, d.Target.Binary, "path of the xbe binary used in cli mode")
	fs.Duration(FlagTimeout, d.Target.Timeout, "timeout of a single invocation")
	fs.String(FlagLogFormat, d.LogFormat, "log format: console or json")
	fs.String(FlagLogLevel, d.LogLevel, "log level")
}

// RegisterRunFlags adds the flags of the run command.
func RegisterRunFlags(fs *pflag.FlagSet) {
	d := NewConfigurationWithOptionsAndDefaults()
	fs.Int(FlagParallel, d.Run.Parallel, "number of suites executed concurrently")
	fs.Uint(FlagTransientRetries, d.Run.TransientRetries, "attempts for reads failing with transient errors")
	fs.String(FlagSuitesDir, d.Run.SuitesDir, "directory with additional suite definitions (*.yaml)")
	fs.Bool(FlagFailFast, d.Run.FailFast, "stop a suite at its first failing case")
	fs.BoolP(FlagVerbose, "v", d.Run.Verbose, "log every invocation with its exit code and duration")
	RegisterReportFlags(fs)
}

func RegisterReportFlags(fs *pflag.FlagSet) {
	d := NewConfigurationWithOptionsAndDefaults()
	fs.String(FlagDataFolder, d.Report.DataFolder, "folder of the run history database; empty disables history")
	fs.String(FlagXLSXPath, d.Report.XLSXPath, "write an xlsx report to this path")
}

// Load builds a Configuration from flags, an optional config file and defaults,
// in that order of precedence. Environment variables are expected to have been
// synced into the flag set before.
func Load(fs *pflag.FlagSet) (*Configuration, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if file := v.GetString(FlagConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := NewConfigurationWithOptionsAndDefaults()
	setString(v, FlagMode, &cfg.Target.Mode)
	setString(v, FlagBaseURL, &cfg.Target.BaseURL)
	setString(v, FlagToken, &cfg.Target.Token)
	setString(v, FlagBinary, &cfg.Target.Binary)
	if v.IsSet(FlagTimeout) {
		cfg.Target.Timeout = v.GetDuration(FlagTimeout)
	}
	if v.IsSet(FlagParallel) {
		cfg.Run.Parallel = v.GetInt(FlagParallel)
	}
	if v.IsSet(FlagTransientRetries) {
		cfg.Run.TransientRetries = v.GetUint(FlagTransientRetries)
	}
	setString(v, FlagSuitesDir, &cfg.Run.SuitesDir)
	if v.IsSet(FlagFailFast) {
		cfg.Run.FailFast = v.GetBool(FlagFailFast)
	}
	if v.IsSet(FlagVerbose) {
		cfg.Run.Verbose = v.GetBool(FlagVerbose)
	}
	setString(v, FlagDataFolder, &cfg.Report.DataFolder)
	setString(v, FlagXLSXPath, &cfg.Report.XLSXPath)
	setString(v, FlagLogFormat, &cfg.LogFormat)
	setString(v, FlagLogLevel, &cfg.LogLevel)

	// The xbe CLI itself accepts XBE_API_TOKEN as an alias.
	if cfg.Target.Token == "" {
		cfg.Target.Token = os.Getenv("XBE_API_TOKEN")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}
