package config

import (
	"fmt"
	"time"
)

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Target Run Report

const (
	ModeCLI = "cli"
	ModeAPI = "api"

	DefaultBaseURL = "https://app.x-b-e.com"
)

type Configuration struct {
	Target    Target `debugmap:"visible"`
	Run       Run    `debugmap:"visible"`
	Report    Report `debugmap:"visible"`
	LogFormat string `debugmap:"visible" default:"console"`
	LogLevel  string `debugmap:"visible" default:"info"`
}

// Target describes the xbe deployment under test and how it is reached.
type Target struct {
	Mode    string        `debugmap:"visible" default:"cli"`
	BaseURL string        `debugmap:"visible" default:"https://app.x-b-e.com"`
	Token   string        `debugmap:"sensitive"`
	Binary  string        `debugmap:"visible" default:"xbe"`
	Timeout time.Duration `debugmap:"visible" default:"60s"`
}

type Run struct {
	Parallel         int      `debugmap:"visible" default:"1"`
	TransientRetries uint     `debugmap:"visible" default:"3"`
	SuitesDir        string   `debugmap:"visible"`
	Suites           []string `debugmap:"visible"`
	FailFast         bool     `debugmap:"visible" default:"false"`
	Verbose          bool     `debugmap:"visible" default:"false"`
}

type Report struct {
	DataFolder string `debugmap:"visible"`
	XLSXPath   string `debugmap:"visible"`
}

func (c *Configuration) Validate() error {
	switch c.Target.Mode {
	case ModeCLI:
		if c.Target.Binary == "" {
			return fmt.Errorf("binary is required in %s mode", ModeCLI)
		}
	case ModeAPI:
		if c.Target.BaseURL == "" {
			return fmt.Errorf("base url is required in %s mode", ModeAPI)
		}
	default:
		return fmt.Errorf("unknown mode %q: expected %q or %q", c.Target.Mode, ModeCLI, ModeAPI)
	}
	if c.Run.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", c.Run.Parallel)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
