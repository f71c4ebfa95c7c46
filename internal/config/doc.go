// Package config defines the configuration structure for xbe-integration.
//
// Configuration is organized into logical sections (Target, Run, Report)
// and uses code generation via optgen to create functional option helpers.
//
// # Configuration Structure
//
//	Configuration
//	├── Target         - Which xbe deployment is exercised and how
//	├── Run            - Suite selection and execution behavior
//	├── Report         - Run history and xlsx export
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Target Configuration
//
//	┌─────────┬─────────────────────────┬──────────────────────────────────────────┐
//	│ Field   │ Default                 │ Description                              │
//	├─────────┼─────────────────────────┼──────────────────────────────────────────┤
//	│ Mode    │ "cli"                   │ "cli" runs the xbe binary, "api" speaks  │
//	│         │                         │ JSON:API directly                        │
//	│ BaseURL │ "https://app.x-b-e.com" │ API base URL (XBE_BASE_URL)              │
//	│ Token   │ ""                      │ Bearer token (XBE_TOKEN, XBE_API_TOKEN)  │
//	│ Binary  │ "xbe"                   │ Binary used in cli mode                  │
//	│ Timeout │ 60s                     │ Timeout of a single invocation           │
//	└─────────┴─────────────────────────┴──────────────────────────────────────────┘
//
// # Run Configuration
//
//	┌──────────────────┬─────────┬──────────────────────────────────────────────┐
//	│ Field            │ Default │ Description                                  │
//	├──────────────────┼─────────┼──────────────────────────────────────────────┤
//	│ Parallel         │ 1       │ Suites executed concurrently                 │
//	│ TransientRetries │ 3       │ Attempts for reads failing transiently       │
//	│ SuitesDir        │ ""      │ Extra directory of suite definitions         │
//	│ Suites           │ []      │ Selected suites, empty means all             │
//	│ FailFast         │ false   │ Stop scheduling after the first failure      │
//	│ Verbose          │ false   │ Echo every command and its output            │
//	└──────────────────┴─────────┴──────────────────────────────────────────────┘
//
// # Report Configuration
//
//	┌────────────┬─────────┬────────────────────────────────────────────────┐
//	│ Field      │ Default │ Description                                    │
//	├────────────┼─────────┼────────────────────────────────────────────────┤
//	│ DataFolder │ ""      │ Folder of history.duckdb, empty disables it    │
//	│ XLSXPath   │ ""      │ Where to write the xlsx report                 │
//	└────────────┴─────────┴────────────────────────────────────────────────┘
//
// # Sources
//
// Values are resolved in this order, first match wins:
//
//  1. command line flags
//  2. XBE_* environment variables, synced into the flags by cobrautil
//  3. the YAML file given with --config
//  4. the defaults declared in the struct tags
//
// # Seeds
//
// Suites that need pre-existing records (a job, a time card, a broker the
// token may act on) read their ids from XBE_TEST_* variables. They are captured
// once into an immutable Seeds map:
//
//	seeds := config.SeedsFromOS()
//	if err := seeds.Require("JOB_ID"); err != nil {
//	    // skip the suite, err names the variable
//	}
//
// # Code Generation
//
// The package uses optgen to generate functional option helpers:
//
//	//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Target Run Report
//
// Generated helpers include:
//
//   - NewConfigurationWithOptionsAndDefaults(...ConfigurationOption) - Create with defaults + options
//   - WithTarget(Target), WithRun(Run), etc. - Set nested structs
//   - DebugMap() - Returns map for debug logging (respects debugmap tags)
//
// # Debug Logging
//
// The token is tagged `debugmap:"sensitive"` so it never reaches the logs:
//
//	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())
package config
