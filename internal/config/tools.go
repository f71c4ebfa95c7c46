//go:build tools

package config

import (
	_ "github.com/ecordell/optgen"
)
