package config

import (
	"os"
	"strings"

	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
)

// SeedPrefix marks environment variables that carry pre-existing resource ids.
const SeedPrefix = "XBE_TEST_"

// Seeds holds the XBE_TEST_* variables captured once at startup.
// Keys are stored with the prefix, e.g. "XBE_TEST_BROKER_ID".
type Seeds map[string]string

// SeedsFromEnviron collects non-empty XBE_TEST_* entries from a KEY=VALUE list.
func SeedsFromEnviron(environ []string) Seeds {
	seeds := Seeds{}
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, SeedPrefix) || value == "" {
			continue
		}
		seeds[key] = value
	}
	return seeds
}

func SeedsFromOS() Seeds {
	return SeedsFromEnviron(os.Environ())
}

// Get accepts both "XBE_TEST_BROKER_ID" and the short form "BROKER_ID".
func (s Seeds) Get(name string) (string, bool) {
	v, ok := s[seedKey(name)]
	return v, ok
}

// Require returns a MissingSeedError for the first name that is not set.
func (s Seeds) Require(names ...string) error {
	for _, name := range names {
		if _, ok := s.Get(name); !ok {
			return srvErrors.NewMissingSeedError(seedKey(name))
		}
	}
	return nil
}

// With returns a copy of s with name set to value.
func (s Seeds) With(name, value string) Seeds {
	out := make(Seeds, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[seedKey(name)] = value
	return out
}

func seedKey(name string) string {
	name = strings.ToUpper(name)
	if strings.HasPrefix(name, SeedPrefix) {
		return name
	}
	return SeedPrefix + name
}
