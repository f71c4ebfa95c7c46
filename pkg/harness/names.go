package harness

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const uniqueTimeLayout = "20060102T150405"

// UniqueName returns "<prefix>-<UTC timestamp>-<12 hex chars>". Two calls
// never collide, even within the same second.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().UTC().Format(uniqueTimeLayout), shortID())
}

// UniqueEmail returns an address under example.com built like UniqueName.
func UniqueEmail() string {
	return fmt.Sprintf("xbe-test-%s-%s@example.com", strings.ToLower(time.Now().UTC().Format(uniqueTimeLayout)), shortID())
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
