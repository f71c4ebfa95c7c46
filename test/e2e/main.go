package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/internal/config"
	"github.com/xbe-inc/xbe-integration/test/e2e/infra"
)

type configuration struct {
	Backend     string // "sandbox" or "remote"
	SandboxAddr string
	BaseURL     string
	Token       string
	Mode        string // "api" or "cli"
	Binary      string
	Parallel    int
}

var (
	cfg     configuration
	backend infra.Backend
)

func (c configuration) Validate() error {
	if c.Backend != infra.BackendSandbox && c.Backend != infra.BackendRemote {
		return fmt.Errorf("invalid backend %q: must be %q or %q", c.Backend, infra.BackendSandbox, infra.BackendRemote)
	}
	if c.Backend == infra.BackendRemote {
		if c.BaseURL == "" {
			return errors.New("remote backend needs -base-url")
		}
		if _, err := url.Parse(c.BaseURL); err != nil {
			return fmt.Errorf("failed to parse base url: %v", err)
		}
	}
	if c.Mode == config.ModeCLI && c.Binary == "" {
		return errors.New("cli mode needs -binary")
	}
	if c.Parallel < 1 {
		return errors.New("parallel must be at least 1")
	}
	return nil
}

func main() {
	flag.StringVar(&cfg.Backend, "backend", infra.BackendSandbox, "Backend: 'sandbox' (in-process) or 'remote' (externally managed)")
	flag.StringVar(&cfg.SandboxAddr, "sandbox-addr", "127.0.0.1:0", "Listen address of the sandbox backend")
	flag.StringVar(&cfg.BaseURL, "base-url", os.Getenv("XBE_BASE_URL"), "Base URL of the remote backend")
	flag.StringVar(&cfg.Token, "token", os.Getenv("XBE_TOKEN"), "Token of the remote backend")
	flag.StringVar(&cfg.Mode, "mode", config.ModeAPI, "How requests reach the backend: 'api' or 'cli'")
	flag.StringVar(&cfg.Binary, "binary", "", "Path of the xbe binary in cli mode")
	flag.IntVar(&cfg.Parallel, "parallel", 1, "Suites executed concurrently")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("failed to validate configuration: %v", err)
	}

	switch cfg.Backend {
	case infra.BackendSandbox:
		backend = infra.NewSandboxBackend(cfg.SandboxAddr)
	case infra.BackendRemote:
		backend = infra.NewRemoteBackend(cfg.BaseURL, cfg.Token)
	}

	RegisterFailHandler(Fail)
	if !RunSpecs(&testing.T{}, "E2E Suite") {
		os.Exit(1)
	}
}
