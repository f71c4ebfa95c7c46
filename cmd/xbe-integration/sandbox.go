package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xbe-inc/xbe-integration/internal/config"
	"github.com/xbe-inc/xbe-integration/internal/sandbox"
)

func newSandboxCommand() *cobra.Command {
	var (
		addr   string
		secret string
		noAuth bool
	)

	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Serve every suite resource from memory for local runs",
		Long: `sandbox starts an in-memory JSON:API service exposing every resource of the
catalog and prints the base URL and a bearer token to use with it. Records are
lost when the process exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString(config.FlagSuitesDir)
			cat, err := loadCatalog(dir)
			if err != nil {
				return err
			}

			opts := []sandbox.Option{sandbox.WithAddr(addr)}
			if secret != "" {
				opts = append(opts, sandbox.WithSecret([]byte(secret)))
			}
			if noAuth {
				opts = append(opts, sandbox.WithoutAuth())
			}

			sb, err := sandbox.Start(cat, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "export XBE_BASE_URL=%s\n", sb.URL())
			if !noAuth {
				fmt.Fprintf(out, "export XBE_TOKEN=%s\n", sb.Token())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			return sb.Stop(context.Background())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&secret, "secret", "", "HMAC secret signing the tokens; random when empty")
	cmd.Flags().BoolVar(&noAuth, "no-auth", false, "accept requests without a token")
	cmd.Flags().String(config.FlagSuitesDir, "", "directory with additional suite definitions (*.yaml)")
	return cmd
}
