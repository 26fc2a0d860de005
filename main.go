package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/go-authgate/ispconfig-auth/internal/bootstrap"
	"github.com/go-authgate/ispconfig-auth/internal/config"
	"github.com/go-authgate/ispconfig-auth/internal/version"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ispconfig-auth",
		Short: "User backend authenticating mail users against ISPConfig",
		Long: `ispconfig-auth verifies logins against the mail users of an ISPConfig
panel through its remote API and provisions a local account on the first
successful login.

Configuration is read from the environment (and an optional .env file).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServerCmd(), newCheckCmd(), newVersionCmd())
	root.CompletionOptions.DisableDefaultCmd = true
	return root
}

func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the user backend HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return bootstrap.Run(cmd.Context(), config.Load())
		},
	}
}

func newCheckCmd() *cobra.Command {
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "check LOGIN",
		Short: "Verify one login against the panel",
		Long: `Runs a single password check exactly like the HTTP API does, including
provisioning of the local account on success. The password is read from
the ISPCONFIG_AUTH_PASSWORD environment variable, or from stdin with
--password-stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(passwordStdin, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runCheck(cmd.Context(), cmd.OutOrStdout(), config.Load(), args[0], password)
		},
	}
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			version.PrintVersion()
		},
	}
}

// readPassword takes the first line of in, or the environment variable
func readPassword(fromStdin bool, in io.Reader) (string, error) {
	if !fromStdin {
		if password := os.Getenv("ISPCONFIG_AUTH_PASSWORD"); password != "" {
			return password, nil
		}
		return "", errors.New("set ISPCONFIG_AUTH_PASSWORD or use --password-stdin")
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("empty password on stdin")
	}
	return password, nil
}

func runCheck(ctx context.Context, out io.Writer, cfg *config.Config, login, password string) error {
	app, err := bootstrap.Setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(context.WithoutCancel(ctx)); err != nil {
			log.Printf("Error during cleanup: %v", err)
		}
	}()

	user, err := app.Backend.CheckPassword(ctx, login, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Fprintf(out, "uid:          %s\n", user.LocalID)
	fmt.Fprintf(out, "email:        %s\n", user.Email())
	fmt.Fprintf(out, "display name: %s\n", user.DisplayNameOrID())
	return nil
}
