// Package main is the entry point for the openssl-cli application.
// It loads the environment, registers the self test and digest commands and executes the
// command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	commands "github.com/MGTheTrain/managed-openssl/cmd/openssl-cli/internal/commands"
	_ "github.com/MGTheTrain/managed-openssl/internal/infrastructure/native/libcrypto"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	// A missing .env file is fine; the environment may be set by other means
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "openssl-cli",
		Short: "Self tests and digests through the managed OpenSSL façade",
		Long: `openssl-cli exercises the managed OpenSSL façade: native lists, BIO chains and
message digest filters.

Configuration is read from the file named by MANAGED_OPENSSL_CONFIG (optional) and from
MANAGED_OPENSSL_* environment variables, e.g.
- MANAGED_OPENSSL_NATIVE_BACKEND=openssl (requires a build with -tags openssl)
- MANAGED_OPENSSL_LOGGER_LOG_LEVEL=debug
A .env file in the working directory is loaded first.`,
		SilenceUsage: true,
	}

	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	if err := commands.InitSelfTestCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize self test commands: %w", err)
	}

	if err := commands.InitDigestCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize digest commands: %w", err)
	}

	return nil
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)
}
