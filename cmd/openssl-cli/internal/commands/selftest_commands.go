package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MGTheTrain/managed-openssl/internal/app"
	"github.com/MGTheTrain/managed-openssl/internal/domain/digests"
	"github.com/spf13/cobra"
)

// Column layout of the self test listing
const (
	listColumns     = 5
	listColumnWidth = 15
)

// SelfTestCommandHandler encapsulates logic for listing and running self tests via CLI.
type SelfTestCommandHandler struct {
	env      *environment
	selfTest digests.SelfTestService
}

// NewSelfTestCommandHandler initializes and returns a SelfTestCommandHandler instance.
func NewSelfTestCommandHandler() (*SelfTestCommandHandler, error) {
	env, err := setupEnvironment()
	if err != nil {
		return nil, err
	}

	digestService, err := app.NewDigestService(env.rt, env.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create digest service: %w", err)
	}

	selfTestService, err := app.NewSelfTestService(env.rt, digestService, env.logger, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create self test service: %w", err)
	}

	return &SelfTestCommandHandler{env: env, selfTest: selfTestService}, nil
}

// ListCmd prints every available self test in columns
func (commandHandler *SelfTestCommandHandler) ListCmd(cmd *cobra.Command, _ []string) {
	printColumns(cmd.OutOrStdout(), commandHandler.selfTest.Names())
}

// RunCmd runs one self test and reports native objects it leaked
func (commandHandler *SelfTestCommandHandler) RunCmd(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	name := args[0]

	commandHandler.env.trackLeaks(func() {
		report, err := commandHandler.selfTest.Run(cmd.Context(), name)
		switch {
		case errors.Is(err, digests.ErrNotImplemented):
			fmt.Fprintf(out, "%s: %s\n", name, strings.Join(args[1:], " "))
			fmt.Fprintln(out, "Not implemented yet!")
			return
		case err != nil && !commandHandler.isListed(name):
			printColumns(out, commandHandler.selfTest.Names())
			return
		case err != nil:
			commandHandler.env.logger.Error(err)
			return
		}

		for _, c := range report.Cases {
			status := "ok"
			if !c.Passed {
				status = fmt.Sprintf("FAILED (got %s, want %s)", c.Got, c.Want)
			}
			fmt.Fprintf(out, "test %d (%s): %s\n", c.Vector+1, c.Path, status)
		}
		if report.Passed() {
			fmt.Fprintf(out, "%s: all %d tests passed\n", name, len(report.Cases))
		} else {
			commandHandler.env.logger.Error(fmt.Sprintf("%s: %d of %d tests failed", name, report.Failed(), len(report.Cases)))
		}
	})
}

func (commandHandler *SelfTestCommandHandler) isListed(name string) bool {
	for _, n := range commandHandler.selfTest.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func printColumns(w io.Writer, names []string) {
	for i, name := range names {
		if (i+1)%listColumns == 0 || i == len(names)-1 {
			fmt.Fprintln(w, name)
			continue
		}
		fmt.Fprintf(w, "%-*s", listColumnWidth, name)
	}
}

// InitSelfTestCommands registers self test commands
func InitSelfTestCommands(rootCmd *cobra.Command) error {
	handler, err := NewSelfTestCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create self test command handler %w", err)
	}

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the available self tests",
		Args:  cobra.NoArgs,
		Run:   handler.ListCmd,
	}
	rootCmd.AddCommand(listCmd)

	var selfTestCmd = &cobra.Command{
		Use:   "selftest <name> [args...]",
		Short: "Run a known-answer self test",
		Args:  cobra.MinimumNArgs(1),
		Run:   handler.RunCmd,
	}
	rootCmd.AddCommand(selfTestCmd)

	return nil
}
