package commands

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/MGTheTrain/managed-openssl/internal/app"
	"github.com/MGTheTrain/managed-openssl/internal/domain/digests"
	"github.com/spf13/cobra"
)

// DigestCommandHandler encapsulates logic for computing digests via CLI.
type DigestCommandHandler struct {
	env     *environment
	digests digests.DigestService
}

// NewDigestCommandHandler initializes and returns a DigestCommandHandler instance.
func NewDigestCommandHandler() (*DigestCommandHandler, error) {
	env, err := setupEnvironment()
	if err != nil {
		return nil, err
	}

	digestService, err := app.NewDigestService(env.rt, env.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create digest service: %w", err)
	}

	return &DigestCommandHandler{env: env, digests: digestService}, nil
}

// DigestCmd prints the digest of a file or of literal text
func (commandHandler *DigestCommandHandler) DigestCmd(cmd *cobra.Command, _ []string) {
	algorithm, err := cmd.Flags().GetString("algorithm")
	if err != nil {
		commandHandler.env.logger.Error("invalid algorithm flag ", err)
		return
	}
	inputFilePath, err := cmd.Flags().GetString("input-file")
	if err != nil {
		commandHandler.env.logger.Error("invalid input-file flag ", err)
		return
	}
	text, err := cmd.Flags().GetString("text")
	if err != nil {
		commandHandler.env.logger.Error("invalid text flag ", err)
		return
	}

	commandHandler.env.trackLeaks(func() {
		var (
			result *digests.DigestResult
			label  string
		)
		switch {
		case inputFilePath != "":
			label = inputFilePath
			result, err = commandHandler.digests.DigestFile(cmd.Context(), &digests.DigestFileRequest{
				Algorithm: algorithm,
				Path:      inputFilePath,
			})
		case cmd.Flags().Changed("text"):
			label = "stdin"
			result, err = commandHandler.digests.DigestBytes(cmd.Context(), &digests.DigestBytesRequest{
				Algorithm: algorithm,
				Data:      []byte(text),
			})
		default:
			commandHandler.env.logger.Error("either --input-file or --text is required")
			return
		}
		if err != nil {
			commandHandler.env.logger.Error(err)
			return
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s(%s)= %s\n", strings.ToUpper(result.Algorithm), label, hex.EncodeToString(result.Sum))
		commandHandler.env.logger.Debug("digest chain read ", result.BytesRead, " and wrote ", result.BytesWritten, " bytes")
	})
}

// InitDigestCommands registers digest commands
func InitDigestCommands(rootCmd *cobra.Command) error {
	handler, err := NewDigestCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create digest command handler %w", err)
	}

	var digestCmd = &cobra.Command{
		Use:   "digest",
		Short: "Compute a message digest through a BIO chain",
		Args:  cobra.NoArgs,
		Run:   handler.DigestCmd,
	}
	digestCmd.Flags().StringP("algorithm", "a", "sha256", "Digest name, e.g. sha256, sha512, md5")
	digestCmd.Flags().StringP("input-file", "", "", "Path to the file to digest")
	digestCmd.Flags().StringP("text", "", "", "Literal text to digest instead of a file")
	rootCmd.AddCommand(digestCmd)

	return nil
}
