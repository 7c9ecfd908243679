package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nzaccagnino/notesync/internal/config"
)

// NewInitCommand runs first-time setup: remote endpoint, owner id and API key,
// written to the config file. The key is read without echo on a terminal.
func NewInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Configure the remote endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}

			reader := bufio.NewReader(os.Stdin)

			url, err := promptLine(reader, "Remote URL", cfg.Remote.URL)
			if err != nil {
				return err
			}
			userID, err := promptLine(reader, "Owner id", cfg.Remote.UserID)
			if err != nil {
				return err
			}
			apiKey, err := promptSecret(reader, "API key")
			if err != nil {
				return err
			}

			cfg.Remote.URL = url
			cfg.Remote.UserID = userID
			if apiKey != "" {
				cfg.Remote.APIKey = apiKey
			}

			if err := cfg.Save(opts.ConfigPath); err != nil {
				return err
			}

			fmt.Printf("Configuration written to %s\n", opts.ConfigPath)
			return nil
		},
	}
}

func promptLine(reader *bufio.Reader, label, current string) (string, error) {
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current, nil
	}
	return line, nil
}

func promptSecret(reader *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s: ", label)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
