package command

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cyue/lantern/internal/client"
	"github.com/cyue/lantern/internal/core"
)

// NewLoginCmd creates the login command.
func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in to the game server and store the token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return err
			}
			username := args[0]

			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			token, err := ctx.Client.Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			creds := client.Credentials{
				ServerURL: ctx.Config.ServerURL,
				Username:  username,
				Token:     token,
			}
			if err := client.SaveCredentials(ctx.ConfigDir, creds); err != nil {
				return fmt.Errorf("store credentials: %w", err)
			}
			// A --server override that logged in successfully becomes the
			// configured server.
			if server, _ := cmd.Flags().GetString("server"); server != "" {
				if err := core.SaveConfig(ctx.Config); err != nil {
					return fmt.Errorf("store config: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s on %s\n", username, ctx.Config.ServerURL)
			return nil
		},
	}
	return cmd
}

func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	if f, ok := cmd.InOrStdin().(interface{ Fd() uintptr }); ok && term.IsTerminal(int(f.Fd())) {
		data, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
