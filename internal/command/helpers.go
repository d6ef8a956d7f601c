package command

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cyue/lantern/internal/client"
	"github.com/cyue/lantern/internal/core"
)

// Context bundles what most commands need: resolved config, the config
// directory and an authenticated API client.
type Context struct {
	Config    core.Config
	ConfigDir string
	Client    *client.Client
}

// GetContext resolves config, stored credentials and flags into a ready
// client. Commands that need no auth can still use the client for login.
func GetContext(cmd *cobra.Command) (*Context, error) {
	config, err := core.LoadConfig()
	if err != nil {
		return nil, err
	}
	configDir, err := core.ConfigDir()
	if err != nil {
		return nil, err
	}

	if server, _ := cmd.Flags().GetString("server"); server != "" {
		config.ServerURL = server
	}

	token := config.Token
	if token == "" {
		creds, err := client.LoadCredentials(configDir)
		if err != nil {
			return nil, err
		}
		if creds != nil {
			token = creds.Token
			if config.ServerURL == "" {
				config.ServerURL = creds.ServerURL
			}
		}
	}

	apiClient, err := client.New(config.ServerURL, token)
	if err != nil {
		return nil, err
	}
	return &Context{Config: config, ConfigDir: configDir, Client: apiClient}, nil
}

// requireAuth fails early with a hint when no token is stored.
func requireAuth(ctx *Context) error {
	if ctx.Config.Token != "" {
		return nil
	}
	creds, err := client.LoadCredentials(ctx.ConfigDir)
	if err != nil {
		return err
	}
	if creds == nil || creds.Token == "" {
		return fmt.Errorf("not logged in; run `%s login` first", AppName)
	}
	return nil
}

// parseSlot validates a 1-3 slot argument.
func parseSlot(arg string) (int, error) {
	slot, err := strconv.Atoi(arg)
	if err != nil || slot < 1 || slot > 3 {
		return 0, fmt.Errorf("slot must be 1, 2 or 3, got %q", arg)
	}
	return slot, nil
}
