package command

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/cyue/lantern/internal/client"
	"github.com/cyue/lantern/internal/core"
	"github.com/cyue/lantern/internal/game"
	"github.com/cyue/lantern/internal/history"
	"github.com/cyue/lantern/internal/sequence"
)

// NewPlayCmd creates the play command.
func NewPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <slot>",
		Short: "Resume the save in a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return err
			}
			if err := requireAuth(ctx); err != nil {
				return err
			}
			slot, err := parseSlot(args[0])
			if err != nil {
				return err
			}

			opening, err := ctx.Client.Load(cmd.Context(), slot)
			if err != nil {
				var apiErr *client.APIError
				if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
					return fmt.Errorf("slot %d is empty; run `%s slots new %d <name>` first", slot, AppName, slot)
				}
				return err
			}

			// The transcript store is best-effort: play proceeds without
			// scrollback if the local database cannot be opened.
			var store *history.Store
			if dataDir, err := core.ConfigDir(); err == nil {
				if s, err := history.Open(dataDir); err == nil {
					store = s
				}
			}

			speeds := sequence.Speeds{
				Log:      ctx.Config.LogReveal(),
				Dialogue: ctx.Config.DialogueReveal(),
			}

			return game.Run(game.Options{
				Client:  ctx.Client,
				Store:   store,
				Slot:    slot,
				Speeds:  speeds,
				Opening: opening,
			})
		},
	}
	return cmd
}
