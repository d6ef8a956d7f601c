package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cyue/lantern/internal/core"
	"github.com/cyue/lantern/internal/history"
	"github.com/cyue/lantern/internal/types"
)

// NewSlotsCmd creates the slots command group.
func NewSlotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Manage the three save slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSlotsList(cmd)
		},
	}
	cmd.AddCommand(newSlotsNewCmd(), newSlotsDeleteCmd())
	return cmd
}

func runSlotsList(cmd *cobra.Command) error {
	ctx, err := GetContext(cmd)
	if err != nil {
		return err
	}
	if err := requireAuth(ctx); err != nil {
		return err
	}

	slots, err := ctx.Client.SaveSlots(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, slot := range slots {
		fmt.Fprintln(out, formatSlot(slot))
	}
	return nil
}

func formatSlot(slot types.SaveSlot) string {
	if slot.IsEmpty {
		return fmt.Sprintf("  %d. (empty)", slot.Slot)
	}
	name := "?"
	if slot.CharacterName != nil {
		name = *slot.CharacterName
	}
	var parts []string
	if slot.Chapter != nil && *slot.Chapter != "" {
		parts = append(parts, *slot.Chapter)
	}
	if slot.UpdatedAt != nil {
		if when, err := time.Parse(time.RFC3339, *slot.UpdatedAt); err == nil {
			parts = append(parts, "updated "+humanize.Time(when))
		}
	}
	suffix := ""
	if len(parts) > 0 {
		suffix = "  (" + strings.Join(parts, ", ") + ")"
	}
	return fmt.Sprintf("  %d. %s%s", slot.Slot, name, suffix)
}

func newSlotsNewCmd() *cobra.Command {
	var background string
	cmd := &cobra.Command{
		Use:   "new <slot> <character-name>",
		Short: "Create a character in an empty slot",
		Args:  cobra.ExactArgs(2),
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

			req := types.NewGameRequest{CharacterName: args[1], Background: background}
			result, err := ctx.Client.NewGame(cmd.Context(), slot, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %s in slot %d\n", args[1], slot)
			for _, line := range result.Narrative {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "\nRun `%s play %d` to start.\n", AppName, slot)
			return nil
		},
	}
	cmd.Flags().StringVar(&background, "background", "wanderer", "character background")
	return cmd
}

func newSlotsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <slot>",
		Short: "Delete the save in a slot and its local transcript",
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

			if err := ctx.Client.DeleteSave(cmd.Context(), slot); err != nil {
				return err
			}

			// The local transcript is only a cache; a failed cleanup is
			// not worth failing the command over.
			dataDir, err := core.ConfigDir()
			if err == nil {
				if store, err := history.Open(dataDir); err == nil {
					_ = store.ClearSlot(slot)
					_ = store.Close()
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted save slot %d\n", slot)
			return nil
		},
	}
	return cmd
}
