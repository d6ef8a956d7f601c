package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyue/lantern/internal/core"
	"github.com/cyue/lantern/internal/history"
	"github.com/cyue/lantern/internal/sequence"
)

// NewLogCmd creates the log command, printing the stored transcript for
// a slot.
func NewLogCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "log <slot>",
		Short: "Show the recorded transcript for a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			dataDir, err := core.ConfigDir()
			if err != nil {
				return err
			}
			store, err := history.Open(dataDir)
			if err != nil {
				return fmt.Errorf("open transcript: %w", err)
			}
			defer store.Close()

			entries, err := store.Recent(slot, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No transcript for slot %d yet.\n", slot)
				return nil
			}

			out := cmd.OutOrStdout()
			for _, entry := range entries {
				prefix := "  "
				if entry.Kind == sequence.EntryCombat {
					prefix = "⚔ "
				}
				for i, line := range entry.Lines {
					if i == 0 {
						fmt.Fprintf(out, "%s%s\n", prefix, line)
					} else {
						fmt.Fprintf(out, "  %s\n", line)
					}
				}
				if entry.Roll != nil {
					fmt.Fprintf(out, "  🎲 %d/%d %s\n", entry.Roll.Roll, entry.Roll.Target, entry.Roll.Result)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to show")
	return cmd
}
