package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/backup"
)

func newRestoreCmd() *cobra.Command {
	var (
		session string
		list    bool
	)

	cmd := &cobra.Command{
		Use:   "restore <project>",
		Short: "Restore files from a conversion backup",
		Long: "Copy the originals saved by convert --backup or batch --backup back over the project.\n" +
			"Without --session the most recent session is restored.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			store := backup.New(projectPath)
			out := cmd.OutOrStdout()

			sessions, err := store.Sessions()
			if err != nil {
				return fmt.Errorf("listing backups: %w", err)
			}

			if list {
				if len(sessions) == 0 {
					fmt.Fprintln(out, "No backups found.")
					return nil
				}
				for _, s := range sessions {
					fmt.Fprintln(out, s)
				}
				return nil
			}

			if session == "" {
				if len(sessions) == 0 {
					return errors.New("no backups found (run convert or batch with --backup first)")
				}
				session = sessions[len(sessions)-1]
			}

			restored, err := store.Restore(session)
			if err != nil {
				return err
			}
			for _, f := range restored {
				fmt.Fprintf(out, "  restored %s\n", f)
			}
			fmt.Fprintf(out, "Restored %d file(s) from %s\n", len(restored), session)
			return nil
		},
	}

	cmd.Flags().StringVar(&session, "session", "", "Backup session to restore (default: latest)")
	cmd.Flags().BoolVar(&list, "list", false, "List backup sessions and exit")

	return cmd
}
