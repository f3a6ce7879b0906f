package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/uimpit/internal/backup"
	"github.com/thoreinstein/uimpit/internal/cli/prompt"
	"github.com/thoreinstein/uimpit/internal/errors"
)

var (
	backupListJSON bool
	pruneKeep      int
)

func init() {
	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "Output in JSON format")
	backupPruneCmd.Flags().IntVar(&pruneKeep, "keep", backup.DefaultRetentionCount,
		"Number of backups to retain")

	backupCmd.AddCommand(backupListCmd, backupCreateCmd, backupRestoreCmd, backupPruneCmd)
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage config backups",
	Long: `Manage the copies uimpit takes before it overwrites the config.

A backup is taken before the first save of every session. Backups live
under $XDG_DATA_HOME/uimpit/backups, one directory per config file, each
with a manifest holding the SHA-256 of the copy.`,
	Example: `  uimpit backup list
  uimpit backup restore
  uimpit backup prune --keep 3

  See Also: uimpit reset`,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups",
	Long:  `List the backups of the config file, newest first.`,
	Example: `  uimpit backup list
  uimpit backup list --json

  See Also:
    uimpit backup restore - Restore from a backup
    uimpit backup prune   - Remove old backups`,
	Args: userArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runBackupListWithWriter(cmd.OutOrStdout())
	},
}

// backupInfoOutput is one backup in list --json output.
type backupInfoOutput struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Size        int64     `json:"size"`
	SHA256      string    `json:"sha256"`
	ToolVersion string    `json:"tool_version"`
}

func runBackupListWithWriter(w io.Writer) error {
	e, err := resolveEnv()
	if err != nil {
		return err
	}

	manifests, err := e.Backups.List(e.ConfigPath)
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.Wrapf(err, "listing backups for %s", e.ConfigPath)
	}

	if backupListJSON {
		out := make([]backupInfoOutput, len(manifests))
		for i, m := range manifests {
			out[i] = backupInfoOutput{
				ID:          m.ID,
				CreatedAt:   m.CreatedAt,
				Size:        m.File.Size,
				SHA256:      m.File.SHA256Hash,
				ToolVersion: m.ToolVersion,
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(manifests) == 0 {
		fmt.Fprintf(w, "No backups of %s.\n", e.ConfigPath)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Backups are created automatically before uimpit saves the config.")
		fmt.Fprintln(w, "You can also create one with: uimpit backup create")
		return nil
	}

	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	fmt.Fprintf(w, "%s %s\n", bold.Sprint("Backups of"), e.ConfigPath)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
		bold.Sprint("ID"), bold.Sprint("CREATED"), bold.Sprint("SIZE"), bold.Sprint("VERSION"))
	for _, m := range manifests {
		fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\n",
			green.Sprint(m.ID),
			m.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			m.File.Size,
			m.ToolVersion)
	}
	return tw.Flush()
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Back up the config now",
	Long:  `Copy the config file into a new backup.`,
	Example: `  uimpit backup create

  See Also: uimpit backup list`,
	Args: userArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runBackupCreateWithWriter(cmd.OutOrStdout())
	},
}

func runBackupCreateWithWriter(w io.Writer) error {
	e, err := resolveEnv()
	if err != nil {
		return err
	}

	m, err := e.Backups.Backup(e.ConfigPath)
	if err != nil {
		if errors.Is(err, backup.ErrNothingToBackUp) {
			return errors.NewUserError(err, fmt.Sprintf("%s does not exist yet", e.ConfigPath))
		}
		return errors.NewSystemError(err, "Check that the data directory is writable")
	}
	fmt.Fprintf(w, "%s Created backup %s\n", color.GreenString("✓"), m.ID)
	return nil
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [backup-id]",
	Short: "Restore the config from a backup",
	Long: `Restore the config file from a backup.

The copy is checked against the hash in its manifest first. The current
file is backed up before it is overwritten, so a restore can be undone.

Without a backup ID, asks which backup to restore when run in a terminal
and picks the most recent one otherwise.`,
	Example: `  # Pick from a list
  uimpit backup restore

  # Restore a specific backup
  uimpit backup restore 20260123T100712

  See Also:
    uimpit backup list   - List available backups
    uimpit backup create - Create a new backup`,
	Args: userArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBackupRestoreWithIO(args, prompt.NewWithIO(os.Stdin, cmd.OutOrStdout()), cmd.OutOrStdout())
	},
}

func runBackupRestoreWithIO(args []string, p *prompt.Prompter, w io.Writer) error {
	e, err := resolveEnv()
	if err != nil {
		return err
	}

	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		manifests, err := e.Backups.List(e.ConfigPath)
		if err != nil {
			if errors.Is(err, backup.ErrNoBackupsFound) {
				return errors.NewUserError(err, fmt.Sprintf("No backups of %s exist yet", e.ConfigPath))
			}
			return errors.Wrap(err, "listing backups")
		}
		chosen := manifests[0]
		if isInteractive() {
			chosen, err = prompt.Select(p, "Restore which backup", manifests, func(m backup.Manifest) string {
				return fmt.Sprintf("%s  (%s, %d bytes)", m.ID, m.CreatedAt.Local().Format("2006-01-02 15:04:05"), m.File.Size)
			})
			if err != nil {
				return errors.NewUserError(err, "Pass a backup ID from 'uimpit backup list'")
			}
		} else {
			fmt.Fprintf(w, "Using most recent backup: %s\n", chosen.ID)
		}
		id = chosen.ID
	}

	m, err := e.Backups.Restore(e.ConfigPath, id)
	if err != nil {
		switch {
		case errors.Is(err, backup.ErrNoBackupsFound):
			return errors.NewUserError(err, "Run 'uimpit backup list' to see the backup IDs")
		case errors.Is(err, backup.ErrBackupCorrupted):
			return errors.NewSystemError(err, "Pick another backup")
		}
		return errors.NewSystemError(err, "")
	}

	fmt.Fprintf(w, "%s Restored %s from backup %s\n", color.GreenString("✓"), e.ConfigPath, m.ID)
	return nil
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old backups",
	Long: `Remove old backups beyond the retention count.

By default, keeps the 5 most recent backups. Use --keep 0 to remove all of
them.`,
	Example: `  uimpit backup prune
  uimpit backup prune --keep 3

  See Also: uimpit backup list`,
	Args: userArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runBackupPruneWithWriter(cmd.OutOrStdout())
	},
}

func runBackupPruneWithWriter(w io.Writer) error {
	if pruneKeep < 0 {
		return errors.NewUserError(errors.New("--keep must be non-negative"), "")
	}
	e, err := resolveEnv()
	if err != nil {
		return err
	}

	manifests, err := e.Backups.List(e.ConfigPath)
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.Wrapf(err, "listing backups for %s", e.ConfigPath)
	}

	if err := e.Backups.Prune(e.ConfigPath, pruneKeep); err != nil {
		return errors.NewSystemError(err, "")
	}

	removed := max(len(manifests)-pruneKeep, 0)
	fmt.Fprintf(w, "Removed %d backup(s), kept %d.\n", removed, len(manifests)-removed)
	return nil
}
