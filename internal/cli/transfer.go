package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/gatewise/internal/workspace"
)

// Store names accepted by export and import.
const (
	storeProgress = "progress"
	storePyq      = "pyq"
)

var exportCmd = &cobra.Command{
	Use:   "export <progress|pyq>",
	Short: "Export a backup as JSON",
	Long: `Export a backup of your progress or your paper work as JSON. The backup
is written to stdout unless --out or --copy is given.`,
	Example: `  gatewise export progress --out progress.json
  gatewise export pyq --copy`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{storeProgress, storePyq},
	RunE:      runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <progress|pyq> <file>",
	Short: "Restore a backup",
	Long: `Restore a backup written by export. Use "-" to read from stdin.

A backup that cannot be read, or that was written by a newer major version,
is rejected and nothing changes.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{storeProgress, storePyq},
	RunE:      runImport,
}

var (
	exportOut  string
	exportCopy bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write the backup to this file")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "Copy the backup to the clipboard")
}

// clipboardWrite is swapped in tests; the real clipboard needs a display.
var clipboardWrite = clipboard.WriteAll

func runExport(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("export")
	if err != nil {
		return err
	}

	data, err := exportStore(w, args[0])
	if err != nil {
		return trackCLIError("export", err)
	}
	if data == "" {
		return trackCLIError("export", fmt.Errorf("export %s: backup could not be encoded (see log)", args[0]))
	}

	out := cmd.OutOrStdout()
	switch {
	case exportOut != "":
		if err := os.WriteFile(exportOut, []byte(data+"\n"), 0644); err != nil {
			return trackCLIError("export", fmt.Errorf("write backup: %w", err))
		}
		_, _ = fmt.Fprintf(out, "Backup written to %s\n", exportOut)
	case !exportCopy:
		_, _ = fmt.Fprintln(out, data)
	}

	if exportCopy {
		if err := clipboardWrite(data); err != nil {
			return trackCLIError("export", fmt.Errorf("copy to clipboard: %w", err))
		}
		_, _ = fmt.Fprintln(out, "Backup copied to the clipboard")
	}

	telemetryClient.TrackDataExported(args[0], exportCopy)
	return nil
}

func exportStore(w *workspace.Workspace, store string) (string, error) {
	switch store {
	case storeProgress:
		return w.Progress.ExportProgress(), nil
	case storePyq:
		return w.Pyq.ExportData(), nil
	default:
		return "", fmt.Errorf("invalid store %q (want progress or pyq)", store)
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("import")
	if err != nil {
		return err
	}
	store, path := args[0], args[1]
	if store != storeProgress && store != storePyq {
		return trackCLIError("import", fmt.Errorf("invalid store %q (want progress or pyq)", store))
	}

	var data []byte
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return trackCLIError("import", fmt.Errorf("read backup: %w", err))
	}

	var ok bool
	if store == storeProgress {
		ok = w.Progress.ImportProgress(string(data))
	} else {
		ok = w.Pyq.ImportData(string(data))
	}
	telemetryClient.TrackDataImported(store, ok)

	if !ok {
		return trackCLIError("import", fmt.Errorf("import %s: invalid or incompatible backup, nothing changed (see log)", store))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s restored from %s\n", styles.good.Render("✓"), store, path)
	return nil
}
