package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/gatewise/internal/fetch"
	"github.com/asteroid-belt/gatewise/internal/log"
	"github.com/asteroid-belt/gatewise/internal/workspace"
)

var pyqDownloadCmd = &cobra.Command{
	Use:   "download [ids...]",
	Short: "Download papers into the local cache",
	Long: `Download papers into the local cache. Each paper is fetched from its
official URL first and then from mirrors on your allowed sources list.
Published checksums are verified before a file is kept.

Downloads are refused while the paper cache is disabled in settings.`,
	Example: `  gatewise pyq download 2024-CS-CS1 2023-CS-CS1
  gatewise pyq download --all`,
	RunE: runPyqDownload,
}

var pyqUncacheCmd = &cobra.Command{
	Use:   "uncache <id>",
	Short: "Delete a downloaded paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runPyqUncache,
}

var downloadAll bool

func init() {
	pyqDownloadCmd.Flags().BoolVar(&downloadAll, "all", false, "Download every paper that is not cached yet")

	pyqCmd.AddCommand(pyqDownloadCmd)
	pyqCmd.AddCommand(pyqUncacheCmd)
}

func runPyqDownload(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("pyq download")
	if err != nil {
		return err
	}
	if len(args) == 0 && !downloadAll {
		return trackCLIError("pyq download", fmt.Errorf("invalid invocation: pass paper ids or --all"))
	}

	ids := selectForDownload(w, args)
	if len(ids) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Every paper is already cached.")
		return nil
	}

	out := cmd.OutOrStdout()
	bar := NewProgressBar(len(ids), 20)
	started := 0
	current := ""
	d, err := w.Downloader(func(id string, percent int) {
		if id != current {
			current = id
			started++
		}
		bar.Update(started-1, fmt.Sprintf("%s %d%%", id, percent))
		ClearLine(out)
		_, _ = fmt.Fprint(out, bar.RenderDownload())
	})
	if errors.Is(err, workspace.ErrCacheDisabled) {
		return trackCLIError("pyq download", fmt.Errorf("%w: enable it with `gatewise settings pyq --cache=true`", err))
	}
	if err != nil {
		return trackCLIError("pyq download", err)
	}

	w.Pyq.BulkDownload(ids)

	start := time.Now()
	results := d.Run(cmd.Context(), w.Pyq)
	ClearLine(out)

	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			log.Warnf("download %s: %v", res.ID, res.Err)
			_, _ = fmt.Fprintf(out, "%s %v\n", styles.bad.Render("✗"), res.Err)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s %s %s\n", styles.good.Render("✓"), res.ID, styles.muted.Render("("+string(res.Source)+")"))
	}

	succeeded := len(results) - failed
	telemetryClient.TrackPapersDownloaded(succeeded, failed, time.Since(start).Milliseconds())

	if left := len(w.Pyq.Queue()); left > 0 {
		_, _ = fmt.Fprintf(out, "%d paper(s) were not attempted\n", left)
	}
	if failed > 0 {
		return trackCLIError("pyq download", fmt.Errorf("%d of %d downloads failed", failed, len(results)))
	}
	requests, written := d.Stats()
	_, _ = fmt.Fprintf(out, "Downloaded %d paper(s) to %s %s\n", succeeded, w.Paths.Papers,
		styles.muted.Render(fmt.Sprintf("(%s in %d request(s))", humanize.Bytes(uint64(written)), requests)))
	return nil
}

// selectForDownload resolves the papers to fetch through the store's
// selection: the given ids, or with --all every uncached paper.
func selectForDownload(w *workspace.Workspace, args []string) []string {
	w.Pyq.ClearSelection()
	defer w.Pyq.ClearSelection()

	if downloadAll {
		w.Pyq.SelectAll()
		for _, id := range w.Pyq.Selected() {
			if w.Pyq.IsCached(id) {
				w.Pyq.ToggleSelection(id)
			}
		}
	}
	for _, id := range args {
		if !slices.Contains(w.Pyq.Selected(), id) {
			w.Pyq.ToggleSelection(id)
		}
	}
	return w.Pyq.Selected()
}

func runPyqUncache(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("pyq uncache")
	if err != nil {
		return err
	}
	id := args[0]
	if !w.Pyq.IsCached(id) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is not cached\n", id)
		return nil
	}

	if err := os.Remove(fetch.PaperPath(w.Paths.Papers, id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return trackCLIError("pyq uncache", fmt.Errorf("delete cached paper: %w", err))
	}
	w.Pyq.RemoveFromCache(id)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted the cached copy of %s\n", id)
	return nil
}
