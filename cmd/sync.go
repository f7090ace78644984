package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	syncer "podcatch/internal/services/sync"
)

var syncWithCatalog bool

// syncCmd runs the full feed cycle
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch every feed and download new episodes",
	Long: `Fetch every tracked feed, reconcile it against the store, download
new enclosures and refresh episodes whose files were never fingerprinted.
Feeds are fetched concurrently; failures in one podcast never stop the
others. The command prints a per-podcast report and exits nonzero when
any task failed.

Only one sync may run at a time; a lock file guards against a second
instance racing on sequence assignment.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolVar(&syncWithCatalog, "with-catalog", false, "also reconcile the music catalog after syncing")
}

func runSync(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	unlock, err := acquireSyncLock(appConfig.Sync.LockPath)
	if err != nil {
		return err
	}
	defer unlock()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	report, err := newOrchestrator(db).Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSyncReport(report))

	if syncWithCatalog {
		if err := runCatalogCycle(cmd, db, true); err != nil {
			return err
		}
	}

	if report.HasFailures() {
		return fmt.Errorf("%d podcast(s) and %d episode task(s) failed", report.FailedPodcasts(), report.FailedTasks())
	}
	return nil
}

// acquireSyncLock takes the single-instance lock, creating the lock
// directory if needed. The returned func releases it.
func acquireSyncLock(path string) (func(), error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating lock directory: %w", err)
		}
	}

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring sync lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another sync is already running (lock %s)", path)
	}
	return func() { _ = lock.Unlock() }, nil
}

func renderSyncReport(report *syncer.RunReport) string {
	rows := make([][]string, 0, len(report.Podcasts))
	for _, p := range report.Podcasts {
		if p.Err != nil {
			rows = append(rows, []string{p.Podcast.Name, "-", "-", "-", "-", "feed failed"})
			continue
		}
		rows = append(rows, []string{
			p.Podcast.Name,
			strconv.Itoa(p.Parsed),
			strconv.Itoa(p.Existing),
			strconv.Itoa(p.New),
			strconv.Itoa(p.Updated),
			strconv.Itoa(p.Failed),
		})
	}
	return renderTable(
		[]string{"Podcast", "Parsed", "Existing", "New", "Updated", "Failed"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	)
}
