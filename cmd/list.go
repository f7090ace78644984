package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"podcatch/internal/database"
	"podcatch/internal/services/episodes"
	"podcatch/internal/services/podcasts"
)

var listPodcastID uint

// listCmd prints what is tracked
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked podcasts, or the episodes of one",
	Long: `List every tracked podcast, or with --podcast the episodes of a
single podcast in sequence order.

Example:
  podcatch list
  podcatch list --podcast 3`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().UintVarP(&listPodcastID, "podcast", "p", 0, "podcast id; list its episodes instead")
}

func runList(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if listPodcastID != 0 {
		return listEpisodes(cmd, db, listPodcastID)
	}
	return listPodcasts(cmd, db)
}

func listPodcasts(cmd *cobra.Command, db *database.DB) error {
	all, err := podcasts.NewRepository(db.DB).List(cmd.Context())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(all))
	for _, p := range all {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			p.FeedURL,
			p.Directory,
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"ID", "Name", "Feed", "Directory"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	))
	return nil
}

func listEpisodes(cmd *cobra.Command, db *database.DB, id uint) error {
	podcast, err := podcasts.NewRepository(db.DB).GetByID(cmd.Context(), id)
	if err != nil {
		return err
	}

	eps, err := episodes.NewRepository(db.DB).ListByPodcast(cmd.Context(), podcast.ID)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(eps))
	for _, e := range eps {
		rows = append(rows, []string{
			strconv.FormatInt(e.Sequence, 10),
			e.Title,
			string(e.Status),
			formatDuration(e.Duration),
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", podcast.Name, podcast.FeedURL)
	fmt.Fprintln(out, renderTable(
		[]string{"Seq", "Title", "Status", "Duration"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
	))
	return nil
}
