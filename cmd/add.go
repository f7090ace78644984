package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"podcatch/internal/services/podcasts"
)

var (
	addName      string
	addURL       string
	addDirectory string
)

// addCmd tracks a new feed
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Track a new podcast feed",
	Long: `Track a new podcast feed. The feed is fetched and parsed before
anything is stored, so a dead or malformed URL is rejected here instead
of surfacing on the first sync.

Example:
  podcatch add --name "The Bugle" --url https://example.com/bugle.xml
  podcatch add -n "The Bugle" -u https://example.com/bugle.xml -d /mnt/audio/bugle`,
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addName, "name", "n", "", "podcast name")
	addCmd.Flags().StringVarP(&addURL, "url", "u", "", "feed URL")
	addCmd.Flags().StringVarP(&addDirectory, "directory", "d", "", "download directory (defaults under download.directory)")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("url")
}

func runAdd(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	service := podcasts.NewService(
		podcasts.NewRepository(db.DB),
		newFetcher(appConfig.Fetch),
		appConfig.Download.Directory,
	)

	podcast, err := service.Add(cmd.Context(), podcasts.AddParams{
		Name:      addName,
		FeedURL:   addURL,
		Directory: addDirectory,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "added %q (id %d)\n", podcast.Name, podcast.ID)
	return nil
}
