package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"podcatch/internal/database"
	"podcatch/internal/services/catalog"
)

var catalogUpload bool

// catalogCmd reconciles the local music directory against the catalog
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Reconcile the local music directory against the remote catalog",
	Long: `Scan the configured music directory, match files against the catalog
by their ID3 tags or filename, repair stale filename links and upload
whatever the catalog lacks.

Without --upload the scan only reports what would be uploaded.`,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().BoolVar(&catalogUpload, "upload", false, "upload files the catalog lacks")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return runCatalogCycle(cmd, db, catalogUpload)
}

// runCatalogCycle is shared between the catalog command and sync's
// --with-catalog stage, which always uploads.
func runCatalogCycle(cmd *cobra.Command, db *database.DB, upload bool) error {
	if !appConfig.Catalog.Enabled {
		return fmt.Errorf("catalog is not enabled; set catalog.enabled and its endpoint settings")
	}

	store, err := catalog.NewS3Store(appConfig.Catalog)
	if err != nil {
		return err
	}

	service := catalog.NewService(store, catalog.NewRepository(db.DB))
	report, err := service.Run(cmd.Context(), appConfig.Catalog.Directory, upload)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderCatalogReport(report))
	return nil
}

func renderCatalogReport(report *catalog.Report) string {
	rows := [][]string{
		{"mirrored from catalog", strconv.Itoa(report.Mirrored)},
		{"unclaimed files scanned", strconv.Itoa(report.Files)},
		{"tagged", strconv.Itoa(report.Tagged)},
		{"matched", strconv.Itoa(report.Matched)},
		{"relinked", strconv.Itoa(report.Relinked)},
		{"pending upload", strconv.Itoa(report.Pending)},
		{"uploaded", strconv.Itoa(report.Uploaded)},
		{"untagged", strconv.Itoa(report.Untagged)},
	}
	return renderTable(
		[]string{"Catalog", "Count"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	)
}
