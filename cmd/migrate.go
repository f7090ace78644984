package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"podcatch/internal/database"
	"podcatch/internal/models"
)

var migrateForce bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long: `Manage the database schema.

Every other command migrates automatically on startup; these subcommands
exist for inspecting the schema and for starting over.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending schema changes",
	RunE:  runMigrateUp,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which tables exist",
	RunE:  runMigrateStatus,
}

var migrateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop every table and recreate the schema",
	RunE:  runMigrateReset,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	migrateCmd.AddCommand(migrateResetCmd)

	migrateResetCmd.Flags().BoolVar(&migrateForce, "force", false, "skip the confirmation prompt")
}

// openRawDatabase connects without migrating so status and reset see the
// schema as it actually is.
func openRawDatabase() (*database.DB, error) {
	if err := loadConfig(); err != nil {
		return nil, err
	}
	db, err := database.Initialize(appConfig.Database)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return db, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	db, err := openRawDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.AutoMigrate(models.All()...); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	db, err := openRawDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	for _, model := range models.All() {
		name, err := tableName(db.DB, model)
		if err != nil {
			return err
		}
		state := "missing"
		if db.Migrator().HasTable(model) {
			state = "present"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", name, state)
	}
	return nil
}

func runMigrateReset(cmd *cobra.Command, args []string) error {
	if !migrateForce {
		fmt.Fprint(cmd.OutOrStdout(), "This drops every table and its data. Continue? [y/N] ")
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "aborted")
			return nil
		}
	}

	db, err := openRawDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrator().DropTable(models.All()...); err != nil {
		return fmt.Errorf("dropping tables: %w", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema reset")
	return nil
}

func tableName(db *gorm.DB, model any) (string, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return "", fmt.Errorf("resolving table name: %w", err)
	}
	return stmt.Schema.Table, nil
}
