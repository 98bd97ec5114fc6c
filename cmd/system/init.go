package system

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/eunoia_backend/config"
	"github.com/Alijeyrad/eunoia_backend/pkg/database"
)

func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the application database if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			fmt.Printf("Initializing database %q...\n", cfg.Database.DBName)
			if err := database.InitializeDatabase(cfg); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			fmt.Println("Database initialized successfully.")
			return nil
		},
	}

	return cmd
}
