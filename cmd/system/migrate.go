package system

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/eunoia_backend/config"
	"github.com/Alijeyrad/eunoia_backend/internal/repo"
	"github.com/Alijeyrad/eunoia_backend/pkg/database"
)

func NewMigrateCommand() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return printMigrations()
			}

			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			client, err := database.NewClient(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer client.Close()

			timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			applied, err := client.Migrate(ctx)
			for _, v := range applied {
				fmt.Printf("applied %s\n", v)
			}
			if err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			if len(applied) == 0 {
				fmt.Println("Database is up to date.")
				return nil
			}
			fmt.Println("Migrations executed successfully.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List embedded migrations without connecting")

	return cmd
}

func printMigrations() error {
	all, err := repo.Migrations()
	if err != nil {
		return err
	}
	for _, m := range all {
		fmt.Println(m.Version)
	}
	return nil
}
