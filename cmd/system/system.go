package system

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/eunoia_backend/config"
)

func NewSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Maintenance and tooling commands",
	}

	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewGenDocsCommand())
	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewCheckConfigCommand())

	return cmd
}

// NewCheckConfigCommand loads and validates the configuration without
// touching any backing service.
func NewCheckConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Validate the configuration file and environment overrides",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return err
			}
			fmt.Printf("environment: %s\n", cfg.Server.Environment)
			fmt.Printf("listen port: %d\n", cfg.Server.Port)
			fmt.Printf("database:    %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
			fmt.Printf("redis:       %s\n", cfg.Redis.Addr)
			fmt.Printf("nats:        %s\n", orDisabled(cfg.Nats.URL != "", cfg.Nats.URL))
			fmt.Printf("email:       %s\n", orDisabled(cfg.Email.Enabled, cfg.Email.SMTP.Host))
			fmt.Println("configuration OK")
			return nil
		},
	}
}

func orDisabled(enabled bool, v string) string {
	if !enabled {
		return "disabled"
	}
	return v
}
