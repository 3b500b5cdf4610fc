package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Documentos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Documentos-api/pkg/config"
	"github.com/jhoicas/Documentos-api/pkg/logger"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Gestiona el esquema de PostgreSQL",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *postgres.Migrator, log *logger.Logger) error {
				n, err := m.Up(ctx)
				if err != nil {
					return err
				}
				log.Info().Int("applied", n).Msg("migraciones aplicadas")
				return nil
			})
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Revierte las últimas migraciones",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *postgres.Migrator, log *logger.Logger) error {
				n, err := m.Down(ctx, steps)
				if err != nil {
					return err
				}
				log.Info().Int("reverted", n).Msg("migraciones revertidas")
				return nil
			})
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "número de migraciones a revertir")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Lista las migraciones embebidas (sin conectar a la base)",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := postgres.NewMigrator(nil)
			if err != nil {
				return err
			}
			for _, mig := range m.Migrations() {
				fmt.Fprintf(cmd.OutOrStdout(), "%04d %s\n", mig.Version, mig.Name)
			}
			return nil
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, listCmd)
	return migrateCmd
}

func withMigrator(ctx context.Context, fn func(context.Context, *postgres.Migrator, *logger.Logger) error) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	if cfg.Store.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate requiere STORE_DRIVER=postgres (actual: %s)", cfg.Store.Driver)
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()
	m, err := postgres.NewMigrator(pool)
	if err != nil {
		return err
	}
	return fn(ctx, m, log)
}
