package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Documentos-api/internal/application/crud"
	"github.com/jhoicas/Documentos-api/internal/domain/repository"
	"github.com/jhoicas/Documentos-api/internal/infrastructure/memory"
	"github.com/jhoicas/Documentos-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Documentos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Documentos-api/internal/interfaces/http"
	"github.com/jhoicas/Documentos-api/pkg/config"
	"github.com/jhoicas/Documentos-api/pkg/logger"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Inicia el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, log)
		},
	}
}

// stores almacenes compartidos según STORE_DRIVER.
type stores struct {
	persons   repository.PersonStore
	roles     repository.RoleStore
	tx        repository.PersonTxRunner
	documents repository.DocumentStore
	close     func()
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Store.Driver == config.DriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		persons := memory.NewPersonStore()
		roles := memory.NewRoleStore()
		return &stores{
			persons:   persons,
			roles:     roles,
			tx:        memory.NewTxRunner(persons, roles),
			documents: memory.NewDocumentStore(persons),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.Store.MigrateOnStart {
		m, err := postgres.NewMigrator(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		n, err := m.Up(ctx)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		log.Info().Int("applied", n).Msg("migraciones aplicadas")
	}
	return &stores{
		persons:   postgres.NewPersonRepository(pool),
		roles:     postgres.NewRoleRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		documents: postgres.NewDocumentRepository(pool),
		close:     pool.Close,
	}, nil
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	factory := crud.NewFactory(crud.PersonDeps{
		Persons:    st.persons,
		Roles:      st.roles,
		Tx:         st.tx,
		BcryptCost: cfg.Security.BcryptCost,
	}, st.documents, log, m)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Factory:  factory,
		Log:      log,
		Metrics:  m,
		Gatherer: reg,
		Paging:   cfg.Paging,
		AppName:  cfg.App.Name,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		errCh <- app.Listen(cfg.HTTP.Addr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("servidor HTTP: %w", err)
	case <-quit:
	}

	log.Info().Msg("apagando servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
		return err
	}
	log.Info().Msg("servidor detenido")
	return nil
}
