// Command testaferro serves the supplier-risk query API over a pre-built
// analytical store.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/LionartBR/testa-de-ferro/internal/application"
	"github.com/LionartBR/testa-de-ferro/internal/config"
	httpiface "github.com/LionartBR/testa-de-ferro/internal/interfaces/http"
	"github.com/LionartBR/testa-de-ferro/internal/interfaces/http/handlers"
	"github.com/LionartBR/testa-de-ferro/internal/metrics"
	"github.com/LionartBR/testa-de-ferro/internal/persistence/duckdb"
	"github.com/LionartBR/testa-de-ferro/internal/rules/alerts"
)

var configPath string

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	root := &cobra.Command{
		Use:   "testaferro",
		Short: "Read-only supplier-risk query service",
		Long:  "Serves dossiers, rankings, alert feeds and ownership graphs over a pre-built analytical store.",
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(configPath)
		},
	}
	serve.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML settings file")

	root.AddCommand(serve)

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := duckdb.Open(duckdb.Config{
		Path:         cfg.Store.Path,
		QueryTimeout: cfg.Store.QueryTimeout,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	suppliers := store.Suppliers()
	contracts := store.Contracts()
	graph := store.Graph()
	stats := store.StatsRepo()

	services := handlers.Services{
		Dossier: application.NewDossierService(application.DossierDeps{
			Suppliers: suppliers,
			Contracts: contracts,
			Sanctions: store.Sanctions(),
			Partners:  store.Partners(),
			Donations: store.Donations(),
			Graph:     graph,
		}, alerts.DefaultStrawmanConfig(), cfg.Disclaimer, nil),
		Ranking:   application.NewRankingService(suppliers),
		Search:    application.NewSearchService(suppliers),
		Feed:      application.NewFeedService(store.Alerts()),
		Contracts: application.NewContractsService(contracts),
		Graph:     application.NewGraphService(suppliers, graph, application.DefaultMaxGraphNodes),
		Stats:     application.NewStatsService(stats, suppliers),
		Orgs:      application.NewOrgDashboardService(stats),
	}

	collector := metrics.NewCollector()
	h := handlers.New(services, store.Ping)

	server := httpiface.NewServer(httpiface.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		RequestDeadline: cfg.Server.RequestDeadline,
		RateLimitCap:    cfg.Server.RateLimitCap,
		RateLimitWindow: cfg.Server.RateLimitWindow,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
	}, h, collector)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
