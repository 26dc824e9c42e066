package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appfulfillment "github.com/erp/fulfillment/internal/application/fulfillment"
	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/infrastructure/config"
	"github.com/erp/fulfillment/internal/infrastructure/documents"
	"github.com/erp/fulfillment/internal/infrastructure/journal"
	"github.com/erp/fulfillment/internal/infrastructure/labels"
	"github.com/erp/fulfillment/internal/infrastructure/logger"
	"github.com/erp/fulfillment/internal/infrastructure/marketplace"
	"github.com/erp/fulfillment/internal/infrastructure/packing"
	"github.com/erp/fulfillment/internal/infrastructure/printing"
	"github.com/erp/fulfillment/internal/infrastructure/scheduler"
	"github.com/erp/fulfillment/internal/infrastructure/state"
	httpiface "github.com/erp/fulfillment/internal/interfaces/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting fulfiller",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("marketplace", cfg.Marketplace.Provider),
		zap.String("labels", cfg.Labels.Provider),
	)

	// Journal database
	journalDB, err := journal.NewDatabase(cfg.Journal.Path, log)
	if err != nil {
		log.Fatal("Failed to open journal database", zap.Error(err))
	}
	defer func() {
		if err := journalDB.Close(); err != nil {
			log.Error("Error closing journal database", zap.Error(err))
		}
	}()
	passJournal := journal.NewGormPassJournal(journalDB.DB)

	// Document storage for labels and packing slips
	docStore, err := documents.NewFileSystemStore(&documents.FileSystemStoreConfig{
		BasePath: cfg.Documents.BasePath,
		Logger:   log,
	})
	if err != nil {
		log.Fatal("Failed to initialize document storage", zap.Error(err))
	}

	// Durable seen-order set
	seenStore := state.NewSeenOrderStore(cfg.State.SeenOrdersPath, log)
	log.Info("Seen-order store loaded",
		zap.String("path", cfg.State.SeenOrdersPath),
		zap.Int("seen", seenStore.Size()),
	)

	// Order source
	source, err := buildOrderSource(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize order source", zap.Error(err))
	}

	// Label acquirer
	acquirer := buildLabelAcquirer(cfg, docStore, log)

	// Packing slip renderer
	pdfRenderer, err := packing.NewWkhtmltopdfRenderer(&packing.WkhtmltopdfConfig{
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer pdfRenderer.Close()
	slipRenderer := packing.NewPackingSlipRenderer(pdfRenderer, docStore, &packing.SlipRendererConfig{
		Logger: log,
	})

	// Print sink, degrading to dry-run when the printer is unreachable
	printer, dryRun := buildPrintSink(cfg, log)

	// Pipeline orchestrator
	orchestrator := appfulfillment.NewOrchestrator(
		appfulfillment.OrchestratorConfig{
			Lookback:    cfg.Poller.Lookback,
			StepTimeout: cfg.Poller.StepTimeout,
		},
		source, acquirer, slipRenderer, printer, seenStore, passJournal, log,
	)

	// Polling loop
	poller := scheduler.NewPoller(scheduler.PollerConfig{
		Interval:    cfg.Poller.Interval,
		PassTimeout: cfg.Poller.PassTimeout,
	}, orchestrator, log)

	if err := poller.Start(context.Background()); err != nil {
		log.Fatal("Failed to start poller", zap.Error(err))
	}

	// Status server
	var statusServer *httpiface.Server
	if cfg.Status.Enabled {
		handler := httpiface.NewStatusHandler(poller, passJournal, seenStore, dryRun)
		statusServer = httpiface.NewServer(httpiface.ServerConfig{
			Port: cfg.Status.Port,
			Env:  cfg.App.Env,
		}, handler, log)
		statusServer.Start()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if statusServer != nil {
		if err := statusServer.Stop(ctx); err != nil {
			log.Error("Status server shutdown failed", zap.Error(err))
		}
	}
	if err := poller.Stop(ctx); err != nil {
		log.Error("Poller forced to shut down", zap.Error(err))
	}

	log.Info("Fulfiller exited gracefully")
}

// buildOrderSource wires the configured marketplace provider.
func buildOrderSource(cfg *config.Config, log *zap.Logger) (fulfillment.OrderSource, error) {
	ebayConfig := marketplace.NewEbayConfig(
		cfg.Ebay.ClientID,
		cfg.Ebay.ClientSecret,
		cfg.Ebay.RefreshToken,
		cfg.Ebay.Environment,
	)
	ebayConfig.PageSize = cfg.Ebay.PageSize
	ebayConfig.TimeoutSeconds = cfg.Ebay.TimeoutSeconds

	registry := marketplace.NewRegistry()
	if cfg.Marketplace.Provider == string(marketplace.ProviderCodeEbay) {
		adapter, err := marketplace.NewEbayAdapter(ebayConfig, log)
		if err != nil {
			return nil, err
		}
		registry.Register(adapter)
	}
	registry.Register(marketplace.NewStaticSource(cfg.Marketplace.StaticOrdersPath, log))

	provider, err := registry.Get(marketplace.ProviderCode(cfg.Marketplace.Provider))
	if err != nil {
		return nil, err
	}
	return provider, nil
}

// buildLabelAcquirer wires the configured label provider.
func buildLabelAcquirer(cfg *config.Config, store documents.Store, log *zap.Logger) fulfillment.LabelAcquirer {
	if cfg.Labels.Provider == string(labels.ProviderCodeStub) {
		return labels.NewStubLabelService(store, log)
	}
	return labels.NewEbayLabelService(log)
}

// buildPrintSink wires the print sink. A failed printer probe falls back to
// dry-run so a pass never marks orders it could not physically print.
func buildPrintSink(cfg *config.Config, log *zap.Logger) (fulfillment.PrintSink, bool) {
	if cfg.Printer.DryRun {
		log.Info("Printer in dry-run mode")
		return printing.NewDryRunPrinter(log), true
	}

	cups, err := printing.NewCUPSPrinter(&printing.CUPSConfig{
		PrinterName: cfg.Printer.Name,
		ServerHost:  cfg.Printer.ServerHost,
		JobTimeout:  cfg.Printer.JobTimeout,
		Logger:      log,
	})
	if err != nil {
		log.Warn("Printer setup failed, falling back to dry-run", zap.Error(err))
		return printing.NewDryRunPrinter(log), true
	}

	probeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := cups.Probe(probeCtx); err != nil {
		log.Warn("Printer probe failed, falling back to dry-run",
			zap.String("printer", cfg.Printer.Name),
			zap.Error(err))
		return printing.NewDryRunPrinter(log), true
	}

	log.Info("Printer ready",
		zap.String("printer", cfg.Printer.Name),
		zap.String("server", cfg.Printer.ServerHost))
	return cups, false
}
