package serve

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/contentgrid/dctm-connector/internal/cmd/base"
	"github.com/contentgrid/dctm-connector/internal/config"
	"github.com/contentgrid/dctm-connector/internal/connector"
	"github.com/contentgrid/dctm-connector/internal/server"
	"github.com/contentgrid/dctm-connector/pkg/dctm/rest"
	"github.com/contentgrid/dctm-connector/pkg/sink"
	"github.com/contentgrid/dctm-connector/pkg/sink/kafka"
	"github.com/contentgrid/dctm-connector/pkg/sink/memory"
)

type Command struct {
	*base.Command

	flagConfig string
}

func (c *Command) Synopsis() string {
	return "Run the Documentum connector server"
}

func (c *Command) Help() string {
	return `Usage: dctm-connector serve -config=config.hcl

  Validates the configuration, verifies the docbase connection, and serves
  the sync trigger and document content endpoints over HTTP.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("serve", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "config.hcl",
		"Path to the HCL configuration file",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := config.Load(c.flagConfig)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
		return 1
	}

	logger := c.Log.Named("dctm")

	// Check the core required keys first so the operator-facing message
	// follows the documented order: username, password, docbaseName, src.
	// Service initialization re-runs this as part of its staged startup.
	if err := cfg.Validate(); err != nil {
		c.UI.Error(fmt.Sprintf("invalid configuration: %v", err))
		return 1
	}

	// The REST provider needs the repository endpoint; this is a serve-mode
	// requirement, not a core config key.
	if cfg.Documentum.ServerURL == "" {
		c.UI.Error("documentum.server_url is required to reach the repository")
		return 1
	}

	// Identifier sink: Kafka when brokers are configured, otherwise an
	// in-memory sink for local runs.
	var idSink sink.IdentifierSink
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kafkaSink, err := kafka.New(kafka.Config{
			Brokers: brokers,
			Topic:   cfg.Topic(),
		}, logger)
		if err != nil {
			c.UI.Error(fmt.Sprintf("error creating identifier sink: %v", err))
			return 1
		}
		defer kafkaSink.Close()
		idSink = kafkaSink
	} else {
		c.UI.Warn("no indexer brokers configured; identifiers will be kept in memory")
		idSink = memory.New()
	}

	provider := rest.New(rest.Config{BaseURL: cfg.Documentum.ServerURL}, logger)
	svc := connector.NewService(cfg, provider, idSink, logger)

	// Handle signals for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if err := svc.Init(ctx); err != nil {
		c.UI.Error(fmt.Sprintf("error initializing connector (stage %s): %v", svc.Stage(), err))
		return 1
	}
	c.UI.Info(fmt.Sprintf("connector ready: docbase %s, %d start paths",
		cfg.Documentum.DocbaseName, len(svc.StartPaths())))

	srv := server.New(svc, cfg.ListenAddr(), logger)
	if err := srv.Run(ctx); err != nil {
		c.UI.Error(fmt.Sprintf("server error: %v", err))
		return 1
	}

	c.UI.Info("connector stopped gracefully")
	return 0
}
