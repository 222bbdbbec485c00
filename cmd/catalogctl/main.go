// catalogctl is the catalog console: an interactive client for the
// Catalog API plus a seeding tool that loads demo data straight into
// the backing store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/electrodrive/catalog-api/internal/auth"
	"github.com/electrodrive/catalog-api/internal/catalog"
	"github.com/electrodrive/catalog-api/internal/client/actions"
	"github.com/electrodrive/catalog-api/internal/client/api"
	"github.com/electrodrive/catalog-api/internal/client/cli"
	"github.com/electrodrive/catalog-api/internal/client/state"
	"github.com/electrodrive/catalog-api/internal/config"
	"github.com/electrodrive/catalog-api/internal/logging"
	"github.com/electrodrive/catalog-api/internal/seed"
	"github.com/electrodrive/catalog-api/internal/store/dynamo"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "seed" {
		runSeed(os.Args[2:])
		return
	}
	runREPL(os.Args[1:])
}

func runREPL(args []string) {
	flags := flag.NewFlagSet("catalogctl", flag.ExitOnError)
	serverURL := flags.String("server", "http://localhost:8000/api/v1", "catalog API base URL")
	verbose := flags.Bool("v", false, "verbose logging")
	if err := flags.Parse(args); err != nil {
		os.Exit(2)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	tokens, err := api.NewFileTokenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open token store: %v\n", err)
		os.Exit(1)
	}

	store := state.NewStore()
	apiClient := api.NewClient(*serverURL, tokens, logger)
	acts := actions.New(apiClient, store, logger)

	repl := cli.NewREPL(acts, store, os.Stdin, os.Stdout, logger)
	if err := repl.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runSeed(args []string) {
	flags := flag.NewFlagSet("catalogctl seed", flag.ExitOnError)
	importData := flags.Bool("i", false, "import demo motors and users")
	destroyData := flags.Bool("d", false, "delete all motors")
	if err := flags.Parse(args); err != nil {
		os.Exit(2)
	}
	if *importData == *destroyData {
		fmt.Fprintln(os.Stderr, "usage: catalogctl seed -i | -d")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logging.New(cfg)

	ctx := context.Background()
	dynamoClient, err := dynamo.NewClient(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize DynamoDB client")
	}

	userStore := dynamo.NewUserStore(dynamoClient, cfg.DynamoDB.UsersTableName)
	motorStore := dynamo.NewMotorStore(dynamoClient, cfg.DynamoDB.MotorsTableName)
	authService := auth.NewService(userStore, &cfg.JWT, logger)
	catalogService := catalog.NewService(motorStore, logger)

	seeder := seed.NewSeeder(authService, catalogService, motorStore, logger)

	if *importData {
		if err := seeder.Import(ctx); err != nil {
			logger.WithError(err).Fatal("Seed import failed")
		}
		logger.Info("Seed data imported")
		return
	}

	if err := seeder.Destroy(ctx); err != nil {
		logger.WithError(err).Fatal("Seed destroy failed")
	}
	logger.Info("Seed data destroyed")
}
