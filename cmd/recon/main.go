// backend-go/cmd/recon/main.go
//
// Offline reconciliation CLI: run a pass against CSV drops, seed the
// database from them, or archive the latest pass to object storage.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/config"
	"github.com/andresuchdata/marginsight/backend-go/internal/engine"
	"github.com/andresuchdata/marginsight/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/marginsight/backend-go/internal/source"
	"github.com/andresuchdata/marginsight/backend-go/internal/storage"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory containing source CSV drops",
		Value:   "./data",
		EnvVars: []string{"APP_DATA_DIR"},
	}
}

// loadAndCompute reads the CSV drops and runs one reconciliation pass.
func loadAndCompute(ctx context.Context, dataDir string) (engine.Snapshot, engine.Derived, error) {
	snap, errs := source.Load(ctx, source.NewCSVProvider(dataDir))
	for _, err := range errs {
		log.Printf("warning: %v", err)
	}
	if len(errs) == len(source.All) {
		return engine.Snapshot{}, engine.Derived{}, fmt.Errorf("no source collection could be read from %s", dataDir)
	}

	derived := engine.Compute(snap, time.Now())
	return snap, derived, nil
}

func runPass(c *cli.Context) error {
	ctx := c.Context

	_, derived, err := loadAndCompute(ctx, c.String("data-dir"))
	if err != nil {
		return err
	}

	archiver := storage.NewArchiver(storage.NewLocalClient(c.String("out-dir")))
	if err := archiver.Export(ctx, derived, time.Now()); err != nil {
		return fmt.Errorf("failed to export pass: %w", err)
	}

	log.Printf("pass %s written to %s", derived.Fingerprint(), c.String("out-dir"))
	return nil
}

func seedDatabase(c *cli.Context) error {
	ctx := c.Context

	db, err := postgres.NewDBFromURL(c.String("db-url"))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	snap, derived, err := loadAndCompute(ctx, c.String("data-dir"))
	if err != nil {
		return err
	}

	if err := postgres.NewSnapshotRepository(db).ReplaceSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("failed to seed snapshot: %w", err)
	}
	if err := postgres.NewDerivedRepository(db).SaveDerived(ctx, derived, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to seed derived pass: %w", err)
	}

	log.Printf("seeded pass %s", derived.Fingerprint())
	return nil
}

func exportLatest(c *cli.Context) error {
	ctx := c.Context

	db, err := postgres.NewDBFromURL(c.String("db-url"))
	if err != nil {
		return err
	}
	defer db.Close()

	derived, ok, err := postgres.NewDerivedRepository(db).LoadLatest(ctx)
	if err != nil {
		return fmt.Errorf("failed to load latest pass: %w", err)
	}
	if !ok {
		return fmt.Errorf("no computed pass in the database, run seed first")
	}

	cfg := config.Load()
	s3, err := storage.NewS3Client(cfg.Archive)
	if err != nil {
		return fmt.Errorf("failed to initialize archive storage: %w", err)
	}

	if err := storage.NewArchiver(s3).Export(ctx, derived, time.Now()); err != nil {
		return fmt.Errorf("failed to archive pass: %w", err)
	}

	log.Printf("archived pass %s", derived.Fingerprint())
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "recon",
		Usage: "Run reconciliation passes outside the server",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Compute a pass from CSV drops and write the derived tabs locally",
				Flags: []cli.Flag{
					newDataDirFlag(),
					&cli.StringFlag{
						Name:  "out-dir",
						Usage: "Directory to write derived CSVs into",
						Value: "./out",
					},
				},
				Action: runPass,
			},
			{
				Name:  "seed",
				Usage: "Apply the schema and load a pass from CSV drops into the database",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newDataDirFlag(),
				},
				Action: seedDatabase,
			},
			{
				Name:  "export",
				Usage: "Archive the latest stored pass to object storage",
				Flags: []cli.Flag{
					newDBURLFlag(),
				},
				Action: exportLatest,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
