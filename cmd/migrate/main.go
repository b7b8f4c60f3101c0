package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"servicebay/internal/pkg/config"
	"servicebay/internal/pkg/obs"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/joho/godotenv"
)

// Applies migrations/ with the atlas CLI. The directory carries an atlas.sum;
// run `atlas migrate hash` after editing any migration file.
func main() {
	dir := flag.String("dir", "migrations", "migration directory")
	bin := flag.String("atlas", "atlas", "atlas binary")
	dryRun := flag.Bool("dry-run", false, "print pending migrations without applying")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Log)

	if err := run(logger, cfg.DB, *dir, *bin, *dryRun); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, dbCfg config.DBConfig, dir, bin string, dryRun bool) error {
	workdir, err := atlasexec.NewWorkingDir(atlasexec.WithMigrations(os.DirFS(dir)))
	if err != nil {
		return err
	}
	defer workdir.Close()

	client, err := atlasexec.NewClient(workdir.Path(), bin)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL:    dbCfg.BuildDSN(),
		DryRun: dryRun,
	})
	if err != nil {
		return err
	}

	for _, f := range res.Applied {
		logger.Info("migration applied", "version", f.Version, "description", f.Description)
	}
	logger.Info("database is up to date", "current", res.Current, "target", res.Target, "dry_run", dryRun)
	return nil
}
