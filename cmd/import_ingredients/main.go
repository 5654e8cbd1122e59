// Command import_ingredients loads a name,measurement_unit CSV file into the
// ingredient catalog. Rows that already exist are left untouched.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/store"
)

func main() {
	path := flag.String("file", "data/ingredients.csv", "CSV file with a header row")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	db, err := database.New(cfg.DB)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.DB.MigrationsDir); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	f, err := os.Open(*path)
	if err != nil {
		logging.Fatal().Err(err).Str("file", *path).Msg("failed to open csv")
	}
	defer f.Close()

	catalog := service.NewCatalogService(store.NewCatalogStore(db))
	result, err := catalog.ImportIngredients(context.Background(), f)
	if err != nil {
		logging.Fatal().Err(err).Str("file", *path).Msg("import failed")
	}
	logging.Info().
		Str("file", *path).
		Int("created", result.Created).
		Int("existing", result.Existing).
		Msg("import finished")
}
