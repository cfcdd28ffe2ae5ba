package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ecotoken_store/internal/catalog"
	"github.com/GTDGit/ecotoken_store/internal/config"
	"github.com/GTDGit/ecotoken_store/internal/database"
	"github.com/GTDGit/ecotoken_store/internal/models"
	"github.com/GTDGit/ecotoken_store/internal/repository"
	"github.com/GTDGit/ecotoken_store/internal/utils"
)

// seedFile is the fixture format: a product feed plus wallet balances.
type seedFile struct {
	Data    []models.RawProduct `json:"data"`
	Wallets map[string]int64    `json:"wallets"`
}

// main loads fixture products and wallets into PostgreSQL and prints a
// shopper token for each seeded wallet.
func main() {
	path := flag.String("file", "seed.json", "path to seed fixture")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "validity of printed shopper tokens")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	utils.SetJWTSecret(cfg.JWTSecret)

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("failed to read seed file")
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatal().Err(err).Msg("failed to parse seed file")
	}

	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	if err := database.Migrate(db.DB, "file://migrations"); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	ctx := context.Background()
	productRepo := repository.NewProductRepository(db)
	for i, p := range catalog.NormalizeAll(seed.Data) {
		if p.ID == "" {
			log.Warn().Int("index", i).Msg("skipping product without id")
			continue
		}
		if err := productRepo.Upsert(ctx, &p, i); err != nil {
			log.Fatal().Err(err).Str("product_id", p.ID).Msg("failed to upsert product")
		}
	}
	log.Info().Int("count", len(seed.Data)).Msg("products seeded")

	walletRepo := repository.NewWalletRepository(db)
	for userID, balance := range seed.Wallets {
		if err := walletRepo.SetTokenBalance(ctx, userID, balance); err != nil {
			log.Fatal().Err(err).Str("user_id", userID).Msg("failed to seed wallet")
		}
		token, err := utils.GenerateJWT(userID, "", *tokenTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to issue token")
		}
		fmt.Printf("%s\t%d\t%s\n", userID, balance, token)
	}
}
