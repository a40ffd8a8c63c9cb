package cli

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/vaultline/vaultline/common/logging"
	"github.com/vaultline/vaultline/common/messaging"
	natsclient "github.com/vaultline/vaultline/common/messaging/nats"
	"github.com/vaultline/vaultline/internal/guard"
	"github.com/vaultline/vaultline/internal/models"
	"github.com/vaultline/vaultline/internal/repository"
	"github.com/vaultline/vaultline/internal/taxonomy"
	"github.com/vaultline/vaultline/internal/writer"
)

var (
	seedOrgID string
	seedCount int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate demo activity events through the real write path",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed()
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedOrgID, "org", "demo-org", "org to seed events into")
	seedCmd.Flags().IntVar(&seedCount, "count", 200, "number of events to generate")
	rootCmd.AddCommand(seedCmd)
}

var seedProviders = []string{"google_drive", "dropbox", "onedrive", "box"}

func runSeed() error {
	gofakeit.Seed(time.Now().UnixNano())
	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)

	ctx := context.Background()
	if err := runMigrations(cfg.Database.ConnString()); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	repo, err := repository.NewPostgresRepository(ctx, cfg.Database.ConnString())
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer repo.Close()

	var publisher messaging.Publisher
	if cfg.NATS.Enabled {
		natsCfg := natsclient.DefaultConfig()
		natsCfg.URL = cfg.NATS.URL
		client, err := natsclient.NewClient(natsCfg)
		if err != nil {
			log.Printf("WARNING: NATS unavailable, telemetry echo disabled: %v", err)
		} else {
			publisher = client
			defer client.Close()
		}
	}

	refGuard := guard.New(repo, logger, cfg.Activity.LookupTimeout)
	w := writer.New(repo, refGuard, publisher, logger)

	// Seed a handful of documents so reference resolution has targets.
	docIDs := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		id := uuid.New().String()
		if err := repo.InsertDocument(ctx, id, seedOrgID, gofakeit.BookTitle()+".pdf"); err != nil {
			return err
		}
		docIDs = append(docIDs, id)
	}

	types := taxonomy.AllTypes()
	seeded := 0
	for i := 0; i < seedCount; i++ {
		in := models.EventInput{
			OrgID:      seedOrgID,
			UserID:     gofakeit.Username(),
			Type:       types[rand.Intn(len(types))],
			Source:     "seeder",
			DurationMS: int64(rand.Intn(5000)),
		}
		if g, _ := taxonomy.GroupOf(in.Type); g != taxonomy.GroupConnectors {
			in.DocumentID = docIDs[rand.Intn(len(docIDs))]
		} else {
			in.Context = models.Context{
				models.CtxProvider: seedProviders[rand.Intn(len(seedProviders))],
			}
		}
		if _, err := w.Log(ctx, in); err != nil {
			log.Printf("WARNING: seed event dropped: %v", err)
			continue
		}
		seeded++
	}

	// A few decks for the card provider's feature aggregate.
	for i := 0; i < 5; i++ {
		id := uuid.New().String()
		created := time.Now().Add(-time.Duration(rand.Intn(72)) * time.Hour)
		if err := repo.InsertDeck(ctx, id, seedOrgID, gofakeit.Sentence(3), created); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d events for org %s", seeded, seedOrgID)
	return nil
}
