package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"later/internal/app"
	"later/internal/auth"
	"later/internal/config"
	"later/internal/repository/postgres"
	"later/internal/seed"
	contentService "later/internal/service/content"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed content")
	clearData := flag.Bool("clear-data", false, "Delete the seed user's workspaces (keep schema)")
	fixture := flag.String("fixture", seed.DefaultFixture, "Embedded fixture to load")
	userEmail := flag.String("user-email", "", "Seed for this Supabase user, creating it if needed (requires SUPABASE_SERVICE_KEY)")
	userPassword := flag.String("user-password", "password123", "Password for a newly created --user-email")
	resetUser := flag.Bool("reset-user", false, "Delete and recreate the --user-email account")
	printOutline := flag.Bool("print", false, "Print the seeded content as an outline")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData || *resetUser) {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables, --clear-data, --reset-user) in production environment")
	}

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	ctx := context.Background()

	if *dropTables {
		if cfg.Storage == "memory" {
			log.Fatalf("--drop-tables needs postgres storage")
		}
		log.Printf("Dropping all tables (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
		pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := postgres.DropAll(ctx, pool, postgres.NewTableNames(cfg.TablePrefix)); err != nil {
			pool.Close()
			log.Fatalf("Failed to drop tables: %v", err)
		}
		pool.Close()
		log.Println("Tables dropped")
	}

	// Opening storage applies the schema
	storage, err := app.OpenStorage(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer storage.Close()
	log.Println("Schema ready")

	if *schemaOnly {
		return
	}

	userID := cfg.DevUserID
	if *userEmail != "" {
		userID = ensureUser(ctx, cfg, *userEmail, *userPassword, *resetUser)
	}

	svc := contentService.NewServices(storage.Repos, nil, cfg.MaxNodeLevels, logger)
	seeder := seed.NewSeeder(svc, logger)

	if *clearData {
		n, err := seeder.Clear(ctx, userID)
		if err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Printf("Deleted %d workspaces for user %s", n, userID)
		return
	}

	f, err := seed.LoadFixture(*fixture)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	sum, err := seeder.Seed(ctx, userID, f)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeding complete for user %s: %d workspaces, %d containers, %d notes, %d nodes",
		userID, sum.Workspaces, sum.Containers, sum.Notes, sum.Nodes)

	if *printOutline {
		text, err := seeder.Outline(ctx, userID)
		if err != nil {
			log.Fatalf("Failed to render outline: %v", err)
		}
		fmt.Println(text)
	}
}

// ensureUser resolves (or creates) the Supabase account to seed for
func ensureUser(ctx context.Context, cfg *config.Config, email, password string, reset bool) string {
	serviceKey := os.Getenv("SUPABASE_SERVICE_KEY")
	if serviceKey == "" || cfg.SupabaseURL == "" {
		log.Fatalf("--user-email requires SUPABASE_URL and SUPABASE_SERVICE_KEY")
	}

	admin := auth.NewAdminClient(cfg.SupabaseURL, serviceKey)
	if reset {
		if err := admin.DeleteUserByEmail(ctx, email); err != nil {
			log.Fatalf("Failed to delete user %s: %v", email, err)
		}
	}

	userID, err := admin.EnsureUser(ctx, email, password)
	if err != nil {
		log.Fatalf("Failed to ensure user %s: %v", email, err)
	}
	log.Printf("Seeding for %s (%s)", email, userID)
	return userID
}
