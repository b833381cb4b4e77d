package main

import (
	"context"
	"database/sql"
	"flag"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/config"
	"fuel-route-service/internal/ports"
	"log"

	"github.com/joho/godotenv"
)

// dbtool prepares a reading store: creates the schema and optionally loads
// historical readings from a JSON seed file.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	seedPath := flag.String("seed", cfg.SeedPath, "path to a JSON file of readings to import")
	flag.Parse()

	conn, dialect, err := repositories.OpenStore(cfg.DBDriver, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	store := repositories.NewReadingStore(conn, dialect)

	if err := initAndSeed(conn, dialect, store, *seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(conn *sql.DB, dialect string, store ports.ReadingStore, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(conn, dialect); err != nil {
		return err
	}
	log.Println("Schema ready.")

	if seedPath == "" {
		return nil
	}

	log.Println("Seeding readings...")
	n, err := repositories.SeedReadingsFromJSON(context.Background(), store, seedPath)
	if err != nil {
		return err
	}
	log.Printf("Seeding complete. count=%d", n)

	return nil
}
