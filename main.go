package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/adiljeddiradja/Mykeuangan/pkg/store"
)

var (
	jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)
	st        *store.Store
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Load ./.env if present before reading vars; real env wins.
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	st = store.New(store.Options{
		LocalPath: envOr("DB_PATH", store.DefaultLocalPath),
		ProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
	})
	defer st.Close()

	// Support a lightweight migrate command: `./mykeuangan migrate`
	// It opens the local database, runs schema creation and seeding, then
	// exits. Useful for CI or manual setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if _, err := st.Local(); err != nil {
			log.Fatalf("migrate failed: %v", err)
		}
		fmt.Println("migration and seeding completed")
		return
	}

	if _, err := st.Local(); err != nil {
		log.Fatalf("open local database: %v", err)
	}

	r := gin.Default()
	setupRoutes(r)

	if err := r.Run(":" + envOr("PORT", "8081")); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
