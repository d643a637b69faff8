package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/merchlab/acc-dashboard/backend-go/internal/config"
	"github.com/merchlab/acc-dashboard/backend-go/internal/drive"
	"github.com/merchlab/acc-dashboard/backend-go/internal/repository/postgres"
)

func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	cfg := config.Load()

	driveService, err := drive.NewService(context.Background(), cfg.Drive.CredentialsJSON)
	if err != nil {
		log.Fatalf("Failed to initialize Google Drive service: %v", err)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	incomingRepo := postgres.NewIncomingRepository(db.DB)
	ingestService := drive.NewIngestService(driveService, incomingRepo)

	r := mux.NewRouter()
	driveHandler := drive.NewHandler(driveService, ingestService, cfg.Drive.FolderPath)
	driveHandler.RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Ingest server starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
