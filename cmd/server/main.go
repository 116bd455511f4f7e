package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/rs/cors"

	"github.com/thiagodbh/lyvo-ledger/internal/config"
	"github.com/thiagodbh/lyvo-ledger/internal/entitlement"
	"github.com/thiagodbh/lyvo-ledger/internal/service"
	"github.com/thiagodbh/lyvo-ledger/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var storeImpl store.Store
	if cfg.UseMemoryStore {
		log.Println("[Server] using in-memory store for local development")
		storeImpl = store.NewMemoryStore()
	} else {
		if cfg.ProjectID == "" {
			log.Fatal("[Server] GOOGLE_CLOUD_PROJECT is required outside local mode")
		}
		client, err := firestore.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			log.Fatalf("[Server] failed to create Firestore client: %v", err)
		}
		defer client.Close()
		storeImpl = store.NewFirestoreStore(client)
	}

	gate := entitlement.NewGate(storeImpl, cfg.TrialDays)
	ledgerService := service.NewLedgerService(storeImpl, gate)

	mux := http.NewServeMux()
	mux.Handle("/v1/", ledgerService.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"status":"ok"}`)
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-User-Id"},
	})

	addr := ":" + cfg.Port
	log.Printf("[Server] listening on %s", addr)
	if err := http.ListenAndServe(addr, corsHandler.Handler(mux)); err != nil {
		log.Fatalf("[Server] server failed: %v", err)
	}
}
