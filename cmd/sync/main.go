// backend-go/cmd/sync/main.go
//
// Standalone webhook receiver: the workbook's Apps Script trigger posts
// here on edit, and we re-pull the tabs and recompute immediately
// instead of waiting for the next polling interval.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/config"
	"github.com/andresuchdata/marginsight/backend-go/internal/refresh"
	"github.com/andresuchdata/marginsight/backend-go/internal/sheets"
	"github.com/andresuchdata/marginsight/backend-go/internal/sink"
	"github.com/andresuchdata/marginsight/backend-go/internal/source"
	"github.com/gorilla/mux"
)

type syncHandler struct {
	refresher *refresh.Refresher
	token     string
}

func (h *syncHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/sheets/sync", h.SyncNow).Methods("POST")
	router.HandleFunc("/api/sheets/latest", h.Latest).Methods("GET")
}

func (h *syncHandler) SyncNow(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Sync-Token")
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if h.token == "" || token != h.token {
		http.Error(w, "invalid sync token", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	derived, err := h.refresher.Refresh(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("refresh failed: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"fingerprint": derived.Fingerprint(),
		"synced_at":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *syncHandler) Latest(w http.ResponseWriter, r *http.Request) {
	derived, ok := h.refresher.Latest()
	if !ok {
		http.Error(w, "no pass computed yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"fingerprint": derived.Fingerprint(),
	})
}

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.Sheets.SpreadsheetID == "" {
		log.Fatal("SHEETS_SPREADSHEET_ID is required for the sync receiver")
	}

	ctx := context.Background()

	// Initialize Sheets service
	sheetsSvc, err := sheets.NewService(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID)
	if err != nil {
		log.Fatalf("Failed to initialize Sheets service: %v", err)
	}

	refresher := refresh.NewRefresher(source.NewSheetsProvider(sheetsSvc))

	// Write derived tabs back to the workbook after each sync
	if cfg.Sink.Enabled {
		debouncer := sink.NewDebouncer(
			sink.NewSheetsSink(sheetsSvc),
			time.Duration(cfg.Sink.DebounceSeconds)*time.Second,
			time.Duration(cfg.Sink.JitterSeconds)*time.Second,
		)
		refresher.OnComputed(debouncer.Schedule)
		defer debouncer.Flush()
	}

	// Create router
	r := mux.NewRouter()

	handler := &syncHandler{refresher: refresher, token: cfg.Sheets.SyncToken}
	handler.RegisterRoutes(r)

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Sync receiver starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
