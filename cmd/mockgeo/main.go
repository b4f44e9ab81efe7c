// mockgeo is a stand-in for the OpenCage reverse-geocoding API for local
// development. It answers every geocode query with a synthetic formatted
// address and keeps a log of received queries for inspection.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/env"
)

// Query is one geocode request as recorded in memory.
type Query struct {
	Q          string `json:"q"`
	ReceivedAt string `json:"received_at"`
}

var (
	queries []Query
	mu      sync.Mutex
)

func main() {
	port := env.GetString("PORT", "9090")

	http.HandleFunc("/geocode/v1/json", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		q := r.URL.Query().Get("q")
		log.Printf("Geocode query: %s", q)

		mu.Lock()
		queries = append(queries, Query{
			Q:          q,
			ReceivedAt: time.Now().Format(time.RFC3339),
		})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"results": []map[string]interface{}{
				{"formatted": fmt.Sprintf("Mock Street near %s, Hyderabad, India", q)},
			},
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	})

	// The recorded queries, newest last.
	http.HandleFunc("/queries", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(queries); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	})

	log.Printf("Mock geocoder listening on :%s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
