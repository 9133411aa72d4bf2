package main

import (
	_ "embed"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

//go:embed data.json
var jsonData []byte

type findRequest struct {
	Query string `json:"query"`
}

func main() {
	var parties map[string]json.RawMessage
	if err := json.Unmarshal(jsonData, &parties); err != nil {
		log.Fatalf("[DaData] Bad data.json: %v", err)
	}

	http.HandleFunc("/suggestions/api/4_1/rs/findById/party", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Token ") {
			w.WriteHeader(http.StatusUnauthorized)
			log.Printf("[DaData] %s %s - 401 missing token", r.Method, r.URL.Path)
			return
		}

		var req findRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		// Simulate network latency (50-200ms)
		time.Sleep(time.Duration(50+time.Now().UnixNano()%150) * time.Millisecond)

		suggestions := []json.RawMessage{}
		if party, ok := parties[req.Query]; ok {
			suggestions = append(suggestions, party)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(map[string]interface{}{"suggestions": suggestions}); err != nil {
			log.Printf("[DaData] Write error: %v", err)
		}

		log.Printf("[DaData] %s %s query=%s hits=%d", r.Method, r.URL.Path, req.Query, len(suggestions))
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			log.Printf("[DaData] Health write error: %v", err)
		}
	})

	log.Println("Mock DaData running on :8082")
	server := &http.Server{
		Addr:         ":8082",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
