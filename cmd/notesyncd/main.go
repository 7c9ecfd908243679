package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/nzaccagnino/notesync/internal/server"
)

func main() {
	// Configuration from environment
	port := getEnv("PORT", "8090")
	apiKey := getEnv("API_KEY", "")

	if apiKey == "" {
		log.Println("WARNING: API_KEY not set, accepting unauthenticated requests")
	}

	srv := server.New(apiKey)

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting dev record server on %s", addr)

	if err := http.ListenAndServe(addr, srv); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
