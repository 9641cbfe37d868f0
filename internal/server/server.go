// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"github.com/Kevengrf/residencia-onboard/internal/auth"
	"github.com/Kevengrf/residencia-onboard/internal/controller/file"
	"github.com/Kevengrf/residencia-onboard/internal/database"
)

// MyServer contains the database instance and shared services bound to the
// registered routes.
type MyServer struct {
	DB             *database.DBinstanceStruct
	Storage        file.StorageClient
	BlacklistStore auth.JwtBlacklistStore
}

// NewServer constructs the http.Server with the main database, the session
// blacklist and, when a bucket is configured, cloud storage.
func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	var storage file.StorageClient
	if bucket := os.Getenv("STORAGE_BUCKET"); bucket != "" {
		client, err := file.NewCloudStorageClient(bucket)
		if err != nil {
			log.Fatalf("Cloud storage failed to initialize: %s", err)
		}
		storage = client
	}

	// Redis keeps revoked tokens across restarts. Without it sessions
	// fall back to the in-process store.
	var blacklist auth.JwtBlacklistStore
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
		blacklist = auth.NewRedisBlacklistStore(addr, os.Getenv("REDIS_PASSWORD"), redisDB)
	} else {
		blacklist = auth.NewInMemoryBlacklistStore()
	}

	s := &MyServer{
		DB:             db,
		Storage:        storage,
		BlacklistStore: blacklist,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
