// Package main is the entry point of the platform API server.
package main

import (
	"log"

	"github.com/Kevengrf/residencia-onboard/internal/server"
)

// @title Residencia Onboard API
// @version 1.0
// @description Backend for the residency program platform: students, partner companies, institutions and the management console.
// @BasePath /api/v1
func main() {
	srv := server.NewServer()

	log.Printf("Listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %s", err)
	}
}
