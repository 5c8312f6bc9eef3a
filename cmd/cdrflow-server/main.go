// Command cdrflow-server provides a REST API for cdrflow operations.
//
// Usage:
//
//	cdrflow-server [options]
//
// Options:
//
//	-port     Port to listen on (default: 8080)
//	-host     Host to bind to (default: localhost)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aria-lang/cdrflow-go/api/handlers"
	"github.com/aria-lang/cdrflow-go/api/middleware"
	"github.com/aria-lang/cdrflow-go/pkg/cdrflow"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func newRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(cdrflow.Version()))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/fragment", func(r chi.Router) {
			r.Post("/validate", handlers.ValidateHandler)
			r.Post("/info", handlers.FragmentInfoHandler)
		})

		r.Route("/alignment", func(r chi.Router) {
			r.Post("/global", handlers.AlignHandler)
			r.Post("/score", handlers.AlignmentScoreHandler)
		})

		r.Post("/distance", handlers.DistanceHandler)
		r.Post("/closest", handlers.ClosestHandler)
		r.Post("/stats", handlers.StatsHandler)
	})

	return r
}

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	host := flag.String("host", "localhost", "Host to bind to")
	flag.Parse()

	addr := fmt.Sprintf("%s:%d", *host, *port)
	server := &http.Server{
		Addr:         addr,
		Handler:      newRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Could not gracefully shutdown: %v\n", err)
		}
		close(done)
	}()

	log.Printf("cdrflow API server starting on http://%s\n", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", addr, err)
	}

	<-done
	log.Println("Server stopped")
}
