package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talentclub/auth"
	"talentclub/booking"
	"talentclub/db"
	"talentclub/lessons"
	"talentclub/models"
	"talentclub/mq"
	"talentclub/ratelim"
	"talentclub/rdx"
	"talentclub/receipts"
	"talentclub/routes"
	"talentclub/search"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(stores *db.Stores, rateLimiter *ratelim.RateLimiter) *httprouter.Router {
	bookingSvc := booking.NewService(stores.Lessons, stores.Orders, booking.PhoneIdentityVerifier{}, mq.EmitSeatUpdate)
	searchSvc := search.NewService(stores.Lessons)

	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddLessonRoutes(router, lessons.NewHandlers(stores.Lessons), rateLimiter)
	routes.AddOrderRoutes(router, booking.NewHandlers(bookingSvc), receipts.NewHandlers(stores.Orders), rateLimiter)
	routes.AddSearchRoutes(router, search.NewHandlers(searchSvc))
	routes.AddAuthRoutes(router, auth.NewHandlers(stores.Admins), rateLimiter)
	routes.AddStaticRoutes(router)

	return router
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	// read port
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8000"
	} else if port[0] != ':' {
		port = ":" + port
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	stores, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("❌ MongoDB connection failed: %v", err)
	}
	log.Println("Connected to MongoDB")

	rdx.Init()

	// relay committed seat changes to websocket subscribers and drop the
	// stale catalog cache
	go mq.StartSeatWorker(ctx, func(update models.SeatUpdate) {
		booking.BroadcastSeatUpdate(update)
		rdx.InvalidateLessonCache(ctx)
	})

	rateLimiter := ratelim.NewRateLimiter(5, 10)
	router := setupRouter(stores, rateLimiter)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}
	if err := stores.Close(shutdownCtx); err != nil {
		log.Printf("MongoDB disconnect error: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
