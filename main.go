package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"slimSquadAPI/handlers"
	"slimSquadAPI/internal/store"
	"slimSquadAPI/middleware"
	"slimSquadAPI/pkg/utilities"
	"slimSquadAPI/services"
)

var (
	db            *store.Store
	sessionSecret []byte
	secureCookie  bool

	authService      *services.AuthService
	userService      *services.UserService
	challengeService *services.ChallengeService
	entryService     *services.EntryService
	penaltyService   *services.PenaltyService
	photoService     *services.PhotoService
)

func init() {
	envLoaded := godotenv.Load() == nil

	if _, err := utilities.InitLogger(utilities.LogConfigFromEnv()); err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := utilities.Log
	if !envLoaded {
		log.Info("no .env file found")
	}

	secret := os.Getenv("SESSION_SECRET")
	if len(secret) < 32 {
		log.Fatal("SESSION_SECRET must be set and at least 32 characters long")
	}
	sessionSecret = []byte(secret)

	switch os.Getenv("COOKIE_SECURE") {
	case "true", "1", "yes":
		secureCookie = true
	}

	dataRoot := os.Getenv("DATA_ROOT")
	if dataRoot == "" {
		dataRoot = "./data"
	}

	var err error
	db, err = store.Open(filepath.Join(dataRoot, "db.json"))
	if err != nil {
		log.Fatalw("failed to open database", "error", err)
	}
	log.Infow("database ready", "path", db.Path())

	photoService = services.NewPhotoService(filepath.Join(dataRoot, "uploads"))
	authService = services.NewAuthService(db)
	userService = services.NewUserService(db)
	challengeService = services.NewChallengeService(db)
	entryService = services.NewEntryService(db, photoService)
	penaltyService = services.NewPenaltyService(db)

	middleware.InitPrometheus()
}

func main() {
	log := utilities.Log
	defer func() {
		log.Info("closing database")
		db.Close()
	}()

	authHandler := handlers.NewAuthHandler(authService, sessionSecret, secureCookie)
	userHandler := handlers.NewUserHandler(userService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	entryHandler := handlers.NewEntryHandler(entryService)
	penaltyHandler := handlers.NewPenaltyHandler(penaltyService)
	uploadHandler := handlers.NewUploadHandler(photoService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "slimSquad-api"}`))
	}).Methods("GET")

	// Uploaded photos; names are random per upload so content is immutable.
	r.HandleFunc("/uploads/{file}", uploadHandler.ServeUpload).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	api.HandleFunc("/auth/members", authHandler.Members).Methods("GET")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.SessionAuthMiddleware(sessionSecret))

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user/preferences", userHandler.UpdatePreferences).Methods("PUT")

	protected.HandleFunc("/dashboard", challengeHandler.GetDashboard).Methods("GET")
	protected.HandleFunc("/challenges", challengeHandler.ListChallenges).Methods("GET")
	protected.HandleFunc("/challenges/active", challengeHandler.GetActiveChallenge).Methods("GET")
	protected.HandleFunc("/challenges/{challengeId}", challengeHandler.GetChallenge).Methods("GET")
	protected.HandleFunc("/challenges/{challengeId}/prize-pool", challengeHandler.GetPrizePool).Methods("GET")
	protected.HandleFunc("/challenges/{challengeId}/penalty", penaltyHandler.SetPenaltyStatus).Methods("PUT")

	protected.HandleFunc("/entries", entryHandler.SaveEntry).Methods("POST")
	protected.HandleFunc("/entries", entryHandler.ListMyEntries).Methods("GET")
	protected.HandleFunc("/entries/{entryId}", entryHandler.DeleteEntry).Methods("DELETE")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infow("starting server", "addr", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server error", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Infow("got signal", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server shutdown error", "error", err)
	}

	log.Info("server shutdown complete")
}
