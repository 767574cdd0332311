package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arts.org/internal/auth"
	"arts.org/internal/blob"
	"arts.org/internal/config"
	"arts.org/internal/httpapi"
	"arts.org/internal/obs"
	"arts.org/internal/store/pg"
	"arts.org/internal/workflow"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg := config.FromEnv()
	if cfg.AuthSecret == "" {
		log.Fatal("ARTS_AUTH_SECRET is required")
	}

	var (
		profiles  auth.ProfileStore
		flowStore workflow.Store
		probe     httpapi.ReadyProbe
	)
	if cfg.PGDSN != "" {
		store, err := pg.Open(cfg.PGDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer store.Close()
		profiles = store.Profiles()
		flowStore = store
		probe = httpapi.ReadyProbe{DB: store.DB()}
	} else {
		log.Print("no ARTS_PG_DSN set, using in-memory stores")
		profiles = auth.NewInMemoryProfiles()
		flowStore = workflow.NewInMemory()
	}

	authOpts := []auth.Option{}
	if cfg.TokenTTL > 0 {
		authOpts = append(authOpts, auth.WithTokenTTL(cfg.TokenTTL))
	}
	authSvc, err := auth.NewService(profiles, cfg.AuthSecret, authOpts...)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}

	blobs, err := blob.NewFS(cfg.EvidenceDir, "/files")
	if err != nil {
		log.Fatalf("evidence store: %v", err)
	}
	flow, err := workflow.NewService(flowStore, workflow.WithBlobStore(blobs))
	if err != nil {
		log.Fatalf("workflow service: %v", err)
	}

	api := httpapi.New(probe, version, authSvc, flow, cfg.EvidenceDir)
	api.SetRateLimit(cfg.RateBurst, cfg.RatePerSec)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting arts-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
