package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-journal-keeper/internal/blob"
	"github.com/MKhiriev/go-journal-keeper/internal/config"
	myHTTP "github.com/MKhiriev/go-journal-keeper/internal/handler/http"
	"github.com/MKhiriev/go-journal-keeper/internal/logger"
	"github.com/MKhiriev/go-journal-keeper/internal/server"
	"github.com/MKhiriev/go-journal-keeper/internal/service"
	"github.com/MKhiriev/go-journal-keeper/internal/store"
	"github.com/MKhiriev/go-journal-keeper/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("journal-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error running migrations")
	}

	overlay, err := store.NewOverlayStore(ctx, cfg.Storage.Cache, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error opening overlay cache")
	}

	storages := store.NewStorages(db, overlay, *cfg, log)

	blobStore, err := blob.NewHTTPBlobStore(cfg.Blob, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating blob store")
	}
	verifyStorageBuckets(ctx, blobStore, cfg.Blob, log)

	services := service.NewServices(storages, blobStore, *cfg, log)

	autoSave := workers.NewAutoSaveWorker(services.EntryService, cfg.Workers, log)
	workers.NewWorkers(autoSave).Run()
	defer autoSave.Stop()

	handler := myHTTP.NewHandler(services, autoSave, log)

	srv, err := server.NewServer(handler, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

// verifyStorageBuckets probes the configured buckets once at startup.
// A missing bucket disables nothing; migrations and uploads will surface
// their own errors, so this only logs.
func verifyStorageBuckets(ctx context.Context, blobStore blob.BlobStore, cfg config.Blob, log *logger.Logger) {
	for _, bucket := range []string{cfg.EntryImagesBucket, cfg.ProfileAvatarsBucket} {
		if err := blobStore.List(ctx, bucket); err != nil {
			log.Warn().Err(err).Str("bucket", bucket).Msg("storage bucket is not reachable")
			continue
		}
		log.Info().Str("bucket", bucket).Msg("storage bucket verified")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
