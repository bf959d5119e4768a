package main

import (
	"context"
	"embed"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/aharding/hardingphotos/cmd/website/internal/api"
	"github.com/aharding/hardingphotos/cmd/website/internal/cache"
	"github.com/aharding/hardingphotos/cmd/website/internal/gallery"
	"github.com/aharding/hardingphotos/pkg/configuration"
	"github.com/aharding/hardingphotos/pkg/services"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
)

var (
	Version string = "development"
	appName string = "hardingphotos"

	//go:embed app
	appFS embed.FS

	config configuration.Config

	/* Services */
	metadataService  services.MetadataServicer
	objectStore      services.ObjectStoreServicer
	renderer         rendering.TemplateRenderer
	thumbnailCreator cache.ThumbnailCreator

	/* Controllers */
	apiController     api.ApiHandlers
	galleryController gallery.GalleryHandlers
)

func main() {
	var (
		err         error
		s3Client    *awss3.Client
		redisClient *redis.Client
	)

	config = configuration.LoadConfig()
	configuration.SetupLogging(config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("awsEndpointUrl", config.AwsEndpointUrl),
		slog.String("awsRegion", config.AwsRegion),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())

	/*
	 * Setup services
	 */
	retrier.Retry(func() error {
		if s3Client, err = configuration.NewS3Client(shutdownCtx, config); err != nil {
			slog.Error("failed to create S3 client. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		panic(err)
	}

	retrier.Retry(func() error {
		if redisClient, err = configuration.NewRedisClient(shutdownCtx, config); err != nil {
			slog.Error("failed to connect to metadata store. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		panic(err)
	}

	renderer, err = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		PagesDir:          "pages",
	})

	if err != nil {
		panic(err)
	}

	objectStore = services.NewObjectStoreService(services.ObjectStoreServiceConfig{
		Bucket:   config.AwsBucket,
		S3Client: s3Client,
	})

	metadataService = services.NewMetadataService(services.MetadataServiceConfig{
		Redis: redisClient,
	})

	thumbnailCreator = cache.NewThumbnailCreatorService(cache.ThumbnailCreatorConfig{
		Metadata:    metadataService,
		ObjectStore: objectStore,
		MaxWorkers:  config.MaxThumbnailWorkers,
		ShutdownCtx: shutdownCtx,
	})

	presignExpiration := time.Duration(config.PresignExpirationMinutes) * time.Minute

	/*
	 * Setup controllers
	 */
	galleryController = gallery.NewGalleryController(gallery.GalleryControllerConfig{
		Metadata:          metadataService,
		ObjectStore:       objectStore,
		PresignExpiration: presignExpiration,
		Renderer:          renderer,
	})

	apiController = api.NewApiController(api.ApiControllerConfig{
		Metadata:          metadataService,
		ObjectStore:       objectStore,
		PresignExpiration: presignExpiration,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /", HandlerFunc: galleryController.HomePage},
		{Path: "GET /albums/{id}", HandlerFunc: galleryController.ViewAlbumPage},
		{Path: "GET /albums/{id}/download", HandlerFunc: galleryController.DownloadAlbumZip},
		{Path: "GET /api/albums", HandlerFunc: apiController.AlbumList},
		{Path: "GET /api/albums/{id}", HandlerFunc: apiController.GetAlbum},
	}

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
		HttpWriteTimeout:     60,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Start the thumbnail creator job
	 */
	setupThumbnailCreator(quit)

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

func setupThumbnailCreator(quit chan os.Signal) {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		running := true

		runner := func() {
			defer func() {
				running = false
			}()

			thumbnailCreator.CreateThumbnails()
		}

		runner()

		for {
			select {
			case <-quit:
				return

			case <-ticker.C:
				if running {
					slog.Info("thumbnail creator already running. skipping...")
					continue
				}

				running = true
				runner()
			}
		}
	}()
}
