package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aharding/hardingphotos/pkg/configuration"
	"github.com/aharding/hardingphotos/pkg/services"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var (
	Version string = "development"

	config configuration.Config
)

var rootCmd = &cobra.Command{
	Use:     "albumctl",
	Version: Version,
	Short:   "Manage photo albums in object storage",
	Long: `albumctl manages the albums behind the gallery website.

An album is a set of images under an object-store prefix plus one
metadata document in the key-value store. 'sync' creates or updates an
album, 'delete' removes one entirely. Both commands prompt for anything
not supplied on the command line.

Connection settings come from the environment (AWS_ENDPOINT_URL,
AWS_BUCKET, REDIS_URL, and friends).`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config = configuration.LoadConfig()
		configuration.SetupLogging(config, Version)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(deleteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// albumServices bundles the store clients a command needs alongside the
// synchronizer itself.
type albumServices struct {
	sync        services.SyncServicer
	metadata    services.MetadataServicer
	objectStore services.ObjectStoreServicer
}

func buildServices(ctx context.Context) (*albumServices, error) {
	s3Client, err := configuration.NewS3Client(ctx, config)

	if err != nil {
		return nil, err
	}

	redisClient, err := configuration.NewRedisClient(ctx, config)

	if err != nil {
		return nil, err
	}

	objectStore := services.NewObjectStoreService(services.ObjectStoreServiceConfig{
		Bucket:   config.AwsBucket,
		S3Client: s3Client,
	})

	metadata := services.NewMetadataService(services.MetadataServiceConfig{
		Redis: redisClient,
	})

	syncService := services.NewSyncService(services.SyncServiceConfig{
		ObjectStore: objectStore,
		Metadata:    metadata,
	})

	return &albumServices{
		sync:        syncService,
		metadata:    metadata,
		objectStore: objectStore,
	}, nil
}

// handlePromptError turns a Ctrl-C or an answered-no confirm prompt into
// a clean exit instead of a cobra error dump.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		fmt.Println("\nCancelled.")
		os.Exit(0)
	}

	if errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}

	return err
}

func confirmPrompt(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrInterrupt) {
			fmt.Println("\nCancelled.")
			os.Exit(0)
		}

		return false
	}

	return true
}
