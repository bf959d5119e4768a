package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aharding/hardingphotos/pkg/configuration"
	"github.com/aharding/hardingphotos/pkg/services"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var (
	Version string = "development"

	config   configuration.Config
	basePath string
)

var rootCmd = &cobra.Command{
	Use:     "bulkupload <folder-name>",
	Version: Version,
	Short:   "Upload a folder of images as a new album",
	Long: `Upload every image in a folder as a new album.

The album identifier is derived from the folder name (lowercased,
disallowed characters become hyphens). No metadata document is written;
a suggested record is printed for 'albumctl sync' to apply.

Examples:
  bulkupload "Summer Trip 2025"
  bulkupload --base ~/photos "Summer Trip 2025"`,
	Args: cobra.ExactArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config = configuration.LoadConfig()
		configuration.SetupLogging(config, Version)
	},
	RunE: runBulkUpload,
}

func init() {
	rootCmd.Flags().StringVar(&basePath, "base", ".", "directory containing the folder to upload")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBulkUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	folderName := filepath.Base(args[0])

	s3Client, err := configuration.NewS3Client(ctx, config)

	if err != nil {
		return err
	}

	objectStore := services.NewObjectStoreService(services.ObjectStoreServiceConfig{
		Bucket:   config.AwsBucket,
		S3Client: s3Client,
	})

	redisClient, err := configuration.NewRedisClient(ctx, config)

	if err != nil {
		return err
	}

	metadata := services.NewMetadataService(services.MetadataServiceConfig{
		Redis: redisClient,
	})

	syncService := services.NewSyncService(services.SyncServiceConfig{
		ObjectStore: objectStore,
		Metadata:    metadata,
	})

	result, err := syncService.BulkUploadNewAlbum(ctx, services.BulkUploadRequest{
		FolderName: folderName,
		BasePath:   basePath,
		Confirm: func(albumID string, imageCount int) bool {
			prompt := promptui.Prompt{
				Label:     fmt.Sprintf("Upload %d image(s) as new album '%s'", imageCount, albumID),
				IsConfirm: true,
			}

			if _, promptErr := prompt.Run(); promptErr != nil {
				if errors.Is(promptErr, promptui.ErrInterrupt) {
					fmt.Println("\nCancelled.")
					os.Exit(0)
				}

				return false
			}

			return true
		},
	})

	if err != nil {
		return err
	}

	if !result.Confirmed {
		fmt.Println("Cancelled. Nothing was uploaded.")
		return nil
	}

	for _, upload := range result.Uploads {
		if upload.Err != nil {
			fmt.Printf("  FAILED %s: %v\n", upload.Key, upload.Err)
		} else {
			fmt.Printf("  ok     %s (%dx%d)\n", upload.Key, upload.Dimensions.Width, upload.Dimensions.Height)
		}
	}

	fmt.Printf("Processed %d image(s): %d succeeded, %d failed.\n", result.Processed(), result.Succeeded(), result.Failed())

	fmt.Println("\nSuggested metadata (apply with 'albumctl sync'):")
	fmt.Printf("  title:           %s\n", result.SuggestedMetadata.Title)
	fmt.Printf("  cover_key:       %s\n", result.SuggestedMetadata.CoverKey)
	fmt.Printf("  allow_downloads: %t\n", result.SuggestedMetadata.AllowDownloads)
	fmt.Printf("  private:         %t\n", result.SuggestedMetadata.Private)

	return nil
}
