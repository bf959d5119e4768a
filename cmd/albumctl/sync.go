package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/aharding/hardingphotos/pkg/models"
	"github.com/aharding/hardingphotos/pkg/services"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var (
	syncAlbumID string
	syncFolder  string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Create or update an album",
	Long: `Create or update an album's metadata and images.

The existing metadata document and image listing (if any) are fetched
first and offered as prompt defaults. Saving metadata replaces the whole
document; uploading a folder overwrites images key by key, so re-running
with the same folder is safe.

Examples:
  albumctl sync
  albumctl sync --id summer-trip --folder ~/photos/summer-trip`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncAlbumID, "id", "", "album identifier (lowercase letters, digits, hyphens)")
	syncCmd.Flags().StringVar(&syncFolder, "folder", "", "local folder of images to upload")
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc, err := buildServices(ctx)

	if err != nil {
		return err
	}

	albumID := syncAlbumID

	if albumID == "" {
		if albumID, err = promptAlbumID(); err != nil {
			return handlePromptError(err)
		}
	}

	if err = models.ValidateAlbumID(albumID); err != nil {
		return err
	}

	existing, existingKeys := fetchExisting(ctx, svc, albumID)

	if existing != nil {
		fmt.Printf("Album '%s' exists: %q, %d image(s) stored.\n", albumID, existing.Title, len(existingKeys))
	} else {
		fmt.Printf("Album '%s' has no metadata yet. %d image(s) stored.\n", albumID, len(existingKeys))
	}

	request := services.CreateOrUpdateRequest{AlbumID: albumID}

	if confirmPrompt("Edit metadata") {
		if request.Metadata, err = promptMetadata(existing, existingKeys); err != nil {
			return handlePromptError(err)
		}
	}

	request.FolderPath = syncFolder

	if request.FolderPath == "" {
		folderPrompt := promptui.Prompt{
			Label:   "Folder to upload (empty to skip)",
			Default: "",
		}

		if request.FolderPath, err = folderPrompt.Run(); err != nil {
			return handlePromptError(err)
		}

		request.FolderPath = strings.TrimSpace(request.FolderPath)
	}

	if request.Metadata == nil && request.FolderPath == "" {
		fmt.Println("Nothing to do.")
		return nil
	}

	result, err := svc.sync.CreateOrUpdate(ctx, request)

	if result != nil {
		printSyncSummary(result)
	}

	return err
}

func promptAlbumID() (string, error) {
	prompt := promptui.Prompt{
		Label: "Album ID",
		Validate: func(input string) error {
			return models.ValidateAlbumID(input)
		},
	}

	return prompt.Run()
}

// promptMetadata collects all five metadata fields, prefilled from the
// existing document when there is one. Every field is always written.
func promptMetadata(existing *models.Album, existingKeys []string) (*models.Album, error) {
	defaults := models.Album{}

	if existing != nil {
		defaults = *existing
	}

	if defaults.CoverKey == "" && len(existingKeys) > 0 {
		defaults.CoverKey = existingKeys[0]
	}

	album := &models.Album{}

	titlePrompt := promptui.Prompt{Label: "Title", Default: defaults.Title}
	title, err := titlePrompt.Run()

	if err != nil {
		return nil, err
	}

	descriptionPrompt := promptui.Prompt{Label: "Description", Default: defaults.Description}
	description, err := descriptionPrompt.Run()

	if err != nil {
		return nil, err
	}

	coverPrompt := promptui.Prompt{Label: "Cover image key", Default: defaults.CoverKey}
	coverKey, err := coverPrompt.Run()

	if err != nil {
		return nil, err
	}

	album.Title = title
	album.Description = description
	album.CoverKey = coverKey
	album.AllowDownloads = confirmPrompt("Allow downloads")
	album.Private = confirmPrompt("Private album")

	return album, nil
}

// fetchExisting pulls the current metadata and image listing for prompt
// defaults only. Failures here degrade to "nothing exists" and have no
// bearing on the sync itself.
func fetchExisting(ctx context.Context, svc *albumServices, albumID string) (*models.Album, []string) {
	existing, err := svc.metadata.GetAlbum(ctx, albumID)

	if err != nil {
		fmt.Printf("Warning: could not read existing metadata: %v\n", err)
		existing = nil
	}

	keys, err := svc.objectStore.ListImages(ctx, albumID)

	if err != nil {
		fmt.Printf("Warning: could not list existing images: %v\n", err)
		keys = nil
	}

	return existing, keys
}

func printSyncSummary(result *services.SyncResult) {
	if result.MetadataSaved {
		fmt.Println("Metadata saved.")
	}

	for _, warning := range result.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}

	if result.Processed() == 0 {
		return
	}

	for _, upload := range result.Uploads {
		if upload.Err != nil {
			fmt.Printf("  FAILED %s: %v\n", upload.Key, upload.Err)
		} else {
			fmt.Printf("  ok     %s (%dx%d)\n", upload.Key, upload.Dimensions.Width, upload.Dimensions.Height)
		}
	}

	fmt.Printf("Processed %d image(s): %d succeeded, %d failed.\n", result.Processed(), result.Succeeded(), result.Failed())
}
