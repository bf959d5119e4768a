package main

import (
	"fmt"

	"github.com/aharding/hardingphotos/pkg/services"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <album-id>",
	Short: "Delete an album and all of its images",
	Long: `Delete an album's images and its metadata document.

Nothing destructive happens without confirmation. Images are removed
before the metadata document, so an interrupted delete can simply be
re-run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	var (
		err     error
		albumID string
	)

	ctx := cmd.Context()

	if len(args) > 0 {
		albumID = args[0]
	} else {
		if albumID, err = promptAlbumID(); err != nil {
			return handlePromptError(err)
		}
	}

	svc, err := buildServices(ctx)

	if err != nil {
		return err
	}

	result, err := svc.sync.Delete(ctx, albumID, func(summary services.DeleteSummary) bool {
		label := fmt.Sprintf("Delete album '%s' (%d image(s)", summary.AlbumID, summary.ImageCount)

		if summary.HasMetadata {
			label += ", metadata present)"
		} else {
			label += ", no metadata)"
		}

		return confirmPrompt(label)
	})

	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}

	switch {
	case !result.Found:
		fmt.Printf("Album '%s' not found: no metadata and no images.\n", albumID)
	case !result.Confirmed:
		fmt.Println("Cancelled. Nothing was deleted.")
	default:
		fmt.Printf("Deleted %d of %d image(s).\n", result.ImagesDeleted, result.ImagesFound)

		if result.MetadataDeleted {
			fmt.Println("Metadata document deleted.")
		}
	}

	return nil
}
