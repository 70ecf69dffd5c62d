package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest PDF files into the index",
	Long: `Extracts text from the given PDFs, chunks it, embeds the chunks and
stores them in the vector index. Files are processed in order; a failure
stops at that file and leaves it in place.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd.Context(), serviceOptions{}); err != nil {
		return err
	}
	defer closeServices()

	if ingestService == nil {
		return errors.New("ingestion service not configured")
	}

	for _, path := range args {
		// Stage a copy; the pipeline deletes its input file on success.
		documentID := uuid.New().String()
		filename := filepath.Base(path)
		staged, err := stageCopy(path, appCfg.Ingest.UploadDir, documentID, filename)
		if err != nil {
			return fmt.Errorf("staging %s: %w", path, err)
		}

		job := domain.IngestJob{
			ID:         uuid.New().String(),
			DocumentID: documentID,
			FilePath:   staged,
			Filename:   filename,
		}

		cmd.Printf("Ingesting %s...\n", job.Filename)
		result := ingestService.Ingest(cmd.Context(), job)
		if !result.Success {
			return fmt.Errorf("ingesting %s failed at stage %s: %w", job.Filename, result.Stage, result.Err)
		}
		cmd.Printf("  %d chunks stored (document %s)\n", result.ChunksProcessed, result.DocumentID)
	}

	return nil
}

func stageCopy(src, uploadDir, documentID, filename string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(uploadDir, 0700); err != nil {
		return "", err
	}
	dst := filepath.Join(uploadDir, documentID+"_"+filename)
	if err := os.WriteFile(dst, data, 0600); err != nil {
		return "", err
	}
	return dst, nil
}
