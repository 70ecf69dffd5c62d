package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var (
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against the indexed documents",
	Long: `Embeds the question, retrieves the most similar document chunks and
synthesises an answer grounded in them. The chunks the answer drew on
are listed as sources.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default 5)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd.Context(), serviceOptions{}); err != nil {
		return err
	}
	defer closeServices()

	if answerService == nil {
		return errors.New("answer service not configured")
	}

	query := domain.Query{Text: args[0], TopK: askTopK}
	answer, err := answerService.Ask(cmd.Context(), query)
	if errors.Is(err, domain.ErrNoRelevantDocuments) {
		cmd.Println("No relevant documents found. Upload documents first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	return outputAnswerText(cmd, answer)
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	payload := struct {
		Answer         string                  `json:"answer"`
		Sources        []domain.RetrievedMatch `json:"sources"`
		ProcessingTime float64                 `json:"processing_time"`
	}{
		Answer:         answer.Text,
		Sources:        answer.Sources,
		ProcessingTime: answer.Duration.Seconds(),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer *domain.Answer) error {
	cmd.Println(answer.Text)

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, src := range answer.Sources {
			name, _ := src.Metadata[domain.MetaFilename].(string)
			if name == "" {
				name = "Unknown"
			}
			cmd.Printf("  [%d] %s (%.2f)\n", i+1, name, src.Score)
		}
	}

	cmd.Printf("\nAnswered in %.2fs\n", answer.Duration.Seconds())
	return nil
}
