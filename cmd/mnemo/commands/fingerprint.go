// ABOUTME: CLI command to aggregate and compare project fingerprints
// ABOUTME: Folds fragment embeddings from a JSON file into one 4096-dim vector
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mnemo-ai/mnemo/internal/core"
	"github.com/mnemo-ai/mnemo/internal/models"
)

var (
	fingerprintCompare string
	fingerprintOutput  string
	fingerprintProject string
)

// fragmentFile is the input format: fragments produced by an external
// code slicer, each with its own embedding
type fragmentFile struct {
	ProjectID   string                `json:"project_id"`
	ProjectPath string                `json:"project_path"`
	Fragments   []models.CodeFragment `json:"fragments"`
}

// NewFingerprintCmd creates the fingerprint command
func NewFingerprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint <fragments.json>",
		Short: "Compute a project fingerprint",
		Long: `Aggregate per-fragment embeddings into a single 4096-dimensional
project fingerprint for cross-project similarity.

The input file holds fragments produced by a code slicer, each with
its type, line count, and embedding. With --compare, the similarity
against another fingerprint file is printed instead.

Examples:
  mnemo fingerprint fragments.json
  mnemo fingerprint fragments.json --output dna.json
  mnemo fingerprint fragments.json --compare other-dna.json`,
		Args: cobra.ExactArgs(1),
		RunE: runFingerprint,
	}

	cmd.Flags().StringVar(&fingerprintCompare, "compare", "", "Fingerprint JSON file to compare against")
	cmd.Flags().StringVar(&fingerprintOutput, "output", "", "Write the fingerprint JSON to this file")
	cmd.Flags().StringVar(&fingerprintProject, "project", "", "Project ID override")

	return cmd
}

func runFingerprint(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading fragments file: %w", err)
	}

	var input fragmentFile
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("parsing fragments file: %w", err)
	}

	vector, err := core.AggregateFingerprint(input.Fragments)
	if err != nil {
		return fmt.Errorf("aggregating fingerprint: %w", err)
	}

	projectID := input.ProjectID
	if fingerprintProject != "" {
		projectID = fingerprintProject
	}

	totalLines := 0
	for _, frag := range input.Fragments {
		totalLines += frag.Lines
	}

	fingerprint := models.ProjectFingerprint{
		ProjectID:   projectID,
		ProjectPath: input.ProjectPath,
		Embedding:   vector,
		Metrics: models.ProjectMetrics{
			TotalFiles: len(input.Fragments),
			TotalLines: totalLines,
		},
		AnalyzedAt: time.Now(),
	}

	if fingerprintCompare != "" {
		return compareFingerprint(cmd, &fingerprint)
	}

	if fingerprintOutput != "" {
		jsonData, err := json.MarshalIndent(fingerprint, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling fingerprint: %w", err)
		}
		if err := os.WriteFile(fingerprintOutput, jsonData, 0644); err != nil {
			return fmt.Errorf("writing fingerprint: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote fingerprint for %s to %s\n", projectID, fingerprintOutput)
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(fingerprint, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling fingerprint: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Project:    %s\n", projectID)
	fmt.Fprintf(cmd.OutOrStdout(), "Fragments:  %d\n", len(input.Fragments))
	fmt.Fprintf(cmd.OutOrStdout(), "Lines:      %d\n", totalLines)
	fmt.Fprintf(cmd.OutOrStdout(), "Dimensions: %d\n", len(fingerprint.Embedding))
	return nil
}

// compareFingerprint prints the cosine similarity against a stored fingerprint
func compareFingerprint(cmd *cobra.Command, fingerprint *models.ProjectFingerprint) error {
	data, err := os.ReadFile(fingerprintCompare)
	if err != nil {
		return fmt.Errorf("reading comparison fingerprint: %w", err)
	}

	var other models.ProjectFingerprint
	if err := json.Unmarshal(data, &other); err != nil {
		return fmt.Errorf("parsing comparison fingerprint: %w", err)
	}

	similarity, err := core.CompareFingerprints(fingerprint, &other)
	if err != nil {
		return fmt.Errorf("comparing fingerprints: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(map[string]interface{}{
			"project":    fingerprint.ProjectID,
			"other":      other.ProjectID,
			"similarity": similarity,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Similarity between %s and %s: %.4f\n",
		fingerprint.ProjectID, other.ProjectID, similarity)
	return nil
}
