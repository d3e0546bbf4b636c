// package formatter provides functions to export research articles to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/desertthunder/squall/internal/models"
	"github.com/desertthunder/squall/internal/shared"
)

// ExportToCSV converts a research result's references to CSV format with columns: Index, Title, URL, Description
func ExportToCSV(result *models.ResearchResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Index", "Title", "URL", "Description"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, ref := range result.References {
		record := []string{
			strconv.Itoa(i + 1),
			ref.Title,
			ref.URL,
			ref.Description,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a research result to a Markdown article
func ExportToMarkdown(result *models.ResearchResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", result.Topic))

	if result.Summary != "" {
		buf.WriteString(fmt.Sprintf("%s\n\n", result.Summary))
	}

	buf.WriteString(fmt.Sprintf("**Depth**: %s\n", result.Depth))
	if result.CompletedTime != nil {
		buf.WriteString(fmt.Sprintf("**Completed**: %s\n", result.CompletedTime.Format(time.RFC3339)))
	}
	buf.WriteString("\n")

	for _, section := range result.Sections {
		buf.WriteString(fmt.Sprintf("## %s\n\n", section.Title))
		buf.WriteString(fmt.Sprintf("%s\n\n", section.Content))

		if len(section.Sources) > 0 {
			buf.WriteString("Sources:\n\n")
			for _, source := range section.Sources {
				buf.WriteString(fmt.Sprintf("- [%s](%s)\n", source.Title, source.URL))
			}
			buf.WriteString("\n")
		}
	}

	if len(result.References) > 0 {
		buf.WriteString("## References\n\n")
		for i, ref := range result.References {
			buf.WriteString(fmt.Sprintf("%d. [%s](%s)", i+1, ref.Title, ref.URL))
			if ref.Description != "" {
				buf.WriteString(fmt.Sprintf(" - %s", ref.Description))
			}
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a research result to plain text format
func ExportToText(result *models.ResearchResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Topic: %s\n", result.Topic))
	if result.Summary != "" {
		buf.WriteString(fmt.Sprintf("Summary: %s\n", result.Summary))
	}
	buf.WriteString(fmt.Sprintf("Sections: %d\n\n", len(result.Sections)))

	for i, section := range result.Sections {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, section.Title))
		buf.WriteString(fmt.Sprintf("%s\n\n", section.Content))
	}

	if len(result.References) > 0 {
		buf.WriteString("References:\n")
		for i, ref := range result.References {
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, ref.Title, ref.URL))
		}
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of a result's metadata (without sections)
func ToMetadataJSON(result *models.ResearchResult) ([]byte, error) {
	summary := models.ResultSummary{
		ID:            result.ID,
		Topic:         result.Topic,
		Summary:       result.Summary,
		CompletedTime: result.CompletedTime,
	}
	return shared.MarshalJSON(summary, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ReferencesFile string
	MetadataFile   string
}

// WriteCSVExport exports a result's references to CSV with an accompanying metadata JSON file.
//
// Defaults to the result ID as the base filename & creates {base}_references.csv and {base}_metadata.json
func WriteCSVExport(result *models.ResearchResult, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = result.ID
	}

	csvData, err := ExportToCSV(result)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	referencesFile := baseFilepath + "_references.csv"
	if err := os.WriteFile(referencesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(result)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		ReferencesFile: referencesFile,
		MetadataFile:   metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport exports a research result to Markdown in a dedicated directory.
//
// Directory name defaults to the result ID. Creates {dir}/README.md.
func WriteMarkdownExport(result *models.ResearchResult, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = result.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(result)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{mdFile},
	}, nil
}

// WriteTextExport exports a research result to plain text format.
//
// Defaults to {result.ID}_article.txt as the filename.
func WriteTextExport(result *models.ResearchResult, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_article.txt", result.ID)
	}

	textData, err := ExportToText(result)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteJSONExport exports the full research result as indented JSON.
//
// Defaults to {result.ID}.json as the filename.
func WriteJSONExport(result *models.ResearchResult, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s.json", result.ID)
	}

	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return filepath, nil
}

// ManifestEntry summarizes one exported result in a manifest.
type ManifestEntry struct {
	ResultID string   `json:"result_id"`
	Topic    string   `json:"topic"`
	Success  bool     `json:"success"`
	Files    []string `json:"files,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// ExportManifest summarizes a bulk export run.
type ExportManifest struct {
	Format            string          `json:"format"`
	GeneratedAt       time.Time       `json:"generated_at"`
	TotalResults      int             `json:"total_results"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	OutputDirectory   string          `json:"output_directory"`
	Entries           []ManifestEntry `json:"entries"`
}

// WriteExportManifest writes the manifest for a bulk export run as indented JSON.
func WriteExportManifest(manifest ExportManifest, filepath string) error {
	if manifest.GeneratedAt.IsZero() {
		manifest.GeneratedAt = time.Now()
	}

	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to generate manifest JSON: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}

	return nil
}
