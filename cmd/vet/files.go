package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kirillkom/loan-document-vetting/internal/bootstrap"
	"github.com/kirillkom/loan-document-vetting/internal/config"
	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/observability/logging"
)

var errInvalidDocuments = errors.New("one or more documents failed vetting")

type fileVerdict struct {
	Path   string               `json:"path"`
	Result domain.VettingResult `json:"result"`
}

type filesOutput struct {
	Documents []fileVerdict            `json:"documents"`
	Report    *domain.ComplianceReport `json:"report,omitempty"`
}

func filesCmd() *cobra.Command {
	var (
		concurrency   int
		noOCR         bool
		withReport    bool
		failOnInvalid bool
	)

	cmd := &cobra.Command{
		Use:   "files <path>...",
		Short: "Vet local files and print the verdicts as JSON",
		Long: `Vet every given file concurrently. The output lists one verdict per file in
argument order. With --report the verdicts are also evaluated as one loan
application against the full document checklist.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if concurrency > 0 {
				cfg.BatchConcurrency = concurrency
			}
			if noOCR {
				cfg.OCREnabled = false
			}
			level, _ := cmd.Flags().GetString("log-level")
			logger := logging.New(cmd.ErrOrStderr(), "vet-cli", level)

			files := make([]domain.UploadedFile, 0, len(args))
			for _, path := range args {
				content, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				files = append(files, domain.UploadedFile{
					Filename: filepath.Base(path),
					Size:     int64(len(content)),
					Content:  content,
				})
			}

			engine := bootstrap.NewEngine(cfg, logger, bootstrap.Options{})
			results := engine.Vetter.VetBatch(cmd.Context(), files)

			out := filesOutput{Documents: make([]fileVerdict, 0, len(results))}
			invalid := false
			for i, result := range results {
				out.Documents = append(out.Documents, fileVerdict{Path: args[i], Result: result})
				if !result.Valid() {
					invalid = true
				}
			}
			if withReport {
				report := reportFor(args, results, time.Now().UTC())
				out.Report = &report
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(out); err != nil {
				return err
			}
			if failOnInvalid && invalid {
				return errInvalidDocuments
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "files vetted in parallel (default from BATCH_CONCURRENCY)")
	cmd.Flags().BoolVar(&noOCR, "no-ocr", false, "disable the OCR fallback for scans and images")
	cmd.Flags().BoolVar(&withReport, "report", false, "add a checklist report treating the files as one application")
	cmd.Flags().BoolVar(&failOnInvalid, "fail-on-invalid", false, "exit non-zero when any document is invalid")
	return cmd
}

// reportFor treats each path as a vetted document of a single local application.
func reportFor(paths []string, results []domain.VettingResult, now time.Time) domain.ComplianceReport {
	docs := make([]domain.Document, 0, len(results))
	for i := range results {
		result := results[i]
		docs = append(docs, domain.Document{
			ID:       paths[i],
			Filename: filepath.Base(paths[i]),
			Status:   domain.StatusVetted,
			Category: result.Category,
			Result:   &result,
		})
	}
	return domain.BuildComplianceReport("local", docs, now)
}
