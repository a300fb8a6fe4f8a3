package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"resume-fit/internal/bootstrap"
	"resume-fit/internal/extract"
	"resume-fit/internal/shared/config"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the plain text extracted from a resume file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.BuildCore(cmd.Context(), config.Load())
			if err != nil {
				return err
			}
			defer app.Close()

			text, err := extractFile(cmd.Context(), app.Extractor, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}

type fileExtractor interface {
	Extract(ctx context.Context, data []byte, mimeType string) (string, error)
}

func extractFile(ctx context.Context, ex fileExtractor, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return ex.Extract(ctx, data, mimeFromExt(path))
}

// mimeFromExt maps well-known extensions. Anything else is left empty so the
// extractor sniffs the content.
func mimeFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extract.MimePDF
	case ".docx":
		return extract.MimeDOCX
	case ".doc":
		return extract.MimeDOC
	case ".jpg", ".jpeg":
		return extract.MimeJPEG
	case ".png":
		return extract.MimePNG
	case ".webp":
		return extract.MimeWEBP
	default:
		return ""
	}
}
