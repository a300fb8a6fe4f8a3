package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"resume-fit/internal/bootstrap"
	"resume-fit/internal/shared/config"
)

func newAnalyzeCmd() *cobra.Command {
	var resumePath, jobPath, outPath string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a resume against a job description and print the JSON result",
		Example: `  resumefit analyze --resume cv.pdf --job jd.txt
  pbpaste | resumefit analyze --resume cv.docx --job - --out result.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jobDescription, err := readJob(cmd.InOrStdin(), jobPath)
			if err != nil {
				return err
			}

			app, err := bootstrap.BuildCore(cmd.Context(), config.Load())
			if err != nil {
				return err
			}
			defer app.Close()

			resumeText, err := extractFile(cmd.Context(), app.Extractor, resumePath)
			if err != nil {
				return err
			}

			result, err := app.AnalysisService.Analyze(cmd.Context(), resumeText, jobDescription)
			if err != nil {
				return err
			}

			pretty, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("format json: %w", err)
			}
			pretty = append(pretty, '\n')
			if outPath != "" {
				if err := os.WriteFile(outPath, pretty, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}
			_, err = cmd.OutOrStdout().Write(pretty)
			return err
		},
	}

	cmd.Flags().StringVarP(&resumePath, "resume", "r", "", "path to the resume (pdf, doc, docx or image)")
	cmd.Flags().StringVarP(&jobPath, "job", "j", "", `path to the job description text, or "-" for stdin`)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "also write the JSON result to this path")
	_ = cmd.MarkFlagRequired("resume")
	_ = cmd.MarkFlagRequired("job")
	return cmd
}

func readJob(stdin io.Reader, path string) (string, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return "", errors.New("job description is empty")
	}
	return string(raw), nil
}
