package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	defaultPDFToPPM = "pdftoppm"
	defaultDPI      = 200
)

// ErrNoPages is returned when rasterization produced no page images.
var ErrNoPages = errors.New("ocr: pdf rasterized to zero pages")

// Rasterizer renders every page of a PDF to PNG using poppler's pdftoppm.
type Rasterizer struct {
	Binary  string
	DPI     int
	TempDir string
}

// Rasterize returns one PNG per page, in page order. The scratch directory is
// removed before returning on every path.
func (r Rasterizer) Rasterize(ctx context.Context, pdf []byte) ([][]byte, error) {
	if len(pdf) == 0 {
		return nil, errors.New("ocr: empty pdf")
	}
	binary := r.Binary
	if strings.TrimSpace(binary) == "" {
		binary = defaultPDFToPPM
	}
	dpi := r.DPI
	if dpi <= 0 {
		dpi = defaultDPI
	}

	dir, err := os.MkdirTemp(r.TempDir, "rasterize-*")
	if err != nil {
		return nil, fmt.Errorf("rasterize: temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(src, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("rasterize: write input: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, "-png", "-r", strconv.Itoa(dpi), src, filepath.Join(dir, "page"))
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("rasterize: %s: %w: %s", binary, err, strings.TrimSpace(stderr.String()))
	}

	files, err := pageFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoPages
	}

	pages := make([][]byte, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("rasterize: read page: %w", err)
		}
		pages = append(pages, data)
	}
	return pages, nil
}

type pageFile struct {
	path string
	num  int
}

// pageFiles lists page-N.png outputs sorted numerically. pdftoppm zero-pads
// the page number to the width of the page count, so a lexical sort is not
// enough once mixed widths appear.
func pageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("rasterize: list pages: %w", err)
	}
	var pages []pageFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "page-") || !strings.HasSuffix(name, ".png") {
			continue
		}
		num, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "page-"), ".png"))
		if err != nil {
			continue
		}
		pages = append(pages, pageFile{path: filepath.Join(dir, name), num: num})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].num < pages[j].num })
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.path)
	}
	return out, nil
}
