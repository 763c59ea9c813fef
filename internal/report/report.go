// Package report renders practice reports as markdown and converts them to
// PDF.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/mandolyte/mdtopdf"

	"github.com/smartguide/smartguide/internal/history"
	"github.com/smartguide/smartguide/internal/statistics"
)

//go:embed templates/practice-report.md.go.tmpl
var reportTemplate string

// maxRecentSessions caps how many raw sessions the report lists.
const maxRecentSessions = 10

// Data is the input for one practice report.
type Data struct {
	GeneratedAt time.Time
	Performance statistics.PerformanceReport
	Recent      []history.Record
}

// Render executes the embedded report template into markdown.
func Render(data Data) ([]byte, error) {
	if len(data.Recent) > maxRecentSessions {
		data.Recent = data.Recent[:maxRecentSessions]
	}

	tmpl, err := template.New("practice-report.md.go.tmpl").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("template.Parse(practice report) > %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return buf.Bytes(), nil
}

// Generate writes the markdown report into outputDir and converts it to PDF,
// returning the absolute PDF path.
func Generate(outputDir string, data Data) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", outputDir, err)
	}

	markdown, err := Render(data)
	if err != nil {
		return "", fmt.Errorf("Render() > %w", err)
	}

	name := fmt.Sprintf("practice-report-%s", data.GeneratedAt.Format("2006-01-02"))
	markdownPath := filepath.Join(outputDir, name+".md")
	if err := os.WriteFile(markdownPath, markdown, 0644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", markdownPath, err)
	}

	return convertMarkdownToPDF(markdownPath)
}

// convertMarkdownToPDF converts a markdown file to PDF using mdtopdf package.
// The PDF file is created next to the markdown file.
func convertMarkdownToPDF(markdownPath string) (string, error) {
	if !strings.HasSuffix(markdownPath, ".md") {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}

	return absPath, nil
}
