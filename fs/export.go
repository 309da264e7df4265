// Package fs exports extraction results to files.
package fs

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/IDGORRU/pars"
	"github.com/beevik/etree"
)

// Format is an export file format.
type Format string

// Export formats.
const (
	FormatTXT  Format = "txt"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXML  Format = "xml"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatTXT, FormatJSON, FormatCSV, FormatXML}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", pars.Errorf(pars.EINVALID, "unknown export format %q", s)
}

// Line renders a result as one line of the text export. Emails and links
// are written bare; everything else as "title: content".
func Line(v pars.RecordView) string {
	if v.Mode == pars.ModeEmail || v.Mode == pars.ModeLink {
		return v.Content
	}
	return v.Title + ": " + v.Content
}

// FileName returns the export file name of a run started at t.
// Example: parsing_email_2024-05-01.txt
func FileName(mode pars.Mode, format Format, t time.Time) string {
	return fmt.Sprintf("parsing_%s_%s.%s", mode, t.Format("2006-01-02"), format)
}

// Export writes results to w in the given format.
func Export(w io.Writer, mode pars.Mode, views []pars.RecordView, format Format) error {
	switch format {
	case FormatTXT:
		lines := make([]string, 0, len(views))
		for _, v := range views {
			lines = append(lines, Line(v))
		}
		_, err := io.WriteString(w, strings.Join(lines, "\n"))
		return err
	case FormatJSON:
		if views == nil {
			views = []pars.RecordView{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(views)
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"mode", "title", "content", "source"}); err != nil {
			return err
		}
		for _, v := range views {
			if err := cw.Write([]string{string(v.Mode), v.Title, v.Content, string(v.Source)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case FormatXML:
		doc := etree.NewDocument()
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
		root := doc.CreateElement("results")
		root.CreateAttr("mode", string(mode))
		root.CreateAttr("count", fmt.Sprint(len(views)))
		for _, v := range views {
			el := root.CreateElement("result")
			el.CreateAttr("source", string(v.Source))
			el.CreateElement("title").SetText(v.Title)
			el.CreateElement("content").SetText(v.Content)
		}
		doc.Indent(2)
		_, err := doc.WriteTo(w)
		return err
	default:
		return pars.Errorf(pars.EINVALID, "unknown export format %q", format)
	}
}

// Exporter writes result files to a directory.
type Exporter struct {
	baseDir string
	now     func() time.Time
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithClock sets the clock used to date export file names.
func WithClock(now func() time.Time) ExporterOption {
	return func(e *Exporter) {
		e.now = now
	}
}

// NewExporter creates a new Exporter that writes to the given base directory.
func NewExporter(baseDir string, opts ...ExporterOption) *Exporter {
	e := &Exporter{baseDir: baseDir, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExportRun writes the results of a run and returns the path of the file.
// The file is written under a temporary name and renamed into place, so an
// existing export of the same name is replaced only on success.
func (e *Exporter) ExportRun(ctx context.Context, mode pars.Mode, views []pars.RecordView, format Format) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := mode.Validate(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.baseDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(e.baseDir, FileName(mode, format, e.now()))
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	if err := Export(f, mode, views, format); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return path, nil
}
