// Package upload reads track numbers out of admin-supplied manifest files.
package upload

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dtroode/deltacargo-server/internal/model"
)

// Format is a supported manifest encoding.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatText Format = "text"
)

// DetectFormat picks the manifest format from the file extension.
// Anything that is not .xlsx or .csv is read as one number per line.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return FormatXLSX
	case ".csv":
		return FormatCSV
	default:
		return FormatText
	}
}

// ContentType returns the MIME type used when archiving a manifest.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv"
	default:
		return "text/plain"
	}
}

// Parse returns the trimmed, non-empty values of the first column of the
// manifest. Rows are returned in file order; no validation is applied.
func Parse(filename string, content []byte) ([]string, error) {
	var (
		cells []string
		err   error
	)
	switch DetectFormat(filename) {
	case FormatXLSX:
		cells, err = parseXLSX(content)
	case FormatCSV:
		cells, err = parseCSV(content)
	default:
		cells, err = parseText(content)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable manifest %q: %w", model.ErrValidation, filename, err)
	}

	out := make([]string, 0, len(cells))
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" || strings.EqualFold(c, "nan") {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func parseXLSX(content []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	cells := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > 0 {
			cells = append(cells, row[0])
		}
	}
	return cells, nil
}

func parseCSV(content []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var cells []string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return cells, nil
		}
		if err != nil {
			return nil, err
		}
		if len(record) > 0 {
			cells = append(cells, record[0])
		}
	}
}

func parseText(content []byte) ([]string, error) {
	var cells []string
	sc := bufio.NewScanner(bytes.NewReader(content))
	for sc.Scan() {
		cells = append(cells, sc.Text())
	}
	return cells, sc.Err()
}
