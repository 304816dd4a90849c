// Package dataset reads tabular test data for data-driven scenarios. Every format
// yields the same shape: an ordered list of records mapping column names to text.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/json-iterator/go"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned by Load for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	// ErrMissingField is returned by Record.Field when a column is absent.
	ErrMissingField = errors.New("dataset field missing")
)

// Record is one row of test data.
type Record map[string]string

// Field returns the named column or ErrMissingField.
func (r Record) Field(name string) (string, error) {
	v, ok := r[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingField, name)
	}
	return v, nil
}

// Load reads path, choosing the decoder from its extension.
func Load(path string) ([]Record, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" {
		return LoadXLSX(path, "")
	}

	var decode func(io.Reader) ([]Record, error)
	switch ext {
	case ".json":
		decode = LoadJSON
	case ".csv":
		decode = LoadCSV
	case ".yaml", ".yml":
		decode = LoadYAML
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	records, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	return records, nil
}

// LoadJSON decodes an array of flat objects. Scalar values are rendered as text.
func LoadJSON(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rows []map[string]interface{}
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode json dataset: %w", err)
	}
	return fromMaps(rows)
}

// LoadYAML decodes a sequence of flat mappings.
func LoadYAML(r io.Reader) ([]Record, error) {
	var rows []map[string]interface{}
	if err := yaml.NewDecoder(r).Decode(&rows); err != nil {
		if errors.Is(err, io.EOF) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("failed to decode yaml dataset: %w", err)
	}
	return fromMaps(rows)
}

// LoadCSV reads a header row followed by data rows. Short rows omit their trailing
// columns; rows longer than the header are rejected.
func LoadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv dataset: %w", err)
	}
	return fromRows(rows)
}

// LoadXLSX reads a worksheet whose first row is the header. An empty sheet name
// selects the first sheet in the workbook.
func LoadXLSX(path, sheet string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return []Record{}, nil
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return fromRows(rows)
}

func fromRows(rows [][]string) ([]Record, error) {
	records := make([]Record, 0, len(rows))
	if len(rows) == 0 {
		return records, nil
	}

	header := rows[0]
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}
	for n, row := range rows[1:] {
		if len(row) > len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", n+2, len(row), len(header))
		}
		if isBlank(row) {
			continue
		}
		rec := make(Record, len(row))
		for i, v := range row {
			rec[header[i]] = v
		}
		records = append(records, rec)
	}
	return records, nil
}

func fromMaps(rows []map[string]interface{}) ([]Record, error) {
	records := make([]Record, 0, len(rows))
	for n, row := range rows {
		rec := make(Record, len(row))
		for k, v := range row {
			s, err := scalarText(v)
			if err != nil {
				return nil, fmt.Errorf("record %d field %q: %w", n, k, err)
			}
			rec[k] = s
		}
		records = append(records, rec)
	}
	return records, nil
}

func scalarText(v interface{}) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case map[string]interface{}, []interface{}:
		return "", fmt.Errorf("nested value of type %T is not a column", v)
	default:
		return fmt.Sprint(t), nil
	}
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
