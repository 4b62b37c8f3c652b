package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format identifies how a catalog source is encoded.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// FormatOf picks the format from the extension of a file path or URL.
func FormatOf(source string) (Format, error) {
	name := source
	if u, err := url.Parse(source); err == nil && u.Scheme != "" && u.Host != "" {
		name = u.Path
	}
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: unsupported catalog extension %q", ErrMalformed, ext)
	}
}

// DecodeProducts reads a product catalog. Records without a reference are
// silently dropped.
func DecodeProducts(format Format, r io.Reader) ([]Product, error) {
	rows, err := decodeRecords(format, r)
	if err != nil {
		return nil, err
	}
	return productsFromRecords(rows)
}

// DecodeContainers reads a container catalog.
func DecodeContainers(format Format, r io.Reader) ([]Container, error) {
	rows, err := decodeRecords(format, r)
	if err != nil {
		return nil, err
	}
	return containersFromRecords(rows)
}

func decodeRecords(format Format, r io.Reader) ([]record, error) {
	switch format {
	case FormatJSON:
		return decodeJSONRecords(r)
	case FormatXLSX:
		return decodeXLSXRecords(r)
	default:
		return nil, fmt.Errorf("%w: unsupported catalog format %q", ErrMalformed, format)
	}
}

func decodeJSONRecords(r io.Reader) ([]record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: parse JSON: %v", ErrMalformed, err)
	}

	rows := make([]record, 0, len(raw))
	for i, obj := range raw {
		row := make(record, len(obj))
		for key, value := range obj {
			switch v := value.(type) {
			case nil:
			case string:
				row[strings.TrimSpace(key)] = v
			case json.Number:
				row[strings.TrimSpace(key)] = v.String()
			case bool:
				row[strings.TrimSpace(key)] = strconv.FormatBool(v)
			default:
				return nil, fmt.Errorf("%w: record %d: column %q holds a nested value", ErrMalformed, i+1, key)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// decodeXLSXRecords reads the first sheet of a workbook. Row 1 holds the
// column names.
func decodeXLSXRecords(r io.Reader) ([]record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrMalformed, err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformed)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrMalformed, sheets[0], err)
	}
	if len(rows) == 0 {
		return []record{}, nil
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.TrimSpace(cell)
	}

	out := make([]record, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		row := make(record, len(header))
		for i, cell := range cells {
			if i >= len(header) || header[i] == "" || strings.TrimSpace(cell) == "" {
				continue
			}
			row[header[i]] = cell
		}
		if len(row) == 0 {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}
