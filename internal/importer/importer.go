package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/mihir-gonsalves/CashCanvas/internal/model"
)

// Institution describes one supported bank export format: the columns its
// CSVs must carry and a decoder from a raw row to a transaction candidate.
// Adding an institution is adding one entry to the registry.
type Institution struct {
	Code        string
	Columns     []string
	DateLayouts []string
	Decode      func(fields map[string]string) (model.Candidate, error)

	// ReplacesStore marks formats whose import rebuilds the store from
	// scratch instead of appending (the export → edit → re-import workflow).
	ReplacesStore bool
}

// RawRow is a single data row keyed by column name. Num is the 1-based row
// number with the header excluded, preserved for error reporting.
type RawRow struct {
	Num    int
	Fields map[string]string
}

// Batch is the output of Parse: raw rows plus the institution that decodes them.
type Batch struct {
	Institution *Institution
	Rows        []RawRow
}

// UnknownInstitutionError reports an unsupported institution code.
type UnknownInstitutionError struct {
	Code      string
	Supported []string
}

func (e *UnknownInstitutionError) Error() string {
	return fmt.Sprintf("unknown institution %q, supported institutions: %s",
		e.Code, strings.Join(e.Supported, ", "))
}

// FormatError reports a CSV whose header does not match the institution's
// expected columns.
type FormatError struct {
	Institution string
	Missing     []string
	Found       []string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("file does not look like a %s export: missing columns [%s], found columns [%s]",
		e.Institution, strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

var registry = map[string]*Institution{
	discover.Code:   discover,
	schwab.Code:     schwab,
	cashCanvas.Code: cashCanvas,
}

// Supported returns the registered institution codes, sorted.
func Supported() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Get returns the institution for code, or nil.
func Get(code string) *Institution {
	return registry[code]
}

// Parse decodes raw CSV bytes for the given institution code. It validates
// the header before touching any row: every required column must be present
// under an exact, case-sensitive name match. No partial work is performed on
// failure.
func Parse(code string, data []byte) (*Batch, error) {
	inst := registry[code]
	if inst == nil {
		return nil, &UnknownInstitutionError{Code: code, Supported: Supported()}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s CSV: %w", inst.Code, err)
	}
	if len(records) == 0 {
		return nil, &FormatError{Institution: inst.Code, Missing: inst.Columns}
	}

	header := cleanHeader(records[0])
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range inst.Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &FormatError{Institution: inst.Code, Missing: missing, Found: header}
	}

	var rows []RawRow
	for i, rec := range records[1:] {
		fields := make(map[string]string, len(inst.Columns))
		for _, col := range inst.Columns {
			idx := index[col]
			if idx < len(rec) {
				fields[col] = strings.TrimSpace(rec[idx])
			} else {
				fields[col] = ""
			}
		}
		rows = append(rows, RawRow{Num: i + 1, Fields: fields})
	}

	return &Batch{Institution: inst, Rows: rows}, nil
}

// cleanHeader trims cells and strips the BOM some bank exports prepend.
func cleanHeader(rec []string) []string {
	header := make([]string, len(rec))
	for i, cell := range rec {
		cell = strings.TrimPrefix(cell, "\ufeff")
		header[i] = strings.TrimSpace(cell)
	}
	return header
}
