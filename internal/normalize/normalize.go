// Package normalize converts parsed CSV rows into canonical transaction
// candidates. Every row is processed independently and errors accumulate so a
// bad file is reported in full; a single invalid row fails the whole batch.
package normalize

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mihir-gonsalves/CashCanvas/internal/importer"
	"github.com/mihir-gonsalves/CashCanvas/internal/model"
)

const (
	maxDescriptionLen = 200
	maxNotesLen       = 200
	maxAccountLen     = 50
	maxNameLen        = 50
)

// ValidationError carries every per-row failure found in a batch, never just
// the first.
type ValidationError struct {
	Rows []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("csv validation failed (%d error(s)):\n%s",
		len(e.Rows), strings.Join(e.Rows, "\n"))
}

// Normalize validates and converts every row of a parsed batch. Either all
// rows decode cleanly and the candidates are returned, or a ValidationError
// listing every failure is returned and nothing may be committed.
func Normalize(batch *importer.Batch) ([]model.Candidate, error) {
	candidates := make([]model.Candidate, 0, len(batch.Rows))
	var errs []string

	rowErr := func(num int, format string, args ...any) {
		errs = append(errs, fmt.Sprintf("Row %d: %s", num, fmt.Sprintf(format, args...)))
	}

	for _, row := range batch.Rows {
		cand, err := batch.Institution.Decode(row.Fields)
		if err != nil {
			rowErr(row.Num, "%v", err)
			continue
		}

		ok := true
		fail := func(format string, args ...any) {
			rowErr(row.Num, format, args...)
			ok = false
		}

		// Length limits count characters, not bytes.
		cand.Description = strings.TrimSpace(cand.Description)
		if cand.Description == "" {
			fail("description is empty")
		} else if utf8.RuneCountInString(cand.Description) > maxDescriptionLen {
			fail("description exceeds %d characters", maxDescriptionLen)
		}

		cand.Account = strings.TrimSpace(cand.Account)
		if cand.Account == "" {
			fail("account is empty")
		} else if utf8.RuneCountInString(cand.Account) > maxAccountLen {
			fail("account exceeds %d characters", maxAccountLen)
		}

		cand.Notes = strings.TrimSpace(cand.Notes)
		if utf8.RuneCountInString(cand.Notes) > maxNotesLen {
			fail("notes exceed %d characters", maxNotesLen)
		}

		cand.CostCenter = strings.TrimSpace(cand.CostCenter)
		if cand.CostCenter == "" {
			cand.CostCenter = model.UncategorizedName
		}
		if utf8.RuneCountInString(cand.CostCenter) > maxNameLen {
			fail("cost center name exceeds %d characters", maxNameLen)
		}

		cand.SpendCategories = dedupeCategories(cand.SpendCategories)
		for _, name := range cand.SpendCategories {
			if utf8.RuneCountInString(name) > maxNameLen {
				fail("spend category name %q exceeds %d characters", name, maxNameLen)
			}
		}

		if ok {
			candidates = append(candidates, cand)
		}
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Rows: errs}
	}
	return candidates, nil
}

// dedupeCategories trims entries and drops case-insensitive duplicates,
// keeping the first casing seen for display.
func dedupeCategories(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}
