package importer

import (
	"strings"

	"github.com/mihir-gonsalves/CashCanvas/internal/model"
)

// CashCanvas's own export format, used for the export → edit → re-import
// workflow. Amounts already carry the canonical sign. Dates are accepted as
// ISO or MM/DD/YYYY so spreadsheet-edited files survive a round trip.
var cashCanvas = &Institution{
	Code: "cashcanvas",
	Columns: []string{
		"Date", "Description", "Amount", "Account",
		"Cost Center", "Spend Categories", "Notes",
	},
	DateLayouts:   []string{layoutISO, layoutUS},
	ReplacesStore: true,
}

func init() { cashCanvas.Decode = decodeCashCanvas }

func decodeCashCanvas(fields map[string]string) (model.Candidate, error) {
	date, err := parseDate(fields["Date"], cashCanvas.DateLayouts)
	if err != nil {
		return model.Candidate{}, err
	}

	amount, err := parseAmount(fields["Amount"])
	if err != nil {
		return model.Candidate{}, err
	}

	return model.Candidate{
		Date:            date,
		Description:     fields["Description"],
		Amount:          amount,
		Account:         fields["Account"],
		CostCenter:      fields["Cost Center"],
		SpendCategories: splitCategories(fields["Spend Categories"]),
		Notes:           fields["Notes"],
	}, nil
}

// splitCategories parses the comma-separated Spend Categories cell. An empty
// cell, or one holding only the literal "Uncategorized", yields the default
// category so edited exports keep their bucket.
func splitCategories(cell string) []string {
	var names []string
	for _, part := range strings.Split(cell, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, model.UncategorizedName) {
			continue
		}
		names = append(names, part)
	}
	if len(names) == 0 {
		return []string{model.UncategorizedName}
	}
	return names
}
