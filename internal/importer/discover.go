package importer

import "github.com/mihir-gonsalves/CashCanvas/internal/model"

// Discover credit card export. The source convention is positive = expense,
// so amounts are inverted to the canonical sign (negative = expense).
// Discover's Category column becomes the cost center; there is no spend
// category information.
var discover = &Institution{
	Code:        "discover",
	Columns:     []string{"Trans. Date", "Description", "Amount", "Category"},
	DateLayouts: []string{layoutUS},
}

func init() { discover.Decode = decodeDiscover }

func decodeDiscover(fields map[string]string) (model.Candidate, error) {
	date, err := parseDate(fields["Trans. Date"], discover.DateLayouts)
	if err != nil {
		return model.Candidate{}, err
	}

	amount, err := parseAmount(fields["Amount"])
	if err != nil {
		return model.Candidate{}, err
	}

	return model.Candidate{
		Date:        date,
		Description: fields["Description"],
		Amount:      amount.Neg(),
		Account:     "Discover",
		CostCenter:  fields["Category"],
	}, nil
}
