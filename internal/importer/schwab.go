package importer

import (
	"fmt"

	"github.com/mihir-gonsalves/CashCanvas/internal/model"
)

// Schwab checking export. Exactly one of Withdrawal/Deposit must be populated
// per row: Withdrawal becomes a negative amount, Deposit a positive one.
// Schwab provides no category information, so the cost center falls back to
// "Uncategorized" during normalization.
var schwab = &Institution{
	Code:        "schwab",
	Columns:     []string{"Date", "Description", "Withdrawal", "Deposit"},
	DateLayouts: []string{layoutUS},
}

func init() { schwab.Decode = decodeSchwab }

func decodeSchwab(fields map[string]string) (model.Candidate, error) {
	date, err := parseDate(fields["Date"], schwab.DateLayouts)
	if err != nil {
		return model.Candidate{}, err
	}

	withdrawal := fields["Withdrawal"]
	deposit := fields["Deposit"]

	cand := model.Candidate{
		Date:        date,
		Description: fields["Description"],
		Account:     "Schwab Checking",
	}

	switch {
	case withdrawal != "" && deposit != "":
		return model.Candidate{}, fmt.Errorf("both Withdrawal and Deposit are populated")
	case withdrawal == "" && deposit == "":
		return model.Candidate{}, fmt.Errorf("both Withdrawal and Deposit are empty")
	case withdrawal != "":
		v, err := parseAmount(withdrawal)
		if err != nil {
			return model.Candidate{}, err
		}
		cand.Amount = v.Neg()
	default:
		v, err := parseAmount(deposit)
		if err != nil {
			return model.Candidate{}, err
		}
		cand.Amount = v
	}

	return cand, nil
}
