package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/mihir-gonsalves/CashCanvas/internal/model"
)

// ExportHeader is the cashcanvas CSV header. Export output is always a valid
// cashcanvas re-import input.
const ExportHeader = "Date,Description,Amount,Account,Cost Center,Spend Categories,Notes"

// WriteCashCanvas writes transactions in the cashcanvas export format.
// ccNames and catNames resolve store ids back to display names.
func WriteCashCanvas(w io.Writer, txns []model.Transaction, ccNames map[int64]string, catNames map[int64]string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(ExportHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		cats := make([]string, 0, len(t.SpendCategoryIDs))
		for _, id := range t.SpendCategoryIDs {
			cats = append(cats, catNames[id])
		}
		row := []string{
			t.Date.Format(layoutISO),
			t.Description,
			t.Amount.StringFixed(2),
			t.Account,
			ccNames[t.CostCenterID],
			strings.Join(cats, ", "),
			t.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	return cw.Error()
}
