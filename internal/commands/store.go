package commands

import (
	"fmt"
	"os"

	"github.com/mihir-gonsalves/CashCanvas/internal/config"
	"github.com/mihir-gonsalves/CashCanvas/internal/importer"
	"github.com/mihir-gonsalves/CashCanvas/internal/loader"
	"github.com/mihir-gonsalves/CashCanvas/internal/normalize"
	"github.com/mihir-gonsalves/CashCanvas/internal/store"
)

// openStore loads the configured data file into a fresh in-memory store. A
// missing data file is not an error, it just means an empty store.
func openStore(cfg *config.Config) (*store.Store, error) {
	st := store.New()

	data, err := os.ReadFile(cfg.Data.File)
	if os.IsNotExist(err) {
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading data file: %w", err)
	}

	if _, err := importCSV(st, "cashcanvas", data); err != nil {
		return nil, fmt.Errorf("loading data file %s: %w", cfg.Data.File, err)
	}
	return st, nil
}

// importCSV runs the parse, normalize and load pipeline against a store.
func importCSV(st *store.Store, institution string, data []byte) (int, error) {
	batch, err := importer.Parse(institution, data)
	if err != nil {
		return 0, err
	}
	candidates, err := normalize.Normalize(batch)
	if err != nil {
		return 0, err
	}
	return loader.Load(st.Begin(), candidates, batch.Institution.ReplacesStore)
}

// saveStore writes the store back to the configured data file.
func saveStore(cfg *config.Config, st *store.Store) error {
	f, err := os.Create(cfg.Data.File)
	if err != nil {
		return fmt.Errorf("writing data file: %w", err)
	}
	defer f.Close()
	return importer.WriteCashCanvas(f, st.Transactions(), st.CostCenterNames(), st.SpendCategoryNames())
}
