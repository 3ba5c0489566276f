package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihir-gonsalves/CashCanvas/internal/importer"
	"github.com/mihir-gonsalves/CashCanvas/internal/model"
)

func discoverBatch(t *testing.T, rows string) *importer.Batch {
	t.Helper()
	csv := "Trans. Date,Description,Amount,Category\n" + rows
	batch, err := importer.Parse("discover", []byte(csv))
	require.NoError(t, err)
	return batch
}

func TestNormalize_CleanBatch(t *testing.T) {
	batch := discoverBatch(t,
		"01/15/2026,WHOLE FOODS,45.23,Groceries\n"+
			"01/16/2026,SHELL,30.00,Gasoline\n")

	cands, err := Normalize(batch)
	require.NoError(t, err)
	require.Len(t, cands, 2)
	assert.Equal(t, "WHOLE FOODS", cands[0].Description)
	assert.Equal(t, "Groceries", cands[0].CostCenter)
}

func TestNormalize_AccumulatesAllErrors(t *testing.T) {
	batch := discoverBatch(t,
		"01/15/2026,WHOLE FOODS,45.23,Groceries\n"+
			"bad-date,SHELL,30.00,Gasoline\n"+
			"01/17/2026,TARGET,not-a-number,Shopping\n")

	_, err := Normalize(batch)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Len(t, valErr.Rows, 2)
	assert.True(t, strings.HasPrefix(valErr.Rows[0], "Row 2: "), "got %q", valErr.Rows[0])
	assert.True(t, strings.HasPrefix(valErr.Rows[1], "Row 3: "), "got %q", valErr.Rows[1])
	assert.Contains(t, err.Error(), "csv validation failed (2 error(s))")
}

func TestNormalize_EmptyDescription(t *testing.T) {
	batch := discoverBatch(t, "01/15/2026,   ,45.23,Groceries\n")

	_, err := Normalize(batch)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, []string{"Row 1: description is empty"}, valErr.Rows)
}

func TestNormalize_FieldLengthLimits(t *testing.T) {
	long := strings.Repeat("x", 201)
	batch := discoverBatch(t, "01/15/2026,"+long+",45.23,Groceries\n")

	_, err := Normalize(batch)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, []string{"Row 1: description exceeds 200 characters"}, valErr.Rows)
}

func TestNormalize_LimitsCountCharactersNotBytes(t *testing.T) {
	// 150 two-byte characters: over 200 bytes but within the 200-char limit.
	desc := strings.Repeat("é", 150)
	batch := discoverBatch(t, "01/15/2026,"+desc+",45.23,Groceries\n")

	cands, err := Normalize(batch)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, desc, cands[0].Description)
}

func TestNormalize_LongCostCenterName(t *testing.T) {
	batch := discoverBatch(t, "01/15/2026,WHOLE FOODS,45.23,"+strings.Repeat("c", 51)+"\n")

	_, err := Normalize(batch)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, []string{"Row 1: cost center name exceeds 50 characters"}, valErr.Rows)
}

func TestNormalize_EmptyCostCenterDefaults(t *testing.T) {
	batch := discoverBatch(t, "01/15/2026,WHOLE FOODS,45.23,\n")

	cands, err := Normalize(batch)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, model.UncategorizedName, cands[0].CostCenter)
}

func TestNormalize_DedupesCategoriesCaseInsensitively(t *testing.T) {
	csv := "Date,Description,Amount,Account,Cost Center,Spend Categories,Notes\n" +
		"2026-01-15,COSTCO,-80.50,Discover,Groceries,\"Bulk, bulk, snacks, BULK\",\n"
	batch, err := importer.Parse("cashcanvas", []byte(csv))
	require.NoError(t, err)

	cands, err := Normalize(batch)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, []string{"Bulk", "snacks"}, cands[0].SpendCategories)
}

func TestNormalize_EmptyBatch(t *testing.T) {
	batch := discoverBatch(t, "")

	cands, err := Normalize(batch)
	require.NoError(t, err)
	assert.Empty(t, cands)
}
