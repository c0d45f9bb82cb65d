package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/cardpilot/core"
)

func writeCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestCSVSourceFetch(t *testing.T) {
	path := writeCSV(t, `Card Name,URL,Annual Fee,Rewards,Summary
Everyday Cash,https://cards.example/everyday,$0,2% cash back,"Flat-rate card, no fee"
Voyager Miles,https://cards.example/voyager,$95,2x miles,Travel card
`)

	source := NewCSVSource(path, nil)
	products, err := source.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, "Everyday Cash", first.Name)
	assert.Equal(t, "https://cards.example/everyday", first.URL)
	assert.Equal(t, core.IDFromContent("Everyday Cash"), first.Id)
	// Remaining columns land in the attribute map with the source's spelling.
	assert.Equal(t, "$0", first.Attributes["Annual Fee"])
	assert.Equal(t, "2% cash back", first.Attributes["Rewards"])

	fee, ok := first.AnnualFee()
	require.True(t, ok)
	assert.Equal(t, 0.0, fee)
}

func TestCSVSourceSkipsNamelessRows(t *testing.T) {
	path := writeCSV(t, `name,url
Everyday Cash,https://cards.example/everyday
,https://cards.example/orphan
`)

	source := NewCSVSource(path, nil)
	products, err := source.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestCSVSourceMissingNameColumn(t *testing.T) {
	path := writeCSV(t, `url,fee
https://cards.example/x,$0
`)

	source := NewCSVSource(path, nil)
	_, err := source.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrMissingNameColumn)
}

func TestCSVSourceMissingFile(t *testing.T) {
	source := NewCSVSource(filepath.Join(t.TempDir(), "missing.csv"), nil)
	_, err := source.Fetch(context.Background())
	assert.Error(t, err)
}

func TestCSVSourceRaggedRows(t *testing.T) {
	path := writeCSV(t, `name,url,fee
Everyday Cash,https://cards.example/everyday
Voyager Miles,https://cards.example/voyager,$95
`)

	source := NewCSVSource(path, nil)
	products, err := source.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Empty(t, products[0].Attributes)
	assert.Equal(t, "$95", products[1].Attributes["fee"])
}
