package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/pairplot/schema"
)

const penguinsCSV = `Species,Island,Body Mass (g),Sex
Adelie,Torgersen,3750,MALE
Adelie,Torgersen,3800,FEMALE
Adelie,Torgersen,NA,
Gentoo,Biscoe,"5,100",FEMALE
Chinstrap,Dream,3500
`

func TestParseCSV(t *testing.T) {
	rows, columns, err := ParseCSV([]byte(penguinsCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"Species", "Island", "Body Mass (g)", "Sex"}, columns)
	require.Len(t, rows, 5)

	assert.Equal(t, "Adelie", rows[0]["Species"])
	assert.Equal(t, 3750.0, rows[0]["Body Mass (g)"])
	assert.Nil(t, rows[2]["Body Mass (g)"])
	assert.Nil(t, rows[2]["Sex"])
	assert.Equal(t, 5100.0, rows[3]["Body Mass (g)"])

	// short row: trailing column present but missing
	v, ok := rows[4]["Sex"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestParseCSVKeepsNonNumericStrings(t *testing.T) {
	rows, _, err := ParseCSV([]byte("code,flag\nInf,true\n0x10,false\n"))
	require.NoError(t, err)

	assert.Equal(t, "Inf", rows[0]["code"])
	assert.Equal(t, "0x10", rows[1]["code"])
	assert.Equal(t, "true", rows[0]["flag"])
}

func TestParseCSVEmpty(t *testing.T) {
	_, _, err := ParseCSV(nil)
	assert.Error(t, err)

	rows, columns, err := ParseCSV([]byte("a,b\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
	assert.Equal(t, []string{"a", "b"}, columns)
}

func TestParseJSON(t *testing.T) {
	rows, columns, err := ParseJSON([]byte(`[
		{"cat": "Henry", "count": 23},
		{"count": 9, "cat": "Susan", "extra": null}
	]`))
	require.NoError(t, err)

	assert.Equal(t, []string{"cat", "count", "extra"}, columns)
	require.Len(t, rows, 2)
	assert.Equal(t, 23.0, rows[0]["count"])
	assert.Equal(t, "Susan", rows[1]["cat"])
	assert.Nil(t, rows[1]["extra"])
}

func TestParseJSONRejectsNonArrays(t *testing.T) {
	_, _, err := ParseJSON([]byte(`{"cat": "Henry"}`))
	assert.Error(t, err)

	_, _, err = ParseJSON([]byte(`[1, 2]`))
	assert.Error(t, err)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDataset(t *testing.T) {
	rows, columns, err := LoadDataset(writeFile(t, "penguins.csv", penguinsCSV))
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.Len(t, columns, 4)

	rows, _, err = LoadDataset(writeFile(t, "count.JSON", `[{"cat":"a","count":1}]`))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, _, err = LoadDataset(writeFile(t, "rows.parquet", ""))
	assert.Error(t, err)

	_, _, err = LoadDataset(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestLoadTypeMap(t *testing.T) {
	want := []string{"Sex", "Body Mass (g)", "Island"}

	types, err := LoadTypeMap(writeFile(t, "types.json",
		`{"Sex": "nominal", "Body Mass (g)": "quantitative", "Island": "nominal"}`))
	require.NoError(t, err)
	assert.Equal(t, want, types.Names())

	types, err = LoadTypeMap(writeFile(t, "types.yaml",
		"Sex: nominal\nBody Mass (g): quantitative\nIsland: nominal\n"))
	require.NoError(t, err)
	assert.Equal(t, want, types.Names())

	mass, ok := types.Get("Body Mass (g)")
	require.True(t, ok)
	assert.Equal(t, schema.Quantitative, mass)

	_, err = LoadTypeMap(writeFile(t, "types.yml", "Sex: categorical\n"))
	assert.Error(t, err)

	_, err = LoadTypeMap(writeFile(t, "types.txt", "Sex nominal"))
	assert.Error(t, err)
}
