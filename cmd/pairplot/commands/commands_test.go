package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const penguinsCSV = `species,island,bill_length_mm,body_mass_g,sex
Adelie,Torgersen,39.1,3750,MALE
Adelie,Torgersen,39.5,3800,FEMALE
Adelie,Dream,40.3,3250,FEMALE
Gentoo,Biscoe,46.1,4500,FEMALE
Gentoo,Biscoe,50.0,5700,MALE
Chinstrap,Dream,46.5,3500,FEMALE
Chinstrap,Dream,50.0,3900,MALE
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetArgs(args)
	t.Cleanup(func() { RootCmd.SetArgs(nil) })

	err = RootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestSpecDiscoversTypes(t *testing.T) {
	data := writeFile(t, "penguins.csv", penguinsCSV)

	stdout, stderr, err := run(t, "spec", data)
	require.NoError(t, err)

	var spec map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &spec))
	assert.Equal(t, "https://vega.github.io/schema/vega-lite/v5.json", spec["$schema"])
	assert.NotEmpty(t, spec["concat"])
	assert.Contains(t, stderr, "panels")
}

func TestSpecWithTypeFileAndOutput(t *testing.T) {
	data := writeFile(t, "penguins.csv", penguinsCSV)
	types := writeFile(t, "types.yaml", "body_mass_g: quantitative\nspecies: nominal\n")
	out := filepath.Join(t.TempDir(), "plot.vl.json")

	_, stderr, err := run(t, "spec", data, "--types", types, "--out", out, "--layout", "vertical")
	require.NoError(t, err)
	assert.Contains(t, stderr, "1 panels")

	raw, err := os.ReadFile(out)
	require.NoError(t, err)

	var spec map[string]any
	require.NoError(t, json.Unmarshal(raw, &spec))
	require.Len(t, spec["vconcat"], 1)
}

func TestSpecErrors(t *testing.T) {
	_, _, err := run(t, "spec", writeFile(t, "data.parquet", "x"))
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, _, err = run(t, "spec")
	assert.Error(t, err)
}

func TestDiscoverJSON(t *testing.T) {
	data := writeFile(t, "penguins.csv", penguinsCSV)

	stdout, _, err := run(t, "discover", data, "--json")
	require.NoError(t, err)

	var types map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &types))
	assert.Equal(t, "nominal", types["species"])
	assert.Equal(t, "quantitative", types["bill_length_mm"])
}

func TestConfigShow(t *testing.T) {
	stdout, _, err := run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[plot]")
	assert.Contains(t, stdout, "truncation = 'eager'")

	_, _, err = run(t, "config", "show", "--format", "xml")
	assert.Error(t, err)
}

func TestConfigFileOverrides(t *testing.T) {
	path := writeFile(t, "pairplot.toml", "[plot]\nmax_pairs = 3\nlayout = 'vertical'\n")
	t.Cleanup(func() { configPath = "" })

	stdout, _, err := run(t, "config", "show", "--format", "json", "--config", path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	plot := got["Plot"].(map[string]any)
	assert.Equal(t, float64(3), plot["MaxPairs"])
	assert.Equal(t, "vertical", plot["Layout"])
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pairplot "+Version)
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.WithHint(errors.New("boom"), "try again"))

	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "try again")
}

func TestSpecWithJSONLogsSkipsSummary(t *testing.T) {
	data := writeFile(t, "penguins.csv", penguinsCSV)
	out := filepath.Join(t.TempDir(), "plot.vl.json")
	t.Cleanup(func() { _ = RootCmd.PersistentFlags().Set("log-json", "false") })

	_, stderr, err := run(t, "spec", data, "--out", out, "--log-json")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "panels")
	assert.FileExists(t, out)
}
