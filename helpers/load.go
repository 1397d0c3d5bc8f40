package helpers

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/pairplot/engine"
	"github.com/spektr-org/pairplot/schema"
)

// LoadDataset reads a .csv or .json row file.
func LoadDataset(path string) (engine.Dataset, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read dataset %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(data)
	case ".json":
		return ParseJSON(data)
	}
	return nil, nil, errors.WithHint(
		errors.Newf("unsupported dataset format %q", filepath.Ext(path)),
		"use a .csv or .json file")
}

// LoadTypeMap reads a column → semantic type mapping from a JSON or YAML
// file. Key order in the file is the column order of the plot.
func LoadTypeMap(path string) (schema.TypeMap, error) {
	var types schema.TypeMap

	data, err := os.ReadFile(path)
	if err != nil {
		return types, errors.Wrapf(err, "read type map %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &types)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &types)
	default:
		return types, errors.WithHint(
			errors.Newf("unsupported type map format %q", filepath.Ext(path)),
			"use a .json, .yaml or .yml file")
	}
	if err != nil {
		return types, errors.Wrapf(err, "parse type map %s", path)
	}
	return types, nil
}
