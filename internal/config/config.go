// Package config loads and writes datachecker's JSON configuration file
// (spec §6 "Configuration file", SPEC_FULL.md §4.11), grounded on the
// teacher's strict-decode conventions: unknown fields are rejected at
// decode time, but a malformed file never aborts a scan — it falls back
// to built-in defaults with a logged warning (spec §7 *ConfigInvalid*).
package config

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/arjank/datachecker/internal/logger"
	"github.com/arjank/datachecker/internal/types"
)

// InputFolder is the one field of config.json the CLI reads outside of
// ScanConfig proper (spec §6: "datachecker with no argument reads
// INPUT_FOLDER from config.json").
type fileShape struct {
	types.ScanConfig
	InputFolder string `json:"INPUT_FOLDER"`
}

// LoadOrDefault reads path as strict JSON into a ScanConfig. A missing
// file or any decode error (including unknown fields) yields the
// built-in defaults plus a logged warning; it never returns an error to
// the caller because spec §7 treats ConfigInvalid as non-fatal.
func LoadOrDefault(path string) (types.ScanConfig, string) {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("config: could not open file, using defaults", "path", path, "error", err)
		}
		return types.DefaultConfig(), ""
	}
	defer func() { _ = f.Close() }()

	var shape fileShape
	shape.ScanConfig = types.DefaultConfig()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&shape); err != nil {
		logger.Warn("config: invalid JSON, falling back to defaults", "path", path, "error", err)
		return types.DefaultConfig(), ""
	}

	return shape.ScanConfig, shape.InputFolder
}

// ErrConfigExists is returned by WriteDefault when path already exists.
var ErrConfigExists = errors.New("config: file already exists, refusing to overwrite")

// WriteDefault writes the built-in default configuration (spec §6
// "datachecker config ... refuses if one exists") to path as indented
// JSON. It never overwrites an existing file.
func WriteDefault(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrConfigExists
		}
		return err
	}
	defer func() { _ = f.Close() }()

	shape := fileShape{ScanConfig: types.DefaultConfig(), InputFolder: "."}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(shape)
}
