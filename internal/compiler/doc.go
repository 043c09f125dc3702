// Package compiler turns acquisition settings files into ir.AcquisitionSettings.
//
// Two file formats are accepted and decode into the same Document:
//   - CUE (.cue): unified with the embedded #Settings schema, so type errors
//     and unknown fields are reported with file positions
//   - YAML (.yaml, .yml, .json): decoded strictly with gopkg.in/yaml.v3
//
// Every Document then goes through Validate (struct rules via
// go-playground/validator plus cross-field checks) before Compile builds
// the settings. Validation does not fail fast: all problems are returned.
package compiler
