package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// smallSettings expands to 2 frames x 2 channels x 3 slices = 12 events.
const smallSettings = `name: small
time: {frames: 2, interval_ms: 100}
channels:
  - {group: Channel, config: DAPI}
  - {group: Channel, config: FITC, z_offset_um: 1}
z: {start: 0, stop: 3, step_um: 1, origin_um: 5}
`

const gridSettingsPath = "../harness/testdata/settings/grid_overview.cue"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeSmallSettings(t *testing.T) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "small.yaml", smallSettings)
}

func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// decodeData unmarshals the data field of a JSON CLIResponse into v.
func decodeData(t *testing.T, output string, v any) CLIResponse {
	t.Helper()
	var raw struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &raw), output)
	require.NoError(t, json.Unmarshal(raw.Data, v))
	return raw.CLIResponse
}
