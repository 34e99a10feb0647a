package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"samarth/internal/application/answer"
	"samarth/internal/domain/intent"
	"samarth/internal/infrastructure/persistence/file"
	"samarth/internal/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoRegions = `
regions:
  - name: Punjab
    rainfall: [810, 760, 790]
    crops:
      - name: Wheat
        tonnes: 16000
  - name: Haryana
    rainfall: [620, 580, 600]
`

// configDir writes a development.yaml selecting the given dataset section.
func configDir(t *testing.T, dataset string) string {
	t.Helper()
	dir := t.TempDir()
	doc := "logging:\n  level: error\n  format: console\ndataset:\n" + dataset
	require.NoError(t, os.WriteFile(filepath.Join(dir, "development.yaml"), []byte(doc), 0o644))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env", "development"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAsk_MemoryDataset(t *testing.T) {
	dir := configDir(t, "  source: memory\n")

	out, err := run(t, "--config-dir", dir, "ask", "--compact", "Compare", "rainfall", "in", "Punjab", "and", "Haryana")
	require.NoError(t, err)

	var resp answer.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, intent.RainfallCompare, resp.Type)
	assert.Equal(t, []string{"Punjab", "Haryana"}, resp.Labels)
}

func TestAsk_RequiresQuestion(t *testing.T) {
	_, err := run(t, "ask")
	require.Error(t, err)
}

func TestDatasetValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(twoRegions), 0o644))
	dir := configDir(t, "  source: file\n  path: "+path+"\n")

	out, err := run(t, "--config-dir", dir, "dataset", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "file:"+path)
	assert.Contains(t, out, "Punjab")
	assert.Contains(t, out, "Haryana")
	assert.Contains(t, out, "OK")
}

func TestDatasetValidate_InvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte("regions:\n  - name: Punjab\n    rainfall: [-1]\n"), 0o644))
	dir := configDir(t, "  source: file\n  path: "+path+"\n")

	_, err := run(t, "--config-dir", dir, "dataset", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file:"+path)
}

func TestDatasetExport(t *testing.T) {
	dir := configDir(t, "  source: memory\n")

	out, err := run(t, "--config-dir", dir, "dataset", "export")
	require.NoError(t, err)

	snap, err := file.DecodeBytes([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, memory.MustSample().RegionNames(), snap.RegionNames())
}

func TestDatasetImport_SQLite(t *testing.T) {
	tmp := t.TempDir()
	doc := filepath.Join(tmp, "dataset.yaml")
	require.NoError(t, os.WriteFile(doc, []byte(twoRegions), 0o644))
	dir := configDir(t, "  source: sqlite\n  dsn: "+filepath.Join(tmp, "samarth.db")+"\n")

	out, err := run(t, "--config-dir", dir, "dataset", "import", "--from", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 regions")

	out, err = run(t, "--config-dir", dir, "ask", "--compact", "Top crops in Punjab")
	require.NoError(t, err)

	var resp answer.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, intent.TopCrops, resp.Type)
	assert.Equal(t, []string{"Wheat"}, resp.Labels)
}

func TestDatasetImport_ReadOnlySource(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(doc, []byte(twoRegions), 0o644))
	dir := configDir(t, "  source: memory\n")

	_, err := run(t, "--config-dir", dir, "dataset", "import", "--from", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be written to")
}
