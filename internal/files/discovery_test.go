package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("sku,qty\nA,1\n"), 0o644))
	return path
}

func TestDiscovery_FindReportFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stock.csv")
	writeFile(t, dir, "inventory.XLSX")
	writeFile(t, dir, "notes.md")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	d := NewDiscovery(dir)
	found, err := d.FindReportFiles(".", []string{".csv", ".xlsx"})
	require.NoError(t, err)

	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f.Name
	}
	assert.ElementsMatch(t, []string{"stock.csv", "inventory.XLSX"}, names)
}

func TestDiscovery_FindReportFiles_MissingDir(t *testing.T) {
	d := NewDiscovery(t.TempDir())
	_, err := d.FindReportFiles("missing", []string{".csv"})
	require.Error(t, err)
}

func TestDiscovery_FindFilesByPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "report_2026_01.csv")
	writeFile(t, dir, "report_2026_02.csv")
	writeFile(t, dir, "other.csv")

	d := NewDiscovery(dir)
	found, err := d.FindFilesByPattern(".", "report_*.csv")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestGetLatestFile(t *testing.T) {
	_, ok := GetLatestFile(nil)
	assert.False(t, ok)

	now := time.Now()
	files := []FileInfo{
		{Name: "a.csv", ModTime: now.Add(-time.Hour)},
		{Name: "b.csv", ModTime: now},
		{Name: "c.csv", ModTime: now.Add(-time.Minute)},
	}
	latest, ok := GetLatestFile(files)
	require.True(t, ok)
	assert.Equal(t, "b.csv", latest.Name)
}
