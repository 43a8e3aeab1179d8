package qr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateManifestQR(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(dir, "http://localhost:3000")

	path, err := g.GenerateManifestQR("MAN-20250701-0001", "MAN-QR-20250701120000-A7F3")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "manifiestos", "en_proceso", "qr_MAN-20250701-0001.png"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGenerateProductQR(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(dir, "http://localhost:3000")

	path, err := g.GenerateProductQR("prod-1", "PROD-20250701120000-B2C4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "productos", "etiquetas_qr", "PROD-20250701120000-B2C4.png"), path)

	_, err = os.Stat(path)
	require.NoError(t, err)
}
