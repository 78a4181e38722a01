package nfcaconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwsl/nfca-decoder/nfca"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "nfca.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadAndBuildDecoders(t *testing.T) {
	path := writeConfig(t, `
readers:
  - name: reader1
    sample_rate_hz: 4000000
    variant: gap
  - name: reader2
    sample_rate_hz: 2000000
    variant: window
    debug: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Readers, 2)
	assert.Equal(t, nfca.VariantGap, cfg.Readers[0].Variant)
	assert.Equal(t, nfca.VariantWindow, cfg.Readers[1].Variant)

	decoders, err := cfg.BuildDecoders(nil)
	require.NoError(t, err)
	assert.Len(t, decoders, 2)
}

func TestLoadRejectsMissingName(t *testing.T) {
	path := writeConfig(t, `
readers:
  - sample_rate_hz: 4000000
    variant: gap
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestBuildDecodersRejectsInvalidSampleRate(t *testing.T) {
	path := writeConfig(t, `
readers:
  - name: bad
    sample_rate_hz: -1
    variant: gap
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	_, err = cfg.BuildDecoders(nil)
	assert.Error(t, err)
}
