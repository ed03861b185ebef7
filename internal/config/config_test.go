package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lipid/internal/engine"
	"lipid/internal/fattyacid"
	"lipid/internal/logging"
	"lipid/internal/nomenclature"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lipid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Equal(t, 0, cfg.Engine.Workers)
	assert.Equal(t, DefaultPreset, cfg.Nomenclature.Preset)

	o, err := cfg.Nomenclature.Options()
	require.NoError(t, err)
	assert.Equal(t, nomenclature.Common, o)
	assert.Equal(t, nomenclature.Format{}, cfg.Nomenclature.Format())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("LIPID_LOG_LEVEL", "debug")
	t.Setenv("LIPID_ENGINE_WORKERS", "3")
	t.Setenv("LIPID_NOMENCLATURE_PRESET", "id")
	t.Setenv("LIPID_NOMENCLATURE_WIDTH", "2")
	t.Setenv("LIPID_NOMENCLATURE_EXPANDED", "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Engine.Workers)

	o, err := cfg.Nomenclature.Options()
	require.NoError(t, err)
	oleic := fattyacid.Must(18, fattyacid.Double(9, fattyacid.Cis))
	assert.Equal(t, "c18u01c09", o.Render(oleic, cfg.Nomenclature.Format()))
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log:
  level: warn
  format: console
engine:
  workers: 2
nomenclature:
  preset: common
  width: 2
  expanded: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 2, cfg.Engine.Workers)
	assert.Equal(t, nomenclature.Format{Width: 2, Expanded: true}, cfg.Nomenclature.Format())

	logger, err := logging.New(cfg.Log)
	require.NoError(t, err)
	rec, err := engine.LoadProfile([]byte("carbons,index,isomerism,unsaturation,Mean\n18,9,1,,1\n"), cfg.Engine.Options(logger)...)
	require.NoError(t, err)
	defer rec.Release()
	assert.Equal(t, int64(1), rec.NumRows())
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := writeConfig(t, "engine:\n  workers: 2\n")
	t.Setenv("LIPID_ENGINE_WORKERS", "5")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Engine.Workers)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "nomenclature:\n  preset: iupac\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Log:          logging.Config{Level: "loud", Format: "xml"},
		Engine:       EngineConfig{Workers: -1},
		Nomenclature: NomenclatureConfig{Preset: "iupac", Width: -2},
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"loud", "xml", "engine.workers", "iupac", "nomenclature.width"} {
		assert.ErrorContains(t, err, want)
	}

	cfg = &Config{}
	ApplyDefaults(cfg)
	assert.NoError(t, cfg.Validate())
	ApplyDefaults(nil)
}
