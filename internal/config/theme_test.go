package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/gitlanes/internal/ui/styles"
)

func TestThemeConfig_WithPreset(t *testing.T) {
	configYAML := `
theme:
  preset: dracula
`
	cfg := loadConfigFromYAML(t, configYAML)

	assert.Equal(t, "dracula", cfg.Theme.Preset)

	err := styles.ApplyTheme(cfg.Theme)
	require.NoError(t, err)

	assert.Equal(t, "#F8F8F2", styles.TextPrimaryColor.Dark)
	assert.Equal(t, "#8BE9FD", styles.LaneColors[0].Dark)
}

// Color overrides are tested programmatically rather than through YAML
// because YAML parsers interpret dotted keys like "text.primary" as
// nested objects.
func TestThemeConfig_WithColorOverrides(t *testing.T) {
	cfg := Config{
		Theme: styles.ThemeConfig{
			Colors: map[string]string{
				"text.primary": "#FF0000",
				"graph.lane2":  "#00FF00",
			},
		},
	}

	err := styles.ApplyTheme(cfg.Theme)
	require.NoError(t, err)

	assert.Equal(t, "#FF0000", styles.TextPrimaryColor.Dark)
	assert.Equal(t, "#00FF00", styles.LaneColors[2].Dark)
}

func TestThemeConfig_PresetWithOverrides(t *testing.T) {
	cfg := Config{
		Theme: styles.ThemeConfig{
			Preset: "dracula",
			Colors: map[string]string{
				"text.primary": "#123456",
			},
		},
	}

	err := styles.ApplyTheme(cfg.Theme)
	require.NoError(t, err)

	assert.Equal(t, "#123456", styles.TextPrimaryColor.Dark, "override wins")
	assert.Equal(t, "#FF5555", styles.StatusErrorColor.Dark, "rest of preset applies")
}

func TestThemeConfig_InvalidPreset(t *testing.T) {
	configYAML := `
theme:
  preset: nonexistent-theme
`
	cfg := loadConfigFromYAML(t, configYAML)

	err := styles.ApplyTheme(cfg.Theme)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown theme preset")
}

func TestThemeConfig_EmptyConfig(t *testing.T) {
	configYAML := `
auto_refresh: true
`
	cfg := loadConfigFromYAML(t, configYAML)

	assert.Empty(t, cfg.Theme.Preset)
	assert.Nil(t, cfg.Theme.Colors)

	err := styles.ApplyTheme(cfg.Theme)
	require.NoError(t, err)
	assert.Equal(t, "#CDD6F4", styles.TextPrimaryColor.Dark)
}

func TestThemeConfig_AllPresets(t *testing.T) {
	presets := []string{"default", "dracula", "nord", "high-contrast"}

	for _, preset := range presets {
		t.Run(preset, func(t *testing.T) {
			configYAML := `
theme:
  preset: ` + preset + `
`
			if preset == "default" {
				configYAML = `
theme:
  preset: ""
`
			}
			cfg := loadConfigFromYAML(t, configYAML)
			assert.NoError(t, styles.ApplyTheme(cfg.Theme), "preset %s should apply", preset)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Defaults().Validate())

	bad := Defaults()
	bad.Graph.PageSize = -1
	assert.Error(t, bad.Validate())

	bad = Defaults()
	bad.Graph.Overscan = -5
	assert.Error(t, bad.Validate())
}

func TestGraphConfig_FromYAML(t *testing.T) {
	configYAML := `
graph:
  page_size: 200
  overscan: 10
  cache_ttl: 1m
`
	cfg := loadConfigFromYAML(t, configYAML)
	assert.Equal(t, 200, cfg.Graph.PageSize)
	assert.Equal(t, 10, cfg.Graph.Overscan)
	assert.Equal(t, "1m0s", cfg.Graph.CacheTTL.String())
}

// loadConfigFromYAML is a helper to load config from a YAML string.
func loadConfigFromYAML(t *testing.T, yaml string) Config {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configPath, []byte(yaml), 0644)
	require.NoError(t, err)

	v := viper.New()
	v.SetConfigFile(configPath)
	err = v.ReadInConfig()
	require.NoError(t, err)

	var cfg Config
	err = v.Unmarshal(&cfg)
	require.NoError(t, err)

	return cfg
}
