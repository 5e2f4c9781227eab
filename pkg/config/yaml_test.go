package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/htmlindent/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies slices", func(t *testing.T) {
		original := &config.Config{
			Inline: []string{"x-badge"},
			Ignore: []string{"dist/**", "vendor/**"},
		}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, original, clone)

		clone.Ignore[0] = "changed"
		clone.Inline[0] = "changed"
		assert.Equal(t, "dist/**", original.Ignore[0])
		assert.Equal(t, "x-badge", original.Inline[0])
	})

	t.Run("preserves CLI fields", func(t *testing.T) {
		original := config.NewConfig()
		original.Write = true
		original.Check = true
		original.Diff = true
		original.Format = config.FormatJSON
		original.Jobs = 4
		original.NoBackups = true

		assert.Equal(t, original, original.Clone())
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("omits CLI fields", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.Write = true
		cfg.Flavor = config.FlavorGFM

		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Contains(t, string(data), "flavor: gfm")
		assert.Contains(t, string(data), "input: auto")
		assert.NotContains(t, string(data), "write")
	})
}

func TestFromYAML(t *testing.T) {
	data := []byte(`
indentation: "\t"
logging: true
inline: [x-badge]
block: [img]
input: html
backups:
  enabled: false
`)
	cfg, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, "\t", cfg.Indentation)
	assert.True(t, cfg.Logging)
	assert.Equal(t, []string{"x-badge"}, cfg.Inline)
	assert.Equal(t, []string{"img"}, cfg.Block)
	assert.Equal(t, config.InputHTML, cfg.Input)
	assert.False(t, cfg.Backups.Enabled)

	_, err = config.FromYAML([]byte("inline: ["))
	require.Error(t, err)
}

func TestFromTOML(t *testing.T) {
	data := []byte(`
indentation = "  "
flavor = "gfm"
ignore = ["dist/**"]

[backups]
enabled = true
mode = "sidecar"
`)
	cfg, err := config.FromTOML(data)
	require.NoError(t, err)
	assert.Equal(t, "  ", cfg.Indentation)
	assert.Equal(t, config.FlavorGFM, cfg.Flavor)
	assert.Equal(t, []string{"dist/**"}, cfg.Ignore)
	assert.True(t, cfg.Backups.Enabled)
	assert.Equal(t, config.BackupModeSidecar, cfg.Backups.Mode)

	out, err := cfg.ToTOML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "flavor = ")
	assert.Contains(t, string(out), "gfm")
}

func TestEffectiveExtensions(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, []string{".html", ".htm", ".xhtml", ".svg", ".md", ".markdown"}, cfg.EffectiveExtensions())

	cfg.Input = config.InputHTML
	cfg.Extensions = []string{"HTML", ".tpl", ".html"}
	assert.Equal(t, []string{".html", ".tpl"}, cfg.EffectiveExtensions())
}

func TestParseIndentation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    string
		wantErr bool
	}{
		{value: "2", want: "  "},
		{value: "0", want: ""},
		{value: "tab", want: "\t"},
		{value: "Tabs", want: "\t"},
		{value: "--", want: "--"},
		{value: "99", wantErr: true},
		{value: "-1", wantErr: true},
	}

	for _, tt := range tests {
		got, err := config.ParseIndentation(tt.value)
		if tt.wantErr {
			assert.Error(t, err, tt.value)
			continue
		}
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.want, got, tt.value)
	}
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	for _, format := range []string{config.TemplateYAML, config.TemplateTOML} {
		data, err := config.GenerateTemplate(config.TemplateOptions{
			Format:         format,
			InlineElements: []string{"a", "b"},
		})
		require.NoError(t, err)
		assert.Contains(t, string(data), "# htmlindent configuration")
		assert.Contains(t, string(data), "a, b")
	}

	yamlData, err := config.GenerateTemplate(config.TemplateOptions{Format: config.TemplateYAML})
	require.NoError(t, err)
	cfg, err := config.FromYAML(yamlData)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultIndentation, cfg.Indentation)

	tomlData, err := config.GenerateTemplate(config.TemplateOptions{Format: config.TemplateTOML})
	require.NoError(t, err)
	cfg, err = config.FromTOML(tomlData)
	require.NoError(t, err)
	assert.Equal(t, config.InputAuto, cfg.Input)

	_, err = config.GenerateTemplate(config.TemplateOptions{Format: "json"})
	require.Error(t, err)
}
