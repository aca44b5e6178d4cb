package config

import (
	"bytes"
	"os"
	"strings"
	"testing"

	appconfig "github.com/Iron-Ham/duechat/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// runCommand executes fn against a throwaway command and returns its output.
func runCommand(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	err := fn(cmd, args)
	return buf.String(), err
}

func useTempConfigDir(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestSettingsMatchDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	appconfig.SetDefaults()

	defaults := appconfig.Default()
	for _, s := range settings {
		t.Run(s.Key, func(t *testing.T) {
			if !viper.IsSet(s.Key) {
				t.Fatalf("%s has no registered default", s.Key)
			}
			if got, want := viper.Get(s.Key), s.Value(defaults); got != want {
				t.Errorf("default %s = %v, want %v", s.Key, got, want)
			}
		})
	}
}

func TestSettingsBelongToSections(t *testing.T) {
	known := make(map[string]bool)
	for _, sec := range sections {
		known[sec.Name] = true
	}
	for _, s := range settings {
		name, _, ok := strings.Cut(s.Key, ".")
		if !ok || !known[name] {
			t.Errorf("setting %s is not under a known section", s.Key)
		}
	}
}

func TestParseSettingValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr string
	}{
		{key: "api.base_url", value: "https://collect.example.com/api/", want: "https://collect.example.com/api"},
		{key: "api.base_url", value: "collect.example.com", wantErr: "http:// or https://"},
		{key: "api.timeout_seconds", value: "30", want: 30},
		{key: "api.timeout_seconds", value: "soon", wantErr: "expected integer"},
		{key: "pacing.min_delay_ms", value: "-1", wantErr: "non-negative"},
		{key: "tui.show_timestamps", value: "true", want: true},
		{key: "tui.show_timestamps", value: "yes", wantErr: "true or false"},
		{key: "logging.level", value: "DEBUG", want: "debug"},
		{key: "logging.level", value: "verbose", wantErr: "Valid options"},
		{key: "logging.dir", value: "~/logs", want: "~/logs"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			s, ok := lookupSetting(tt.key)
			if !ok {
				t.Fatalf("unknown setting %s", tt.key)
			}
			got, err := parseSettingValue(s, tt.value)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("parseSettingValue() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSettingValue() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseSettingValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultConfigYAML(t *testing.T) {
	content, err := defaultConfigYAML()
	if err != nil {
		t.Fatalf("defaultConfigYAML() error: %v", err)
	}

	text := string(content)
	for _, want := range []string{"# duechat configuration", "# Backend root including the /api prefix", "api:", "logging:"} {
		if !strings.Contains(text, want) {
			t.Errorf("generated config missing %q:\n%s", want, text)
		}
	}

	var raw map[string]map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		t.Fatalf("generated config is not valid YAML: %v\n%s", err, text)
	}
	defaults := appconfig.Default()
	if got := raw["api"]["base_url"]; got != defaults.API.BaseURL {
		t.Errorf("api.base_url = %v, want %v", got, defaults.API.BaseURL)
	}
	if got := raw["pacing"]["max_delay_ms"]; got != defaults.Pacing.MaxDelayMs {
		t.Errorf("pacing.max_delay_ms = %v, want %v", got, defaults.Pacing.MaxDelayMs)
	}
	if got := raw["tui"]["show_quick_replies"]; got != true {
		t.Errorf("tui.show_quick_replies = %v, want true", got)
	}
	if got, ok := raw["logging"]["dir"]; !ok || got != "" {
		t.Errorf("logging.dir = %v (present %v), want empty string", got, ok)
	}
}

func TestConfigInit(t *testing.T) {
	useTempConfigDir(t)

	out, err := runCommand(t, runConfigInit)
	if err != nil {
		t.Fatalf("config init error: %v", err)
	}
	if !strings.Contains(out, appconfig.ConfigFile()) {
		t.Errorf("output should name the created file, got %q", out)
	}

	// The generated file loads back into a valid Config
	viper.SetConfigFile(appconfig.ConfigFile())
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error: %v", err)
	}
	cfg, err := appconfig.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.BaseURL != appconfig.Default().API.BaseURL {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}

	if _, err := runCommand(t, runConfigInit); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init error = %v, want already exists", err)
	}
}

func TestConfigSetAndReset(t *testing.T) {
	useTempConfigDir(t)

	out, err := runCommand(t, runConfigSet, "pacing.max_delay_ms", "3000")
	if err != nil {
		t.Fatalf("config set error: %v", err)
	}
	if !strings.Contains(out, "Set pacing.max_delay_ms = 3000") {
		t.Errorf("unexpected output %q", out)
	}

	data, err := os.ReadFile(appconfig.ConfigFile())
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "max_delay_ms: 3000") {
		t.Errorf("config file missing value:\n%s", data)
	}

	if _, err := runCommand(t, runConfigReset, "pacing.max_delay_ms"); err != nil {
		t.Fatalf("config reset error: %v", err)
	}
	if got := viper.GetInt("pacing.max_delay_ms"); got != appconfig.Default().Pacing.MaxDelayMs {
		t.Errorf("after reset max_delay_ms = %d", got)
	}
}

func TestConfigSet_UnknownKey(t *testing.T) {
	useTempConfigDir(t)

	_, err := runCommand(t, runConfigSet, "completion.default_action", "auto_pr")
	if err == nil || !strings.Contains(err.Error(), "unknown configuration key") {
		t.Errorf("error = %v, want unknown configuration key", err)
	}
	if _, statErr := os.Stat(appconfig.ConfigFile()); !os.IsNotExist(statErr) {
		t.Error("a rejected key must not write the config file")
	}
}

func TestConfigShow(t *testing.T) {
	useTempConfigDir(t)
	appconfig.SetDefaults()

	out, err := runCommand(t, runConfigShow)
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	for _, want := range []string{"Config file: (none - using defaults)", "api:", "  base_url: http://localhost:8000/api", "  show_quick_replies: true"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}
