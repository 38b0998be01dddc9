package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// isolate points XDG_CONFIG_HOME at a temp dir, clears PVIEW_DATA_PATH and
// resets the config cache for the duration of the test.
func isolate(t *testing.T) string {
	t.Helper()
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv(DataPathEnv, "")
	return tmpDir
}

func writeConfig(t *testing.T, dir string, cfg GlobalConfig) {
	t.Helper()
	configDir := filepath.Join(dir, GlobalConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, GlobalConfigFile), data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := GlobalConfigPath(), "/custom/config/pview/config.yml"; got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	if got, want := GlobalConfigPath(), filepath.Join(home, ".config", "pview", "config.yml"); got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	isolate(t)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.DataPath != "" {
		t.Errorf("DataPath = %q, want empty", cfg.DataPath)
	}
}

func TestLoadGlobalConfig_Valid(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, GlobalConfig{
		DataPath:    "~/data/metadata.csv",
		TopJournals: 15,
		SampleSize:  8,
		ListenAddr:  ":9000",
	})

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "data/metadata.csv"); cfg.DataPath != want {
		t.Errorf("DataPath = %q, want %q", cfg.DataPath, want)
	}
	if cfg.TopJournals != 15 || cfg.SampleSize != 8 || cfg.ListenAddr != ":9000" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	dir := isolate(t)
	configDir := filepath.Join(dir, GlobalConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, GlobalConfigFile), []byte("top_journals: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadGlobalConfig(); err == nil {
		t.Error("LoadGlobalConfig() should return error for invalid YAML")
	}
}

func TestGlobalConfig_SaveRoundTrip(t *testing.T) {
	isolate(t)

	cfg := &GlobalConfig{DataPath: "/tmp/metadata.csv", SampleSize: 3}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	ResetGlobalConfigCache()
	loaded, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if loaded.DataPath != "/tmp/metadata.csv" || loaded.SampleSize != 3 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestWithDefaults(t *testing.T) {
	got := GlobalConfig{SampleSize: 7}.WithDefaults()
	want := GlobalConfig{
		TopJournals: DefaultTopJournals,
		SampleSize:  7,
		ListenAddr:  DefaultListenAddr,
		RateLimit:   DefaultRateLimit,
		RateBurst:   DefaultRateBurst,
	}
	if got != want {
		t.Errorf("WithDefaults() = %+v, want %+v", got, want)
	}
}

func TestResolveDataPath(t *testing.T) {
	dir := isolate(t)

	dataFile := filepath.Join(dir, "metadata.csv")
	if err := os.WriteFile(dataFile, []byte("title\n"), 0644); err != nil {
		t.Fatal(err)
	}
	envFile := filepath.Join(dir, "env.csv")
	if err := os.WriteFile(envFile, []byte("title\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ResolveDataPath(""); !errors.Is(err, ErrDataPathNotConfigured) {
		t.Errorf("unconfigured: error = %v, want ErrDataPathNotConfigured", err)
	}

	writeConfig(t, dir, GlobalConfig{DataPath: dataFile})
	ResetGlobalConfigCache()
	if got, err := ResolveDataPath(""); err != nil || got != dataFile {
		t.Errorf("from config: ResolveDataPath() = %q, %v", got, err)
	}

	t.Setenv(DataPathEnv, envFile)
	if got, err := ResolveDataPath(""); err != nil || got != envFile {
		t.Errorf("from env: ResolveDataPath() = %q, %v", got, err)
	}

	if got, err := ResolveDataPath(dataFile); err != nil || got != dataFile {
		t.Errorf("override: ResolveDataPath() = %q, %v", got, err)
	}

	if _, err := ResolveDataPath(filepath.Join(dir, "missing.csv")); !errors.Is(err, ErrDataPathNotExist) {
		t.Errorf("missing: error = %v, want ErrDataPathNotExist", err)
	}
	if _, err := ResolveDataPath(dir); err == nil {
		t.Error("directory should be rejected")
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/data.csv", filepath.Join(home, "data.csv")},
		{"/abs/data.csv", "/abs/data.csv"},
		{"rel/data.csv", "rel/data.csv"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExpandTilde(tt.input); got != tt.want {
			t.Errorf("ExpandTilde(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
