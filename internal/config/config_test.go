package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	cfg "github.com/monoxity/monoxity/internal/config"
)

// isolate points the user config dir and the working directory at fresh temp
// dirs so no real config file leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	return home
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	isolate(t)
	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil, nil)
	if err != nil {
		t.Fatalf("missing config file must not be an error: %v", err)
	}
	if got.Store.Table != "monoxity" || got.Store.FileName != "monoxity" || got.Store.Driver != "sqlite" {
		t.Fatalf("unexpected store defaults: %+v", got.Store)
	}
	if got.Store.MaxRetries != 16 {
		t.Fatalf("expected max_retries 16, got %d", got.Store.MaxRetries)
	}
	if got.Log.Level != "warn" {
		t.Fatalf("expected log level warn, got %q", got.Log.Level)
	}
	if got.Language != "en" {
		t.Fatalf("expected language en, got %q", got.Language)
	}
}

func TestLoadConfig_ReadsExplicitFile(t *testing.T) {
	isolate(t)
	yaml := "store:\n  driver: postgres\n  dsn: postgres://user@/db\n  table: sessions\nlog:\n  level: debug\noutput: yaml\n"
	file := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), &file, nil)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Store.Driver != "postgres" || got.Store.DSN != "postgres://user@/db" || got.Store.Table != "sessions" {
		t.Fatalf("file values not applied: %+v", got.Store)
	}
	if got.Store.FileName != "monoxity" {
		t.Fatalf("defaults should fill keys absent from the file, got %q", got.Store.FileName)
	}
	if got.Log.Level != "debug" || got.Output != "yaml" {
		t.Fatalf("unexpected log/output: %+v %q", got.Log, got.Output)
	}
}

func TestLoadConfig_MissingExplicitFileIsError(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), &file, nil); err == nil {
		t.Fatalf("expected error for a missing explicit config file")
	}
}

func TestLoadConfig_BrokenConfig_ReturnsParseError(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(file, []byte("store: [unclosed\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), &file, nil); err == nil {
		t.Fatalf("expected parse error for broken yaml")
	}
}

func TestLoadConfig_FindsFileInCurrentDir(t *testing.T) {
	isolate(t)
	if err := os.WriteFile("monoxity.yaml", []byte("store:\n  table: from_cwd\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Store.Table != "from_cwd" {
		t.Fatalf("expected table from ./monoxity.yaml, got %q", got.Store.Table)
	}
}

func TestLoadConfig_LocalDotfileOverridesUserConfig(t *testing.T) {
	home := isolate(t)
	userDir := filepath.Join(home, "monoxity")
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "monoxity.yaml"), []byte("store:\n  table: user_table\n  dir: /srv/data\n"), 0o600); err != nil {
		t.Fatalf("write user config: %v", err)
	}
	if err := os.WriteFile(".monoxity.yaml", []byte("store:\n  table: local_table\n"), 0o600); err != nil {
		t.Fatalf("write local config: %v", err)
	}

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Store.Table != "local_table" {
		t.Fatalf("expected local override, got %q", got.Store.Table)
	}
	if got.Store.Dir != "/srv/data" {
		t.Fatalf("expected dir from user config, got %q", got.Store.Dir)
	}
}

func TestLoadConfig_LanguageFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("MONOXITY_LANGUAGE", "de")
	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Language != "de" {
		t.Fatalf("expected language de, got %q", got.Language)
	}
}

func TestLoadConfig_EnvVarParsing(t *testing.T) {
	isolate(t)
	t.Setenv("MONOXITY_STORE_DRIVER", "mysql")
	t.Setenv("MONOXITY_STORE_DSN", "user:pw@tcp(localhost:3306)/kv")
	t.Setenv("MONOXITY_STORE_MAX_RETRIES", "3")
	t.Setenv("MONOXITY_LOG_LEVEL", "info")

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Store.Driver != "mysql" || got.Store.DSN != "user:pw@tcp(localhost:3306)/kv" {
		t.Fatalf("env not applied: %+v", got.Store)
	}
	if got.Store.MaxRetries != 3 {
		t.Fatalf("expected max_retries 3 from env, got %d", got.Store.MaxRetries)
	}
	if got.Log.Level != "info" {
		t.Fatalf("expected log level info, got %q", got.Log.Level)
	}
}

func TestLoadConfig_FlagBindingOverridesEnv(t *testing.T) {
	isolate(t)
	t.Setenv("MONOXITY_STORE_TABLE", "from_env")

	cmd := &cobra.Command{}
	cmd.Flags().String("table", "", "table")
	cmd.Flags().String("output", "", "output")
	if err := cmd.Flags().Set("table", "from_flag"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if err := cmd.Flags().Set("output", "json"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	got, err := cfg.LoadConfig[cfg.Config](cmd, cfg.Defaults(), nil, map[string]string{"store.table": "table"})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Store.Table != "from_flag" {
		t.Fatalf("expected flag to win over env, got %q", got.Store.Table)
	}
	if got.Output != "json" {
		t.Fatalf("flags named like their key bind directly, got %q", got.Output)
	}
}

func TestLoadConfig_UnchangedFlagKeepsEnv(t *testing.T) {
	isolate(t)
	t.Setenv("MONOXITY_STORE_TABLE", "from_env")
	cmd := &cobra.Command{}
	cmd.Flags().String("table", "", "table")

	got, err := cfg.LoadConfig[cfg.Config](cmd, cfg.Defaults(), nil, map[string]string{"store.table": "table"})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Store.Table != "from_env" {
		t.Fatalf("expected env value, got %q", got.Store.Table)
	}
}

func TestWriteConfigFile_CreatesFile(t *testing.T) {
	isolate(t)
	c := cfg.Config{Output: "table"}
	c.Store.Table = "written"
	c.Store.Driver = "sqlite"

	path, err := cfg.WriteConfigFile(&c, false)
	if err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}
	want, err := cfg.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	if path != want {
		t.Fatalf("wrote %s, expected %s", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "table: written") {
		t.Fatalf("unexpected content:\n%s", data)
	}

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Store.Table != "written" || got.Output != "table" {
		t.Fatalf("written config not loaded back: %+v", got)
	}
}

func TestGetConfigPath(t *testing.T) {
	home := isolate(t)
	p, err := cfg.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath(false): %v", err)
	}
	if filepath.Base(p) != "monoxity.yaml" {
		t.Fatalf("unexpected file name: %s", p)
	}
	if !strings.HasPrefix(p, home) {
		t.Fatalf("user config path %s should live under %s", p, home)
	}
	sp, err := cfg.GetConfigPath(true)
	if err != nil {
		t.Fatalf("GetConfigPath(true): %v", err)
	}
	if filepath.Base(sp) != "monoxity.yaml" {
		t.Fatalf("unexpected system file name: %s", sp)
	}
}
