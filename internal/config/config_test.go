package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Source.Backend != "sheets" {
		t.Errorf("Source.Backend = %q, want %q", cfg.Source.Backend, "sheets")
	}
	if cfg.Source.RefreshInterval != 15*time.Minute {
		t.Errorf("Source.RefreshInterval = %v, want %v", cfg.Source.RefreshInterval, 15*time.Minute)
	}
	if cfg.Report.TargetCutoff != "2025-01-01" {
		t.Errorf("Report.TargetCutoff = %q, want %q", cfg.Report.TargetCutoff, "2025-01-01")
	}
	if cfg.Report.WindowBackDays != 30 || cfg.Report.WindowForwardDays != 90 {
		t.Errorf("Report window = -%d/+%d, want -30/+90", cfg.Report.WindowBackDays, cfg.Report.WindowForwardDays)
	}
	if cfg.Auth.SharedPassword != "2025" {
		t.Errorf("Auth.SharedPassword = %q, want %q", cfg.Auth.SharedPassword, "2025")
	}
	if cfg.Web.RequestsPerMinute != 120 {
		t.Errorf("Web.RequestsPerMinute = %d, want %d", cfg.Web.RequestsPerMinute, 120)
	}
}

func TestLoad_DefaultExcludedOrigins(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"China", "Vietnam"}
	if len(cfg.Report.ExcludedOrigins) != len(expected) {
		t.Fatalf("ExcludedOrigins = %v, want %v", cfg.Report.ExcludedOrigins, expected)
	}
	for i, v := range expected {
		if cfg.Report.ExcludedOrigins[i] != v {
			t.Errorf("ExcludedOrigins[%d] = %q, want %q", i, cfg.Report.ExcludedOrigins[i], v)
		}
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("SOURCE_BACKEND", "csv")
	os.Setenv("REPORT_WINDOW_FORWARD_DAYS", "120")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("SOURCE_BACKEND")
		os.Unsetenv("REPORT_WINDOW_FORWARD_DAYS")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Source.Backend != "csv" {
		t.Errorf("Source.Backend = %q, want %q", cfg.Source.Backend, "csv")
	}
	if cfg.Report.WindowForwardDays != 120 {
		t.Errorf("Report.WindowForwardDays = %d, want %d", cfg.Report.WindowForwardDays, 120)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_Duration(t *testing.T) {
	os.Setenv("SERVER_READ_TIMEOUT", "45s")
	os.Setenv("SOURCE_REFRESH_INTERVAL", "1h30m")
	defer func() {
		os.Unsetenv("SERVER_READ_TIMEOUT")
		os.Unsetenv("SOURCE_REFRESH_INTERVAL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Source.RefreshInterval != 90*time.Minute {
		t.Errorf("Source.RefreshInterval = %v, want %v", cfg.Source.RefreshInterval, 90*time.Minute)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	os.Setenv("REPORT_EXCLUDED_ORIGINS", "China, Vietnam , Russia")
	defer os.Unsetenv("REPORT_EXCLUDED_ORIGINS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"China", "Vietnam", "Russia"}
	if len(cfg.Report.ExcludedOrigins) != len(expected) {
		t.Fatalf("ExcludedOrigins length = %d, want %d", len(cfg.Report.ExcludedOrigins), len(expected))
	}
	for i, v := range expected {
		if cfg.Report.ExcludedOrigins[i] != v {
			t.Errorf("ExcludedOrigins[%d] = %q, want %q", i, cfg.Report.ExcludedOrigins[i], v)
		}
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	os.Setenv("SOURCE_BACKEND", "gsheet")
	defer os.Unsetenv("SOURCE_BACKEND")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for invalid backend")
	}
	if !contains(err.Error(), "SOURCE_BACKEND") {
		t.Errorf("error should mention SOURCE_BACKEND: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 99999

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid port")
	}
	if !contains(err.Error(), "SERVER_PORT") {
		t.Errorf("error should mention SERVER_PORT: %v", err)
	}
}

func TestValidate_BadCutoffDate(t *testing.T) {
	cfg := validConfig()
	cfg.Report.TargetCutoff = "01/01/2025"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for non-ISO cutoff date")
	}
	if !contains(err.Error(), "REPORT_TARGET_CUTOFF") {
		t.Errorf("error should mention REPORT_TARGET_CUTOFF: %v", err)
	}
}

func TestValidate_EmptyPassword(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.SharedPassword = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for empty password")
	}
	if !contains(err.Error(), "AUTH_SHARED_PASSWORD") {
		t.Errorf("error should mention AUTH_SHARED_PASSWORD: %v", err)
	}
}

func TestValidate_BadCSRFKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		ok   bool
	}{
		{"empty is allowed", "", true},
		{"valid 64 hex chars", "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", true},
		{"too short", "abcdef", false},
		{"not hex", "zz23456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Auth.CSRFKey = tt.key
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid log level")
	}
	if !contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("error should mention LOG_LEVEL: %v", err)
	}
}

func TestCutoffDate(t *testing.T) {
	r := ReportConfig{TargetCutoff: "2025-01-01"}
	got := r.CutoffDate()
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CutoffDate() = %v, want %v", got, want)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString_MasksSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.SharedPassword = "hunter2"
	cfg.Source.CredentialsJSON = `{"private_key":"supersecret"}`

	str := cfg.String()
	if contains(str, "hunter2") || contains(str, "supersecret") {
		t.Error("String() should mask secrets")
	}
	if !contains(str, "MASKED") {
		t.Error("String() should contain MASKED placeholder")
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080, ShutdownTimeout: time.Second},
		Source: SourceConfig{Backend: "csv", RefreshInterval: time.Minute},
		Report: ReportConfig{
			TargetCutoff:      "2025-01-01",
			WindowBackDays:    30,
			WindowForwardDays: 90,
			Marker4DX:         "M244DX",
			MarkerScreenX:     "M24SCX",
		},
		Auth:    AuthConfig{SharedPassword: "2025", SessionTTL: 24 * time.Hour},
		Web:     WebConfig{RequestsPerMinute: 120},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
