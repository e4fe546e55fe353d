package config

import (
	"testing"
	"time"
)

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty allows all", "", nil},
		{"single", "https://opec.example", []string{"https://opec.example"}},
		{"trims and skips blanks", " https://a.example , ,https://b.example ", []string{"https://a.example", "https://b.example"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseOrigins(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("parseOrigins(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("parseOrigins(%q)[%d] = %q, want %q", tt.raw, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("AUTH_RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := Load()

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if cfg.JWTExpiry != 2*time.Hour {
		t.Errorf("JWTExpiry = %v, want 2h", cfg.JWTExpiry)
	}
	if cfg.AuthRateLimit != 30 {
		t.Errorf("AuthRateLimit = %d, want fallback 30", cfg.AuthRateLimit)
	}
	if cfg.MetricsEnabled {
		t.Error("MetricsEnabled = true, want false")
	}
}

func TestCacheKeys(t *testing.T) {
	if got := CacheKey.UserSessionKey(7, "abc"); got != "user:7:session:abc" {
		t.Errorf("UserSessionKey = %q", got)
	}
	if got := CacheKey.ExamResultsChannel(12); got != "exam:12:results" {
		t.Errorf("ExamResultsChannel = %q", got)
	}
}
