package main

import (
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(c *Config) {}, false},
		{"missing admin secret", func(c *Config) { c.adminSecret = "" }, true},
		{"port too low", func(c *Config) { c.port = 0 }, true},
		{"port too high", func(c *Config) { c.port = 65536 }, true},
		{"tls cert without key", func(c *Config) { c.tlsCert = "cert.pem" }, true},
		{"tls key without cert", func(c *Config) { c.tlsKey = "key.pem" }, true},
		{"tls pair passes", func(c *Config) { c.tlsCert = "cert.pem"; c.tlsKey = "key.pem" }, false},
		{"zero max players", func(c *Config) { c.maxPlayers = 0 }, true},
		{"zero name limit", func(c *Config) { c.nameLimit = 0 }, true},
		{"zero question duration", func(c *Config) { c.questionDuration = 0 }, true},
		{"negative result duration", func(c *Config) { c.resultDuration = -1 }, true},
		{"zero result duration passes", func(c *Config) { c.resultDuration = 0 }, false},
		{"negative score base", func(c *Config) { c.scoreBase = -1 }, true},
		{"negative score bonus", func(c *Config) { c.scoreBonus = -1 }, true},
		{"ttl without sweep interval", func(c *Config) { c.sweepInterval = 0 }, true},
		{"sweeping disabled with ttl", func(c *Config) { c.roomTTL = 0; c.sweepInterval = 0 }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(cfg)

			err := cfg.validate()
			if tc.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestScheme(t *testing.T) {
	cfg := testConfig()
	if got := cfg.scheme(); got != "http" {
		t.Errorf("scheme = %q, want http", got)
	}

	cfg.tlsCert = "cert.pem"
	cfg.tlsKey = "key.pem"
	if got := cfg.scheme(); got != "https" {
		t.Errorf("scheme = %q, want https", got)
	}
}

func TestNewCmd_Flags(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)

	for _, flag := range []string{
		"admin-secret", "allow-late-join", "bind", "max-players", "name-limit",
		"port", "prefix", "question-duration", "questions", "quorum-advance",
		"result-duration", "room-ttl", "score-base", "score-bonus",
		"sweep-interval", "tls-cert", "tls-key", "verbose",
	} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("flag --%s is not registered", flag)
		}
	}

	if cfg.port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.port)
	}
	if cfg.maxPlayers != 250 {
		t.Errorf("default max players = %d, want 250", cfg.maxPlayers)
	}
	if !cfg.quorumAdvance {
		t.Error("quorum advance should default to on")
	}
}
