package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// No config file is present in the package directory, so Load falls
	// back to defaults.
	t.Setenv("CONFIG_ENV", "testdefaults")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "release" {
		t.Fatalf("mode=%q, want release", cfg.Mode)
	}
	if cfg.Port != 10000 {
		t.Fatalf("port=%d, want 10000", cfg.Port)
	}
	if cfg.ReadLimit != 32768 {
		t.Fatalf("read_limit=%d, want 32768", cfg.ReadLimit)
	}
	if cfg.PingPeriod != 54*time.Second {
		t.Fatalf("ping_period=%v, want 54s", cfg.PingPeriod)
	}
	if cfg.SendQueue != 32 {
		t.Fatalf("send_queue=%d, want 32", cfg.SendQueue)
	}
	if cfg.JoinLimit != 10 || cfg.JoinInterval != 10*time.Second {
		t.Fatalf("join limit=%d interval=%v, want 10/10s", cfg.JoinLimit, cfg.JoinInterval)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("kafka brokers should be empty by default, got %v", cfg.KafkaBrokers)
	}
	if len(cfg.ICEServers) != 1 || len(cfg.ICEServers[0].URLs) != 1 {
		t.Fatalf("ice_servers=%+v, want one default STUN entry", cfg.ICEServers)
	}
}

func TestWebRTCICEServers(t *testing.T) {
	cfg := &Config{ICEServers: []ICEServer{
		{URLs: []string{"stun:stun.example.org:3478"}},
		{URLs: []string{"turn:turn.example.org:3478"}, Username: "u", Credential: "p"},
	}}
	servers := cfg.WebRTCICEServers()
	if len(servers) != 2 {
		t.Fatalf("got %d servers, want 2", len(servers))
	}
	if servers[0].URLs[0] != "stun:stun.example.org:3478" {
		t.Fatalf("first url=%q", servers[0].URLs[0])
	}
	if servers[1].Username != "u" || servers[1].Credential != "p" {
		t.Fatalf("turn credentials not carried over: %+v", servers[1])
	}
}
