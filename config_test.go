package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		bind:           "127.0.0.1",
		db:             "impostor.db",
		port:           8080,
		sessionTimeout: time.Hour,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "tls pair", mutate: func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }},
		{name: "cert without key", mutate: func(c *Config) { c.tlsCert = "cert.pem" }, wantErr: "--tls-cert and --tls-key"},
		{name: "port too low", mutate: func(c *Config) { c.port = 0 }, wantErr: "invalid port"},
		{name: "port too high", mutate: func(c *Config) { c.port = 65536 }, wantErr: "invalid port"},
		{name: "empty db", mutate: func(c *Config) { c.db = " " }, wantErr: "--db"},
		{name: "failure rate above one", mutate: func(c *Config) { c.scenarioFailureRate = 1.5 }, wantErr: "failure rate"},
		{name: "failure rate negative", mutate: func(c *Config) { c.scenarioFailureRate = -0.1 }, wantErr: "failure rate"},
		{name: "always failing", mutate: func(c *Config) { c.scenarioFailureRate = 1 }},
		{name: "negative latency", mutate: func(c *Config) { c.scenarioLatency = -time.Second }, wantErr: "latency"},
		{name: "negative session timeout", mutate: func(c *Config) { c.sessionTimeout = -time.Second }, wantErr: "session timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScheme(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "http", cfg.scheme())

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	assert.Equal(t, "https", cfg.scheme())
}

func TestFlagDefaults(t *testing.T) {
	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, "0.0.0.0", cfg.bind)
	assert.Equal(t, 8080, cfg.port)
	assert.Equal(t, "impostor.db", cfg.db)
	assert.Equal(t, 60*time.Minute, cfg.sessionTimeout)
	assert.Zero(t, cfg.scenarioLatency)
	assert.Zero(t, cfg.scenarioFailureRate)
	assert.False(t, cfg.verbose)
}

func TestFlagsFromEnvironment(t *testing.T) {
	t.Setenv("IMPOSTOR_PORT", "9090")
	t.Setenv("IMPOSTOR_DB", "/tmp/groups.db")
	t.Setenv("IMPOSTOR_SCENARIO_LATENCY", "250ms")
	t.Setenv("IMPOSTOR_SCENARIO_FAILURE_RATE", "0.25")
	t.Setenv("IMPOSTOR_VERBOSE", "true")

	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, 9090, cfg.port)
	assert.Equal(t, "/tmp/groups.db", cfg.db)
	assert.Equal(t, 250*time.Millisecond, cfg.scenarioLatency)
	assert.Equal(t, 0.25, cfg.scenarioFailureRate)
	assert.True(t, cfg.verbose)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("IMPOSTOR_PORT", "9090")

	cfg := &Config{}
	cmd := newCmd(cfg)
	require.NoError(t, cmd.Flags().Parse([]string{"--port", "7070", "--scenario_latency", "1s"}))

	assert.Equal(t, 7070, cfg.port)
	assert.Equal(t, time.Second, cfg.scenarioLatency)
}

func TestHumanReadableSize(t *testing.T) {
	assert.Equal(t, "999 B", humanReadableSize(999))
	assert.Equal(t, "1.5 kB", humanReadableSize(1500))
	assert.Equal(t, "2.0 MB", humanReadableSize(2_000_000))
}
