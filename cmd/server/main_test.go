package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if got := out.String(); got != "floodalert-server dev\n" {
		t.Errorf("output = %q", got)
	}
}

func TestCheckConfigCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		t.Setenv("APP_ENV", "prod")
		t.Setenv("MQTT_PORT", "1883")
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"check-config"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("check-config: %v", err)
		}
		if !strings.Contains(out.String(), "config ok") {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("MQTT_PORT", "70000")
		cmd := newRootCmd()
		var errOut bytes.Buffer
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&errOut)
		cmd.SetArgs([]string{"check-config"})

		if err := cmd.Execute(); err == nil {
			t.Fatal("check-config with bad MQTT_PORT: error = nil")
		}
		if !strings.Contains(errOut.String(), "MQTT_PORT") {
			t.Errorf("stderr = %q", errOut.String())
		}
	})
}
