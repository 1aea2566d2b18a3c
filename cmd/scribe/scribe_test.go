package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	workDir := filepath.Join(base, "sessions")
	configPath := filepath.Join(base, "config.toml")
	contents := "[general]\nworking_directory = \"" + workDir + "\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runScribe(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	output, err := runScribe(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(output, target) {
		t.Fatalf("output missing target path: %q", output)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}

	if _, err := runScribe(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestCampaignNewAndList(t *testing.T) {
	configPath := writeTestConfig(t)

	output, err := runScribe(t, "--config", configPath, "campaign", "new", "Curse of Strahd", "--abbrev", "CoS")
	if err != nil {
		t.Fatalf("campaign new failed: %v", err)
	}
	if !strings.Contains(output, "Curse of Strahd") {
		t.Fatalf("output missing campaign name: %q", output)
	}

	output, err = runScribe(t, "--config", configPath, "campaign", "list")
	if err != nil {
		t.Fatalf("campaign list failed: %v", err)
	}
	if !strings.Contains(output, "Curse of Strahd") {
		t.Fatalf("list missing campaign: %q", output)
	}
}

func TestEpisodeListEmptyCampaign(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, err := runScribe(t, "--config", configPath, "campaign", "new", "Test Campaign"); err != nil {
		t.Fatalf("campaign new failed: %v", err)
	}

	output, err := runScribe(t, "--config", configPath, "episode", "list")
	if err != nil {
		t.Fatalf("episode list failed: %v", err)
	}
	if !strings.Contains(output, "No episodes registered") {
		t.Fatalf("unexpected output: %q", output)
	}
}

func TestOpenCampaignRequiresOne(t *testing.T) {
	configPath := writeTestConfig(t)

	_, err := runScribe(t, "--config", configPath, "episode", "list")
	if err == nil || !strings.Contains(err.Error(), "campaign new") {
		t.Fatalf("expected guidance to create a campaign, got %v", err)
	}
}

func TestMaskSecret(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abcd", "****"},
		{"AIzaSyExample", "AI*********le"},
	}
	for _, tc := range cases {
		if got := maskSecret(tc.in); got != tc.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatLength(t *testing.T) {
	if got := formatLength(-1); got != "-" {
		t.Errorf("formatLength(-1) = %q, want -", got)
	}
	if got := formatLength(3661); got != "01:01:01" {
		t.Errorf("formatLength(3661) = %q, want 01:01:01", got)
	}
}
