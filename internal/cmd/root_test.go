package cmd

import "testing"

func TestRootCommandRegistersAllSubcommands(t *testing.T) {
	want := map[string]bool{"dry-run": false, "execute": false, "preview": false, "serve": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected rootCmd to register subcommand %q", name)
		}
	}
}

func TestLoadConfigFallsBackToDefaultsForMissingFile(t *testing.T) {
	orig := cfgPath
	defer func() { cfgPath = orig }()

	cfgPath = "/nonexistent/path/config.yaml"
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("expected fallback to defaults, got error: %v", err)
	}
	if cfg.LLM.BatchSize == 0 {
		t.Error("expected a default batch size")
	}
}
