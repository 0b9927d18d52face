package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestParseGrid(t *testing.T) {
	names, ranges, err := parseGrid([]string{"level_p=0.05, 0.1", "yaw_p=0.2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "level_p" || names[1] != "yaw_p" {
		t.Errorf("unexpected names %v", names)
	}
	if len(ranges[0]) != 2 || ranges[0][1] != 0.1 || ranges[1][0] != 0.2 {
		t.Errorf("unexpected ranges %v", ranges)
	}

	for _, bad := range []string{"level_p", "=1", "level_p=", "level_p=a"} {
		if _, _, err := parseGrid([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func newFlagCmd(t *testing.T, set map[string]string) *cobra.Command {
	t.Helper()
	configFile, preset = "", ""
	cmd := &cobra.Command{Use: "test"}
	addSimFlags(cmd)
	for k, v := range set {
		if err := cmd.Flags().Set(k, v); err != nil {
			t.Fatal(err)
		}
	}
	return cmd
}

func TestLoadConfigOverrides(t *testing.T) {
	cmd := newFlagCmd(t, map[string]string{
		"preset":   "racer",
		"scenario": "yaw-spin",
		"level-p":  "0.3",
		"seed":     "7",
	})

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sim.Scenario != "yaw-spin" || cfg.Sim.Seed != 7 {
		t.Errorf("flags not applied: %+v", cfg.Sim)
	}
	if cfg.Stabilize.LevelP != 0.3 {
		t.Errorf("level_p = %v, want 0.3", cfg.Stabilize.LevelP)
	}
	if cfg.Controller != "acro" {
		t.Errorf("preset not applied, controller %s", cfg.Controller)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	if _, err := loadConfig(newFlagCmd(t, map[string]string{"preset": "nope"})); err == nil {
		t.Error("expected unknown preset error")
	}
	if _, err := loadConfig(newFlagCmd(t, map[string]string{"dt": "-1"})); err == nil {
		t.Error("expected invalid dt error")
	}
}
