package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"gc_data": {"account_id": 76561198000000001}}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	gc := cfg.GetGCData()
	if gc.AppID != DefaultAppID {
		t.Errorf("AppID = %d, want default %d", gc.AppID, DefaultAppID)
	}
	if gc.AccountID != 76561198000000001 {
		t.Errorf("AccountID = %d, want the configured value", gc.AccountID)
	}
	if got := cfg.CraftTimeout(); got != DefaultCraftTimeoutSec*time.Second {
		t.Errorf("CraftTimeout() = %v, want %v", got, DefaultCraftTimeoutSec*time.Second)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("loading a missing file should fail")
	}
}

func TestValidateRejectsZeroAppID(t *testing.T) {
	cfg := Default()
	cfg.GCData.AppID = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero app id should fail validation")
	}
}

func TestValidateRepairsCraftTimeout(t *testing.T) {
	cfg := Default()
	cfg.GCData.CraftTimeoutSec = -5
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.GCData.CraftTimeoutSec != DefaultCraftTimeoutSec {
		t.Errorf("CraftTimeoutSec = %d, want repaired default %d", cfg.GCData.CraftTimeoutSec, DefaultCraftTimeoutSec)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Default()
	cfg.path = path
	cfg.SetAccountID(42)

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if loaded.GetGCData().AccountID != 42 {
		t.Errorf("AccountID = %d after round trip, want 42", loaded.GetGCData().AccountID)
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := Default().Save(); err == nil {
		t.Fatal("saving a pathless config should fail")
	}
}
