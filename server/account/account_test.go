package account

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xeri0n/JalmarQuest-sub001/shared/game/types"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	SetDataDir(t.TempDir())

	acc, err := LoadAccount("test_user")
	if err != nil {
		t.Fatalf("LoadAccount failed: %v", err)
	}

	acc.Wallet.Glimmer = 750
	acc.AddShiny("bottle_cap", 3)
	acc.AddCosmetic("moss_frame")
	acc.Rewards.CreatorCoffee.ShinyGranted = true
	acc.AppendLogTag("creator_coffee_shiny")

	if err := SaveAccount(acc); err != nil {
		t.Fatalf("SaveAccount failed: %v", err)
	}

	loaded, err := LoadAccount("test_user")
	if err != nil {
		t.Fatalf("LoadAccount after save failed: %v", err)
	}

	if loaded.Wallet.Glimmer != 750 {
		t.Errorf("Glimmer not preserved: got %d, want 750", loaded.Wallet.Glimmer)
	}
	stack := loaded.Shinies["bottle_cap"]
	if stack == nil || stack.Count != 3 {
		t.Errorf("Shiny stack not preserved: got %+v", stack)
	}
	if !loaded.Cosmetics["moss_frame"] {
		t.Error("Cosmetic not preserved")
	}
	if !loaded.Rewards.CreatorCoffee.ShinyGranted {
		t.Error("Reward flag not preserved")
	}
	if loaded.Rewards.CreatorCoffee.CosmeticGranted {
		t.Error("Unset reward flag became set")
	}
	if !loaded.HasLogTag("creator_coffee_shiny") {
		t.Error("Log tag not preserved")
	}
}

func TestNewAccountDefaults(t *testing.T) {
	SetDataDir(t.TempDir())

	acc, err := LoadAccount("fresh_bird")
	if err != nil {
		t.Fatalf("LoadAccount failed: %v", err)
	}

	if acc.Wallet.Glimmer != 0 {
		t.Errorf("new account glimmer: got %d, want 0", acc.Wallet.Glimmer)
	}
	if acc.HoardRank != "Fledgling" {
		t.Errorf("new account rank: got %q, want Fledgling", acc.HoardRank)
	}
	if !acc.Cosmetics[types.CosmeticDefaultFrame] {
		t.Error("new account missing default frame")
	}
	if acc.EquippedFrame != types.CosmeticDefaultFrame {
		t.Errorf("new account equipped frame: got %q", acc.EquippedFrame)
	}
	if acc.Rewards.CreatorCoffee.ShinyGranted || acc.Rewards.CreatorCoffee.CosmeticGranted {
		t.Error("new account has reward flags set")
	}
}

func TestEnsureInitializedRepairsEquip(t *testing.T) {
	acc := &Account{Name: "x", EquippedFrame: "ghost_frame"}
	acc.EnsureInitialized()

	if acc.EquippedFrame != types.CosmeticDefaultFrame {
		t.Errorf("unowned equipped frame not reset: got %q", acc.EquippedFrame)
	}
	if acc.Shinies == nil || acc.Cosmetics == nil || acc.Wallet.NonceSeen == nil {
		t.Error("maps not initialized")
	}
}

func TestAddShinyStacks(t *testing.T) {
	acc := &Account{Name: "x"}
	acc.EnsureInitialized()

	first := acc.AddShiny("sea_glass", 1)
	second := acc.AddShiny("sea_glass", 2)

	if first != second {
		t.Error("AddShiny created a second stack for the same shiny")
	}
	if second.Count != 3 {
		t.Errorf("stack count: got %d, want 3", second.Count)
	}
	if second.AcquiredAt == 0 {
		t.Error("AcquiredAt not set")
	}
}

func TestEquipCosmetic(t *testing.T) {
	acc := &Account{Name: "x"}
	acc.EnsureInitialized()

	if err := acc.EquipCosmetic("moss_frame"); err == nil {
		t.Error("equipping unowned cosmetic should fail")
	}

	acc.AddCosmetic("moss_frame")
	if err := acc.EquipCosmetic("moss_frame"); err != nil {
		t.Errorf("EquipCosmetic failed: %v", err)
	}
	if acc.EquippedFrame != "moss_frame" {
		t.Errorf("equipped frame: got %q", acc.EquippedFrame)
	}

	acc.AddCosmetic("river_nest")
	if err := acc.EquipCosmetic("river_nest"); err == nil {
		t.Error("equipping a nest skin as avatar frame should fail")
	}
}

func TestCorruptFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	SetDataDir(dir)

	if err := os.MkdirAll(filepath.Join(dir, "profiles"), 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "profiles", "corrupt_user.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	acc, err := LoadAccount("corrupt_user")
	if err != nil {
		t.Fatalf("LoadAccount on corrupt file should fall back, got error: %v", err)
	}
	if acc.Name != "corrupt_user" {
		t.Errorf("fallback account name: got %q", acc.Name)
	}
	if acc.Wallet.Glimmer != 0 || len(acc.Shinies) != 0 {
		t.Error("fallback account is not a fresh default")
	}
}
