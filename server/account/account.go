package account

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/xeri0n/JalmarQuest-sub001/shared/game/types"
)

// CreatorCoffeeState holds the idempotency flags for the Creator Coffee
// donation reward. Each half of the reward is guarded separately so a grant
// interrupted between the two mutations can be completed on retry.
type CreatorCoffeeState struct {
	ShinyGranted    bool `json:"shinyGranted"`
	CosmeticGranted bool `json:"cosmeticGranted"`
}

// RewardFlags collects one-shot reward gates on the account.
type RewardFlags struct {
	CreatorCoffee CreatorCoffeeState `json:"creatorCoffee"`
}

// WalletState represents wallet-specific account data
type WalletState struct {
	Glimmer   int64           `json:"glimmer"`
	NonceSeen map[string]bool `json:"nonceSeen"` // for spend idempotency
	Version   int             `json:"version"`   // for format changes
}

// Account represents an account record with persisted data
type Account struct {
	ID             string                       `json:"id"`
	Name           string                       `json:"name"`
	Wallet         WalletState                  `json:"wallet"`
	HoardScore     int                          `json:"hoardScore"`
	HoardRank      string                       `json:"hoardRank"` // calculated rank name
	Shinies        map[string]*types.ShinyStack `json:"shinies"`   // shinyID -> stack
	Cosmetics      map[string]bool              `json:"cosmetics"` // cosmeticID -> owned
	EquippedFrame  string                       `json:"equippedFrame"`
	Rewards        RewardFlags                  `json:"rewards"`
	SupporterBadge bool                         `json:"supporterBadge"` // any donation completed
	LogTags        []string                     `json:"logTags"`        // append-only audit tags
	LastUpdated    int64                        `json:"lastUpdated"`
	SectionTimes   SectionUpdateTimes           `json:"sectionTimes"`
}

// SectionUpdateTimes tracks last update times for different account sections
type SectionUpdateTimes struct {
	Wallet    int64 `json:"wallet"`
	Hoard     int64 `json:"hoard"`
	Cosmetics int64 `json:"cosmetics"`
	Rewards   int64 `json:"rewards"`
	Profile   int64 `json:"profile"`
}

var (
	locksMu      sync.Mutex
	accountLocks = make(map[string]*sync.Mutex)
	accountsDir  = filepath.Join("data", "profiles")
)

// SetDataDir redirects account storage, used by main() and tests.
func SetDataDir(dir string) {
	accountsDir = filepath.Join(dir, "profiles")
}

// safeFileName creates a safe filename from potentially unsafe characters
func safeFileName(name string) string {
	re := regexp.MustCompile(`[^a-zA-Z0-9]+`)
	s := re.ReplaceAllString(name, "_")
	if s == "" {
		s = "player"
	}
	return s
}

// getAccountLock returns a mutex for the given account ID
func getAccountLock(id string) *sync.Mutex {
	locksMu.Lock()
	defer locksMu.Unlock()
	lock, exists := accountLocks[id]
	if !exists {
		lock = &sync.Mutex{}
		accountLocks[id] = lock
	}
	return lock
}

// newAccount builds a fresh account with sane defaults.
func newAccount(username string) *Account {
	idBytes := make([]byte, 16)
	rand.Read(idBytes)
	now := time.Now().Unix()
	return &Account{
		ID:   hex.EncodeToString(idBytes),
		Name: username,
		Wallet: WalletState{
			Glimmer:   0,
			NonceSeen: make(map[string]bool),
			Version:   1,
		},
		HoardScore:    0,
		HoardRank:     "Fledgling",
		Shinies:       make(map[string]*types.ShinyStack),
		Cosmetics:     map[string]bool{types.CosmeticDefaultFrame: true},
		EquippedFrame: types.CosmeticDefaultFrame,
		LogTags:       make([]string, 0),
		LastUpdated:   now,
		SectionTimes: SectionUpdateTimes{
			Wallet:    now,
			Hoard:     now,
			Cosmetics: now,
			Rewards:   now,
			Profile:   now,
		},
	}
}

// LoadAccount loads an account by username, creating defaults when missing.
func LoadAccount(username string) (*Account, error) {
	if username == "" {
		return nil, errors.New("empty username")
	}

	lock := getAccountLock(username)
	lock.Lock()
	defer lock.Unlock()

	path := filepath.Join(accountsDir, safeFileName(username)+".json")

	data, err := os.ReadFile(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		acc := newAccount(username)
		log.Printf("ACCOUNT: Creating new account for username '%s' (ID: %s)", username, acc.ID)
		return acc, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read account file: %w", err)
	}

	var acc Account
	if err := json.Unmarshal(data, &acc); err != nil {
		log.Printf("ACCOUNT: Failed to unmarshal account file for '%s': %v, creating new account", username, err)
		return newAccount(username), nil
	}

	acc.EnsureInitialized()
	if acc.Name == "" {
		acc.Name = username
	}

	return &acc, nil
}

// SaveAccount persists an account to disk atomically
func SaveAccount(acc *Account) error {
	if acc == nil {
		log.Printf("ACCOUNT SAVE ERROR: account is nil")
		return errors.New("invalid account: nil pointer")
	}

	filename := strings.TrimSpace(acc.Name)
	if filename == "" {
		filename = strings.TrimSpace(acc.ID)
	}
	if filename == "" {
		log.Printf("ACCOUNT SAVE ERROR: no valid filename (name or ID)")
		return errors.New("invalid account: no name or ID for filename")
	}

	if err := os.MkdirAll(accountsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create accounts directory: %w", err)
	}

	path := filepath.Join(accountsDir, safeFileName(filename)+".json")

	data, err := json.MarshalIndent(acc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp account file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename account file: %w", err)
	}

	return nil
}

// EnsureInitialized ensures all account fields are properly initialized
func (a *Account) EnsureInitialized() {
	if a.Shinies == nil {
		a.Shinies = make(map[string]*types.ShinyStack)
	}
	if a.Cosmetics == nil {
		a.Cosmetics = make(map[string]bool)
	}
	if a.Wallet.NonceSeen == nil {
		a.Wallet.NonceSeen = make(map[string]bool)
	}
	if a.Wallet.Version == 0 {
		a.Wallet.Version = 1
	}
	if a.LogTags == nil {
		a.LogTags = make([]string, 0)
	}
	if !a.Cosmetics[types.CosmeticDefaultFrame] {
		a.Cosmetics[types.CosmeticDefaultFrame] = true
	}
	// An equipped frame the account no longer owns (or that left the
	// catalog) falls back to the default.
	if a.EquippedFrame == "" || !a.Cosmetics[a.EquippedFrame] || types.GetCosmeticMeta(a.EquippedFrame) == nil {
		a.EquippedFrame = types.CosmeticDefaultFrame
	}
	if a.HoardRank == "" {
		a.HoardRank = "Fledgling"
	}
}

// UpdateTimestamps updates the account's timestamp information
func (a *Account) UpdateTimestamps(section string) {
	now := time.Now().Unix()
	a.LastUpdated = now

	switch section {
	case "wallet":
		a.SectionTimes.Wallet = now
	case "hoard":
		a.SectionTimes.Hoard = now
	case "cosmetics":
		a.SectionTimes.Cosmetics = now
	case "rewards":
		a.SectionTimes.Rewards = now
	case "profile":
		a.SectionTimes.Profile = now
	}
}

// AppendLogTag records an audit tag on the account. Tags are append-only.
func (a *Account) AppendLogTag(tag string) {
	if tag == "" {
		return
	}
	a.LogTags = append(a.LogTags, tag)
}

// HasLogTag reports whether the account carries the given audit tag.
func (a *Account) HasLogTag(tag string) bool {
	for _, t := range a.LogTags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddShiny adds count copies of a shiny to the hoard and returns the stack.
func (a *Account) AddShiny(shinyID string, count int) *types.ShinyStack {
	if a.Shinies == nil {
		a.Shinies = make(map[string]*types.ShinyStack)
	}
	stack, ok := a.Shinies[shinyID]
	if !ok {
		stack = &types.ShinyStack{
			ShinyID:    shinyID,
			Count:      0,
			AcquiredAt: time.Now().Unix(),
		}
		a.Shinies[shinyID] = stack
	}
	stack.Count += count
	a.UpdateTimestamps("hoard")
	return stack
}

// OwnsShiny reports whether the account owns at least one of the shiny.
func (a *Account) OwnsShiny(shinyID string) bool {
	stack, ok := a.Shinies[shinyID]
	return ok && stack.Count > 0
}

// AddCosmetic unlocks a cosmetic. Returns false if it was already owned.
func (a *Account) AddCosmetic(cosmeticID string) bool {
	if a.Cosmetics == nil {
		a.Cosmetics = make(map[string]bool)
	}
	if a.Cosmetics[cosmeticID] {
		return false
	}
	a.Cosmetics[cosmeticID] = true
	a.UpdateTimestamps("cosmetics")
	return true
}

// EquipCosmetic equips an owned avatar-frame cosmetic.
func (a *Account) EquipCosmetic(cosmeticID string) error {
	meta := types.GetCosmeticMeta(cosmeticID)
	if meta == nil {
		return fmt.Errorf("unknown cosmetic: %s", cosmeticID)
	}
	if !a.Cosmetics[cosmeticID] {
		return fmt.Errorf("cosmetic not owned: %s", cosmeticID)
	}
	if meta.Slot != types.SlotAvatarFrame {
		return fmt.Errorf("cosmetic %s is not an avatar frame", cosmeticID)
	}
	a.EquippedFrame = cosmeticID
	a.UpdateTimestamps("cosmetics")
	return nil
}

// OwnedCosmetics returns the IDs of all owned cosmetics, for profile sync.
func (a *Account) OwnedCosmetics() []string {
	out := make([]string, 0, len(a.Cosmetics))
	for id, owned := range a.Cosmetics {
		if owned {
			out = append(out, id)
		}
	}
	return out
}
