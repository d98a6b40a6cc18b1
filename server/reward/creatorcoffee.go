// Package reward grants one-shot purchase rewards onto accounts.
package reward

import (
	"fmt"
	"log"

	"github.com/xeri0n/JalmarQuest-sub001/server/account"
	"github.com/xeri0n/JalmarQuest-sub001/server/hoard"
	"github.com/xeri0n/JalmarQuest-sub001/server/wallet"
	"github.com/xeri0n/JalmarQuest-sub001/shared/game/types"
)

// GlimmerThanks is the thank-you glimmer paid alongside a first-time
// Creator Coffee reward. Never paid again on replays.
const GlimmerThanks int64 = 150

// Audit tags appended to the account log when each half of the reward lands.
const (
	TagCreatorCoffeeShiny    = "creator_coffee_shiny"
	TagCreatorCoffeeCosmetic = "creator_coffee_cosmetic"
	TagCreatorCoffeeThanks   = "creator_coffee_thanks"
)

// Result reports what a Creator Coffee grant actually did.
type Result struct {
	ShinyGranted    bool  // shiny newly added this call
	CosmeticGranted bool  // cosmetic newly added this call
	Duplicate       bool  // both flags were already set; nothing changed
	GlimmerGranted  int64 // thank-you bonus paid this call
	HoardRankedUp   bool
}

// GrantCreatorCoffee applies the Creator Coffee donation reward to the
// account in memory. The caller persists the account afterwards.
//
// Each half of the reward is gated by its own idempotency flag: if a
// previous grant was interrupted between the two mutations, a retry
// completes only the missing half. When both flags are already set the
// grant is a no-op and reports Duplicate.
func GrantCreatorCoffee(acc *account.Account) (Result, error) {
	if acc == nil {
		return Result{}, fmt.Errorf("invalid account: nil pointer")
	}

	flags := &acc.Rewards.CreatorCoffee
	if flags.ShinyGranted && flags.CosmeticGranted {
		log.Printf("REWARD: Creator Coffee already granted to %s, skipping", acc.Name)
		return Result{Duplicate: true}, nil
	}

	var res Result

	if !flags.ShinyGranted {
		meta := types.GetShinyMeta(types.ShinyGildedCoffeeBean)
		if meta == nil {
			return Result{}, fmt.Errorf("reward shiny %s missing from catalog", types.ShinyGildedCoffeeBean)
		}
		stack := acc.AddShiny(meta.ID, 1)
		flags.ShinyGranted = true
		acc.AppendLogTag(TagCreatorCoffeeShiny)
		log.Printf("REWARD: Granted shiny %s to %s (count now %d)", meta.ID, acc.Name, stack.Count)
		res.ShinyGranted = true
	}

	if !flags.CosmeticGranted {
		meta := types.GetCosmeticMeta(types.CosmeticCozyMugFrame)
		if meta == nil {
			return Result{}, fmt.Errorf("reward cosmetic %s missing from catalog", types.CosmeticCozyMugFrame)
		}
		acc.AddCosmetic(meta.ID)
		flags.CosmeticGranted = true
		acc.AppendLogTag(TagCreatorCoffeeCosmetic)
		log.Printf("REWARD: Granted cosmetic %s to %s", meta.ID, acc.Name)
		res.CosmeticGranted = true
	}

	// The thank-you bonus rides along with whichever half lands first, so a
	// repaired half-grant never pays twice.
	if res.ShinyGranted || res.CosmeticGranted {
		if !acc.HasLogTag(TagCreatorCoffeeThanks) {
			wallet.Credit(acc, GlimmerThanks)
			acc.AppendLogTag(TagCreatorCoffeeThanks)
			res.GlimmerGranted = GlimmerThanks
		}
		acc.SupporterBadge = true
		acc.UpdateTimestamps("rewards")
	}

	res.HoardRankedUp = hoard.Recompute(acc)

	return res, nil
}
