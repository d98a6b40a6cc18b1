package hoard

import (
	"log"

	"github.com/xeri0n/JalmarQuest-sub001/server/account"
	"github.com/xeri0n/JalmarQuest-sub001/shared/game/types"
	"github.com/xeri0n/JalmarQuest-sub001/shared/protocol"
)

// Score computes the rarity-weighted hoard score for an account's shinies.
// Unknown shiny IDs (removed from the catalog) contribute nothing.
func Score(shinies map[string]*types.ShinyStack) int {
	score := 0
	for id, stack := range shinies {
		if stack == nil || stack.Count <= 0 {
			continue
		}
		meta := types.GetShinyMeta(id)
		if meta == nil {
			continue
		}
		score += meta.Rarity.HoardScore() * stack.Count
	}
	return score
}

// RankName calculates the hoard rank name from a hoard score.
func RankName(score int) string {
	switch {
	case score >= 5000:
		return "Hoard Sovereign"
	case score >= 2000:
		return "Gleam Warden"
	case score >= 750:
		return "Shiny Seeker"
	case score >= 250:
		return "Trinket Taker"
	case score >= 50:
		return "Twig Picker"
	default:
		return "Fledgling"
	}
}

// Recompute refreshes the account's hoard score and rank from its shinies.
// Returns true when the rank name changed.
func Recompute(acc *account.Account) (rankedUp bool) {
	score := Score(acc.Shinies)
	rank := RankName(score)

	rankedUp = rank != acc.HoardRank && acc.HoardRank != ""
	if score != acc.HoardScore || rank != acc.HoardRank {
		acc.HoardScore = score
		acc.HoardRank = rank
		acc.UpdateTimestamps("hoard")
	}
	if rankedUp {
		log.Printf("HOARD: %s ranked up to %s (score %d)", acc.Name, rank, score)
	}
	return rankedUp
}

// BroadcastRank pushes the account's hoard standing to the client.
func BroadcastRank(acc *account.Account, rankedUp bool, broadcaster func(eventType string, event interface{})) {
	if broadcaster == nil {
		return
	}
	broadcaster("HoardRankSynced", protocol.HoardRankSynced{
		HoardScore: acc.HoardScore,
		HoardRank:  acc.HoardRank,
		RankedUp:   rankedUp,
	})
}
