package types

type Rarity int

const (
	RarityCommon Rarity = iota
	RarityRare
	RarityEpic
	RarityLegendary
)

// HoardScore is the hoard points a single shiny of this rarity contributes.
func (r Rarity) HoardScore() int {
	switch r {
	case RarityCommon:
		return 5
	case RarityRare:
		return 20
	case RarityEpic:
		return 75
	case RarityLegendary:
		return 250
	default:
		return 0
	}
}

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "common"
	case RarityRare:
		return "rare"
	case RarityEpic:
		return "epic"
	case RarityLegendary:
		return "legendary"
	default:
		return "unknown"
	}
}
