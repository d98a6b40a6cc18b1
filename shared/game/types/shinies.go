package types

type ShinyMeta struct {
	ID        string
	Name      string
	Desc      string
	Rarity    Rarity
	Droppable bool   // false for reward-only shinies
	Source    string // "wild", "shop", "creator_coffee", ...
	Icon      string // sprite filename
}

// ShinyStack is an owned shiny entry in an account's hoard.
type ShinyStack struct {
	ShinyID    string `json:"shinyId"`
	Count      int    `json:"count"`
	AcquiredAt int64  `json:"acquiredAt"` // unix sec of first acquisition
}

const (
	// ShinyGildedCoffeeBean is the Creator Coffee donation reward shiny.
	ShinyGildedCoffeeBean = "gilded_coffee_bean"
)

var shinyRegistry = []ShinyMeta{
	{"bottle_cap", "Bottle Cap", "A classic. Every hoard starts somewhere.", RarityCommon, true, "wild", "bottle_cap.png"},
	{"foil_scrap", "Foil Scrap", "Crinkles delightfully.", RarityCommon, true, "wild", "foil_scrap.png"},
	{"sea_glass", "Sea Glass", "Smooth, green, mysterious.", RarityCommon, true, "wild", "sea_glass.png"},
	{"lost_button", "Lost Button", "Someone's coat is colder now.", RarityCommon, true, "wild", "lost_button.png"},
	{"copper_washer", "Copper Washer", "Round and vaguely official.", RarityCommon, true, "wild", "copper_washer.png"},
	{"marble_swirl", "Swirl Marble", "A tiny galaxy in glass.", RarityCommon, true, "wild", "marble_swirl.png"},
	{"thimble", "Tin Thimble", "Fits exactly one talon.", RarityCommon, true, "wild", "thimble.png"},
	{"spoon_bent", "Bent Spoon", "Pre-bent for your convenience.", RarityCommon, true, "wild", "spoon_bent.png"},
	{"keyring_blank", "Blank Key", "Opens nothing, promises everything.", RarityRare, true, "wild", "keyring_blank.png"},
	{"watch_gear", "Watch Gear", "Still ticking somewhere in spirit.", RarityRare, true, "wild", "watch_gear.png"},
	{"silver_locket", "Silver Locket", "Empty, or is it?", RarityRare, true, "wild", "silver_locket.png"},
	{"opal_chip", "Opal Chip", "Fire trapped in stone.", RarityRare, true, "wild", "opal_chip.png"},
	{"harmonica_reed", "Harmonica Reed", "One note, perfectly held.", RarityRare, true, "wild", "harmonica_reed.png"},
	{"compass_rose", "Compass Rose", "Points at whatever you want most.", RarityEpic, true, "wild", "compass_rose.png"},
	{"prism_shard", "Prism Shard", "Splits sunlight into seven treasures.", RarityEpic, true, "wild", "prism_shard.png"},
	{"music_box_cylinder", "Music Box Cylinder", "Plays a tune nobody remembers.", RarityEpic, true, "wild", "music_box_cylinder.png"},
	{"meteor_fleck", "Meteor Fleck", "Older than the forest.", RarityLegendary, true, "wild", "meteor_fleck.png"},
	{"crown_fragment", "Crown Fragment", "A king misplaced this once.", RarityLegendary, true, "wild", "crown_fragment.png"},

	// Reward-only shinies. Never in the wild drop table.
	{ShinyGildedCoffeeBean, "Gilded Coffee Bean", "A token of thanks from the flock behind the game.", RarityLegendary, false, "creator_coffee", "gilded_coffee_bean.png"},
}

func ListShinies() []ShinyMeta {
	out := make([]ShinyMeta, len(shinyRegistry))
	copy(out, shinyRegistry)
	return out
}

// ListDroppable returns shinies eligible for wild drops and shop rolls.
func ListDroppable() []ShinyMeta {
	var out []ShinyMeta
	for _, s := range shinyRegistry {
		if s.Droppable {
			out = append(out, s)
		}
	}
	return out
}

func GetShinyMeta(shinyID string) *ShinyMeta {
	for _, s := range shinyRegistry {
		if s.ID == shinyID {
			return &s
		}
	}
	return nil
}
