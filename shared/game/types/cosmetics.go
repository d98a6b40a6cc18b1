package types

type CosmeticSlot string

const (
	SlotAvatarFrame CosmeticSlot = "avatar_frame"
	SlotNestSkin    CosmeticSlot = "nest_skin"
	SlotCallSound   CosmeticSlot = "call_sound"
)

type CosmeticMeta struct {
	ID     string
	Name   string
	Desc   string
	Slot   CosmeticSlot
	Source string // "default", "shop", "creator_coffee", ...
	Icon   string
}

const (
	// CosmeticCozyMugFrame is the Creator Coffee donation reward cosmetic.
	CosmeticCozyMugFrame = "cozy_mug_frame"

	CosmeticDefaultFrame = "twig_frame"
)

var cosmeticRegistry = []CosmeticMeta{
	{CosmeticDefaultFrame, "Twig Frame", "Humble beginnings.", SlotAvatarFrame, "default", "twig_frame.png"},
	{"moss_frame", "Moss Frame", "Soft around the edges.", SlotAvatarFrame, "shop", "moss_frame.png"},
	{"river_nest", "River Nest", "Woven from reeds and patience.", SlotNestSkin, "shop", "river_nest.png"},
	{"bell_call", "Bell Call", "A bright, clear chime.", SlotCallSound, "shop", "bell_call.png"},
	{CosmeticCozyMugFrame, "Cozy Mug Frame", "Steam curls around your portrait. Thanks for the coffee.", SlotAvatarFrame, "creator_coffee", "cozy_mug_frame.png"},
}

func ListCosmetics() []CosmeticMeta {
	out := make([]CosmeticMeta, len(cosmeticRegistry))
	copy(out, cosmeticRegistry)
	return out
}

func GetCosmeticMeta(cosmeticID string) *CosmeticMeta {
	for _, c := range cosmeticRegistry {
		if c.ID == cosmeticID {
			return &c
		}
	}
	return nil
}
