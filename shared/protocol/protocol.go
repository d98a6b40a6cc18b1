package protocol

type Profile struct {
	PlayerID       int64    `json:"playerId"`
	Name           string   `json:"name"`
	Glimmer        int64    `json:"glimmer"`
	HoardScore     int      `json:"hoardScore"`
	HoardRank      string   `json:"hoardRank"` // derived server-side
	ShinyCount     int      `json:"shinyCount"`
	Cosmetics      []string `json:"cosmetics,omitempty"`
	EquippedFrame  string   `json:"equippedFrame"`
	SupporterBadge bool     `json:"supporterBadge"` // true once any donation completed
}

type GetProfile struct{}

type Logout struct{}
