package protocol

import "encoding/json"

// Envelope
type MsgEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ================= C -> S =================

type Hello struct {
	Name  string `json:"name"`
	Token string `json:"token,omitempty"`
}

type GetShinyCollection struct{}

type GetShopCatalog struct{}

type GetWallet struct{}

// Currency operations (Glimmer)
type GrantGlimmer struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

type SpendGlimmer struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
	Nonce  string `json:"nonce"` // For deduplication
}

// ================= S -> C =================

type WalletSynced struct {
	Glimmer int64 `json:"glimmer"`
}

type ShinyView struct {
	ShinyID    string `json:"shinyId"`
	Name       string `json:"name"`
	Rarity     string `json:"rarity"`
	Count      int    `json:"count"`
	AcquiredAt int64  `json:"acquiredAt"`
}

type ShinyCollectionSynced struct {
	Shinies    []ShinyView `json:"shinies"`
	HoardScore int         `json:"hoardScore"`
	HoardRank  string      `json:"hoardRank"`
}

type ShinyGranted struct {
	ShinyID string `json:"shinyId"`
	Name    string `json:"name"`
	Rarity  string `json:"rarity"`
	Count   int    `json:"count"` // total owned after grant
	Source  string `json:"source"`
}

type CosmeticGranted struct {
	CosmeticID string `json:"cosmeticId"`
	Name       string `json:"name"`
	Slot       string `json:"slot"`
	Source     string `json:"source"`
}

type CosmeticEquipped struct {
	CosmeticID string `json:"cosmeticId"`
	Slot       string `json:"slot"`
}

type HoardRankSynced struct {
	HoardScore int    `json:"hoardScore"`
	HoardRank  string `json:"hoardRank"`
	RankedUp   bool   `json:"rankedUp"`
}

type ProductView struct {
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Desc          string `json:"desc"`
	PriceUSDCents int64  `json:"priceUsdCents"`
	Glimmer       int64  `json:"glimmer,omitempty"`
	Donation      bool   `json:"donation,omitempty"`
}

type ShopCatalogSynced struct {
	Products []ProductView `json:"products"`
}

type PurchaseResult struct {
	SKU           string `json:"sku"`
	TransactionID string `json:"transactionId"`
	Outcome       string `json:"outcome"` // granted | duplicate | rejected
	Glimmer       int64  `json:"glimmer"` // balance after processing
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
