package types

// PurchaseCompletedReq is sent when the platform store reports a finished
// transaction for this player.
type PurchaseCompletedReq struct {
	SKU           ProductSKU `json:"sku"`
	TransactionID string     `json:"transactionId"` // store-assigned, unique per purchase
	Receipt       string     `json:"receipt"`
	Platform      string     `json:"platform"` // "ios" or "android"
}

type EquipCosmeticReq struct {
	CosmeticID string `json:"cosmeticId"`
}

// Purchase outcomes recorded in the receipt ledger.
const (
	PurchaseOutcomePending   = "pending" // claimed, grant not yet settled
	PurchaseOutcomeGranted   = "granted"
	PurchaseOutcomeDuplicate = "duplicate"
	PurchaseOutcomeRejected  = "rejected"
)
