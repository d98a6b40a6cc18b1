package shop

import (
	"fmt"
	"log"

	"github.com/xeri0n/JalmarQuest-sub001/server/account"
	"github.com/xeri0n/JalmarQuest-sub001/server/hoard"
	"github.com/xeri0n/JalmarQuest-sub001/server/metrics"
	"github.com/xeri0n/JalmarQuest-sub001/server/reward"
	"github.com/xeri0n/JalmarQuest-sub001/server/wallet"
	"github.com/xeri0n/JalmarQuest-sub001/shared/game/types"
	"github.com/xeri0n/JalmarQuest-sub001/shared/protocol"
)

type Service struct {
	ledger         *Ledger
	productCatalog func() []types.ProductMeta
}

func NewService(ledger *Ledger) *Service {
	return &Service{
		ledger: ledger,
		productCatalog: func() []types.ProductMeta {
			return types.ListProducts()
		},
	}
}

// HandleGetCatalog sends the purchasable product list to the client.
func (s *Service) HandleGetCatalog(broadcaster func(eventType string, event interface{})) error {
	products := s.productCatalog()
	views := make([]protocol.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, protocol.ProductView{
			SKU:           string(p.SKU),
			Name:          p.Name,
			Desc:          p.Desc,
			PriceUSDCents: p.PriceUSDCents,
			Glimmer:       p.Glimmer,
			Donation:      p.Donation,
		})
	}
	if broadcaster != nil {
		broadcaster("ShopCatalogSynced", protocol.ShopCatalogSynced{Products: views})
	}
	return nil
}

// verifyReceipt checks the shape of a store receipt before granting.
// Real platform verification (Apple/Google server endpoints) is not part of
// this service; callers sit behind the platform's own purchase flow.
// TODO: Call the store verification endpoints once credentials are provisioned.
func verifyReceipt(req types.PurchaseCompletedReq) bool {
	if req.TransactionID == "" || req.Receipt == "" {
		return false
	}
	switch req.Platform {
	case "ios", "android":
		return true
	default:
		return false
	}
}

// HandlePurchaseCompleted processes a finished store transaction: validates
// it, settles it against the receipt ledger, credits glimmer packs, and
// triggers the Creator Coffee reward grant for the donation product.
func (s *Service) HandlePurchaseCompleted(playerID string, req types.PurchaseCompletedReq, broadcaster func(eventType string, event interface{})) error {
	meta := types.GetProductMeta(req.SKU)
	if meta == nil {
		metrics.PurchaseRejected.WithLabelValues("unknown_sku").Inc()
		if broadcaster != nil {
			broadcaster("Error", protocol.Error{Code: "UNKNOWN_SKU"})
		}
		return fmt.Errorf("unknown product sku: %s", req.SKU)
	}

	if !verifyReceipt(req) {
		metrics.PurchaseRejected.WithLabelValues("bad_receipt").Inc()
		if broadcaster != nil {
			broadcaster("Error", protocol.Error{Code: "INVALID_RECEIPT"})
		}
		return fmt.Errorf("invalid receipt for transaction %q", req.TransactionID)
	}

	// Transaction-level idempotency: claim the transaction in the ledger
	// before touching the account. A replayed receipt, even one racing a
	// first delivery, loses the claim and resolves to the recorded outcome
	// without granting. The UNIQUE transaction_id constraint is the gate.
	claimed, err := s.ledger.Claim(req.TransactionID, playerID, string(req.SKU), types.PurchaseOutcomePending)
	if err != nil {
		return fmt.Errorf("failed to claim transaction: %w", err)
	}
	if !claimed {
		prior, err := s.ledger.Lookup(req.TransactionID)
		if err != nil {
			return fmt.Errorf("failed to check receipt ledger: %w", err)
		}
		outcome := types.PurchaseOutcomePending
		if prior != nil {
			outcome = prior.Outcome
		}
		log.Printf("SHOP: Replayed transaction %s for %s (recorded outcome: %s)",
			req.TransactionID, playerID, outcome)
		metrics.PurchaseReplays.WithLabelValues(string(req.SKU)).Inc()
		s.broadcastResult(playerID, req, outcome, broadcaster)
		return nil
	}

	acc, err := account.LoadAccount(playerID)
	if err != nil {
		s.releaseClaim(req.TransactionID)
		return fmt.Errorf("failed to load account: %w", err)
	}

	outcome := types.PurchaseOutcomeGranted
	var rewardRes reward.Result

	if meta.Glimmer > 0 {
		wallet.Credit(acc, meta.Glimmer)
		log.Printf("SHOP: Credited %d glimmer to %s for %s", meta.Glimmer, playerID, meta.SKU)
	}

	if req.SKU == types.SKUCreatorCoffee {
		rewardRes, err = reward.GrantCreatorCoffee(acc)
		if err != nil {
			s.releaseClaim(req.TransactionID)
			return fmt.Errorf("failed to grant creator coffee reward: %w", err)
		}
		if rewardRes.Duplicate {
			// A repeat donation on a fresh transaction: the money is a
			// donation, the one-shot reward stays one-shot.
			outcome = types.PurchaseOutcomeDuplicate
			metrics.RewardDuplicates.WithLabelValues(string(req.SKU)).Inc()
		} else {
			metrics.RewardGrants.WithLabelValues(string(req.SKU)).Inc()
		}
	}

	if meta.Donation {
		acc.SupporterBadge = true
	}

	if err := account.SaveAccount(acc); err != nil {
		// Nothing reached disk; drop the claim so the store can redeliver.
		s.releaseClaim(req.TransactionID)
		return fmt.Errorf("failed to save account: %w", err)
	}

	if err := s.ledger.UpdateOutcome(req.TransactionID, outcome); err != nil {
		// The claim row stays pending: replays still grant nothing, they
		// just echo a pending outcome until the row is settled.
		log.Printf("SHOP: Failed to settle receipt %s: %v", req.TransactionID, err)
	}

	metrics.PurchaseCompletions.WithLabelValues(string(req.SKU)).Inc()
	log.Printf("SHOP: Completed %s for %s (tx %s, outcome %s)", meta.SKU, playerID, req.TransactionID, outcome)

	if broadcaster != nil {
		if meta.Glimmer > 0 || rewardRes.GlimmerGranted > 0 {
			broadcaster("WalletSynced", protocol.WalletSynced{Glimmer: acc.Wallet.Glimmer})
		}
		if rewardRes.ShinyGranted {
			if shinyMeta := types.GetShinyMeta(types.ShinyGildedCoffeeBean); shinyMeta != nil {
				stack := acc.Shinies[shinyMeta.ID]
				count := 0
				if stack != nil {
					count = stack.Count
				}
				broadcaster("ShinyGranted", protocol.ShinyGranted{
					ShinyID: shinyMeta.ID,
					Name:    shinyMeta.Name,
					Rarity:  shinyMeta.Rarity.String(),
					Count:   count,
					Source:  shinyMeta.Source,
				})
			}
		}
		if rewardRes.CosmeticGranted {
			if cosMeta := types.GetCosmeticMeta(types.CosmeticCozyMugFrame); cosMeta != nil {
				broadcaster("CosmeticGranted", protocol.CosmeticGranted{
					CosmeticID: cosMeta.ID,
					Name:       cosMeta.Name,
					Slot:       string(cosMeta.Slot),
					Source:     cosMeta.Source,
				})
			}
		}
		if rewardRes.ShinyGranted || rewardRes.HoardRankedUp {
			hoard.BroadcastRank(acc, rewardRes.HoardRankedUp, broadcaster)
		}
	}

	s.broadcastResult(playerID, req, outcome, broadcaster)
	return nil
}

func (s *Service) releaseClaim(transactionID string) {
	if err := s.ledger.Release(transactionID); err != nil {
		log.Printf("SHOP: Failed to release claim %s: %v", transactionID, err)
	}
}

func (s *Service) broadcastResult(playerID string, req types.PurchaseCompletedReq, outcome string, broadcaster func(eventType string, event interface{})) {
	if broadcaster == nil {
		return
	}
	glimmer := int64(0)
	if acc, err := account.LoadAccount(playerID); err == nil {
		glimmer = acc.Wallet.Glimmer
	}
	broadcaster("PurchaseResult", protocol.PurchaseResult{
		SKU:           string(req.SKU),
		TransactionID: req.TransactionID,
		Outcome:       outcome,
		Glimmer:       glimmer,
	})
}
