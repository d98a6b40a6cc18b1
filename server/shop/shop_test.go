package shop

import (
	"testing"

	"github.com/xeri0n/JalmarQuest-sub001/server/account"
	"github.com/xeri0n/JalmarQuest-sub001/shared/game/types"
	"github.com/xeri0n/JalmarQuest-sub001/shared/protocol"
)

type recorder struct {
	events map[string]int
	last   map[string]interface{}
}

func newRecorder() *recorder {
	return &recorder{events: map[string]int{}, last: map[string]interface{}{}}
}

func (r *recorder) sink(eventType string, event interface{}) {
	r.events[eventType]++
	r.last[eventType] = event
}

func testService(t *testing.T) *Service {
	t.Helper()
	account.SetDataDir(t.TempDir())
	return NewService(testLedger(t))
}

func coffeeReq(tx string) types.PurchaseCompletedReq {
	return types.PurchaseCompletedReq{
		SKU:           types.SKUCreatorCoffee,
		TransactionID: tx,
		Receipt:       "store-receipt-blob",
		Platform:      "ios",
	}
}

func TestCreatorCoffeePurchaseGrantsReward(t *testing.T) {
	s := testService(t)
	rec := newRecorder()

	if err := s.HandlePurchaseCompleted("magpie", coffeeReq("tx-1"), rec.sink); err != nil {
		t.Fatalf("HandlePurchaseCompleted failed: %v", err)
	}

	acc, err := account.LoadAccount("magpie")
	if err != nil {
		t.Fatal(err)
	}
	if !acc.Rewards.CreatorCoffee.ShinyGranted || !acc.Rewards.CreatorCoffee.CosmeticGranted {
		t.Error("reward flags not set after purchase")
	}
	if !acc.OwnsShiny(types.ShinyGildedCoffeeBean) {
		t.Error("reward shiny not granted")
	}
	if !acc.Cosmetics[types.CosmeticCozyMugFrame] {
		t.Error("reward cosmetic not granted")
	}
	if !acc.SupporterBadge {
		t.Error("supporter badge not set")
	}

	if rec.events["ShinyGranted"] != 1 || rec.events["CosmeticGranted"] != 1 {
		t.Errorf("grant events: %v", rec.events)
	}
	pr, ok := rec.last["PurchaseResult"].(protocol.PurchaseResult)
	if !ok {
		t.Fatal("no PurchaseResult broadcast")
	}
	if pr.Outcome != types.PurchaseOutcomeGranted {
		t.Errorf("outcome: got %q, want granted", pr.Outcome)
	}
}

func TestReplayedTransactionGrantsNothing(t *testing.T) {
	s := testService(t)

	if err := s.HandlePurchaseCompleted("magpie", coffeeReq("tx-1"), nil); err != nil {
		t.Fatalf("first purchase failed: %v", err)
	}
	before, _ := account.LoadAccount("magpie")

	rec := newRecorder()
	if err := s.HandlePurchaseCompleted("magpie", coffeeReq("tx-1"), rec.sink); err != nil {
		t.Fatalf("replay errored: %v", err)
	}

	after, _ := account.LoadAccount("magpie")
	if after.Wallet.Glimmer != before.Wallet.Glimmer {
		t.Error("replay changed wallet balance")
	}
	if after.Shinies[types.ShinyGildedCoffeeBean].Count != 1 {
		t.Errorf("replay changed shiny count: %d", after.Shinies[types.ShinyGildedCoffeeBean].Count)
	}
	if rec.events["ShinyGranted"] != 0 {
		t.Error("replay broadcast a grant")
	}
	pr := rec.last["PurchaseResult"].(protocol.PurchaseResult)
	if pr.Outcome != types.PurchaseOutcomeGranted {
		t.Errorf("replay should echo recorded outcome, got %q", pr.Outcome)
	}
}

func TestSecondDonationKeepsRewardOneShot(t *testing.T) {
	s := testService(t)

	if err := s.HandlePurchaseCompleted("magpie", coffeeReq("tx-1"), nil); err != nil {
		t.Fatal(err)
	}

	rec := newRecorder()
	if err := s.HandlePurchaseCompleted("magpie", coffeeReq("tx-2"), rec.sink); err != nil {
		t.Fatalf("second donation errored: %v", err)
	}

	acc, _ := account.LoadAccount("magpie")
	if acc.Shinies[types.ShinyGildedCoffeeBean].Count != 1 {
		t.Errorf("second donation duplicated the shiny: count %d", acc.Shinies[types.ShinyGildedCoffeeBean].Count)
	}
	pr := rec.last["PurchaseResult"].(protocol.PurchaseResult)
	if pr.Outcome != types.PurchaseOutcomeDuplicate {
		t.Errorf("outcome: got %q, want duplicate", pr.Outcome)
	}
}

func TestGlimmerPackCreditsWallet(t *testing.T) {
	s := testService(t)
	rec := newRecorder()

	req := types.PurchaseCompletedReq{
		SKU:           types.SKUGlimmerSatchel,
		TransactionID: "tx-pack",
		Receipt:       "store-receipt-blob",
		Platform:      "android",
	}
	if err := s.HandlePurchaseCompleted("magpie", req, rec.sink); err != nil {
		t.Fatalf("pack purchase failed: %v", err)
	}

	meta := types.GetProductMeta(types.SKUGlimmerSatchel)
	acc, _ := account.LoadAccount("magpie")
	if acc.Wallet.Glimmer != meta.Glimmer {
		t.Errorf("balance: got %d, want %d", acc.Wallet.Glimmer, meta.Glimmer)
	}
	if acc.Rewards.CreatorCoffee.ShinyGranted {
		t.Error("glimmer pack set the coffee reward flag")
	}
	if acc.SupporterBadge {
		t.Error("glimmer pack set the supporter badge")
	}
	if rec.events["WalletSynced"] != 1 {
		t.Errorf("wallet sync events: %v", rec.events)
	}
}

func TestReplayedGlimmerPackDoesNotRecredit(t *testing.T) {
	s := testService(t)

	req := types.PurchaseCompletedReq{
		SKU:           types.SKUGlimmerSatchel,
		TransactionID: "tx-gap",
		Receipt:       "store-receipt-blob",
		Platform:      "ios",
	}
	if err := s.HandlePurchaseCompleted("magpie", req, nil); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}

	meta := types.GetProductMeta(types.SKUGlimmerSatchel)
	rec := newRecorder()
	if err := s.HandlePurchaseCompleted("magpie", req, rec.sink); err != nil {
		t.Fatalf("second delivery errored: %v", err)
	}

	acc, _ := account.LoadAccount("magpie")
	if acc.Wallet.Glimmer != meta.Glimmer {
		t.Errorf("transaction %s credited twice: balance %d, want %d", req.TransactionID, acc.Wallet.Glimmer, meta.Glimmer)
	}
	pr := rec.last["PurchaseResult"].(protocol.PurchaseResult)
	if pr.Outcome != types.PurchaseOutcomeGranted {
		t.Errorf("replay outcome: got %q, want granted", pr.Outcome)
	}
}

func TestDeliveryAgainstUnsettledClaimGrantsNothing(t *testing.T) {
	s := testService(t)

	// A first delivery that claimed the transaction but never settled its
	// outcome (crash or settle failure after the account save).
	claimed, err := s.ledger.Claim("tx-hung", "magpie", string(types.SKUGlimmerSatchel), types.PurchaseOutcomePending)
	if err != nil || !claimed {
		t.Fatalf("claim setup: claimed=%v err=%v", claimed, err)
	}

	req := types.PurchaseCompletedReq{
		SKU:           types.SKUGlimmerSatchel,
		TransactionID: "tx-hung",
		Receipt:       "store-receipt-blob",
		Platform:      "ios",
	}
	rec := newRecorder()
	if err := s.HandlePurchaseCompleted("magpie", req, rec.sink); err != nil {
		t.Fatalf("redelivery errored: %v", err)
	}

	acc, _ := account.LoadAccount("magpie")
	if acc.Wallet.Glimmer != 0 {
		t.Errorf("redelivery credited against claimed transaction: balance %d", acc.Wallet.Glimmer)
	}
	pr := rec.last["PurchaseResult"].(protocol.PurchaseResult)
	if pr.Outcome != types.PurchaseOutcomePending {
		t.Errorf("outcome: got %q, want pending", pr.Outcome)
	}
}

func TestRejectedPurchases(t *testing.T) {
	s := testService(t)

	cases := []struct {
		name string
		req  types.PurchaseCompletedReq
	}{
		{"unknown sku", types.PurchaseCompletedReq{SKU: "mystery_box", TransactionID: "t", Receipt: "r", Platform: "ios"}},
		{"missing receipt", types.PurchaseCompletedReq{SKU: types.SKUCreatorCoffee, TransactionID: "t", Platform: "ios"}},
		{"missing transaction", types.PurchaseCompletedReq{SKU: types.SKUCreatorCoffee, Receipt: "r", Platform: "ios"}},
		{"bad platform", types.PurchaseCompletedReq{SKU: types.SKUCreatorCoffee, TransactionID: "t", Receipt: "r", Platform: "web"}},
	}
	for _, c := range cases {
		rec := newRecorder()
		if err := s.HandlePurchaseCompleted("magpie", c.req, rec.sink); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
		if rec.events["Error"] != 1 {
			t.Errorf("%s: expected Error broadcast, got %v", c.name, rec.events)
		}
	}

	acc, _ := account.LoadAccount("magpie")
	if acc.Rewards.CreatorCoffee.ShinyGranted || acc.Wallet.Glimmer != 0 {
		t.Error("rejected purchase mutated the account")
	}
}
