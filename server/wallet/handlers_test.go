package wallet

import (
	"errors"
	"testing"

	"github.com/xeri0n/JalmarQuest-sub001/server/account"
	"github.com/xeri0n/JalmarQuest-sub001/shared/protocol"
)

type capture struct {
	events []string
}

func (c *capture) sink(eventType string, event interface{}) {
	c.events = append(c.events, eventType)
}

func TestGrantAndSpend(t *testing.T) {
	account.SetDataDir(t.TempDir())
	ctx := &SessionCtx{AccountID: "magpie"}
	var rec capture

	if err := HandleGrantGlimmer(ctx, protocol.GrantGlimmer{Amount: 500, Reason: "quest"}, rec.sink); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	if err := HandleSpendGlimmer(ctx, protocol.SpendGlimmer{Amount: 200, Reason: "nest", Nonce: "n1"}, rec.sink); err != nil {
		t.Fatalf("spend failed: %v", err)
	}

	acc, err := account.LoadAccount("magpie")
	if err != nil {
		t.Fatal(err)
	}
	if acc.Wallet.Glimmer != 300 {
		t.Errorf("balance: got %d, want 300", acc.Wallet.Glimmer)
	}
	if len(rec.events) != 2 {
		t.Errorf("expected 2 WalletSynced events, got %v", rec.events)
	}
}

func TestSpendNonceDeduplication(t *testing.T) {
	account.SetDataDir(t.TempDir())
	ctx := &SessionCtx{AccountID: "magpie"}

	if err := HandleGrantGlimmer(ctx, protocol.GrantGlimmer{Amount: 100, Reason: "seed"}, nil); err != nil {
		t.Fatal(err)
	}

	req := protocol.SpendGlimmer{Amount: 60, Reason: "snack", Nonce: "dup"}
	if err := HandleSpendGlimmer(ctx, req, nil); err != nil {
		t.Fatalf("first spend failed: %v", err)
	}
	// Replay with the same nonce is silently ignored.
	if err := HandleSpendGlimmer(ctx, req, nil); err != nil {
		t.Fatalf("replayed spend errored: %v", err)
	}

	acc, _ := account.LoadAccount("magpie")
	if acc.Wallet.Glimmer != 40 {
		t.Errorf("balance after replay: got %d, want 40", acc.Wallet.Glimmer)
	}
}

func TestSpendInsufficientFunds(t *testing.T) {
	account.SetDataDir(t.TempDir())
	ctx := &SessionCtx{AccountID: "broke_bird"}

	err := HandleSpendGlimmer(ctx, protocol.SpendGlimmer{Amount: 10, Reason: "x", Nonce: "n"}, nil)
	var werr *WalletError
	if !errors.As(err, &werr) || werr.Code != "INSUFFICIENT_FUNDS" {
		t.Errorf("expected INSUFFICIENT_FUNDS, got %v", err)
	}

	// Failed spend must not burn the nonce.
	if err := HandleGrantGlimmer(ctx, protocol.GrantGlimmer{Amount: 20, Reason: "seed"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := HandleSpendGlimmer(ctx, protocol.SpendGlimmer{Amount: 10, Reason: "x", Nonce: "n"}, nil); err != nil {
		t.Errorf("spend after refill failed: %v", err)
	}
}

func TestInvalidAmounts(t *testing.T) {
	account.SetDataDir(t.TempDir())
	ctx := &SessionCtx{AccountID: "magpie"}

	if err := HandleGrantGlimmer(ctx, protocol.GrantGlimmer{Amount: 0}, nil); err == nil {
		t.Error("zero grant should error")
	}
	if err := HandleSpendGlimmer(ctx, protocol.SpendGlimmer{Amount: -5, Nonce: "n"}, nil); err == nil {
		t.Error("negative spend should error")
	}
	if err := HandleGrantGlimmer(&SessionCtx{}, protocol.GrantGlimmer{Amount: 5}, nil); err == nil {
		t.Error("empty session should error")
	}
}
