package wallet

import (
	"fmt"
	"log"

	"github.com/xeri0n/JalmarQuest-sub001/server/account"
	"github.com/xeri0n/JalmarQuest-sub001/shared/protocol"
)

type SessionCtx struct {
	AccountID string
}

// HandleGrantGlimmer handles granting glimmer to a player's account
func HandleGrantGlimmer(ctx *SessionCtx, req protocol.GrantGlimmer, broadcaster func(eventType string, event interface{})) error {
	if ctx.AccountID == "" {
		return fmt.Errorf("invalid session: no account ID")
	}

	if req.Amount <= 0 {
		return &WalletError{Code: "INVALID_AMOUNT", Message: "Amount must be > 0"}
	}

	acct, err := account.LoadAccount(ctx.AccountID)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}

	Credit(acct, req.Amount)

	if err := account.SaveAccount(acct); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}

	log.Printf("WALLET: Granted %d glimmer to account %s (%s), new balance: %d",
		req.Amount, ctx.AccountID, req.Reason, acct.Wallet.Glimmer)

	if broadcaster != nil {
		broadcaster("WalletSynced", protocol.WalletSynced{Glimmer: acct.Wallet.Glimmer})
	}

	return nil
}

// HandleSpendGlimmer handles spending glimmer from a player's account
func HandleSpendGlimmer(ctx *SessionCtx, req protocol.SpendGlimmer, broadcaster func(eventType string, event interface{})) error {
	if ctx.AccountID == "" {
		return fmt.Errorf("invalid session: no account ID")
	}

	if req.Amount <= 0 {
		return &WalletError{Code: "INVALID_AMOUNT", Message: "Amount must be > 0"}
	}

	acct, err := account.LoadAccount(ctx.AccountID)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}

	// Check nonce to prevent duplicate spends
	if acct.Wallet.NonceSeen == nil {
		acct.Wallet.NonceSeen = make(map[string]bool)
	}
	if acct.Wallet.NonceSeen[req.Nonce] {
		log.Printf("WALLET: Duplicate spend attempt with nonce %s", req.Nonce)
		return nil // Silently ignore duplicate
	}

	if acct.Wallet.Glimmer < req.Amount {
		return &WalletError{Code: "INSUFFICIENT_FUNDS", Message: "Not enough glimmer"}
	}

	acct.Wallet.Glimmer -= req.Amount
	acct.Wallet.NonceSeen[req.Nonce] = true
	acct.UpdateTimestamps("wallet")

	if err := account.SaveAccount(acct); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}

	log.Printf("WALLET: Spent %d glimmer from account %s (%s), new balance: %d",
		req.Amount, ctx.AccountID, req.Reason, acct.Wallet.Glimmer)

	if broadcaster != nil {
		broadcaster("WalletSynced", protocol.WalletSynced{Glimmer: acct.Wallet.Glimmer})
	}

	return nil
}

// Credit adds glimmer to an already-loaded account without saving it.
// Callers that batch several mutations save once at the end.
func Credit(acc *account.Account, amount int64) {
	if amount <= 0 {
		return
	}
	acc.Wallet.Glimmer += amount
	acc.UpdateTimestamps("wallet")
}

// PushWalletSynced sends the authoritative balance to the client.
func PushWalletSynced(ctx *SessionCtx, broadcaster func(eventType string, event interface{})) error {
	if ctx.AccountID == "" {
		return fmt.Errorf("invalid session: no account ID")
	}
	acct, err := account.LoadAccount(ctx.AccountID)
	if err != nil {
		return fmt.Errorf("failed to load account for sync: %w", err)
	}
	if broadcaster != nil {
		broadcaster("WalletSynced", protocol.WalletSynced{Glimmer: acct.Wallet.Glimmer})
	}
	return nil
}

// WalletError represents a wallet-related error
type WalletError struct {
	Code    string
	Message string
}

func (e *WalletError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
