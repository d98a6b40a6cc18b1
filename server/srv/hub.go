package srv

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xeri0n/JalmarQuest-sub001/server/account"
	"github.com/xeri0n/JalmarQuest-sub001/server/auth"
	"github.com/xeri0n/JalmarQuest-sub001/server/hoard"
	"github.com/xeri0n/JalmarQuest-sub001/server/shop"
	"github.com/xeri0n/JalmarQuest-sub001/server/wallet"
	"github.com/xeri0n/JalmarQuest-sub001/shared/game/types"
	"github.com/xeri0n/JalmarQuest-sub001/shared/protocol"
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	id   int64
	name string
}

type Session struct {
	PlayerID int64
	Name     string
	Authed   bool
}

func NewSession() *Session {
	return &Session{
		PlayerID: protocol.NewID(),
		Name:     "Guest",
	}
}

type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	sessions map[*client]*Session

	auth        *auth.Auth
	shopService *shop.Service
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[*client]struct{}),
		sessions: make(map[*client]*Session),
	}
}

func (h *Hub) SetAuth(a *auth.Auth)           { h.auth = a }
func (h *Hub) SetShopService(s *shop.Service) { h.shopService = s }

// accountToProfile converts an Account to Profile for network transmission
func accountToProfile(acc *account.Account, playerID int64) protocol.Profile {
	shinyCount := 0
	for _, stack := range acc.Shinies {
		if stack != nil {
			shinyCount += stack.Count
		}
	}
	return protocol.Profile{
		PlayerID:       playerID,
		Name:           acc.Name,
		Glimmer:        acc.Wallet.Glimmer,
		HoardScore:     acc.HoardScore,
		HoardRank:      acc.HoardRank,
		ShinyCount:     shinyCount,
		Cosmetics:      acc.OwnedCosmetics(),
		EquippedFrame:  acc.EquippedFrame,
		SupporterBadge: acc.SupporterBadge,
	}
}

func sendJSON(c *client, typ string, v interface{}) {
	b, _ := json.Marshal(v)
	env := protocol.MsgEnvelope{Type: typ, Data: b}
	out, _ := json.Marshal(env)
	select {
	case c.send <- out:
	default:
	}
}

func (c *client) writer() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// broadcaster returns the per-client event sink handed to service handlers.
func (h *Hub) broadcaster(c *client) func(eventType string, event interface{}) {
	return func(eventType string, event interface{}) {
		sendJSON(c, eventType, event)
	}
}

func (h *Hub) HandleWS(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, 64), name: "Guest"}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	s := NewSession()
	c.id = s.PlayerID
	h.sessions[c] = s
	h.mu.Unlock()

	go c.writer()
	c.reader(h)
}

// sendShinyCollection pushes the full hoard contents to the client.
func (h *Hub) sendShinyCollection(acc *account.Account, c *client) {
	views := make([]protocol.ShinyView, 0, len(acc.Shinies))
	for id, stack := range acc.Shinies {
		if stack == nil || stack.Count <= 0 {
			continue
		}
		meta := types.GetShinyMeta(id)
		if meta == nil {
			log.Printf("HUB: Account %s owns unknown shiny %s, skipping", acc.Name, id)
			continue
		}
		views = append(views, protocol.ShinyView{
			ShinyID:    id,
			Name:       meta.Name,
			Rarity:     meta.Rarity.String(),
			Count:      stack.Count,
			AcquiredAt: stack.AcquiredAt,
		})
	}
	sendJSON(c, "ShinyCollectionSynced", protocol.ShinyCollectionSynced{
		Shinies:    views,
		HoardScore: acc.HoardScore,
		HoardRank:  acc.HoardRank,
	})
}

func (c *client) reader(h *Hub) {
	defer func() {
		c.conn.Close()
		h.mu.Lock()
		delete(h.clients, c)
		delete(h.sessions, c)
		h.mu.Unlock()
	}()

	// Helper function for logging with account name and timestamp
	logWithAccount := func(accountName, message string) {
		timestamp := time.Now().Format("2006-01-02 15:04:05")
		log.Printf("[%s] %s: %s", timestamp, accountName, message)
	}

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			logWithAccount(c.name, "WebSocket read error: "+err.Error())
			return
		}

		var env protocol.MsgEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			logWithAccount(c.name, "Failed to unmarshal WebSocket message")
			continue
		}
		logWithAccount(c.name, "WS msg type="+env.Type)

		switch env.Type {

		// ---------- Identity / Profile ----------
		case "Hello":
			var msg protocol.Hello
			_ = json.Unmarshal(env.Data, &msg)

			name := msg.Name
			authed := false
			if msg.Token != "" && h.auth != nil {
				sub, err := h.auth.ParseToken(msg.Token)
				if err != nil {
					sendJSON(c, "Error", protocol.Error{Code: "INVALID_TOKEN"})
					continue
				}
				name = sub
				authed = true
			}
			if name == "" {
				sendJSON(c, "Error", protocol.Error{Code: "MISSING_NAME"})
				continue
			}

			h.mu.Lock()
			s := h.sessions[c]
			if s == nil {
				s = NewSession()
				h.sessions[c] = s
			}
			s.Name = name
			s.Authed = authed
			c.name = name
			h.mu.Unlock()

			acc, err := account.LoadAccount(name)
			if err != nil {
				log.Printf("HUB: LoadAccount error for '%s': %v", name, err)
				sendJSON(c, "Error", protocol.Error{Code: "ACCOUNT_LOAD_FAILED"})
				continue
			}
			// Rank may be stale if the catalog weights changed since last save.
			hoard.Recompute(acc)
			if err := account.SaveAccount(acc); err != nil {
				log.Printf("HUB: Initial save failed for '%s': %v", name, err)
			}

			sendJSON(c, "Profile", accountToProfile(acc, s.PlayerID))
			sendJSON(c, "WalletSynced", protocol.WalletSynced{Glimmer: acc.Wallet.Glimmer})
			h.sendShinyCollection(acc, c)

		case "GetProfile":
			s := h.session(c)
			acc, err := account.LoadAccount(s.Name)
			if err != nil {
				sendJSON(c, "Error", protocol.Error{Code: "ACCOUNT_LOAD_FAILED"})
				continue
			}
			sendJSON(c, "Profile", accountToProfile(acc, s.PlayerID))

		case "GetShinyCollection":
			s := h.session(c)
			acc, err := account.LoadAccount(s.Name)
			if err != nil {
				sendJSON(c, "Error", protocol.Error{Code: "ACCOUNT_LOAD_FAILED"})
				continue
			}
			h.sendShinyCollection(acc, c)

		// ---------- Wallet ----------
		case "GetWallet":
			s := h.session(c)
			ctx := &wallet.SessionCtx{AccountID: s.Name}
			if err := wallet.PushWalletSynced(ctx, h.broadcaster(c)); err != nil {
				logWithAccount(c.name, "GetWallet failed: "+err.Error())
			}

		case "GrantGlimmer":
			var msg protocol.GrantGlimmer
			_ = json.Unmarshal(env.Data, &msg)
			s := h.session(c)
			ctx := &wallet.SessionCtx{AccountID: s.Name}
			if err := wallet.HandleGrantGlimmer(ctx, msg, h.broadcaster(c)); err != nil {
				logWithAccount(c.name, "GrantGlimmer failed: "+err.Error())
				sendJSON(c, "Error", protocol.Error{Code: "GRANT_FAILED"})
			}

		case "SpendGlimmer":
			var msg protocol.SpendGlimmer
			_ = json.Unmarshal(env.Data, &msg)
			s := h.session(c)
			ctx := &wallet.SessionCtx{AccountID: s.Name}
			if err := wallet.HandleSpendGlimmer(ctx, msg, h.broadcaster(c)); err != nil {
				logWithAccount(c.name, "SpendGlimmer failed: "+err.Error())
				code := "SPEND_FAILED"
				if werr, ok := err.(*wallet.WalletError); ok {
					code = werr.Code
				}
				sendJSON(c, "Error", protocol.Error{Code: code})
			}

		// ---------- Shop / IAP ----------
		case "GetShopCatalog":
			if h.shopService == nil {
				sendJSON(c, "Error", protocol.Error{Code: "SHOP_UNAVAILABLE"})
				continue
			}
			_ = h.shopService.HandleGetCatalog(h.broadcaster(c))

		case "PurchaseCompleted":
			var msg types.PurchaseCompletedReq
			_ = json.Unmarshal(env.Data, &msg)
			if h.shopService == nil {
				sendJSON(c, "Error", protocol.Error{Code: "SHOP_UNAVAILABLE"})
				continue
			}
			s := h.session(c)
			if err := h.shopService.HandlePurchaseCompleted(s.Name, msg, h.broadcaster(c)); err != nil {
				logWithAccount(c.name, "PurchaseCompleted failed: "+err.Error())
			}

		// ---------- Cosmetics ----------
		case "EquipCosmetic":
			var msg types.EquipCosmeticReq
			_ = json.Unmarshal(env.Data, &msg)
			s := h.session(c)
			acc, err := account.LoadAccount(s.Name)
			if err != nil {
				sendJSON(c, "Error", protocol.Error{Code: "ACCOUNT_LOAD_FAILED"})
				continue
			}
			if err := acc.EquipCosmetic(msg.CosmeticID); err != nil {
				logWithAccount(c.name, "EquipCosmetic failed: "+err.Error())
				sendJSON(c, "Error", protocol.Error{Code: "EQUIP_FAILED"})
				continue
			}
			if err := account.SaveAccount(acc); err != nil {
				sendJSON(c, "Error", protocol.Error{Code: "ACCOUNT_SAVE_FAILED"})
				continue
			}
			meta := types.GetCosmeticMeta(msg.CosmeticID)
			sendJSON(c, "CosmeticEquipped", protocol.CosmeticEquipped{
				CosmeticID: msg.CosmeticID,
				Slot:       string(meta.Slot),
			})

		case "Logout":
			return

		default:
			logWithAccount(c.name, "Unknown message type: "+env.Type)
		}
	}
}

// session returns the client's session, creating one if the client spoke
// before Hello.
func (h *Hub) session(c *client) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.sessions[c]
	if s == nil {
		s = NewSession()
		h.sessions[c] = s
	}
	return s
}
