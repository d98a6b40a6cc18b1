package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xeri0n/JalmarQuest-sub001/server/account"
	"github.com/xeri0n/JalmarQuest-sub001/server/auth"
	"github.com/xeri0n/JalmarQuest-sub001/server/config"
	"github.com/xeri0n/JalmarQuest-sub001/server/shop"
	"github.com/xeri0n/JalmarQuest-sub001/server/srv"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func wsHandler(h *srv.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		h.HandleWS(conn)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}

	account.SetDataDir(cfg.DataDir)

	a, err := auth.NewAuth(cfg.DataDir)
	if err != nil {
		log.Fatal("auth: ", err)
	}

	ledger, err := shop.OpenLedger(cfg.LedgerPath)
	if err != nil {
		log.Fatal("ledger: ", err)
	}
	defer ledger.Close()

	hub := srv.NewHub()
	hub.SetAuth(a)
	hub.SetShopService(shop.NewService(ledger))

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler(hub))
	mux.HandleFunc("/auth/register", a.HandleRegister)
	mux.HandleFunc("/auth/login", a.HandleLogin)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })

	s := &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Println("server listening on", cfg.Addr)
	log.Fatal(s.ListenAndServe())
}
