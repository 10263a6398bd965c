package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"subspace_duel/internal/events"
	"subspace_duel/internal/service"
)

// ws_smoke drives one duel against a running server and prints the
// spectator feed it produces.
func main() {
	_ = godotenv.Load()

	if err := service.InitJWT(os.Getenv("JWT_SECRET")); err != nil {
		log.Fatalf("JWT_SECRET: %v", err)
	}
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := "127.0.0.1:" + port

	operator := mustToken(9000, service.RoleOperator)
	attacker := mustToken(3001, service.RolePlayer)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+base+"/ws", nil)
	if err != nil {
		log.Fatalf("dial ws: %v", err)
	}
	defer conn.Close()

	call := func(method, path, token string, body any) {
		var buf bytes.Buffer
		if body != nil {
			_ = json.NewEncoder(&buf).Encode(body)
		}
		req, _ := http.NewRequest(method, "http://"+base+path, &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			log.Fatalf("%s %s: %v", method, path, err)
		}
		defer res.Body.Close()
		var out map[string]any
		_ = json.NewDecoder(res.Body).Decode(&out)
		log.Printf("%s %s -> %d %v", method, path, res.StatusCode, out)
	}

	call(http.MethodPost, "/api/operator/session", operator, map[string]any{"player_ids": []int64{3001, 3002}})
	call(http.MethodPost, "/api/operator/players/3001/drift", operator, map[string]any{"amount": 1000})
	call(http.MethodPost, "/api/duel", attacker, map[string]any{
		"defender_id": 3002, "attacker_card": "rock", "defender_card": "scissors",
	})
	call(http.MethodDelete, "/api/operator/session", operator, nil)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			continue
		}
		var frame struct {
			Type  string       `json:"type"`
			Event events.Event `json:"event"`
		}
		if err := json.Unmarshal(msg, &frame); err != nil {
			log.Printf("bad frame: %s", msg)
			continue
		}
		fmt.Printf("%-8s %-24s player=%d target=%d %s\n",
			frame.Type, frame.Event.Kind, frame.Event.PlayerID, frame.Event.TargetID, frame.Event.Message)
		if frame.Event.Kind == events.KindSessionEnded {
			break
		}
	}

	log.Println("smoke test finished")
}

func mustToken(id int64, role string) string {
	tok, err := service.GenerateJWT(id, role, time.Hour)
	if err != nil {
		log.Fatalf("token %d: %v", id, err)
	}
	return tok
}
