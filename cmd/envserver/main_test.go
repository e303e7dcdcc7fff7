package main

import (
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"tanktrouble/internal/arena"
)

func dialTestServer(t *testing.T) *websocket.Conn {
	t.Helper()
	cfg := arena.DefaultConfig()
	cfg.BotSpawnX = 500
	cfg.BotSpawnY = 500
	srv := newServer(cfg, log.New(&strings.Builder{}, "", 0))

	ts := httptest.NewServer(http.HandlerFunc(srv.handleEnv))
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/env"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readReply(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	var reply map[string]any
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return reply
}

func TestEnvServer_ResetStepRoundTrip(t *testing.T) {
	conn := dialTestServer(t)

	seed := int64(7)
	if err := conn.WriteJSON(clientMessage{Op: "reset", Seed: &seed}); err != nil {
		t.Fatal(err)
	}
	reply := readReply(t, conn)
	if reply["type"] != "reset" {
		t.Fatalf("expected reset reply, got %v", reply["type"])
	}
	obs, ok := reply["obs"].([]any)
	if !ok || len(obs) != 30 {
		t.Fatalf("expected a 30-value observation, got %v", reply["obs"])
	}

	action := int(arena.ActionMoveForward)
	if err := conn.WriteJSON(clientMessage{Op: "step", Action: &action}); err != nil {
		t.Fatal(err)
	}
	reply = readReply(t, conn)
	if reply["type"] != "step" {
		t.Fatalf("expected step reply, got %v", reply["type"])
	}
	info, ok := reply["info"].(map[string]any)
	if !ok || info["tick"] != float64(1) {
		t.Fatalf("expected tick 1 in info, got %v", reply["info"])
	}
}

func TestEnvServer_StepBeforeResetIsError(t *testing.T) {
	conn := dialTestServer(t)

	action := int(arena.ActionNoOp)
	if err := conn.WriteJSON(clientMessage{Op: "step", Action: &action}); err != nil {
		t.Fatal(err)
	}
	reply := readReply(t, conn)
	if reply["type"] != "error" {
		t.Fatalf("stepping before reset should report an error, got %v", reply)
	}
}

func TestEnvServer_InvalidActionIsError(t *testing.T) {
	conn := dialTestServer(t)

	seed := int64(7)
	if err := conn.WriteJSON(clientMessage{Op: "reset", Seed: &seed}); err != nil {
		t.Fatal(err)
	}
	readReply(t, conn)

	bad := 99
	if err := conn.WriteJSON(clientMessage{Op: "step", Action: &bad}); err != nil {
		t.Fatal(err)
	}
	reply := readReply(t, conn)
	if reply["type"] != "error" {
		t.Fatalf("invalid action should report an error, got %v", reply)
	}

	// The episode survives the rejected action.
	good := int(arena.ActionNoOp)
	if err := conn.WriteJSON(clientMessage{Op: "step", Action: &good}); err != nil {
		t.Fatal(err)
	}
	if reply = readReply(t, conn); reply["type"] != "step" {
		t.Fatalf("expected a working step after the rejection, got %v", reply)
	}
}

func TestEnvServer_UnknownOpIsError(t *testing.T) {
	conn := dialTestServer(t)

	if err := conn.WriteJSON(clientMessage{Op: "teleport"}); err != nil {
		t.Fatal(err)
	}
	reply := readReply(t, conn)
	if reply["type"] != "error" {
		t.Fatalf("unknown op should report an error, got %v", reply)
	}
}
