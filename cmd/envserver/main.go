// Command envserver exposes the battle environment over a websocket so
// training code in other processes can drive episodes. Each connection owns
// its own environment instance, so concurrent clients never share state.
//
// Protocol, one JSON message per frame:
//
//	client: {"op":"reset","seed":7}
//	server: {"type":"reset","obs":[...],"info":{...}}
//	client: {"op":"step","action":1}
//	server: {"type":"step","obs":[...],"reward":-0.004,"terminated":false,"truncated":false,"info":{...}}
//
// Errors come back as {"type":"error","error":"..."} and leave the episode
// untouched.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"tanktrouble/internal/arena"
)

type clientMessage struct {
	Op     string `json:"op"`
	Seed   *int64 `json:"seed,omitempty"`
	Action *int   `json:"action,omitempty"`
}

type resetReply struct {
	Type string     `json:"type"`
	Obs  []float64  `json:"obs"`
	Info arena.Info `json:"info"`
}

type stepReply struct {
	Type       string     `json:"type"`
	Obs        []float64  `json:"obs"`
	Reward     float64    `json:"reward"`
	Terminated bool       `json:"terminated"`
	Truncated  bool       `json:"truncated"`
	Info       arena.Info `json:"info"`
}

type errorReply struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type server struct {
	cfg      arena.Config
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func newServer(cfg arena.Config, logger *log.Logger) *server {
	return &server{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
	}
}

func (s *server) handleEnv(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()

	env, err := arena.NewEnv(s.cfg)
	if err != nil {
		s.logger.Printf("env init failed for %s: %v", r.RemoteAddr, err)
		return
	}
	defer env.Close()

	s.logger.Printf("client connected: %s", r.RemoteAddr)
	defer s.logger.Printf("client disconnected: %s", r.RemoteAddr)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logger.Printf("discarding malformed message from %s: %v", r.RemoteAddr, err)
			s.writeError(conn, "malformed message")
			continue
		}

		switch msg.Op {
		case "reset":
			seed := int64(-1)
			if msg.Seed != nil {
				seed = *msg.Seed
			}
			obs, info := env.Reset(seed)
			s.writeJSON(conn, resetReply{Type: "reset", Obs: obs, Info: info})

		case "step":
			if msg.Action == nil {
				s.writeError(conn, "step requires an action")
				continue
			}
			res, err := env.Step(arena.Action(*msg.Action))
			if err != nil {
				s.writeError(conn, err.Error())
				continue
			}
			s.writeJSON(conn, stepReply{
				Type:       "step",
				Obs:        res.Obs,
				Reward:     res.Reward,
				Terminated: res.Terminated,
				Truncated:  res.Truncated,
				Info:       res.Info,
			})

		case "close":
			return

		default:
			s.writeError(conn, "unknown op "+msg.Op)
		}
	}
}

func (s *server) writeJSON(conn *websocket.Conn, v any) {
	if err := conn.WriteJSON(v); err != nil {
		s.logger.Printf("write failed: %v", err)
	}
}

func (s *server) writeError(conn *websocket.Conn, text string) {
	s.writeJSON(conn, errorReply{Type: "error", Error: text})
}

func main() {
	var addr string
	var configPath string
	flag.StringVar(&addr, "addr", ":8420", "listen address")
	flag.StringVar(&configPath, "config", "", "optional YAML config file")
	flag.Parse()

	logger := log.Default()

	cfg := arena.DefaultConfig()
	if configPath != "" {
		loaded, err := arena.LoadConfig(configPath)
		if err != nil {
			logger.Fatal(err)
		}
		cfg = loaded
	}

	srv := newServer(cfg, logger)
	http.HandleFunc("/env", srv.handleEnv)

	logger.Printf("env server listening on %s (obs_size=%d actions=%d)",
		addr, cfg.ObservationSize(), arena.NumActions)
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal(err)
	}
}
