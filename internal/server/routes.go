package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"videorelay/internal/app"
	"videorelay/internal/relay"
)

// Configure the websocket upgrader. The relay only carries small JSON
// control frames, so the buffers stay modest.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,

	// The hosting environment fronts TLS and clients connect from any
	// tour display or phone, so upgrades accept every origin.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWs returns an http.HandlerFunc that upgrades the request and
// hands the connection to the hub.
func ServeWs(hub *relay.Hub, cfg app.Config, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", "err", err)
			return
		}

		client := relay.NewClient(hub, conn, cfg.FramesPerSec, cfg.FrameBurst)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump(cfg.ReadLimitBytes)
	}
}

// NewHandler wires every route and wraps the mux in the CORS layer.
func NewHandler(hub *relay.Hub, cfg app.Config, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", indexHandler)
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/ws", ServeWs(hub, cfg, logger))

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllow,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(mux)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","message":"relay server is running"}`))
}

const indexPage = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Video Remote Control Relay</title></head>
<body>
<h1>Video Remote Control Relay</h1>
<p>Connect a websocket to <code>/ws</code>. Supported commands:</p>
<ul>
<li><code>{"type":"register","client":"screen"}</code> - register a screen, receive a room code</li>
<li><code>{"type":"joinRoom","roomCode":"1234"}</code> - join a room</li>
<li><code>{"action":"play"}</code> / <code>{"action":"pause"}</code></li>
<li><code>{"action":"seek","value":10}</code> - jump 10 seconds</li>
<li><code>{"action":"volume","value":0.1}</code> - volume delta in [-1, 1]</li>
</ul>
</body>
</html>
`

func indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexPage))
}
