package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_connections_active",
		Help: "Number of live websocket connections.",
	})

	roomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_rooms_active",
		Help: "Number of live rooms.",
	})

	framesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_frames_total",
		Help: "Inbound frames by routed kind.",
	}, []string{"kind"})

	heartbeatTerminations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_heartbeat_terminations_total",
		Help: "Connections dropped by the liveness sweep.",
	})
)
