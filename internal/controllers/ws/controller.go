package wsctrl

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/pacelab/roomtherm/internal/ports"
	"github.com/pacelab/roomtherm/internal/scenario"
	"github.com/pacelab/roomtherm/internal/thermal"
)

type Config struct {
	Addr string

	// PushInterval bounds how often the field is re-checked for changes.
	PushInterval time.Duration
}

// Controller streams the temperature field to websocket clients. A client
// receives a full field message on connect, whenever the scenario changes,
// and on demand via {"type":"field"}.
type Controller struct {
	svc ports.ScenarioService
	cfg Config
	log *logrus.Logger

	upgrader websocket.Upgrader
	srv      *http.Server
}

func New(svc ports.ScenarioService, cfg Config, log *logrus.Logger) *Controller {
	if cfg.Addr == "" {
		cfg.Addr = ":8081"
	}
	if cfg.PushInterval <= 0 {
		cfg.PushInterval = 1 * time.Second
	}
	if log == nil {
		log = logrus.New()
	}

	c := &Controller{
		svc: svc,
		cfg: cfg,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", c.serveWs)
	c.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return c
}

func (c *Controller) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := c.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

type clientMsg struct {
	Type string `json:"type"`
}

type fieldMsg struct {
	Type            string             `json:"type"`
	X               []float64          `json:"x"`
	Y               []float64          `json:"y"`
	T               [][]float64        `json:"t"`
	Stats           thermal.FieldStats `json:"stats"`
	AlertThresholdC float64            `json:"alert_threshold_c"`
}

func (c *Controller) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.log.WithError(err).Warn("ws: upgrade failed")
		return
	}
	defer conn.Close()

	// Reader goroutine: on-demand field requests and close detection.
	requests := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg clientMsg
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type == "field" {
				select {
				case requests <- struct{}{}:
				default:
				}
			}
		}
	}()

	ticker := time.NewTicker(c.cfg.PushInterval)
	defer ticker.Stop()

	var last scenario.Snapshot
	first := true

	push := func() bool {
		cur := c.svc.Get()
		if !first && cur == last {
			return true
		}
		res := c.svc.Result()
		msg := fieldMsg{
			Type:            "field",
			X:               res.Field.X,
			Y:               res.Field.Y,
			T:               res.Field.T,
			Stats:           res.Stats,
			AlertThresholdC: res.AlertThresholdC,
		}
		if err := conn.WriteJSON(&msg); err != nil {
			c.log.WithError(err).Debug("ws: write failed")
			return false
		}
		last = cur
		first = false
		return true
	}

	if !push() {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-requests:
			// Forced push regardless of change detection.
			first = true
			if !push() {
				return
			}
		case <-ticker.C:
			if !push() {
				return
			}
		}
	}
}
