package httpctrl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/pacelab/roomtherm/internal/ports"
	"github.com/pacelab/roomtherm/internal/scenario"
)

type Server struct {
	svc    ports.ScenarioService
	srv    *http.Server
	roomID string
}

// New returns a runnable server.
func New(svc ports.ScenarioService, addr string, roomID string) *Server {
	mux := http.NewServeMux()
	s := &Server{svc: svc, roomID: roomID}

	// Read
	mux.HandleFunc("GET /v1", s.handleGet)
	mux.HandleFunc("GET /v1/result", s.handleGetResult)
	mux.HandleFunc("GET /v1/field", s.handleGetField)

	// Write: one endpoint per parameter
	mux.HandleFunc("POST /v1/room_height", s.handlePostRoomHeight)
	mux.HandleFunc("POST /v1/rack_layout", s.handlePostRackLayout)
	mux.HandleFunc("POST /v1/rack_power", s.handlePostRackPower)
	mux.HandleFunc("POST /v1/dclc_effectiveness", s.handlePostDCLC)
	mux.HandleFunc("POST /v1/rdhx_effectiveness", s.handlePostRDHX)
	mux.HandleFunc("POST /v1/heat_exchangers", s.handlePostHeatExchangers)
	mux.HandleFunc("POST /v1/air_handlers", s.handlePostAirHandlers)
	mux.HandleFunc("POST /v1/inlet_temp", s.handlePostInletTemp)
	mux.HandleFunc("POST /v1/alert_threshold", s.handlePostAlertThreshold)

	// Job schedule
	mux.HandleFunc("GET /v1/jobs", s.handleGetJobs)
	mux.HandleFunc("POST /v1/jobs", s.handlePostJob)
	mux.HandleFunc("DELETE /v1/jobs/{id}", s.handleDeleteJob)
	mux.HandleFunc("DELETE /v1/jobs", s.handleClearJobs)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// ---- DTOs ----

type snapshotDTO struct {
	RoomID string `json:"room_id"`

	RoomLengthM float64 `json:"room_length_m"`
	RoomWidthM  float64 `json:"room_width_m"`
	RoomHeightM float64 `json:"room_height_m"`

	NumRows     int     `json:"num_rows"`
	RacksPerRow int     `json:"racks_per_row"`
	RackPowerKW float64 `json:"rack_power_kw"`

	DCLCEffectiveness float64 `json:"dclc_effectiveness"`
	RDHXEffectiveness float64 `json:"rdhx_effectiveness"`
	NumHeatExchangers int     `json:"num_heat_exchangers"`
	HXCapacityKW      float64 `json:"hx_capacity_kw"`
	NumAirHandlers    int     `json:"num_air_handlers"`
	CFMPerHandler     float64 `json:"cfm_per_handler"`
	InletTempC        float64 `json:"inlet_temp_c"`
	AlertThresholdC   float64 `json:"alert_threshold_c"`

	QTotalKW       float64 `json:"q_total_kw"`
	QRemainingKW   float64 `json:"q_remaining_kw"`
	RoomTempC      float64 `json:"room_temp_c"`
	PUE            float64 `json:"pue"`
	HotSpotPercent float64 `json:"hot_spot_percent"`
	TotalCFM       float64 `json:"total_cfm"`
	ACH            float64 `json:"ach"`
}

func toDTO(snap scenario.Snapshot) snapshotDTO {
	return snapshotDTO{
		RoomLengthM:       snap.Config.RoomLength,
		RoomWidthM:        snap.Config.RoomWidth,
		RoomHeightM:       snap.Config.RoomHeight,
		NumRows:           snap.Config.NumRows,
		RacksPerRow:       snap.Config.RacksPerRow,
		RackPowerKW:       snap.Config.RackPowerKW,
		DCLCEffectiveness: snap.Config.DCLCEffectiveness,
		RDHXEffectiveness: snap.Config.RDHXEffectiveness,
		NumHeatExchangers: snap.Config.NumHeatExchangers,
		HXCapacityKW:      snap.Config.HXCapacityKW,
		NumAirHandlers:    snap.Config.NumAirHandlers,
		CFMPerHandler:     snap.Config.CFMPerHandler,
		InletTempC:        snap.Config.InletTempC,
		AlertThresholdC:   snap.Config.AlertThresholdC,
		QTotalKW:          snap.Balance.QTotalKW,
		QRemainingKW:      snap.Balance.QRemainingKW,
		RoomTempC:         snap.Temperatures.Room,
		PUE:               snap.Efficiency.PUE,
		HotSpotPercent:    snap.Stats.HotSpotPercent,
		TotalCFM:          snap.Airflow.TotalCFM,
		ACH:               snap.Airflow.ACH,
	}
}

type jobDTO struct {
	ID            int     `json:"id"`
	StartHour     int     `json:"start_hour"`
	StartMin      int     `json:"start_min"`
	DurationHours float64 `json:"duration_hours"`
	Tier          string  `json:"tier"`
	NumRacks      int     `json:"num_racks"`
	TotalPowerKW  float64 `json:"total_power_kw"`
}

func toJobDTO(j scenario.Job) jobDTO {
	return jobDTO{
		ID:            j.ID,
		StartHour:     j.StartHour,
		StartMin:      j.StartMin,
		DurationHours: j.DurationHours,
		Tier:          j.Tier.String(),
		NumRacks:      j.NumRacks,
		TotalPowerKW:  j.TotalPowerKW(),
	}
}

// ---- Handlers ----

func (s *Server) handleGet(w http.ResponseWriter, _ *http.Request) {
	s.respondSnapshot(w)
}

// handleGetResult returns the scalar result groups and equipment layout.
// The grid is large and has its own endpoint, so it is stripped here.
func (s *Server) handleGetResult(w http.ResponseWriter, _ *http.Request) {
	res := s.svc.Result()
	res.Field.X = nil
	res.Field.Y = nil
	res.Field.T = nil
	writeJSON(w, http.StatusOK, struct {
		RoomID string `json:"room_id"`
		Result any    `json:"result"`
	}{RoomID: s.roomID, Result: res})
}

func (s *Server) handleGetField(w http.ResponseWriter, _ *http.Request) {
	res := s.svc.Result()
	writeJSON(w, http.StatusOK, struct {
		RoomID          string      `json:"room_id"`
		X               []float64   `json:"x"`
		Y               []float64   `json:"y"`
		T               [][]float64 `json:"t"`
		AlertThresholdC float64     `json:"alert_threshold_c"`
	}{
		RoomID:          s.roomID,
		X:               res.Field.X,
		Y:               res.Field.Y,
		T:               res.Field.T,
		AlertThresholdC: res.AlertThresholdC,
	})
}

func (s *Server) handlePostRoomHeight(w http.ResponseWriter, r *http.Request) {
	postValue(s, w, r, func(v float64) error {
		return s.svc.SetRoomHeight(v)
	})
}

type rackLayoutReq struct {
	Rows        int `json:"rows"`
	RacksPerRow int `json:"racks_per_row"`
}

func (s *Server) handlePostRackLayout(w http.ResponseWriter, r *http.Request) {
	postValue(s, w, r, func(v rackLayoutReq) error {
		return s.svc.SetRackLayout(v.Rows, v.RacksPerRow)
	})
}

func (s *Server) handlePostRackPower(w http.ResponseWriter, r *http.Request) {
	postValue(s, w, r, func(v float64) error {
		return s.svc.SetRackPower(v)
	})
}

func (s *Server) handlePostDCLC(w http.ResponseWriter, r *http.Request) {
	postValue(s, w, r, func(v float64) error {
		return s.svc.SetDCLCEffectiveness(v)
	})
}

func (s *Server) handlePostRDHX(w http.ResponseWriter, r *http.Request) {
	postValue(s, w, r, func(v float64) error {
		return s.svc.SetRDHXEffectiveness(v)
	})
}

type heatExchangersReq struct {
	Count      int     `json:"count"`
	CapacityKW float64 `json:"capacity_kw"`
}

func (s *Server) handlePostHeatExchangers(w http.ResponseWriter, r *http.Request) {
	postValue(s, w, r, func(v heatExchangersReq) error {
		return s.svc.SetHeatExchangers(v.Count, v.CapacityKW)
	})
}

type airHandlersReq struct {
	Count         int     `json:"count"`
	CFMPerHandler float64 `json:"cfm_per_handler"`
}

func (s *Server) handlePostAirHandlers(w http.ResponseWriter, r *http.Request) {
	postValue(s, w, r, func(v airHandlersReq) error {
		return s.svc.SetAirHandlers(v.Count, v.CFMPerHandler)
	})
}

func (s *Server) handlePostInletTemp(w http.ResponseWriter, r *http.Request) {
	postValue(s, w, r, func(v float64) error {
		return s.svc.SetInletTemp(v)
	})
}

func (s *Server) handlePostAlertThreshold(w http.ResponseWriter, r *http.Request) {
	postValue(s, w, r, func(v float64) error {
		return s.svc.SetAlertThreshold(v)
	})
}

// ---- job handlers ----

func (s *Server) handleGetJobs(w http.ResponseWriter, _ *http.Request) {
	jobs := s.svc.Jobs()
	out := make([]jobDTO, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobDTO(j))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePostJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartHour     int     `json:"start_hour"`
		StartMin      int     `json:"start_min"`
		DurationHours float64 `json:"duration_hours"`
		Tier          string  `json:"tier"`
		NumRacks      int     `json:"num_racks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	tier, err := scenario.ParsePowerTier(req.Tier)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	job, err := s.svc.AddJob(scenario.Job{
		StartHour:     req.StartHour,
		StartMin:      req.StartMin,
		DurationHours: req.DurationHours,
		Tier:          tier,
		NumRacks:      req.NumRacks,
	})
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toJobDTO(job))
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid job id")
		return
	}
	if err := s.svc.RemoveJob(id); err != nil {
		writeErr(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearJobs(w http.ResponseWriter, _ *http.Request) {
	s.svc.ClearJobs()
	w.WriteHeader(http.StatusNoContent)
}

// ---- generic helpers ----

func (s *Server) respondSnapshot(w http.ResponseWriter) {
	dto := toDTO(s.svc.Get())
	dto.RoomID = s.roomID
	writeJSON(w, http.StatusOK, dto)
}

func postValue[T any](s *Server, w http.ResponseWriter, r *http.Request, apply func(T) error) {
	dec := json.NewDecoder(r.Body)
	var req struct {
		Value *T `json:"value"`
	}
	if err := dec.Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Value == nil {
		writeErr(w, http.StatusBadRequest, "missing field 'value'")
		return
	}

	if err := apply(*req.Value); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondSnapshot(w)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
