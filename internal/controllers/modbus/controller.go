package modbusctrl

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	mbserver "github.com/tbrandon/mbserver"

	"github.com/pacelab/roomtherm/internal/ports"
)

// Register map.
//
// Holding registers (read fn 3, write fn 6/16):
//
//	HR 0  room height          x100
//	HR 1  num rows
//	HR 2  racks per row
//	HR 3  rack power kW        x100
//	HR 4  DCLC effectiveness   x100
//	HR 5  RDHX effectiveness   x100
//	HR 6  num heat exchangers
//	HR 7  HX capacity kW       x100
//	HR 8  num air handlers
//	HR 9  CFM per handler      /10
//	HR 10 inlet temp C         x100
//	HR 11 alert threshold C    x100
//
// Input registers (read fn 4, derived metrics):
//
//	IR 0  room temp C          x100
//	IR 1  delta T C            x100
//	IR 2  rack exhaust C       x100
//	IR 3  PUE                  x100
//	IR 4  Q total kW
//	IR 5  Q remaining kW
//	IR 6  hot spot percent     x100
//	IR 7  ACH                  x100
//	IR 8  total CFM            /10
const (
	numHoldingRegs = 12
	numInputRegs   = 9
)

// Config for the Modbus controller.
type Config struct {
	RoomID string
	Addr   string
	UnitID byte // UnitID (Modbus slave/unit ID). Use an integer 1..247.
}

type Controller struct {
	svc ports.ScenarioService
	cfg Config

	serv *mbserver.Server
}

func New(svc ports.ScenarioService, cfg Config) (*Controller, error) {
	if cfg.UnitID == 0 {
		return nil, errors.New("modbus: UnitID is required (non-zero)")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:1502"
	}
	return &Controller{svc: svc, cfg: cfg}, nil
}

// Run starts the Modbus server and registers handlers that apply writes immediately and
// provide reads directly from the scenario service. It blocks until ctx is canceled.
func (c *Controller) Run(ctx context.Context) error {
	serv := mbserver.NewServer()
	c.serv = serv

	// Register handlers BEFORE starting the TCP listener to avoid races inside mbserver
	// between handler registration and the server's goroutines.
	// Read Holding Registers (function 3) - scenario parameters.
	serv.RegisterFunctionHandler(3, func(s *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
		data := frame.GetData()
		if len(data) < 4 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		start := int(binary.BigEndian.Uint16(data[0:2]))
		qty := int(binary.BigEndian.Uint16(data[2:4]))
		if qty == 0 || qty > 125 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		if start < 0 || start+qty > numHoldingRegs {
			return []byte{}, &mbserver.IllegalDataAddress
		}
		snap := c.svc.Get()
		regs := make([]uint16, 0, qty)
		for i := 0; i < qty; i++ {
			switch start + i {
			case 0:
				regs = append(regs, encodeScaled(snap.Config.RoomHeight))
			case 1:
				regs = append(regs, uint16(snap.Config.NumRows))
			case 2:
				regs = append(regs, uint16(snap.Config.RacksPerRow))
			case 3:
				regs = append(regs, encodeScaled(snap.Config.RackPowerKW))
			case 4:
				regs = append(regs, encodeScaled(snap.Config.DCLCEffectiveness))
			case 5:
				regs = append(regs, encodeScaled(snap.Config.RDHXEffectiveness))
			case 6:
				regs = append(regs, uint16(snap.Config.NumHeatExchangers))
			case 7:
				regs = append(regs, encodeScaled(snap.Config.HXCapacityKW))
			case 8:
				regs = append(regs, uint16(snap.Config.NumAirHandlers))
			case 9:
				regs = append(regs, encodeFlow(snap.Config.CFMPerHandler))
			case 10:
				regs = append(regs, encodeScaled(snap.Config.InletTempC))
			case 11:
				regs = append(regs, encodeScaled(snap.Config.AlertThresholdC))
			default:
				return []byte{}, &mbserver.IllegalDataAddress
			}
		}
		return packRegs(regs), &mbserver.Success
	})

	// Read Input Registers (function 4) - derived thermal metrics.
	serv.RegisterFunctionHandler(4, func(s *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
		data := frame.GetData()
		if len(data) < 4 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		start := int(binary.BigEndian.Uint16(data[0:2]))
		qty := int(binary.BigEndian.Uint16(data[2:4]))
		if qty == 0 || qty > 125 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		if start < 0 || start+qty > numInputRegs {
			return []byte{}, &mbserver.IllegalDataAddress
		}
		snap := c.svc.Get()
		regs := make([]uint16, 0, qty)
		for i := 0; i < qty; i++ {
			switch start + i {
			case 0:
				regs = append(regs, encodeScaled(snap.Temperatures.Room))
			case 1:
				regs = append(regs, encodeScaled(snap.Temperatures.DeltaT))
			case 2:
				regs = append(regs, encodeScaled(snap.Temperatures.RackExhaust))
			case 3:
				regs = append(regs, encodeScaled(snap.Efficiency.PUE))
			case 4:
				regs = append(regs, clampUint16(snap.Balance.QTotalKW))
			case 5:
				regs = append(regs, clampUint16(snap.Balance.QRemainingKW))
			case 6:
				regs = append(regs, encodeScaled(snap.Stats.HotSpotPercent))
			case 7:
				regs = append(regs, encodeScaled(snap.Airflow.ACH))
			case 8:
				regs = append(regs, encodeFlow(snap.Airflow.TotalCFM))
			default:
				return []byte{}, &mbserver.IllegalDataAddress
			}
		}
		return packRegs(regs), &mbserver.Success
	})

	// Write Single Register (function 6)
	serv.RegisterFunctionHandler(6, func(s *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
		data := frame.GetData()
		if len(data) < 4 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		addr := binary.BigEndian.Uint16(data[0:2])
		value := binary.BigEndian.Uint16(data[2:4])

		if ex := c.writeRegister(int(addr), value); ex != nil {
			return []byte{}, ex
		}

		// echo request (address + value)
		resp := make([]byte, 4)
		copy(resp, data[0:4])
		return resp, &mbserver.Success
	})

	// Write Multiple Registers (function 16)
	serv.RegisterFunctionHandler(16, func(s *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
		d := frame.GetData()
		if len(d) < 5 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		start := binary.BigEndian.Uint16(d[0:2])
		quantity := binary.BigEndian.Uint16(d[2:4])
		byteCount := int(d[4])
		if byteCount != int(quantity)*2 || len(d) < 5+byteCount {
			return []byte{}, &mbserver.IllegalDataValue
		}
		for i := 0; i < int(quantity); i++ {
			val := binary.BigEndian.Uint16(d[5+i*2 : 5+i*2+2])
			if ex := c.writeRegister(int(start)+i, val); ex != nil {
				return []byte{}, ex
			}
		}

		resp := make([]byte, 4)
		binary.BigEndian.PutUint16(resp[0:2], start)
		binary.BigEndian.PutUint16(resp[2:4], quantity)
		return resp, &mbserver.Success
	})

	// Now start listening after all handlers are registered.
	if err := serv.ListenTCP(c.cfg.Addr); err != nil {
		return fmt.Errorf("mbserver listen tcp %s: %w", c.cfg.Addr, err)
	}

	// Block until ctx.Done()
	<-ctx.Done()
	serv.Close()
	return ctx.Err()
}

func (c *Controller) writeRegister(addr int, value uint16) *mbserver.Exception {
	var err error
	switch addr {
	case 0:
		err = c.svc.SetRoomHeight(decodeScaled(value))
	case 1:
		cur := c.svc.Get()
		err = c.svc.SetRackLayout(int(value), cur.Config.RacksPerRow)
	case 2:
		cur := c.svc.Get()
		err = c.svc.SetRackLayout(cur.Config.NumRows, int(value))
	case 3:
		err = c.svc.SetRackPower(decodeScaled(value))
	case 4:
		err = c.svc.SetDCLCEffectiveness(decodeScaled(value))
	case 5:
		err = c.svc.SetRDHXEffectiveness(decodeScaled(value))
	case 6:
		cur := c.svc.Get()
		err = c.svc.SetHeatExchangers(int(value), cur.Config.HXCapacityKW)
	case 7:
		cur := c.svc.Get()
		err = c.svc.SetHeatExchangers(cur.Config.NumHeatExchangers, decodeScaled(value))
	case 8:
		cur := c.svc.Get()
		err = c.svc.SetAirHandlers(int(value), cur.Config.CFMPerHandler)
	case 9:
		cur := c.svc.Get()
		err = c.svc.SetAirHandlers(cur.Config.NumAirHandlers, decodeFlow(value))
	case 10:
		err = c.svc.SetInletTemp(decodeScaled(value))
	case 11:
		err = c.svc.SetAlertThreshold(decodeScaled(value))
	default:
		return &mbserver.IllegalDataAddress
	}
	if err != nil {
		return &mbserver.IllegalDataValue
	}
	return nil
}

func packRegs(regs []uint16) []byte {
	byteCount := len(regs) * 2
	resp := make([]byte, 1+byteCount)
	resp[0] = byte(byteCount)
	for i, r := range regs {
		binary.BigEndian.PutUint16(resp[1+i*2:1+i*2+2], r)
	}
	return resp
}

// ValueScale encodes fractional quantities (temperatures, effectiveness, PUE)
// as centi-units in a single register.
const ValueScale int = 100

// FlowScale encodes CFM values in tens so handler-class flows fit in 16 bits.
const FlowScale int = 10

func encodeScaled(v float64) uint16 {
	r := min(max(int(math.Round(v*float64(ValueScale))), math.MinInt16), math.MaxInt16)
	return uint16(int16(r))
}

func decodeScaled(u uint16) float64 {
	i := int16(u)
	return float64(i) / float64(ValueScale)
}

func encodeFlow(v float64) uint16 {
	r := min(max(int(math.Round(v/float64(FlowScale))), 0), math.MaxUint16)
	return uint16(r)
}

func decodeFlow(u uint16) float64 {
	return float64(u) * float64(FlowScale)
}

func clampUint16(v float64) uint16 {
	r := min(max(int(math.Round(v)), 0), math.MaxUint16)
	return uint16(r)
}
