package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pacelab/roomtherm/cmd/app"
	httpctrl "github.com/pacelab/roomtherm/internal/controllers/http"
	modbusctrl "github.com/pacelab/roomtherm/internal/controllers/modbus"
	mqttctrl "github.com/pacelab/roomtherm/internal/controllers/mqtt"
	wsctrl "github.com/pacelab/roomtherm/internal/controllers/ws"
	"github.com/pacelab/roomtherm/internal/scenario"
	"github.com/pacelab/roomtherm/internal/thermal"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "path to config file (.yaml/.yml/.json)")
	flag.Parse()

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		logrus.Fatal(err)
	}
	log := cfg.NewLogger()

	sc, err := scenario.New(cfg.Thermal(), thermal.DefaultConstants())
	if err != nil {
		log.WithError(err).Fatal("invalid room configuration")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Controllers.HTTP.Enabled {
		srv := httpctrl.New(sc, cfg.Controllers.HTTP.Addr, cfg.RoomID)
		log.WithField("addr", cfg.Controllers.HTTP.Addr).Info("http controller enabled")
		g.Go(func() error { return srv.Run(ctx) })
	}

	if cfg.Controllers.MQTT.Enabled {
		ctrl, err := mqttctrl.New(sc, mqttctrl.Config{
			RoomID:          cfg.RoomID,
			BrokerURL:       cfg.Controllers.MQTT.BrokerURL,
			ClientID:        cfg.Controllers.MQTT.ClientID,
			BaseTopic:       cfg.Controllers.MQTT.BaseTopic,
			QoS:             cfg.Controllers.MQTT.QoS,
			RetainSnapshot:  cfg.Controllers.MQTT.RetainSnapshot,
			PublishInterval: cfg.Controllers.MQTT.PublishInterval,
			Username:        cfg.Controllers.MQTT.Username,
			Password:        cfg.Controllers.MQTT.Password,
		})
		if err != nil {
			log.WithError(err).Fatal("mqtt controller")
		}
		log.WithField("broker", cfg.Controllers.MQTT.BrokerURL).Info("mqtt controller enabled")
		g.Go(func() error { return ctrl.Run(ctx) })
	}

	if cfg.Controllers.MODBUS.Enabled {
		ctrl, err := modbusctrl.New(sc, modbusctrl.Config{
			RoomID: cfg.RoomID,
			Addr:   cfg.Controllers.MODBUS.Addr,
			UnitID: cfg.Controllers.MODBUS.UnitID,
		})
		if err != nil {
			log.WithError(err).Fatal("modbus controller")
		}
		log.WithField("addr", cfg.Controllers.MODBUS.Addr).Info("modbus controller enabled")
		g.Go(func() error { return ctrl.Run(ctx) })
	}

	if cfg.Controllers.WS.Enabled {
		ctrl := wsctrl.New(sc, wsctrl.Config{
			Addr:         cfg.Controllers.WS.Addr,
			PushInterval: cfg.Controllers.WS.PushInterval,
		}, log)
		log.WithField("addr", cfg.Controllers.WS.Addr).Info("ws controller enabled")
		g.Go(func() error { return ctrl.Run(ctx) })
	}

	log.WithField("room_id", cfg.RoomID).Info("roomtherm started")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("controller exited")
		os.Exit(1)
	}
}
