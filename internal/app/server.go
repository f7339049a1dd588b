package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/paypal/gatt"
	log "github.com/sirupsen/logrus"

	"github.com/XC-/motion"
	"github.com/XC-/motion/gattsvc"
	"github.com/XC-/motion/internal/config"
	"github.com/XC-/motion/mqttsink"
	"github.com/XC-/motion/sensors"
	"github.com/XC-/motion/wssink"
)

// Serve runs the motion server described by opt until ctx is done.
func Serve(ctx context.Context, opt *config.MotionSrvOpt) error {
	log.Infoln("device.name:", opt.Device.Name)
	log.Infoln("device.hci_id:", opt.Device.HCIID)
	log.Infoln("motion.period:", opt.Period())
	log.Infoln("motion.capabilities:", opt.Capabilities())
	log.Infoln("motion.characteristic:", opt.CharacteristicUUID())
	log.Infoln("sensor.driver:", opt.Sensor.Driver)

	drv, err := openDriver(opt.Sensor)
	if err != nil {
		return err
	}

	changes := make(chan gattsvc.StatusChange, 4)
	notify := gattsvc.NewNotifySink(motion.MotionChar, changes)
	defer notify.Close()
	sinks := []motion.Sink{notify}

	if opt.MQTT.Enabled {
		s, disconnect, err := mqttsink.Connect(opt.MQTT.Broker, opt.MQTT.ClientID, opt.MQTT.Topic)
		if err != nil {
			return err
		}
		defer disconnect()
		log.Infof("mirroring motion to mqtt %s topic %s", opt.MQTT.Broker, s.Topic(motion.MotionChar))
		sinks = append(sinks, s)
	}

	if opt.WS.Enabled {
		hub := wssink.NewHub(opt.WS.Origins...)
		srv := serveHub(hub, opt.WS)
		defer func() {
			_ = srv.Close()
			hub.Close()
		}()
		sinks = append(sinks, hub)
	}

	b := motion.NewBuilder(
		motion.UseDriver(drv),
		motion.UseSink(motion.MultiSink(sinks...)),
		motion.UseProbe(opt.Capabilities),
	)

	d, err := gatt.NewDevice(deviceOptions(opt.Device)...)
	if err != nil {
		return fmt.Errorf("open BLE device: %w", err)
	}

	d.Handle(
		gatt.CentralConnected(func(c gatt.Central) { log.Infoln("central connected:", c.ID()) }),
		gatt.CentralDisconnected(func(c gatt.Central) { log.Infoln("central disconnected:", c.ID()) }),
	)

	charUUID := gatt.MustParseUUID(opt.CharacteristicUUID())
	onStateChanged := func(d gatt.Device, s gatt.State) {
		log.Infoln("BLE state:", s)
		switch s {
		case gatt.StatePoweredOn:
			d.AddService(gattsvc.NewGapService(opt.Device.Name))
			d.AddService(gattsvc.NewGattService())

			svc := gattsvc.NewMotionServiceUUID(charUUID, notify)
			if err := d.AddService(svc); err != nil {
				log.Errorln("add motion service:", err)
				return
			}
			if err := d.AdvertiseNameAndServices(opt.Device.Name, []gatt.UUID{svc.UUID()}); err != nil {
				log.Errorln("advertise:", err)
			}
		default:
		}
	}
	if err := d.Init(onStateChanged); err != nil {
		return fmt.Errorf("init BLE device: %w", err)
	}
	defer func() {
		if err := d.StopAdvertising(); err != nil {
			log.Errorln("stop advertising:", err)
		}
		if err := d.RemoveAllServices(); err != nil {
			log.Errorln("remove services:", err)
		}
	}()

	err = NewLoop(b, opt.Period(), changes).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func openDriver(opt config.SensorOpt) (motion.Driver, error) {
	switch opt.Driver {
	case config.DriverMPU9250:
		return sensors.OpenMPU9250(opt.SPIDevice, opt.CSPin)
	case config.DriverSynthetic:
		return sensors.NewSynthetic(0.05), nil
	}
	return nil, fmt.Errorf("unknown sensor driver %q", opt.Driver)
}

func serveHub(hub *wssink.Hub, opt config.WSOpt) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(opt.Path, hub)
	srv := &http.Server{Addr: opt.Listen, Handler: mux}
	go func() {
		log.Infof("websocket mirror listening on %s%s", opt.Listen, opt.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorln("websocket mirror:", err)
		}
	}()
	return srv
}
