// Package sensors provides motion.Driver implementations.
package sensors

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"

	"github.com/XC-/motion"
)

// MPU9250 reads accelerometer and gyroscope axes from an MPU9250 over SPI.
// The on-chip magnetometer is not supported; Magneto reads return zero.
type MPU9250 struct {
	dev *mpu9250.MPU9250
	log log.FieldLogger
}

// OpenMPU9250 initializes the periph host and the MPU9250 on spiDev with
// chip select csPin, then runs the driver calibration.
func OpenMPU9250(spiDev, csPin string) (*MPU9250, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("mpu9250: periph host init: %w", err)
	}

	cs := gpioreg.ByName(csPin)
	if cs == nil {
		return nil, fmt.Errorf("mpu9250: CS pin %q not found", csPin)
	}

	tr, err := mpu9250.NewSpiTransport(spiDev, cs)
	if err != nil {
		return nil, fmt.Errorf("mpu9250: SPI transport (%s): %w", spiDev, err)
	}

	dev, err := mpu9250.New(*tr)
	if err != nil {
		return nil, fmt.Errorf("mpu9250: device creation: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("mpu9250: initialization: %w", err)
	}

	l := log.WithFields(log.Fields{"component": "sensors", "device": spiDev})
	if err := dev.Calibrate(); err != nil {
		l.Warnf("mpu9250: calibration failed: %v", err)
	} else {
		l.Infoln("mpu9250: calibration complete")
	}

	return &MPU9250{dev: dev, log: l}, nil
}

// Capabilities reports accelerometer and gyroscope.
func (m *MPU9250) Capabilities() motion.Capabilities {
	return motion.Capabilities{Accelerometer: true, Gyroscope: true}
}

// Axes implements motion.Driver. A failed register read is logged and
// the channel reads as zero.
func (m *MPU9250) Axes(ch motion.Channel) motion.Axes {
	var x, y, z func() (int16, error)
	switch ch {
	case motion.Accelero:
		x, y, z = m.dev.GetAccelerationX, m.dev.GetAccelerationY, m.dev.GetAccelerationZ
	case motion.Gyro:
		x, y, z = m.dev.GetRotationX, m.dev.GetRotationY, m.dev.GetRotationZ
	default:
		return motion.Axes{}
	}

	var a motion.Axes
	var err error
	if a.X, err = x(); err != nil {
		return m.readFailed(ch, "X", err)
	}
	if a.Y, err = y(); err != nil {
		return m.readFailed(ch, "Y", err)
	}
	if a.Z, err = z(); err != nil {
		return m.readFailed(ch, "Z", err)
	}
	return a
}

func (m *MPU9250) readFailed(ch motion.Channel, axis string, err error) motion.Axes {
	m.log.Warnf("mpu9250: %s %s: %v", ch, axis, err)
	return motion.Axes{}
}
