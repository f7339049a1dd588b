package motion

import "fmt"

// Axes is a reading along X, Y and Z.
type Axes struct {
	X, Y, Z int16
}

func (a Axes) String() string { return fmt.Sprintf("%5d|%5d|%5d", a.X, a.Y, a.Z) }

// GyroScale is the divisor applied to raw gyroscope axes before encoding.
const GyroScale = 100

// ScaleGyro rescales a raw gyroscope reading from the driver's native units.
// Go integer division truncates toward zero, so -199 becomes -1.
func ScaleGyro(raw Axes) Axes {
	return Axes{
		X: raw.X / GyroScale,
		Y: raw.Y / GyroScale,
		Z: raw.Z / GyroScale,
	}
}

// A Channel selects one sensor of a motion driver.
type Channel int

const (
	Accelero Channel = iota
	Gyro
	Magneto
)

func (c Channel) String() string {
	str := []string{
		"Accelero",
		"Gyro",
		"Magneto",
	}
	if c < 0 || int(c) >= len(str) {
		return fmt.Sprintf("Channel(%d)", int(c))
	}
	return str[int(c)]
}

// Do not re-order the bit flags below;
// they match the BlueST feature mask carried in the characteristic UUID.

// Feature mask bits.
const (
	FeatureMagneto  uint32 = 1 << (iota + 21) // magnetometer
	FeatureGyro                               // gyroscope
	FeatureAccelero                           // accelerometer
)

// characteristicSuffix follows the feature mask in a BlueST feature UUID.
const characteristicSuffix = "-0001-11e1-ac36-0002a5d5c51b"

// ServiceUUID is the BlueST sensor service exposing the motion characteristic.
const ServiceUUID = "00000000-0001-11e1-9ab4-0002a5d5c51b"

// Capabilities reports which motion sensors are present.
type Capabilities struct {
	Accelerometer bool
	Gyroscope     bool
	Magnetometer  bool
}

// DefaultCapabilities is what the board reports: accelerometer and
// gyroscope, no magnetometer.
func DefaultCapabilities() Capabilities {
	return Capabilities{Accelerometer: true, Gyroscope: true}
}

// FeatureMask returns the BlueST feature bits of c.
func (c Capabilities) FeatureMask() uint32 {
	var m uint32
	if c.Accelerometer {
		m |= FeatureAccelero
	}
	if c.Gyroscope {
		m |= FeatureGyro
	}
	if c.Magnetometer {
		m |= FeatureMagneto
	}
	return m
}

// CharacteristicUUID returns the motion characteristic UUID advertised for c.
func (c Capabilities) CharacteristicUUID() string {
	return fmt.Sprintf("%08x%s", c.FeatureMask(), characteristicSuffix)
}

func (c Capabilities) String() string {
	return fmt.Sprintf("acc=%t gyro=%t mag=%t", c.Accelerometer, c.Gyroscope, c.Magnetometer)
}
