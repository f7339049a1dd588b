package motion

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Field sizes of the motion record.
const (
	timestampBytes = 2
	accBytes       = 2
	gyroBytes      = 2
)

// PayloadLen is the length of every motion record.
const PayloadLen = timestampBytes + 3*accBytes + 3*gyroBytes

// Field offsets of the motion record.
const (
	offTimestamp = 0
	offAccel     = offTimestamp + timestampBytes
	offGyro      = offAccel + 3*accBytes
)

// ErrPayloadLength is the error returned when decoding a record that is
// not PayloadLen bytes long.
var ErrPayloadLength = errors.New("motion payload must be 14 bytes")

// A Payload is one encoded motion record.
type Payload [PayloadLen]byte

// A Sample holds the axes read during one build. A nil field means the
// sensor is absent and its payload slot is left untouched.
// Gyro is already scaled.
type Sample struct {
	Accel *Axes
	Gyro  *Axes
	Mag   *Axes
}

// Timestamp converts a millisecond tick to the record's timestamp,
// about 8ms per unit, wrapping at 16 bits.
func Timestamp(tick uint32) uint16 {
	return uint16(tick >> 3)
}

// Encode returns prev with the timestamp and every present sensor of s
// overwritten. s.Mag is not part of the record.
func Encode(prev Payload, tick uint32, s Sample) Payload {
	p := prev
	binary.LittleEndian.PutUint16(p[offTimestamp:], Timestamp(tick))
	if s.Accel != nil {
		putAxes(p[offAccel:], *s.Accel)
	}
	if s.Gyro != nil {
		putAxes(p[offGyro:], *s.Gyro)
	}
	return p
}

// DecodePayload parses a record received from a peripheral.
func DecodePayload(b []byte) (Payload, error) {
	var p Payload
	if len(b) != PayloadLen {
		return p, fmt.Errorf("%w, got %d", ErrPayloadLength, len(b))
	}
	copy(p[:], b)
	return p, nil
}

// Timestamp returns the encoded timestamp.
func (p Payload) Timestamp() uint16 { return binary.LittleEndian.Uint16(p[offTimestamp:]) }

// Accel returns the encoded accelerometer axes.
func (p Payload) Accel() Axes { return getAxes(p[offAccel:]) }

// Gyro returns the encoded, scaled gyroscope axes.
func (p Payload) Gyro() Axes { return getAxes(p[offGyro:]) }

func (p Payload) String() string {
	return fmt.Sprintf("ts=%d acc=%s gyro=%s", p.Timestamp(), p.Accel(), p.Gyro())
}

func putAxes(b []byte, a Axes) {
	binary.LittleEndian.PutUint16(b[0:], uint16(a.X))
	binary.LittleEndian.PutUint16(b[2:], uint16(a.Y))
	binary.LittleEndian.PutUint16(b[4:], uint16(a.Z))
}

func getAxes(b []byte) Axes {
	return Axes{
		X: int16(binary.LittleEndian.Uint16(b[0:])),
		Y: int16(binary.LittleEndian.Uint16(b[2:])),
		Z: int16(binary.LittleEndian.Uint16(b[4:])),
	}
}
