package motion

import (
	"bytes"
	"errors"
	"testing"
)

func TestTimestamp(t *testing.T) {
	cases := []struct {
		tick uint32
		want uint16
	}{
		{tick: 0, want: 0},
		{tick: 7, want: 0},
		{tick: 8, want: 1},
		{tick: 64, want: 8},
		{tick: 65535 << 3, want: 65535},
		{tick: 65536 << 3, want: 0},
		{tick: 65536<<3 + 9, want: 1},
		{tick: 0xFFFFFFFF, want: 0xFFFF},
	}

	for _, tt := range cases {
		if got := Timestamp(tt.tick); got != tt.want {
			t.Errorf("Timestamp(%d): got %d want %d", tt.tick, got, tt.want)
		}
	}
}

func TestTimestampWraparound(t *testing.T) {
	// The 32-bit tick wraps to zero; the field follows it.
	tick := uint32(0xFFFFFFF8)
	before := Timestamp(tick)
	tick += 8
	after := Timestamp(tick)
	if before != 0xFFFF || after != 0 {
		t.Errorf("Timestamp across wrap: got %d, %d want 65535, 0", before, after)
	}
}

func TestScaleGyro(t *testing.T) {
	cases := []struct {
		raw  Axes
		want Axes
	}{
		{raw: Axes{1000, -500, 250}, want: Axes{10, -5, 2}},
		{raw: Axes{99, -99, 0}, want: Axes{0, 0, 0}},
		{raw: Axes{199, -199, 100}, want: Axes{1, -1, 1}},
		{raw: Axes{-250, -101, -100}, want: Axes{-2, -1, -1}},
		{raw: Axes{32767, -32768, -32767}, want: Axes{327, -327, -327}},
	}

	for _, tt := range cases {
		if got := ScaleGyro(tt.raw); got != tt.want {
			t.Errorf("ScaleGyro(%v): got %v want %v", tt.raw, got, tt.want)
		}
	}
}

func TestEncodeExample(t *testing.T) {
	acc := Axes{100, -200, 300}
	gyro := ScaleGyro(Axes{1000, -500, 250})
	p := Encode(Payload{}, 64, Sample{Accel: &acc, Gyro: &gyro})

	want := []byte{
		0x08, 0x00,
		0x64, 0x00, 0x38, 0xff, 0x2c, 0x01,
		0x0a, 0x00, 0xfb, 0xff, 0x02, 0x00,
	}
	if !bytes.Equal(p[:], want) {
		t.Errorf("Encode: got %x want %x", p[:], want)
	}
	if got := p.Timestamp(); got != 8 {
		t.Errorf("Timestamp: got %d want 8", got)
	}
	if got := p.Accel(); got != acc {
		t.Errorf("Accel: got %v want %v", got, acc)
	}
	if got, want := p.Gyro(), (Axes{10, -5, 2}); got != want {
		t.Errorf("Gyro: got %v want %v", got, want)
	}
}

func TestEncodeAbsentSensorKeepsPrevious(t *testing.T) {
	acc := Axes{1, 2, 3}
	gyro := Axes{-4, -5, -6}
	prev := Encode(Payload{}, 80, Sample{Accel: &acc, Gyro: &gyro})

	newAcc := Axes{7, 8, 9}
	newGyro := Axes{10, 11, 12}
	mag := Axes{1, 1, 1}

	cases := []struct {
		name      string
		s         Sample
		wantAccel Axes
		wantGyro  Axes
	}{
		{name: "none", s: Sample{}, wantAccel: acc, wantGyro: gyro},
		{name: "accel", s: Sample{Accel: &newAcc}, wantAccel: newAcc, wantGyro: gyro},
		{name: "gyro", s: Sample{Gyro: &newGyro}, wantAccel: acc, wantGyro: newGyro},
		{name: "mag only", s: Sample{Mag: &mag}, wantAccel: acc, wantGyro: gyro},
		{name: "all", s: Sample{Accel: &newAcc, Gyro: &newGyro, Mag: &mag}, wantAccel: newAcc, wantGyro: newGyro},
	}

	for _, tt := range cases {
		p := Encode(prev, 160, tt.s)
		if len(p) != PayloadLen {
			t.Errorf("%s: length got %d want %d", tt.name, len(p), PayloadLen)
		}
		if got := p.Timestamp(); got != 20 {
			t.Errorf("%s: timestamp got %d want 20", tt.name, got)
		}
		if got := p.Accel(); got != tt.wantAccel {
			t.Errorf("%s: accel got %v want %v", tt.name, got, tt.wantAccel)
		}
		if got := p.Gyro(); got != tt.wantGyro {
			t.Errorf("%s: gyro got %v want %v", tt.name, got, tt.wantGyro)
		}
	}

	if got := prev.Timestamp(); got != 10 {
		t.Errorf("Encode modified prev: timestamp got %d want 10", got)
	}
}

func TestEncodeFirstBuildZero(t *testing.T) {
	p := Encode(Payload{}, 0xFFFF, Sample{})
	for i, b := range p[offAccel:] {
		if b != 0 {
			t.Errorf("byte %d: got %#x want 0", offAccel+i, b)
		}
	}
}

func TestDecodePayload(t *testing.T) {
	acc := Axes{-1, 0, 1}
	want := Encode(Payload{}, 1024, Sample{Accel: &acc})

	got, err := DecodePayload(want[:])
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if got != want {
		t.Errorf("DecodePayload: got %v want %v", got, want)
	}

	for _, n := range [...]int{0, 13, 15, 20} {
		if _, err := DecodePayload(make([]byte, n)); !errors.Is(err, ErrPayloadLength) {
			t.Errorf("DecodePayload(%d bytes): got %v want ErrPayloadLength", n, err)
		}
	}
}

func TestCapabilitiesFeatureMask(t *testing.T) {
	cases := []struct {
		caps Capabilities
		mask uint32
		uuid string
	}{
		{caps: Capabilities{}, mask: 0, uuid: "00000000-0001-11e1-ac36-0002a5d5c51b"},
		{caps: DefaultCapabilities(), mask: 0x00c00000, uuid: "00c00000-0001-11e1-ac36-0002a5d5c51b"},
		{caps: Capabilities{true, true, true}, mask: 0x00e00000, uuid: "00e00000-0001-11e1-ac36-0002a5d5c51b"},
		{caps: Capabilities{Magnetometer: true}, mask: 0x00200000, uuid: "00200000-0001-11e1-ac36-0002a5d5c51b"},
	}

	for _, tt := range cases {
		if got := tt.caps.FeatureMask(); got != tt.mask {
			t.Errorf("FeatureMask(%s): got %#08x want %#08x", tt.caps, got, tt.mask)
		}
		if got := tt.caps.CharacteristicUUID(); got != tt.uuid {
			t.Errorf("CharacteristicUUID(%s): got %s want %s", tt.caps, got, tt.uuid)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	acc := Axes{100, -200, 300}
	gyro := Axes{10, -5, 2}
	s := Sample{Accel: &acc, Gyro: &gyro}
	var p Payload
	for i := 0; i < b.N; i++ {
		p = Encode(p, uint32(i), s)
	}
}
