package app

import (
	"testing"

	"github.com/XC-/motion/internal/config"
)

func TestDeviceOptions(t *testing.T) {
	opts := deviceOptions(config.DeviceOpt{HCIID: -1, CheckLE: true, MaxConnections: 1})
	if len(opts) != 3 {
		t.Fatalf("deviceOptions: got %d options want 3", len(opts))
	}
	for i, o := range opts {
		if o == nil {
			t.Errorf("option %d: got nil", i)
		}
	}
}
