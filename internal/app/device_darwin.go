package app

import (
	"github.com/paypal/gatt"

	"github.com/XC-/motion/internal/config"
)

// OSX picks the controller itself; only the role can be chosen.
func deviceOptions(config.DeviceOpt) []gatt.Option {
	return []gatt.Option{
		gatt.MacDeviceRole(gatt.PeripheralManager),
	}
}
