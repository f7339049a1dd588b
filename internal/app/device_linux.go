package app

import (
	"github.com/paypal/gatt"
	"github.com/paypal/gatt/linux/cmd"

	"github.com/XC-/motion/internal/config"
)

// advInterval is 0x00f4 * 0.625ms = 152.5ms.
const advInterval = 0x00f4

func deviceOptions(opt config.DeviceOpt) []gatt.Option {
	return []gatt.Option{
		gatt.LnxDeviceID(opt.HCIID, opt.CheckLE),
		gatt.LnxMaxConnections(opt.MaxConnections),
		gatt.LnxSetAdvertisingParameters(&cmd.LESetAdvertisingParameters{
			AdvertisingIntervalMin: advInterval,
			AdvertisingIntervalMax: advInterval,
			AdvertisingChannelMap:  0x7,
		}),
	}
}
