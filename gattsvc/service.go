// Package gattsvc exposes the motion record as a GATT notify characteristic.
package gattsvc

import (
	"github.com/paypal/gatt"
	log "github.com/sirupsen/logrus"

	"github.com/XC-/motion"
)

// NewMotionService returns the sensor service carrying the motion
// characteristic for caps. Notification requests are routed to sink.
func NewMotionService(caps motion.Capabilities, sink *NotifySink) *gatt.Service {
	return NewMotionServiceUUID(gatt.MustParseUUID(caps.CharacteristicUUID()), sink)
}

// NewMotionServiceUUID is like NewMotionService with an explicit
// characteristic UUID.
func NewMotionServiceUUID(char gatt.UUID, sink *NotifySink) *gatt.Service {
	s := gatt.NewService(gatt.MustParseUUID(motion.ServiceUUID))
	s.AddCharacteristic(char).HandleNotify(sink)
	return s
}

var (
	attrGAPUUID               = gatt.UUID16(0x1800)
	attrDeviceNameUUID        = gatt.UUID16(0x2A00)
	attrAppearanceUUID        = gatt.UUID16(0x2A01)
	attrPeripheralPrivacyUUID = gatt.UUID16(0x2A02)
	attrReconnectionAddrUUID  = gatt.UUID16(0x2A03)
	attrPreferredParamsUUID   = gatt.UUID16(0x2A04)
	attrGATTUUID              = gatt.UUID16(0x1801)
	attrServiceChangedUUID    = gatt.UUID16(0x2A05)
)

// appearanceGenericSensor is the GAP appearance value 0x0540.
var appearanceGenericSensor = []byte{0x40, 0x05}

// NewGapService returns the generic access service advertising name.
// OSX provides its own GAP service and ignores this one.
func NewGapService(name string) *gatt.Service {
	s := gatt.NewService(attrGAPUUID)
	s.AddCharacteristic(attrDeviceNameUUID).SetValue([]byte(name))
	s.AddCharacteristic(attrAppearanceUUID).SetValue(appearanceGenericSensor)
	s.AddCharacteristic(attrPeripheralPrivacyUUID).SetValue([]byte{0x00})
	s.AddCharacteristic(attrReconnectionAddrUUID).SetValue([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	s.AddCharacteristic(attrPreferredParamsUUID).SetValue([]byte{0x06, 0x00, 0x06, 0x00, 0x00, 0x00, 0xd0, 0x07})
	return s
}

// NewGattService returns the generic attribute service.
// The service set never changes while serving, so nothing is indicated
// on the service-changed characteristic.
func NewGattService() *gatt.Service {
	s := gatt.NewService(attrGATTUUID)
	s.AddCharacteristic(attrServiceChangedUUID).HandleNotifyFunc(
		func(r gatt.Request, n gatt.Notifier) {
			log.WithField("component", "gattsvc").Debugln("service changed subscription")
		})
	return s
}
