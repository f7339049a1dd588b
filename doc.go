// Package motion builds and forwards BLE motion notifications.
//
// A Builder reads accelerometer, gyroscope and magnetometer axes from a
// Driver, packs them into a fixed 14-byte little-endian Payload and hands
// the payload to a Sink while the connected central has notifications
// enabled.
//
//
// WIRE FORMAT
//
//     offset  size  field
//     0       2     timestamp (tick >> 3), unsigned
//     2       2     accel.x, signed
//     4       2     accel.y, signed
//     6       2     accel.z, signed
//     8       2     gyro.x / 100, signed
//     10      2     gyro.y / 100, signed
//     12      2     gyro.z / 100, signed
//
// The payload length never depends on which sensors are present. Slots
// of an absent sensor keep whatever the previous build wrote there, zero
// before the first build. The magnetometer is sampled into the builder
// state when present but is not part of the record.
//
//
// USAGE
//
// A Builder is owned by a single task loop. Nothing in this package locks;
// the loop that calls BuildAndSend must also be the one calling
// SetNotificationEnabled.
//
//     b := motion.NewBuilder(
//     	motion.UseDriver(drv),
//     	motion.UseSink(sink),
//     )
//     b.Init()
//
//     for range time.Tick(100 * time.Millisecond) {
//     	b.BuildAndSend()
//     }
//
// See package gattsvc for a Sink backed by a GATT notify characteristic.
//
package motion
