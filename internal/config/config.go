package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/XC-/motion"
)

const DefaultAppName = "motionsrv"
const DefaultConfigName = "config"
const DefaultEnvConfig = "MOTIONSRV_CONFIG"

const DefaultDeviceName = "MOTENV"
const DefaultPeriodMS = 100
const DefaultDriver = DriverSynthetic
const DefaultSPIDevice = "/dev/spidev0.0"
const DefaultCSPin = "GPIO8"
const DefaultMQTTBroker = "tcp://localhost:1883"
const DefaultMQTTTopic = "motion"
const DefaultWSListen = ":8080"
const DefaultWSPath = "/ws"

// Sensor drivers.
const (
	DriverSynthetic = "synthetic"
	DriverMPU9250   = "mpu9250"
)

var userHomeDir, _ = os.UserHomeDir()
var DefaultConfig = path.Join(userHomeDir, ".config", DefaultAppName, DefaultConfigName+".yaml")
var DefaultConfigSearchPath0 = path.Join(userHomeDir, ".config", DefaultAppName)

const DefaultConfigSearchPath1 = "/etc/" + DefaultAppName
const DefaultConfigSearchPath2 = "./"

type DeviceOpt struct {
	Name           string `mapstructure:"name" yaml:"name"`
	HCIID          int    `mapstructure:"hci_id" yaml:"hci_id"`
	CheckLE        bool   `mapstructure:"check_le" yaml:"check_le"`
	MaxConnections int    `mapstructure:"max_connections" yaml:"max_connections"`
}

type MotionOpt struct {
	PeriodMS           int    `mapstructure:"period_ms" yaml:"period_ms"`
	Accelerometer      bool   `mapstructure:"accelerometer" yaml:"accelerometer"`
	Gyroscope          bool   `mapstructure:"gyroscope" yaml:"gyroscope"`
	Magnetometer       bool   `mapstructure:"magnetometer" yaml:"magnetometer"`
	CharacteristicUUID string `mapstructure:"characteristic_uuid" yaml:"characteristic_uuid"`
}

type SensorOpt struct {
	Driver    string `mapstructure:"driver" yaml:"driver"`
	SPIDevice string `mapstructure:"spi_device" yaml:"spi_device"`
	CSPin     string `mapstructure:"cs_pin" yaml:"cs_pin"`
}

type MQTTOpt struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Broker   string `mapstructure:"broker" yaml:"broker"`
	ClientID string `mapstructure:"client_id" yaml:"client_id"`
	Topic    string `mapstructure:"topic" yaml:"topic"`
}

type WSOpt struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Listen  string `mapstructure:"listen" yaml:"listen"`
	Path    string `mapstructure:"path" yaml:"path"`
	// Origins lists the cross-origin pages allowed to connect.
	// Same-origin requests are always accepted.
	Origins []string `mapstructure:"origins" yaml:"origins"`
}

type MotionSrvOpt struct {
	Device DeviceOpt `mapstructure:"device" yaml:"device"`
	Motion MotionOpt `mapstructure:"motion" yaml:"motion"`
	Sensor SensorOpt `mapstructure:"sensor" yaml:"sensor"`
	MQTT   MQTTOpt   `mapstructure:"mqtt" yaml:"mqtt"`
	WS     WSOpt     `mapstructure:"ws" yaml:"ws"`
	Debug  bool      `mapstructure:"debug" yaml:"debug"`
}

type MotionSrvDesc struct {
	Opt   MotionSrvOpt
	Viper *viper.Viper
}

func NewMotionSrvDesc() MotionSrvDesc {
	return MotionSrvDesc{
		Opt:   NewMotionSrvOpt(),
		Viper: nil,
	}
}

func NewMotionSrvOpt() MotionSrvOpt {
	return MotionSrvOpt{
		Device: DeviceOpt{
			Name:           DefaultDeviceName,
			HCIID:          -1,
			CheckLE:        true,
			MaxConnections: 1,
		},
		Motion: MotionOpt{
			PeriodMS:      DefaultPeriodMS,
			Accelerometer: true,
			Gyroscope:     true,
			Magnetometer:  false,
		},
		Sensor: SensorOpt{
			Driver:    DefaultDriver,
			SPIDevice: DefaultSPIDevice,
			CSPin:     DefaultCSPin,
		},
		MQTT: MQTTOpt{
			Broker:   DefaultMQTTBroker,
			ClientID: DefaultAppName,
			Topic:    DefaultMQTTTopic,
		},
		WS: WSOpt{
			Listen: DefaultWSListen,
			Path:   DefaultWSPath,
		},
		Debug: false,
	}
}

func setDefaults(v *viper.Viper) {
	d := NewMotionSrvOpt()
	v.SetDefault("device.name", d.Device.Name)
	v.SetDefault("device.hci_id", d.Device.HCIID)
	v.SetDefault("device.check_le", d.Device.CheckLE)
	v.SetDefault("device.max_connections", d.Device.MaxConnections)
	v.SetDefault("motion.period_ms", d.Motion.PeriodMS)
	v.SetDefault("motion.accelerometer", d.Motion.Accelerometer)
	v.SetDefault("motion.gyroscope", d.Motion.Gyroscope)
	v.SetDefault("motion.magnetometer", d.Motion.Magnetometer)
	v.SetDefault("motion.characteristic_uuid", d.Motion.CharacteristicUUID)
	v.SetDefault("sensor.driver", d.Sensor.Driver)
	v.SetDefault("sensor.spi_device", d.Sensor.SPIDevice)
	v.SetDefault("sensor.cs_pin", d.Sensor.CSPin)
	v.SetDefault("mqtt.enabled", d.MQTT.Enabled)
	v.SetDefault("mqtt.broker", d.MQTT.Broker)
	v.SetDefault("mqtt.client_id", d.MQTT.ClientID)
	v.SetDefault("mqtt.topic", d.MQTT.Topic)
	v.SetDefault("ws.enabled", d.WS.Enabled)
	v.SetDefault("ws.listen", d.WS.Listen)
	v.SetDefault("ws.path", d.WS.Path)
	v.SetDefault("ws.origins", d.WS.Origins)
	v.SetDefault("debug", d.Debug)
}

// Parse reads the configuration from, in order of precedence, the
// command line flags, the MOTIONSRV_* environment, and the config file
// named by --config, $MOTIONSRV_CONFIG or found in the search path.
func (o *MotionSrvDesc) Parse(cmd *cobra.Command) error {
	vipCfg := viper.New()
	setDefaults(vipCfg)

	if configFileCmd, err := cmd.Flags().GetString("config"); err == nil && configFileCmd != "" {
		vipCfg.SetConfigFile(configFileCmd)
	} else if configFileEnv := os.Getenv(DefaultEnvConfig); configFileEnv != "" {
		vipCfg.SetConfigFile(configFileEnv)
	} else {
		vipCfg.SetConfigName(DefaultConfigName)
		vipCfg.SetConfigType("yaml")
		vipCfg.AddConfigPath(DefaultConfigSearchPath0)
		vipCfg.AddConfigPath(DefaultConfigSearchPath1)
		vipCfg.AddConfigPath(DefaultConfigSearchPath2)
	}

	vipCfg.SetEnvPrefix(DefaultAppName)
	vipCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vipCfg.AutomaticEnv()

	if f := cmd.Flags().Lookup("debug"); f != nil {
		_ = vipCfg.BindPFlag("debug", f)
	}
	if f := cmd.Flags().Lookup("name"); f != nil {
		_ = vipCfg.BindPFlag("device.name", f)
	}
	if f := cmd.Flags().Lookup("driver"); f != nil {
		_ = vipCfg.BindPFlag("sensor.driver", f)
	}

	if err := vipCfg.ReadInConfig(); err == nil {
		log.Debugln("using config file:", vipCfg.ConfigFileUsed())
	} else {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
		log.Debugln("no config file found, using defaults")
	}

	if err := vipCfg.Unmarshal(&o.Opt); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	o.Viper = vipCfg
	return o.Opt.Validate()
}

func (o *MotionSrvDesc) PostParse() {
	if o.Opt.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// Validate reports the first invalid option.
func (o MotionSrvOpt) Validate() error {
	if o.Motion.PeriodMS <= 0 {
		return fmt.Errorf("motion.period_ms must be positive, got %d", o.Motion.PeriodMS)
	}
	switch o.Sensor.Driver {
	case DriverSynthetic, DriverMPU9250:
	default:
		return fmt.Errorf("sensor.driver: unknown driver %q", o.Sensor.Driver)
	}
	if u := o.Motion.CharacteristicUUID; u != "" {
		if _, err := uuid.Parse(u); err != nil {
			return fmt.Errorf("motion.characteristic_uuid: %w", err)
		}
	}
	if o.Device.MaxConnections < 1 {
		return fmt.Errorf("device.max_connections must be at least 1, got %d", o.Device.MaxConnections)
	}
	return nil
}

// Period returns the motion notification period.
func (o MotionSrvOpt) Period() time.Duration {
	return time.Duration(o.Motion.PeriodMS) * time.Millisecond
}

// Capabilities returns the sensors the configuration declares present.
func (o MotionSrvOpt) Capabilities() motion.Capabilities {
	return motion.Capabilities{
		Accelerometer: o.Motion.Accelerometer,
		Gyroscope:     o.Motion.Gyroscope,
		Magnetometer:  o.Motion.Magnetometer,
	}
}

// CharacteristicUUID returns the configured motion characteristic UUID,
// or the one derived from the capabilities.
func (o MotionSrvOpt) CharacteristicUUID() string {
	if o.Motion.CharacteristicUUID != "" {
		return o.Motion.CharacteristicUUID
	}
	return o.Capabilities().CharacteristicUUID()
}

// Dump returns o as yaml.
func (o MotionSrvOpt) Dump() ([]byte, error) {
	return yaml.Marshal(o)
}
