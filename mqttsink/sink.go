// Package mqttsink mirrors motion records to an MQTT broker.
package mqttsink

import (
	"fmt"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/XC-/motion"
)

// A Publisher is the part of mqtt.Client the sink needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Sink publishes every characteristic update as raw bytes to
// <topic>/<characteristic>.
type Sink struct {
	pub   Publisher
	topic string
	log   log.FieldLogger
}

// New returns a Sink publishing under topic.
func New(pub Publisher, topic string) *Sink {
	return &Sink{
		pub:   pub,
		topic: strings.TrimSuffix(topic, "/"),
		log:   log.WithField("component", "mqttsink"),
	}
}

// Connect connects to broker and returns a Sink using the new client.
// The returned function disconnects.
func Connect(broker, clientID, topic string) (*Sink, func(), error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, nil, fmt.Errorf("mqtt connect %s: %w", broker, token.Error())
	}
	return New(client, topic), func() { client.Disconnect(250) }, nil
}

// Topic returns the topic updates of id are published to.
func (s *Sink) Topic(id motion.CharID) string {
	return s.topic + "/" + id.String()
}

// UpdateCharacteristic implements motion.Sink. It does not wait for the
// broker; publish failures are logged once the token completes.
func (s *Sink) UpdateCharacteristic(id motion.CharID, value []byte) error {
	topic := s.Topic(id)
	payload := append([]byte(nil), value...)
	token := s.pub.Publish(topic, 0, false, payload)
	go func() {
		<-token.Done()
		if err := token.Error(); err != nil {
			s.log.Warnf("mqtt publish (%s): %v", topic, err)
		}
	}()
	return nil
}
