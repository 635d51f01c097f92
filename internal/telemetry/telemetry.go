// Package telemetry publishes drive commands and decode results to an
// MQTT broker so an operator can watch a run remotely. The mission runs
// identically with telemetry disabled.
package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/mverne/LumeGo/internal/debug"
	"github.com/mverne/LumeGo/internal/logic/pid"
)

// Default topics, relative to nothing: the broker namespace is flat.
const (
	DefaultTickTopic   = "lumego/drive"
	DefaultResultTopic = "lumego/decode"
)

// tickMessage is the JSON payload for one drive command.
type tickMessage struct {
	Time  string `json:"t"`
	Left  int    `json:"left"`
	Right int    `json:"right"`
}

// resultMessage is the JSON payload for a completed decode.
type resultMessage struct {
	Time string `json:"t"`
	Word string `json:"word"`
	Runs []int  `json:"runs"`
}

// Publisher sends mission telemetry over MQTT.
type Publisher struct {
	client      mqtt.Client
	tickTopic   string
	resultTopic string
}

// Connect dials the broker and returns a ready publisher.
// Empty topics fall back to the defaults.
func Connect(broker, clientID, tickTopic, resultTopic string) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT connect: %w", token.Error())
	}
	debug.Info("Telemetry connected to %s", broker)

	return NewPublisher(client, tickTopic, resultTopic), nil
}

// NewPublisher wraps an already connected client. Used by Connect and
// by tests with a fake client.
func NewPublisher(client mqtt.Client, tickTopic, resultTopic string) *Publisher {
	if tickTopic == "" {
		tickTopic = DefaultTickTopic
	}
	if resultTopic == "" {
		resultTopic = DefaultResultTopic
	}
	return &Publisher{client: client, tickTopic: tickTopic, resultTopic: resultTopic}
}

// PublishTick publishes one drive command, fire and forget (QoS 0).
func (p *Publisher) PublishTick(cmd pid.Command) error {
	payload, err := json.Marshal(tickMessage{
		Time:  time.Now().Format(time.RFC3339),
		Left:  cmd.Left,
		Right: cmd.Right,
	})
	if err != nil {
		return err
	}
	p.client.Publish(p.tickTopic, 0, false, payload)
	return nil
}

// PublishResult publishes the decoded word and run lengths, retained so
// a late subscriber still sees the last result.
func (p *Publisher) PublishResult(word string, runs []int) error {
	payload, err := json.Marshal(resultMessage{
		Time: time.Now().Format(time.RFC3339),
		Word: word,
		Runs: runs,
	})
	if err != nil {
		return err
	}
	token := p.client.Publish(p.resultTopic, 0, true, payload)
	token.Wait()
	return token.Error()
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

// instrumentedActuator forwards drive commands to the real actuator and
// mirrors them to the publisher.
type instrumentedActuator struct {
	inner pid.Actuator
	pub   *Publisher
}

// InstrumentActuator wraps an actuator so every drive command is also
// published. Publish failures are logged, never surfaced: telemetry
// must not stop the wheels.
func InstrumentActuator(inner pid.Actuator, pub *Publisher) pid.Actuator {
	return &instrumentedActuator{inner: inner, pub: pub}
}

func (a *instrumentedActuator) Drive(cmd pid.Command) error {
	if err := a.pub.PublishTick(cmd); err != nil {
		debug.Error(err)
	}
	return a.inner.Drive(cmd)
}

func (a *instrumentedActuator) Stop() error {
	if err := a.pub.PublishTick(pid.Command{}); err != nil {
		debug.Error(err)
	}
	return a.inner.Stop()
}
