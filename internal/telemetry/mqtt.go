// Package telemetry republishes Game Coordinator domain events to an
// MQTT broker, for dashboards and trade-bot fleets observing many
// sessions at once.
package telemetry

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/Gobot1234/steam-ext-tf2/internal/config"
	"github.com/Gobot1234/steam-ext-tf2/internal/events"
)

// MQTT topics
const (
	TopicSession       = "gc/session"
	TopicItems         = "gc/items"
	TopicAccount       = "gc/account"
	TopicNotifications = "gc/notifications"
	TopicAdmin         = "gc/admin"
)

// Publisher bridges the event bus to an MQTT broker.
type Publisher struct {
	cfg    *config.Config
	bus    *events.Bus
	client mqtt.Client

	// Metadata included in every message
	metadata map[string]interface{}
}

// NewPublisher creates an MQTT publisher from configuration.
func NewPublisher(cfg *config.Config, bus *events.Bus) (*Publisher, error) {
	mqttCfg := cfg.ApplicationData.MQTT
	if !mqttCfg.Enabled {
		return nil, fmt.Errorf("MQTT is disabled")
	}

	hostname, _ := os.Hostname()
	p := &Publisher{
		cfg: cfg,
		bus: bus,
		metadata: map[string]interface{}{
			"hostname":   hostname,
			"app_id":     cfg.GetGCData().AppID,
			"account_id": cfg.GetGCData().AccountID,
		},
	}

	opts := mqtt.NewClientOptions()
	scheme := "tcp"
	if mqttCfg.UseTLS {
		scheme = "ssl"
	}
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, mqttCfg.BrokerURL, mqttCfg.Port))

	if mqttCfg.ClientID != "" {
		opts.SetClientID(mqttCfg.ClientID)
	} else {
		opts.SetClientID(fmt.Sprintf("tf2gc-%s", hostname))
	}
	if mqttCfg.Username != "" {
		opts.SetUsername(mqttCfg.Username)
		opts.SetPassword(mqttCfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetCleanSession(false)

	if mqttCfg.UseTLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		log.Info().Msg("MQTT connected")
	})
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		log.Warn().Err(err).Msg("MQTT connection lost")
	})

	p.client = mqtt.NewClient(opts)
	return p, nil
}

// Start connects to the broker, bridges events until ctx is cancelled
// or the bus stops, then announces shutdown and disconnects.
func (p *Publisher) Start(ctx context.Context) error {
	log.Info().
		Str("broker", p.cfg.ApplicationData.MQTT.BrokerURL).
		Int("port", p.cfg.ApplicationData.MQTT.Port).
		Msg("connecting to MQTT broker")

	token := p.client.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect failed: %w", token.Error())
	}

	p.subscribeEvents()

	select {
	case <-ctx.Done():
	case <-p.bus.StopCh():
	}

	p.publish(TopicAdmin, map[string]interface{}{"event": "shutdown"})
	p.client.Disconnect(5000)
	log.Info().Msg("MQTT disconnected")

	return nil
}

func (p *Publisher) subscribeEvents() {
	p.bus.Subscribe(events.EventGCConnect, "mqtt.gcConnect", p.onSession("gc_connect"))
	p.bus.Subscribe(events.EventGCDisconnect, "mqtt.gcDisconnect", p.onSession("gc_disconnect"))
	p.bus.Subscribe(events.EventGCReady, "mqtt.gcReady", p.onSession("gc_ready"))
	p.bus.Subscribe(events.EventItemReceive, "mqtt.itemReceive", p.onItem("item_receive"))
	p.bus.Subscribe(events.EventItemRemove, "mqtt.itemRemove", p.onItem("item_remove"))
	p.bus.Subscribe(events.EventItemUpdate, "mqtt.itemUpdate", p.onItem("item_update"))
	p.bus.Subscribe(events.EventCraftingComplete, "mqtt.craftingComplete", p.onItem("crafting_complete"))
	p.bus.Subscribe(events.EventAccountUpdate, "mqtt.accountUpdate", p.onAccount)
	p.bus.Subscribe(events.EventSystemMessage, "mqtt.systemMessage", p.onNotification)
	p.bus.Subscribe(events.EventDisplayNotification, "mqtt.displayNotification", p.onNotification)
}

// publish sends a JSON message to an MQTT topic at QoS 1.
func (p *Publisher) publish(topic string, payload interface{}) {
	if !p.client.IsConnected() {
		return
	}

	msg := make(map[string]interface{}, len(p.metadata)+2)
	for k, v := range p.metadata {
		msg[k] = v
	}
	msg["payload"] = payload
	msg["timestamp"] = time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(msg)
	if err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("failed to marshal MQTT message")
		return
	}

	token := p.client.Publish(topic, 1, false, data)
	go func() {
		token.Wait()
		if token.Error() != nil {
			log.Warn().Err(token.Error()).Str("topic", topic).Msg("MQTT publish failed")
		}
	}()
}

func (p *Publisher) onSession(name string) events.HandlerFunc {
	return func(ctx context.Context, event events.Event) error {
		p.publish(TopicSession, map[string]interface{}{
			"event":   name,
			"payload": event.Payload,
		})
		return nil
	}
}

func (p *Publisher) onItem(name string) events.HandlerFunc {
	return func(ctx context.Context, event events.Event) error {
		p.publish(TopicItems, map[string]interface{}{
			"event":   name,
			"payload": event.Payload,
		})
		return nil
	}
}

func (p *Publisher) onAccount(ctx context.Context, event events.Event) error {
	p.publish(TopicAccount, event.Payload)
	return nil
}

func (p *Publisher) onNotification(ctx context.Context, event events.Event) error {
	p.publish(TopicNotifications, map[string]interface{}{
		"event":   string(event.Type),
		"payload": event.Payload,
	})
	return nil
}
