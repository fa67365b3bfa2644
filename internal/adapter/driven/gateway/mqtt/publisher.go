package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Wyydra/confbridge/internal/core/domain"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Options configures the MQTT mirror.
type Options struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	QoS         byte
}

// Publisher mirrors call-status events to an MQTT broker under
// <prefix>/call/<call sid>/<status>.
//
// implements port.EventPublisher
type Publisher struct {
	client paho.Client
	prefix string
	qos    byte
}

func NewPublisher(opts Options) (*Publisher, error) {
	clientOpts := paho.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetMaxReconnectInterval(60 * time.Second)

	client := paho.NewClient(clientOpts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to MQTT broker %s: %w", opts.Broker, err)
	}

	return newPublisher(client, opts.TopicPrefix, opts.QoS), nil
}

func newPublisher(client paho.Client, prefix string, qos byte) *Publisher {
	return &Publisher{
		client: client,
		prefix: prefix,
		qos:    qos,
	}
}

func (p *Publisher) Topic(evt domain.CallStatusEvent) string {
	sid := evt.CallSID.String()
	if sid == "" {
		sid = "unknown"
	}
	return fmt.Sprintf("%s/call/%s/%s", p.prefix, sid, evt.Status)
}

func (p *Publisher) Publish(ctx context.Context, evt domain.CallStatusEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	topic := p.Topic(evt)
	token := p.client.Publish(topic, p.qos, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("publishing %s: %w", topic, ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}
	log.Debug().Str("topic", topic).Msg("Event mirrored to MQTT")
	return nil
}

func (p *Publisher) Close() error {
	p.client.Disconnect(1000)
	return nil
}
