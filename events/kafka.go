package events

import (
	"context"
	"time"

	"github.com/Shopify/sarama"
	"github.com/cloudevents/sdk-go/protocol/kafka_sarama/v2"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	pkgerrors "github.com/pkg/errors"
)

var _ Notifier = &KafkaNotifier{}

// KafkaNotifier sends events as binary mode cloud events keyed by the id of
// the user or role.
type KafkaNotifier struct {
	sender *kafka_sarama.Sender
	client cloudevents.Client
	source string
	now    func() time.Time
}

func NewKafkaNotifier(config *Config) (*KafkaNotifier, error) {
	sender, err := kafka_sarama.NewSender(config.KafkaBrokers, config.SaramaConfig, config.GetPrefixedTopic())
	if err != nil {
		return nil, pkgerrors.Wrap(err, "unable to create kafka sender")
	}
	return newKafkaNotifier(sender, config.EventSource)
}

func NewKafkaNotifierFromProducer(producer sarama.SyncProducer, topic, source string) (*KafkaNotifier, error) {
	sender, err := kafka_sarama.NewSenderFromSyncProducer(topic, producer)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "unable to create kafka sender")
	}
	return newKafkaNotifier(sender, source)
}

func newKafkaNotifier(sender *kafka_sarama.Sender, source string) (*KafkaNotifier, error) {
	client, err := cloudevents.NewClient(sender, cloudevents.WithTimeNow(), cloudevents.WithUUIDs())
	if err != nil {
		return nil, pkgerrors.Wrap(err, "unable to create cloud events client")
	}
	return &KafkaNotifier{
		sender: sender,
		client: client,
		source: source,
		now:    time.Now,
	}, nil
}

func (k *KafkaNotifier) NotifyUserCreated(ctx context.Context, user UserData) error {
	return k.send(ctx, Event{Type: UserCreatedEventType, User: &user})
}

func (k *KafkaNotifier) NotifyUserUpdated(ctx context.Context, user UserData) error {
	return k.send(ctx, Event{Type: UserUpdatedEventType, User: &user})
}

func (k *KafkaNotifier) NotifyUserDeleted(ctx context.Context, user UserData) error {
	return k.send(ctx, Event{Type: UserDeletedEventType, User: &user})
}

func (k *KafkaNotifier) NotifyRoleCreated(ctx context.Context, role RoleData) error {
	return k.send(ctx, Event{Type: RoleCreatedEventType, Role: &role})
}

func (k *KafkaNotifier) NotifyRoleUpdated(ctx context.Context, role RoleData) error {
	return k.send(ctx, Event{Type: RoleUpdatedEventType, Role: &role})
}

func (k *KafkaNotifier) NotifyRoleDeleted(ctx context.Context, role RoleData) error {
	return k.send(ctx, Event{Type: RoleDeletedEventType, Role: &role})
}

func (k *KafkaNotifier) send(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	event.Time = k.now().UTC()

	ce, err := toCloudEvent(event, k.source)
	if err != nil {
		return pkgerrors.Wrapf(err, "unable to encode %s event", event.Type)
	}
	ctx = kafka_sarama.WithMessageKey(ctx, sarama.StringEncoder(event.Key()))
	if result := k.client.Send(ctx, ce); !cloudevents.IsACK(result) {
		return pkgerrors.Wrapf(result, "unable to send %s event", event.Type)
	}
	return nil
}

func toCloudEvent(event Event, source string) (cloudevents.Event, error) {
	e := cloudevents.NewEvent()
	e.SetType(event.Type)
	e.SetSource(source)
	if err := e.SetData(cloudevents.ApplicationJSON, event); err != nil {
		return e, err
	}
	return e, nil
}

func (k *KafkaNotifier) Close() error {
	return k.sender.Close(context.Background())
}
