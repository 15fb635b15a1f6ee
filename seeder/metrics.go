package seeder

import (
	"context"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Luismorlan/chirp/utils/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	DDOG_SEED_CREATED_COUNTER = "chirp.seed.created"
	DDOG_SEED_SKIPPED_COUNTER = "chirp.seed.skipped"
	DDOG_SEED_RUN_TIMING      = "chirp.seed.run_duration"

	TOPIC_SEED_EVENT = "seed_event"

	metadataMetric = "metric"
	metadataEntity = "entity"
)

// Entity names used as the "entity" tag of seeding counters.
const (
	EntityUser   = "user"
	EntityTweet  = "tweet"
	EntityReply  = "reply"
	EntityFollow = "follow"
	EntityLike   = "like"
)

// Metrics reports seeding progress to Datadog. Writers publish one event per
// created or skipped row on an in-process event bus, a single reporter
// goroutine drains the bus and forwards each event to statsd.
type Metrics struct {
	Statsd   statsd.ClientInterface
	EventBus *gochannel.GoChannel

	done chan struct{}
}

// NewMetrics starts the reporter. Close must be called to release it.
func NewMetrics(client statsd.ClientInterface) (*Metrics, error) {
	if client == nil {
		client = &statsd.NoOpClient{}
	}
	eventbus := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 100,
			// Publish returns once the reporter took the event, so Close never
			// drops a pending one.
			BlockPublishUntilSubscriberAck: true,
		},
		watermill.NewStdLogger(false, false),
	)
	messages, err := eventbus.Subscribe(context.Background(), TOPIC_SEED_EVENT)
	if err != nil {
		return nil, err
	}
	m := &Metrics{Statsd: client, EventBus: eventbus, done: make(chan struct{})}
	go m.report(messages)
	return m, nil
}

func (m *Metrics) report(messages <-chan *message.Message) {
	defer close(m.done)
	for msg := range messages {
		err := m.Statsd.Incr(
			msg.Metadata.Get(metadataMetric),
			[]string{metadataEntity + ":" + msg.Metadata.Get(metadataEntity)},
			1,
		)
		if err != nil {
			log.Log.Infoln("cannot report seeding metric")
		}
		msg.Ack()
	}
}

func (m *Metrics) publish(metric, entity string) {
	if m == nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), nil)
	msg.Metadata.Set(metadataMetric, metric)
	msg.Metadata.Set(metadataEntity, entity)
	if err := m.EventBus.Publish(TOPIC_SEED_EVENT, msg); err != nil {
		log.Log.Infoln("cannot publish seeding event: ", err)
	}
}

// Created counts one row written for entity.
func (m *Metrics) Created(entity string) {
	m.publish(DDOG_SEED_CREATED_COUNTER, entity)
}

// Skipped counts one duplicate row skipped for entity.
func (m *Metrics) Skipped(entity string) {
	m.publish(DDOG_SEED_SKIPPED_COUNTER, entity)
}

// RunDuration reports how long a seeding run took for env.
func (m *Metrics) RunDuration(env string, d time.Duration) {
	if m == nil {
		return
	}
	if err := m.Statsd.Timing(DDOG_SEED_RUN_TIMING, d, []string{"env:" + env}, 1); err != nil {
		log.Log.Infoln("cannot report seeding duration")
	}
}

// Close stops accepting events and waits until the reporter forwarded every
// published one.
func (m *Metrics) Close() error {
	if m == nil {
		return nil
	}
	err := m.EventBus.Close()
	<-m.done
	return err
}
