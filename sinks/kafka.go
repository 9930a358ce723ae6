package sinks

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tarungka/rxwire/internal/logger"
	"github.com/twmb/franz-go/pkg/kgo"
)

const defaultProduceTimeout = 10 * time.Second

// KafkaSink produces every value as a record to a kafka topic. Each value is
// produced synchronously, so a slow broker slows the source down instead of
// values piling up in memory.
type KafkaSink struct {
	sinkBase

	bootstrapServers []string
	topic            string
	produceTimeout   time.Duration

	kafkaProducerClient *kgo.Client
}

var _ Sink = (*KafkaSink)(nil)

// NewKafkaSink creates the producer client. No connection is made until the
// first record is produced.
func NewKafkaSink(bootstrapServers, topic string, produceTimeout time.Duration) (*KafkaSink, error) {
	if bootstrapServers == "" || topic == "" {
		return nil, fmt.Errorf("%w: bootstrap_servers and topic are required", ErrMissingConfig)
	}
	if produceTimeout <= 0 {
		produceTimeout = defaultProduceTimeout
	}
	seeds := strings.Split(bootstrapServers, ",")

	l := logger.GetLogger("kafka-sink").With().Str("topic", topic).Logger()
	l.Debug().Strs("bootstrap_servers", seeds).Send()

	opts := []kgo.Opt{
		kgo.SeedBrokers(seeds...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
	}
	client, err := kgo.NewClient(opts...)
	if err != nil {
		l.Err(err).Msg("Error when creating a kafka producer!")
		return nil, err
	}

	return &KafkaSink{
		sinkBase:            sinkBase{logger: l},
		bootstrapServers:    seeds,
		topic:               topic,
		produceTimeout:      produceTimeout,
		kafkaProducerClient: client,
	}, nil
}

func (k *KafkaSink) OnNext(v int) {
	if k.failed() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), k.produceTimeout)
	defer cancel()

	record := &kgo.Record{Value: []byte(strconv.Itoa(v))}
	if err := k.kafkaProducerClient.ProduceSync(ctx, record).FirstErr(); err != nil {
		k.fail(fmt.Errorf("failed to produce value %d: %w", v, err))
		return
	}
	k.logger.Trace().Int("value", v).Msg("Successfully produced message")
}

func (k *KafkaSink) OnError(err error) {
	k.logger.Err(err).Msg("upstream failed")
}

func (k *KafkaSink) OnComplete() {
	k.logger.Debug().Msg("stream produced to kafka")
}

func (k *KafkaSink) Topic() string { return k.topic }

func (k *KafkaSink) Close() error {
	k.logger.Info().Msg("Closing kafka sink")
	k.kafkaProducerClient.Close()
	return nil
}
