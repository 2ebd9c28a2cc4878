package output

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"

	"github.com/chrisdamba/foodspend/internal/models"
)

// KafkaOutput publishes each snapshot as one message keyed by snapshot id.
type KafkaOutput struct {
	producer sarama.SyncProducer
	topic    string
	logger   logrus.FieldLogger
}

func newSaramaConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // required by SyncProducer
	saramaConfig.Producer.MaxMessageBytes = 8 << 20
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second
	return saramaConfig
}

func NewKafkaOutput(config models.KafkaConfig, logger logrus.FieldLogger) (*KafkaOutput, error) {
	if len(config.BrokerList) == 0 {
		return nil, fmt.Errorf("kafka is enabled but no brokers are configured")
	}
	producer, err := sarama.NewSyncProducer(config.BrokerList, newSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	logger.WithField("brokers", config.BrokerList).Info("kafka producer created")
	return NewKafkaOutputFromProducer(producer, config.Topic, logger), nil
}

func NewKafkaOutputFromProducer(producer sarama.SyncProducer, topic string, logger logrus.FieldLogger) *KafkaOutput {
	return &KafkaOutput{producer: producer, topic: topic, logger: logger}
}

func (k *KafkaOutput) Name() string { return "kafka" }

func (k *KafkaOutput) Write(ctx context.Context, snap *models.Snapshot) error {
	if k.producer == nil {
		return fmt.Errorf("kafka producer is closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	partition, offset, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic:     k.topic,
		Key:       sarama.StringEncoder(snap.ID),
		Value:     sarama.ByteEncoder(msg),
		Timestamp: snap.CreatedAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte("source"), Value: []byte(snap.Source)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", k.topic, err)
	}

	k.logger.WithFields(logrus.Fields{
		"topic":     k.topic,
		"partition": partition,
		"offset":    offset,
	}).Debug("snapshot published")
	return nil
}

func (k *KafkaOutput) Close() error {
	if k.producer == nil {
		return nil
	}
	err := k.producer.Close()
	k.producer = nil
	return err
}
