package kafka

import (
	"context"
	"fmt"
	"strconv"

	"mindhaven/config"

	"github.com/segmentio/kafka-go"
)

// Producer 同步写入单个 topic
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer 创建生产者；按 key 哈希分区，同一实体的事件保持顺序
func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers 未配置")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &Producer{writer: w, topic: cfg.Topic}, nil
}

// Send 写入一条消息
func (p *Producer) Send(ctx context.Context, key string, value []byte) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("写入kafka失败(topic=%s): %w", p.topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// KeyFromID 以实体ID作为消息key
func KeyFromID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
