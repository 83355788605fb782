package kafka

import (
	"testing"

	"mindhaven/config"
)

func TestNewProducerRequiresBrokers(t *testing.T) {
	if _, err := NewProducer(config.KafkaConfig{Topic: "events"}); err == nil {
		t.Error("expected error without brokers")
	}
	p, err := NewProducer(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "events"})
	if err != nil {
		t.Fatalf("NewProducer: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestKeyFromID(t *testing.T) {
	if KeyFromID(17) != "17" {
		t.Errorf("KeyFromID(17) = %q", KeyFromID(17))
	}
}
