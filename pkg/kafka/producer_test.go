package kafka

import (
	"context"
	"testing"
)

func newTestProducer(t *testing.T, cfg Config) *Producer {
	t.Helper()
	p, err := NewProducer(cfg)
	if err != nil {
		t.Fatalf("NewProducer: %v", err)
	}
	return p
}

func TestNewProducer(t *testing.T) {
	p := newTestProducer(t, Config{
		Brokers: []string{"localhost:9092", "localhost:9093"},
	})

	if len(p.brokers) != 2 {
		t.Fatalf("expected 2 brokers, got %d", len(p.brokers))
	}
	if p.brokers[0] != "localhost:9092" {
		t.Errorf("expected broker localhost:9092, got %s", p.brokers[0])
	}
	if len(p.writers) != 0 {
		t.Errorf("expected empty writers map, got %d entries", len(p.writers))
	}
	if p.transport.TLS != nil || p.transport.SASL != nil {
		t.Error("expected plaintext transport by default")
	}
}

func TestNewProducerSecurity(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantErr  bool
		wantSASL string
		wantTLS  bool
	}{
		{name: "tls only", cfg: Config{TLS: true}, wantTLS: true},
		{name: "plain", cfg: Config{SASLEnabled: true, SASLUsername: "u", SASLPassword: "p"}, wantSASL: "PLAIN"},
		{name: "scram 512", cfg: Config{SASLEnabled: true, SASLMechanism: "SCRAM-SHA-512", SASLUsername: "u", SASLPassword: "p"}, wantSASL: "SCRAM-SHA-512"},
		{name: "unknown mechanism", cfg: Config{SASLEnabled: true, SASLMechanism: "GSSAPI"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProducer(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (p.transport.TLS != nil) != tt.wantTLS {
				t.Errorf("TLS configured = %v, want %v", p.transport.TLS != nil, tt.wantTLS)
			}
			if tt.wantSASL != "" && p.transport.SASL.Name() != tt.wantSASL {
				t.Errorf("SASL = %s, want %s", p.transport.SASL.Name(), tt.wantSASL)
			}
		})
	}
}

func TestGetOrCreateWriter(t *testing.T) {
	p := newTestProducer(t, Config{Brokers: []string{"localhost:9092"}})

	w1 := p.getOrCreateWriter("debt.events")
	w2 := p.getOrCreateWriter("debt.events")
	if w1 != w2 {
		t.Error("expected same writer instance for same topic")
	}

	w3 := p.getOrCreateWriter("debt.events.dlq")
	if w1 == w3 {
		t.Error("expected different writer instance for different topic")
	}
	if w1.Transport != p.transport {
		t.Error("writers should share the producer transport")
	}
	if len(p.writers) != 2 {
		t.Errorf("expected 2 writers, got %d", len(p.writers))
	}
}

func TestPublishNoMessages(t *testing.T) {
	p := newTestProducer(t, Config{Brokers: []string{"localhost:9092"}})

	if err := p.Publish(context.Background(), "debt.events"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.writers) != 0 {
		t.Error("empty publish should not create a writer")
	}
}

func TestProducerClose(t *testing.T) {
	p := newTestProducer(t, Config{Brokers: []string{"localhost:9092"}})

	_ = p.getOrCreateWriter("topic-a")
	_ = p.getOrCreateWriter("topic-b")

	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error on close: %v", err)
	}
	if len(p.writers) != 0 {
		t.Errorf("expected 0 writers after close, got %d", len(p.writers))
	}
}
