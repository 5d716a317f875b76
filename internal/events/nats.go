package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"thanksboard/internal/common"
	"thanksboard/internal/config"
)

// conn is the part of *nats.Conn the publisher needs.
type conn interface {
	Publish(subj string, data []byte) error
	Drain() error
}

type NATSPublisher struct {
	nc     conn
	prefix string
	logger *zap.Logger
}

func NewNATSPublisher(cfg *config.Config, logger *zap.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(cfg.NATS.URL,
		nats.Name("thanksboard"),
		nats.Timeout(3*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{nc: nc, prefix: cfg.NATS.SubjectPrefix, logger: logger.Named("events")}, nil
}

// New returns a NATS publisher when enabled and reachable, otherwise Nop.
func New(cfg *config.Config, logger *zap.Logger) common.EventPublisher {
	if !cfg.NATS.Enabled {
		return Nop{}
	}
	p, err := NewNATSPublisher(cfg, logger)
	if err != nil {
		logger.Warn("nats unavailable, domain events disabled", zap.Error(err))
		return Nop{}
	}
	logger.Info("connected to NATS", zap.String("url", cfg.NATS.URL))
	return p
}

func (p *NATSPublisher) subject(s string) string {
	if p.prefix == "" {
		return s
	}
	return p.prefix + "." + s
}

// Publish is fire-and-forget; failures are logged and returned but callers ignore them.
func (p *NATSPublisher) Publish(_ context.Context, subject string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", subject, err)
	}
	if err := p.nc.Publish(p.subject(subject), data); err != nil {
		p.logger.Warn("publish failed", zap.String("subject", subject), zap.Error(err))
		return err
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}
