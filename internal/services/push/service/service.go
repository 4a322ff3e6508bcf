// Package service implements rate-limited batch delivery of queued contacts
package service

import (
	"time"

	"leadpush/internal/platform/logger"
	dom "leadpush/internal/services/push/domain"
	queuedom "leadpush/internal/services/queue/domain"
)

const (
	// defaultRPS is the outbound requests-per-second budget
	defaultRPS = 5

	// defaultCallCap is the hard max rows processed per chunk call
	defaultCallCap = 5

	defaultWindowSeconds = 55
	minWindowSeconds     = 5
	maxWindowSeconds     = 120

	// interSlicePause separates concurrent slices within a chunk
	interSlicePause = 25 * time.Millisecond
)

// Config for the push service
type Config struct {
	RPS     int
	CallCap int
}

// Service drains queued contacts into the CRM in bounded chunks
type Service struct {
	queue   queuedom.QueuePort
	sender  dom.SenderPort
	backoff *SharedBackoff
	cfg     Config
	log     logger.Logger
	now     func() time.Time
	sleep   func(time.Duration)
}

// Compile-time assertion: Service implements domain.RunnerPort
var _ dom.RunnerPort = (*Service)(nil)

// New constructs the push service
func New(queue queuedom.QueuePort, sender dom.SenderPort, backoff *SharedBackoff, cfg Config) *Service {
	if cfg.RPS <= 0 {
		cfg.RPS = defaultRPS
	}
	if cfg.CallCap <= 0 {
		cfg.CallCap = defaultCallCap
	}
	return &Service{
		queue:   queue,
		sender:  sender,
		backoff: backoff,
		cfg:     cfg,
		log:     *logger.Named("push"),
		now:     time.Now,
		sleep:   time.Sleep,
	}
}
