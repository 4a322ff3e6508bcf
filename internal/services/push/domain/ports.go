package domain

import (
	"context"
	"time"
)

// SenderPort delivers one contact payload, retrying per policy until deadline
type SenderPort interface {
	Send(ctx context.Context, payload ContactPayload, deadline time.Time) SendResult
}

// RunnerPort executes one bounded chunk of queued rows
type RunnerPort interface {
	Run(ctx context.Context, p ChunkParams) (ChunkResult, error)
}
