package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	pstrings "leadpush/internal/platform/strings"
	dom "leadpush/internal/services/push/domain"
	queuedom "leadpush/internal/services/queue/domain"
)

// Run implements domain.RunnerPort. One call processes at most CallCap rows
// inside a clamped time window; callers loop for the rest.
//
// The run has two phases: COLLECT pages pending rows and dedupes them until
// CallCap unique rows are in hand or the queue is exhausted, then DRAIN sends
// them in concurrent slices until done or the window deadline passes
func (s *Service) Run(ctx context.Context, p dom.ChunkParams) (dom.ChunkResult, error) {
	started := s.now()

	windowSeconds := p.WindowSeconds
	if windowSeconds == 0 {
		windowSeconds = defaultWindowSeconds
	}
	windowSeconds = clamp(windowSeconds, minWindowSeconds, maxWindowSeconds)
	deadline := started.Add(time.Duration(windowSeconds) * time.Second)

	limit := p.Amount
	if limit == 0 {
		limit = s.cfg.CallCap
	}
	limit = clamp(limit, 1, s.cfg.CallCap)

	concurrency := p.Concurrency
	if concurrency == 0 {
		concurrency = s.cfg.RPS
	}
	concurrency = clamp(concurrency, 1, s.cfg.RPS)

	res := dom.ChunkResult{
		Zip:            p.Zip,
		ErrorsByStatus: map[string]int{},
		RateLimitRPS:   s.cfg.RPS,
		CallCap:        s.cfg.CallCap,
	}

	toProcess, dedupeSkipped, err := s.collect(ctx, p.Zip, limit, deadline)
	if err != nil {
		return res, err
	}
	res.DedupeSkipped = dedupeSkipped

	var (
		mu              sync.Mutex
		rateLimitWaitMs int64
	)

	for i := 0; i < len(toProcess); i += concurrency {
		if !s.now().Before(deadline) {
			break
		}
		end := i + concurrency
		if end > len(toProcess) {
			end = len(toProcess)
		}
		slice := toProcess[i:end]

		var wg sync.WaitGroup
		for _, row := range slice {
			wg.Add(1)
			go func(row queuedom.Row) {
				defer wg.Done()
				// a panicking row is recorded as a 500 error, never kills the run
				defer func() {
					if rec := recover(); rec != nil {
						text := fmt.Sprintf("panic: %v", rec)
						s.log.Error().Str("id", row.ID).Msg(text)
						if err := s.queue.MarkError(ctx, row.ID, text); err != nil {
							s.log.Error().Err(err).Str("id", row.ID).Msg("mark error failed")
						}
						mu.Lock()
						defer mu.Unlock()
						res.Attempted++
						res.Errors = append(res.Errors, dom.RowError{ID: row.ID, Status: 500, Text: text})
						res.ErrorsByStatus["500"]++
					}
				}()
				status, text, ok, waitMs := s.processRow(ctx, row, p.Tag, deadline)
				mu.Lock()
				defer mu.Unlock()
				res.Attempted++
				if ok {
					res.Succeeded++
					return
				}
				res.Errors = append(res.Errors, dom.RowError{ID: row.ID, Status: status, Text: text})
				res.ErrorsByStatus[strconv.Itoa(status)]++
				if waitMs > rateLimitWaitMs {
					rateLimitWaitMs = waitMs
				}
			}(row)
		}
		wg.Wait()

		if !s.now().Before(deadline) || res.Attempted >= limit {
			break
		}
		s.sleep(interSlicePause)
	}

	res.Failed = res.Attempted - res.Succeeded
	res.ErrorsSample = res.Errors
	if len(res.ErrorsSample) > 10 {
		res.ErrorsSample = res.ErrorsSample[:10]
	}
	res.RateLimitBackoffMs = rateLimitWaitMs
	if remain := s.backoff.Remaining().Milliseconds(); remain > res.RateLimitBackoffMs {
		res.RateLimitBackoffMs = remain
	}
	res.DurationMs = s.now().Sub(started).Milliseconds()
	return res, nil
}

// collect pages pending rows for zip, deduping in-run, until limit unique rows
// are gathered or the queue/deadline runs out. A short page means exhaustion
func (s *Service) collect(
	ctx context.Context,
	zip string,
	limit int,
	deadline time.Time,
) (rows []queuedom.Row, dedupeSkipped int, err error) {
	seen := map[string]struct{}{}
	offset := 0
	pageSize := limit
	if pageSize < 5 {
		pageSize = 5
	}

	for len(rows) < limit {
		if !s.now().Before(deadline) {
			break
		}
		batch, err := s.queue.FetchPending(ctx, zip, pageSize, offset)
		if err != nil {
			return nil, dedupeSkipped, err
		}
		if len(batch) == 0 {
			break
		}
		offset += len(batch)
		for _, row := range batch {
			k := DedupeKey(row)
			if _, dup := seen[k]; dup {
				dedupeSkipped++
				continue
			}
			seen[k] = struct{}{}
			rows = append(rows, row)
			if len(rows) >= limit {
				break
			}
		}
		if len(batch) < pageSize {
			break
		}
	}
	return rows, dedupeSkipped, nil
}

// processRow sends one row and stamps its outcome. A row error never fails the
// chunk; secondary mark failures are swallowed so the run keeps going
func (s *Service) processRow(
	ctx context.Context,
	row queuedom.Row,
	tag string,
	deadline time.Time,
) (status int, text string, ok bool, rateWaitMs int64) {
	if row.LocationID == "" {
		const msg = "Missing location_id"
		if err := s.queue.MarkError(ctx, row.ID, msg); err != nil {
			s.log.Error().Err(err).Str("id", row.ID).Msg("mark error failed")
		}
		return 422, msg, false, 0
	}

	payload := BuildPayload(row, tag)
	r := s.sender.Send(ctx, payload, deadline)
	if r.OK {
		if err := s.queue.MarkSuccess(ctx, row.ID); err != nil {
			s.log.Error().Err(err).Str("id", row.ID).Msg("mark success failed")
			return 500, err.Error(), false, 0
		}
		return r.Status, "", true, 0
	}

	message := fmt.Sprintf("GHL %d: %s", r.Status, failureReason(r.Body))
	if err := s.queue.MarkError(ctx, row.ID, message); err != nil {
		s.log.Error().Err(err).Str("id", row.ID).Msg("mark error failed")
	}
	if r.Status == 429 && r.RetryAfter > 0 {
		rateWaitMs = r.RetryAfter.Milliseconds() * 11 / 10
	}
	return r.Status, message, false, rateWaitMs
}

// failureReason pulls a human-readable reason out of an error body
func failureReason(body string) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err == nil {
		switch {
		case parsed.Message != "":
			return parsed.Message
		case parsed.Error != "":
			return parsed.Error
		case parsed.Details != "":
			return parsed.Details
		}
	}
	return pstrings.Truncate(body, 500)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
