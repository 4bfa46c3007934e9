package translator

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Retrying wraps a Service with bounded retry and exponential backoff.
// Every failure kind is treated the same: warn, wait base*2^attempt,
// try again. After Limit attempts it gives up and hands back the original
// text, so a dead translation service degrades the run instead of
// aborting it. No success or failure statistic is kept past the call.
type Retrying struct {
	svc   Service
	limit int
	base  time.Duration
	diag  io.Writer

	// sleep performs one backoff wait. Overridable so tests can record
	// requested durations without real delays.
	sleep func(ctx context.Context, d time.Duration)
}

// NewRetrying builds the wrapper. limit is the total number of attempts,
// base the first backoff delay; warnings go to diag.
func NewRetrying(svc Service, limit int, base time.Duration, diag io.Writer) *Retrying {
	return &Retrying{
		svc:   svc,
		limit: limit,
		base:  base,
		diag:  diag,
		sleep: wait,
	}
}

// SetSleep replaces the backoff wait. Intended for tests.
func (r *Retrying) SetSleep(sleep func(ctx context.Context, d time.Duration)) {
	r.sleep = sleep
}

// Translate attempts the wrapped service up to limit times. The returned
// string is the translation on success and the untranslated input on
// exhaustion. The boolean is false only when cancellation cut the attempt
// loop short: the text is then not a result and must not be cached, or a
// fragment interrupted after a single failure would be recorded as its own
// translation forever. Exhaustion after the full attempt budget reports
// true; that fallback is a real outcome.
func (r *Retrying) Translate(ctx context.Context, text, targetLang string) (string, bool) {
	for attempt := 0; attempt < r.limit; attempt++ {
		out, err := r.svc.Translate(ctx, text, targetLang)
		if err == nil {
			return out, true
		}

		delay := r.base << attempt
		fmt.Fprintf(r.diag, "[warn] translate retry %d/%d after error: %v (sleep %s)\n",
			attempt+1, r.limit, err, delay)
		r.sleep(ctx, delay)

		if ctx.Err() != nil {
			// Interrupted during backoff; hand the original back so the
			// pipeline can run its shutdown path.
			return text, false
		}
	}

	fmt.Fprintf(r.diag, "[warn] giving up on a fragment after repeated errors; leaving original text\n")
	return text, true
}

// wait blocks for d or until ctx is cancelled, whichever comes first.
func wait(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
