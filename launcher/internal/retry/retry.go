package retry

import (
	"errors"
	"time"
)

// Policy bounds how an operation is retried.
type Policy struct {
	// Attempts is the maximum number of calls, including the first one.
	Attempts int

	// Delay is slept between consecutive attempts.
	Delay time.Duration

	// Multiplier scales Delay after each failed attempt. Values <= 1 keep
	// the delay fixed.
	Multiplier float64

	// MaxDelay truncates a growing delay. Zero means no cap.
	MaxDelay time.Duration

	// Sleep replaces time.Sleep when set. It receives the attempt number
	// that is about to run (1-based) and the delay.
	Sleep func(attempt int, d time.Duration)
}

// ErrNoAttempts is returned by Do when the policy allows zero attempts.
var ErrNoAttempts = errors.New("retry: policy allows no attempts")

// Fixed returns a policy of n attempts separated by a constant delay.
func Fixed(n int, delay time.Duration) Policy {
	return Policy{Attempts: n, Delay: delay}
}

// Do calls fn until it returns nil or the attempts are exhausted.
func (p Policy) Do(fn func() error) error {
	if p.Attempts <= 0 {
		return ErrNoAttempts
	}

	delay := p.Delay
	var err error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if attempt > 1 {
			p.sleep(attempt, delay)
			delay = p.next(delay)
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}

func (p Policy) sleep(attempt int, d time.Duration) {
	if p.Sleep != nil {
		p.Sleep(attempt, d)
		return
	}
	time.Sleep(d)
}

// next returns the delay to use after d.
func (p Policy) next(d time.Duration) time.Duration {
	if p.Multiplier <= 1 {
		return d
	}
	d = time.Duration(float64(d) * p.Multiplier)
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}
