package circuitbreaker

import (
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

// Allow reports whether a write may proceed, closing the breaker first when
// the cool-down has elapsed.
func (cb *CircuitBreaker) Allow() bool {
	now := cb.now()

	cb.stateLock.Lock()
	allowed := cb.allowed
	reset := false
	if !allowed && now.Sub(cb.lastTripped) >= cb.cooldown {
		cb.allowed = true
		cb.errorCount = 0
		allowed = true
		reset = true
	}
	cb.stateLock.Unlock()

	if reset {
		cb.NotifyLoggers(types.InfoLevel, "Circuit breaker reset",
			"component", cb.GetComponentMetadata(),
			"event", "Reset",
			"auto", true,
		)
	}
	return allowed
}

// RecordError counts a failure and trips the breaker at the threshold.
// Failures closer together than the debounce period count once.
func (cb *CircuitBreaker) RecordError() {
	now := cb.now()

	cb.stateLock.Lock()
	if cb.debounce > 0 && !cb.lastErrorTime.IsZero() && now.Sub(cb.lastErrorTime) < cb.debounce {
		cb.stateLock.Unlock()
		return
	}
	cb.lastErrorTime = now
	cb.errorCount++
	errorCount := cb.errorCount
	trip := cb.allowed && errorCount >= cb.errorThreshold
	if trip {
		cb.allowed = false
		cb.lastTripped = now
	}
	cb.stateLock.Unlock()

	meta := cb.GetComponentMetadata()
	cb.NotifyLoggers(types.DebugLevel, "Circuit breaker recorded error",
		"component", meta,
		"errorCount", errorCount,
		"errorThreshold", cb.errorThreshold,
	)
	if trip {
		cb.NotifyLoggers(types.WarnLevel, "Circuit breaker tripped",
			"component", meta,
			"event", "Trip",
			"sink", cb.Name(),
			"nextReset", now.Add(cb.cooldown),
		)
	}
}

// RecordSuccess clears the consecutive failure count.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.stateLock.Lock()
	cb.errorCount = 0
	cb.stateLock.Unlock()
}

// Trip forces the breaker open.
func (cb *CircuitBreaker) Trip() {
	now := cb.now()
	cb.stateLock.Lock()
	if !cb.allowed {
		cb.stateLock.Unlock()
		return
	}
	cb.allowed = false
	cb.lastTripped = now
	cb.stateLock.Unlock()

	cb.NotifyLoggers(types.WarnLevel, "Circuit breaker tripped",
		"component", cb.GetComponentMetadata(),
		"event", "Trip",
		"sink", cb.Name(),
		"nextReset", now.Add(cb.cooldown),
	)
}

// Reset closes the breaker.
func (cb *CircuitBreaker) Reset() {
	cb.stateLock.Lock()
	if cb.allowed {
		cb.stateLock.Unlock()
		return
	}
	cb.allowed = true
	cb.errorCount = 0
	cb.stateLock.Unlock()

	cb.NotifyLoggers(types.InfoLevel, "Circuit breaker reset",
		"component", cb.GetComponentMetadata(),
		"event", "Reset",
		"auto", false,
	)
}

// IsOpen reports whether writes are currently being rejected. It does not
// advance the breaker.
func (cb *CircuitBreaker) IsOpen() bool {
	cb.stateLock.Lock()
	defer cb.stateLock.Unlock()
	return !cb.allowed && cb.now().Sub(cb.lastTripped) < cb.cooldown
}

// ErrorCount returns the consecutive failures recorded since the last success.
func (cb *CircuitBreaker) ErrorCount() int {
	cb.stateLock.Lock()
	defer cb.stateLock.Unlock()
	return cb.errorCount
}
