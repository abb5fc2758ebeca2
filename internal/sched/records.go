package sched

import "sync"

// DeliveryLog holds the ephemeral "reminder already shown" markers, one
// per task per arming window. It is deliberately volatile: a process
// restart forgets all markers, and durable dedupe would prevent
// re-notifying after a legitimate edit moves a task back into a similar
// window.
type DeliveryLog struct {
	mu   sync.Mutex
	sent map[string]struct{}
}

// NewDeliveryLog returns an empty log.
func NewDeliveryLog() *DeliveryLog {
	return &DeliveryLog{sent: make(map[string]struct{})}
}

// MarkIfAbsent records delivery for the task id and reports whether the
// marker was newly written. Check and write are a single atomic step,
// so re-entrant ticks cannot both win the same window.
func (l *DeliveryLog) MarkIfAbsent(taskID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.sent[taskID]; ok {
		return false
	}
	l.sent[taskID] = struct{}{}
	return true
}

// Delivered reports whether a marker exists for the task id.
func (l *DeliveryLog) Delivered(taskID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.sent[taskID]
	return ok
}

// Clear removes the marker so the task can re-arm, e.g. after its start
// time passes or is edited into the future.
func (l *DeliveryLog) Clear(taskID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.sent, taskID)
}
