package notify

import (
	"sync"
	"time"
)

// maxPerSession bounds the pending queue so an abandoned session cannot
// grow without limit.
const maxPerSession = 20

type MemoryNotifier struct {
	mu      sync.Mutex
	pending map[string][]Notification
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{
		pending: make(map[string][]Notification),
	}
}

func (n *MemoryNotifier) Success(sessionID, message string) {
	n.push(sessionID, LevelSuccess, message)
}

func (n *MemoryNotifier) Error(sessionID, message string) {
	n.push(sessionID, LevelError, message)
}

func (n *MemoryNotifier) push(sessionID string, level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	queue := n.pending[sessionID]
	if len(queue) >= maxPerSession {
		queue = queue[1:] // drop oldest
	}
	n.pending[sessionID] = append(queue, Notification{
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

func (n *MemoryNotifier) Drain(sessionID string) []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	queue := n.pending[sessionID]
	delete(n.pending, sessionID)
	return queue
}
