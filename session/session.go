// Package session tracks conversation history for an agent: an in-memory
// bounded frame log per run, and a bbolt-backed store for carrying
// sessions across process restarts.
package session

import (
	"errors"
	"sync"
	"time"
)

// Errors for session operations.
var (
	// ErrSessionNotFound is returned when a stored session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStoreClosed is returned when the store has been closed.
	ErrStoreClosed = errors.New("session store is closed")
)

// Role identifies who produced a frame.
type Role string

// Frame roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Frame is one entry in a conversation history.
type Frame struct {
	// Role is who produced the frame.
	Role Role `json:"role"`

	// Content is the frame text.
	Content string `json:"content"`

	// Metadata carries optional structured context, such as the tool ID
	// for tool frames.
	Metadata map[string]any `json:"metadata,omitempty"`

	// At is when the frame was recorded, in UTC.
	At time.Time `json:"at"`
}

// Message is the role/content pair handed to a model context.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History is a bounded, concurrency-safe frame log. When the bound is
// exceeded the oldest frames are dropped.
type History struct {
	mu     sync.RWMutex
	frames []Frame
	max    int
}

// NewHistory creates a history keeping at most max frames. A max of zero
// or less means unbounded.
func NewHistory(max int) *History {
	return &History{max: max}
}

// Append records a frame, stamping At when unset. The oldest frames are
// evicted once the bound is exceeded.
func (h *History) Append(frame Frame) {
	if frame.At.IsZero() {
		frame.At = time.Now().UTC()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames = append(h.frames, frame)
	if h.max > 0 && len(h.frames) > h.max {
		h.frames = h.frames[len(h.frames)-h.max:]
	}
}

// Frames returns a copy of the current frames, oldest first.
func (h *History) Frames() []Frame {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Frame, len(h.frames))
	copy(out, h.frames)
	return out
}

// Messages returns the frames as role/content pairs, oldest first.
func (h *History) Messages() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Message, len(h.frames))
	for i, f := range h.frames {
		out[i] = Message{Role: f.Role, Content: f.Content}
	}
	return out
}

// Len reports the number of frames currently held.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.frames)
}

// Restore replaces the history contents with the given frames, applying
// the bound.
func (h *History) Restore(frames []Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.max > 0 && len(frames) > h.max {
		frames = frames[len(frames)-h.max:]
	}
	h.frames = make([]Frame, len(frames))
	copy(h.frames, frames)
}

// Reset discards all frames.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames = nil
}
