// Package notify delivers user-facing notifications: blocking alerts and
// success / warning / error toasts.
package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Messages shown when the backend is unreachable or returns garbage.
const (
	MsgProductsUnavailable = "Could not fetch products. Check that the backend is running, reachable and returns valid JSON."
	MsgCartUnavailable     = "Could not fetch cart details. Check that the backend is running, reachable and returns valid JSON."
	MsgLoginUnavailable    = "Something went wrong. Check that the backend is running, reachable and returns valid JSON."
)

// Level classifies a notification.
type Level string

const (
	LevelAlert   Level = "alert"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier is how components surface outcomes to the shopper.
type Notifier interface {
	// Alert is a blocking alert the shopper must acknowledge.
	Alert(msg string)
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}

// Console prints notifications to w and mirrors them into the log.
type Console struct {
	mu  sync.Mutex
	w   io.Writer
	log *zap.Logger
}

// NewConsole builds a Console. log may be nil.
func NewConsole(w io.Writer, log *zap.Logger) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{w: w, log: log}
}

func (c *Console) Alert(msg string)   { c.emit(LevelAlert, "!!", msg) }
func (c *Console) Success(msg string) { c.emit(LevelSuccess, "ok", msg) }
func (c *Console) Warn(msg string)    { c.emit(LevelWarning, "warn", msg) }
func (c *Console) Error(msg string)   { c.emit(LevelError, "error", msg) }

func (c *Console) emit(level Level, tag, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "[%s] %s\n", tag, msg)
	c.log.Info("notification", zap.String("level", string(level)), zap.String("message", msg))
}

// Notification is one recorded call.
type Notification struct {
	Level   Level
	Message string
}

// Recorder collects notifications in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Alert(msg string)   { r.add(LevelAlert, msg) }
func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Warn(msg string)    { r.add(LevelWarning, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: msg})
}

// All returns a copy of everything recorded so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Last returns the most recent notification and whether there was one.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}
