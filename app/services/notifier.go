package services

import (
	"sync"

	"go.uber.org/zap"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Notification struct {
	Status   string
	Message  string
	EntityID string
	Field    string
}

type Notifier interface {
	Notify(n Notification)
}

type NopNotifier struct{}

func (NopNotifier) Notify(Notification) {}

// LogNotifier writes notifications to the log. The web console uses it since
// the toggle endpoint already returns the outcome to the page.
type LogNotifier struct {
	Logger *zap.Logger
}

func (l LogNotifier) Notify(n Notification) {
	if l.Logger == nil {
		return
	}
	l.Logger.Info("toggle notification",
		zap.String("status", n.Status),
		zap.String("entity_id", n.EntityID),
		zap.String("field", n.Field),
		zap.String("message", n.Message))
}

// NotificationRecorder keeps every notification it receives, in order.
type NotificationRecorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *NotificationRecorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *NotificationRecorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

func (r *NotificationRecorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}
