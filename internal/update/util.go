package update

import (
	"strings"
	"time"

	"github.com/sandeepkv93/habitd/internal/views"
	"go.uber.org/zap"
)

// notificationLimit caps the in-memory notification history.
const notificationLimit = 40

var timeNow = time.Now

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    timeNow(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > notificationLimit {
		m.Notifications = trimNotifications(m.Notifications, notificationLimit)
	}
	if !m.DesktopEnabled || m.notifier == nil || !desktopWorthy(level) {
		return
	}
	if err := m.notifier.Send(n); err != nil {
		m.log.Debug("desktop notification", zap.Error(err))
	}
}

// trimNotifications keeps the newest limit entries in a new backing array so the dropped
// ones can be collected.
func trimNotifications(items []Notification, limit int) []Notification {
	if len(items) <= limit {
		return items
	}
	out := make([]Notification, limit, limit+limit/2)
	copy(out, items[len(items)-limit:])
	return out
}

func desktopWorthy(level string) bool {
	return level == "levelup" || level == "leveldown"
}

func (m Model) renderNotificationsView() string {
	items := make([]views.NotificationData, 0, len(m.Notifications))
	for _, n := range m.Notifications {
		items = append(items, views.NotificationData{
			At:    n.At.Format("15:04"),
			Title: n.Title,
			Body:  n.Body,
			Level: n.Level,
		})
	}
	return views.RenderNotifications(items, 4)
}
