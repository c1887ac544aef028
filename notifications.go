package tutorsync

import (
	"github.com/tutorlink/tutorsync/pkg/event"
	"github.com/tutorlink/tutorsync/pkg/models"
	"github.com/tutorlink/tutorsync/pkg/store"
)

// CreateNotification addresses a notification to a user and forwards it for
// delivery. The local copy makes the notification visible immediately when
// the addressee is on this client.
func (e *Engine) CreateNotification(userID, typ, text string) models.Notification {
	n := models.NewNotification(userID, typ, text)

	e.store.Update(func(d *store.Data) []store.Collection {
		d.Notifications = append(d.Notifications, n)
		return []store.Collection{store.Notifications}
	})

	e.emit(event.CreateNotification, n)

	return n
}

// MarkNotificationRead flips the read flag. The flag only ever moves from
// false to true; marking an already-read notification changes nothing and
// sends nothing.
func (e *Engine) MarkNotificationRead(id string) {
	changed := false
	e.store.Update(func(d *store.Data) []store.Collection {
		n := d.Notification(id)
		if n == nil || n.IsRead {
			return nil
		}
		n.IsRead = true
		changed = true
		return []store.Collection{store.Notifications}
	})

	if changed {
		e.emit(event.MarkNotificationAsRead, id)
	}
}

// MarkAllNotificationsRead marks every unread notification addressed to the
// user. A no-op when there is nothing unread.
func (e *Engine) MarkAllNotificationsRead(userID string) {
	changed := false
	e.store.Update(func(d *store.Data) []store.Collection {
		for i := range d.Notifications {
			if d.Notifications[i].UserID == userID && !d.Notifications[i].IsRead {
				d.Notifications[i].IsRead = true
				changed = true
			}
		}
		if !changed {
			return nil
		}
		return []store.Collection{store.Notifications}
	})

	if changed {
		e.emit(event.MarkAllNotificationsAsRead, userID)
	}
}
