package state

// NotificationLevel classifies a transient notification.
type NotificationLevel string

const (
	NotifyInfo    NotificationLevel = "info"
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
)

// Notification is a transient message surfaced by the view layer.
type Notification struct {
	ID      int
	Level   NotificationLevel
	Message string
}

// ConfirmDialog is a pending confirmation the view must resolve before
// a destructive command proceeds.
type ConfirmDialog struct {
	Open    bool
	Message string
}

// UIState holds view-layer concerns unrelated to server data.
type UIState struct {
	Notifications []Notification
	Confirm       ConfirmDialog
	DarkMode      bool
	nextNotifyID  int
}

func initialUIState() UIState {
	return UIState{Notifications: []Notification{}}
}

type PushNotification struct {
	Level   NotificationLevel
	Message string
}
type DismissNotification struct{ ID int }
type ClearNotifications struct{}
type OpenConfirm struct{ Message string }
type CloseConfirm struct{}
type ToggleDarkMode struct{}

func (PushNotification) actionName() string    { return "ui/pushNotification" }
func (DismissNotification) actionName() string { return "ui/dismissNotification" }
func (ClearNotifications) actionName() string  { return "ui/clearNotifications" }
func (OpenConfirm) actionName() string         { return "ui/openConfirm" }
func (CloseConfirm) actionName() string        { return "ui/closeConfirm" }
func (ToggleDarkMode) actionName() string      { return "ui/toggleDarkMode" }

func reduceUI(s UIState, action Action) UIState {
	switch a := action.(type) {
	case PushNotification:
		s.nextNotifyID++
		notifications := make([]Notification, len(s.Notifications), len(s.Notifications)+1)
		copy(notifications, s.Notifications)
		s.Notifications = append(notifications, Notification{
			ID:      s.nextNotifyID,
			Level:   a.Level,
			Message: a.Message,
		})
	case DismissNotification:
		notifications := make([]Notification, 0, len(s.Notifications))
		for _, n := range s.Notifications {
			if n.ID != a.ID {
				notifications = append(notifications, n)
			}
		}
		s.Notifications = notifications
	case ClearNotifications:
		s.Notifications = []Notification{}
	case OpenConfirm:
		s.Confirm = ConfirmDialog{Open: true, Message: a.Message}
	case CloseConfirm:
		s.Confirm = ConfirmDialog{}
	case ToggleDarkMode:
		s.DarkMode = !s.DarkMode
	}
	return s
}
