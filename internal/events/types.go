// Package events implements the publish-subscribe backbone that carries
// Game Coordinator domain events from the session engine to listeners.
package events

// Type names a GC domain event.
type Type string

const (
	// Session lifecycle
	EventGCConnect    Type = "gc_connect"
	EventGCDisconnect Type = "gc_disconnect"
	EventGCReady      Type = "gc_ready"

	// Backpack
	EventItemReceive    Type = "item_receive"
	EventItemRemove     Type = "item_remove"
	EventItemUpdate     Type = "item_update"
	EventBackpackUpdate Type = "backpack_update"
	EventAccountUpdate  Type = "account_update"

	// Crafting
	EventCraftingComplete Type = "crafting_complete"

	// Notifications
	EventSystemMessage       Type = "system_message"
	EventDisplayNotification Type = "display_notification"
)

// Event is a single domain event. Payload shape depends on Type; the
// typed payload structs below document the contract per event.
type Event struct {
	Type    Type
	Source  string
	Payload interface{}
}

// SessionPayload accompanies gc_connect and gc_disconnect. Version is
// the GC version from the welcome message (zero on disconnect) and
// Reason the goodbye reason code (zero on connect).
type SessionPayload struct {
	Version uint32
	Reason  int64
}

// SystemMessagePayload accompanies system_message.
type SystemMessagePayload struct {
	Message string
}

// DisplayNotificationPayload accompanies display_notification. Title
// and Body carry localization keys; resolving them against a language
// file is the caller's concern.
type DisplayNotificationPayload struct {
	TitleKey        string
	BodyKey         string
	SubstringKeys   []string
	SubstringValues []string
}

// AccountUpdatePayload accompanies account_update; emitted only when
// one of the two values actually changed.
type AccountUpdatePayload struct {
	BackpackSlots int
	IsPremium     bool
}
