// Package tf2 implements the Team Fortress 2 Game Coordinator session
// engine: the GC message envelope codec, the per-message-type dispatch
// table, and the stateful reconciliation of the server's shared object
// cache into a locally consistent backpack view.
//
// The package does not own a network connection. A host Steam client
// provides a Transport for outbound envelopes and feeds inbound ones
// into Client.HandleMessage; the engine tracks the session state
// machine (hello/welcome/goodbye), merges item deltas, and exposes
// typed operations such as Craft alongside fire-and-forget item
// requests (use, delete, wrap, equip, sort).
//
// Domain events (gc_connect, gc_ready, item_receive, item_update,
// item_remove, account_update, crafting_complete and friends) are
// published on an event bus that callers subscribe to by name.
package tf2
