package tf2

import (
	"context"
	"net/http"
)

// Transport is the narrow surface this package consumes from the host
// Steam client. Outbound GC messages are handed over already framed;
// the transport wraps them in the outer client-to-GC envelope and owns
// delivery, reconnects and keep-alives.
type Transport interface {
	// SendGC sends one framed GC message for the given app. msgType
	// carries the proto bit when the body is protobuf framed.
	SendGC(ctx context.Context, appID, msgType uint32, body []byte) error

	// ChangeGames replaces the session's advertised played-games list.
	// Used by the session-restart recovery path, which toggles the
	// game off and back on.
	ChangeGames(ctx context.Context, appIDs []uint32) error
}

// HTTPDoer issues authenticated HTTP requests on behalf of the engine.
// It is used once per schema version, to download the item schema
// document from the URL the server announces.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
