package tf2

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Gobot1234/steam-ext-tf2/internal/config"
	"github.com/Gobot1234/steam-ext-tf2/internal/events"
	"github.com/Gobot1234/steam-ext-tf2/internal/protobufs"
	"github.com/Gobot1234/steam-ext-tf2/internal/protocol"
	"github.com/Gobot1234/steam-ext-tf2/internal/schemacache"
	"github.com/Gobot1234/steam-ext-tf2/internal/util"
)

// handlerFunc processes one inbound GC message body (header already
// stripped). Handlers that suspend (REST fetches, waits) run on their
// own goroutine; fast handlers run inline on the dispatch path.
type handlerFunc func(ctx context.Context, body []byte)

// GCState is the session engine: it tracks the GC connection state
// machine, dispatches inbound messages by Language code, and keeps the
// backpack mirror consistent with the shared object cache.
type GCState struct {
	log zerolog.Logger
	cfg *config.Config

	transport Transport
	fetcher   InventoryFetcher
	httpc     HTTPDoer
	bus       *events.Bus
	cache     *schemacache.Store

	appID     uint32
	accountID uint64

	mu          sync.Mutex
	established bool
	ready       bool
	connectedCh chan struct{}
	readyCh     chan struct{}
	gcVersion   uint32

	backpack       *BackPack
	backpackSlots  int
	isPremium      bool
	hasAccountMeta bool

	craftResp *protocol.CraftResponse

	schemaMu sync.RWMutex
	schema   *Schema

	restart singleflight.Group
	craftMu sync.Mutex

	handlers map[Language]handlerFunc
}

// NewGCState builds a session engine. fetcher, httpc, cache and bus
// may each be nil: a nil fetcher disables backpack reconstruction, a
// nil httpc/cache disables schema loading, a nil bus drops events.
func NewGCState(cfg *config.Config, transport Transport, fetcher InventoryFetcher, httpc HTTPDoer, bus *events.Bus, cache *schemacache.Store) *GCState {
	gc := cfg.GetGCData()
	s := &GCState{
		log:         util.ComponentLogger("gc-state"),
		cfg:         cfg,
		transport:   transport,
		fetcher:     fetcher,
		httpc:       httpc,
		bus:         bus,
		cache:       cache,
		appID:       gc.AppID,
		accountID:   gc.AccountID,
		connectedCh: make(chan struct{}),
		readyCh:     make(chan struct{}),
	}
	s.handlers = map[Language]handlerFunc{
		LanguageClientWelcome:              s.handleClientWelcome,
		LanguageServerWelcome:              s.handleServerWelcome,
		LanguageClientGoodbye:              s.handleClientGoodbye,
		LanguageServerGoodbye:              s.handleServerGoodbye,
		LanguageSystemMessage:              s.handleSystemMessage,
		LanguageClientDisplayNotification:  s.handleDisplayNotification,
		LanguageUpdateItemSchema:           s.handleUpdateItemSchema,
		LanguageSOCacheSubscribed:          s.handleCacheSubscribed,
		LanguageSOCacheUnsubscribed:        s.handleCacheUnsubscribed,
		LanguageSOCacheSubscriptionCheck:   s.handleSubscriptionCheck,
		LanguageSOCacheSubscribedUpToDate:  s.handleCacheUpToDate,
		LanguageSOCreate:                   s.handleSOCreate,
		LanguageSOUpdate:                   s.handleSOUpdate,
		LanguageSOUpdateMultiple:           s.handleSOUpdateMultiple,
		LanguageSODestroy:                  s.handleSODestroy,
		LanguageCraftResponse:              s.handleCraftResponse,
	}
	return s
}

// Handle dispatches one inbound GC envelope. Messages addressed to a
// different app are ignored without logging; unknown message types are
// logged and dropped.
func (s *GCState) Handle(ctx context.Context, env *protobufs.GCClient) {
	if env.AppID != s.appID {
		return
	}

	lang := Language(protocol.ClearProtoMask(env.MsgType))
	var body []byte
	var err error
	if protocol.IsProto(env.MsgType) {
		_, body, err = protocol.SplitProto(env.Payload)
	} else {
		_, body, err = protocol.SplitStruct(env.Payload)
	}
	if err != nil {
		// A subscription check with a mangled payload still has to
		// trigger the refresh, the rest of it is not needed.
		if lang == LanguageSOCacheSubscriptionCheck {
			s.log.Debug().Err(err).Msg("undecodable subscription check, refreshing anyway")
			s.sendSubscriptionRefresh()
			return
		}
		s.log.Error().
			Err(err).
			Stringer("language", lang).
			Str("payload", hex.EncodeToString(env.Payload)).
			Msg("failed to split GC message")
		return
	}

	handler, ok := s.handlers[lang]
	if !ok {
		if _, known := languageNames[lang]; known {
			s.log.Debug().Stringer("language", lang).Msg("no handler registered")
		} else {
			s.log.Info().Uint32("msg_type", uint32(lang)).Msg("unknown GC message type")
		}
		return
	}
	handler(ctx, body)
}

// decodeError logs a payload that failed to decode for a registered
// type. The connection is never torn down over one bad message.
func (s *GCState) decodeError(lang Language, body []byte, err error) {
	s.log.Error().
		Err(err).
		Stringer("language", lang).
		Str("payload", hex.EncodeToString(body)).
		Msg("failed to decode GC message")
}

// Session handshake ----------------------------------------------------

func (s *GCState) handleClientWelcome(ctx context.Context, body []byte) {
	var msg protobufs.ClientWelcome
	if err := msg.Unmarshal(body); err != nil {
		s.decodeError(LanguageClientWelcome, body, err)
		return
	}
	s.setConnected(ctx, msg.Version)
}

func (s *GCState) handleServerWelcome(ctx context.Context, body []byte) {
	var msg protobufs.ServerWelcome
	if err := msg.Unmarshal(body); err != nil {
		s.decodeError(LanguageServerWelcome, body, err)
		return
	}
	s.setConnected(ctx, msg.ActiveVersion)
}

func (s *GCState) handleClientGoodbye(ctx context.Context, body []byte) {
	var msg protobufs.ClientGoodbye
	if err := msg.Unmarshal(body); err != nil {
		s.decodeError(LanguageClientGoodbye, body, err)
		return
	}
	s.clearSession(ctx, msg.Reason)
}

func (s *GCState) handleServerGoodbye(ctx context.Context, body []byte) {
	var msg protobufs.ServerGoodbye
	if err := msg.Unmarshal(body); err != nil {
		s.decodeError(LanguageServerGoodbye, body, err)
		return
	}
	s.clearSession(ctx, msg.Reason)
}

// setConnected marks the session established and emits gc_connect once
// per session. Repeated welcomes within one session are absorbed.
func (s *GCState) setConnected(ctx context.Context, version uint32) {
	s.mu.Lock()
	if s.established {
		s.mu.Unlock()
		return
	}
	s.established = true
	s.gcVersion = version
	close(s.connectedCh)
	s.mu.Unlock()

	s.log.Info().Uint32("version", version).Msg("GC session established")
	s.emit(ctx, events.EventGCConnect, events.SessionPayload{Version: version})
}

// clearSession drops the established and ready flags and resets their
// wait channels so the next session starts clean.
func (s *GCState) clearSession(ctx context.Context, reason int64) {
	s.mu.Lock()
	wasEstablished := s.established
	s.established = false
	s.ready = false
	s.connectedCh = make(chan struct{})
	s.readyCh = make(chan struct{})
	s.mu.Unlock()

	if !wasEstablished {
		return
	}
	s.log.Info().Int64("reason", reason).Msg("GC session closed")
	s.emit(ctx, events.EventGCDisconnect, events.SessionPayload{Reason: reason})
}

// markReady sets the ready flag after the first cache snapshot of a
// session has been merged. Idempotent within a session.
func (s *GCState) markReady(ctx context.Context) {
	s.mu.Lock()
	if !s.established || s.ready {
		s.mu.Unlock()
		return
	}
	s.ready = true
	close(s.readyCh)
	s.mu.Unlock()

	s.log.Info().Msg("GC session ready")
	s.emit(ctx, events.EventGCReady, nil)
}

func (s *GCState) clearReady() {
	s.mu.Lock()
	if s.ready {
		s.ready = false
		s.readyCh = make(chan struct{})
	}
	s.mu.Unlock()
}

// Established reports whether a Welcome has been seen for the current
// session.
func (s *GCState) Established() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.established
}

// Ready reports whether the session has merged its first cache
// snapshot.
func (s *GCState) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Version returns the GC version from the welcome message.
func (s *GCState) Version() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gcVersion
}

// WaitConnected blocks until the session is established or ctx is
// done.
func (s *GCState) WaitConnected(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.established {
			s.mu.Unlock()
			return nil
		}
		ch := s.connectedCh
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

// WaitReady blocks until the session is ready or ctx is done.
func (s *GCState) WaitReady(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.ready {
			s.mu.Unlock()
			return nil
		}
		ch := s.readyCh
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

// Notifications --------------------------------------------------------

func (s *GCState) handleSystemMessage(ctx context.Context, body []byte) {
	var msg protobufs.SystemBroadcast
	if err := msg.Unmarshal(body); err != nil {
		s.decodeError(LanguageSystemMessage, body, err)
		return
	}
	s.log.Info().Str("message", msg.Message).Msg("system broadcast")
	s.emit(ctx, events.EventSystemMessage, events.SystemMessagePayload{Message: msg.Message})
}

func (s *GCState) handleDisplayNotification(ctx context.Context, body []byte) {
	var msg protobufs.ClientDisplayNotification
	if err := msg.Unmarshal(body); err != nil {
		s.decodeError(LanguageClientDisplayNotification, body, err)
		return
	}
	s.emit(ctx, events.EventDisplayNotification, events.DisplayNotificationPayload{
		TitleKey:        msg.TitleLocalizationKey,
		BodyKey:         msg.BodyLocalizationKey,
		SubstringKeys:   msg.BodySubstringKeys,
		SubstringValues: msg.BodySubstringValues,
	})
}

// Schema ---------------------------------------------------------------

func (s *GCState) handleUpdateItemSchema(ctx context.Context, body []byte) {
	var msg protobufs.UpdateItemSchema
	if err := msg.Unmarshal(body); err != nil {
		s.decodeError(LanguageUpdateItemSchema, body, err)
		return
	}
	go s.loadSchema(ctx, msg.ItemSchemaVersion, msg.ItemsGameURL)
}

// loadSchema obtains the schema document for a version, from the local
// cache when possible, and installs the parsed schema.
func (s *GCState) loadSchema(ctx context.Context, version uint32, url string) {
	s.schemaMu.RLock()
	current := s.schema
	s.schemaMu.RUnlock()
	if current != nil && current.Version == version {
		return
	}

	var body []byte
	if s.cache != nil {
		cached, err := s.cache.Get(version)
		if err != nil {
			s.log.Warn().Err(err).Uint32("version", version).Msg("schema cache read failed")
		}
		body = cached
	}

	if body == nil {
		if s.httpc == nil || url == "" {
			s.log.Debug().Uint32("version", version).Msg("no way to fetch schema, skipping")
			return
		}
		fetched, err := s.fetchSchema(ctx, url)
		if err != nil {
			s.log.Error().Err(err).Str("url", url).Msg("schema download failed")
			return
		}
		body = fetched
		if s.cache != nil {
			if err := s.cache.Put(version, url, body); err != nil {
				s.log.Warn().Err(err).Uint32("version", version).Msg("schema cache write failed")
			} else if err := s.cache.Prune(version); err != nil {
				s.log.Warn().Err(err).Uint32("version", version).Msg("schema cache prune failed")
			}
		}
	}

	schema, err := ParseSchema(version, url, body)
	if err != nil {
		s.log.Error().Err(err).Uint32("version", version).Msg("schema parse failed")
		return
	}

	s.schemaMu.Lock()
	s.schema = schema
	s.schemaMu.Unlock()
	s.log.Info().Uint32("version", version).Int("items", schema.Len()).Msg("item schema loaded")
}

func (s *GCState) fetchSchema(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("schema request: %w", err)
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("schema fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("schema fetch: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("schema fetch: %w", err)
	}
	return body, nil
}

// Schema returns the currently installed item schema, or nil when none
// has been loaded yet.
func (s *GCState) Schema() *Schema {
	s.schemaMu.RLock()
	defer s.schemaMu.RUnlock()
	return s.schema
}

func (s *GCState) schemaItemName(defIndex uint32) string {
	s.schemaMu.RLock()
	defer s.schemaMu.RUnlock()
	return s.schema.ItemName(defIndex)
}

// Shared object cache --------------------------------------------------

func (s *GCState) handleCacheSubscribed(ctx context.Context, body []byte) {
	var msg protobufs.SOCacheSubscribed
	if err := msg.Unmarshal(body); err != nil {
		s.decodeError(LanguageSOCacheSubscribed, body, err)
		return
	}
	if msg.Owner != s.accountID {
		s.log.Debug().Uint64("owner", msg.Owner).Msg("cache snapshot for another owner, ignoring")
		return
	}
	// Merging suspends on REST fetches, so the snapshot is processed
	// off the dispatch path; ready is set once the merge completes.
	go func() {
		s.processSnapshot(ctx, &msg)
		s.markReady(ctx)
	}()
}

func (s *GCState) handleCacheUnsubscribed(ctx context.Context, body []byte) {
	var msg protobufs.SOCacheUnsubscribed
	if err := msg.Unmarshal(body); err != nil {
		s.decodeError(LanguageSOCacheUnsubscribed, body, err)
		return
	}
	if msg.Owner != s.accountID {
		return
	}
	s.log.Debug().Msg("cache subscription lapsed")
	s.clearReady()
}

func (s *GCState) handleSubscriptionCheck(ctx context.Context, body []byte) {
	var msg protobufs.SOCacheSubscriptionCheck
	if err := msg.Unmarshal(body); err != nil {
		// Known to arrive mangled; the refresh below is all that
		// matters.
		s.log.Debug().Err(err).Msg("undecodable subscription check payload")
	}
	s.sendSubscriptionRefresh()
}

func (s *GCState) handleCacheUpToDate(ctx context.Context, body []byte) {
	s.log.Debug().Msg("cache subscription up to date")
}

func (s *GCState) sendSubscriptionRefresh() {
	msg := &protobufs.SOCacheSubscriptionRefresh{Owner: s.accountID}
	if err := s.sendProto(LanguageSOCacheSubscriptionRefresh, msg); err != nil {
		s.log.Error().Err(err).Msg("failed to request cache refresh")
	}
}

func (s *GCState) handleSOCreate(ctx context.Context, body []byte) {
	obj, ok := s.decodeSingleObject(LanguageSOCreate, body)
	if !ok {
		return
	}
	s.applySingleObject(ctx, obj, events.EventItemReceive)
}

func (s *GCState) handleSOUpdate(ctx context.Context, body []byte) {
	obj, ok := s.decodeSingleObject(LanguageSOUpdate, body)
	if !ok {
		return
	}
	s.applySingleObject(ctx, obj, events.EventItemUpdate)
}

func (s *GCState) decodeSingleObject(lang Language, body []byte) (*protobufs.SOSingleObject, bool) {
	var msg protobufs.SOSingleObject
	if err := msg.Unmarshal(body); err != nil {
		s.decodeError(lang, body, err)
		return nil, false
	}
	if msg.Owner != s.accountID {
		return nil, false
	}
	return &msg, true
}

// applySingleObject routes one shared-object blob to the item or
// account reconciler by type id.
func (s *GCState) applySingleObject(ctx context.Context, obj *protobufs.SOSingleObject, event events.Type) {
	switch obj.TypeID {
	case protobufs.SOTypeItem:
		var it protobufs.Item
		if err := it.Unmarshal(obj.ObjectData); err != nil {
			s.decodeError(LanguageSOCreate, obj.ObjectData, err)
			return
		}
		go s.mergeAndEmit(ctx, []protobufs.Item{it}, false, event)
	case protobufs.SOTypeGameAccountClient:
		var acct protobufs.GameAccountClient
		if err := acct.Unmarshal(obj.ObjectData); err != nil {
			s.decodeError(LanguageSOCreate, obj.ObjectData, err)
			return
		}
		s.applyAccountMetadata(ctx, &acct)
	default:
		s.log.Debug().Int32("type_id", obj.TypeID).Msg("unhandled shared object type")
	}
}

func (s *GCState) handleSOUpdateMultiple(ctx context.Context, body []byte) {
	var msg protobufs.SOMultipleObjects
	if err := msg.Unmarshal(body); err != nil {
		s.decodeError(LanguageSOUpdateMultiple, body, err)
		return
	}
	if msg.Owner != s.accountID {
		return
	}

	var items []protobufs.Item
	for _, obj := range msg.Objects {
		switch obj.TypeID {
		case protobufs.SOTypeItem:
			var it protobufs.Item
			if err := it.Unmarshal(obj.ObjectData); err != nil {
				s.decodeError(LanguageSOUpdateMultiple, obj.ObjectData, err)
				continue
			}
			items = append(items, it)
		case protobufs.SOTypeGameAccountClient:
			var acct protobufs.GameAccountClient
			if err := acct.Unmarshal(obj.ObjectData); err != nil {
				s.decodeError(LanguageSOUpdateMultiple, obj.ObjectData, err)
				continue
			}
			s.applyAccountMetadata(ctx, &acct)
		default:
			s.log.Debug().Int32("type_id", obj.TypeID).Msg("unhandled shared object type in batch")
		}
	}
	if len(items) > 0 {
		go s.mergeAndEmit(ctx, items, false, events.EventItemUpdate)
	}
}

func (s *GCState) handleSODestroy(ctx context.Context, body []byte) {
	obj, ok := s.decodeSingleObject(LanguageSODestroy, body)
	if !ok {
		return
	}
	if obj.TypeID != protobufs.SOTypeItem {
		return
	}
	var it protobufs.Item
	if err := it.Unmarshal(obj.ObjectData); err != nil {
		s.decodeError(LanguageSODestroy, obj.ObjectData, err)
		return
	}
	s.destroyItem(ctx, it)
}

// Account metadata -----------------------------------------------------

// applyAccountMetadata recomputes backpack capacity and premium status
// and emits account_update only when either value actually changed.
// The stream repeats identical metadata often enough that unconditional
// emission would be a notification storm.
func (s *GCState) applyAccountMetadata(ctx context.Context, acct *protobufs.GameAccountClient) {
	base := 300
	if acct.TrialAccount {
		base = 50
	}
	slots := base + int(acct.AdditionalBackpackSlots)
	premium := !acct.TrialAccount

	s.mu.Lock()
	changed := !s.hasAccountMeta || slots != s.backpackSlots || premium != s.isPremium
	s.backpackSlots = slots
	s.isPremium = premium
	s.hasAccountMeta = true
	s.mu.Unlock()

	if !changed {
		return
	}
	s.log.Info().Int("slots", slots).Bool("premium", premium).Msg("account metadata changed")
	s.emit(ctx, events.EventAccountUpdate, events.AccountUpdatePayload{
		BackpackSlots: slots,
		IsPremium:     premium,
	})
}

// BackpackSlots returns the derived backpack capacity.
func (s *GCState) BackpackSlots() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backpackSlots
}

// IsPremium reports whether the account is a full (non-trial) account.
func (s *GCState) IsPremium() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isPremium
}

// Backpack returns the live backpack mirror, or nil before the first
// merge.
func (s *GCState) Backpack() *BackPack {
	return s.backpackRef()
}

func (s *GCState) backpackRef() *BackPack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backpack
}

// Crafting response intake ---------------------------------------------

func (s *GCState) handleCraftResponse(ctx context.Context, body []byte) {
	var resp protocol.CraftResponse
	if err := resp.Unmarshal(body); err != nil {
		s.decodeError(LanguageCraftResponse, body, err)
		return
	}
	s.mu.Lock()
	s.craftResp = &resp
	s.mu.Unlock()
	s.log.Debug().Int("items", len(resp.IDList)).Int16("recipe", resp.RecipeID).Msg("craft response received")
}

// Outbound helpers -----------------------------------------------------

// sendStruct frames and sends a struct-bodied message. Item operations
// are fire and forget, so no caller context flows in here.
func (s *GCState) sendStruct(lang Language, body []byte) error {
	framed := protocol.FrameStruct(body)
	if err := s.transport.SendGC(context.Background(), s.appID, uint32(lang), framed); err != nil {
		return fmt.Errorf("send %s: %w", lang, err)
	}
	return nil
}

// sendProto frames and sends a protobuf-bodied message with the proto
// bit set on the envelope message type.
func (s *GCState) sendProto(lang Language, msg protobufs.Message) error {
	framed := protocol.FrameProto(uint32(lang), nil, msg.Marshal())
	if err := s.transport.SendGC(context.Background(), s.appID, protocol.SetProtoMask(uint32(lang)), framed); err != nil {
		return fmt.Errorf("send %s: %w", lang, err)
	}
	return nil
}

// SendHello sends one ClientHello keep-alive.
func (s *GCState) SendHello() error {
	return s.sendProto(LanguageClientHello, &protobufs.ClientHello{Version: s.cfg.GetGCData().Version})
}

// SendGoodbye announces a logical session teardown.
func (s *GCState) SendGoodbye() error {
	return s.sendProto(LanguageClientGoodbye, &protobufs.ClientGoodbye{Reason: int64(GoodbyeNoSession)})
}

func (s *GCState) emit(ctx context.Context, t events.Type, payload interface{}) {
	if s.bus == nil {
		return
	}
	s.bus.Emit(ctx, events.Event{Type: t, Source: "gc-state", Payload: payload})
}

// craftPoll is the interval at which waiters re-check for a craft
// response or for merged items.
const craftPoll = 100 * time.Millisecond
