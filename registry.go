package tf2

import (
	"github.com/Gobot1234/steam-ext-tf2/internal/protobufs"
	"github.com/Gobot1234/steam-ext-tf2/internal/protocol"
)

// protoMessages maps each protobuf-framed Language to its body
// constructor. Used by the dispatch diagnostics and by capture
// tooling; the handlers themselves decode concrete types.
var protoMessages = map[Language]func() protobufs.Message{
	LanguageSOCreate:                   func() protobufs.Message { return new(protobufs.SOSingleObject) },
	LanguageSOUpdate:                   func() protobufs.Message { return new(protobufs.SOSingleObject) },
	LanguageSODestroy:                  func() protobufs.Message { return new(protobufs.SOSingleObject) },
	LanguageSOCacheSubscribed:          func() protobufs.Message { return new(protobufs.SOCacheSubscribed) },
	LanguageSOCacheUnsubscribed:        func() protobufs.Message { return new(protobufs.SOCacheUnsubscribed) },
	LanguageSOUpdateMultiple:           func() protobufs.Message { return new(protobufs.SOMultipleObjects) },
	LanguageSOCacheSubscriptionCheck:   func() protobufs.Message { return new(protobufs.SOCacheSubscriptionCheck) },
	LanguageSOCacheSubscriptionRefresh: func() protobufs.Message { return new(protobufs.SOCacheSubscriptionRefresh) },
	LanguageUseItemRequest:             func() protobufs.Message { return new(protobufs.UseItem) },
	LanguageSortItems:                  func() protobufs.Message { return new(protobufs.SortItems) },
	LanguageUpdateItemSchema:           func() protobufs.Message { return new(protobufs.UpdateItemSchema) },
	LanguageAdjustItemEquippedState:    func() protobufs.Message { return new(protobufs.AdjustItemEquippedState) },
	LanguageClientDisplayNotification:  func() protobufs.Message { return new(protobufs.ClientDisplayNotification) },
	LanguageSetItemPositions:           func() protobufs.Message { return new(protobufs.SetItemPositions) },
	LanguageSystemMessage:              func() protobufs.Message { return new(protobufs.SystemBroadcast) },
	LanguageClientWelcome:              func() protobufs.Message { return new(protobufs.ClientWelcome) },
	LanguageServerWelcome:              func() protobufs.Message { return new(protobufs.ServerWelcome) },
	LanguageClientHello:                func() protobufs.Message { return new(protobufs.ClientHello) },
	LanguageClientGoodbye:              func() protobufs.Message { return new(protobufs.ClientGoodbye) },
	LanguageServerGoodbye:              func() protobufs.Message { return new(protobufs.ServerGoodbye) },
}

// ProtoMessageFor returns a fresh protobuf body for a Language, or
// false when the type is struct framed or unregistered.
func ProtoMessageFor(l Language) (protobufs.Message, bool) {
	ctor, ok := protoMessages[l]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// StructMessage is a struct-framed message body.
type StructMessage interface {
	Marshal() []byte
	Unmarshal(data []byte) error
}

var structMessages = map[Language]func() StructMessage{
	LanguageCraft:             func() StructMessage { return new(protocol.CraftRequest) },
	LanguageCraftResponse:     func() StructMessage { return new(protocol.CraftResponse) },
	LanguageDelete:            func() StructMessage { return new(protocol.DeleteItemRequest) },
	LanguageUnlockCrate:       func() StructMessage { return new(protocol.OpenCrateRequest) },
	LanguageGiftWrapItem:      func() StructMessage { return new(protocol.WrapItemRequest) },
	LanguageDeliverGift:       func() StructMessage { return new(protocol.DeliverGiftRequest) },
	LanguageUnwrapGiftRequest: func() StructMessage { return new(protocol.UnwrapItemRequest) },
	LanguageSetItemStyle:      func() StructMessage { return new(protocol.SetItemStyleRequest) },
}

// StructMessageFor returns a fresh struct body for a Language, or
// false when the type is protobuf framed or unregistered.
func StructMessageFor(l Language) (StructMessage, bool) {
	ctor, ok := structMessages[l]
	if !ok {
		return nil, false
	}
	return ctor(), true
}
