package tf2

import "fmt"

// Language is the Game Coordinator message-type code. The full registry
// runs to hundreds of values; the ones defined here are those the
// session engine has behaviour for, plus their immediate neighbours.
// The proto bit on the outer envelope msgtype is not part of the
// Language value and must be cleared before lookup.
type Language uint32

const (
	// Shared object cache framing
	LanguageSOCreate                   Language = 21
	LanguageSOUpdate                   Language = 22
	LanguageSODestroy                  Language = 23
	LanguageSOCacheSubscribed          Language = 24
	LanguageSOCacheUnsubscribed        Language = 25
	LanguageSOUpdateMultiple           Language = 26
	LanguageSOCacheSubscriptionCheck   Language = 27
	LanguageSOCacheSubscriptionRefresh Language = 28
	LanguageSOCacheSubscribedUpToDate  Language = 29

	// Item economy requests and responses
	LanguageBase                      Language = 1000
	LanguageSetSingleItemPosition     Language = 1001
	LanguageCraft                     Language = 1002
	LanguageCraftResponse             Language = 1003
	LanguageDelete                    Language = 1004
	LanguageVerifyCacheSubscription   Language = 1005
	LanguageNameItem                  Language = 1006
	LanguageUnlockCrate               Language = 1007
	LanguageUnlockCrateResponse       Language = 1008
	LanguageUseItemRequest            Language = 1025
	LanguageUseItemResponse           Language = 1026
	LanguageGiftWrapItem              Language = 1032
	LanguageGiftWrapItemResponse      Language = 1033
	LanguageDeliverGift               Language = 1034
	LanguageUnwrapGiftRequest         Language = 1037
	LanguageUnwrapGiftResponse        Language = 1038
	LanguageSetItemStyle              Language = 1039
	LanguageSortItems                 Language = 1041
	LanguageUpdateItemSchema          Language = 1049
	LanguageRequestInventoryRefresh   Language = 1050
	LanguageBackpackSortFinished      Language = 1058
	LanguageAdjustItemEquippedState   Language = 1059
	LanguageItemAcknowledged          Language = 1062
	LanguageNameItemNotification      Language = 1068
	LanguageClientDisplayNotification Language = 1069
	LanguageGiftedItems               Language = 1075
	LanguageSetItemPositions          Language = 1100

	// Session handshake
	LanguagePingRequest   Language = 3001
	LanguagePingResponse  Language = 3002
	LanguageSystemMessage Language = 4001
	LanguageClientWelcome Language = 4004
	LanguageServerWelcome Language = 4005
	LanguageClientHello   Language = 4006
	LanguageServerHello   Language = 4007
	LanguageClientGoodbye Language = 4008
	LanguageServerGoodbye Language = 4009
)

var languageNames = map[Language]string{
	LanguageSOCreate:                   "SOCreate",
	LanguageSOUpdate:                   "SOUpdate",
	LanguageSODestroy:                  "SODestroy",
	LanguageSOCacheSubscribed:          "SOCacheSubscribed",
	LanguageSOCacheUnsubscribed:        "SOCacheUnsubscribed",
	LanguageSOUpdateMultiple:           "SOUpdateMultiple",
	LanguageSOCacheSubscriptionCheck:   "SOCacheSubscriptionCheck",
	LanguageSOCacheSubscriptionRefresh: "SOCacheSubscriptionRefresh",
	LanguageSOCacheSubscribedUpToDate:  "SOCacheSubscribedUpToDate",
	LanguageCraft:                      "Craft",
	LanguageCraftResponse:              "CraftResponse",
	LanguageDelete:                     "Delete",
	LanguageUnlockCrate:                "UnlockCrate",
	LanguageUseItemRequest:             "UseItemRequest",
	LanguageGiftWrapItem:               "GiftWrapItem",
	LanguageDeliverGift:                "DeliverGift",
	LanguageUnwrapGiftRequest:          "UnwrapGiftRequest",
	LanguageSetItemStyle:               "SetItemStyle",
	LanguageSortItems:                  "SortItems",
	LanguageUpdateItemSchema:           "UpdateItemSchema",
	LanguageAdjustItemEquippedState:    "AdjustItemEquippedState",
	LanguageClientDisplayNotification:  "ClientDisplayNotification",
	LanguageSetItemPositions:           "SetItemPositions",
	LanguageSystemMessage:              "SystemMessage",
	LanguageClientWelcome:              "ClientWelcome",
	LanguageServerWelcome:              "ServerWelcome",
	LanguageClientHello:                "ClientHello",
	LanguageClientGoodbye:              "ClientGoodbye",
	LanguageServerGoodbye:              "ServerGoodbye",
}

// String returns the symbolic name where known, else the numeric code.
func (l Language) String() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Language(%d)", uint32(l))
}

// GCGoodbyeReason is the reason code on a goodbye message.
type GCGoodbyeReason int64

const (
	GoodbyeGCGoingDown GCGoodbyeReason = 1
	GoodbyeNoSession   GCGoodbyeReason = 2
)

// Mercenary is a playable class an item can be equipped on.
type Mercenary uint32

const (
	Scout Mercenary = iota + 1
	Sniper
	Soldier
	Demoman
	Medic
	Heavy
	Pyro
	Spy
	Engineer
)

// ItemSlot is an equip slot.
type ItemSlot uint32

const (
	SlotPrimary   ItemSlot = 0
	SlotSecondary ItemSlot = 1
	SlotMelee     ItemSlot = 2
	SlotSapper    ItemSlot = 4
	SlotPDA       ItemSlot = 5
	SlotPDA2      ItemSlot = 6
	SlotCosmetic1 ItemSlot = 7
	SlotCosmetic2 ItemSlot = 8
	SlotAction    ItemSlot = 9
	SlotCosmetic3 ItemSlot = 10
	SlotTaunt1    ItemSlot = 11
	SlotTaunt2    ItemSlot = 12
	SlotTaunt3    ItemSlot = 13
	SlotTaunt4    ItemSlot = 14
	SlotTaunt5    ItemSlot = 15
	SlotTaunt6    ItemSlot = 16
	SlotTaunt7    ItemSlot = 17
	SlotTaunt8    ItemSlot = 18
)

// BackpackSortType selects the server-side sort order. Only the sort
// types visible in game actually work.
type BackpackSortType uint32

const (
	SortByName     BackpackSortType = 1
	SortByDefindex BackpackSortType = 2
	SortByRarity   BackpackSortType = 3
	SortByType     BackpackSortType = 4
	SortByDate     BackpackSortType = 5
	SortByClass    BackpackSortType = 101
	SortBySlot     BackpackSortType = 102
)

// ItemFlags are bit flags on an item.
type ItemFlags uint32

const (
	FlagCannotTrade ItemFlags = 1 << 0
	FlagCannotCraft ItemFlags = 1 << 1
	FlagNotEcon     ItemFlags = 1 << 3
	FlagPreview     ItemFlags = 1 << 7
)

// ItemQuality is an item's quality tier.
type ItemQuality uint32

const (
	QualityNormal          ItemQuality = 0
	QualityGenuine         ItemQuality = 1
	QualityVintage         ItemQuality = 3
	QualityRarity3         ItemQuality = 4
	QualityUnusual         ItemQuality = 5
	QualityUnique          ItemQuality = 6
	QualityCommunity       ItemQuality = 7
	QualityValve           ItemQuality = 8
	QualitySelfMade        ItemQuality = 9
	QualityCustomized      ItemQuality = 10
	QualityStrange         ItemQuality = 11
	QualityCompleted       ItemQuality = 12
	QualityHaunted         ItemQuality = 13
	QualityCollectors      ItemQuality = 14
	QualityDecoratedWeapon ItemQuality = 15
)

// WildcardRecipe is the craft recipe code meaning "any matching recipe".
const WildcardRecipe int16 = -2
