package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"sort"
	"sync/atomic"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"

	tf2 "github.com/Gobot1234/steam-ext-tf2"
	"github.com/Gobot1234/steam-ext-tf2/internal/config"
	"github.com/Gobot1234/steam-ext-tf2/internal/protobufs"
	"github.com/Gobot1234/steam-ext-tf2/internal/protocol"
)

// messageRecord is one replayed envelope.
type messageRecord struct {
	Index    int
	Language tf2.Language
	Proto    bool
	Size     int
}

// replayCapture feeds every captured envelope through a fresh engine.
func replayCapture(ctx context.Context, cfg *config.Config, path string, showStream bool) (*replaySession, error) {
	frames, err := readCapture(path)
	if err != nil {
		return nil, err
	}
	log.Info().Int("messages", len(frames)).Str("path", path).Msg("capture loaded")

	// The capture itself is the REST truth for the replay: every item
	// seen anywhere in the stream is served as an inventory asset, so
	// merges resolve without a live backend.
	fetcher, owner := prescan(cfg.GetGCData().AppID, frames)
	if cfg.GetGCData().AccountID == 0 && owner != 0 {
		log.Info().Uint64("owner", owner).Msg("cache owner inferred from capture")
		cfg.SetAccountID(owner)
	}

	client, err := tf2.NewClient(cfg, tf2.Options{
		Transport: &captureTransport{},
		Fetcher:   fetcher,
	})
	if err != nil {
		return nil, err
	}

	session := &replaySession{client: client, state: client.State()}
	start := time.Now()

	for i, frame := range frames {
		var env protobufs.GCClient
		if err := env.Unmarshal(frame); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("skipping undecodable envelope")
			continue
		}
		rec := messageRecord{
			Index:    i,
			Language: tf2.Language(protocol.ClearProtoMask(env.MsgType)),
			Proto:    protocol.IsProto(env.MsgType),
			Size:     len(env.Payload),
		}
		session.messages = append(session.messages, rec)
		if showStream {
			fmt.Printf("%5d  %-30s  proto=%-5t  %d bytes\n", rec.Index, rec.Language, rec.Proto, rec.Size)
		}
		if err := client.HandleMessage(ctx, frame); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("envelope dispatch failed")
		}
	}

	// Cache merges run off the dispatch path; give them a moment.
	if session.state.Established() {
		waitCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := session.state.WaitReady(waitCtx); err != nil {
			log.Debug().Msg("session never became ready (no cache snapshot in capture?)")
		}
		cancel()
		time.Sleep(200 * time.Millisecond)
	}

	session.elapsed = time.Since(start)
	return session, nil
}

// readCapture parses a file of length-prefixed envelopes.
func readCapture(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture: %w", err)
	}

	var frames [][]byte
	for off := 0; off < len(data); {
		if off+4 > len(data) {
			return nil, fmt.Errorf("truncated length prefix at offset %d", off)
		}
		n := int(binary.LittleEndian.Uint32(data[off : off+4]))
		off += 4
		if n < 0 || off+n > len(data) {
			return nil, fmt.Errorf("frame at offset %d overruns capture (%d bytes)", off, n)
		}
		frames = append(frames, data[off:off+n])
		off += n
	}
	return frames, nil
}

// prescan walks the capture for item blobs and builds an inventory
// fetcher serving them, also reporting the cache owner it saw.
func prescan(appID uint32, frames [][]byte) (*replayFetcher, uint64) {
	inv := &tf2.Inventory{AppID: appID}
	seen := make(map[uint64]bool)
	var owner uint64

	add := func(it *protobufs.Item) {
		if seen[it.ID] {
			return
		}
		seen[it.ID] = true
		inv.Assets = append(inv.Assets, tf2.Asset{
			ID:         it.ID,
			OriginalID: it.OriginalID,
			DefIndex:   it.DefIndex,
			Level:      it.Level,
			Quality:    it.Quality,
			Quantity:   it.Quantity,
			Inventory:  it.Inventory,
			Flags:      it.Flags,
			Origin:     it.Origin,
		})
	}

	for _, frame := range frames {
		var env protobufs.GCClient
		if err := env.Unmarshal(frame); err != nil {
			continue
		}
		if env.AppID != appID || !protocol.IsProto(env.MsgType) {
			continue
		}
		_, body, err := protocol.SplitProto(env.Payload)
		if err != nil {
			continue
		}

		switch tf2.Language(protocol.ClearProtoMask(env.MsgType)) {
		case tf2.LanguageSOCacheSubscribed:
			var msg protobufs.SOCacheSubscribed
			if msg.Unmarshal(body) != nil {
				continue
			}
			if owner == 0 {
				owner = msg.Owner
			}
			for _, group := range msg.Objects {
				if group.TypeID != protobufs.SOTypeItem {
					continue
				}
				for _, blob := range group.ObjectData {
					var it protobufs.Item
					if it.Unmarshal(blob) == nil {
						add(&it)
					}
				}
			}
		case tf2.LanguageSOCreate, tf2.LanguageSOUpdate:
			var msg protobufs.SOSingleObject
			if msg.Unmarshal(body) != nil || msg.TypeID != protobufs.SOTypeItem {
				continue
			}
			if owner == 0 {
				owner = msg.Owner
			}
			var it protobufs.Item
			if it.Unmarshal(msg.ObjectData) == nil {
				add(&it)
			}
		case tf2.LanguageSOUpdateMultiple:
			var msg protobufs.SOMultipleObjects
			if msg.Unmarshal(body) != nil {
				continue
			}
			for _, obj := range msg.Objects {
				if obj.TypeID != protobufs.SOTypeItem {
					continue
				}
				var it protobufs.Item
				if it.Unmarshal(obj.ObjectData) == nil {
					add(&it)
				}
			}
		}
	}
	return &replayFetcher{inv: inv}, owner
}

// replayFetcher serves the prescanned inventory.
type replayFetcher struct {
	inv *tf2.Inventory
}

func (f *replayFetcher) Inventory(ctx context.Context, accountID uint64, appID uint32) (*tf2.Inventory, error) {
	return f.inv, nil
}

// captureTransport swallows outbound sends; a replay has no backend.
type captureTransport struct {
	sent int64
}

func (t *captureTransport) SendGC(ctx context.Context, appID, msgType uint32, body []byte) error {
	atomic.AddInt64(&t.sent, 1)
	log.Debug().
		Uint32("msg_type", protocol.ClearProtoMask(msgType)).
		Int("size", len(body)).
		Msg("outbound message dropped (replay)")
	return nil
}

func (t *captureTransport) ChangeGames(ctx context.Context, appIDs []uint32) error {
	log.Debug().Interface("app_ids", appIDs).Msg("game change dropped (replay)")
	return nil
}

// printSummary renders per-type message counts.
func printSummary(session *replaySession) {
	counts := make(map[tf2.Language]int)
	for _, m := range session.messages {
		counts[m.Language]++
	}
	langs := make([]tf2.Language, 0, len(counts))
	for l := range counts {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })

	fmt.Printf("\nReplayed %d messages in %s\n\n", len(session.messages), session.elapsed.Round(time.Millisecond))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Code", "Message", "Count"})
	for _, l := range langs {
		table.Append([]string{
			fmt.Sprintf("%d", uint32(l)),
			l.String(),
			fmt.Sprintf("%d", counts[l]),
		})
	}
	table.Render()

	fmt.Printf("\nSession: established=%t ready=%t gc_version=%d slots=%d premium=%t\n",
		session.state.Established(), session.state.Ready(), session.state.Version(),
		session.state.BackpackSlots(), session.state.IsPremium())
}

// printBackpack renders the merged backpack.
func printBackpack(session *replaySession) {
	bp := session.state.Backpack()
	if bp == nil {
		fmt.Println("\nNo backpack state (capture had no cache snapshot).")
		return
	}

	fmt.Printf("\nBackpack: %d items\n\n", len(bp.Items))
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "DefIndex", "Name", "Level", "Quality", "Pos", "New"})
	for _, it := range bp.Items {
		name := it.Name
		if name == "" {
			name = "-"
		}
		table.Append([]string{
			fmt.Sprintf("%d", it.ID),
			fmt.Sprintf("%d", it.DefIndex),
			name,
			fmt.Sprintf("%d", it.Level),
			fmt.Sprintf("%d", it.Quality),
			fmt.Sprintf("%d", it.Position),
			fmt.Sprintf("%t", it.IsNew()),
		})
	}
	table.Render()
}
