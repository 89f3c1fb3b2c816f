package tf2

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Gobot1234/steam-ext-tf2/internal/protobufs"
	"github.com/Gobot1234/steam-ext-tf2/internal/schemacache"
)

func TestSchemaUpdatePrunesSupersededVersions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleItemsGame))
	}))
	defer srv.Close()

	store, err := schemacache.Open(filepath.Join(t.TempDir(), "schema.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer store.Close()

	ft := &fakeTransport{}
	state := NewGCState(testConfig(), ft, &fakeFetcher{}, srv.Client(), nil, store)
	welcome(state)

	announce := func(version uint32) {
		state.Handle(context.Background(), protoEnvelope(LanguageUpdateItemSchema, &protobufs.UpdateItemSchema{
			ItemSchemaVersion: version,
			ItemsGameURL:      srv.URL + "/items_game.txt",
		}))
	}

	announce(180)
	waitFor(t, "first schema load", func() bool {
		s := state.Schema()
		return s != nil && s.Version == 180
	})

	// A new version replaces the cached document; the superseded one
	// is dropped rather than accumulating forever.
	announce(181)
	waitFor(t, "second schema load", func() bool {
		s := state.Schema()
		return s != nil && s.Version == 181
	})

	versions, err := store.Versions()
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}
	if len(versions) != 1 || versions[0] != 181 {
		t.Fatalf("cached versions = %v, want only 181", versions)
	}
}
