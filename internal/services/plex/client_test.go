package plex_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"synopsis/internal/services"
	"synopsis/internal/services/plex"
)

func newTestClient(t *testing.T, handler http.Handler) *plex.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := plex.New(server.URL, "token")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresURLAndToken(t *testing.T) {
	if _, err := plex.New("", "token"); err == nil {
		t.Fatal("expected error when url missing")
	}
	if _, err := plex.New("http://plex.local:32400", "  "); err == nil {
		t.Fatal("expected error when token missing")
	}
}

func TestCheckSendsToken(t *testing.T) {
	var gotToken string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Plex-Token")
		w.Write([]byte(`<MediaContainer machineIdentifier="abc"/>`))
	}))

	if err := client.Check(context.Background()); err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if gotToken != "token" {
		t.Errorf("X-Plex-Token = %q, want %q", gotToken, "token")
	}
}

func TestCheckUnreachableIsConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := plex.New(server.URL, "token")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	err = client.Check(context.Background())
	if !errors.Is(err, services.ErrConnection) {
		t.Errorf("Check error = %v, want ErrConnection", err)
	}
}

func TestSectionsDecodesDirectories(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/library/sections" {
			t.Errorf("path = %q, want /library/sections", r.URL.Path)
		}
		w.Write([]byte(`<MediaContainer size="3">
			<Directory key="1" type="movie" title="Movies"/>
			<Directory key="2" type="show" title="TV Shows"/>
			<Directory key="3" type="artist" title="Music"/>
		</MediaContainer>`))
	}))

	sections, err := client.Sections(context.Background())
	if err != nil {
		t.Fatalf("Sections returned error: %v", err)
	}
	if len(sections) != 3 {
		t.Fatalf("got %d sections, want 3", len(sections))
	}
	if sections[0].Kind != plex.KindMovie || !sections[0].Kind.Supported() {
		t.Errorf("section 0 kind = %q, want supported movie", sections[0].Kind)
	}
	if sections[2].Kind.Supported() {
		t.Error("artist section should not be supported")
	}
}

func TestSectionItemsDecodesVideosAndDirectories(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("includeGuids") != "1" {
			t.Errorf("includeGuids missing from query %q", r.URL.RawQuery)
		}
		w.Write([]byte(`<MediaContainer size="2">
			<Video ratingKey="101" type="movie" title="The Matrix" year="1999" summary="old text">
				<Guid id="imdb://tt0133093"/>
				<Guid id="tmdb://603"/>
			</Video>
			<Directory ratingKey="202" type="show" title="Severance" year="2022" summary=""/>
		</MediaContainer>`))
	}))

	items, err := client.SectionItems(context.Background(), plex.Section{Key: "1", Title: "Movies", Kind: plex.KindMovie})
	if err != nil {
		t.Fatalf("SectionItems returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	movie := items[0]
	if movie.RatingKey != "101" || movie.Year != 1999 || movie.Summary != "old text" {
		t.Errorf("unexpected movie item: %+v", movie)
	}
	if len(movie.GUIDs) != 2 || movie.GUIDs[1].ID != "tmdb://603" {
		t.Errorf("unexpected guids: %+v", movie.GUIDs)
	}
	if items[1].Kind() != plex.KindShow {
		t.Errorf("item 1 kind = %q, want show", items[1].Kind())
	}
}

func TestUpdateSummarySendsLockedPut(t *testing.T) {
	var gotMethod, gotPath, gotValue, gotLocked string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotValue = r.URL.Query().Get("summary.value")
		gotLocked = r.URL.Query().Get("summary.locked")
		w.WriteHeader(http.StatusOK)
	}))

	item := plex.Item{RatingKey: "101", Title: "The Matrix"}
	if err := client.UpdateSummary(context.Background(), item, "new overview"); err != nil {
		t.Fatalf("UpdateSummary returned error: %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if gotPath != "/library/metadata/101" {
		t.Errorf("path = %q, want /library/metadata/101", gotPath)
	}
	if gotValue != "new overview" || gotLocked != "1" {
		t.Errorf("summary.value=%q summary.locked=%q, want new overview / 1", gotValue, gotLocked)
	}
}

func TestUpdateSummaryFailureIsLibraryError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))

	err := client.UpdateSummary(context.Background(), plex.Item{RatingKey: "1", Title: "X"}, "text")
	if !errors.Is(err, services.ErrLibrary) {
		t.Errorf("UpdateSummary error = %v, want ErrLibrary", err)
	}
}
