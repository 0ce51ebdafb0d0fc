package stremio

import (
	"encoding/json"
	"strings"
	"testing"

	"canonstream/models"
	"canonstream/utils/nameparse"
)

func TestAssembleStreamProxyHeaderRule(t *testing.T) {
	addon := AddonIdentity{ID: "a", Name: "A"}

	// Empty proxy header maps are dropped from the passthrough.
	raw := &models.RawStream{
		URL:   "https://host/x",
		Hints: &models.RawBehaviorHints{NotWebReady: true, ProxyHeaders: &models.ProxyHeaders{}},
	}
	got := assembleStream(addon, &nameparse.ParsedFile{}, raw, resolvedFields{streamType: models.StreamTypeWeb})
	if got.Stream.BehaviorHints == nil || !got.Stream.BehaviorHints.NotWebReady {
		t.Fatalf("behaviorHints passthrough = %+v", got.Stream.BehaviorHints)
	}
	if got.Stream.BehaviorHints.ProxyHeaders != nil {
		t.Fatal("empty proxyHeaders should be dropped")
	}

	raw.Hints.ProxyHeaders = &models.ProxyHeaders{Request: map[string]string{"Authorization": "Bearer x"}}
	got = assembleStream(addon, &nameparse.ParsedFile{}, raw, resolvedFields{streamType: models.StreamTypeWeb})
	if got.Stream.BehaviorHints.ProxyHeaders == nil {
		t.Fatal("non-empty proxyHeaders should pass through")
	}
}

func TestAssembleStreamSubRecordsAlwaysPresent(t *testing.T) {
	got := assembleStream(AddonIdentity{ID: "a", Name: "A"}, nil, &models.RawStream{URL: "https://host/x"}, resolvedFields{
		streamType: models.StreamTypeWeb,
	})

	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)
	// torrent and usenet sub-records are present even when all fields are
	// absent; _infoHash is omitted entirely when unknown.
	if !strings.Contains(body, `"torrent":{}`) || !strings.Contains(body, `"usenet":{}`) {
		t.Fatalf("sub-records missing from %s", body)
	}
	if strings.Contains(body, "_infoHash") {
		t.Fatalf("unexpected _infoHash in %s", body)
	}
}

func TestAssembleStreamHashLowercasedAndMirrored(t *testing.T) {
	got := assembleStream(AddonIdentity{ID: "a", Name: "A"}, &nameparse.ParsedFile{}, &models.RawStream{URL: "https://host/x"}, resolvedFields{
		streamType: models.StreamTypeTorrent,
		infoHash:   "ABCDEF0123456789ABCDEF0123456789ABCDEF01",
		seeders:    intPtr(7),
	})
	if got.InfoHash != "abcdef0123456789abcdef0123456789abcdef01" {
		t.Fatalf("_infoHash = %q", got.InfoHash)
	}
	if got.Torrent.InfoHash != got.InfoHash {
		t.Fatalf("torrent.infoHash = %q", got.Torrent.InfoHash)
	}
	if got.Torrent.Seeders == nil || *got.Torrent.Seeders != 7 {
		t.Fatalf("seeders = %v", got.Torrent.Seeders)
	}
}
