package stremio

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"canonstream/models"
	"canonstream/utils/nameparse"
)

// stubTokenizer records what it was asked to parse and returns a fixed
// result, keeping parser tests independent of the real tokenizer. Batch
// parses run concurrently, so access is locked.
type stubTokenizer struct {
	mu        sync.Mutex
	lastInput string
	result    nameparse.ParsedFile
}

func (s *stubTokenizer) parse(name string) *nameparse.ParsedFile {
	s.mu.Lock()
	s.lastInput = name
	result := s.result
	s.mu.Unlock()
	result.Languages = append([]string(nil), result.Languages...)
	return &result
}

func intPtr(v int) *int { return &v }

func TestGenericParserDebridStream(t *testing.T) {
	tok := &stubTokenizer{result: nameparse.ParsedFile{
		Resolution: "2160p",
		Codec:      "HEVC",
		Languages:  []string{"English"},
	}}
	parser := NewParser(AddonIdentity{ID: "wrapped", Name: "Wrapped"}, "", tok.parse)

	raw := &models.RawStream{
		Name:  "[RD+] Torrentio 4k",
		Title: "Movie.Name.2019.2160p.WEB-DL.HEVC\n👤 35 💾 1.5 GB ⚙️ TorrentGalaxy\n🇫🇷 FR",
		URL:   "https://debrid.example/play/video.mkv",
	}

	got := parser.Parse(raw)
	if got == nil {
		t.Fatal("expected a record")
	}
	if got.Filename != "Movie.Name.2019.2160p.WEB-DL.HEVC" {
		t.Fatalf("filename = %q", got.Filename)
	}
	// The filename carries a year token, so it is the parse target.
	if tok.lastInput != got.Filename {
		t.Fatalf("parse target = %q, want the filename", tok.lastInput)
	}
	if got.SizeBytes != 1_610_612_736 {
		t.Fatalf("size = %d, want 1.5 GiB", got.SizeBytes)
	}
	if got.Indexer != "TorrentGalaxy" {
		t.Fatalf("indexer = %q", got.Indexer)
	}
	if got.Provider == nil || got.Provider.ID != "realdebrid" || got.Provider.Cached == nil || !*got.Provider.Cached {
		t.Fatalf("provider = %+v, want cached realdebrid", got.Provider)
	}
	if got.Type != models.StreamTypeWeb {
		t.Fatalf("type = %q, want web", got.Type)
	}
	// Seeders are torrent-only; a web stream drops them at assembly.
	if got.Torrent.Seeders != nil {
		t.Fatalf("web stream kept seeders %v", *got.Torrent.Seeders)
	}
	want := []string{"English", "French"}
	if !reflect.DeepEqual(got.Languages, want) {
		t.Fatalf("languages = %v, want %v", got.Languages, want)
	}
	if got.Addon.ID != "wrapped" || got.Addon.Name != "Wrapped" {
		t.Fatalf("addon identity = %+v", got.Addon)
	}
}

func TestGenericParserTorrentStream(t *testing.T) {
	tok := &stubTokenizer{}
	parser := NewParser(AddonIdentity{ID: "torrentio", Name: "Torrentio"}, "generic", tok.parse)

	raw := &models.RawStream{
		Name:     "Torrentio\n1080p",
		Title:    "Show.S02E04.1080p.WEB.h264\n👥 120 💾 2 GB ⚙️ EZTV",
		InfoHash: "ABCDEF0123456789ABCDEF0123456789ABCDEF01",
		FileIdx:  intPtr(3),
		Sources:  []string{"tracker:udp://open.tracker:1337"},
	}

	got := parser.Parse(raw)
	if got == nil {
		t.Fatal("expected a record")
	}
	if got.Type != models.StreamTypeTorrent {
		t.Fatalf("type = %q, want torrent", got.Type)
	}
	if got.InfoHash != "abcdef0123456789abcdef0123456789abcdef01" {
		t.Fatalf("info hash = %q, want lowercased explicit hash", got.InfoHash)
	}
	if got.Torrent.InfoHash != got.InfoHash {
		t.Fatalf("torrent.infoHash = %q, want %q", got.Torrent.InfoHash, got.InfoHash)
	}
	if got.Torrent.Seeders == nil || *got.Torrent.Seeders != 120 {
		t.Fatalf("seeders = %v, want 120", got.Torrent.Seeders)
	}
	if got.Torrent.FileIdx == nil || *got.Torrent.FileIdx != 3 {
		t.Fatalf("fileIdx = %v, want 3", got.Torrent.FileIdx)
	}
	// Swarm results are never attributed to a debrid provider.
	if got.Provider != nil {
		t.Fatalf("provider = %+v, want nil for torrent", got.Provider)
	}
	if got.SizeBytes != 2*1024*1024*1024 {
		t.Fatalf("size = %d, want 2 GiB", got.SizeBytes)
	}
}

func TestGenericParserFallsBackToDescription(t *testing.T) {
	tok := &stubTokenizer{}
	parser := NewParser(AddonIdentity{ID: "a", Name: "A"}, "", tok.parse)

	raw := &models.RawStream{
		Hints:       &models.RawBehaviorHints{Filename: "video.mkv"},
		Description: "Show.S01E02.720p.WEB\n👤 10",
		URL:         "https://host/video.mkv",
	}

	got := parser.Parse(raw)
	if got == nil {
		t.Fatal("expected a record")
	}
	if got.Filename != "video.mkv" {
		t.Fatalf("filename = %q, want the explicit hint", got.Filename)
	}
	// "video.mkv" has no season/episode or year token, so the whole
	// description (newlines flattened) is tokenized instead.
	if !strings.Contains(tok.lastInput, "Show.S01E02.720p.WEB") || strings.Contains(tok.lastInput, "\n") {
		t.Fatalf("parse target = %q, want flattened description", tok.lastInput)
	}
}

func TestGenericParserDerivesFilenameFromDescription(t *testing.T) {
	tok := &stubTokenizer{}
	parser := NewParser(AddonIdentity{ID: "a", Name: "A"}, "", tok.parse)

	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"season episode line", "Some header\nShow.1x02.720p\ntrailer", "Show.1x02.720p"},
		{"year line", "header\nMovie.2021.1080p", "Movie.2021.1080p"},
		{"first line fallback", "just a label\nanother line", "just a label"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &models.RawStream{Description: tt.description, URL: "https://host/x"}
			got := parser.Parse(raw)
			if got == nil {
				t.Fatal("expected a record")
			}
			if got.Filename != tt.want {
				t.Fatalf("filename = %q, want %q", got.Filename, tt.want)
			}
		})
	}
}

func TestGenericParserDurationAndExplicitSize(t *testing.T) {
	tok := &stubTokenizer{}
	parser := NewParser(AddonIdentity{ID: "a", Name: "A"}, "", tok.parse)

	raw := &models.RawStream{
		Description: "Movie.2020.1080p\n⏱️ 1h30m 💾 9 GB",
		URL:         "https://host/x",
		Size:        "123456789",
	}
	got := parser.Parse(raw)
	if got == nil {
		t.Fatal("expected a record")
	}
	// The explicit size field beats the description-derived value.
	if got.SizeBytes != 123456789 {
		t.Fatalf("size = %d, want explicit 123456789", got.SizeBytes)
	}
	if got.DurationMS != 5_400_000 {
		t.Fatalf("duration = %d, want 5400000", got.DurationMS)
	}
}

func TestGenericParserSkipsUnplayableRecord(t *testing.T) {
	parser := NewParser(AddonIdentity{ID: "a", Name: "A"}, "", (&stubTokenizer{}).parse)
	if got := parser.Parse(&models.RawStream{Description: "Movie.2020.1080p"}); got != nil {
		t.Fatalf("expected nil for record without URL or hash, got %+v", got)
	}
	if got := parser.Parse(nil); got != nil {
		t.Fatal("expected nil for nil record")
	}
}
