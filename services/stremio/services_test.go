package stremio

import "testing"

func TestExtractProviderCacheStates(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantID     string
		wantCached *bool
	}{
		{"plus means cached", "[RD+] Torrentio 4k", "realdebrid", boolPtr(true)},
		{"lightning means cached", "TorBox ⚡ 1080p", "torbox", boolPtr(true)},
		{"hourglass means uncached", "[RD ⏳] Torrentio", "realdebrid", boolPtr(false)},
		{"uncached literal", "TorBox UNCACHED", "torbox", boolPtr(false)},
		{"no symbol means unknown", "Premiumize 1080p", "premiumize", nil},
		{"unknown service", "MysteryBox ⚡", "", nil},
		{"empty", "", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractProvider(tt.input)
			if tt.wantID == "" {
				if got != nil {
					t.Fatalf("expected no provider, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected provider %q, got nil", tt.wantID)
			}
			if got.ID != tt.wantID {
				t.Fatalf("provider id = %q, want %q", got.ID, tt.wantID)
			}
			switch {
			case tt.wantCached == nil && got.Cached != nil:
				t.Fatalf("cached = %v, want nil", *got.Cached)
			case tt.wantCached != nil && (got.Cached == nil || *got.Cached != *tt.wantCached):
				t.Fatalf("cached = %v, want %v", got.Cached, *tt.wantCached)
			}
		})
	}
}

// Later table entries deliberately win when several services match the same
// name; the alias table order is load-bearing.
func TestExtractProviderLastMatchWins(t *testing.T) {
	got := extractProvider("RD AD 1080p")
	if got == nil || got.ID != "alldebrid" {
		t.Fatalf("expected alldebrid to win over realdebrid, got %+v", got)
	}
}

func TestExtractProviderIgnoresWebDL(t *testing.T) {
	// "WEB-DL" must not satisfy the Debrid-Link "DL" alias.
	if got := extractProvider("Movie 1080p WEB-DL x264"); got != nil {
		t.Fatalf("expected no provider for WEB-DL name, got %+v", got)
	}
	// A real DL token elsewhere in the name still matches.
	got := extractProvider("[DL] Movie 1080p WEB-DL")
	if got == nil || got.ID != "debridlink" {
		t.Fatalf("expected debridlink, got %+v", got)
	}
}
