package archive

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"reflect"
	"testing"

	"subresolver/models"
)

func buildZip(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := f.Write([]byte("1\n00:00:01,000 --> 00:00:02,000\nhello\n")); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// Stored (uncompressed) archives holding Show.S01E01.720p.HDTV.x264-GRP.srt,
// Subs/Show.S01E02.ass and readme.txt.
const (
	rarFixture = "" +
		"UmFyIRoHAQDFGjMyAwEAABJvPGgwAgImBCakA4ES/dEAASJTaG93LlMwMUUwMS43MjBwLkhE" +
		"VFYueDI2NC1HUlAuc3J0MQowMDowMDowMSwwMDAgLS0+IDAwOjAwOjAyLDAwMApoZWxsbwpk" +
		"awJlIgICJgQmpAOBEv3RAAEUU3Vicy9TaG93LlMwMUUwMi5hc3MxCjAwOjAwOjAxLDAwMCAt" +
		"LT4gMDA6MDA6MDIsMDAwCmhlbGxvCioLCHIYAgIGBAakAz7S2NYAAQpyZWFkbWUudHh0bm90" +
		"ZXMKGbI6NQMFAAA="
	sevenZipFixture = "" +
		"N3q8ryccAAOaXwdLUgAAAAAAAAAfAQAAAAAAAPLmD8kxCjAwOjAwOjAxLDAwMCAtLT4gMDA6" +
		"MDA6MDIsMDAwCmhlbGxvCjEKMDA6MDA6MDEsMDAwIC0tPiAwMDowMDowMiwwMDAKaGVsbG8K" +
		"bm90ZXMKAQQGAAMJJiYGAAcLAwABAQABAQABAQAMJiYGAAgKAYES/dGBEv3RPtLY1gAABQMR" +
		"gIcAUwBoAG8AdwAuAFMAMAAxAEUAMAAxAC4ANwAyADAAcAAuAEgARABUAFYALgB4ADIANgA0" +
		"AC0ARwBSAFAALgBzAHIAdAAAAFMAdQBiAHMALwBTAGgAbwB3AC4AUwAwADEARQAwADIALgBh" +
		"AHMAcwAAAHIAZQBhAGQAbQBlAC4AdAB4AHQAAAAUGgEAm3tDHY9d3QELm0Mdj13dAQubQx2P" +
		"Xd0BEhoBAJt7Qx2PXd0BC5tDHY9d3QELm0Mdj13dARMaAQD2mkMdj13dAZt7Qx2PXd0BC5tD" +
		"HY9d3QEVDgEAIICkgSCApIEggKSBAAA="
)

func decodeFixture(t *testing.T, encoded string) []byte {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return data
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want models.ArchiveKind
	}{
		{"zip", buildZip(t, "a.srt"), models.ArchiveKindZip},
		{"rar5 signature", append([]byte("Rar!\x1a\x07\x01\x00"), make([]byte, 32)...), models.ArchiveKindRar},
		{"7z signature", append([]byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}, make([]byte, 32)...), models.ArchiveKind7z},
		{"plain text", []byte("1\n00:00:01,000 --> 00:00:02,000\nhi\n"), models.ArchiveKindUnknown},
		{"empty", nil, models.ArchiveKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.data); got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListZip(t *testing.T) {
	data := buildZip(t,
		"Show.S01E02.720p.HDTV.x264-GRP.srt",
		"Show.S01E01.720p.HDTV.x264-GRP.srt",
		"readme.txt",
		"Subs/Show.S01E03.ass",
		"__MACOSX/._Show.S01E01.720p.HDTV.x264-GRP.srt",
	)

	paths, kind, err := NewLister().List(data)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if kind != models.ArchiveKindZip {
		t.Fatalf("kind = %q, want zip", kind)
	}

	want := []string{
		"Show.S01E01.720p.HDTV.x264-GRP.srt",
		"Show.S01E02.720p.HDTV.x264-GRP.srt",
		"Subs/Show.S01E03.ass",
	}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
}

func TestListRarAndSevenZip(t *testing.T) {
	tests := []struct {
		name    string
		fixture string
		kind    models.ArchiveKind
	}{
		{"rar", rarFixture, models.ArchiveKindRar},
		{"7z", sevenZipFixture, models.ArchiveKind7z},
	}

	want := []string{
		"Show.S01E01.720p.HDTV.x264-GRP.srt",
		"Subs/Show.S01E02.ass",
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, kind, err := NewLister().List(decodeFixture(t, tt.fixture))
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if kind != tt.kind {
				t.Fatalf("kind = %q, want %q", kind, tt.kind)
			}
			if !reflect.DeepEqual(paths, want) {
				t.Fatalf("paths = %v, want %v", paths, want)
			}
		})
	}
}

func TestListZipWithoutSubtitles(t *testing.T) {
	paths, _, err := NewLister().List(buildZip(t, "readme.nfo", "cover.jpg"))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected no subtitle paths, got %v", paths)
	}
}

func TestListUnsupported(t *testing.T) {
	_, kind, err := NewLister().List([]byte("<html><body>rate limited</body></html>"))
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
	if kind != models.ArchiveKindUnknown {
		t.Fatalf("kind = %q, want unknown", kind)
	}
}

func TestIsSubtitleFile(t *testing.T) {
	for name, want := range map[string]bool{
		"a.srt":     true,
		"A.SRT":     true,
		"b.vtt":     true,
		"c.ssa":     true,
		"d.sub":     true,
		"e.idx":     false,
		"movie.mkv": false,
		"noext":     false,
	} {
		if got := IsSubtitleFile(name); got != want {
			t.Errorf("IsSubtitleFile(%q) = %v, want %v", name, got, want)
		}
	}
}
