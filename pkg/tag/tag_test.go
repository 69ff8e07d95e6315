package tag

import (
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/visunn/pkg/errors"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		wire    string
		want    Tag
		wantErr bool
	}{
		{"root", "root", Root, false},
		{"nested", "root;encoder;layer1", "root/encoder/layer1/", false},
		{"single", "encoder", "encoder/", false},

		{"empty", "", "", true},
		{"empty segment", "root;;layer1", "", true},
		{"trailing separator", "root;", "", true},
		{"leading separator", ";root", "", true},
		{"contains slash", "root/encoder", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.wire)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode(%q) error = %v, wantErr %v", tt.wire, err, tt.wantErr)
			}
			if err != nil {
				if !errors.IsMalformedTag(err) {
					t.Errorf("Decode(%q) code = %v, want INVALID_TAG", tt.wire, errors.GetCode(err))
				}
				return
			}
			if got != tt.want {
				t.Errorf("Decode(%q) = %q, want %q", tt.wire, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		tag  Tag
		want string
	}{
		{Root, "root"},
		{"root/encoder/layer1/", "root;encoder;layer1"},
		{"root/encoder//", "root;encoder"},
	}
	for _, tt := range tests {
		if got := Encode(tt.tag); got != tt.want {
			t.Errorf("Encode(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestParent(t *testing.T) {
	tests := []struct {
		tag  Tag
		want Tag
	}{
		{Root, Root},
		{"root/encoder/", Root},
		{"root/encoder/layer1/", "root/encoder/"},
		{"encoder/", Root},
		{"", Root},
	}
	for _, tt := range tests {
		if got := Parent(tt.tag); got != tt.want {
			t.Errorf("Parent(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestParentIdempotentAtRoot(t *testing.T) {
	got := Parent(Parent(Parent(Root)))
	if got != Root {
		t.Errorf("Parent^3(Root) = %q, want %q", got, Root)
	}
}

func TestChild(t *testing.T) {
	got, err := Child(Root, "encoder")
	if err != nil {
		t.Fatalf("Child() error: %v", err)
	}
	if got != "root/encoder/" {
		t.Errorf("Child(Root, encoder) = %q", got)
	}

	got, err = Child(got, "layer1")
	if err != nil {
		t.Fatalf("Child() error: %v", err)
	}
	if got != "root/encoder/layer1/" {
		t.Errorf("Child(.., layer1) = %q", got)
	}

	for _, bad := range []string{"", "a/b", "a;b"} {
		if _, err := Child(Root, bad); !errors.IsMalformedTag(err) {
			t.Errorf("Child(Root, %q) error = %v, want INVALID_TAG", bad, err)
		}
	}
}

func TestSegmentsAndDepth(t *testing.T) {
	tg := Tag("root/encoder/layer1/")
	if got := tg.Segments(); !reflect.DeepEqual(got, []string{"root", "encoder", "layer1"}) {
		t.Errorf("Segments() = %v", got)
	}
	if tg.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", tg.Depth())
	}
	if tg.Last() != "layer1" {
		t.Errorf("Last() = %q, want layer1", tg.Last())
	}
	if Root.Depth() != 0 || !Root.IsRoot() {
		t.Errorf("Root depth = %d, IsRoot = %v", Root.Depth(), Root.IsRoot())
	}
}

func TestParentWire(t *testing.T) {
	tests := map[string]string{
		"root":                RootWire,
		"root;encoder":        "root",
		"root;encoder;layer1": "root;encoder",
	}
	for in, want := range tests {
		if got := ParentWire(in); got != want {
			t.Errorf("ParentWire(%q) = %q, want %q", in, got, want)
		}
	}
}

func segmentGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z0-9_.\-]{1,12}`)
}

func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		segs := rapid.SliceOfN(segmentGen(), 1, 6).Draw(t, "segments")
		tg := Tag(strings.Join(segs, Sep) + Sep)

		got, err := Decode(Encode(tg))
		if err != nil {
			t.Fatalf("Decode(Encode(%q)) error: %v", tg, err)
		}
		if got != tg {
			t.Fatalf("Decode(Encode(%q)) = %q", tg, got)
		}
	})
}

func TestChildParentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tg := Root
		for _, seg := range rapid.SliceOfN(segmentGen(), 0, 5).Draw(t, "path") {
			next, err := Child(tg, seg)
			if err != nil {
				t.Fatalf("Child(%q, %q) error: %v", tg, seg, err)
			}
			if Parent(next) != tg {
				t.Fatalf("Parent(Child(%q, %q)) = %q", tg, seg, Parent(next))
			}
			tg = next
		}
	})
}
