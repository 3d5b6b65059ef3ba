package lang

import (
	"errors"
	"strconv"
	"testing"
)

func TestFindAndPath(t *testing.T) {
	tree := mustBuild(t, `
create Scene {
	create Group {
		create Rectangle
		create Text
		create Rectangle {
			create Text
		}
	}
	create Circle
}`)

	tests := []struct {
		path      string
		kind      string
		canonical string
	}{
		{"Scene", "Scene", "Scene"},
		{"/Scene/", "Scene", "Scene"},
		{"Scene/Group", "Group", "Scene/Group"},
		{"Scene/Group[0]/Rectangle[0]", "Rectangle", "Scene/Group/Rectangle"},
		{"Scene/Group/Rectangle[1]", "Rectangle", "Scene/Group/Rectangle[1]"},
		{"Scene/Group/Rectangle[1]/Text", "Text", "Scene/Group/Rectangle[1]/Text"},
		{"Scene/Circle", "Circle", "Scene/Circle"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			h, err := tree.Find(tt.path)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}

			if got := tree.Kind(h); got != tt.kind {
				t.Errorf("Kind() = %q, want %q", got, tt.kind)
			}

			if got := tree.Path(h); got != tt.canonical {
				t.Errorf("Path() = %q, want %q", got, tt.canonical)
			}

			byID, err := tree.Find("#" + strconv.Itoa(int(h)))
			if err != nil || byID != h {
				t.Errorf("Find(#%d) = %d, %v", h, byID, err)
			}
		})
	}
}

func TestFindErrors(t *testing.T) {
	tree := mustBuild(t, "template Box {}\ncreate Scene { create Group }")

	for _, path := range []string{
		"",
		"Group",
		"Scene[1]",
		"Scene/Circle",
		"Scene/Group[1]",
		"Scene/Group[x]",
		"Scene/Group[-1]",
		"Scene/Group[0",
		"#",
		"#999",
		"#0",
	} {
		t.Run(path, func(t *testing.T) {
			if h, err := tree.Find(path); !errors.Is(err, ErrElementNotFound) {
				t.Errorf("Find(%q) = %d, %v, want %v", path, h, err, ErrElementNotFound)
			}
		})
	}
}
