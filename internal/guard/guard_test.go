package guard

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mpyw/apisurface/host"
)

type loadedHost struct {
	host.Host
	loaded map[string]bool
	asked  []string
}

func (h *loadedHost) Loaded(module string) bool {
	h.asked = append(h.asked, module)
	return h.loaded[module]
}

type event struct {
	kind string
	ok   bool
	text string
}

type recorder struct{ events []event }

func (r *recorder) Record(ok bool, label string) {
	r.events = append(r.events, event{kind: "record", ok: ok, text: label})
}

func (r *recorder) Diag(text string) {
	r.events = append(r.events, event{kind: "diag", text: text})
}

func TestEnsure(t *testing.T) {
	tests := []struct {
		name   string
		module string
		want   bool
		events []event
	}{
		{
			name:   "loaded module passes silently",
			module: "Foo",
			want:   true,
		},
		{
			name:   "unloaded module fails with diagnostic",
			module: "Unloaded::Thing",
			want:   false,
			events: []event{
				{kind: "record", ok: false, text: "public API for Unloaded::Thing"},
				{kind: "diag", text: "Module 'Unloaded::Thing' not loaded"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &loadedHost{loaded: map[string]bool{"Foo": true}}
			r := &recorder{}

			got := Ensure(h, r, tt.module, "public API for "+tt.module)
			if got != tt.want {
				t.Errorf("Ensure() = %v, want %v", got, tt.want)
			}
			if diff := cmp.Diff(tt.events, r.events, cmp.AllowUnexported(event{})); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{tt.module}, h.asked); diff != "" {
				t.Errorf("Loaded() calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
