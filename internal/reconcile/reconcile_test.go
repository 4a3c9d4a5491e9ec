package reconcile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name        string
		expected    []string
		actual      []string
		wantMissing []string
		wantExtra   []string
	}{
		{
			name:        "both empty",
			wantMissing: []string{},
			wantExtra:   []string{},
		},
		{
			name:        "exact match in different order",
			expected:    []string{"foo", "bar"},
			actual:      []string{"bar", "foo"},
			wantMissing: []string{},
			wantExtra:   []string{},
		},
		{
			name:        "missing only",
			expected:    []string{"foo", "bar", "baz"},
			actual:      []string{"foo"},
			wantMissing: []string{"bar", "baz"},
			wantExtra:   []string{},
		},
		{
			name:        "extra only",
			expected:    []string{"foo"},
			actual:      []string{"zed", "foo", "bar"},
			wantMissing: []string{},
			wantExtra:   []string{"bar", "zed"},
		},
		{
			name:        "duplicates collapse",
			expected:    []string{"a", "a", "b"},
			actual:      []string{"c", "c"},
			wantMissing: []string{"a", "b"},
			wantExtra:   []string{"c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			missing, extra := Diff(tt.expected, tt.actual)
			if diff := cmp.Diff(tt.wantMissing, missing); diff != "" {
				t.Errorf("missing mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantExtra, extra); diff != "" {
				t.Errorf("extra mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffSymmetric(t *testing.T) {
	a := []string{"foo", "bar", "qux"}
	b := []string{"bar", "baz"}

	missing, extra := Diff(a, b)
	swappedMissing, swappedExtra := Diff(b, a)

	if diff := cmp.Diff(missing, swappedExtra); diff != "" {
		t.Errorf("Diff(a,b).missing != Diff(b,a).extra (-a +b):\n%s", diff)
	}
	if diff := cmp.Diff(extra, swappedMissing); diff != "" {
		t.Errorf("Diff(a,b).extra != Diff(b,a).missing (-a +b):\n%s", diff)
	}
}

func TestDiffIdempotent(t *testing.T) {
	missing, extra := Diff([]string{"b", "a", "a"}, []string{"c", "d", "c"})

	for _, names := range [][]string{missing, extra} {
		m, e := Diff(names, names)
		if len(m) != 0 || len(e) != 0 {
			t.Errorf("Diff(%v, %v) = (%v, %v), want empty", names, names, m, e)
		}
	}
}

func TestResultOK(t *testing.T) {
	if !Compare([]string{"x"}, []string{"x"}).OK() {
		t.Error("expected match for identical lists")
	}

	r := Compare([]string{"x"}, []string{"y"})
	if r.OK() {
		t.Error("expected mismatch")
	}
	if diff := cmp.Diff(Result{Missing: []string{"x"}, Extra: []string{"y"}}, r); diff != "" {
		t.Errorf("Compare mismatch (-want +got):\n%s", diff)
	}
}
