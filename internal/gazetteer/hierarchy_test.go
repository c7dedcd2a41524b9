package gazetteer

import (
	"reflect"
	"testing"
)

// buildHierarchyFixture wires a small USA > Missouri > Jackson County >
// Springfield chain, plus an unrelated root, for ancestor-walk tests.
func buildHierarchyFixture(t *testing.T) *MemoryGazetteer {
	t.Helper()
	gz := NewMemoryGazetteer()
	places := []Place{
		{ID: 1, Name: "United States", Level: 1, CountryID: 1500},
		{ID: 2, Name: "Missouri", Level: 2, LocatedInID: 1, CountryID: 1500},
		{ID: 3, Name: "Jackson County", Level: 3, LocatedInID: 2, CountryID: 1500},
		{ID: 4, Name: "Springfield", Level: 4, LocatedInID: 3, CountryID: 1500},
		{ID: 5, Name: "Elsewhere", Level: 1, CountryID: 999},
	}
	for _, p := range places {
		if err := gz.PutPlace(p); err != nil {
			t.Fatalf("PutPlace(%d): %v", p.ID, err)
		}
	}
	return gz
}

func TestIsAncestor(t *testing.T) {
	gz := buildHierarchyFixture(t)

	tests := []struct {
		name       string
		candidate  int
		ancestors  []int
		wantResult bool
	}{
		{"grandchild of an ancestor", 4, []int{2}, true},
		{"direct parent", 4, []int{3}, true},
		{"unrelated root is not an ancestor", 4, []int{5}, false},
		{"a place is never its own ancestor", 1, []int{1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAncestor(gz, tt.candidate, tt.ancestors); got != tt.wantResult {
				t.Errorf("IsAncestor(%d, %v) = %v, want %v", tt.candidate, tt.ancestors, got, tt.wantResult)
			}
		})
	}
}

func TestFilterSubplaces(t *testing.T) {
	gz := buildHierarchyFixture(t)

	got := FilterSubplaces(gz, []int{4, 5}, []int{2})
	want := []int{4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterSubplaces() = %v, want %v", got, want)
	}
}

func TestRemoveChildren(t *testing.T) {
	gz := buildHierarchyFixture(t)

	tests := []struct {
		name string
		ids  []int
		want []int
	}{
		{
			name: "a full ancestor chain collapses to its root",
			ids:  []int{1, 2, 3, 4},
			want: []int{1},
		},
		{
			name: "a grandchild is dropped even when its parent is absent",
			ids:  []int{2, 4},
			want: []int{2},
		},
		{
			name: "unrelated places are all kept",
			ids:  []int{2, 5},
			want: []int{2, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemoveChildren(gz, tt.ids)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RemoveChildren(%v) = %v, want %v", tt.ids, got, tt.want)
			}
		})
	}
}
