package gazetteer

// maxAncestorDepth bounds the upward walk in IsAncestor/RemoveChildren: the
// hierarchy is at most MaxLevels deep, multiplied by a safety factor so
// also_located_in fan-out from malformed source data cannot recurse
// forever.
const maxAncestorDepth = MaxLevels * 4

// IsAncestor walks LocatedInID and every AlsoLocatedInID upward from
// candidateID, returning true if any intermediate id (at any depth) is in
// ancestors. Bounded by maxAncestorDepth to tolerate a cyclic containment
// graph in malformed source data.
func IsAncestor(store PlaceStore, candidateID int, ancestors []int) bool {
	return isAncestorAt(store, candidateID, ancestors, 0)
}

func isAncestorAt(store PlaceStore, candidateID int, ancestors []int, depth int) bool {
	if depth >= maxAncestorDepth {
		return false
	}
	p, ok := store.Place(candidateID)
	if !ok {
		return false
	}
	if p.LocatedInID > 0 {
		if containsID(ancestors, p.LocatedInID) || isAncestorAt(store, p.LocatedInID, ancestors, depth+1) {
			return true
		}
	}
	for _, alsoID := range p.AlsoLocatedInIDs {
		if containsID(ancestors, alsoID) || isAncestorAt(store, alsoID, ancestors, depth+1) {
			return true
		}
	}
	return false
}

func containsID(ids []int, id int) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// FilterSubplaces returns the subset of children that is an ancestor-match
// of parents, preserving the order of children.
func FilterSubplaces(store PlaceStore, children, parents []int) []int {
	result := make([]int, 0, len(children))
	for _, child := range children {
		if IsAncestor(store, child, parents) {
			result = append(result, child)
		}
	}
	return result
}

// RemoveChildren drops any id that is an ancestor-match of the full ids set
// -- including itself, which is benign since IsAncestor only walks strictly
// upward and a place is never its own ancestor.
func RemoveChildren(store PlaceStore, ids []int) []int {
	result := make([]int, 0, len(ids))
	for _, id := range ids {
		if !IsAncestor(store, id, ids) {
			result = append(result, id)
		}
	}
	return result
}
