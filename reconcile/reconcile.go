package reconcile

// Association is one stored product-tag row.
type Association struct {
	ID    uint
	TagID uint
}

// Plan lists the join rows to delete (by association id) and the tag ids to insert.
type Plan struct {
	Insert []uint
	Delete []uint
}

// Empty reports whether the plan changes nothing.
func (p Plan) Empty() bool {
	return len(p.Insert) == 0 && len(p.Delete) == 0
}

// Diff computes the changes that turn the current associations into the target tag set.
// Target ids are treated as a set. A tag present on both sides is left alone; if the same tag
// is stored more than once, only its first association is kept.
func Diff(current []Association, target []uint) Plan {
	wanted := make(map[uint]bool, len(target))
	for _, tagID := range target {
		wanted[tagID] = true
	}

	var plan Plan
	kept := make(map[uint]bool, len(current))
	for _, a := range current {
		if !wanted[a.TagID] || kept[a.TagID] {
			plan.Delete = append(plan.Delete, a.ID)
			continue
		}
		kept[a.TagID] = true
	}

	queued := make(map[uint]bool, len(target))
	for _, tagID := range target {
		if kept[tagID] || queued[tagID] {
			continue
		}
		queued[tagID] = true
		plan.Insert = append(plan.Insert, tagID)
	}

	return plan
}
