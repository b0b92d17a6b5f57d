package ecs

// Each2 iterates over entities that have both component A and B.
// It walks the smaller store in its insertion order and probes the larger one.
func Each2[A, B any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], fn func(EntityID, *A, *B)) {
	if sa.Len() <= sb.Len() {
		for _, id := range sa.order {
			if b, ok := sb.data[id]; ok {
				fn(id, sa.data[id], b)
			}
		}
	} else {
		for _, id := range sb.order {
			if a, ok := sa.data[id]; ok {
				fn(id, a, sb.data[id])
			}
		}
	}
}

// Each3 iterates over entities that have components A, B, and C.
// Visiting order follows store A so results do not depend on store sizes.
func Each3[A, B, C any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], sc *PtrComponentStore[C], fn func(EntityID, *A, *B, *C)) {
	for _, id := range sa.order {
		b, ok := sb.data[id]
		if !ok {
			continue
		}
		c, ok := sc.data[id]
		if !ok {
			continue
		}
		fn(id, sa.data[id], b, c)
	}
}
