package filter

// ordered is an insert-or-replace map keyed by posting id that remembers
// first-insertion order.
type ordered struct {
	idx   map[string]int
	items []Match
}

func newOrdered() *ordered {
	return &ordered{idx: make(map[string]int)}
}

// put stores m under id and reports whether an earlier value was replaced.
func (o *ordered) put(id string, m Match) bool {
	if i, ok := o.idx[id]; ok {
		o.items[i] = m
		return true
	}
	o.idx[id] = len(o.items)
	o.items = append(o.items, m)
	return false
}

func (o *ordered) values() []Match {
	out := make([]Match, len(o.items))
	copy(out, o.items)
	return out
}
