package actions

// Set holds actions partitioned by scope, each in resolution order.
type Set struct {
	Toolbar   []Toolbar
	Item      []Item
	Selection []Selection
}

// Partition splits descriptors into scope buckets preserving order.
func Partition(descriptors []Descriptor) Set {
	var set Set
	for _, d := range descriptors {
		if isNil(d) {
			continue
		}
		switch action := d.(type) {
		case Toolbar:
			set.Toolbar = append(set.Toolbar, action)
		case Item:
			set.Item = append(set.Item, action)
		case Selection:
			set.Selection = append(set.Selection, action)
		case *Toolbar:
			set.Toolbar = append(set.Toolbar, *action)
		case *Item:
			set.Item = append(set.Item, *action)
		case *Selection:
			set.Selection = append(set.Selection, *action)
		}
	}
	return set
}

// Len returns the number of actions across all scopes.
func (s Set) Len() int {
	return len(s.Toolbar) + len(s.Item) + len(s.Selection)
}

// All returns the actions as descriptors: toolbar, then item, then selection.
func (s Set) All() []Descriptor {
	out := make([]Descriptor, 0, s.Len())
	for _, a := range s.Toolbar {
		out = append(out, a)
	}
	for _, a := range s.Item {
		out = append(out, a)
	}
	for _, a := range s.Selection {
		out = append(out, a)
	}
	return out
}

// Find returns the action with id.
func (s Set) Find(id string) (Descriptor, bool) {
	for _, d := range s.All() {
		if d.ID() == id {
			return d, true
		}
	}
	return nil, false
}

func isNil(d Descriptor) bool {
	switch action := d.(type) {
	case nil:
		return true
	case *Toolbar:
		return action == nil
	case *Item:
		return action == nil
	case *Selection:
		return action == nil
	}
	return false
}
