package timeline

import "sort"

// Overlay is the set of currently hidden timeline keys. It never changes
// the milestone collection or the index. A nil overlay hides nothing;
// Show and Reset on it are no-ops.
type Overlay struct {
	hidden map[string]struct{}
}

// NewOverlay returns an overlay with nothing hidden.
func NewOverlay() *Overlay {
	return &Overlay{hidden: make(map[string]struct{})}
}

// Toggle hides key if visible, shows it if hidden. It reports whether key
// is hidden afterwards.
func (o *Overlay) Toggle(key string) bool {
	if o.Hidden(key) {
		o.Show(key)
		return false
	}
	o.Hide(key)
	return true
}

// Hide adds key to the hidden set.
func (o *Overlay) Hide(key string) {
	if o.hidden == nil {
		o.hidden = make(map[string]struct{})
	}
	o.hidden[key] = struct{}{}
}

// Show removes key from the hidden set.
func (o *Overlay) Show(key string) {
	if o == nil {
		return
	}
	delete(o.hidden, key)
}

// Hidden reports whether key is hidden. A nil overlay hides nothing.
func (o *Overlay) Hidden(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.hidden[key]
	return ok
}

// Keys returns the hidden keys, sorted.
func (o *Overlay) Keys() []string {
	if o == nil {
		return []string{}
	}
	keys := make([]string, 0, len(o.hidden))
	for k := range o.hidden {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reset shows every timeline.
func (o *Overlay) Reset() {
	if o == nil {
		return
	}
	o.hidden = make(map[string]struct{})
}
