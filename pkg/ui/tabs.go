// Package ui holds view state that is independent of any renderer: the
// active tab of a page and the open/closed state of selection dropdowns.
package ui

import "strings"

// Tabs is an ordered set of tab keys with exactly one active tab.
type Tabs struct {
	keys   []string
	active int

	// OnChange, if set, is called with the previous and new key whenever the
	// active tab actually changes.
	OnChange func(from, to string)
}

// NewTabs creates tabs over keys with the first one active. Duplicate and
// blank keys are dropped.
func NewTabs(keys ...string) *Tabs {
	seen := make(map[string]bool, len(keys))
	tabs := &Tabs{}
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		tabs.keys = append(tabs.keys, key)
	}
	return tabs
}

// Keys returns the tab keys in order.
func (t *Tabs) Keys() []string {
	keys := make([]string, len(t.keys))
	copy(keys, t.keys)
	return keys
}

// Active returns the active key, or "" when there are no tabs.
func (t *Tabs) Active() string {
	if len(t.keys) == 0 {
		return ""
	}
	return t.keys[t.active]
}

// Index returns the position of the active tab.
func (t *Tabs) Index() int { return t.active }

// Select activates key. It returns false when key is not a tab.
func (t *Tabs) Select(key string) bool {
	for i, k := range t.keys {
		if k == key {
			t.activate(i)
			return true
		}
	}
	return false
}

// Next activates the following tab, wrapping around.
func (t *Tabs) Next() {
	if len(t.keys) == 0 {
		return
	}
	t.activate((t.active + 1) % len(t.keys))
}

// Prev activates the preceding tab, wrapping around.
func (t *Tabs) Prev() {
	if len(t.keys) == 0 {
		return
	}
	t.activate((t.active - 1 + len(t.keys)) % len(t.keys))
}

// Fragment returns the location fragment identifying the active tab,
// e.g. "#deputados".
func (t *Tabs) Fragment() string {
	if active := t.Active(); active != "" {
		return "#" + active
	}
	return ""
}

// FromFragment activates the tab named by a location fragment. Unknown or
// empty fragments leave the active tab unchanged and return false.
func (t *Tabs) FromFragment(fragment string) bool {
	key := strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	if key == "" {
		return false
	}
	return t.Select(key)
}

func (t *Tabs) activate(i int) {
	if i == t.active {
		return
	}
	from := t.keys[t.active]
	t.active = i
	if t.OnChange != nil {
		t.OnChange(from, t.keys[i])
	}
}
