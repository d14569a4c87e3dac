package changeset

import "sort"

// ChangeSet tracks which paths a run created and which it modified. The
// two sets stay disjoint: the first classification of a path wins, and
// later writes to the same path never move it between sets.
type ChangeSet struct {
	created  map[string]struct{}
	modified map[string]struct{}
}

// New returns an empty ChangeSet.
func New() *ChangeSet {
	return &ChangeSet{
		created:  make(map[string]struct{}),
		modified: make(map[string]struct{}),
	}
}

// RecordCreated marks path as created unless it is already tracked.
func (c *ChangeSet) RecordCreated(path string) {
	if c.tracked(path) {
		return
	}
	c.created[path] = struct{}{}
}

// RecordModified marks path as modified unless it is already tracked.
func (c *ChangeSet) RecordModified(path string) {
	if c.tracked(path) {
		return
	}
	c.modified[path] = struct{}{}
}

func (c *ChangeSet) tracked(path string) bool {
	if _, ok := c.created[path]; ok {
		return true
	}
	_, ok := c.modified[path]
	return ok
}

// Created returns the created paths, sorted.
func (c *ChangeSet) Created() []string {
	return sortedKeys(c.created)
}

// Modified returns the modified paths, sorted.
func (c *ChangeSet) Modified() []string {
	return sortedKeys(c.modified)
}

// CreatedCount returns how many paths the run created.
func (c *ChangeSet) CreatedCount() int {
	return len(c.created)
}

// ModifiedCount returns how many paths the run modified.
func (c *ChangeSet) ModifiedCount() int {
	return len(c.modified)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
