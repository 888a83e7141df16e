package analyze

import "sort"

// Entry is one row of a top-K table.
type Entry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// counter is a frequency table that remembers first-insertion order, which
// breaks ties when ranking.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string, n int) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

// merge folds o into c as if o's additions had happened after c's.
func (c *counter) merge(o *counter) {
	for _, key := range o.order {
		c.add(key, o.counts[key])
	}
}

func (c *counter) get(key string) int { return c.counts[key] }

func (c *counter) len() int { return len(c.order) }

func (c *counter) total() int {
	n := 0
	for _, v := range c.counts {
		n += v
	}
	return n
}

// top returns up to k entries by descending count, skipping empty keys.
// Equal counts keep first-insertion order.
func (c *counter) top(k int) []Entry {
	entries := make([]Entry, 0, len(c.order))
	for _, key := range c.order {
		if key == "" {
			continue
		}
		entries = append(entries, Entry{Key: key, Count: c.counts[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if len(entries) > k {
		entries = entries[:k]
	}
	return entries
}
