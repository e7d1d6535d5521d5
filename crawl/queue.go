// Package crawl — depth-first frontier with deduplication.
// Pages come off in the order a recursive walk would reach them, and the
// visited set keeps a looping link graph from being walked twice.
package crawl

// Frontier is a LIFO stack of URLs with a visited set.
type Frontier struct {
	stack   []string
	visited map[string]bool
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{
		visited: make(map[string]bool),
	}
}

// Push adds the links of one page. They are pushed in reverse so the
// first link on the page is the next one taken.
func (f *Frontier) Push(urls ...string) {
	for i := len(urls) - 1; i >= 0; i-- {
		if !f.visited[urls[i]] {
			f.stack = append(f.stack, urls[i])
		}
	}
}

// Next pops the next unvisited URL and marks it visited.
func (f *Frontier) Next() (string, bool) {
	for len(f.stack) > 0 {
		url := f.stack[len(f.stack)-1]
		f.stack = f.stack[:len(f.stack)-1]
		if f.visited[url] {
			continue
		}
		f.visited[url] = true
		return url, true
	}
	return "", false
}

// Pending returns the number of URLs still on the stack, duplicates
// included.
func (f *Frontier) Pending() int {
	return len(f.stack)
}

// Visited returns the number of URLs taken off the stack.
func (f *Frontier) Visited() int {
	return len(f.visited)
}
