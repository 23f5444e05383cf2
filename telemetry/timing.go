package telemetry

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/redstreet/fava-investor/output"
)

// slowThreshold marks operations highlighted in reports.
const slowThreshold = 100 * time.Millisecond

// TimingCollector builds a tree of timed operations. It is safe for
// concurrent use.
type TimingCollector struct {
	mu      sync.Mutex
	roots   []*timerNode
	current *timerNode
	now     func() time.Time
}

type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *timerNode
	children []*timerNode
}

func NewTimingCollector() *TimingCollector {
	return &TimingCollector{now: time.Now}
}

func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: c.now(), parent: c.current}
	if c.current == nil {
		c.roots = append(c.roots, node)
	} else {
		c.current.children = append(c.current.children, node)
	}
	c.current = node

	return &timingTimer{collector: c, node: node}
}

func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, root := range c.roots {
		writeNode(w, root, "", "", styles)
	}
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

// End records the end time. Ending a timer makes its parent the insertion
// point for timers started afterwards.
func (t *timingTimer) End() {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	if !t.node.end.IsZero() {
		return
	}
	t.node.end = c.now()
	if c.current == t.node {
		c.current = t.node.parent
	}
}

// Child starts a timer directly under this one, regardless of which timer is
// innermost.
func (t *timingTimer) Child(name string) Timer {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: c.now(), parent: t.node}
	t.node.children = append(t.node.children, node)

	return &timingTimer{collector: c, node: node}
}

func (n *timerNode) duration() time.Duration {
	if n.end.IsZero() {
		return 0
	}
	return n.end.Sub(n.start)
}

// writeNode prints a node and its children:
//
//	split: 125ms
//	├─ load: 85ms
//	│  └─ parse main.beancount: 45ms
//	└─ walk: 40ms
func writeNode(w io.Writer, n *timerNode, prefix, branch string, styles *output.Styles) {
	d := n.duration()
	timing := formatDuration(d)
	tree := prefix + branch
	name := n.name

	if styles != nil {
		tree = styles.Dim(tree)
		if branch == "" {
			name = styles.Keyword(name)
		}
		if d >= slowThreshold {
			timing = styles.Warning(timing)
		} else {
			timing = styles.Dim(timing)
		}
	}
	_, _ = fmt.Fprintf(w, "%s%s: %s\n", tree, name, timing)

	childPrefix := prefix
	switch branch {
	case "├─ ":
		childPrefix += "│  "
	case "└─ ":
		childPrefix += "   "
	}
	for i, child := range n.children {
		b := "├─ "
		if i == len(n.children)-1 {
			b = "└─ "
		}
		writeNode(w, child, childPrefix, b, styles)
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
