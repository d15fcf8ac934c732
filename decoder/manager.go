package decoder

import (
	"errors"
	"fmt"

	"github.com/teatak/treedec/grammar"
	"github.com/teatak/treedec/tree"
)

// ErrEmptyStack reports a root stack with no vertices after decoding. The
// glue guarantee makes this unreachable for well-formed input; seeing it
// means a broken invariant, not a translation failure.
var ErrEmptyStack = errors.New("decoder: empty vertex stack")

// nodeState tracks each node through the per-node pipeline. States advance
// strictly in order and every node ends Stacked exactly once.
type nodeState int

const (
	stateUnvisited nodeState = iota
	stateMatching
	stateBundling
	statePruning
	stateRecombining
	stateStacked
)

// Manager drives the decode of one sentence: a post-order traversal that
// matches rules, runs cube pruning, and recombines vertices into per-node
// stacks. A Manager owns its stacks and vertices exclusively; none of its
// methods may be called concurrently. Parallelism across sentences is the
// caller's business, one Manager each.
type Manager struct {
	cfg         Config
	scorer      Scorer
	src         *tree.Tree
	stacks      map[*tree.Node]Stack
	states      map[*tree.Node]nodeState
	matchers    []RuleMatcher
	glueMatcher RuleMatcher
	glue        *GlueSynthesizer
	decoded     bool
}

// NewManager prepares a decode over one source tree. Tables are the loaded
// rule tries, shared read-only across sentences; one matcher is created per
// table plus one for the on-demand glue trie. A nil scorer selects
// RuleScorer.
func NewManager(cfg Config, scorer Scorer, tables []*grammar.Table, src *tree.Tree) *Manager {
	if scorer == nil {
		scorer = RuleScorer{}
	}
	m := &Manager{
		cfg:    cfg,
		scorer: scorer,
		src:    src,
		stacks: make(map[*tree.Node]Stack, len(src.Nodes)),
		states: make(map[*tree.Node]nodeState, len(src.Nodes)),
	}
	for _, t := range tables {
		m.matchers = append(m.matchers, NewTrieMatcher(t.Trie))
	}
	glueTrie := grammar.NewTrie()
	m.glueMatcher = NewTrieMatcher(glueTrie)
	m.matchers = append(m.matchers, m.glueMatcher)
	m.glue = NewGlueSynthesizer(glueTrie, cfg.GlueScore)
	return m
}

// Decode runs the full bottom-up search. Leaf nodes are seeded with a
// single vertex; every internal node then goes through matching, bundling,
// cube pruning, and recombination, in an order that has all children
// stacked before their parent starts.
func (m *Manager) Decode() error {
	if err := m.cfg.Validate(); err != nil {
		return err
	}
	m.initStacks()
	for _, node := range m.src.Nodes {
		if node.IsLeaf() {
			continue
		}
		if err := m.decodeNode(node); err != nil {
			return err
		}
	}
	m.decoded = true
	return nil
}

// initStacks creates an empty stack per node and a leaf vertex for every
// terminal.
func (m *Manager) initStacks() {
	for _, node := range m.src.Nodes {
		if node.IsLeaf() {
			m.stacks[node] = Stack{&SVertex{Node: node}}
			m.states[node] = stateStacked
		} else {
			m.stacks[node] = nil
			m.states[node] = stateUnvisited
		}
	}
}

func (m *Manager) decodeNode(node *tree.Node) error {
	m.states[node] = stateMatching
	var matches []PatternHyperedge
	collect := func(ph PatternHyperedge) { matches = append(matches, ph) }
	for _, matcher := range m.matchers {
		matcher.EnumerateHyperedges(node, collect)
	}

	m.states[node] = stateBundling
	bundles := BuildBundles(matches, m.stacks, m.cfg.RuleLimit)

	// No grammar rule matched: synthesize a glue rule guaranteed to match
	// this node's shape and rematch with the glue matcher alone.
	if len(bundles) == 0 {
		if err := m.glue.SynthesizeRule(node); err != nil {
			return fmt.Errorf("decoder: glue synthesis at %s[%d,%d): %w",
				node.Symbol, node.Span.Start, node.Span.End, err)
		}
		m.glueMatcher.EnumerateHyperedges(node, collect)
		bundles = BuildBundles(matches, m.stacks, m.cfg.RuleLimit)
		if len(bundles) != 1 {
			return fmt.Errorf("decoder: glue rule failed to match %s[%d,%d)",
				node.Symbol, node.Span.Start, node.Span.End)
		}
	}

	m.states[node] = statePruning
	queue := NewCubeQueue(m.scorer, bundles)
	var buffer []*SHyperedge
	for len(buffer) < m.cfg.PopLimit && !queue.IsEmpty() {
		buffer = append(buffer, queue.Pop())
	}

	m.states[node] = stateRecombining
	m.stacks[node] = RecombineAndSort(buffer, m.scorer, m.cfg.StackLimit)
	m.states[node] = stateStacked
	if len(m.stacks[node]) == 0 {
		return fmt.Errorf("%w: %s[%d,%d)", ErrEmptyStack,
			node.Symbol, node.Span.Start, node.Span.End)
	}
	return nil
}

// GetBestSHyperedge returns the best incoming hyperedge of the root stack's
// top vertex. It fails with ErrEmptyStack if decoding has not produced one;
// given the glue guarantee that signals a corrupted search space.
func (m *Manager) GetBestSHyperedge() (*SHyperedge, error) {
	stack := m.RootStack()
	if len(stack) == 0 {
		return nil, fmt.Errorf("%w: root", ErrEmptyStack)
	}
	return stack[0].Best, nil
}

// RootStack returns the root node's vertex stack.
func (m *Manager) RootStack() Stack {
	return m.stacks[m.src.Root]
}

// Stack returns one node's vertex stack.
func (m *Manager) Stack(node *tree.Node) Stack {
	return m.stacks[node]
}

// Tree returns the source tree being decoded.
func (m *Manager) Tree() *tree.Tree {
	return m.src
}

// Config returns the decode settings.
func (m *Manager) Config() Config {
	return m.cfg
}

// Decoded reports whether Decode has completed.
func (m *Manager) Decoded() bool {
	return m.decoded
}
