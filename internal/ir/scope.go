package ir

// ScopeTree maps a node identity to the sequence of enclosing scope
// identities: the innermost scope first, then its ancestors, up to (and
// including) the module-global scope. A scope is any node that
// introduces names: a lambda body, a let-in body, an action body, or a
// module body.
type ScopeTree struct {
	scopesFor map[NodeID][]NodeID
}

// NewScopeTree builds an empty tree; use a ScopeTreeBuilder to populate
// it while walking a module.
func NewScopeTree() *ScopeTree {
	return &ScopeTree{scopesFor: make(map[NodeID][]NodeID)}
}

// ScopesFor returns all scopes enclosing id, innermost first. A node
// with no recorded scopes is treated as visible only at module-global
// scope (an empty slice).
func (t *ScopeTree) ScopesFor(id NodeID) []NodeID {
	return t.scopesFor[id]
}

// set records the enclosing scope chain for id. Called by the builder;
// exported only within the package.
func (t *ScopeTree) set(id NodeID, chain []NodeID) {
	cp := make([]NodeID, len(chain))
	copy(cp, chain)
	t.scopesFor[id] = cp
}

// In reports whether scope is one of the scopes enclosing id.
func (t *ScopeTree) In(id, scope NodeID) bool {
	for _, s := range t.scopesFor[id] {
		if s == scope {
			return true
		}
	}
	return false
}

// ScopeTreeBuilder constructs a ScopeTree by walking a module and
// pushing a new scope id whenever it enters a node that introduces
// names.
type ScopeTreeBuilder struct {
	tree  *ScopeTree
	stack []NodeID
}

func NewScopeTreeBuilder() *ScopeTreeBuilder {
	return &ScopeTreeBuilder{tree: NewScopeTree()}
}

// BuildFromModule walks mod and returns the completed scope tree. The
// module body itself is the outermost scope.
func BuildFromModule(mod *Module) *ScopeTree {
	b := NewScopeTreeBuilder()
	b.push(mod.ID())
	WalkModule(mod, b.enter, b.exit)
	return b.tree
}

func (b *ScopeTreeBuilder) push(id NodeID) { b.stack = append(b.stack, id) }
func (b *ScopeTreeBuilder) pop()           { b.stack = b.stack[:len(b.stack)-1] }

func (b *ScopeTreeBuilder) chain() []NodeID {
	// innermost first: reverse of the push order.
	chain := make([]NodeID, len(b.stack))
	for i, id := range b.stack {
		chain[len(b.stack)-1-i] = id
	}
	return chain
}

func introducesScope(n Node) bool {
	switch n.(type) {
	case *Module, *Lambda, *Let, *OpDef:
		return true
	default:
		return false
	}
}

func (b *ScopeTreeBuilder) enter(n Node) {
	b.tree.set(n.ID(), b.chain())
	if introducesScope(n) && n.ID() != b.stack[len(b.stack)-1] {
		b.push(n.ID())
	}
}

func (b *ScopeTreeBuilder) exit(n Node) {
	if introducesScope(n) && len(b.stack) > 0 && b.stack[len(b.stack)-1] == n.ID() {
		b.pop()
	}
}
