package rope

// FilterTable records the body pairs whose collision response has been
// disabled. Pairs are unordered. Body implementations must be comparable.
type FilterTable struct {
	pairs map[[2]Body]struct{}
}

func NewFilterTable() *FilterTable {
	return &FilterTable{pairs: make(map[[2]Body]struct{})}
}

func (t *FilterTable) key(a, b Body) [2]Body {
	if _, ok := t.pairs[[2]Body{b, a}]; ok {
		return [2]Body{b, a}
	}
	return [2]Body{a, b}
}

func (t *FilterTable) Has(a, b Body) bool {
	if t == nil {
		return false
	}
	_, ok := t.pairs[t.key(a, b)]
	return ok
}

// Ignore disables the pair through the engine unless it already was.
// It reports whether a new pair was issued.
func (t *FilterTable) Ignore(engine Engine, a, b Body) bool {
	if a == nil || b == nil || a == b || t.Has(a, b) {
		return false
	}
	t.pairs[[2]Body{a, b}] = struct{}{}
	engine.IgnoreCollision(a, b)
	return true
}

func (t *FilterTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.pairs)
}

// ApplyFiltering disables collision response for every pair of links and for
// every link against both anchors. Calling it again issues nothing new.
func ApplyFiltering(engine Engine, chain *Chain) int {
	if chain == nil || engine == nil {
		return 0
	}
	table := chain.filter
	issued := 0
	links := chain.links
	for i, li := range links {
		if !li.live() {
			continue
		}
		for _, lj := range links[i+1:] {
			if lj.live() && table.Ignore(engine, li.Body, lj.Body) {
				issued++
			}
		}
		if table.Ignore(engine, li.Body, chain.anchorA) {
			issued++
		}
		if table.Ignore(engine, li.Body, chain.anchorB) {
			issued++
		}
	}
	chain.filtered = true
	chain.log.WithField("pairs", issued).Debug("collision filtering applied")
	return issued
}
