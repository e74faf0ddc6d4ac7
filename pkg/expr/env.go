package expr

// Callable is a function exposed to expressions. Callables receive already
// evaluated arguments and may return any expression value. A callable is
// only reachable when its name is on the evaluation config's call
// allow-list, so side-effecting helpers (the pricing recompute hooks) are
// wired per call site, never globally.
type Callable func(args []any) (any, error)

// AttrResolver is implemented by values that support dotted attribute
// access from expressions. The pricing accumulator implements it so
// formulas can read pricing.base_rate and friends.
type AttrResolver interface {
	// Attr returns the named attribute, or nil when absent.
	Attr(name string) any
}

// Namespace is a read-only attribute bag backing roots such as answers and
// computed. Missing attributes resolve to nil rather than erroring, which
// mirrors undefined-style semantics the catalog dialect relies on. The
// convenience masks authoring typos; that trade-off is deliberate and must
// not be "fixed" without product sign-off.
type Namespace struct {
	data map[string]any
}

// NewNamespace creates a namespace over a copy of data. A nil map yields an
// empty namespace.
func NewNamespace(data map[string]any) *Namespace {
	n := &Namespace{data: make(map[string]any, len(data))}
	for k, v := range data {
		n.data[k] = v
	}
	return n
}

// Attr implements AttrResolver.
func (n *Namespace) Attr(name string) any {
	return n.data[name]
}

// AsMap returns a copy of the namespace contents.
func (n *Namespace) AsMap() map[string]any {
	out := make(map[string]any, len(n.data))
	for k, v := range n.data {
		out[k] = v
	}
	return out
}

// Env maps allow-listed top-level names to their values. Plain values,
// namespaces, and Callables all live in the same map; the Config decides
// which names may be referenced, dotted into, or called.
type Env map[string]any

// Config carries the three allow-lists enforced at every name, attribute,
// and call site. Anything not listed is rejected, never silently ignored.
type Config struct {
	AllowedNames     map[string]bool
	AllowedCallables map[string]bool
	AllowedAttrRoots map[string]bool
}

// NewConfig builds a Config from name slices.
func NewConfig(names, callables, attrRoots []string) *Config {
	return &Config{
		AllowedNames:     toSet(names),
		AllowedCallables: toSet(callables),
		AllowedAttrRoots: toSet(attrRoots),
	}
}

// ConfigForEnv allows every name in env, calls to every Callable in env,
// and attribute access on the given roots. This mirrors how rule engines
// assemble their evaluation contexts: the env is built explicitly, then the
// allow-lists are derived from it.
func ConfigForEnv(env Env, attrRoots []string) *Config {
	cfg := &Config{
		AllowedNames:     make(map[string]bool, len(env)),
		AllowedCallables: make(map[string]bool),
		AllowedAttrRoots: toSet(attrRoots),
	}
	for name, v := range env {
		cfg.AllowedNames[name] = true
		if _, ok := v.(Callable); ok {
			cfg.AllowedCallables[name] = true
		}
	}
	return cfg
}

func toSet(names []string) map[string]bool {
	s := make(map[string]bool, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}
