package executor

// Env maps the labels visible to one body to their current values. There is
// no parent chain: a function body sees its parameters and locals only, and
// the program body sees the program variables only.
type Env struct {
	bindings map[string]Value
}

func NewEnv() *Env {
	return &Env{bindings: make(map[string]Value)}
}

func (e *Env) Get(name string) (Value, bool) {
	val, ok := e.bindings[name]
	return val, ok
}

// Set replaces the value bound to name.
func (e *Env) Set(name string, val Value) {
	e.bindings[name] = val
}

func (e *Env) Has(name string) bool {
	_, ok := e.bindings[name]
	return ok
}
