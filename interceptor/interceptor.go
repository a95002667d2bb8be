package interceptor

// Interceptor inspects or mutates a request before it is dispatched.
// Returning an error aborts the chain.
type Interceptor[R any] interface {
	ID() ID
	Intercept(req R) error
}

// Func adapts a closure into an Interceptor with its own id and an
// optional name.
type Func[R any] struct {
	id   ID
	name string
	fn   func(R) error
}

// NewFunc wraps fn with a fresh id.
func NewFunc[R any](fn func(R) error) *Func[R] {
	return &Func[R]{id: NewID(), fn: fn}
}

// NewNamedFunc wraps fn with a fresh id and a name for logs.
func NewNamedFunc[R any](name string, fn func(R) error) *Func[R] {
	return &Func[R]{id: NewID(), name: name, fn: fn}
}

// ID returns the interceptor's id.
func (f *Func[R]) ID() ID { return f.id }

// Name returns the name given to NewNamedFunc, or the id when there is none.
func (f *Func[R]) Name() string {
	if f.name == "" {
		return f.id.String()
	}
	return f.name
}

// Intercept calls the wrapped closure.
func (f *Func[R]) Intercept(req R) error { return f.fn(req) }

// Named is an interceptor that also reports a human-readable name, used in logs.
type Named interface {
	Name() string
}

// NameOf returns i's name if it has one, otherwise its id.
func NameOf[R any](i Interceptor[R]) string {
	if n, ok := i.(Named); ok {
		return n.Name()
	}
	return i.ID().String()
}
