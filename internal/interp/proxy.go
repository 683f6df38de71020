package interp

// NewProxyObject builds a Proxy exotic object wrapping target with handler,
// per §1's Proxy/Reflect scope item. The proxy's own Proto mirrors the
// target's at construction time (Object.getPrototypeOf(proxy) without a
// getPrototypeOf trap falls through to the target, matching the simple
// case this interpreter covers); GetOwn/Get/Set/HasProperty/DeleteOwn/
// OwnKeys all special-case ClassProxy directly (see value.go/reference.go)
// rather than teaching every caller about an extra indirection.
func (it *Interpreter) NewProxyObject(target, handler *Object) *Object {
	return &Object{
		Proto:        target.Proto,
		Class:        ClassProxy,
		props:        make(map[string]*PropertyDescriptor),
		Extensible:   true,
		ProxyTarget:  target,
		ProxyHandler: handler,
	}
}
