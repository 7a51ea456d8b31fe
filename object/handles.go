package object

// Strong is a shared-ownership handle over an object and its
// control block. It is the shared_ptr flavour of the intrusive
// count: copying through Share increments the same atomic that
// Interface.Ref manipulates.
//
// A Strong must be released exactly once; Release on the zero
// handle is a no-op.
type Strong struct {
	obj   Object
	block *ControlBlock
}

// Adopt wraps an object and its control block into a Strong handle
// without incrementing the count, taking over the reference the
// caller already owns (typically the creation reference).
func Adopt(obj Object, block *ControlBlock) Strong {
	return Strong{obj: obj, block: block}
}

// Share returns an additional strong handle over the same object,
// incrementing the strong count.
func (s Strong) Share() Strong {
	if s.block != nil {
		s.block.IncStrong()
	}
	return s
}

// IsValid reports whether the handle refers to an object.
func (s Strong) IsValid() bool {
	return s.obj != nil && s.block != nil
}

// Get returns the held object, or nil for the zero handle.
func (s Strong) Get() Object {
	return s.obj
}

// Block returns the control block backing the handle.
func (s Strong) Block() *ControlBlock {
	return s.block
}

// Release drops the strong reference. The object is destroyed if
// this was the final strong release.
func (s *Strong) Release() {
	if s.block != nil {
		s.block.DecStrong()
	}
	s.obj = nil
	s.block = nil
}

// Weak returns a weak handle observing the same object, taking an
// additional weak count on the block.
func (s Strong) Weak() Weak {
	if s.block == nil {
		return Weak{}
	}
	s.block.IncWeak()
	return Weak{obj: s.obj, block: s.block}
}

// StrongOf returns a new strong handle sharing ownership of an
// object that carries its own control block, incrementing the
// strong count. Returns the zero handle for objects without a
// block (not created through a factory).
func StrongOf(o Object) Strong {
	carrier, ok := o.(interface{ Block() *ControlBlock })
	if !ok {
		return Strong{}
	}
	block := carrier.Block()
	if block == nil {
		return Strong{}
	}
	block.IncStrong()
	return Strong{obj: o, block: block}
}

// Weak is a non-owning handle that observes an object's lifetime
// without extending it. Lock promotes to a Strong handle if the
// object is still alive.
type Weak struct {
	obj   Object
	block *ControlBlock
}

// Lock attempts to promote the weak handle to a strong one.
// Promotion fails once the object's strong count has reached zero.
func (w Weak) Lock() (Strong, bool) {
	if w.block == nil || !w.block.TryPromote() {
		return Strong{}, false
	}
	return Strong{obj: w.obj, block: w.block}, true
}

// Expired reports whether the observed object has been destroyed.
func (w Weak) Expired() bool {
	return w.block == nil || w.block.Expired()
}

// Release drops the weak count. Release on the zero handle is a
// no-op.
func (w *Weak) Release() {
	if w.block != nil {
		w.block.DecWeak()
	}
	w.obj = nil
	w.block = nil
}
