// Package event provides the multicast primitive: an event is an
// invocable function whose invocation dispatches to an ordered set
// of handler functions, immediately or deferred.
package event

import (
	"github.com/velkstack/velk/core"
	"github.com/velkstack/velk/function"
	"github.com/velkstack/velk/value"
)

// InterfaceUid identifies the event capability in object dispatch
// tables.
var InterfaceUid = core.MakeHash("velk.Event")

// handlerEntry pairs a registered handler with the invoke mode it
// was added under.
type handlerEntry struct {
	fn   function.Invocable
	mode function.InvokeType
}

// Event is a multicast function. It holds two ordered handler
// lists: handlers added with Immediate fire synchronously during
// dispatch, handlers added with Deferred are queued onto the
// owning instance's task queue after all immediate handlers ran.
//
// Handlers are identified by object identity; adding the same
// handler twice is a no-op. Event state is not internally
// synchronized: concurrent mutation of the same event requires
// external synchronization from the caller.
type Event struct {
	function.Function
	immediate []handlerEntry
	deferred  []handlerEntry
	deferrer  function.Deferrer
}

var classInfo = &core.ClassInfo{
	Uid:  core.MakeHash("Event"),
	Name: "Event",
}

// New creates an event outside the registry. Events created this
// way cannot queue deferred work unless a deferrer is supplied.
func New(deferrer function.Deferrer) *Event {
	e := &Event{}
	e.InitObject(classInfo, core.FlagNone)
	e.Setup(deferrer)
	return e
}

// Setup finishes construction for registry-created instances. The
// event registers itself for the invocable capability before the
// embedded function does, so dispatch through the interface table
// reaches the multicast Invoke.
func (e *Event) Setup(deferrer function.Deferrer) {
	e.deferrer = deferrer
	e.RegisterInterface(InterfaceUid, e)
	e.RegisterInterface(function.InterfaceUid, function.Invocable(e))
	e.Function.Setup(deferrer)
}

// AddHandler appends fn to the handler list selected by invokeType.
// Handlers already registered in either list are left untouched and
// NothingToDo is returned.
func (e *Event) AddHandler(fn function.Invocable, invokeType function.InvokeType) core.ReturnValue {
	if fn == nil {
		return core.InvalidArgument
	}
	if e.findHandler(fn) {
		return core.NothingToDo
	}
	entry := handlerEntry{fn: fn, mode: invokeType}
	if invokeType == function.Deferred {
		e.deferred = append(e.deferred, entry)
	} else {
		e.immediate = append(e.immediate, entry)
	}
	return core.Success
}

// RemoveHandler removes fn from whichever list contains it.
func (e *Event) RemoveHandler(fn function.Invocable) core.ReturnValue {
	if fn == nil {
		return core.InvalidArgument
	}
	if removed := removeEntry(&e.immediate, fn); removed {
		return core.Success
	}
	if removed := removeEntry(&e.deferred, fn); removed {
		return core.Success
	}
	return core.NothingToDo
}

// HasHandlers reports whether any handler is registered.
func (e *Event) HasHandlers() bool {
	return len(e.immediate) > 0 || len(e.deferred) > 0
}

// HandlerCount returns the total number of registered handlers.
func (e *Event) HandlerCount() int {
	return len(e.immediate) + len(e.deferred)
}

// Invoke dispatches to all handlers. Immediate handlers fire
// synchronously in insertion order before any deferred handler is
// queued. Invoking the event itself with Deferred queues the whole
// dispatch; the handler lists are read at drain time, so handlers
// added or removed before the drain are honoured.
//
// Re-entrancy: handlers added during dispatch do not fire in the
// current dispatch; handlers removed during dispatch that have not
// yet been visited do not fire.
func (e *Event) Invoke(args function.FnArgs, invokeType function.InvokeType) value.Any {
	if invokeType == function.Deferred {
		if e.deferrer == nil {
			return nil
		}
		e.deferrer.QueueInvoke(e, args)
		return nil
	}

	// Snapshot for iteration order; consult the live list before
	// each call so mid-dispatch removals are honoured and
	// mid-dispatch additions stay invisible until the next invoke.
	snapshot := append([]handlerEntry{}, e.immediate...)
	for _, entry := range snapshot {
		if !e.findHandler(entry.fn) {
			continue
		}
		entry.fn.Invoke(args, function.Immediate)
	}

	if e.deferrer != nil {
		deferredSnapshot := append([]handlerEntry{}, e.deferred...)
		for _, entry := range deferredSnapshot {
			if !e.findHandler(entry.fn) {
				continue
			}
			e.deferrer.QueueInvoke(entry.fn, args)
		}
	}
	return nil
}

func (e *Event) findHandler(fn function.Invocable) bool {
	for _, entry := range e.immediate {
		if entry.fn == fn {
			return true
		}
	}
	for _, entry := range e.deferred {
		if entry.fn == fn {
			return true
		}
	}
	return false
}

func removeEntry(entries *[]handlerEntry, fn function.Invocable) bool {
	for i, entry := range *entries {
		if entry.fn == fn {
			*entries = append((*entries)[:i], (*entries)[i+1:]...)
			return true
		}
	}
	return false
}

// Dispose clears the handler lists on the final strong release.
func (e *Event) Dispose() {
	e.immediate = nil
	e.deferred = nil
	e.Function.Dispose()
}
