package dom

import (
	"strings"

	"github.com/vango-dev/weft/pkg/element"
)

// ListenerOptions control how a listener is invoked.
type ListenerOptions struct {
	Once    bool
	Capture bool

	// Passive is nil when neither Passive nor NoPassive was requested, in
	// which case the event type decides.
	Passive *bool
}

// modifiers are matched at the end of an event attribute name. NoPassive
// comes before Passive so the longer suffix wins.
var modifiers = []struct {
	suffix string
	apply  func(*ListenerOptions)
}{
	{"nopassive", func(o *ListenerOptions) { o.Passive = boolPtr(false) }},
	{"passive", func(o *ListenerOptions) { o.Passive = boolPtr(true) }},
	{"capture", func(o *ListenerOptions) { o.Capture = true }},
	{"once", func(o *ListenerOptions) { o.Once = true }},
}

func boolPtr(b bool) *bool { return &b }

// eventsEndingInModifier are event names that end in a modifier word.
var eventsEndingInModifier = map[string]bool{
	"gotpointercapture":  true,
	"lostpointercapture": true,
}

// ParseEventName splits an event attribute name such as "on:clickOnceCapture"
// into the event name and its listener options. The "on:" prefix is
// optional. Modifiers are stripped from the end, case-insensitively, until
// none match; the event name itself is never consumed. Text after the last
// modifier is part of the event name, so "keydownOnceX" is one event.
func ParseEventName(name string) (event string, opts ListenerOptions) {
	event = strings.TrimPrefix(name, element.EventPrefix)

	for {
		lower := strings.ToLower(event)
		if eventsEndingInModifier[lower] {
			return event, opts
		}
		matched := false
		for _, m := range modifiers {
			if len(lower) > len(m.suffix) && strings.HasSuffix(lower, m.suffix) {
				event = event[:len(event)-len(m.suffix)]
				m.apply(&opts)
				matched = true
				break
			}
		}
		if !matched {
			return event, opts
		}
	}
}

// passiveByDefault lists events whose listeners are passive unless NoPassive
// is given.
var passiveByDefault = map[string]bool{
	"touchstart": true,
	"touchmove":  true,
	"wheel":      true,
	"mousewheel": true,
}

// Phase is the propagation phase of an event.
type Phase uint8

const (
	PhaseNone Phase = iota
	PhaseCapturing
	PhaseAtTarget
	PhaseBubbling
)

// Event is dispatched through a Document.
type Event struct {
	Type    string
	Bubbles bool

	// Value and Key carry the client-side input value and key, if any.
	Value string
	Key   string
	Data  map[string]string

	Target        *Node
	CurrentTarget *Node
	Phase         Phase

	stopped   bool
	immediate bool
	prevented bool
	passive   bool
}

// NewEvent creates a bubbling event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, Bubbles: true}
}

// StopPropagation stops the event after the current node.
func (e *Event) StopPropagation() { e.stopped = true }

// StopImmediatePropagation stops the event before the next listener.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
	e.immediate = true
}

// PreventDefault marks the event as handled. It has no effect inside a
// passive listener.
func (e *Event) PreventDefault() {
	if !e.passive {
		e.prevented = true
	}
}

// DefaultPrevented reports whether PreventDefault took effect.
func (e *Event) DefaultPrevented() bool { return e.prevented }

type listener struct {
	event   string
	fn      func(*Event)
	opts    ListenerOptions
	removed bool
}

func (l *listener) passive() bool {
	if l.opts.Passive != nil {
		return *l.opts.Passive
	}
	return passiveByDefault[l.event]
}

// AddEventListener registers fn for events of the given type. The returned
// function removes it.
func (n *Node) AddEventListener(event string, fn func(*Event), opts ListenerOptions) func() {
	l := &listener{event: event, fn: fn, opts: opts}
	n.listeners = append(n.listeners, l)
	return func() { n.removeListener(l) }
}

func (n *Node) removeListener(l *listener) {
	l.removed = true
	for i, cur := range n.listeners {
		if cur == l {
			n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
			return
		}
	}
}

// HasListeners reports whether any listener for event is registered on n.
func (n *Node) HasListeners(event string) bool {
	for _, l := range n.listeners {
		if l.event == event {
			return true
		}
	}
	return false
}

// Dispatch sends ev to target: capture listeners from the root down, then
// the target's own listeners, then bubbling listeners back up. It returns
// false if a listener called PreventDefault.
func Dispatch(target *Node, ev *Event) bool {
	ev.Target = target
	ev.stopped, ev.immediate, ev.prevented = false, false, false

	var path []*Node
	for cur := target.Parent; cur != nil; cur = cur.Parent {
		path = append(path, cur)
	}

	ev.Phase = PhaseCapturing
	for i := len(path) - 1; i >= 0 && !ev.stopped; i-- {
		path[i].invoke(ev, func(l *listener) bool { return l.opts.Capture })
	}

	if !ev.stopped {
		ev.Phase = PhaseAtTarget
		target.invoke(ev, func(*listener) bool { return true })
	}

	if ev.Bubbles {
		ev.Phase = PhaseBubbling
		for i := 0; i < len(path) && !ev.stopped; i++ {
			path[i].invoke(ev, func(l *listener) bool { return !l.opts.Capture })
		}
	}

	ev.Phase = PhaseNone
	ev.CurrentTarget = nil
	return !ev.prevented
}

func (n *Node) invoke(ev *Event, phase func(*listener) bool) {
	if len(n.listeners) == 0 {
		return
	}
	ev.CurrentTarget = n

	snapshot := make([]*listener, len(n.listeners))
	copy(snapshot, n.listeners)
	for _, l := range snapshot {
		if l.removed || l.event != ev.Type || !phase(l) {
			continue
		}
		if l.opts.Once {
			n.removeListener(l)
		}
		ev.passive = l.passive()
		l.fn(ev)
		ev.passive = false
		if ev.immediate {
			return
		}
	}
}

// setHandler installs the listener for an "on:" attribute, replacing the
// one previously installed under the same attribute name. A nil or
// unsupported value only removes.
func (n *Node) setHandler(attr string, value any) {
	if old, ok := n.handlers[attr]; ok {
		n.removeListener(old)
		delete(n.handlers, attr)
	}

	fn := handlerFunc(value)
	if fn == nil {
		return
	}
	event, opts := ParseEventName(attr)
	l := &listener{event: event, fn: fn, opts: opts}
	n.listeners = append(n.listeners, l)
	if n.handlers == nil {
		n.handlers = make(map[string]*listener)
	}
	n.handlers[attr] = l
}

func handlerFunc(v any) func(*Event) {
	switch h := v.(type) {
	case func(*Event):
		return h
	case func():
		return func(*Event) { h() }
	case func(string):
		return func(e *Event) { h(e.Value) }
	default:
		return nil
	}
}
