package reactive

type listenerEntry[L any] struct {
	listener L
}

// listenerList keeps listeners in registration order. Dispatch always works
// on a snapshot so removal during iteration never skips anyone.
type listenerList[L any] struct {
	entries []*listenerEntry[L]
}

func (ll *listenerList[L]) add(listener L) *listenerEntry[L] {
	e := &listenerEntry[L]{listener: listener}
	ll.entries = append(ll.entries, e)
	return e
}

func (ll *listenerList[L]) remove(e *listenerEntry[L]) bool {
	for i, entry := range ll.entries {
		if entry == e {
			ll.entries = append(ll.entries[:i:i], ll.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (ll *listenerList[L]) snapshot() []L {
	if len(ll.entries) == 0 {
		return nil
	}
	out := make([]L, len(ll.entries))
	for i, e := range ll.entries {
		out[i] = e.listener
	}
	return out
}

func (ll *listenerList[L]) len() int {
	return len(ll.entries)
}

func (ll *listenerList[L]) clear() {
	ll.entries = nil
}
