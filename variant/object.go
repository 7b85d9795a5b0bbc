package variant

import "fmt"

// ChangeType enumerates the structural mutations a container listener can
// observe (spec §4.6: "Listener registration ... fires on structural
// mutation"), grounded on original_source's variant/observer.c.
type ChangeType int

const (
	ChangeAdd ChangeType = iota
	ChangeUpdate
	ChangeRemove
)

// Change describes one structural mutation delivered to a listener.
type Change struct {
	Type     ChangeType
	Key      *Value // object key (string) or array index (number), nil for sets without a key field
	OldValue *Value
	NewValue *Value
}

// Listener receives container mutations.
type Listener func(Change)

type listenerSet struct {
	next      int
	listeners map[int]Listener
}

func (ls *listenerSet) add(l Listener) int {
	if ls.listeners == nil {
		ls.listeners = make(map[int]Listener)
	}
	id := ls.next
	ls.next++
	ls.listeners[id] = l
	return id
}

func (ls *listenerSet) remove(id int) {
	delete(ls.listeners, id)
}

func (ls *listenerSet) fire(c Change) {
	for _, l := range ls.listeners {
		l(c)
	}
}

// ObjectValue is an insertion-order-preserving string-keyed map, adapted
// from the teacher's OrderedMap (go-xml/xml/map.go): same "ordered keys
// slice + lookup map" shape, restricted to *Value payloads.
type ObjectValue struct {
	keys   []string
	values map[string]*Value
	listenerSet
}

func NewObject() *ObjectValue {
	return &ObjectValue{values: make(map[string]*Value)}
}

func ObjectVariant() *Value {
	return &Value{kind: Object, obj: NewObject(), refs: 1}
}

// Put inserts or overwrites key, preserving the original insertion
// position on overwrite (spec §3: "insertion order is observable").
func (o *ObjectValue) Put(key string, val *Value) {
	old, existed := o.values[key]
	if !existed {
		o.keys = append(o.keys, key)
	}
	o.values[key] = val
	if existed {
		o.fire(Change{Type: ChangeUpdate, Key: StringValue(key), OldValue: old, NewValue: val})
	} else {
		o.fire(Change{Type: ChangeAdd, Key: StringValue(key), NewValue: val})
	}
}

func (o *ObjectValue) Get(key string) (*Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *ObjectValue) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

func (o *ObjectValue) Remove(key string) {
	old, ok := o.values[key]
	if !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	o.fire(Change{Type: ChangeRemove, Key: StringValue(key), OldValue: old})
}

func (o *ObjectValue) Len() int { return len(o.keys) }

// Keys returns the keys in insertion order. The returned slice must not be
// mutated by the caller.
func (o *ObjectValue) Keys() []string { return o.keys }

func (o *ObjectValue) clone() *ObjectValue {
	dup := NewObject()
	for _, k := range o.keys {
		dup.Put(k, o.values[k].Clone())
	}
	return dup
}

func (o *ObjectValue) String() string {
	return fmt.Sprintf("object(%d keys)", o.Len())
}
