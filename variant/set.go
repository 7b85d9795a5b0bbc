package variant

import "fmt"

// CollisionPolicy governs what happens when a container operation (or a
// SET insertion) finds a key/value that already exists (spec §4.6).
type CollisionPolicy int

const (
	Complain CollisionPolicy = iota
	Overwrite
	Ignore
)

// SetValue enforces uniqueness either by a named key field (the value of
// that field, across member OBJECTs, must be unique) or by deep structural
// equality of whole members (spec §3).
type SetValue struct {
	keyField string // "" means "unique by whole-value equality"
	elems    []*Value
	byKey    map[string]int // keyField value (stringified) -> index, when keyField != ""
	listenerSet
}

// NewSet creates a SET unique by deep structural equality.
func NewSet() *SetValue {
	return &SetValue{}
}

// NewKeyedSet creates a SET whose members are OBJECTs unique by the value
// of keyField.
func NewKeyedSet(keyField string) *SetValue {
	return &SetValue{keyField: keyField, byKey: make(map[string]int)}
}

func (s *SetValue) Len() int { return len(s.elems) }

func (s *SetValue) Elements() []*Value { return s.elems }

func (s *SetValue) keyOf(v *Value) (string, bool) {
	if s.keyField == "" {
		return "", false
	}
	if v.Kind() != Object {
		return "", false
	}
	field, ok := v.ObjectVal().Get(s.keyField)
	if !ok {
		return "", false
	}
	return field.Stringify(), true
}

func (s *SetValue) contains(v *Value) bool {
	if s.keyField != "" {
		k, ok := s.keyOf(v)
		if !ok {
			return false
		}
		_, found := s.byKey[k]
		return found
	}
	for _, e := range s.elems {
		if Equal(e, v) {
			return true
		}
	}
	return false
}

// Add inserts v, applying policy on a duplicate per spec §4.6. Returns an
// error under Complain when a duplicate is found, and on a keyed set when
// v lacks the key field.
func (s *SetValue) Add(v *Value, policy CollisionPolicy) error {
	if s.keyField != "" {
		k, ok := s.keyOf(v)
		if !ok {
			return fmt.Errorf("variant: set member missing key field %q", s.keyField)
		}
		if idx, found := s.byKey[k]; found {
			switch policy {
			case Complain:
				return fmt.Errorf("variant: duplicate set key %q", k)
			case Ignore:
				return nil
			case Overwrite:
				old := s.elems[idx]
				s.elems[idx] = v
				s.fire(Change{Type: ChangeUpdate, OldValue: old, NewValue: v})
				return nil
			}
		}
		s.byKey[k] = len(s.elems)
		s.elems = append(s.elems, v)
		s.fire(Change{Type: ChangeAdd, NewValue: v})
		return nil
	}

	for i, e := range s.elems {
		if Equal(e, v) {
			switch policy {
			case Complain:
				return fmt.Errorf("variant: duplicate set member")
			case Ignore:
				return nil
			case Overwrite:
				old := s.elems[i]
				s.elems[i] = v
				s.fire(Change{Type: ChangeUpdate, OldValue: old, NewValue: v})
				return nil
			}
		}
	}
	s.elems = append(s.elems, v)
	s.fire(Change{Type: ChangeAdd, NewValue: v})
	return nil
}

func (s *SetValue) clone() *SetValue {
	dup := &SetValue{keyField: s.keyField}
	if s.keyField != "" {
		dup.byKey = make(map[string]int, len(s.byKey))
	}
	for _, e := range s.elems {
		_ = dup.Add(e.Clone(), Overwrite)
	}
	return dup
}

func (s *SetValue) String() string {
	return fmt.Sprintf("set(%d elements)", s.Len())
}

func SetVariant(keyField string) *Value {
	var sv *SetValue
	if keyField == "" {
		sv = NewSet()
	} else {
		sv = NewKeyedSet(keyField)
	}
	return &Value{kind: Set, set_: sv, refs: 1}
}
