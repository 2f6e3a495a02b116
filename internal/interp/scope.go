package interp

import "github.com/cwbudde/ibscript/internal/langerr"

// binding is one scope entry: a value keyed by the block level and
// function level it was declared at, plus the identifier.
//
// persistent marks a slot whose discriminant is pinned: a later
// assignment must preserve its kind (with numeric force-cast among
// char/int/float) or fail with a type error, rather than silently
// replacing the tagged payload. Plain variables are never persistent,
// and the evaluator defines every binding as non-persistent; string
// elements get persistent-typed treatment through assignStringIndex
// rather than through this flag.
type binding struct {
	blockLevel int
	funcLevel  int
	id         string
	value      Value
	constant   bool
	persistent bool
}

// Scope holds every binding currently visible to the evaluator, ordered
// by insertion. Lookups scan in reverse so a shadowing declaration at a
// deeper block level or a later position wins.
type Scope struct {
	entries    []binding
	blockLevel int
	funcLevel  int
}

// NewScope creates an empty top-level scope (block level 0, function
// level 0).
func NewScope() *Scope {
	return &Scope{}
}

func (s *Scope) BlockLevel() int { return s.blockLevel }
func (s *Scope) FuncLevel() int  { return s.funcLevel }

func (s *Scope) IncBlockLevel() { s.blockLevel++ }
func (s *Scope) IncFuncLevel()  { s.funcLevel++ }
func (s *Scope) DecrFuncLevel() { s.funcLevel-- }

// DecrBlockLevel tears down every binding declared at the current block
// level, then drops to the enclosing one.
func (s *Scope) DecrBlockLevel() error {
	if s.blockLevel == 0 {
		return langerr.New(langerr.Fatal, "cannot decrement scope below block level 0")
	}
	kept := s.entries[:0]
	for _, b := range s.entries {
		if b.blockLevel != s.blockLevel {
			kept = append(kept, b)
		}
	}
	s.entries = kept
	s.blockLevel--
	return nil
}

// Define installs a new binding at the current block/function level.
// Redeclaring an identifier already visible at the same level shadows
// it going forward (lookups scan in reverse, finding the new entry
// first) without disturbing the older entry's slot.
func (s *Scope) Define(id string, v Value, constant, persistent bool) {
	s.entries = append(s.entries, binding{
		blockLevel: s.blockLevel,
		funcLevel:  s.funcLevel,
		id:         id,
		value:      v,
		constant:   constant,
		persistent: persistent,
	})
}

// Lookup finds the nearest-in-scope binding for id.
func (s *Scope) Lookup(id string) (*binding, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].id == id {
			return &s.entries[i], true
		}
	}
	return nil, false
}

// Get returns the current value bound to id.
func (s *Scope) Get(id string) (Value, bool) {
	b, ok := s.Lookup(id)
	if !ok {
		return nil, false
	}
	return b.value, true
}

// Assign overwrites the value of an already-bound identifier. Returns
// false if id is not bound or is const.
func (s *Scope) Assign(id string, v Value) bool {
	b, ok := s.Lookup(id)
	if !ok || b.constant {
		return false
	}
	b.value = v
	return true
}

// GetRestricted returns a new Scope containing every binding whose
// function level is at most maxFuncLevel: the lexical closure snapshot
// taken at function-definition time.
func (s *Scope) GetRestricted(maxFuncLevel int) *Scope {
	r := &Scope{funcLevel: maxFuncLevel, blockLevel: s.blockLevel}
	for _, b := range s.entries {
		if b.funcLevel <= maxFuncLevel {
			r.entries = append(r.entries, b)
		}
	}
	return r
}

// NewCallScope seeds a function call's scope from its closure snapshot:
// the captured bindings come first so the call's own parameters and
// locals, appended afterward at an incremented function level, shadow
// them on reverse lookup.
func NewCallScope(captured *Scope) *Scope {
	s := &Scope{
		entries:    append([]binding{}, captured.entries...),
		blockLevel: captured.blockLevel,
		funcLevel:  captured.funcLevel + 1,
	}
	return s
}
