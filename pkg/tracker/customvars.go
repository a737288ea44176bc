package tracker

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// CustomVariable is a name/value pair stored in a numbered slot.
type CustomVariable struct {
	Name  string
	Value string
}

// customVars maps a slot number, as a decimal string, to its variable.
// It serializes as {"1":["name","value"]}.
type customVars map[string]CustomVariable

func (c customVars) MarshalJSON() ([]byte, error) {
	m := make(map[string][2]string, len(c))
	for slot, v := range c {
		m[slot] = [2]string{v.Name, v.Value}
	}
	return json.Marshal(m)
}

func (c customVars) encode() string {
	s, err := encodeJSON(c)
	if err != nil {
		// map of strings always marshals
		panic(err)
	}
	return s
}

// decodeCustomVars parses the cvar cookie payload: percent-encoded JSON.
// Entries that are not exactly a name/value pair are dropped.
func decodeCustomVars(raw string) (customVars, error) {
	unescaped, err := url.QueryUnescape(raw)
	if err != nil {
		return nil, err
	}

	var m map[string][]string
	if err := json.Unmarshal([]byte(unescaped), &m); err != nil {
		return nil, err
	}

	vars := make(customVars, len(m))
	for slot, pair := range m {
		if len(pair) != 2 {
			continue
		}
		vars[slot] = CustomVariable{Name: pair[0], Value: pair[1]}
	}
	return vars, nil
}

func slotKey(slot int) string {
	return strconv.Itoa(slot)
}

// SetCustomVariable stores name/value in slot for scope, replacing any previous value.
func (t *Tracker) SetCustomVariable(slot int, name, value string, scope Scope) error {
	vars, err := t.varsFor(scope)
	if err != nil {
		return err
	}
	vars[slotKey(slot)] = CustomVariable{Name: name, Value: value}
	return nil
}

// CustomVariable returns the variable in slot for scope. Visit scope falls back
// to the cvar cookie when the slot was not set on this tracker.
func (t *Tracker) CustomVariable(slot int, scope Scope) (CustomVariable, bool, error) {
	vars, err := t.varsFor(scope)
	if err != nil {
		return CustomVariable{}, false, err
	}

	key := slotKey(slot)
	if v, ok := vars[key]; ok {
		return v, true, nil
	}

	if scope == ScopeVisit {
		if cookieVars := t.readCustomVarsCookie(); cookieVars != nil {
			v, ok := cookieVars[key]
			return v, ok, nil
		}
	}
	return CustomVariable{}, false, nil
}

// ClearCustomVariables drops the variables of every scope and expires the
// cvar cookie.
func (t *Tracker) ClearCustomVariables() {
	t.visitVars = make(customVars)
	t.pageVars = make(customVars)
	t.eventVars = make(customVars)
	t.expireCookie(cookieCvar)
}

func (t *Tracker) varsFor(scope Scope) (customVars, error) {
	switch scope {
	case ScopeVisit:
		return t.visitVars, nil
	case ScopePage:
		return t.pageVars, nil
	case ScopeEvent:
		return t.eventVars, nil
	}
	return nil, fmt.Errorf("%w: unknown custom variable scope %d", ErrInvalidArgument, int(scope))
}
