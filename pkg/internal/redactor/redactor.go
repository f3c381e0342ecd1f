// Package redactor masks configured keys inside JSON payloads.
//
// Payloads are parsed with fastjson so that object key order and the textual
// form of numbers survive re-serialisation unchanged.
package redactor

import (
	"github.com/valyala/fastjson"
	"golang.org/x/text/cases"
)

const (
	// InvalidJSON is returned in place of payloads that fail to parse.
	InvalidJSON = "INVALID JSON"
	// Redacted replaces the value of every matched key.
	Redacted = "REDACTED"
)

var (
	parserPool    fastjson.ParserPool
	redactedValue = fastjson.MustParse(`"` + Redacted + `"`)
)

// KeySet is an immutable set of keys matched case-insensitively.
type KeySet struct {
	folded map[string]struct{}
}

// NewKeySet builds a KeySet. Empty keys are ignored.
func NewKeySet(keys ...string) KeySet {
	caser := cases.Fold()
	set := KeySet{folded: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		if k == "" {
			continue
		}
		set.folded[caser.String(k)] = struct{}{}
	}
	return set
}

// Len returns the number of distinct folded keys.
func (s KeySet) Len() int { return len(s.folded) }

// Contains reports whether key matches a member of the set, ignoring case.
func (s KeySet) Contains(key string) bool {
	if len(s.folded) == 0 {
		return false
	}
	_, ok := s.folded[cases.Fold().String(key)]
	return ok
}

// Redact parses raw and returns its compact serialisation with the value of
// every key in keys replaced by "REDACTED", at any depth. Matched values are
// not descended into. Malformed input yields (InvalidJSON, false).
func Redact(raw []byte, keys KeySet) (string, bool) {
	// The parser decodes strings lazily; validate up front so bad escapes are rejected.
	if err := fastjson.ValidateBytes(raw); err != nil {
		return InvalidJSON, false
	}

	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(raw)
	if err != nil {
		return InvalidJSON, false
	}

	if keys.Len() > 0 {
		w := walker{keys: keys, caser: cases.Fold()}
		w.walk(v)
	}

	return string(v.MarshalTo(make([]byte, 0, len(raw)))), true
}

type walker struct {
	keys  KeySet
	caser cases.Caser
}

func (w *walker) walk(v *fastjson.Value) {
	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()
		o.Visit(func(key []byte, child *fastjson.Value) {
			if _, hit := w.keys.folded[w.caser.String(string(key))]; hit {
				*child = *redactedValue
				return
			}
			w.walk(child)
		})
	case fastjson.TypeArray:
		items, _ := v.Array()
		for _, item := range items {
			w.walk(item)
		}
	}
}
