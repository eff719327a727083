// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridianchain/meridian/stackedmap"
)

func M(a ...any) []any {
	return a
}

func TestStackedMap(t *testing.T) {
	assert := assert.New(t)
	src := make(map[string]string)
	src["foo"] = "bar"

	sm := stackedmap.New(func(key any) (any, bool, error) {
		v, r := src[key.(string)]
		return v, r, nil
	})

	tests := []struct {
		f         func()
		depth     int
		putKey    string
		putValue  string
		getKey    string
		getReturn []any
	}{
		{func() {}, 0, "", "", "foo", []any{"bar", true, nil}},
		{func() { sm.Push() }, 1, "foo", "baz", "foo", []any{"baz", true, nil}},
		{func() {}, 1, "foo", "baz1", "foo", []any{"baz1", true, nil}},
		{func() { sm.Push() }, 2, "foo", "qux", "foo", []any{"qux", true, nil}},
		{func() { sm.Pop() }, 1, "", "", "foo", []any{"baz1", true, nil}},
		{func() { sm.Pop() }, 0, "", "", "foo", []any{"bar", true, nil}},

		{func() { sm.Push(); sm.Push() }, 2, "", "", "", nil},
		{func() { sm.PopTo(0) }, 0, "", "", "", nil},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(sm.Depth(), test.depth)
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			assert.Equal(M(sm.Get(test.getKey)), test.getReturn)
		}
	}
}

// Writing a key twice at one level must record a single revision, so the
// key stays readable after the level is popped.
func TestStackedMapRepeatedPut(t *testing.T) {
	assert := assert.New(t)
	src := map[string]string{"foo": "bar"}
	sm := stackedmap.New(func(key any) (any, bool, error) {
		v, r := src[key.(string)]
		return v, r, nil
	})

	sm.Push()
	cp := sm.Push()
	sm.Put("foo", "baz")
	sm.Put("foo", "qux")
	sm.PopTo(cp)

	assert.Equal(M(sm.Get("foo")), []any{"bar", true, nil})

	sm.Put("foo", "quux")
	assert.Equal(M(sm.Get("foo")), []any{"quux", true, nil})
}

func TestStackedMapJournal(t *testing.T) {
	assert := assert.New(t)
	sm := stackedmap.New(func(_ any) (any, bool, error) {
		return nil, false, nil
	})

	kvs := []struct {
		k, v string
	}{
		{"a", "b"},
		{"a", "b1"},
		{"a1", "b1"},
		{"a2", "b2"},
	}

	for _, kv := range kvs {
		sm.Push()
		sm.Put(kv.k, kv.v)
	}

	var journaled []struct{ k, v string }
	sm.Journal(func(k, v any) bool {
		journaled = append(journaled, struct{ k, v string }{k.(string), v.(string)})
		return true
	})
	assert.Equal(kvs, []struct{ k, v string }(journaled))

	// early stop
	n := 0
	sm.Journal(func(_, _ any) bool {
		n++
		return n < 2
	})
	assert.Equal(2, n)

	// popped levels leave the journal
	sm.PopTo(2)
	journaled = journaled[:0]
	sm.Journal(func(k, v any) bool {
		journaled = append(journaled, struct{ k, v string }{k.(string), v.(string)})
		return true
	})
	assert.Equal(kvs[:2], []struct{ k, v string }(journaled))
}
