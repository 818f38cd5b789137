package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode_CallMergesDefaults(t *testing.T) {
	var got Options
	m := New("train", "fit the model", func(opts Options) error {
		got = opts
		return nil
	}, Options{"iterations": 100})

	require.NoError(t, m.Call(Options{"input": "data.txt"}))
	assert.Equal(t, Options{"iterations": 100, "input": "data.txt"}, got)
}

func TestMode_CallCollision(t *testing.T) {
	m := New("train", "", func(Options) error { return nil }, Options{"iterations": 100})

	err := m.Call(Options{"iterations": 5})
	assert.ErrorIs(t, err, ErrCollision)
	assert.ErrorContains(t, err, "iterations")
}

func TestMode_Accessors(t *testing.T) {
	m := New("train", "fit the model", func(Options) error { return nil },
		Options{"iterations": 100})

	assert.Equal(t, "train", m.Name())
	assert.Equal(t, "fit the model", m.Doc())

	v, ok := m.Option("iterations")
	require.True(t, ok)
	assert.Equal(t, 100, v)

	_, ok = m.Option("absent")
	assert.False(t, ok)
}

func TestMode_DefaultsAreCopied(t *testing.T) {
	m := New("train", "", func(Options) error { return nil }, Options{"iterations": 100})

	defaults := m.Defaults()
	defaults["iterations"] = 1

	v, _ := m.Option("iterations")
	assert.Equal(t, 100, v)
}

func TestExtends_MergesParents(t *testing.T) {
	a := New("a", "", nil, Options{"input": "data.txt"})
	b := New("b", "", nil, Options{"iterations": 100})

	merged, err := Extends("both", "", func(Options) error { return nil }, []*Mode{a, b}, nil)
	require.NoError(t, err)
	assert.Equal(t, Options{"input": "data.txt", "iterations": 100}, merged.Defaults())
}

func TestExtends_EqualValuesDoNotCollide(t *testing.T) {
	a := New("a", "", nil, Options{"iterations": 100})
	b := New("b", "", nil, Options{"iterations": 100})

	merged, err := Extends("both", "", func(Options) error { return nil }, []*Mode{a, b}, nil)
	require.NoError(t, err)

	v, _ := merged.Option("iterations")
	assert.Equal(t, 100, v)
}

func TestExtends_CollisionWithoutPolicy(t *testing.T) {
	a := New("a", "", nil, Options{"iterations": 100})
	b := New("b", "", nil, Options{"iterations": 200})

	_, err := Extends("both", "", func(Options) error { return nil }, []*Mode{a, b}, nil)
	assert.ErrorIs(t, err, ErrCollision)
}

func TestExtends_PolicyResolvesCollision(t *testing.T) {
	a := New("a", "", nil, Options{"iterations": 100})
	b := New("b", "", nil, Options{"iterations": 200})

	policies := map[string]CollisionPolicy{
		"iterations": func(current, incoming any) any {
			if current.(int) > incoming.(int) {
				return current
			}
			return incoming
		},
	}

	merged, err := Extends("both", "", func(Options) error { return nil }, []*Mode{a, b}, policies)
	require.NoError(t, err)

	v, _ := merged.Option("iterations")
	assert.Equal(t, 200, v)
}

func TestMode_Wrap(t *testing.T) {
	var order []string
	m := New("train", "doc", func(Options) error {
		order = append(order, "inner")
		return nil
	}, Options{"iterations": 100})

	wrapped := m.Wrap(func(fn Func) Func {
		return func(opts Options) error {
			order = append(order, "outer")
			return fn(opts)
		}
	})

	require.NoError(t, wrapped.Call(nil))
	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, "train", wrapped.Name())
	assert.Equal(t, m.Defaults(), wrapped.Defaults())
}
