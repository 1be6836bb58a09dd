package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestState_PrependKeepsLeadingKey(t *testing.T) {
	s := NewState().Prepend("theme", "light").Prepend("userLoggedIn", "true")
	assert.Equal(t, []string{"userLoggedIn", "theme"}, s.Keys())
	assert.Equal(t, `{"userLoggedIn":"true","theme":"light"}`, s.String())

	v, ok := s.Get("theme")
	require.True(t, ok)
	assert.Equal(t, "light", v)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestState_PrependCollision(t *testing.T) {
	// The later variable's value survives, the leading position is kept.
	s := StateFrom("a", "inner").Prepend("a", "outer")
	assert.Equal(t, 1, s.Len())
	v, _ := s.Get("a")
	assert.Equal(t, "inner", v)
}

func TestState_PrependDoesNotMutate(t *testing.T) {
	base := StateFrom("b", "1")
	_ = base.Prepend("a", "0")
	assert.Equal(t, []string{"b"}, base.Keys())
}

func TestState_ZeroValue(t *testing.T) {
	var s State
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Keys())
	assert.Equal(t, "{}", s.String())
	assert.True(t, s.Equal(NewState()))
}

func TestState_Equal(t *testing.T) {
	a := StateFrom("x", "1", "y", "2")
	assert.True(t, a.Equal(StateFrom("x", "1", "y", "2")))
	assert.False(t, a.Equal(StateFrom("y", "2", "x", "1")), "order matters")
	assert.False(t, a.Equal(StateFrom("x", "1", "y", "3")))
	assert.False(t, a.Equal(StateFrom("x", "1")))
}

func TestState_StateFromOddPanics(t *testing.T) {
	assert.Panics(t, func() { StateFrom("a") })
}

func TestState_JSONRoundTrip(t *testing.T) {
	s := StateFrom("userLoggedIn", "false", "theme", "dark")
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"userLoggedIn":"false","theme":"dark"}`, string(b))

	var back State
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, s.Equal(back))
}

func TestState_JSONLiteralCharacters(t *testing.T) {
	s := StateFrom("expr", "a<b&c>", "quote", `say "hi"`)
	assert.Equal(t, `{"expr":"a<b&c>","quote":"say \"hi\""}`, s.String())

	b, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"expr":"a<b&c>","quote":"say \"hi\""}`, string(b))

	var back State
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, s.Equal(back))
}

func TestState_YAMLKeepsOrder(t *testing.T) {
	s := StateFrom("zeta", "true", "alpha", "x")
	b, err := yaml.Marshal(s)
	require.NoError(t, err)

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal(b, &node))
	mapping := node.Content[0]
	require.Len(t, mapping.Content, 4)
	assert.Equal(t, "zeta", mapping.Content[0].Value)
	assert.Equal(t, "!!str", mapping.Content[1].Tag, "boolean-looking values stay strings")
	assert.Equal(t, "alpha", mapping.Content[2].Value)
}

func TestStateSpace_Header(t *testing.T) {
	var empty StateSpace
	assert.Nil(t, empty.Header())

	sp := StateSpace{StateFrom("a", "1", "b", "2"), StateFrom("a", "3", "b", "4")}
	assert.Equal(t, []string{"a", "b"}, sp.Header())
	assert.Equal(t, 2, sp.Len())
	assert.True(t, sp.Equal(StateSpace{StateFrom("a", "1", "b", "2"), StateFrom("a", "3", "b", "4")}))
	assert.False(t, sp.Equal(sp[:1]))
}
