package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVariable_Defaults(t *testing.T) {
	v := NewVariable()
	assert.Equal(t, "", v.Name)
	assert.Equal(t, KindBoolean, v.Kind)
	assert.Equal(t, []string{"true", "false"}, v.Domain)
}

func TestVariable_SetKind(t *testing.T) {
	tests := []struct {
		name       string
		start      Variable
		kind       Kind
		wantDomain []string
		wantErr    error
	}{
		{
			name:       "boolean to enum",
			start:      Bool("a"),
			kind:       KindEnum,
			wantDomain: []string{"option1", "option2"},
		},
		{
			name:       "enum to boolean",
			start:      Enum("a", "x", "y", "z"),
			kind:       KindBoolean,
			wantDomain: []string{"true", "false"},
		},
		{
			name:       "reselecting enum still resets",
			start:      Enum("a", "light", "dark", "blue"),
			kind:       KindEnum,
			wantDomain: []string{"option1", "option2"},
		},
		{
			name:       "unknown kind",
			start:      Enum("a", "x"),
			kind:       Kind("tristate"),
			wantDomain: []string{"x"},
			wantErr:    ErrUnknownKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.start.Clone()
			err := v.SetKind(tt.kind)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.kind, v.Kind)
			}
			assert.Equal(t, tt.wantDomain, v.Domain)
		})
	}
}

func TestVariable_BooleanLock(t *testing.T) {
	v := Bool("flag")

	err := v.SetDomainValue(0, "yes")
	require.ErrorIs(t, err, ErrConstraintViolation)

	var cv *ConstraintViolation
	require.True(t, errors.As(err, &cv))
	assert.Equal(t, "flag", cv.Variable)

	assert.ErrorIs(t, v.AppendDomainValue(), ErrConstraintViolation)
	assert.ErrorIs(t, v.RemoveDomainValue(1), ErrConstraintViolation)
	assert.Equal(t, []string{"true", "false"}, v.Domain)
}

func TestVariable_EnumEditing(t *testing.T) {
	v := Enum("theme", "light", "dark")

	require.NoError(t, v.SetDomainValue(1, ""))
	require.NoError(t, v.SetDomainValue(0, ""))
	assert.Equal(t, []string{"", ""}, v.Domain, "empty and duplicate values are accepted")

	require.NoError(t, v.AppendDomainValue())
	assert.Len(t, v.Domain, 3)
	assert.Equal(t, "", v.Domain[2])

	require.NoError(t, v.SetDomainValue(2, "blue"))
	require.NoError(t, v.RemoveDomainValue(0))
	require.NoError(t, v.RemoveDomainValue(0))
	assert.Equal(t, []string{"blue"}, v.Domain)

	err := v.RemoveDomainValue(0)
	require.ErrorIs(t, err, ErrConstraintViolation)
	assert.Equal(t, []string{"blue"}, v.Domain)
}

func TestVariable_OutOfRangePanics(t *testing.T) {
	v := Enum("theme", "light", "dark")
	assert.Panics(t, func() { _ = v.SetDomainValue(2, "x") })
	assert.Panics(t, func() { _ = v.RemoveDomainValue(-1) })

	b := Bool("flag")
	assert.Panics(t, func() { _ = b.SetDomainValue(5, "x") }, "range is checked before the kind")
}

func TestVariable_CloneDoesNotAlias(t *testing.T) {
	v := Enum("theme", "light", "dark")
	c := v.Clone()
	require.NoError(t, c.SetDomainValue(0, "blue"))
	assert.Equal(t, "light", v.Domain[0])
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"boolean", KindBoolean, false},
		{"Bool", KindBoolean, false},
		{" ENUM ", KindEnum, false},
		{"list", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKind_UnmarshalText(t *testing.T) {
	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("Enum")))
	assert.Equal(t, KindEnum, k)

	require.NoError(t, k.UnmarshalText(nil))
	assert.Equal(t, Kind(""), k)

	assert.ErrorIs(t, k.UnmarshalText([]byte("nope")), ErrUnknownKind)
}

func TestVariableSet_Operations(t *testing.T) {
	var set VariableSet

	v := set.Add()
	v.Name = "userLoggedIn"
	set.Append(Enum("theme", "light", "dark"), Bool("beta"))
	require.Len(t, set, 3)
	assert.Equal(t, []string{"userLoggedIn", "theme", "beta"}, set.Names())
	assert.Equal(t, KindBoolean, set[0].Kind)

	set.Remove(1)
	assert.Equal(t, []string{"userLoggedIn", "beta"}, set.Names())

	assert.Panics(t, func() { set.Remove(2) })
	assert.Panics(t, func() { set.Remove(-1) })
}

func TestVariableSet_AppendClones(t *testing.T) {
	theme := Enum("theme", "light", "dark")
	set := NewVariableSet(theme)
	theme.Domain[0] = "changed"
	assert.Equal(t, "light", set[0].Domain[0])

	clone := set.Clone()
	clone[0].Domain[1] = "changed"
	assert.Equal(t, "dark", set[0].Domain[1])
}

func TestConstraintViolation_Error(t *testing.T) {
	named := &ConstraintViolation{Variable: "a", Op: "remove domain value", Reason: "enum must keep at least one value"}
	assert.Equal(t, `remove domain value "a": enum must keep at least one value`, named.Error())

	unnamed := &ConstraintViolation{Op: "append domain value", Reason: "boolean domain is fixed"}
	assert.Equal(t, "append domain value: boolean domain is fixed", unnamed.Error())
}

func TestVariable_Normalized(t *testing.T) {
	tests := []struct {
		name       string
		in         Variable
		wantKind   Kind
		wantDomain []string
		wantErr    bool
	}{
		{"no kind no domain", Variable{Name: "a"}, KindBoolean, []string{"true", "false"}, false},
		{"no kind with domain", Variable{Name: "a", Domain: []string{"x"}}, KindEnum, []string{"x"}, false},
		{"no kind empty domain", Variable{Name: "a", Domain: []string{}}, KindEnum, []string{}, false},
		{"boolean domain is forced", Variable{Name: "a", Kind: KindBoolean, Domain: []string{"yes"}}, KindBoolean, []string{"true", "false"}, false},
		{"enum without domain key", Variable{Name: "a", Kind: KindEnum}, KindEnum, []string{"option1", "option2"}, false},
		{"enum with empty domain", Variable{Name: "a", Kind: KindEnum, Domain: []string{}}, KindEnum, []string{}, false},
		{"unknown kind", Variable{Name: "a", Kind: "range"}, "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Normalized()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantDomain, got.Domain)
		})
	}

	set, err := VariableSet{{Name: "a"}, {Name: "b", Domain: []string{"x"}}}.Normalized()
	require.NoError(t, err)
	assert.Equal(t, KindEnum, set[1].Kind)

	_, err = VariableSet{{Name: "a", Kind: "range"}}.Normalized()
	assert.Error(t, err)
}
