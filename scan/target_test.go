package scan

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLiteralIPv4(t *testing.T) {
	target, err := Resolve(context.Background(), "127.0.0.1")
	require.Nil(t, err)

	assert.Equal(t, "127.0.0.1", target.Input)
	assert.Equal(t, "127.0.0.1", target.Addr)
	assert.Equal(t, FamilyIPv4, target.Family)
}

func TestResolveLiteralIPv6(t *testing.T) {
	target, err := Resolve(context.Background(), "::1")
	require.Nil(t, err)

	assert.Equal(t, "::1", target.Addr)
	assert.Equal(t, FamilyIPv6, target.Family)
}

func TestResolveIsIdempotentForLiterals(t *testing.T) {
	first, err := Resolve(context.Background(), "127.0.0.1")
	require.Nil(t, err)

	for i := 0; i < 10; i++ {
		again, err := Resolve(context.Background(), "127.0.0.1")
		require.Nil(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolveRejectsEmptyInput(t *testing.T) {
	_, err := Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResolveRejectsOversizedInput(t *testing.T) {
	_, err := Resolve(context.Background(), strings.Repeat("a", 300))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResolveRejectsMalformedHostBeforeLookup(t *testing.T) {
	for _, input := range []string{
		"not a host!!",
		"bad_host.example.com",
		"-leadinghyphen.example.com",
		"trailinghyphen-.example.com",
		"double..dot",
		"999.999.999.999!",
	} {
		_, err := Resolve(context.Background(), input)
		assert.ErrorIs(t, err, ErrInvalidInput, "input %q", input)
	}
}

func TestResolveInvalidOctetsTreatedAsHostname(t *testing.T) {
	// "300.1.2.3" is not a valid IP literal, and as a hostname it cannot
	// resolve; either way no Target comes back.
	_, err := Resolve(context.Background(), "300.1.2.3")
	assert.NotNil(t, err)
}

func TestResolveUnresolvableHost(t *testing.T) {
	_, err := Resolve(context.Background(), "definitely-not-a-real-host.invalid")
	assert.ErrorIs(t, err, ErrUnresolvableHost)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestValidHostname(t *testing.T) {
	assert.True(t, validHostname("example.com"))
	assert.True(t, validHostname("a-b.c-d.io"))
	assert.True(t, validHostname("localhost"))
	assert.True(t, validHostname("example.com."))

	assert.False(t, validHostname(""))
	assert.False(t, validHostname("ex ample.com"))
	assert.False(t, validHostname(strings.Repeat("a", 64)+".com"))
}
