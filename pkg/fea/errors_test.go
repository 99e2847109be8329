package fea

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := Errorf(ValidationError, "lusas.createLine", "a straight line takes exactly 2 endpoints")
	assert.Equal(t, "lusas.createLine: validation_error: a straight line takes exactly 2 endpoints", err.Error())

	wrapped := Wrap(GeometryError, "etabs.createSurface", errors.New("area is degenerate"))
	assert.Equal(t, "etabs.createSurface: geometry_error: area is degenerate", wrapped.Error())
}

func TestCodeOf(t *testing.T) {
	err := Errorf(NotFoundError, "registry", "no point with id %q", "P9")
	assert.Equal(t, NotFoundError, CodeOf(err))

	// Codes survive wrapping in plain errors.
	outer := fmt.Errorf("dispatch: %w", err)
	assert.Equal(t, NotFoundError, CodeOf(outer))

	// Unclassified failures read as connection errors.
	assert.Equal(t, ConnectionError, CodeOf(errors.New("RPC_E_DISCONNECTED")))
}

func TestIsCode(t *testing.T) {
	err := Wrap(StaleReferenceError, "lusas", errors.New("gone"))
	assert.True(t, IsCode(err, StaleReferenceError))
	assert.False(t, IsCode(err, NotFoundError))
	assert.False(t, IsCode(errors.New("plain"), StaleReferenceError))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("COM call failed")
	err := Wrap(ConnectionError, "etabs.connect", cause)
	require.ErrorIs(t, err, cause)
}

func TestCapabilitySet(t *testing.T) {
	caps := Caps(CapUnits, CapSweep)
	assert.True(t, caps.Has(CapUnits))
	assert.True(t, caps.Has(CapSweep))
	assert.False(t, caps.Has(CapSelect))
	assert.False(t, CapabilitySet(nil).Has(CapUnits))
}
