package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/oasgen/internal/codegen/model"
)

// mockTarget is a test target
type mockTarget struct {
	name string
}

func (m *mockTarget) Name() string {
	return m.name
}

func (m *mockTarget) Handlers(*model.HandlerFile) ([]byte, error) {
	return []byte("package handlers\n"), nil
}

func (m *mockTarget) Router(*model.RouterFile) ([]byte, error) {
	return []byte("package server\n"), nil
}

func (m *mockTarget) Server(*model.ServerFile) ([]byte, error) {
	return []byte("package server\n"), nil
}

func TestRegistry_Register(t *testing.T) {
	// Test: a registered factory is returned by name
	r := NewRegistry()
	r.Register("mock", func() Target {
		return &mockTarget{name: "mock"}
	})

	target, err := r.Get("mock")
	require.NoError(t, err)
	assert.Equal(t, "mock", target.Name())
}

func TestRegistry_UnknownTarget(t *testing.T) {
	r := NewRegistry()
	r.Register("mock", func() Target {
		return &mockTarget{name: "mock"}
	})

	target, err := r.Get("chi")
	assert.ErrorIs(t, err, ErrUnknownTarget)
	assert.Nil(t, target)
	assert.Contains(t, err.Error(), "chi")
	assert.Contains(t, err.Error(), "mock")
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.Names())

	for _, name := range []string{"gin", "echo", "mock"} {
		name := name
		r.Register(name, func() Target {
			return &mockTarget{name: name}
		})
	}

	assert.Equal(t, []string{"echo", "gin", "mock"}, r.Names())
}

func TestDefaultRegistry(t *testing.T) {
	// Test: both frameworks are available out of the box
	assert.Equal(t, []string{"echo", "gin"}, DefaultRegistry.Names())

	target, err := DefaultRegistry.Get(DefaultTarget)
	require.NoError(t, err)
	assert.Equal(t, "gin", target.Name())

	target, err = DefaultRegistry.Get("echo")
	require.NoError(t, err)
	assert.Equal(t, "echo", target.Name())
}
