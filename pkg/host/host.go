// Package host defines the boundary between the remeshing core and a
// host application. The core never talks to a host directly; a thin
// adapter implements these interfaces and registers its bindings in a
// Registry with explicit setup and teardown.
package host

import (
	"errors"
	"fmt"

	"github.com/blenderlab/instant-remesh/pkg/math"
	"github.com/blenderlab/instant-remesh/pkg/mesh"
)

// Registry errors.
var (
	ErrDuplicateBinding = errors.New("binding already registered")
	ErrNoActiveMesh     = errors.New("host has no active mesh")
)

// MeshProvider supplies the active mesh from the host application.
// The returned mesh is owned by the host; callers must not mutate it.
type MeshProvider interface {
	ActiveMesh() (name string, m *mesh.Mesh, transform math.Mat4, err error)
}

// MeshReceiver accepts remeshed geometry back into the host. The mesh is
// in encode-space; transform is placement metadata to assign, not to
// multiply into the vertices.
type MeshReceiver interface {
	AcceptMesh(name string, m *mesh.Mesh, transform math.Mat4) error
}

// Binding is one named host integration point with explicit lifecycle
// hooks. Hooks may be nil.
type Binding struct {
	Name       string
	Register   func() error
	Unregister func() error
}

// Registry is an ordered table of host bindings. RegisterAll installs
// them in order; UnregisterAll tears them down in reverse, mirroring how
// hosts expect plugin state to unwind.
type Registry struct {
	bindings   []Binding
	registered bool
}

// Add appends a binding to the table. Names must be unique.
func (r *Registry) Add(b Binding) error {
	for _, existing := range r.bindings {
		if existing.Name == b.Name {
			return fmt.Errorf("%w: %s", ErrDuplicateBinding, b.Name)
		}
	}
	r.bindings = append(r.bindings, b)
	return nil
}

// Names returns the binding names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.bindings))
	for i, b := range r.bindings {
		names[i] = b.Name
	}
	return names
}

// RegisterAll runs every binding's Register hook in order. On failure the
// already-registered bindings are unregistered in reverse before the
// error is returned, so a half-installed table never persists.
func (r *Registry) RegisterAll() error {
	for i, b := range r.bindings {
		if b.Register == nil {
			continue
		}
		if err := b.Register(); err != nil {
			for j := i - 1; j >= 0; j-- {
				if r.bindings[j].Unregister != nil {
					_ = r.bindings[j].Unregister()
				}
			}
			return fmt.Errorf("registering %s: %w", b.Name, err)
		}
	}
	r.registered = true
	return nil
}

// UnregisterAll runs every Unregister hook in reverse registration order.
// All hooks run even if some fail; the first error is returned.
func (r *Registry) UnregisterAll() error {
	var firstErr error
	for i := len(r.bindings) - 1; i >= 0; i-- {
		b := r.bindings[i]
		if b.Unregister == nil {
			continue
		}
		if err := b.Unregister(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("unregistering %s: %w", b.Name, err)
		}
	}
	r.registered = false
	return firstErr
}

// Registered reports whether RegisterAll has completed successfully.
func (r *Registry) Registered() bool {
	return r.registered
}
