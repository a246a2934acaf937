package ecs

import (
	"reflect"
	"unsafe"

	"github.com/kamstrup/intmap"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// MaxComponents bounds the number of distinct component types a TypeRegistry can assign
// identifiers to. It sizes every entity's slot array and presence bitset.
const MaxComponents = 32

// ComponentTypeID is a dense, zero-based identifier for a component type.
type ComponentTypeID uint32

// iface represents the internal memory layout of an interface{}.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// typeKey returns the address of the runtime type descriptor behind t.
// Descriptors are unique per type for the life of the process.
func typeKey(t reflect.Type) uint64 {
	ptr := (*iface)(unsafe.Pointer(&t)).data
	return uint64(uintptr(ptr))
}

// TypeRegistry lazily assigns identifiers to component types the first time they are
// queried. Each Manager is built on a registry; independent registries never interfere,
// so tests can run against a fresh one.
type TypeRegistry struct {
	ids      *intmap.Map[uint64, ComponentTypeID]
	types    []reflect.Type
	capacity int
	logger   *zap.Logger
}

// RegistryOption configures a TypeRegistry.
type RegistryOption func(*TypeRegistry)

// WithCapacity lowers the number of distinct types the registry accepts.
// Values outside 1..MaxComponents fall back to MaxComponents.
func WithCapacity(n int) RegistryOption {
	return func(r *TypeRegistry) {
		if n < 1 || n > MaxComponents {
			n = MaxComponents
		}
		r.capacity = n
	}
}

// WithRegistryLogger sets the logger used to report type registrations.
func WithRegistryLogger(logger *zap.Logger) RegistryOption {
	return func(r *TypeRegistry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry(opts ...RegistryOption) *TypeRegistry {
	r := &TypeRegistry{
		ids:      intmap.New[uint64, ComponentTypeID](MaxComponents),
		types:    make([]reflect.Type, 0, MaxComponents),
		capacity: MaxComponents,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IdentifierFor returns the identifier of component type T, assigning the next free one
// on first use.
func IdentifierFor[T Component](r *TypeRegistry) (ComponentTypeID, error) {
	return r.identifierOf(reflect.TypeFor[T]())
}

// MustIdentifierFor is like IdentifierFor but panics when the registry is full.
func MustIdentifierFor[T Component](r *TypeRegistry) ComponentTypeID {
	id, err := IdentifierFor[T](r)
	if err != nil {
		panic(err)
	}
	return id
}

func (r *TypeRegistry) identifierOf(t reflect.Type) (ComponentTypeID, error) {
	key := typeKey(t)
	if id, ok := r.ids.Get(key); ok {
		return id, nil
	}

	if len(r.types) >= r.capacity {
		return 0, errors.Wrapf(ErrCapacityExceeded, "register %s: %d of %d types in use", t, len(r.types), r.capacity)
	}

	id := ComponentTypeID(len(r.types))
	r.ids.Put(key, id)
	r.types = append(r.types, t)

	r.logger.Debug("registered component type",
		zap.Stringer("type", t),
		zap.Uint32("id", uint32(id)),
	)
	return id, nil
}

// Len returns the number of registered types.
func (r *TypeRegistry) Len() int {
	return len(r.types)
}

// Capacity returns the maximum number of types the registry accepts.
func (r *TypeRegistry) Capacity() int {
	return r.capacity
}

// TypeOf returns the type registered under id.
func (r *TypeRegistry) TypeOf(id ComponentTypeID) (reflect.Type, bool) {
	if int(id) >= len(r.types) {
		return nil, false
	}
	return r.types[id], true
}

// Types returns the registered types in identifier order.
func (r *TypeRegistry) Types() []reflect.Type {
	out := make([]reflect.Type, len(r.types))
	copy(out, r.types)
	return out
}

// Reset forgets every registration. Entities created against the registry before
// a reset must not be used afterwards.
func (r *TypeRegistry) Reset() {
	r.ids.Clear()
	r.types = r.types[:0]
}
