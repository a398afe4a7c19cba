// Package keylock ofrece exclusión mutua por clave: dos operaciones sobre la misma clave se
// serializan, claves distintas avanzan en paralelo.
package keylock

import (
	"sort"
	"sync"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

// Keyed mutex por clave. El valor cero es usable.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*entry
}

// New construye un Keyed vacío.
func New() *Keyed {
	return &Keyed{locks: make(map[string]*entry)}
}

// Lock bloquea la clave y devuelve la función que la libera.
func (k *Keyed) Lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*entry)
	}
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// LockAll bloquea varias claves en orden lexicográfico (sin duplicados) para evitar
// interbloqueos entre llamadores que piden los mismos conjuntos en distinto orden.
func (k *Keyed) LockAll(keys ...string) (unlock func()) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	unlocks := make([]func(), 0, len(sorted))
	for i, key := range sorted {
		if i > 0 && key == sorted[i-1] {
			continue
		}
		unlocks = append(unlocks, k.Lock(key))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

// Len cantidad de claves con al menos un poseedor o esperando.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
