package concurrent

import "sync"

// Map is a generic map guarded by a RWMutex. The zero value is not usable, use NewMap.
type Map[K comparable, V any] struct {
	m   map[K]V
	mtx *sync.RWMutex
}

func NewMap[K comparable, V any]() Map[K, V] {
	return Map[K, V]{
		m:   make(map[K]V),
		mtx: new(sync.RWMutex),
	}
}

func (cm Map[K, V]) Load(k K) (V, bool) {
	cm.mtx.RLock()
	defer cm.mtx.RUnlock()

	v, ok := cm.m[k]
	return v, ok
}

func (cm Map[K, V]) Store(k K, v V) {
	cm.mtx.Lock()
	defer cm.mtx.Unlock()

	cm.m[k] = v
}

func (cm Map[K, V]) Delete(k K) {
	cm.mtx.Lock()
	defer cm.mtx.Unlock()

	delete(cm.m, k)
}

// Compute replaces the value for k with the result of f under the write lock.
// If f reports keep=false the entry is removed.
func (cm Map[K, V]) Compute(k K, f func(v V, ok bool) (V, bool)) V {
	cm.mtx.Lock()
	defer cm.mtx.Unlock()

	prev, ok := cm.m[k]
	next, keep := f(prev, ok)
	if keep {
		cm.m[k] = next
	} else {
		delete(cm.m, k)
	}

	return next
}

// CompareAndDelete removes k only if pred accepts the current value.
func (cm Map[K, V]) CompareAndDelete(k K, pred func(v V) bool) bool {
	cm.mtx.Lock()
	defer cm.mtx.Unlock()

	if v, ok := cm.m[k]; ok && pred(v) {
		delete(cm.m, k)
		return true
	}

	return false
}

func (cm Map[K, V]) DeleteFunc(del func(k K, v V) bool) int {
	cm.mtx.Lock()
	defer cm.mtx.Unlock()

	removed := 0
	for k, v := range cm.m {
		if del(k, v) {
			delete(cm.m, k)
			removed++
		}
	}

	return removed
}

func (cm Map[K, V]) Len() int {
	cm.mtx.RLock()
	defer cm.mtx.RUnlock()

	return len(cm.m)
}
