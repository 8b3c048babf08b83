package ecs

// componentStore is the type-erased view of a sparseSet the world needs for
// entity teardown and multi-kind queries.
type componentStore interface {
	has(id entityID) bool
	remove(id entityID) bool
	ids() []entityID
	len() int
}

// sparseSet is a cache-friendly storage for components keyed by entity id.
// Values are kept behind pointers so systems can mutate them in place.
type sparseSet[T any] struct {
	dense  []entityID
	values []*T
	sparse []int
}

func (s *sparseSet[T]) has(id entityID) bool {
	if id == 0 || int(id) > len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && idx < len(s.dense) && s.dense[idx] == id
}

func (s *sparseSet[T]) get(id entityID) (*T, bool) {
	if !s.has(id) {
		return nil, false
	}
	return s.values[s.sparse[id-1]], true
}

func (s *sparseSet[T]) set(id entityID, v *T) {
	if id == 0 {
		return
	}
	for int(id) > len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.has(id) {
		s.values[s.sparse[id-1]] = v
		return
	}
	s.dense = append(s.dense, id)
	s.values = append(s.values, v)
	s.sparse[id-1] = len(s.dense) - 1
}

func (s *sparseSet[T]) remove(id entityID) bool {
	if !s.has(id) {
		return false
	}
	idx := s.sparse[id-1]
	last := len(s.dense) - 1
	lastID := s.dense[last]

	s.dense[idx] = lastID
	s.values[idx] = s.values[last]
	s.sparse[lastID-1] = idx

	s.values[last] = nil
	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[id-1] = -1
	return true
}

func (s *sparseSet[T]) ids() []entityID {
	return s.dense
}

func (s *sparseSet[T]) len() int {
	return len(s.dense)
}
