package game

import "sort"

// HouseRegister maps property field indexes to their house count. A count
// equal to the board's MaxHouses is a hotel.
type HouseRegister struct {
	counts map[int]int
}

// NewHouseRegister creates an empty register.
func NewHouseRegister() *HouseRegister {
	return &HouseRegister{counts: make(map[int]int)}
}

// Count returns the number of houses on the field.
func (r *HouseRegister) Count(field int) int {
	return r.counts[field]
}

func (r *HouseRegister) set(field, count int) {
	if count == 0 {
		delete(r.counts, field)
		return
	}
	r.counts[field] = count
}

// Fields returns the indexes with at least one house, ascending.
func (r *HouseRegister) Fields() []int {
	fields := make([]int, 0, len(r.counts))
	for f := range r.counts {
		fields = append(fields, f)
	}
	sort.Ints(fields)
	return fields
}

func (r *HouseRegister) toMap() map[int]int {
	m := make(map[int]int, len(r.counts))
	for f, c := range r.counts {
		m[f] = c
	}
	return m
}
