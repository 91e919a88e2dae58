package evolution

// BreedingPool holds the fittest individuals of one generation, sorted by
// fitness descending. Equal fitness keeps population order.
type BreedingPool struct {
	capacity int
	members  []*Individual
}

// NewBreedingPool creates an empty pool holding at most capacity members.
func NewBreedingPool(capacity int) *BreedingPool {
	if capacity < 1 {
		capacity = 1
	}
	return &BreedingPool{
		capacity: capacity,
		members:  make([]*Individual, 0, capacity+1),
	}
}

// Offer inserts ind if the pool has room or ind beats the current minimum.
// Returns true if ind was admitted.
func (bp *BreedingPool) Offer(ind *Individual) bool {
	if len(bp.members) >= bp.capacity && ind.Fitness <= bp.members[len(bp.members)-1].Fitness {
		return false
	}

	// Insert after every member with fitness >= ind.Fitness.
	pos := len(bp.members)
	for pos > 0 && bp.members[pos-1].Fitness < ind.Fitness {
		pos--
	}
	bp.members = append(bp.members, nil)
	copy(bp.members[pos+1:], bp.members[pos:])
	bp.members[pos] = ind

	if len(bp.members) > bp.capacity {
		bp.members = bp.members[:bp.capacity]
	}
	return true
}

// Members returns the pool in descending fitness order.
func (bp *BreedingPool) Members() []*Individual {
	return bp.members
}

// Len returns the number of members.
func (bp *BreedingPool) Len() int {
	return len(bp.members)
}

// Best returns the fittest member, or nil when empty.
func (bp *BreedingPool) Best() *Individual {
	if len(bp.members) == 0 {
		return nil
	}
	return bp.members[0]
}

// Clear empties the pool for the next generation.
func (bp *BreedingPool) Clear() {
	clear(bp.members)
	bp.members = bp.members[:0]
}

// SelectBreedingPool builds the top-capacity pool from pop in one pass.
func SelectBreedingPool(pop *Population, capacity int) *BreedingPool {
	bp := NewBreedingPool(capacity)
	if pop == nil {
		return bp
	}
	for _, ind := range pop.Individuals {
		bp.Offer(ind)
	}
	return bp
}
