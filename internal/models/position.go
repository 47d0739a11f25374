package models

// Position tracks the signed quantity held per book for one bond.
// The book key set is fixed at construction; updates never add or
// remove books.
type Position struct {
	Bond       Bond
	quantities map[string]int64
}

// NewPosition creates a flat position with every book key present.
func NewPosition(bond Bond) Position {
	q := make(map[string]int64, len(Books))
	for _, b := range Books {
		q[b] = 0
	}
	return Position{Bond: bond, quantities: q}
}

// HasBook reports whether book is part of this position's book set.
func (p Position) HasBook(book string) bool {
	_, ok := p.quantities[book]
	return ok
}

// Quantity returns the signed quantity held in one book.
func (p Position) Quantity(book string) int64 {
	return p.quantities[book]
}

// Update applies a signed delta to one book: add for BUY, subtract
// for SELL. The caller is responsible for book validation.
func (p Position) Update(book string, quantity int64, side Side) {
	switch side {
	case SideBuy:
		p.quantities[book] += quantity
	case SideSell:
		p.quantities[book] -= quantity
	}
}

// Aggregate sums the signed quantity across all books. Recomputed on
// every call, never cached.
func (p Position) Aggregate() int64 {
	var total int64
	for _, b := range Books {
		total += p.quantities[b]
	}
	return total
}

// Clone returns an independent copy. Downstream stages receive clones
// so no two stages share a mutable position.
func (p Position) Clone() Position {
	q := make(map[string]int64, len(p.quantities))
	for book, qty := range p.quantities {
		q[book] = qty
	}
	return Position{Bond: p.Bond, quantities: q}
}
