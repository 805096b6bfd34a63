package board

import "fmt"

// Magic bitboard implementation for the two sliding piece types.
// Magic numbers are searched at initialization and the resulting tables are
// verified against ray casting before they are used.

// Magic holds the magic bitboard data for a single square.
type Magic struct {
	Mask   Bitboard // Relevant occupancy mask
	Magic  uint64   // Magic multiplier
	Shift  uint8    // Bits to shift right
	Offset uint32   // Index into attack table
}

// index hashes the relevant part of occupied into the attack table.
func (m *Magic) index(occupied Bitboard) uint32 {
	return m.Offset + uint32((uint64(occupied&m.Mask)*m.Magic)>>m.Shift)
}

func (m *Magic) attacks(table []Bitboard, occupied Bitboard) Bitboard {
	return table[m.index(occupied)]
}

var (
	chariotMagics [SquareNB]Magic
	cannonMagics  [SquareNB]Magic

	chariotTable []Bitboard
	cannonTable  []Bitboard
)

// maxMagicAttempts bounds the candidate search for a single square.
const maxMagicAttempts = 1 << 22

// magicSeed is fixed so every process builds identical tables.
const magicSeed = 0x98F107A2BEEF1234

// slider describes one sliding piece type for table construction.
type slider struct {
	name   string
	mask   func(Square) Bitboard
	attack func(Square, Bitboard) Bitboard
}

var (
	chariotSlider = slider{"chariot", chariotMask, chariotAttacksSlow}
	cannonSlider  = slider{"cannon", cannonMask, cannonAttacksSlow}
)

func initMagics() error {
	rng := newPRNG(magicSeed)

	var err error
	if chariotTable, err = buildMagics(chariotSlider, &chariotMagics, rng); err != nil {
		return err
	}
	if cannonTable, err = buildMagics(cannonSlider, &cannonMagics, rng); err != nil {
		return err
	}

	if err := verifyMagics(chariotSlider, &chariotMagics, chariotTable); err != nil {
		return err
	}
	return verifyMagics(cannonSlider, &cannonMagics, cannonTable)
}

// buildMagics finds a collision-free magic for every square and fills the
// shared attack table.
func buildMagics(s slider, magics *[SquareNB]Magic, rng *prng) ([]Bitboard, error) {
	var table []Bitboard

	for sq := A1; sq < NoSquare; sq++ {
		mask := s.mask(sq)
		n := mask.PopCount()
		size := 1 << n

		// Reference attacks for every subset of the mask (carry-rippler order).
		occupancies := make([]Bitboard, 0, size)
		reference := make([]Bitboard, 0, size)
		for sub := Empty; ; {
			occupancies = append(occupancies, sub)
			reference = append(reference, s.attack(sq, sub))
			sub = (sub - mask) & mask
			if sub == 0 {
				break
			}
		}

		entries, magic, err := findMagic(mask, n, occupancies, reference, rng)
		if err != nil {
			return nil, fmt.Errorf("%s on %v: %w", s.name, sq, err)
		}

		magics[sq] = Magic{
			Mask:   mask,
			Magic:  magic,
			Shift:  uint8(64 - n),
			Offset: uint32(len(table)),
		}
		table = append(table, entries...)
	}

	return table, nil
}

// findMagic tries sparse random multipliers until every occupancy maps to an
// index that is either unused or already holds the same attack set.
func findMagic(mask Bitboard, n int, occupancies, reference []Bitboard, rng *prng) ([]Bitboard, uint64, error) {
	size := 1 << n
	shift := uint(64 - n)
	entries := make([]Bitboard, size)
	epoch := make([]int, size)

	for attempt := 1; attempt <= maxMagicAttempts; attempt++ {
		magic := rng.sparse()

		ok := true
		for i, occ := range occupancies {
			idx := (uint64(occ) * magic) >> shift
			if epoch[idx] < attempt {
				epoch[idx] = attempt
				entries[idx] = reference[i]
			} else if entries[idx] != reference[i] {
				ok = false
				break
			}
		}
		if ok {
			return entries, magic, nil
		}
	}

	return nil, 0, fmt.Errorf("no collision-free magic after %d attempts", maxMagicAttempts)
}

// verifyMagics re-enumerates every relevant occupancy and checks the table
// lookup against ray casting.
func verifyMagics(s slider, magics *[SquareNB]Magic, table []Bitboard) error {
	for sq := A1; sq < NoSquare; sq++ {
		m := &magics[sq]
		for sub := Empty; ; {
			want := s.attack(sq, sub)
			if got := m.attacks(table, sub); got != want {
				return fmt.Errorf("%s magic on %v maps occupancy %08x to %08x, want %08x",
					s.name, sq, uint32(sub), uint32(got), uint32(want))
			}
			sub = (sub - m.Mask) & m.Mask
			if sub == 0 {
				break
			}
		}
	}
	return nil
}

// chariotMask returns the relevant occupancy mask for a chariot at square.
// Edge squares are excluded: whether they are occupied never changes the result.
func chariotMask(sq Square) Bitboard {
	file, rank := sq.File(), sq.Rank()

	var mask Bitboard
	for f := 1; f < FileNB-1; f++ {
		if f != file {
			mask |= SquareBB(NewSquare(f, rank))
		}
	}
	for r := 1; r < RankNB-1; r++ {
		if r != rank {
			mask |= SquareBB(NewSquare(file, r))
		}
	}
	return mask
}

// cannonMask returns the relevant occupancy mask for a cannon at square.
// Edges count here: an occupied edge square is a capture target or a screen,
// an empty one is a plain destination.
func cannonMask(sq Square) Bitboard {
	return (RankMask[sq.Rank()] | FileMask[sq.File()]) &^ SquareBB(sq)
}

// chariotAttacksSlow computes chariot attacks by ray casting (used during initialization).
func chariotAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range Directions {
		for s, ok := sq.Offset(d); ok; s, ok = s.Offset(d) {
			attacks |= SquareBB(s)
			if occupied.IsSet(s) {
				break
			}
		}
	}
	return attacks
}

// cannonAttacksSlow computes cannon attacks by ray casting (used during initialization).
// Empty squares up to the first piece are destinations; past exactly one
// screen the next piece is a capture target.
func cannonAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range Directions {
		screened := false
		for s, ok := sq.Offset(d); ok; s, ok = s.Offset(d) {
			if !screened {
				if occupied.IsSet(s) {
					screened = true
				} else {
					attacks |= SquareBB(s)
				}
				continue
			}
			if occupied.IsSet(s) {
				attacks |= SquareBB(s)
				break
			}
		}
	}
	return attacks
}

// prng is a small xorshift64* generator, reproducible from its seed.
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// sparse returns a candidate with few set bits, which makes good magics.
func (p *prng) sparse() uint64 {
	return p.next() & p.next() & p.next()
}
