package board

// GenerateMoves generates every legal relocation for the side to move.
func (p *Position) GenerateMoves() *MoveList {
	return p.GenerateMovesFor(p.SideToMove, NoPieceType)
}

// GenerateMovesFor generates the legal relocations of side c, restricted to
// pieces of type pt unless pt is NoPieceType. Origins are visited in
// ascending square order and so are the destinations of each origin.
func (p *Position) GenerateMovesFor(c Color, pt PieceType) *MoveList {
	ml := NewMoveList()
	p.generateMoves(ml, c, pt)
	return ml
}

func (p *Position) generateMoves(ml *MoveList, c Color, pt PieceType) {
	for from := range p.movers(c, pt).All() {
		targets := p.targets(from)
		for targets != 0 {
			ml.Add(NewMove(from, targets.PopLSB()))
		}
	}
}

// movers returns the squares of c's pieces that may move, optionally of one type.
func (p *Position) movers(c Color, pt PieceType) Bitboard {
	if pt != NoPieceType {
		if !pt.IsMovable() {
			return Empty
		}
		return p.PiecesOf(c, pt)
	}

	var b Bitboard
	for t := General; t <= Soldier; t++ {
		b |= p.PiecesOf(c, t)
	}
	return b
}

// targets returns the destinations the piece on from may legally reach.
func (p *Position) targets(from Square) Bitboard {
	mover := p.Board[from]
	var b Bitboard
	attacks := Attacks(mover.Type(), from, p.All)
	for attacks != 0 {
		to := attacks.PopLSB()
		if p.canLand(mover, to) {
			b |= SquareBB(to)
		}
	}
	return b
}

// HasMoves returns true if side c has at least one legal relocation.
func (p *Position) HasMoves(c Color) bool {
	movers := p.movers(c, NoPieceType)
	for movers != 0 {
		if p.targets(movers.PopLSB()) != 0 {
			return true
		}
	}
	return false
}

// IsLegal checks a move for the side to move without applying it.
func (p *Position) IsLegal(m Move) bool {
	if m == NoMove || m.IsFlip() {
		return false
	}
	from := m.From()
	return p.Board[from].Color() == p.SideToMove && p.CanMove(from, m.To())
}
