package board

import (
	"math/rand/v2"
	"testing"
)

func mustParse(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestPlaceRemoveKeepsBitboardsInSync(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	pos := NewPosition()

	pieces := []Piece{NewPiece(Hidden, Mystery)}
	for pt := General; pt <= Duck; pt++ {
		pieces = append(pieces, NewPiece(pt, Black), NewPiece(pt, Red))
	}

	for i := 0; i < 5000; i++ {
		sq := Square(rng.IntN(SquareNB))
		if rng.IntN(3) == 0 {
			before := pos.PieceAt(sq)
			if got := pos.Remove(sq); got != before {
				t.Fatalf("Remove(%v) = %v, want %v", sq, got, before)
			}
		} else {
			piece := pieces[rng.IntN(len(pieces))]
			pos.Place(piece, sq)
			if pos.PieceAt(sq) != piece {
				t.Fatalf("Place(%v, %v) left %v", piece, sq, pos.PieceAt(sq))
			}
		}
		if err := pos.Validate(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func TestRemoveEmptySquare(t *testing.T) {
	pos := NewPosition()
	if got := pos.Remove(C3); got != NoPiece {
		t.Errorf("Remove on empty square = %v, want NoPiece", got)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	pos := mustParse(t, "Rk6/8/8/8 b")
	pos.AddCollection(NewPiece(Soldier, Red))

	cp := pos.Copy()
	if !cp.DoMove(NewMove(A1, B1)) {
		t.Fatal("capture rejected on the copy")
	}
	cp.Bag[0] = NewPiece(General, Black)

	if pos.PieceAt(A1) != NewPiece(Chariot, Black) || pos.PieceAt(B1) != NewPiece(General, Red) {
		t.Error("move on the copy changed the source position")
	}
	if pos.Bag[0] != NewPiece(Soldier, Red) {
		t.Error("bag is shared between copies")
	}
}

func TestDoMoveCapture(t *testing.T) {
	pos := mustParse(t, "Rk6/8/8/8 b")
	pos.CaptureClock = 5

	if !pos.DoMove(NewMove(A1, B1)) {
		t.Fatal("chariot should capture the general")
	}
	if pos.PieceAt(A1) != NoPiece || pos.PieceAt(B1) != NewPiece(Chariot, Black) {
		t.Errorf("unexpected board after capture: %s", pos.ToFEN())
	}
	if pos.CaptureClock != 0 {
		t.Errorf("CaptureClock = %d, want 0", pos.CaptureClock)
	}
	if pos.SideToMove != Black {
		t.Error("side to move must not change")
	}
	if pos.Illegal != NoColor {
		t.Errorf("Illegal = %v, want NoColor", pos.Illegal)
	}
	if err := pos.Validate(); err != nil {
		t.Error(err)
	}
}

func TestDoMoveQuietIncrementsClock(t *testing.T) {
	pos := mustParse(t, "R6k/8/8/8 b")
	if !pos.DoMove(NewMove(A1, A3)) {
		t.Fatal("quiet chariot move rejected")
	}
	if pos.CaptureClock != 1 {
		t.Errorf("CaptureClock = %d, want 1", pos.CaptureClock)
	}
}

func TestDoMoveIllegal(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move Move
	}{
		{"opponent piece", "Rk6/8/8/8 b", NewMove(B1, C1)},
		{"lower type cannot capture higher", "Kp6/8/8/8 b", NewMove(A1, B1)},
		{"equal types", "Pp6/8/8/8 b", NewMove(A1, B1)},
		{"out of range", "K7/8/8/7k b", NewMove(A1, C1)},
		{"chariot through a blocker", "RPk5/8/8/8 b", NewMove(A1, C1)},
		{"cannon without screen", "Ck6/8/8/8 b", NewMove(A1, B1)},
		{"cannon over two screens", "CPPk4/8/8/8 b", NewMove(A1, D1)},
		{"duck", "Dk6/8/8/8 b", NewMove(A1, A2)},
		{"face-down piece", "?k6/8/8/8 b", NewMove(A1, A2)},
		{"onto face-down piece", "R?6/8/8/8 b", NewMove(A1, B1)},
		{"empty square", "8/8/8/7k b", NewMove(A1, A2)},
		{"flip", "?k6/8/8/8 b", NewFlip(A1)},
		{"no move", "Rk6/8/8/8 b", NoMove},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParse(t, tc.fen)
			before := pos.ToFEN()

			if pos.DoMove(tc.move) {
				t.Fatalf("DoMove(%v) accepted", tc.move)
			}
			if pos.Illegal != Black {
				t.Errorf("Illegal = %v, want Black", pos.Illegal)
			}
			if pos.ToFEN() != before || pos.CaptureClock != 0 {
				t.Errorf("rejected move changed the position: %s", pos.ToFEN())
			}
		})
	}
}

func TestOwnPieceOverwrite(t *testing.T) {
	pos := mustParse(t, "RA5k/8/8/8 b")
	if !pos.DoMove(NewMove(A1, B1)) {
		t.Fatal("chariot should overwrite a lesser own piece by default")
	}
	if pos.Count(Black, Advisor) != 0 {
		t.Error("own advisor should have been removed")
	}
	if pos.CaptureClock != 1 {
		t.Errorf("overwriting an own piece is not a capture: CaptureClock = %d", pos.CaptureClock)
	}

	strict := mustParse(t, "RA5k/8/8/8 b")
	strict.StrictOwnership = true
	if strict.DoMove(NewMove(A1, B1)) {
		t.Fatal("strict ownership should reject landing on an own piece")
	}
	if strict.Illegal != Black {
		t.Errorf("Illegal = %v, want Black", strict.Illegal)
	}
}

func TestWinner(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want Color
	}{
		{"opponent eliminated", "K7/8/8/8 b", Black},
		{"opponent eliminated, red to move", "k7/8/8/8 r", Red},
		{"nothing on the board", "8/8/8/8 b", Black},
		{"undecided", "Kp6/8/8/8 b", NoColor},
		{"stuck", "Kp6/p7/8/8 b", Red},
		{"only immovable pieces", "D6p/8/8/8 b", Red},
		{"opponent stuck is not a loss", "Rk6/8/8/8 b", NoColor},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParse(t, tc.fen)
			if got := pos.Winner(); got != tc.want {
				t.Errorf("Winner() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSetupAndFlip(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	pos := NewPosition()
	pos.AddCollection()
	if len(pos.Bag) != TotalPieces {
		t.Fatalf("bag holds %d pieces, want %d", len(pos.Bag), TotalPieces)
	}

	pos.Setup(true, rng)
	if pos.All != Universe || pos.FaceUp != Empty {
		t.Fatal("hidden setup should fill the board face down")
	}

	flipped := 0
	for sq := A1; sq < NoSquare; sq++ {
		if !pos.FlipAt(sq, rng) {
			t.Fatalf("FlipAt(%v) failed", sq)
		}
		flipped++
		// Bag plus hidden squares always adds up to the full set.
		hidden := (pos.All &^ pos.FaceUp).PopCount()
		if len(pos.Bag) != hidden {
			t.Fatalf("after %d flips: bag %d, hidden squares %d", flipped, len(pos.Bag), hidden)
		}
	}

	if pos.FlipAt(A1, rng) {
		t.Error("flipping a face-up piece should fail")
	}
	if pos.Count(Black, NoPieceType) != 16 || pos.Count(Red, NoPieceType) != 16 {
		t.Errorf("sides hold %d and %d pieces, want 16 each", pos.Count(Black, NoPieceType), pos.Count(Red, NoPieceType))
	}
	if pos.Count(Black, Soldier) != 5 || pos.Count(Red, General) != 1 {
		t.Error("piece set composition is wrong")
	}
	if err := pos.Validate(); err != nil {
		t.Error(err)
	}
}

func TestFlipWithEmptyBag(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	pos := mustParse(t, "?7/8/8/8 b")

	if !pos.FlipAt(A1, rng) {
		t.Fatal("FlipAt failed")
	}
	piece := pos.PieceAt(A1)
	if !piece.IsFaceUp() || !piece.Type().IsMovable() {
		t.Errorf("flipped piece %v should be a face-up movable piece", piece)
	}
}

func TestClearKeepsConfiguration(t *testing.T) {
	pos := mustParse(t, "Rk6/8/8/8 r")
	pos.StrictOwnership = true
	pos.Clear()

	if pos.All != Empty || pos.SideToMove != Red || !pos.StrictOwnership {
		t.Error("Clear should empty the board but keep side and ownership mode")
	}
	for sq := A1; sq < NoSquare; sq++ {
		if pos.PieceAt(sq) != NoPiece {
			t.Fatalf("square %v not cleared", sq)
		}
	}
}
