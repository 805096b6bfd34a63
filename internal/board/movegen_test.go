package board

import (
	"math/rand/v2"
	"testing"
)

func movesOf(ml *MoveList) []string {
	var out []string
	for _, m := range ml.Slice() {
		out = append(out, m.String())
	}
	return out
}

func TestGenerateMovesFor(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		c    Color
		pt   PieceType
		want []string
	}{
		{
			name: "chariot captures the nearer piece only",
			fen:  "R1k1A3/8/8/8 b",
			c:    Black,
			pt:   Chariot,
			want: []string{"MOVE A1 B1", "MOVE A1 C1", "MOVE A1 A2", "MOVE A1 A3", "MOVE A1 A4"},
		},
		{
			name: "chariot stops at a stronger piece",
			fen:  "R1p1k3/8/8/8 b",
			c:    Black,
			pt:   Chariot,
			want: []string{"MOVE A1 B1", "MOVE A1 A2", "MOVE A1 A3", "MOVE A1 A4"},
		},
		{
			name: "cannon jumps an enemy screen",
			fen:  "C1p1k3/8/8/8 b",
			c:    Black,
			pt:   Cannon,
			want: []string{"MOVE A1 B1", "MOVE A1 E1", "MOVE A1 A2", "MOVE A1 A3", "MOVE A1 A4"},
		},
		{
			name: "cannon jumps its own screen",
			fen:  "CP1k4/8/8/8 b",
			c:    Black,
			pt:   Cannon,
			want: []string{"MOVE A1 D1", "MOVE A1 A2", "MOVE A1 A3", "MOVE A1 A4"},
		},
		{
			name: "cannon without a screen",
			fen:  "C1k5/8/8/8 b",
			c:    Black,
			pt:   Cannon,
			want: []string{"MOVE A1 B1", "MOVE A1 A2", "MOVE A1 A3", "MOVE A1 A4"},
		},
		{
			name: "soldier outranks the general",
			fen:  "Kp6/8/8/8 r",
			c:    Red,
			pt:   NoPieceType,
			want: []string{"MOVE B1 A1", "MOVE B1 C1", "MOVE B1 B2"},
		},
		{
			name: "general cannot take a soldier",
			fen:  "Kp6/8/8/8 b",
			c:    Black,
			pt:   NoPieceType,
			want: []string{"MOVE A1 A2"},
		},
		{
			name: "origins in ascending order",
			fen:  "1P6/1k6/8/7N b",
			c:    Black,
			pt:   NoPieceType,
			want: []string{"MOVE B1 A1", "MOVE B1 C1", "MOVE B1 B2", "MOVE H4 H3", "MOVE H4 G4"},
		},
		{
			name: "type filter",
			fen:  "1P6/1k6/8/7N b",
			c:    Black,
			pt:   Horse,
			want: []string{"MOVE H4 H3", "MOVE H4 G4"},
		},
		{
			name: "duck filter",
			fen:  "D7/8/8/7k b",
			c:    Black,
			pt:   Duck,
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParse(t, tc.fen)
			got := movesOf(pos.GenerateMovesFor(tc.c, tc.pt))
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("move %d = %s, want %s", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestEmptyBoardMoveCounts(t *testing.T) {
	// A slider on an empty board reaches its whole rank and file.
	for _, fen := range []string{"R7/8/8/8 b", "C7/8/8/8 b", "8/8/3R4/8 b", "8/8/3C4/8 b"} {
		pos := mustParse(t, fen)
		if n := pos.GenerateMoves().Len(); n != 10 {
			t.Errorf("%s: %d moves, want 10", fen, n)
		}
	}
}

// randomPosition fills roughly half the board with face-up pieces of either side.
func randomPosition(rng *rand.Rand) *Position {
	pos := NewPosition()
	for sq := A1; sq < NoSquare; sq++ {
		switch rng.IntN(4) {
		case 0:
			pos.Place(NewPiece(General+PieceType(rng.IntN(int(Duck))), Black), sq)
		case 1:
			pos.Place(NewPiece(General+PieceType(rng.IntN(int(Duck))), Red), sq)
		}
	}
	if rng.IntN(8) == 0 {
		pos.Place(NewPiece(Hidden, Mystery), Square(rng.IntN(SquareNB)))
	}
	pos.SideToMove = Color(rng.IntN(SideNB))
	return pos
}

func TestGeneratorAgreesWithLegality(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 43))

	for i := 0; i < 300; i++ {
		pos := randomPosition(rng)
		pos.StrictOwnership = i%2 == 1
		moves := pos.GenerateMoves()

		for _, m := range moves.Slice() {
			if !pos.IsLegal(m) {
				t.Fatalf("%s: generated %v is not legal", pos.ToFEN(), m)
			}
			cp := pos.Copy()
			if !cp.DoMove(m) {
				t.Fatalf("%s: DoMove rejected generated %v", pos.ToFEN(), m)
			}
			if err := cp.Validate(); err != nil {
				t.Fatalf("%s after %v: %v", pos.ToFEN(), m, err)
			}
		}

		for from := A1; from < NoSquare; from++ {
			for to := A1; to < NoSquare; to++ {
				m := NewMove(from, to)
				if from == to {
					continue
				}
				if pos.IsLegal(m) != moves.Contains(m) {
					t.Fatalf("%s: %v legal=%v generated=%v", pos.ToFEN(), m, pos.IsLegal(m), moves.Contains(m))
				}
			}
		}

		if pos.HasMoves(pos.SideToMove) != (moves.Len() > 0) {
			t.Fatalf("%s: HasMoves disagrees with %d generated moves", pos.ToFEN(), moves.Len())
		}
	}
}

func TestGenerationIsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 50; i++ {
		pos := randomPosition(rng)
		a := movesOf(pos.GenerateMoves())
		b := movesOf(pos.GenerateMoves())
		if len(a) != len(b) {
			t.Fatalf("%s: %d then %d moves", pos.ToFEN(), len(a), len(b))
		}
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("%s: move %d differs: %s vs %s", pos.ToFEN(), j, a[j], b[j])
			}
		}
	}
}

func TestMoveNotation(t *testing.T) {
	tests := []struct {
		s string
		m Move
	}{
		{"MOVE A1 A2", NewMove(A1, A2)},
		{"MOVE H4 A1", NewMove(H4, A1)},
		{"FLIP C3", NewFlip(C3)},
		{"FLIP A1", NewFlip(A1)},
	}

	for _, tc := range tests {
		if got := tc.m.String(); got != tc.s {
			t.Errorf("String() = %q, want %q", got, tc.s)
		}
		m, err := ParseMove(tc.s)
		if err != nil {
			t.Errorf("ParseMove(%q): %v", tc.s, err)
			continue
		}
		if m != tc.m {
			t.Errorf("ParseMove(%q) = %v, want %v", tc.s, m, tc.m)
		}
	}

	if NewFlip(A1) == NoMove || !NewFlip(A1).IsFlip() || NewMove(B1, C1).IsFlip() {
		t.Error("flip flag not encoded")
	}

	for _, bad := range []string{"", "MOVE A1", "FLIP", "MOVE A1 Z9", "JUMP A1 A2", "FLIP A1 A2"} {
		if _, err := ParseMove(bad); err == nil {
			t.Errorf("ParseMove(%q) should fail", bad)
		}
	}
}
