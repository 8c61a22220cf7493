package engine

const (
	WinScore = 10000.0

	materialWeight    = 10.0
	mobilityWeight    = 0.5
	threatWeight      = 5.0
	advancementWeight = 0.5
	centralityWeight  = 0.3
)

// SideTerms is one side's share of the static evaluation.
type SideTerms struct {
	Material   int     `json:"material"`
	Positional float64 `json:"positional"`
	Mobility   int     `json:"mobility"`
	Threats    int     `json:"threats"`
}

type EvalTerms struct {
	A SideTerms `json:"a"`
	B SideTerms `json:"b"`
}

// Raw is the weighted score with Side A as the positive reference.
func (t EvalTerms) Raw() float64 {
	return materialWeight*float64(t.A.Material-t.B.Material) +
		(t.A.Positional - t.B.Positional) +
		mobilityWeight*float64(t.A.Mobility-t.B.Mobility) -
		threatWeight*float64(t.A.Threats-t.B.Threats)
}

// Evaluate scores pos from the point of view of the side to move. Decided
// games score ±WinScore.
func Evaluate(pos *Position) float64 {
	return evaluateWith(pos, Decide(pos))
}

func evaluateWith(pos *Position, outcome Outcome) float64 {
	if outcome.Decided() {
		if outcome.Winner == pos.SideToMove {
			return WinScore
		}
		return -WinScore
	}
	raw := EvaluationTerms(pos).Raw()
	if pos.SideToMove == SideA {
		return raw
	}
	return -raw
}

func EvaluationTerms(pos *Position) EvalTerms {
	board := &pos.Board
	movesA := generateInto(board, SideA, nil)
	movesB := generateInto(board, SideB, nil)
	return EvalTerms{
		A: sideTerms(board, SideA, movesA, movesB),
		B: sideTerms(board, SideB, movesB, movesA),
	}
}

func sideTerms(board *Board, side Side, own, opponent []Move) SideTerms {
	terms := SideTerms{Mobility: len(own)}
	cell := side.Cell()
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if board[row][col] != cell {
				continue
			}
			terms.Material++
			advanced := absInt(row - side.HomeRow())
			centrality := 4 - absInt(4-col)
			terms.Positional += advancementWeight*float64(advanced) + centralityWeight*float64(centrality)
		}
	}
	for _, move := range opponent {
		if !move.IsCapture() {
			continue
		}
		midRow, midCol := move.Midpoint()
		if board[midRow][midCol] == cell {
			terms.Threats++
		}
	}
	return terms
}
