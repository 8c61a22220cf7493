package engine

// RepetitionLength is how many identical consecutive moves by one side lose the game.
const RepetitionLength = 3

type Reason int

const (
	ReasonNone Reason = iota
	ReasonBreakthrough
	ReasonElimination
	ReasonRepetition
	ReasonStalemate
)

func (r Reason) String() string {
	switch r {
	case ReasonBreakthrough:
		return "breakthrough"
	case ReasonElimination:
		return "elimination"
	case ReasonRepetition:
		return "repetition"
	case ReasonStalemate:
		return "stalemate"
	default:
		return ""
	}
}

type Outcome struct {
	Winner Side
	Reason Reason
}

func (o Outcome) Decided() bool {
	return o.Reason != ReasonNone
}

// Decide settles the game. Precedence: breakthrough, elimination,
// repetition, stalemate.
func Decide(pos *Position) Outcome {
	board := &pos.Board
	if board.RowContains(SideA.GoalRow(), CellA) {
		return Outcome{Winner: SideA, Reason: ReasonBreakthrough}
	}
	if board.RowContains(SideB.GoalRow(), CellB) {
		return Outcome{Winner: SideB, Reason: ReasonBreakthrough}
	}
	if board.Count(CellA) == 0 {
		return Outcome{Winner: SideB, Reason: ReasonElimination}
	}
	if board.Count(CellB) == 0 {
		return Outcome{Winner: SideA, Reason: ReasonElimination}
	}
	if repeater, ok := repetitionLoser(pos); ok {
		return Outcome{Winner: repeater.Opponent(), Reason: ReasonRepetition}
	}
	if !hasAnyMove(board, pos.SideToMove) {
		return Outcome{Winner: pos.SideToMove.Opponent(), Reason: ReasonStalemate}
	}
	return Outcome{}
}

func IsTerminal(pos *Position) bool {
	return Decide(pos).Decided()
}

// Winner reports the winning side, if the game is decided.
func Winner(pos *Position) (Side, bool) {
	outcome := Decide(pos)
	return outcome.Winner, outcome.Decided()
}

func IsLegal(pos *Position, move Move) bool {
	if !move.IsValid() {
		return false
	}
	for _, legal := range GenerateMoves(pos, pos.SideToMove) {
		if legal == move {
			return true
		}
	}
	return false
}

// repetitionLoser checks the side that just moved: its last three recorded
// moves being identical loses. At least six moves must be on record.
func repetitionLoser(pos *Position) (Side, bool) {
	if len(pos.History) < 2*RepetitionLength {
		return SideA, false
	}
	mover := pos.SideToMove.Opponent()
	var first Move
	seen := 0
	for i := len(pos.History) - 1; i >= 0 && seen < RepetitionLength; i-- {
		entry := pos.History[i]
		if entry.Side != mover {
			continue
		}
		if seen == 0 {
			first = entry.Move
		} else if entry.Move != first {
			return SideA, false
		}
		seen++
	}
	if seen < RepetitionLength {
		return SideA, false
	}
	return mover, true
}
