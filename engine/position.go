package engine

// Position is a full game snapshot. It is owned by whoever holds it and is
// only mutated through Apply, Play and Undo.
type Position struct {
	Board      Board
	SideToMove Side
	MoveCount  int
	History    []HistoryEntry
	Captures   [2]int
	hash       uint64
}

// NewGame returns the initial setup: Side B fills row 0 and the diamond on
// rows 1-3, Side A mirrors it on rows 8-5. Side A moves first.
func NewGame() *Position {
	var board Board
	for col := 0; col < BoardSize; col++ {
		board[0][col] = CellB
		board[8][col] = CellA
	}
	diamond := [3][2]int{{1, 7}, {2, 6}, {3, 5}}
	for i, cols := range diamond {
		for _, col := range cols {
			board[1+i][col] = CellB
			board[7-i][col] = CellA
		}
	}
	return NewPosition(board, SideA)
}

// NewPosition wraps an arbitrary board with an empty history.
func NewPosition(board Board, toMove Side) *Position {
	p := &Position{Board: board, SideToMove: toMove}
	p.hash = ComputeHash(&p.Board, toMove)
	return p
}

func (p *Position) Clone() *Position {
	clone := *p
	clone.History = append([]HistoryEntry(nil), p.History...)
	return &clone
}

func (p *Position) Hash() uint64 {
	return p.hash
}

func (p *Position) PieceCount(side Side) int {
	return p.Board.Count(side.Cell())
}

// CapturedBy is the number of opponent pieces side has taken.
func (p *Position) CapturedBy(side Side) int {
	return p.Captures[side]
}

func (p *Position) LastMove() (HistoryEntry, bool) {
	if len(p.History) == 0 {
		return HistoryEntry{}, false
	}
	return p.History[len(p.History)-1], true
}

// Apply plays move for the side to move after checking it against the
// generated move set.
func (p *Position) Apply(move Move) error {
	if !IsLegal(p, move) {
		return illegalMoveError(move, p.SideToMove)
	}
	p.Play(move)
	return nil
}

// Play applies move without validation. The search only feeds it generated moves.
func (p *Position) Play(move Move) {
	mover := p.SideToMove
	p.Board[move.ToRow][move.ToCol] = p.Board[move.FromRow][move.FromCol]
	p.Board[move.FromRow][move.FromCol] = CellEmpty
	if move.IsCapture() {
		midRow, midCol := move.Midpoint()
		p.Board[midRow][midCol] = CellEmpty
		p.Captures[mover]++
	}
	p.History = append(p.History, HistoryEntry{Side: mover, Move: move})
	p.hash ^= moveHashDelta(move, mover)
	p.SideToMove = mover.Opponent()
	p.MoveCount++
}

// Undo reverts the last history entry and returns it.
func (p *Position) Undo() (HistoryEntry, error) {
	if len(p.History) == 0 {
		return HistoryEntry{}, ErrNoHistory
	}
	last := p.History[len(p.History)-1]
	p.History = p.History[:len(p.History)-1]
	p.SideToMove = last.Side
	p.MoveCount--

	move := last.Move
	p.Board[move.FromRow][move.FromCol] = p.Board[move.ToRow][move.ToCol]
	p.Board[move.ToRow][move.ToCol] = CellEmpty
	if move.IsCapture() {
		midRow, midCol := move.Midpoint()
		p.Board[midRow][midCol] = last.Side.Opponent().Cell()
		p.Captures[last.Side]--
	}
	p.hash ^= moveHashDelta(move, last.Side)
	return last, nil
}
