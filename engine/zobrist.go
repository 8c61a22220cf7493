package engine

import "sync"

type ZobristTable struct {
	cells [BoardSize * BoardSize * 2]uint64
	side  uint64
}

var (
	zobristOnce  sync.Once
	zobristTable *ZobristTable
)

func GetZobrist() *ZobristTable {
	zobristOnce.Do(func() {
		rng := splitmix64{state: uint64(0x9e3779b97f4a7c15) ^ uint64(BoardSize)}
		table := &ZobristTable{}
		for i := range table.cells {
			table.cells[i] = rng.next()
		}
		table.side = rng.next()
		zobristTable = table
	})
	return zobristTable
}

func (z *ZobristTable) piece(row, col int, side Side) uint64 {
	idx := (row*BoardSize + col) * 2
	if side == SideB {
		idx++
	}
	return z.cells[idx]
}

// ComputeHash keys a position by board contents and side to move only.
// Capture counters and history are not part of the key.
func ComputeHash(board *Board, toMove Side) uint64 {
	z := GetZobrist()
	var hash uint64
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			switch board[row][col] {
			case CellA:
				hash ^= z.piece(row, col, SideA)
			case CellB:
				hash ^= z.piece(row, col, SideB)
			}
		}
	}
	if toMove == SideB {
		hash ^= z.side
	}
	return hash
}

// moveHashDelta is the XOR that takes the key before move to the key after it,
// side flip included. XOR is its own inverse so Undo reuses it.
func moveHashDelta(move Move, mover Side) uint64 {
	z := GetZobrist()
	delta := z.piece(move.FromRow, move.FromCol, mover) ^ z.piece(move.ToRow, move.ToCol, mover) ^ z.side
	if move.IsCapture() {
		midRow, midCol := move.Midpoint()
		delta ^= z.piece(midRow, midCol, mover.Opponent())
	}
	return delta
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
