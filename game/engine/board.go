package engine

// tileLayout is the hand-authored special of each board index
var tileLayout = map[int]Special{
	1: Cavity, 2: Licorice, 3: Gumdrop, 4: Gumdrop, 5: Gumdrop, 6: Brush, 7: Gumdrop, 8: Lollipop,
	9: Licorice, 10: Gumdrop, 11: Licorice, 12: Brush, 13: Lollipop, 14: Licorice, 15: Gumdrop, 16: Lollipop,
	17: Gumdrop, 18: Brush, 19: Gumdrop, 20: Cavity, 21: Lollipop, 22: Gumdrop, 23: Licorice, 24: Brush,
	25: Gumdrop, 26: Licorice, 27: Gumdrop, 28: Licorice, 29: Lollipop, 30: Gumdrop, 31: Brush,
	32: Cavity, 33: Gumdrop, 34: Lollipop, 35: Gumdrop, 36: Brush, 37: Gumdrop, 38: Lollipop, 39: Castle,
}

// LayoutSpecial returns the authored special for a board index
func LayoutSpecial(index int) Special {
	return tileLayout[index]
}

// GenerateBoard builds a track of the given length with random colors and the
// authored specials. The last tile is always a purple castle.
func GenerateBoard(length int, rng Rand) Board {
	if length < MinBoardLength {
		length = MinBoardLength
	}

	board := make(Board, length)
	for i := range board {
		board[i] = Tile{
			Index:   i,
			Color:   Colors[rng.Intn(len(Colors))],
			Special: tileLayout[i],
		}
	}

	last := &board[length-1]
	last.Special = Castle
	last.Color = Purple

	return board
}

// TileAt returns the tile at index, clamped onto the board
func TileAt(board Board, index int) Tile {
	return board[clamp(index, 0, board.LastIndex())]
}
