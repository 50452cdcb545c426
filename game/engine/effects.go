package engine

// Effect is the set of deltas a tile or special card applies to a player.
// Position and teeth are clamped after applying; candy is unbounded.
type Effect struct {
	Move  int    `json:"move"`
	Teeth int    `json:"teeth"`
	Candy int    `json:"candy"`
	Skip  bool   `json:"skip,omitempty"`
	Log   string `json:"log"`
}

// TileEffect returns the effect of landing on a special tile. Plain tiles and
// the castle have no effect.
func TileEffect(s Special) (Effect, bool) {
	switch s {
	case Gumdrop:
		return Effect{Move: 4, Teeth: -4, Candy: 13, Log: "Sugar Surge Pass: ahead 4, +13 candy, -4 teeth."}, true
	case Lollipop:
		return Effect{Move: -4, Teeth: -3, Candy: 15, Log: "Rot Return: back 4, +15 candy, -3 teeth."}, true
	case Licorice:
		return Effect{Teeth: -2, Candy: 7, Skip: true, Log: "Gingivitis Monster: skip next draw, +7 candy, -2 teeth."}, true
	case Cavity:
		return Effect{Move: -2, Teeth: -8, Candy: 37, Log: "Cavity Crawl: back 2, +37 candy, -8 teeth."}, true
	case Brush:
		return Effect{Teeth: 20, Candy: -25, Log: "Brush Square: +20 teeth, -25 candy."}, true
	case Castle, NoSpecial:
		return Effect{}, false
	}
	return Effect{}, false
}

// CardEffect returns the effect of a named special card
func CardEffect(name CardName) (Effect, bool) {
	switch name {
	case RainbowRot:
		return Effect{Move: 3, Teeth: -4, Candy: 14, Log: "Rainbow Rot: ahead 3, tooth decay (-4 teeth), +14 candy."}, true
	case CandyCaneShortcut:
		return Effect{Move: 2, Teeth: -3, Candy: 55, Log: "Candy Cane Shortcut: ahead 2, gums are bleeding (-3 teeth), +55 candy."}, true
	}
	return Effect{}, false
}

// ApplyTileSpecial applies the special of the tile under the player, if any.
// It always reads the player's current position, so calling it twice on the
// same tile applies the effect twice.
func ApplyTileSpecial(state *GameState, player *Player) bool {
	tile := TileAt(state.Board, player.Pos)
	effect, ok := TileEffect(tile.Special)
	if !ok {
		return false
	}
	applyEffect(state, player, effect)
	return true
}

// ApplySpecialCard applies a special card. Color cards are ignored; their
// movement belongs to the turn engine.
func ApplySpecialCard(state *GameState, player *Player, card Card) bool {
	if !card.IsSpecial() {
		return false
	}
	effect, ok := CardEffect(card.Name)
	if !ok {
		return false
	}
	applyEffect(state, player, effect)
	return true
}

func applyEffect(state *GameState, player *Player, e Effect) {
	player.Pos = clamp(player.Pos+e.Move, 0, state.Board.LastIndex())
	player.Teeth = clamp(player.Teeth+e.Teeth, 0, MaxTeeth)
	player.Candy += e.Candy
	if e.Skip {
		player.Skip = true
	}
	state.Log = append(state.Log, e.Log)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
