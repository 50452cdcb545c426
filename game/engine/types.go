package engine

import (
	"encoding/json"
	"fmt"
)

// Color is the color of a tile or a color card
type Color string

const (
	Red    Color = "red"
	Blue   Color = "blue"
	Green  Color = "green"
	Yellow Color = "yellow"
	Purple Color = "purple"
)

// Colors lists every tile color in deck-building order
var Colors = []Color{Red, Blue, Green, Yellow, Purple}

// Valid reports whether c is one of the five board colors
func (c Color) Valid() bool {
	switch c {
	case Red, Blue, Green, Yellow, Purple:
		return true
	}
	return false
}

// Special tags a tile with an effect. The zero value means no special.
type Special string

const (
	NoSpecial Special = ""
	Brush     Special = "brush"
	Licorice  Special = "licorice"
	Lollipop  Special = "lollipop"
	Gumdrop   Special = "gumdrop"
	Cavity    Special = "cavity"
	Castle    Special = "castle"
)

// Valid reports whether s is a known special or NoSpecial
func (s Special) Valid() bool {
	switch s {
	case NoSpecial, Brush, Licorice, Lollipop, Gumdrop, Cavity, Castle:
		return true
	}
	return false
}

// DisplayName returns the board label of a special tile
func (s Special) DisplayName() string {
	switch s {
	case Brush:
		return "Brush Square"
	case Licorice:
		return "Licorice Snare"
	case Lollipop:
		return "Lollipop Woods"
	case Gumdrop:
		return "Sugar Surge Pass"
	case Cavity:
		return "Cavity Crawl"
	case Castle:
		return "Dark King Kandy's Castle"
	}
	return ""
}

// MarshalJSON encodes NoSpecial as null
func (s Special) MarshalJSON() ([]byte, error) {
	if s == NoSpecial {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON accepts null or a known special name
func (s *Special) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = NoSpecial
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if !Special(name).Valid() {
		return fmt.Errorf("unknown tile special %q", name)
	}
	*s = Special(name)
	return nil
}

// CardName names a special card
type CardName string

const (
	RainbowRot        CardName = "Rainbow Rot"
	CandyCaneShortcut CardName = "Candy Cane Shortcut"
)

// Valid reports whether n is a known special card
func (n CardName) Valid() bool {
	return n == RainbowRot || n == CandyCaneShortcut
}

// CardKind discriminates the Card union
type CardKind string

const (
	ColorCardKind   CardKind = "color"
	SpecialCardKind CardKind = "special"
)

// Validation constants
const (
	DefaultBoardLength = 40
	MinBoardLength     = 2
	MaxTeeth           = 32
	PlayerCount        = 2
)

// Tile is a single square of the track
type Tile struct {
	Index   int     `json:"index"`
	Color   Color   `json:"color"`
	Special Special `json:"special"`
}

// Board is the ordered track; the last tile is always the castle
type Board []Tile

// LastIndex returns the index of the castle tile
func (b Board) LastIndex() int {
	return len(b) - 1
}

// Card is either a color card or a named special card
type Card struct {
	Kind   CardKind
	Color  Color
	Double bool
	Name   CardName
}

// ColorCard builds a color card
func ColorCard(color Color, double bool) Card {
	return Card{Kind: ColorCardKind, Color: color, Double: double}
}

// SpecialCard builds a named special card
func SpecialCard(name CardName) Card {
	return Card{Kind: SpecialCardKind, Name: name}
}

// IsSpecial reports whether the card is a special card
func (c Card) IsSpecial() bool {
	return c.Kind == SpecialCardKind
}

// Spaces returns how far a color card moves the player
func (c Card) Spaces() int {
	if c.IsSpecial() {
		return 0
	}
	if c.Double {
		return 2
	}
	return 1
}

// String renders the card the way the game log names it
func (c Card) String() string {
	if c.IsSpecial() {
		return string(c.Name)
	}
	if c.Double {
		return string(c.Color) + " (double)"
	}
	return string(c.Color)
}

type cardJSON struct {
	Type   CardKind `json:"type"`
	Color  Color    `json:"color,omitempty"`
	Double *bool    `json:"double,omitempty"`
	Name   CardName `json:"name,omitempty"`
}

// MarshalJSON encodes the card as {"type":"color",...} or {"type":"special",...}
func (c Card) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ColorCardKind:
		double := c.Double
		return json.Marshal(cardJSON{Type: ColorCardKind, Color: c.Color, Double: &double})
	case SpecialCardKind:
		return json.Marshal(cardJSON{Type: SpecialCardKind, Name: c.Name})
	}
	return nil, fmt.Errorf("unknown card kind %q", c.Kind)
}

// UnmarshalJSON decodes either card shape and rejects unknown names
func (c *Card) UnmarshalJSON(data []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case ColorCardKind:
		if !raw.Color.Valid() {
			return fmt.Errorf("unknown card color %q", raw.Color)
		}
		*c = ColorCard(raw.Color, raw.Double != nil && *raw.Double)
	case SpecialCardKind:
		if !raw.Name.Valid() {
			return fmt.Errorf("unknown special card %q", raw.Name)
		}
		*c = SpecialCard(raw.Name)
	default:
		return fmt.Errorf("unknown card type %q", raw.Type)
	}
	return nil
}

// Deck is the multiset cards are sampled from
type Deck []Card

// Player is one of the two racers
type Player struct {
	Name  string `json:"name"`
	Pos   int    `json:"pos"`
	Teeth int    `json:"teeth"`
	Candy int    `json:"candy"`
	Skip  bool   `json:"skip"`
}

// GameState is the complete state of one game
type GameState struct {
	ID         string       `json:"id"`
	Board      Board        `json:"board"`
	Deck       Deck         `json:"deck"`
	Turn       int          `json:"turn"`
	Players    [2]Player    `json:"players"`
	Log        []string     `json:"log"`
	ConfigName string       `json:"config_name,omitempty"`
	History    []TurnRecord `json:"history,omitempty"`
}

// TurnRecord describes one resolved turn
type TurnRecord struct {
	Number      int      `json:"number"`
	Player      int      `json:"player"`
	PlayerName  string   `json:"player_name"`
	Skipped     bool     `json:"skipped,omitempty"`
	Card        *Card    `json:"card,omitempty"`
	From        int      `json:"from"`
	To          int      `json:"to"`
	Landed      Special  `json:"landed"`
	TeethBefore int      `json:"teeth_before"`
	TeethAfter  int      `json:"teeth_after"`
	CandyBefore int      `json:"candy_before"`
	CandyAfter  int      `json:"candy_after"`
	Collapsed   bool     `json:"collapsed,omitempty"`
	Won         bool     `json:"won,omitempty"`
	Log         []string `json:"log"`
}
