package domain

import (
	"fmt"
	"time"
)

// CardType - one of the three duel card faces
type CardType string

const (
	CardRock     CardType = "rock"
	CardScissors CardType = "scissors"
	CardPaper    CardType = "paper"
)

// AllCardTypes lists the card faces in their canonical order.
// The destiny draw indexes into this slice.
var AllCardTypes = []CardType{CardRock, CardScissors, CardPaper}

// Valid reports whether t is one of the three card faces.
func (t CardType) Valid() bool {
	switch t {
	case CardRock, CardScissors, CardPaper:
		return true
	}
	return false
}

// Beats is the canonical relation: rock > scissors > paper > rock.
func (t CardType) Beats(other CardType) bool {
	switch t {
	case CardRock:
		return other == CardScissors
	case CardScissors:
		return other == CardPaper
	case CardPaper:
		return other == CardRock
	}
	return false
}

// ParseCardType converts user input into a CardType.
func ParseCardType(s string) (CardType, error) {
	t := CardType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid card type: %q", s)
	}
	return t, nil
}

// Card - a single card held by a player. Dark cards are tickets only and never played.
type Card struct {
	ID        int64     `json:"id"`
	Type      CardType  `json:"type"`
	Dark      bool      `json:"dark"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Card) String() string {
	label := "visible"
	if c.Dark {
		label = "dark"
	}
	return fmt.Sprintf("%s %s #%d", label, c.Type, c.ID)
}
