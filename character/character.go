// Package character models Aristotelian characters and stores them in a
// DynamoDB table through package store.
package character

import (
	"errors"
	"fmt"
)

// PhronesisLevel grades a character's practical wisdom.
type PhronesisLevel string

const (
	PhronesisLow    PhronesisLevel = "low"
	PhronesisMedium PhronesisLevel = "medium"
	PhronesisHigh   PhronesisLevel = "high"
)

// Trajectory describes how phronesis changes over the character's arc.
type Trajectory string

const (
	TrajectoryIncreasing Trajectory = "increasing"
	TrajectoryDecreasing Trajectory = "decreasing"
	TrajectoryConstant   Trajectory = "constant"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("aristotle: invalid character")

// Character is a stored character. ID is the primary key.
type Character struct {
	ID                  string         `dynamodbav:"character_id" json:"character_id"`
	Name                string         `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Hamartia            string         `dynamodbav:"hamartia,omitempty" json:"hamartia,omitempty"`
	Context             string         `dynamodbav:"context,omitempty" json:"context,omitempty"`
	Phronesis           PhronesisLevel `dynamodbav:"phronesis,omitempty" json:"phronesis,omitempty"`
	PhronesisTrajectory Trajectory     `dynamodbav:"phronesis_trajectory,omitempty" json:"phronesis_trajectory,omitempty"`
	Telos               string         `dynamodbav:"telos,omitempty" json:"telos,omitempty"`
	Universe            string         `dynamodbav:"universe,omitempty" json:"universe,omitempty"`
	Image               string         `dynamodbav:"image,omitempty" json:"image,omitempty"`
	Tags                []string       `dynamodbav:"tags,omitempty" json:"tags,omitempty"`
	GreatestWin         string         `dynamodbav:"greatest_win,omitempty" json:"greatest_win,omitempty"`
	GreatestDefeat      string         `dynamodbav:"greatest_defeat,omitempty" json:"greatest_defeat,omitempty"`
}

// Validate checks the key and the enumerated fields. Empty enums are allowed.
func (c Character) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: character_id is required", ErrInvalid)
	}
	switch c.Phronesis {
	case "", PhronesisLow, PhronesisMedium, PhronesisHigh:
	default:
		return fmt.Errorf("%w: phronesis %q is not one of low, medium, high", ErrInvalid, c.Phronesis)
	}
	switch c.PhronesisTrajectory {
	case "", TrajectoryIncreasing, TrajectoryDecreasing, TrajectoryConstant:
	default:
		return fmt.Errorf("%w: phronesis_trajectory %q is not one of increasing, decreasing, constant",
			ErrInvalid, c.PhronesisTrajectory)
	}
	return nil
}

// DisplayName returns Name, or ID when the name is unset.
func (c Character) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Samples returns the characters written by the scripted demo.
func Samples() []Character {
	return []Character{
		{
			ID:                  "hamlet",
			Name:                "Hamlet",
			Hamartia:            "indecision",
			Context:             "royal court",
			Phronesis:           PhronesisMedium,
			PhronesisTrajectory: TrajectoryDecreasing,
			Telos:               "Avenge his father and restore order",
			Tags:                []string{"tragedy", "revenge", "melancholy", "danish"},
			GreatestWin:         "Exposed Claudius's guilt through the play-within-a-play",
			GreatestDefeat:      "His indecision led to the deaths of Polonius, Ophelia, Gertrude, and himself",
		},
		{
			ID:                  "macbeth",
			Name:                "Macbeth",
			Hamartia:            "ambition",
			Context:             "political power",
			Phronesis:           PhronesisLow,
			PhronesisTrajectory: TrajectoryDecreasing,
			Telos:               "Become King of Scotland",
			Tags:                []string{"tragedy", "ambition", "prophecy", "guilt", "scottish"},
			GreatestWin:         "Seized the throne through decisive action",
			GreatestDefeat:      "Unchecked ambition led to paranoia, tyranny, and his death",
		},
	}
}
