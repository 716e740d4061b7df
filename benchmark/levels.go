// Package benchmark compares swing metrics against reference ranges for a
// golfer's skill level and the club being swung.
package benchmark

import (
	"fmt"
	"strings"
)

// SkillLevel is the golfer's ability the reference bands are chosen for
type SkillLevel int

const (
	Beginner SkillLevel = iota
	Intermediate
	Advanced
	Professional

	numSkills = 4
)

var skillNames = [numSkills]string{"beginner", "intermediate", "advanced", "professional"}

// String returns the skill level name
func (s SkillLevel) String() string {
	if s < 0 || s >= numSkills {
		return fmt.Sprintf("skill(%d)", int(s))
	}

	return skillNames[s]
}

// MarshalText implements encoding.TextMarshaler
func (s SkillLevel) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *SkillLevel) UnmarshalText(b []byte) error {
	v, err := ParseSkillLevel(string(b))

	if err != nil {
		return err
	}

	*s = v
	return nil
}

// ParseSkillLevel parses a skill level name, "pro" is accepted for
// professional
func ParseSkillLevel(name string) (SkillLevel, error) {

	name = strings.ToLower(strings.TrimSpace(name))

	if name == "pro" {
		return Professional, nil
	}

	for i, n := range skillNames {
		if n == name {
			return SkillLevel(i), nil
		}
	}

	return Beginner, fmt.Errorf("unknown skill level %q", name)
}

// Club is the type of club swung
type Club int

const (
	Driver Club = iota
	Wood
	Iron
	Wedge

	numClubs = 4
)

var clubNames = [numClubs]string{"driver", "wood", "iron", "wedge"}

// String returns the club name
func (c Club) String() string {
	if c < 0 || c >= numClubs {
		return fmt.Sprintf("club(%d)", int(c))
	}

	return clubNames[c]
}

// MarshalText implements encoding.TextMarshaler
func (c Club) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Club) UnmarshalText(b []byte) error {
	v, err := ParseClub(string(b))

	if err != nil {
		return err
	}

	*c = v
	return nil
}

// ParseClub parses a club name
func ParseClub(name string) (Club, error) {

	name = strings.ToLower(strings.TrimSpace(name))

	for i, n := range clubNames {
		if n == name {
			return Club(i), nil
		}
	}

	return Driver, fmt.Errorf("unknown club type %q", name)
}
