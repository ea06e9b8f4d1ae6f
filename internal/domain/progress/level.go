// Package progress holds the pure rules of the discipline program:
// day unlocking, level calculation and discipline scoring.
package progress

// XPPerLevel is the width of every level band.
const XPPerLevel = 200

// Level labels.
const (
	LabelNovice      = "Novice"
	LabelDisciplined = "Disciplined"
	LabelScholar     = "Scholar"
	LabelMaster      = "Master"
)

// XP rewards.
const (
	XPTaskCompleted  = 5
	XPFocusCompleted = 10
	FocusMinutes     = 25
)

// LevelInfo describes the level band that contains an XP total.
type LevelInfo struct {
	Level int    `json:"level"`
	MinXP int    `json:"min"`
	MaxXP int    `json:"max"`
	Label string `json:"label"`
}

// Progress returns how far xp is into the band, 0..1.
func (l LevelInfo) Progress(xp int) float64 {
	span := l.MaxXP - l.MinXP
	if span <= 0 {
		return 0
	}
	p := float64(xp-l.MinXP) / float64(span)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// LevelFor maps cumulative XP to its level band.
func LevelFor(xp int) LevelInfo {
	if xp < 0 {
		xp = 0
	}
	level := xp/XPPerLevel + 1
	return LevelInfo{
		Level: level,
		MinXP: (level - 1) * XPPerLevel,
		MaxXP: level * XPPerLevel,
		Label: labelFor(level),
	}
}

func labelFor(level int) string {
	switch {
	case level >= 4:
		return LabelMaster
	case level == 3:
		return LabelScholar
	case level == 2:
		return LabelDisciplined
	default:
		return LabelNovice
	}
}
