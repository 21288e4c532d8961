// Package advisory holds the static travel-advisory reference table. The
// table is immutable in-process data, not session state.
package advisory

import (
	"fmt"
	"strings"
)

// Level is the ordinal advisory severity, following the four-tier scale.
type Level int

const (
	LevelNormalPrecautions Level = iota + 1
	LevelIncreasedCaution
	LevelReconsiderTravel
	LevelDoNotTravel
)

func (l Level) String() string {
	switch l {
	case LevelNormalPrecautions:
		return "Level 1: Exercise Normal Precautions"
	case LevelIncreasedCaution:
		return "Level 2: Exercise Increased Caution"
	case LevelReconsiderTravel:
		return "Level 3: Reconsider Travel"
	case LevelDoNotTravel:
		return "Level 4: Do Not Travel"
	default:
		return fmt.Sprintf("Level %d", int(l))
	}
}

// Advisory is one reference record, looked up by exact case-insensitive
// country name.
type Advisory struct {
	Country string
	Text    string
	Level   Level
	Updated string // YYYY-MM-DD
}

var advisories = []Advisory{
	{"France", "Exercise increased caution due to terrorism and civil unrest. Demonstrations in major cities can turn confrontational.", LevelIncreasedCaution, "2024-07-01"},
	{"United Kingdom", "Exercise increased caution due to terrorism. Attacks may occur with little or no warning.", LevelIncreasedCaution, "2024-02-22"},
	{"Germany", "Exercise increased caution due to terrorism.", LevelIncreasedCaution, "2024-05-02"},
	{"Italy", "Exercise increased caution due to terrorism.", LevelIncreasedCaution, "2024-05-28"},
	{"Spain", "Exercise increased caution due to terrorism and civil unrest.", LevelIncreasedCaution, "2024-03-12"},
	{"Japan", "Exercise normal precautions.", LevelNormalPrecautions, "2024-01-08"},
	{"Canada", "Exercise normal precautions.", LevelNormalPrecautions, "2024-04-16"},
	{"Australia", "Exercise normal precautions.", LevelNormalPrecautions, "2023-12-11"},
	{"Switzerland", "Exercise normal precautions.", LevelNormalPrecautions, "2024-06-18"},
	{"Ireland", "Exercise normal precautions.", LevelNormalPrecautions, "2024-01-17"},
	{"Mexico", "Reconsider travel to certain states due to crime and kidnapping. Advisory levels vary by state.", LevelReconsiderTravel, "2024-08-22"},
	{"India", "Exercise increased caution due to crime and terrorism. Do not travel to certain border areas.", LevelIncreasedCaution, "2024-06-24"},
	{"China", "Reconsider travel due to arbitrary enforcement of local laws and exit bans.", LevelReconsiderTravel, "2024-04-12"},
	{"Brazil", "Exercise increased caution due to crime. Do not travel within 150 km of land borders after dark.", LevelIncreasedCaution, "2023-10-19"},
	{"Egypt", "Reconsider travel due to terrorism. Some areas have increased risk.", LevelReconsiderTravel, "2024-07-31"},
	{"Thailand", "Exercise increased caution due to civil unrest in certain provinces.", LevelIncreasedCaution, "2024-03-27"},
	{"Russia", "Do not travel due to the unpredictable security environment and limited consular assistance.", LevelDoNotTravel, "2024-06-27"},
	{"Ukraine", "Do not travel due to armed conflict.", LevelDoNotTravel, "2024-05-09"},
}

// Lookup finds the advisory for the country by exact case-insensitive name
// match. The second return reports whether a record exists.
func Lookup(country string) (Advisory, bool) {
	needle := strings.ToLower(strings.TrimSpace(country))
	for _, a := range advisories {
		if strings.ToLower(a.Country) == needle {
			return a, true
		}
	}
	return Advisory{}, false
}

// Block renders the advisory as the text block appended to travel responses.
func (a Advisory) Block() string {
	return fmt.Sprintf("\n\nTravel Advisory for %s (%s, updated %s): %s", a.Country, a.Level, a.Updated, a.Text)
}
