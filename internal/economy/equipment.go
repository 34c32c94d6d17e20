package economy

import (
	"math"
	"strings"
)

// Track identifies one equipment upgrade track.
type Track int

const (
	TrackCoil     Track = iota // fusion coil: multiplicative energy cost reduction
	TrackCoolant               // vent strength of the cooldown action
	TrackHeatsink              // extra heat capacity
	TrackScanner               // raises the molecule draw cap
	numTracks
)

// MaxLevel is the default cap for an upgrade track.
const MaxLevel = 20

// ScannerMaxLevel is the higher cap for the draw-cap track.
const ScannerMaxLevel = 40

func (t Track) String() string {
	switch t {
	case TrackCoil:
		return "coil"
	case TrackCoolant:
		return "coolant"
	case TrackHeatsink:
		return "heatsink"
	case TrackScanner:
		return "scanner"
	default:
		return "unknown"
	}
}

// ParseTrack maps a track id to its value.
func ParseTrack(s string) (Track, bool) {
	for _, t := range Tracks() {
		if t.String() == strings.ToLower(strings.TrimSpace(s)) {
			return t, true
		}
	}
	return 0, false
}

// Tracks returns every track in declaration order.
func Tracks() []Track {
	out := make([]Track, 0, numTracks)
	for t := Track(0); t < numTracks; t++ {
		out = append(out, t)
	}
	return out
}

// MaxLevel returns the level cap for the track.
func (t Track) MaxLevel() int {
	if t == TrackScanner {
		return ScannerMaxLevel
	}
	return MaxLevel
}

// Effect returns the track's modifier at the given level.
//
//	coil     → cost multiplier 0.96^level
//	coolant  → heat vented per cooldown, 10 + 5·level
//	heatsink → extra heat capacity, 10·level
//	scanner  → atomic numbers added to the draw cap, level
func (t Track) Effect(level int) float64 {
	if level < 0 {
		level = 0
	}
	switch t {
	case TrackCoil:
		return math.Pow(0.96, float64(level))
	case TrackCoolant:
		return 10 + 5*float64(level)
	case TrackHeatsink:
		return 10 * float64(level)
	case TrackScanner:
		return float64(level)
	default:
		return 0
	}
}

// Equipment holds the level of every track.
type Equipment struct {
	levels [numTracks]int
}

// Level returns the current level of a track.
func (e Equipment) Level(t Track) int {
	if t < 0 || t >= numTracks {
		return 0
	}
	return e.levels[t]
}

// Effect returns the current modifier of a track.
func (e Equipment) Effect(t Track) float64 {
	return t.Effect(e.Level(t))
}

// upgrade raises a track by exactly one level if it is below its cap.
func (e *Equipment) upgrade(t Track) bool {
	if t < 0 || t >= numTracks {
		return false
	}
	if e.levels[t] >= t.MaxLevel() {
		return false
	}
	e.levels[t]++
	return true
}

// set stores a level, clamped to [0, max].
func (e *Equipment) set(t Track, level int) {
	if t < 0 || t >= numTracks {
		return
	}
	if level < 0 {
		level = 0
	}
	if level > t.MaxLevel() {
		level = t.MaxLevel()
	}
	e.levels[t] = level
}

// Map returns track id → level for every track.
func (e Equipment) Map() map[string]int {
	out := make(map[string]int, numTracks)
	for _, t := range Tracks() {
		out[t.String()] = e.levels[t]
	}
	return out
}
