package economy

import "strings"

// Milestone is a one-time unlock granted the first time a target element is fused.
type Milestone int

const (
	MilestoneOxygen Milestone = iota
	MilestoneIron
	MilestoneKrypton
	MilestoneXenon
	MilestoneUranium
	numMilestones
)

type milestoneDef struct {
	name   string
	target int     // atomic number that unlocks it
	factor float64 // cost multiplier for targets with Z <= target
}

var milestoneTable = [numMilestones]milestoneDef{
	MilestoneOxygen:  {"oxygen", 8, 0.95},
	MilestoneIron:    {"iron", 26, 0.93},
	MilestoneKrypton: {"krypton", 36, 0.92},
	MilestoneXenon:   {"xenon", 54, 0.90},
	MilestoneUranium: {"uranium", 92, 0.88},
}

func (m Milestone) String() string {
	if m < 0 || m >= numMilestones {
		return "unknown"
	}
	return milestoneTable[m].name
}

// Target returns the atomic number that unlocks the milestone.
func (m Milestone) Target() int {
	return milestoneTable[m].target
}

// Factor returns the cost multiplier the milestone grants.
func (m Milestone) Factor() float64 {
	return milestoneTable[m].factor
}

// Covers reports whether the milestone's discount applies to target z.
func (m Milestone) Covers(z int) bool {
	return z <= milestoneTable[m].target
}

// ParseMilestone maps a flag name to its value.
func ParseMilestone(s string) (Milestone, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m := Milestone(0); m < numMilestones; m++ {
		if milestoneTable[m].name == name {
			return m, true
		}
	}
	return 0, false
}

// MilestoneFor returns the milestone unlocked by fusing z, if any.
func MilestoneFor(z int) (Milestone, bool) {
	for m := Milestone(0); m < numMilestones; m++ {
		if milestoneTable[m].target == z {
			return m, true
		}
	}
	return 0, false
}

// Milestones tracks unlocked flags and the research level they feed.
// Flags only ever go from locked to unlocked.
type Milestones struct {
	unlocked [numMilestones]bool
	research int
}

// Unlocked reports whether m has been reached.
func (ms Milestones) Unlocked(m Milestone) bool {
	if m < 0 || m >= numMilestones {
		return false
	}
	return ms.unlocked[m]
}

// ResearchLevel returns the research counter.
func (ms Milestones) ResearchLevel() int {
	return ms.research
}

// count returns the number of unlocked milestones.
func (ms Milestones) count() int {
	n := 0
	for _, on := range ms.unlocked {
		if on {
			n++
		}
	}
	return n
}

// Discount returns the product of the factors of every unlocked milestone
// whose coverage includes z.
func (ms Milestones) Discount(z int) float64 {
	d := 1.0
	for m := Milestone(0); m < numMilestones; m++ {
		if ms.unlocked[m] && m.Covers(z) {
			d *= m.Factor()
		}
	}
	return d
}

// reach flips the milestone for z if it is still locked. It returns the
// milestone and true only on the first flip.
func (ms *Milestones) reach(z int) (Milestone, bool) {
	m, ok := MilestoneFor(z)
	if !ok || ms.unlocked[m] {
		return 0, false
	}
	ms.unlocked[m] = true
	ms.research++
	return m, true
}

// Map returns flag name → unlocked for every milestone.
func (ms Milestones) Map() map[string]bool {
	out := make(map[string]bool, numMilestones)
	for m := Milestone(0); m < numMilestones; m++ {
		out[m.String()] = ms.unlocked[m]
	}
	return out
}
