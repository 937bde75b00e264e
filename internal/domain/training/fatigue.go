package training

import "sort"

const (
	// CNS is the distinguished central-nervous-system gauge
	CNS = "SNC"

	// CNSFloor blocks set registration when the CNS gauge is below it
	CNSFloor = 40

	// AdvisoryThreshold is the level under which the prompt asks not to train a group
	AdvisoryThreshold = 50

	NormalSetCost = 3
	PRSetCost     = 6

	fullRecovery = 100
)

// MuscleGroups are the labels of the default fatigue map
var MuscleGroups = []string{CNS, "Pecho", "Espalda", "Hombros", "Brazos", "Cuadriceps", "Isquios", "Gluteos", "Core"}

// FatigueMap holds a [0,100] readiness percentage per muscle group.
// Values only go down through set registration; Reset is the only increase.
type FatigueMap map[string]int

// DefaultFatigueMap returns every group fully recovered
func DefaultFatigueMap() FatigueMap {
	m := make(FatigueMap, len(MuscleGroups))
	for _, g := range MuscleGroups {
		m[g] = fullRecovery
	}
	return m
}

// CNS returns the central-nervous-system gauge
func (f FatigueMap) CNS() int {
	v, ok := f[CNS]
	if !ok {
		return fullRecovery
	}
	return v
}

// Locked reports whether set registration is blocked
func (f FatigueMap) Locked() bool {
	return f.CNS() < CNSFloor
}

// Decrement lowers a group by n, clamped at 0
func (f FatigueMap) Decrement(group string, n int) int {
	current, ok := f[group]
	if !ok {
		current = fullRecovery
	}
	next := current - n
	if next < 0 {
		next = 0
	}
	f[group] = next
	return next
}

// Reset restores every group to 100
func (f FatigueMap) Reset() {
	for _, g := range MuscleGroups {
		f[g] = fullRecovery
	}
	for g := range f {
		f[g] = fullRecovery
	}
}

// Below returns the groups under the threshold, sorted
func (f FatigueMap) Below(threshold int) []string {
	var out []string
	for g, v := range f {
		if v < threshold {
			out = append(out, g)
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns a copy
func (f FatigueMap) Clone() FatigueMap {
	out := make(FatigueMap, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// SetCost is the CNS decrement for one registered set
func SetCost(isPR bool) int {
	if isPR {
		return PRSetCost
	}
	return NormalSetCost
}

// PersonalRecords maps exercise name to recorded load
type PersonalRecords map[string]float64

// Record stores the load for the exercise. The previous value is overwritten
// even when it was higher; the user's explicit flag is trusted.
func (p PersonalRecords) Record(exercise string, load float64) {
	p[exercise] = load
}

// Clone returns a copy
func (p PersonalRecords) Clone() PersonalRecords {
	out := make(PersonalRecords, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
