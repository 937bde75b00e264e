package training

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMicrocycle(t *testing.T) Microcycle {
	t.Helper()
	m, err := NewMicrocycle(map[string][]Exercise{
		"Lunes": {
			{Name: "Sentadilla", TargetSets: 3, Reps: "6-8", Completed: []CompletedSet{{Load: 999}}},
			{Name: "Press banca", TargetSets: 1, Reps: "8"},
		},
	})
	require.NoError(t, err)
	return m
}

func TestNewMicrocycle(t *testing.T) {
	m := sampleMicrocycle(t)
	assert.Empty(t, m.Days["Lunes"][0].Completed, "generated exercises start with no sets")

	_, err := NewMicrocycle(map[string][]Exercise{"Lunes": {{TargetSets: 3}}})
	assert.ErrorIs(t, err, ErrMissingName)

	_, err = NewMicrocycle(map[string][]Exercise{"Lunes": {{Name: "Remo"}}})
	assert.ErrorIs(t, err, ErrInvalidTargetSets)

	_, err = NewMicrocycle(map[string][]Exercise{"Day 1": {{Name: "Remo", TargetSets: 3}}})
	assert.ErrorIs(t, err, ErrUnknownDay)
}

func TestExerciseDone(t *testing.T) {
	tests := []struct {
		sets int
		done bool
	}{
		{0, false},
		{2, false},
		{3, true},
	}
	for _, tt := range tests {
		ex := Exercise{Name: "Sentadilla", TargetSets: 3}
		for i := 0; i < tt.sets; i++ {
			ex.Completed = append(ex.Completed, CompletedSet{Load: 100})
		}
		assert.Equal(t, tt.done, ex.Done(), "sets=%d", tt.sets)
	}
}

func TestAppendSetAndDayDone(t *testing.T) {
	m := sampleMicrocycle(t)
	assert.False(t, m.DayDone("Lunes"))

	for i := 0; i < 3; i++ {
		_, err := m.AppendSet("Lunes", 0, CompletedSet{Load: 100, RIR: 2})
		require.NoError(t, err)
	}
	assert.False(t, m.DayDone("Lunes"))

	ex, err := m.AppendSet("Lunes", 1, CompletedSet{Load: 80})
	require.NoError(t, err)
	assert.True(t, ex.Done())
	assert.True(t, m.DayDone("Lunes"))

	_, err = m.AppendSet("Martes", 0, CompletedSet{})
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestSubstitute_PreservesPosition(t *testing.T) {
	m := sampleMicrocycle(t)
	_, err := m.AppendSet("Lunes", 0, CompletedSet{Load: 100})
	require.NoError(t, err)

	err = m.Substitute("Lunes", 0, Exercise{Name: "Prensa", TargetSets: 4, Completed: []CompletedSet{{Load: 1}}})
	require.NoError(t, err)

	assert.Equal(t, "Prensa", m.Days["Lunes"][0].Name)
	assert.Empty(t, m.Days["Lunes"][0].Completed)
	assert.Equal(t, "Press banca", m.Days["Lunes"][1].Name)
}

func TestFatigueFloor(t *testing.T) {
	sequences := [][]bool{
		{false, false, false},
		{true, true, true, true},
		{true, false, true, false, true, false, true, false, true, false, true, false, true, false, true, false, true, false, true, false, true, false, true},
	}
	for _, seq := range sequences {
		f := DefaultFatigueMap()
		sum := 0
		for _, isPR := range seq {
			f.Decrement(CNS, SetCost(isPR))
			sum += SetCost(isPR)
		}
		want := 100 - sum
		if want < 0 {
			want = 0
		}
		assert.Equal(t, want, f.CNS())
		assert.GreaterOrEqual(t, f.CNS(), 0)
	}
}

func TestFatigueLockedAndReset(t *testing.T) {
	f := DefaultFatigueMap()
	f[CNS] = 40
	assert.False(t, f.Locked())
	f[CNS] = 39
	assert.True(t, f.Locked())

	f["Pecho"] = 10
	assert.Equal(t, []string{"Pecho", CNS}, f.Below(AdvisoryThreshold))

	f.Reset()
	assert.Equal(t, DefaultFatigueMap(), f)
}

func TestPersonalRecords_OverwriteUnconditionally(t *testing.T) {
	pr := PersonalRecords{}
	pr.Record("Sentadilla", 140)
	pr.Record("Sentadilla", 120)

	assert.Equal(t, 120.0, pr["Sentadilla"])
}

func TestMicrocycleClone(t *testing.T) {
	m := sampleMicrocycle(t)
	c := m.Clone()
	_, err := c.AppendSet("Lunes", 0, CompletedSet{Load: 1})
	require.NoError(t, err)

	assert.Empty(t, m.Days["Lunes"][0].Completed)
}
