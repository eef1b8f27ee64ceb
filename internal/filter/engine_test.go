package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"precatorios/internal/core"
)

func TestEngineInitialize(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, Unloaded, e.State())
	assert.False(t, e.QueryPerformed())

	e.Initialize(sampleRecords())

	assert.Equal(t, Loaded, e.State())
	assert.True(t, e.Loaded())
	assert.Equal(t, 3, e.Len())
	assert.False(t, e.QueryPerformed())
	assert.Equal(t, []string{"ICMS", "IPTU"}, e.Options()[core.Assuntos])
	assert.Nil(t, e.FilteredData())
	assert.Nil(t, e.DisplayedFilters())
	assert.Equal(t, 0.0, e.Total())
	assert.Equal(t, "0", e.FilteredCount())
}

func TestEngineInitializeEmptyDataset(t *testing.T) {
	e := NewEngine()
	e.Initialize(nil)
	e.Initialize([]core.Record{})

	assert.Equal(t, Unloaded, e.State())
	for _, d := range core.Dimensions() {
		assert.Empty(t, e.Options()[d])
	}

	e.SetSelection(core.Tribunal, []string{"TJ-SP"})
	e.ApplyFilters()
	assert.False(t, e.QueryPerformed())
	assert.Equal(t, Unloaded, e.State())
}

func TestEngineInitializeOnce(t *testing.T) {
	e := NewEngine()
	e.Initialize(sampleRecords())
	e.Initialize([]core.Record{{Tribunal: "TRF-1"}})

	assert.Equal(t, 3, e.Len())
	assert.Equal(t, []string{"TJ-RJ", "TJ-SP"}, e.Options()[core.Tribunal])
}

func TestEngineApplyWithInfiniteAmount(t *testing.T) {
	e := NewEngine()
	e.Initialize([]core.Record{{Tribunal: "A", Total: math.Inf(1)}, {Tribunal: "A", Total: 12}})

	require.NotPanics(t, e.ApplyFilters)
	assert.Equal(t, Filtered, e.State())
	assert.Equal(t, 12.0, e.Total())
	assert.Equal(t, "2", e.FilteredCount())
}

func TestEngineFilterBySingleTribunal(t *testing.T) {
	e := NewEngine()
	e.Initialize(sampleRecords())

	e.SetSelection(core.Tribunal, []string{"TJ-SP"})
	e.ApplyFilters()

	require.Equal(t, Filtered, e.State())
	assert.True(t, e.QueryPerformed())
	assert.Equal(t, 130.0, e.Total())
	assert.Equal(t, "2", e.FilteredCount())
	assert.Len(t, e.FilteredData(), 2)

	opts := e.Options()
	assert.Equal(t, []string{"2020", "2021"}, opts[core.Ano])
	assert.Equal(t, []string{"TJ-SP"}, opts[core.Tribunal])

	shown := e.DisplayedFilters()
	assert.Equal(t, "TJ-SP", shown[core.Tribunal])
	assert.Equal(t, "Todos", shown[core.Ano])
}

func TestEngineNoMatch(t *testing.T) {
	e := NewEngine()
	e.Initialize(sampleRecords())

	e.SetSelection(core.Tribunal, []string{"TJ-SP"})
	e.SetSelection(core.Ano, []string{"1999"})
	e.ApplyFilters()

	assert.True(t, e.QueryPerformed())
	assert.Empty(t, e.FilteredData())
	assert.Equal(t, 0.0, e.Total())
	assert.Equal(t, "0", e.FilteredCount())
	for _, d := range core.Dimensions() {
		assert.Empty(t, e.Options()[d], d.String())
	}
	assert.Equal(t, "1999", e.DisplayedFilters()[core.Ano])
}

func TestEngineEmptySelectionIsIdentity(t *testing.T) {
	records := sampleRecords()
	e := NewEngine()
	e.Initialize(records)

	e.ApplyFilters()

	assert.Equal(t, records, e.FilteredData())
	assert.Equal(t, 180.0, e.Total())
	assert.Equal(t, "3", e.FilteredCount())
	for _, d := range core.Dimensions() {
		assert.Equal(t, "Todos", e.DisplayedFilters()[d])
	}
}

func TestEnginePendingIsNotAppliedUntilCommit(t *testing.T) {
	e := NewEngine()
	e.Initialize(sampleRecords())
	e.ApplyFilters()

	e.SetSelection(core.Tribunal, []string{"TJ-RJ"})

	assert.Len(t, e.FilteredData(), 3)
	assert.Equal(t, "Todos", e.DisplayedFilters()[core.Tribunal])
	assert.Equal(t, []string{"TJ-RJ"}, e.Pending()[core.Tribunal])

	e.ApplyFilters()
	assert.Len(t, e.FilteredData(), 1)
	assert.Equal(t, "TJ-RJ", e.DisplayedFilters()[core.Tribunal])
}

func TestEngineApplyIsIdempotent(t *testing.T) {
	e := NewEngine()
	e.Initialize(sampleRecords())
	e.SetSelection(core.Assuntos, []string{"IPTU"})

	e.ApplyFilters()
	first, ok := e.Snapshot()
	require.True(t, ok)

	e.ApplyFilters()
	second, ok := e.Snapshot()
	require.True(t, ok)

	assert.Equal(t, first, second)
}

func TestEngineQueryPerformedStaysTrue(t *testing.T) {
	e := NewEngine()
	e.Initialize(sampleRecords())
	e.SetSelection(core.Tribunal, []string{"TJ-SP"})
	e.ApplyFilters()

	e.SetSelection(core.Tribunal, nil)
	e.ApplyFilters()

	assert.True(t, e.QueryPerformed())
	assert.Equal(t, Filtered, e.State())
	assert.Len(t, e.FilteredData(), 3)
}

func TestEngineSelectionOrderAndDuplicates(t *testing.T) {
	e := NewEngine()
	e.Initialize(sampleRecords())

	e.SetSelection(core.Comarca, []string{"Santos", "Campinas", "Santos"})
	e.ApplyFilters()

	assert.Equal(t, []string{"Santos", "Campinas"}, e.Pending()[core.Comarca])
	assert.Equal(t, "Santos, Campinas", e.DisplayedFilters()[core.Comarca])
	assert.Len(t, e.FilteredData(), 2)
}

func TestEngineIgnoresUnknownDimension(t *testing.T) {
	e := NewEngine()
	e.Initialize(sampleRecords())

	e.SetSelection(core.Dimension("Natureza"), []string{"x"})
	e.ApplyFilters()

	assert.Len(t, e.FilteredData(), 3)
	assert.NotContains(t, e.Pending(), core.Dimension("Natureza"))
}

func TestEngineOrdering(t *testing.T) {
	records := []core.Record{
		{Comarca: "Zebra", Tribunal: "T"},
		{Comarca: "árvore", Tribunal: "T"},
		{Comarca: "Abacate", Tribunal: "T"},
	}

	e := NewEngine()
	e.Initialize(records)
	assert.Equal(t, []string{"Abacate", "árvore", "Zebra"}, e.Options()[core.Comarca])

	e.ApplyFilters()
	assert.Equal(t, []string{"Abacate", "Zebra", "árvore"}, e.Options()[core.Comarca])

	collated := NewEngine(WithPostFilterOrder(NewCollationOrder(core.Locale)))
	collated.Initialize(records)
	collated.ApplyFilters()
	assert.Equal(t, []string{"Abacate", "árvore", "Zebra"}, collated.Options()[core.Comarca])
}

func TestEngineDisplayOptions(t *testing.T) {
	e := NewEngine(WithPlaceholder("All"), WithSeparator(" | "))
	e.Initialize(sampleRecords())
	e.SetSelection(core.Comarca, []string{"Santos", "Rio"})
	e.ApplyFilters()

	shown := e.DisplayedFilters()
	assert.Equal(t, "Santos | Rio", shown[core.Comarca])
	assert.Equal(t, "All", shown[core.Tribunal])
}

func TestEngineReadModelsAreCopies(t *testing.T) {
	e := NewEngine()
	e.Initialize(sampleRecords())
	e.ApplyFilters()

	e.Options()[core.Tribunal][0] = "mutated"
	e.FilteredData()[0].Tribunal = "mutated"
	e.Pending()[core.Ano] = []string{"2020"}

	assert.Equal(t, []string{"TJ-RJ", "TJ-SP"}, e.Options()[core.Tribunal])
	assert.Equal(t, "TJ-SP", e.FilteredData()[0].Tribunal)
	assert.Empty(t, e.Pending()[core.Ano])
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unloaded", Unloaded.String())
	assert.Equal(t, "loaded", Loaded.String())
	assert.Equal(t, "filtered", Filtered.String())
}
