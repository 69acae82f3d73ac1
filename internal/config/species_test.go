package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

func TestDefaultSpeciesAreValid(t *testing.T) {
	table, err := NewSpeciesTable(DefaultSpecies())
	require.NoError(t, err)

	for _, name := range []string{"ampalaya", "patola", "upo", "kalabasa", "kundol"} {
		s, ok := table.Lookup(name)
		require.Truef(t, ok, "species %q missing", name)
		require.Equal(t, name, s.Name)
		require.Positivef(t, s.Detection.Male.Min, "species %q has no detection table", name)
	}
}

func TestSpeciesTableLookupNormalizesName(t *testing.T) {
	table, err := NewSpeciesTable(DefaultSpecies())
	require.NoError(t, err)

	_, ok := table.Lookup("  Ampalaya ")
	require.True(t, ok)

	_, ok = table.Lookup("tomato")
	require.False(t, ok)
}

func TestSpeciesTableReplaceRejectsInvalid(t *testing.T) {
	table, err := NewSpeciesTable(DefaultSpecies())
	require.NoError(t, err)

	tests := []struct {
		name    string
		species domain.Species
	}{
		{
			name:    "empty name",
			species: domain.Species{Timing: domain.DailyTiming{StartHour: 6, EndHour: 9}},
		},
		{
			name: "planted latest before earliest",
			species: domain.Species{
				Name:    "bad",
				Offsets: domain.SpeciesOffsets{PlantedEarliestDays: 10, PlantedLatestDays: 5},
				Timing:  domain.DailyTiming{StartHour: 6, EndHour: 9},
			},
		},
		{
			name: "female detection max before min",
			species: domain.Species{
				Name:      "bad",
				Timing:    domain.DailyTiming{StartHour: 6, EndHour: 9},
				Detection: domain.GenderDetection{Female: domain.DayRange{Min: 40, Max: 30}},
			},
		},
		{
			name: "start hour at midnight",
			species: domain.Species{
				Name:   "bad",
				Timing: domain.DailyTiming{StartHour: 0, EndHour: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := table.Replace([]domain.Species{tt.species})
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidSpecies))

			// previous table still in effect
			_, ok := table.Lookup("ampalaya")
			require.True(t, ok)
		})
	}
}

func TestLoadSpeciesTableFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "species.yaml")
	content := `species:
  - name: melon
    english_name: Melon
    tagalog_name: Milon
    offsets:
      planted_earliest_days: 20
      planted_latest_days: 25
      flowering_earliest_days: 0
      flowering_latest_days: 3
    timing:
      start_hour: 7
      end_hour: 10
    gender_detection:
      male: {min: 18, max: 22}
      female: {min: 21, max: 26}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table, err := LoadSpeciesTable(&SpeciesConfig{Path: path})
	require.NoError(t, err)

	s, ok := table.Lookup("melon")
	require.True(t, ok)
	require.Equal(t, 20, s.Offsets.PlantedEarliestDays)
	require.Equal(t, 3, s.Offsets.FloweringLatestDays)
	require.Equal(t, 7, s.Timing.StartHour)
	require.Equal(t, domain.DayRange{Min: 18, Max: 22}, s.Detection.Male)
	require.Equal(t, 26, s.Detection.Female.Max)

	_, ok = table.Lookup("ampalaya")
	require.False(t, ok, "file replaces the built-in table")
}

func TestLoadSpeciesTableMissingFile(t *testing.T) {
	_, err := LoadSpeciesTable(&SpeciesConfig{Path: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}
