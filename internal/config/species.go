package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	yaml "go.yaml.in/yaml/v3"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

const speciesConfigPathEnv = "SPECIES_CONFIG_PATH"

type SpeciesConfig struct {
	Path string
}

func LoadSpeciesConfig() *SpeciesConfig {
	return &SpeciesConfig{
		Path: os.Getenv(speciesConfigPathEnv),
	}
}

// DefaultSpecies returns the built-in crop table. Planted offsets are the
// documented days-after-sowing range for hand pollination; flowering offsets
// cover the receptive period of an opened female flower. Detection ranges are
// the days after sowing when male and female flowers first appear.
func DefaultSpecies() []domain.Species {
	return []domain.Species{
		{
			Name: "ampalaya", EnglishName: "Bitter Gourd", TagalogName: "Ampalaya",
			Offsets:   domain.SpeciesOffsets{PlantedEarliestDays: 40, PlantedLatestDays: 50, FloweringEarliestDays: 0, FloweringLatestDays: 2},
			Timing:    domain.DailyTiming{StartHour: 6, EndHour: 9},
			Detection: domain.GenderDetection{Male: domain.DayRange{Min: 30, Max: 35}, Female: domain.DayRange{Min: 38, Max: 45}},
		},
		{
			Name: "patola", EnglishName: "Sponge Gourd", TagalogName: "Patola",
			Offsets:   domain.SpeciesOffsets{PlantedEarliestDays: 45, PlantedLatestDays: 55, FloweringEarliestDays: 0, FloweringLatestDays: 2},
			Timing:    domain.DailyTiming{StartHour: 17, EndHour: 20},
			Detection: domain.GenderDetection{Male: domain.DayRange{Min: 35, Max: 40}, Female: domain.DayRange{Min: 40, Max: 45}},
		},
		{
			Name: "upo", EnglishName: "Bottle Gourd", TagalogName: "Upo",
			Offsets:   domain.SpeciesOffsets{PlantedEarliestDays: 50, PlantedLatestDays: 60, FloweringEarliestDays: 0, FloweringLatestDays: 2},
			Timing:    domain.DailyTiming{StartHour: 17, EndHour: 20},
			Detection: domain.GenderDetection{Male: domain.DayRange{Min: 40, Max: 45}, Female: domain.DayRange{Min: 45, Max: 55}},
		},
		{
			Name: "kalabasa", EnglishName: "Squash", TagalogName: "Kalabasa",
			Offsets:   domain.SpeciesOffsets{PlantedEarliestDays: 30, PlantedLatestDays: 40, FloweringEarliestDays: 0, FloweringLatestDays: 1},
			Timing:    domain.DailyTiming{StartHour: 6, EndHour: 9},
			Detection: domain.GenderDetection{Male: domain.DayRange{Min: 25, Max: 30}, Female: domain.DayRange{Min: 30, Max: 35}},
		},
		{
			Name: "kundol", EnglishName: "Winter Melon", TagalogName: "Kundol",
			Offsets:   domain.SpeciesOffsets{PlantedEarliestDays: 55, PlantedLatestDays: 70, FloweringEarliestDays: 0, FloweringLatestDays: 2},
			Timing:    domain.DailyTiming{StartHour: 6, EndHour: 8},
			Detection: domain.GenderDetection{Male: domain.DayRange{Min: 45, Max: 55}, Female: domain.DayRange{Min: 55, Max: 65}},
		},
	}
}

type speciesFile struct {
	Species []domain.Species `yaml:"species"`
}

// SpeciesTable is a concurrency-safe species catalog that can be swapped at
// runtime when the backing file changes.
type SpeciesTable struct {
	mu      sync.RWMutex
	species map[string]domain.Species
}

func NewSpeciesTable(species []domain.Species) (*SpeciesTable, error) {
	t := &SpeciesTable{}
	if err := t.Replace(species); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *SpeciesTable) Lookup(name string) (domain.Species, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.species[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

func (t *SpeciesTable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.species))
	for name := range t.species {
		names = append(names, name)
	}
	return names
}

// Replace validates and installs a new table. On error the old table stays.
func (t *SpeciesTable) Replace(species []domain.Species) error {
	next := make(map[string]domain.Species, len(species))
	var errs []error
	for _, s := range species {
		if err := validateSpecies(s); err != nil {
			errs = append(errs, err)
			continue
		}
		next[strings.ToLower(s.Name)] = s
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSpecies, errors.Join(errs...))
	}

	t.mu.Lock()
	t.species = next
	t.mu.Unlock()
	return nil
}

// ParseSpeciesFile reads a YAML species table.
func ParseSpeciesFile(path string) ([]domain.Species, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read species file: %w", err)
	}

	var f speciesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to parse species file: %w", err)
	}
	if len(f.Species) == 0 {
		return nil, fmt.Errorf("%w: no species defined in %s", ErrInvalidSpecies, path)
	}
	return f.Species, nil
}

// LoadSpeciesTable returns the built-in table, overridden by the file at
// cfg.Path when one is configured.
func LoadSpeciesTable(cfg *SpeciesConfig) (*SpeciesTable, error) {
	species := DefaultSpecies()
	if cfg != nil && cfg.Path != "" {
		parsed, err := ParseSpeciesFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		species = parsed
	}
	return NewSpeciesTable(species)
}

func validateSpecies(s domain.Species) error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("species name is required")
	}
	o := s.Offsets
	if o.PlantedEarliestDays < 0 || o.PlantedLatestDays < o.PlantedEarliestDays {
		return fmt.Errorf("%s: planted offsets must satisfy 0 <= earliest <= latest", s.Name)
	}
	if o.FloweringEarliestDays < 0 || o.FloweringLatestDays < o.FloweringEarliestDays {
		return fmt.Errorf("%s: flowering offsets must satisfy 0 <= earliest <= latest", s.Name)
	}
	for label, r := range map[string]domain.DayRange{"male": s.Detection.Male, "female": s.Detection.Female} {
		if r.Min < 0 || r.Max < r.Min {
			return fmt.Errorf("%s: %s detection days must satisfy 0 <= min <= max", s.Name, label)
		}
	}
	tm := s.Timing
	if tm.StartHour < 1 || tm.StartHour > 23 || tm.EndHour < tm.StartHour || tm.EndHour > 23 {
		return fmt.Errorf("%s: timing hours must satisfy 1 <= start <= end <= 23", s.Name)
	}
	return nil
}
