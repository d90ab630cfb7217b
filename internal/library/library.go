// Package library loads flux configuration and sample definition fixtures
// from YAML files at startup.
package library

import (
	"context"
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/bateman/internal/domain/activation"
	"github.com/okian/bateman/internal/domain/nuclide"
)

// IrradiationEntry is one irradiation fixture. Timestamps are RFC3339
// strings; YAML decoding does not parse time.Time directly.
type IrradiationEntry struct {
	Location         string   `koanf:"location"`
	Start            string   `koanf:"start"`
	End              string   `koanf:"end"`
	PowerKW          float64  `koanf:"power_kw"`
	MeasuredDoseRate *float64 `koanf:"measured_dose_rate"`
}

// Event converts the entry to a domain irradiation.
func (e IrradiationEntry) Event() (activation.Irradiation, error) {
	var ev activation.Irradiation
	start, err := time.Parse(time.RFC3339, e.Start)
	if err != nil {
		return ev, fmt.Errorf("%w: start %q: %w", ErrBadEntry, e.Start, err)
	}
	end, err := time.Parse(time.RFC3339, e.End)
	if err != nil {
		return ev, fmt.Errorf("%w: end %q: %w", ErrBadEntry, e.End, err)
	}
	ev = activation.Irradiation{
		Location:         e.Location,
		Start:            start.UTC(),
		End:              end.UTC(),
		PowerKW:          e.PowerKW,
		MeasuredDoseRate: e.MeasuredDoseRate,
	}
	return ev, nil
}

// SampleDefinition is one sample fixture, optionally with a pre-recorded
// irradiation history.
type SampleDefinition struct {
	ID           string              `koanf:"id"`
	Name         string              `koanf:"name"`
	MassGrams    float64             `koanf:"mass_g"`
	Composition  nuclide.Composition `koanf:"composition"`
	Irradiations []IrradiationEntry  `koanf:"irradiations"`
}

// Events converts the fixture's irradiation entries to domain events.
func (s SampleDefinition) Events() ([]activation.Irradiation, error) {
	evs := make([]activation.Irradiation, 0, len(s.Irradiations))
	for _, e := range s.Irradiations {
		ev, err := e.Event()
		if err != nil {
			return nil, fmt.Errorf("sample %q: %w", s.Name, err)
		}
		evs = append(evs, ev)
	}
	return evs, nil
}

type fluxFile struct {
	FluxConfigurations []activation.FluxConfiguration `koanf:"flux_configurations"`
}

type sampleFile struct {
	Samples []SampleDefinition `koanf:"samples"`
}

// LoadFluxConfigurations reads a YAML flux library. Entries without a
// location are rejected.
func LoadFluxConfigurations(_ context.Context, path string) ([]activation.FluxConfiguration, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadLibrary, err)
	}
	var f fluxFile
	if err := k.UnmarshalWithConf("", &f, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadLibrary, err)
	}
	for i, fc := range f.FluxConfigurations {
		if fc.Location == "" {
			return nil, fmt.Errorf("%w: flux configuration %d has no location", ErrBadEntry, i)
		}
		if fc.ReferencePowerKW <= 0 {
			return nil, fmt.Errorf("%w: flux configuration %q has non-positive reference power", ErrBadEntry, fc.Location)
		}
	}
	return f.FluxConfigurations, nil
}

// LoadSamples reads a YAML sample library and validates each composition.
func LoadSamples(_ context.Context, path string) ([]SampleDefinition, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadLibrary, err)
	}
	var f sampleFile
	if err := k.UnmarshalWithConf("", &f, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadLibrary, err)
	}
	for _, s := range f.Samples {
		if s.MassGrams <= 0 {
			return nil, fmt.Errorf("%w: sample %q has non-positive mass", ErrBadEntry, s.Name)
		}
		if err := s.Composition.Validate(); err != nil {
			return nil, fmt.Errorf("%w: sample %q: %w", ErrBadEntry, s.Name, err)
		}
	}
	return f.Samples, nil
}
