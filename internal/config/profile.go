package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/balancedraw/internal/engine"
	"github.com/roach88/balancedraw/internal/plane"
)

//go:embed profile.cue
var profileSchema string

// ErrProfileNotFound is returned when a named profile does not exist.
var ErrProfileNotFound = errors.New("profile not found")

// File is a parsed profile file.
type File struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// Range is an inclusive id range.
type Range struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Grid is a rows x cols plane.
type Grid struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// Profile names one draw target and its tuning. Exactly one of Range, IDs
// and Grid is set. Unset tuning fields fall back to engine.DefaultConfig.
type Profile struct {
	Range *Range `yaml:"range,omitempty"`
	IDs   []int  `yaml:"ids,omitempty"`
	Grid  *Grid  `yaml:"grid,omitempty"`

	MinPoolSize     *int     `yaml:"min_pool_size,omitempty"`
	MaxGapThreshold *int     `yaml:"max_gap_threshold,omitempty"`
	ColdStartBoost  *float64 `yaml:"cold_start_boost,omitempty"`
	DecayFactor     *float64 `yaml:"decay_factor,omitempty"`
}

// Config returns the engine tuning with defaults applied.
func (p Profile) Config() engine.Config {
	cfg := engine.DefaultConfig()
	if p.MinPoolSize != nil {
		cfg.MinPoolSize = *p.MinPoolSize
	}
	if p.MaxGapThreshold != nil {
		cfg.MaxGapThreshold = *p.MaxGapThreshold
	}
	if p.ColdStartBoost != nil {
		cfg.ColdStartBoost = *p.ColdStartBoost
	}
	if p.DecayFactor != nil {
		cfg.DecayFactor = *p.DecayFactor
	}
	return cfg
}

// Validate checks that exactly one target is set.
func (p Profile) Validate() error {
	if n := p.targets(); n != 1 {
		return fmt.Errorf("exactly one of range, ids or grid is required, got %d", n)
	}
	return nil
}

// Build creates the engine described by p. Grid profiles also return the
// plane wrapping the engine; for other targets the plane is nil.
func (p Profile) Build(opts ...engine.Option) (*engine.Engine, *plane.Plane, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, engine.NewInvalidConfigurationError("invalid target", err)
	}

	cfg := p.Config()
	switch {
	case p.Grid != nil:
		pl, err := plane.New(p.Grid.Rows, p.Grid.Cols, cfg, opts...)
		if err != nil {
			return nil, nil, err
		}
		return pl.Engine(), pl, nil
	case p.Range != nil:
		e, err := engine.NewFromRange(p.Range.Start, p.Range.End, cfg, opts...)
		return e, nil, err
	default:
		e, err := engine.NewFromList(p.IDs, cfg, opts...)
		return e, nil, err
	}
}

func (p Profile) targets() int {
	n := 0
	if p.Range != nil {
		n++
	}
	if len(p.IDs) > 0 {
		n++
	}
	if p.Grid != nil {
		n++
	}
	return n
}

// LoadProfiles reads and validates a profile file.
func LoadProfiles(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	f, err := ParseProfiles(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseProfiles decodes YAML strictly, validates it against the embedded CUE
// schema and checks that every profile names exactly one target.
func ParseProfiles(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	for _, name := range f.Names() {
		if err := f.Profiles[name].Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
	}
	return &f, nil
}

func validateSchema(raw map[string]any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(profileSchema, cue.Filename("profile.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile profile schema: %w", err)
	}

	value := schema.LookupPath(cue.ParsePath("#File")).Unify(ctx.Encode(raw))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid profiles:\n%s", cueerrors.Details(err, nil))
	}
	return nil
}

// Names returns the profile names, sorted.
func (f *File) Names() []string {
	return slices.Sorted(maps.Keys(f.Profiles))
}

// Profile returns the named profile.
func (f *File) Profile(name string) (Profile, error) {
	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (have %v)", ErrProfileNotFound, name, f.Names())
	}
	return p, nil
}
