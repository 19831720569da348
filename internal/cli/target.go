package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/balancedraw/internal/config"
)

// TargetOptions selects the engine a command works on, either inline or
// through a named profile.
type TargetOptions struct {
	Range string // "A:B"
	IDs   string // "1,2,3"
	Grid  string // "RxC"

	MinPool int
	MaxGap  int
	Boost   float64
	Decay   float64

	Profile     string
	ProfileName string
}

// addTargetFlags registers the target selection flags on cmd.
func addTargetFlags(cmd *cobra.Command, t *TargetOptions) {
	defaults := config.Profile{}.Config()

	cmd.Flags().StringVar(&t.Range, "range", "", "inclusive id range START:END")
	cmd.Flags().StringVar(&t.IDs, "ids", "", "comma-separated id list")
	cmd.Flags().StringVar(&t.Grid, "grid", "", "grid of ROWSxCOLS cells")
	cmd.Flags().IntVar(&t.MinPool, "min-pool", defaults.MinPoolSize, "minimum candidate pool size")
	cmd.Flags().IntVar(&t.MaxGap, "max-gap", defaults.MaxGapThreshold, "draw count gap that triggers outlier exclusion")
	cmd.Flags().Float64Var(&t.Boost, "boost", defaults.ColdStartBoost, "weight multiplier for never-drawn ids")
	cmd.Flags().Float64Var(&t.Decay, "decay", defaults.DecayFactor, "per-draw weight decay in (0, 1]")
	cmd.Flags().StringVar(&t.Profile, "profile", "", "YAML profile file")
	cmd.Flags().StringVar(&t.ProfileName, "profile-name", "", "profile to use from --profile")
}

// resolve builds the profile for the command. Tuning flags given explicitly
// override the profile's values.
func (t *TargetOptions) resolve(cmd *cobra.Command) (config.Profile, error) {
	inline := t.Range != "" || t.IDs != "" || t.Grid != ""

	var p config.Profile
	switch {
	case t.Profile != "":
		if inline {
			return p, errors.New("--profile cannot be combined with --range, --ids or --grid")
		}
		if t.ProfileName == "" {
			return p, errors.New("--profile-name is required with --profile")
		}
		file, err := config.LoadProfiles(t.Profile)
		if err != nil {
			return p, err
		}
		if p, err = file.Profile(t.ProfileName); err != nil {
			return p, err
		}
	case !inline:
		return p, errors.New("one of --range, --ids, --grid or --profile is required")
	default:
		var err error
		if p, err = t.inline(); err != nil {
			return p, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("min-pool") {
		p.MinPoolSize = &t.MinPool
	}
	if flags.Changed("max-gap") {
		p.MaxGapThreshold = &t.MaxGap
	}
	if flags.Changed("boost") {
		p.ColdStartBoost = &t.Boost
	}
	if flags.Changed("decay") {
		p.DecayFactor = &t.Decay
	}

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func (t *TargetOptions) inline() (config.Profile, error) {
	var p config.Profile
	if t.Range != "" {
		start, end, err := splitPair(t.Range, ":")
		if err != nil {
			return p, fmt.Errorf("--range: %w", err)
		}
		p.Range = &config.Range{Start: start, End: end}
	}
	if t.IDs != "" {
		ids, err := parseIDs(strings.Split(t.IDs, ","))
		if err != nil {
			return p, fmt.Errorf("--ids: %w", err)
		}
		p.IDs = ids
	}
	if t.Grid != "" {
		rows, cols, err := splitPair(strings.ToLower(t.Grid), "x")
		if err != nil {
			return p, fmt.Errorf("--grid: %w", err)
		}
		p.Grid = &config.Grid{Rows: rows, Cols: cols}
	}
	return p, nil
}

func splitPair(s, sep string) (int, int, error) {
	a, b, ok := strings.Cut(s, sep)
	if !ok {
		return 0, 0, fmt.Errorf("expected two integers separated by %q, got %q", sep, s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid integer %q", a)
	}
	y, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid integer %q", b)
	}
	return x, y, nil
}

// parseIDs parses decimal ids, ignoring empty entries.
func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		id, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
