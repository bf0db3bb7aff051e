package tutorial

// Skeleton is the machine-authored structure of a tutorial. It carries ids
// and action metadata but no prose.
type Skeleton struct {
	ID      string          `yaml:"id" json:"id"`
	Version string          `yaml:"version" json:"version"`
	Config  TutorialConfig  `yaml:"config" json:"config"`
	Levels  []SkeletonLevel `yaml:"levels" json:"levels"`
}

// SkeletonLevel is the metadata for one level, keyed by ID.
type SkeletonLevel struct {
	ID       string         `yaml:"id" json:"id"`
	Setup    *Actions       `yaml:"setup,omitempty" json:"setup,omitempty"`
	Steps    []SkeletonStep `yaml:"steps,omitempty" json:"steps,omitempty"`
	Location Location       `yaml:"-" json:"-"`
}

// SkeletonStep is the metadata for one step, keyed by ID ("<level>.<step>").
type SkeletonStep struct {
	ID       string   `yaml:"id" json:"id"`
	Setup    *Actions `yaml:"setup,omitempty" json:"setup,omitempty"`
	Solution *Actions `yaml:"solution,omitempty" json:"solution,omitempty"`
	Location Location `yaml:"-" json:"-"`
}

// Level returns the skeleton level with the given id.
func (s *Skeleton) Level(id string) (*SkeletonLevel, bool) {
	for i := range s.Levels {
		if s.Levels[i].ID == id {
			return &s.Levels[i], true
		}
	}
	return nil, false
}

// Step returns the skeleton step with the given id.
func (l *SkeletonLevel) Step(id string) (*SkeletonStep, bool) {
	for i := range l.Steps {
		if l.Steps[i].ID == id {
			return &l.Steps[i], true
		}
	}
	return nil, false
}
