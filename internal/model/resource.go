package model

// Stage is the lifecycle maturity label of a resource
type Stage string

const (
	StageResearch   Stage = "Research"
	StageEarly      Stage = "Early"
	StageGrowth     Stage = "Growth"
	StageEnterprise Stage = "Enterprise"
)

// StageOrder is the maturity ranking used by the maturity sort
var StageOrder = []Stage{StageResearch, StageEarly, StageGrowth, StageEnterprise}

// Rank returns the position of the stage in StageOrder. Unknown stages rank
// after every known stage.
func (s Stage) Rank() int {
	for i, st := range StageOrder {
		if st == s {
			return i
		}
	}
	return len(StageOrder)
}

// Valid reports whether the stage is one of the known stages
func (s Stage) Valid() bool {
	return s.Rank() < len(StageOrder)
}

// Metrics holds the optional usage numbers shown on a resource card
type Metrics struct {
	Users    *int64   `json:"users,omitempty" yaml:"users,omitempty" validate:"omitempty,min=0"`
	Rating   *float64 `json:"rating,omitempty" yaml:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	Launches *int64   `json:"launches,omitempty" yaml:"launches,omitempty" validate:"omitempty,min=0"`
}

// Resource is a single builder entry in the atlas
type Resource struct {
	ID         string   `json:"id" yaml:"id" validate:"required"`
	Name       string   `json:"name" yaml:"name" validate:"required"`
	Summary    string   `json:"summary" yaml:"summary"`
	Highlight  string   `json:"highlight" yaml:"highlight"`
	URL        string   `json:"url" yaml:"url" validate:"omitempty,url"`
	Region     string   `json:"region" yaml:"region"`
	CategoryID string   `json:"categoryId" yaml:"categoryId"`
	Stage      Stage    `json:"stage" yaml:"stage" validate:"required,oneof=Research Early Growth Enterprise"`
	Tags       []string `json:"tags" yaml:"tags"`
	Metrics    *Metrics `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// HasTag reports whether the resource carries the given tag
func (r *Resource) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
