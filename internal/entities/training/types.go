// Package training holds the data model for stat-training plans: the
// attribute list, ordered tiers of weekly actions and a character's
// starting profile.
package training

const (
	// MaxAttributeValue is the cap every attribute must reach
	MaxAttributeValue = 999

	// MinAttributeValue is the lowest legal attribute value
	MinAttributeValue = 0
)

// Attribute names a character stat such as "Life" or "Power"
type Attribute string

// String returns the attribute name
func (a Attribute) String() string {
	return string(a)
}

// Action is one weekly training option within a tier
type Action struct {
	// Tier the action belongs to
	Tier string

	// Week is the zero-based row position within the tier's source
	Week int

	// Gains holds one non-negative delta per catalogue attribute, in order
	Gains []int
}

// Tier is one rank of training actions. Tiers are ordered; every tier
// except the last needs at least one session.
type Tier struct {
	Name    string
	Actions []Action
}

// Catalogue is the full set of tiers sharing one attribute list.
// It is never mutated after loading.
type Catalogue struct {
	Attributes []Attribute
	Tiers      []Tier
}

// TotalActions returns the number of actions across all tiers
func (c *Catalogue) TotalActions() int {
	total := 0
	for _, tier := range c.Tiers {
		total += len(tier.Actions)
	}
	return total
}

// Uniform reports whether every tier holds the same number of actions
func (c *Catalogue) Uniform() bool {
	for i := 1; i < len(c.Tiers); i++ {
		if len(c.Tiers[i].Actions) != len(c.Tiers[0].Actions) {
			return false
		}
	}
	return true
}

// TierSizes returns the action count of each tier keyed by name
func (c *Catalogue) TierSizes() map[string]int {
	sizes := make(map[string]int, len(c.Tiers))
	for _, tier := range c.Tiers {
		sizes[tier.Name] = len(tier.Actions)
	}
	return sizes
}

// StartingProfile is a character's value for each attribute before training
type StartingProfile struct {
	Attributes []Attribute
	Values     []int
}

// Required returns how much the attribute at index i still has to gain
func (p *StartingProfile) Required(i int) int {
	return MaxAttributeValue - p.Values[i]
}

// Value returns the starting value of the named attribute
func (p *StartingProfile) Value(attr Attribute) (int, bool) {
	for i, a := range p.Attributes {
		if a == attr {
			return p.Values[i], true
		}
	}
	return 0, false
}

// Maxed reports whether every attribute already sits at the cap
func (p *StartingProfile) Maxed() bool {
	for _, v := range p.Values {
		if v < MaxAttributeValue {
			return false
		}
	}
	return true
}
