// Package actionindex assigns every (tier, week) action a dense integer id
// and serves constant-time gain lookups across the whole catalogue.
package actionindex

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-trainer/internal/entities/training"
	"github.com/KirkDiggler/rpg-trainer/internal/errors"
)

// EntityType is the core.Entity type reported by ActionRef
const EntityType = "training_action"

// ActionID is a dense id in [0, Index.Len())
type ActionID int

// ActionRef identifies an action by tier and week
type ActionRef struct {
	ID   ActionID `json:"id"`
	Tier string   `json:"tier"`
	Week int      `json:"week"`
}

// GetID returns "<tier>:<week>"
func (r ActionRef) GetID() string {
	return fmt.Sprintf("%s:%d", r.Tier, r.Week)
}

// GetType returns EntityType
func (r ActionRef) GetType() string {
	return EntityType
}

var _ core.Entity = ActionRef{}

type tierSpan struct {
	name  string
	first ActionID
	count int
}

// Index is immutable after Build and safe for concurrent readers
type Index struct {
	attributes []training.Attribute
	attrPos    map[training.Attribute]int
	tiers      []tierSpan
	tierPos    map[string]int
	refs       []ActionRef
	// gains is row-major: gains[id*len(attributes)+attr]
	gains    []int
	positive []bool
}

// Build indexes the catalogue: ids run through tiers in declared order and
// through each tier in source order.
func Build(cat *training.Catalogue) (*Index, error) {
	if cat == nil {
		return nil, errors.InvalidArgument("catalogue is required")
	}

	nAttr := len(cat.Attributes)
	total := cat.TotalActions()

	idx := &Index{
		attributes: append([]training.Attribute(nil), cat.Attributes...),
		attrPos:    make(map[training.Attribute]int, nAttr),
		tiers:      make([]tierSpan, 0, len(cat.Tiers)),
		tierPos:    make(map[string]int, len(cat.Tiers)),
		refs:       make([]ActionRef, 0, total),
		gains:      make([]int, 0, total*nAttr),
		positive:   make([]bool, nAttr),
	}
	for i, a := range cat.Attributes {
		idx.attrPos[a] = i
	}

	for t, tier := range cat.Tiers {
		span := tierSpan{name: tier.Name, first: ActionID(len(idx.refs)), count: len(tier.Actions)}
		for _, action := range tier.Actions {
			if len(action.Gains) != nAttr {
				return nil, errors.SchemaMismatchf("tier %s week %d has %d gains for %d attributes",
					tier.Name, action.Week, len(action.Gains), nAttr).
					WithMeta("tier", tier.Name).
					WithMeta("week", action.Week)
			}
			idx.refs = append(idx.refs, ActionRef{
				ID:   ActionID(len(idx.refs)),
				Tier: tier.Name,
				Week: action.Week,
			})
			for a, g := range action.Gains {
				if g > 0 {
					idx.positive[a] = true
				}
			}
			idx.gains = append(idx.gains, action.Gains...)
		}
		idx.tiers = append(idx.tiers, span)
		idx.tierPos[tier.Name] = t
	}

	return idx, nil
}

// Len returns the number of indexed actions
func (x *Index) Len() int {
	return len(x.refs)
}

// Attributes returns the attribute list in catalogue order
func (x *Index) Attributes() []training.Attribute {
	return append([]training.Attribute(nil), x.attributes...)
}

// AttributeIndex returns the position of attr in the attribute list
func (x *Index) AttributeIndex(attr training.Attribute) (int, bool) {
	i, ok := x.attrPos[attr]
	return i, ok
}

// Tiers returns tier names in declared order
func (x *Index) Tiers() []string {
	names := make([]string, len(x.tiers))
	for i, t := range x.tiers {
		names[i] = t.name
	}
	return names
}

// Action returns the reference for id. It panics on an id outside
// [0, Len()), like a slice index.
func (x *Index) Action(id ActionID) ActionRef {
	return x.refs[id]
}

// Gain returns the gain of action id for the attribute at position attr
func (x *Index) Gain(id ActionID, attr int) int {
	return x.gains[int(id)*len(x.attributes)+attr]
}

// Gains returns a copy of the full gain vector of action id
func (x *Index) Gains(id ActionID) []int {
	n := len(x.attributes)
	start := int(id) * n
	return append([]int(nil), x.gains[start:start+n]...)
}

// GainOf looks up a gain by attribute name
func (x *Index) GainOf(id ActionID, attr training.Attribute) (int, error) {
	pos, ok := x.attrPos[attr]
	if !ok {
		return 0, errors.NotFoundf("unknown attribute %s", attr).WithMeta("attribute", string(attr))
	}
	if id < 0 || int(id) >= len(x.refs) {
		return 0, errors.OutOfRangef("action id %d outside [0, %d)", id, len(x.refs))
	}
	return x.Gain(id, pos), nil
}

// ActionsInTier returns the ids of a tier's actions in source order
func (x *Index) ActionsInTier(tier string) ([]ActionID, error) {
	t, ok := x.tierPos[tier]
	if !ok {
		return nil, errors.NotFoundf("unknown tier %s", tier).WithMeta("tier", tier)
	}

	span := x.tiers[t]
	ids := make([]ActionID, span.count)
	for i := range ids {
		ids[i] = span.first + ActionID(i)
	}
	return ids, nil
}

// HasPositiveGain reports whether any action raises the attribute at
// position attr
func (x *Index) HasPositiveGain(attr int) bool {
	return x.positive[attr]
}
