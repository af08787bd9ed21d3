// Package catalogue loads training tiers and starting profiles from tabular
// sources and validates their shape.
package catalogue

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-trainer/internal/clients/tabular"
	"github.com/KirkDiggler/rpg-trainer/internal/entities/training"
	"github.com/KirkDiggler/rpg-trainer/internal/errors"
)

// TierSource pairs a tier name with the table of its weekly actions
type TierSource struct {
	Name   string
	Source tabular.Source
}

// LoadProfile reads the starting profile. Its header declares the canonical
// attribute list every tier must match; it must hold exactly one data row.
func LoadProfile(ctx context.Context, src tabular.Source) (*training.StartingProfile, error) {
	if src == nil {
		return nil, errors.InvalidArgument("profile source is required")
	}

	table, err := src.Read(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read profile %s", src.Name())
	}

	if len(table.Columns) == 0 {
		return nil, errors.SchemaMismatchf("profile %s declares no attributes", src.Name()).
			WithMeta("source", src.Name())
	}
	if len(table.Rows) != 1 {
		return nil, errors.InvalidArgumentf("profile %s must hold exactly one row, found %d", src.Name(), len(table.Rows)).
			WithMeta("source", src.Name())
	}

	attributes := make([]training.Attribute, len(table.Columns))
	seen := make(map[string]bool, len(table.Columns))
	for i, col := range table.Columns {
		if col == "" {
			return nil, errors.SchemaMismatchf("profile %s has an unnamed column at position %d", src.Name(), i).
				WithMeta("source", src.Name())
		}
		if seen[col] {
			return nil, errors.SchemaMismatchf("profile %s repeats attribute %s", src.Name(), col).
				WithMeta("source", src.Name()).
				WithMeta("attribute", col)
		}
		seen[col] = true
		attributes[i] = training.Attribute(col)
	}

	values := table.Rows[0]
	for i, v := range values {
		if v < training.MinAttributeValue || v > training.MaxAttributeValue {
			return nil, errors.OutOfRangef("starting %s is %d, must be between %d and %d",
				attributes[i], v, training.MinAttributeValue, training.MaxAttributeValue).
				WithMeta("attribute", string(attributes[i])).
				WithMeta("value", v)
		}
	}

	profile := &training.StartingProfile{
		Attributes: attributes,
		Values:     append([]int(nil), values...),
	}

	if profile.Maxed() {
		slog.Info("Starting profile is already at the cap",
			"source", src.Name(),
			"max", training.MaxAttributeValue,
		)
	}

	return profile, nil
}

// Load reads every tier in order and checks each against the canonical
// attribute list. Tiers may differ in size; that check belongs to the
// model builder.
func Load(ctx context.Context, attributes []training.Attribute, tiers []TierSource) (*training.Catalogue, error) {
	if len(attributes) == 0 {
		return nil, errors.InvalidArgument("at least one attribute is required")
	}
	if len(tiers) == 0 {
		return nil, errors.InvalidArgument("at least one tier is required")
	}

	seen := make(map[string]bool, len(tiers))
	for i, tier := range tiers {
		if tier.Name == "" {
			return nil, errors.InvalidArgumentf("tier %d has no name", i)
		}
		if seen[tier.Name] {
			return nil, errors.InvalidArgumentf("tier %s is listed twice", tier.Name).WithMeta("tier", tier.Name)
		}
		if tier.Source == nil {
			return nil, errors.InvalidArgumentf("tier %s has no source", tier.Name).WithMeta("tier", tier.Name)
		}
		seen[tier.Name] = true
	}

	cat := &training.Catalogue{
		Attributes: append([]training.Attribute(nil), attributes...),
		Tiers:      make([]training.Tier, 0, len(tiers)),
	}

	for _, ts := range tiers {
		tier, err := loadTier(ctx, attributes, ts)
		if err != nil {
			return nil, err
		}
		cat.Tiers = append(cat.Tiers, *tier)
	}

	slog.Debug("Catalogue loaded",
		"tiers", len(cat.Tiers),
		"actions", cat.TotalActions(),
		"attributes", len(cat.Attributes),
	)

	return cat, nil
}

func loadTier(ctx context.Context, attributes []training.Attribute, ts TierSource) (*training.Tier, error) {
	table, err := ts.Source.Read(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read tier %s", ts.Name)
	}

	if !columnsMatch(attributes, table.Columns) {
		return nil, errors.SchemaMismatchf("tier %s columns do not match the starting profile", ts.Name).
			WithMeta("tier", ts.Name).
			WithMeta("source", ts.Source.Name()).
			WithMeta("expected", attributeNames(attributes)).
			WithMeta("actual", table.Columns)
	}

	if len(table.Rows) == 0 {
		return nil, errors.EmptyTierf("tier %s has no actions", ts.Name).
			WithMeta("tier", ts.Name).
			WithMeta("source", ts.Source.Name())
	}

	tier := &training.Tier{
		Name:    ts.Name,
		Actions: make([]training.Action, len(table.Rows)),
	}
	for week, row := range table.Rows {
		for i, gain := range row {
			if gain < 0 {
				return nil, errors.InvalidArgumentf("tier %s week %d has negative %s gain %d",
					ts.Name, week, attributes[i], gain).
					WithMeta("tier", ts.Name).
					WithMeta("week", week).
					WithMeta("attribute", string(attributes[i]))
			}
		}
		tier.Actions[week] = training.Action{
			Tier:  ts.Name,
			Week:  week,
			Gains: append([]int(nil), row...),
		}
	}

	return tier, nil
}

func columnsMatch(attributes []training.Attribute, columns []string) bool {
	if len(attributes) != len(columns) {
		return false
	}
	for i, attr := range attributes {
		if string(attr) != columns[i] {
			return false
		}
	}
	return true
}

func attributeNames(attributes []training.Attribute) []string {
	names := make([]string, len(attributes))
	for i, a := range attributes {
		names[i] = string(a)
	}
	return names
}
