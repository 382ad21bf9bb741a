package domain

import (
	"errors"
	"fmt"
)

var (
	ErrItemInactive      = errors.New("item is not available for sale")
	ErrUnknownGroup      = errors.New("selection references an unknown option group")
	ErrUnknownOption     = errors.New("selection references an unknown option")
	ErrOptionUnavailable = errors.New("selected option is unavailable")
	ErrSelectionTooFew   = errors.New("not enough options selected for group")
	ErrSelectionTooMany  = errors.New("too many options selected for group")
)

// ValidateSelection checks a selection against the item's option groups:
// every group's min/max select constraints must hold, every referenced option
// must exist, and manually disabled options are rejected.
func (i *Item) ValidateSelection(selection SelectionMap) error {
	if !i.Active {
		return ErrItemInactive
	}

	for groupID, optionIDs := range selection {
		group, ok := i.optionGroup(groupID)
		if !ok {
			return fmt.Errorf("group %d: %w", groupID, ErrUnknownGroup)
		}
		for _, optionID := range optionIDs {
			option, ok := group.option(optionID)
			if !ok {
				return fmt.Errorf("group %q, option %d: %w", group.Name, optionID, ErrUnknownOption)
			}
			if !option.Available {
				return fmt.Errorf("option %q: %w", option.Name, ErrOptionUnavailable)
			}
		}
	}

	for _, group := range i.OptionGroups {
		selected := len(selection[group.ID])
		if selected < group.MinSelect {
			return fmt.Errorf("group %q requires at least %d selection(s): %w", group.Name, group.MinSelect, ErrSelectionTooFew)
		}
		if group.MaxSelect > 0 && selected > group.MaxSelect {
			return fmt.Errorf("group %q allows at most %d selection(s): %w", group.Name, group.MaxSelect, ErrSelectionTooMany)
		}
	}

	return nil
}

// AvailableQuantity resolves the sellable quantity for a selection using the
// item's tracking mode.
//
// Resolution order: variant tracking looks up the exact variant by derived
// key, where a missing or inactive variant means zero; item tracking uses
// stock minus damaged floored at zero; option tracking takes the minimum
// ceiling across all selected options in tracked groups, where a disabled
// option means zero; no tracking reports UnlimitedQuantity.
func (i *Item) AvailableQuantity(selection SelectionMap) int {
	if !i.Active {
		return 0
	}

	switch i.TrackingMode {
	case TrackingVariant:
		variant, ok := i.Variant(selection.VariantKey())
		if !ok {
			return 0
		}
		return variant.AvailableStock()

	case TrackingItem:
		if n := i.Stock - i.Damaged; n > 0 {
			return n
		}
		return 0

	case TrackingOption:
		ceiling := UnlimitedQuantity
		for _, group := range i.OptionGroups {
			if !group.TracksInventory {
				continue
			}
			for _, optionID := range selection[group.ID] {
				option, ok := group.option(optionID)
				if !ok || !option.Available {
					return 0
				}
				if avail := option.AvailableStock(); avail < ceiling {
					ceiling = avail
				}
			}
		}
		return ceiling

	default:
		return UnlimitedQuantity
	}
}

// UnitPriceCents is the per-unit price of the item with the given selection:
// base price plus the additional price of every selected option.
func (i *Item) UnitPriceCents(selection SelectionMap) int64 {
	total := i.PriceCents
	for groupID, optionIDs := range selection {
		group, ok := i.optionGroup(groupID)
		if !ok {
			continue
		}
		for _, optionID := range optionIDs {
			if option, ok := group.option(optionID); ok {
				total += option.AdditionalPriceCents
			}
		}
	}
	return total
}

// SelectionNames builds the display-friendly representation of a selection,
// group name to option names, kept on cart lines alongside the ID map.
func (i *Item) SelectionNames(selection SelectionMap) map[string][]string {
	if len(selection) == 0 {
		return nil
	}
	names := make(map[string][]string, len(selection))
	for groupID, optionIDs := range selection {
		group, ok := i.optionGroup(groupID)
		if !ok {
			continue
		}
		for _, optionID := range optionIDs {
			if option, ok := group.option(optionID); ok {
				names[group.Name] = append(names[group.Name], option.Name)
			}
		}
	}
	return names
}
