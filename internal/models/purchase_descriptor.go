package models

import (
	"encoding/json"
	"fmt"
)

// DescriptorLine is one intended purchase line inside a checkout session's
// metadata: menu item ID, quantity, and the unit price in cents captured at
// session-creation time.
type DescriptorLine struct {
	MenuItemID uint
	Quantity   int
	PriceCents int64
}

// PurchaseDescriptor is the side-channel payload round-tripped through the
// payment gateway's metadata field. It is the only link between session
// creation and webhook reconciliation, so its encoding is kept as small as
// possible: a JSON array of [menu_item_id, quantity, unit_price_cents]
// triples.
type PurchaseDescriptor struct {
	Lines []DescriptorLine
}

// TotalCents returns the sum of quantity x unit price across all lines.
func (d PurchaseDescriptor) TotalCents() int64 {
	var total int64
	for _, l := range d.Lines {
		total += int64(l.Quantity) * l.PriceCents
	}
	return total
}

// MarshalJSON encodes each line as a bare [id, qty, cents] triple.
func (l DescriptorLine) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int64{int64(l.MenuItemID), int64(l.Quantity), l.PriceCents})
}

// UnmarshalJSON decodes a [id, qty, cents] triple, rejecting non-positive
// quantities so a corrupted payload cannot produce a zero-quantity order line.
func (l *DescriptorLine) UnmarshalJSON(data []byte) error {
	var tuple [3]int64
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("malformed descriptor line: %w", err)
	}
	if tuple[0] <= 0 || tuple[1] <= 0 || tuple[2] <= 0 {
		return fmt.Errorf("descriptor line values must be positive, got %v", tuple)
	}
	l.MenuItemID = uint(tuple[0])
	l.Quantity = int(tuple[1])
	l.PriceCents = tuple[2]
	return nil
}

// Encode serializes the descriptor for the gateway metadata field.
func (d PurchaseDescriptor) Encode() (string, error) {
	b, err := json.Marshal(d.Lines)
	if err != nil {
		return "", fmt.Errorf("failed to encode purchase descriptor: %w", err)
	}
	return string(b), nil
}

// DecodePurchaseDescriptor parses a descriptor previously produced by Encode.
// An empty line set is invalid: a completed session always describes at least
// one purchased item.
func DecodePurchaseDescriptor(s string) (PurchaseDescriptor, error) {
	var lines []DescriptorLine
	if err := json.Unmarshal([]byte(s), &lines); err != nil {
		return PurchaseDescriptor{}, fmt.Errorf("failed to decode purchase descriptor: %w", err)
	}
	if len(lines) == 0 {
		return PurchaseDescriptor{}, fmt.Errorf("purchase descriptor contains no lines")
	}
	return PurchaseDescriptor{Lines: lines}, nil
}
