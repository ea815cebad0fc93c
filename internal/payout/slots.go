package payout

import (
	"fmt"
	"sort"
	"strings"
)

// Committee is the part of a committee the allocator reads.
//
// PayoutSlots is the legacy slot registry. Payout holdings are the source of
// truth for occupancy; PayoutSlots only feeds the NextAvailableSlot fallback.
type Committee struct {
	Duration    int
	PayoutSlots []SlotAssignment
}

// SlotAssignment is a legacy registry entry
type SlotAssignment struct {
	UserID      string
	SlotNumber  int
	IsConfirmed bool
}

// Holding is one existing payout: who holds which slot. SlotNumber 0 means
// the payout has no slot.
type Holding struct {
	UserID     string
	SlotNumber int
}

// SlotValidation is the result of ValidateSlots
type SlotValidation struct {
	IsValid        bool     `json:"isValid"`
	Conflicts      []string `json:"conflicts"`
	AvailableSlots []int    `json:"availableSlots"`
	OccupiedSlots  []int    `json:"occupiedSlots"`
}

// Availability is the result of IsSlotAvailable
type Availability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// PreferredSlot is the result of ValidatePreferredSlot
type PreferredSlot struct {
	Valid         bool   `json:"valid"`
	Reason        string `json:"reason,omitempty"`
	SuggestedSlot int    `json:"suggestedSlot,omitempty"`
}

// SlotSummary aggregates slot usage for progress displays
type SlotSummary struct {
	TotalSlots         int     `json:"totalSlots"`
	OccupiedSlots      int     `json:"occupiedSlots"`
	AvailableSlots     int     `json:"availableSlots"`
	PercentageOccupied float64 `json:"percentageOccupied"`
}

// ValidateSlots recomputes occupied and available slots and reports every
// slot held by more than one distinct user.
func ValidateSlots(c Committee, holdings []Holding) SlotValidation {
	result := SlotValidation{
		IsValid:        true,
		Conflicts:      []string{},
		AvailableSlots: []int{},
		OccupiedSlots:  []int{},
	}

	holders := make(map[int][]string)
	var order []int
	for _, h := range holdings {
		if h.SlotNumber == 0 {
			continue
		}
		users, seen := holders[h.SlotNumber]
		if !seen {
			order = append(order, h.SlotNumber)
		}
		if !containsString(users, h.UserID) {
			holders[h.SlotNumber] = append(users, h.UserID)
		}
	}

	result.OccupiedSlots = append(result.OccupiedSlots, order...)
	sort.Ints(result.OccupiedSlots)

	for _, slot := range order {
		users := holders[slot]
		if len(users) > 1 {
			result.IsValid = false
			result.Conflicts = append(result.Conflicts,
				fmt.Sprintf("Slot %d is assigned to multiple users: %s", slot, strings.Join(users, ", ")))
		}
	}

	for slot := 1; slot <= c.Duration; slot++ {
		if _, taken := holders[slot]; !taken {
			result.AvailableSlots = append(result.AvailableSlots, slot)
		}
	}

	return result
}

// IsSlotAvailable reports whether userID may take slot. A user may keep the
// slot their own payout already holds; an empty userID matches nobody.
func IsSlotAvailable(c Committee, holdings []Holding, slot int, userID string) Availability {
	if slot < 1 || slot > c.Duration {
		return Availability{Reason: fmt.Sprintf("Slot must be between 1 and %d", c.Duration)}
	}

	for _, h := range holdings {
		if h.SlotNumber != slot {
			continue
		}
		if userID != "" && h.UserID == userID {
			return Availability{Available: true}
		}
		return Availability{Reason: fmt.Sprintf("Slot %d is already assigned to another user", slot)}
	}

	return Availability{Available: true}
}

// NextAvailableSlot returns the lowest free slot. When the committee is fully
// allocated it returns len(c.PayoutSlots)+1, which is outside [1, Duration];
// callers must range-check the result.
func NextAvailableSlot(c Committee, holdings []Holding) int {
	v := ValidateSlots(c, holdings)
	if len(v.AvailableSlots) > 0 {
		return v.AvailableSlots[0]
	}
	return len(c.PayoutSlots) + 1
}

// ValidatePreferredSlot checks a requested slot and, when it cannot be had,
// suggests the next available one. It never reassigns anything.
func ValidatePreferredSlot(c Committee, holdings []Holding, slot int, userID string) PreferredSlot {
	check := IsSlotAvailable(c, holdings, slot, userID)
	if check.Available {
		return PreferredSlot{Valid: true}
	}
	return PreferredSlot{
		Reason:        check.Reason,
		SuggestedSlot: NextAvailableSlot(c, holdings),
	}
}

// Summary aggregates ValidateSlots for display
func Summary(c Committee, holdings []Holding) SlotSummary {
	v := ValidateSlots(c, holdings)
	summary := SlotSummary{
		TotalSlots:     c.Duration,
		OccupiedSlots:  len(v.OccupiedSlots),
		AvailableSlots: len(v.AvailableSlots),
	}
	if c.Duration > 0 {
		summary.PercentageOccupied = float64(summary.OccupiedSlots) / float64(c.Duration) * 100
	}
	return summary
}

// InRange reports whether slot is a real slot of the committee
func (c Committee) InRange(slot int) bool {
	return slot >= 1 && slot <= c.Duration
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
