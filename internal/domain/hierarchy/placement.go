// Package hierarchy computes role positions for the guild role ladder.
package hierarchy

import (
	"discord-guild-economy/internal/domain"
)

// DefaultAdminBlock is the number of reserved administrative roles at the
// top of the ladder, including the separator that precedes them.
const DefaultAdminBlock = 14

// PlacePurchasedRole computes target positions for every role when a freshly
// created role must land immediately below the administrative block.
//
// ordered is the full role list from a single guild snapshot, lowest
// privilege first: index 0 is the bottom reserved marker (@everyone) and
// index 1 is the new role, which the platform appends at the bottom on
// creation. Both are skipped while renumbering; roles below the admin block
// shift down by two and the admin block shifts up by one, opening the slot
// the new role takes.
//
// The result maps role ID to position and must be submitted as one bulk
// reposition call: repositioning roles one at a time lets the platform's
// cache reorder everything underneath you.
func PlacePurchasedRole(ordered []string, adminBlock int) (map[string]int, error) {
	if adminBlock <= 0 {
		adminBlock = DefaultAdminBlock
	}
	n := len(ordered)
	if n < adminBlock+2 {
		return nil, domain.ErrInvalidArgument
	}

	positions := make(map[string]int, n-1)
	for i, id := range ordered {
		switch {
		case i <= 1:
			continue
		case i < n-adminBlock:
			positions[id] = i - 2
		default:
			positions[id] = i - 1
		}
	}
	positions[ordered[1]] = n - adminBlock - 2
	return positions, nil
}
