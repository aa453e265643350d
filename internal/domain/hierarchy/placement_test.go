package hierarchy

import (
	"errors"
	"fmt"
	"testing"

	"discord-guild-economy/internal/domain"
)

func roleList(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("role-%d", i)
	}
	return ids
}

func TestPlacePurchasedRole_LiteralExample(t *testing.T) {
	// n=20 with a 14-role admin block: the new role (snapshot index 1) must
	// land at 20-14-2=4, indices 2..5 shift down by 2, 6..19 shift up by 1.
	ordered := roleList(20)
	positions, err := PlacePurchasedRole(ordered, 14)
	if err != nil {
		t.Fatalf("PlacePurchasedRole: %v", err)
	}

	if got := positions["role-1"]; got != 4 {
		t.Errorf("new role position = %d, want 4", got)
	}
	for i := 2; i <= 5; i++ {
		if got := positions[ordered[i]]; got != i-2 {
			t.Errorf("index %d position = %d, want %d", i, got, i-2)
		}
	}
	for i := 6; i <= 19; i++ {
		if got := positions[ordered[i]]; got != i-1 {
			t.Errorf("index %d position = %d, want %d", i, got, i-1)
		}
	}
	if _, ok := positions["role-0"]; ok {
		t.Error("bottom reserved marker must not be repositioned")
	}
}

func TestPlacePurchasedRole_NoPositionCollisions(t *testing.T) {
	positions, err := PlacePurchasedRole(roleList(30), 14)
	if err != nil {
		t.Fatalf("PlacePurchasedRole: %v", err)
	}
	seen := map[int]string{}
	for id, pos := range positions {
		if other, dup := seen[pos]; dup {
			t.Fatalf("position %d assigned to both %s and %s", pos, other, id)
		}
		seen[pos] = id
	}
}

func TestPlacePurchasedRole_TooFewRoles(t *testing.T) {
	_, err := PlacePurchasedRole(roleList(10), 14)
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestPlacePurchasedRole_DefaultAdminBlock(t *testing.T) {
	a, err := PlacePurchasedRole(roleList(20), 0)
	if err != nil {
		t.Fatalf("PlacePurchasedRole: %v", err)
	}
	b, _ := PlacePurchasedRole(roleList(20), DefaultAdminBlock)
	if a["role-1"] != b["role-1"] {
		t.Errorf("zero admin block should fall back to the default")
	}
}
