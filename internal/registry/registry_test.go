package registry

import (
	"strings"
	"testing"

	"github.com/vovakirdan/fleetcrawl/internal/combat"
	"github.com/vovakirdan/fleetcrawl/internal/scenario"
)

func testScenario(id string) Factory {
	return func() scenario.Scenario {
		a := scenario.NewShip("a")
		b := scenario.NewShip("b")
		b.Hull = []combat.HullSegment{{ID: "h", Current: 10, Max: 10, Active: true, Mass: 1, Resistances: combat.IdentityResistances()}}
		return scenario.Scenario{
			ID:    id,
			Title: strings.ToUpper(id),
			Ticks: 3,
			Ships: []scenario.Ship{a, b},
			Shots: []scenario.Shot{{Tick: 1, From: "a", To: "b", Weapon: scenario.NewWeapon(combat.DamageKinetic, 5)}},
		}
	}
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestRegisterAndCreate(t *testing.T) {
	Register("test-alpha", testScenario("test-alpha"))
	Register("test-beta", testScenario("test-beta"))

	if !Exists("test-alpha") || !Exists("test-beta") {
		t.Fatal("registered scenarios not found")
	}
	if Exists("test-missing") {
		t.Error("unexpected scenario")
	}

	s, err := Create("test-alpha")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.ID != "test-alpha" || len(s.Ships) != 2 {
		t.Errorf("created %+v", s)
	}

	// Each Create returns independent buffers.
	s.Ships[1].Hull[0].Current = 0
	again, _ := Create("test-alpha")
	if again.Ships[1].Hull[0].Current != 10 {
		t.Error("created scenarios share hull buffers")
	}

	if _, err := Create("test-missing"); err == nil {
		t.Error("expected error for unknown scenario")
	}
}

func TestListSorted(t *testing.T) {
	Register("test-zulu", testScenario("test-zulu"))
	Register("test-echo", testScenario("test-echo"))

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("list not sorted: %s >= %s", list[i-1].ID, list[i].ID)
		}
	}

	found := false
	for _, info := range list {
		if info.ID == "test-echo" {
			found = true
			if info.Title != "TEST-ECHO" || info.Ticks != 3 || info.Ships != 2 {
				t.Errorf("info = %+v", info)
			}
		}
	}
	if !found {
		t.Error("test-echo not listed")
	}
}

func TestRegisterPanics(t *testing.T) {
	Register("test-dup", testScenario("test-dup"))

	expectPanic(t, "duplicate", func() { Register("test-dup", testScenario("test-dup")) })
	expectPanic(t, "id mismatch", func() { Register("test-mismatch", testScenario("other")) })
	expectPanic(t, "invalid", func() {
		Register("test-invalid", func() scenario.Scenario { return scenario.Scenario{ID: "test-invalid"} })
	})

	if Exists("test-mismatch") || Exists("test-invalid") {
		t.Error("rejected scenarios should not be registered")
	}
}
