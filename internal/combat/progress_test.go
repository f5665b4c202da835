package combat

import (
	"testing"

	"spireward/internal/component"
	"spireward/internal/ecs"
	"spireward/internal/message"
)

func TestRequiredXP(t *testing.T) {
	cases := map[int]int{1: 100, 2: 250, 3: 400, 5: 700}
	for level, want := range cases {
		if got := RequiredXP(level); got != want {
			t.Errorf("RequiredXP(%d) = %d, want %d", level, got, want)
		}
	}
}

func TestLevelUpCONChoice(t *testing.T) {
	w := ecs.NewWorld()
	log := message.NewLog(10)
	id := newCombatant(w, component.Actor{Name: "p", Level: 1, XP: 120, CON: 5}, 20)
	hp := w.Get(id, component.CHealth).(component.Health)
	hp.Current = 12
	w.Add(id, hp)

	if !CanLevelUp(w, id) {
		t.Fatal("120 XP at level 1 should allow level-up")
	}
	LevelUp(w, log, id, ChooseCON)

	actor := w.Get(id, component.CActor).(component.Actor)
	if actor.Level != 2 || actor.XP != 20 || actor.CON != 6 {
		t.Fatalf("after level-up: level=%d xp=%d con=%d", actor.Level, actor.XP, actor.CON)
	}
	hp = w.Get(id, component.CHealth).(component.Health)
	if hp.Max != 25 || hp.Current != 17 {
		t.Fatalf("after CON level-up: hp=%d/%d, want 17/25", hp.Current, hp.Max)
	}
	if CanLevelUp(w, id) {
		t.Fatal("20 XP at level 2 should not allow another level-up")
	}
}

func TestLevelUpStatChoices(t *testing.T) {
	for choice, check := range map[StatChoice]func(component.Actor) bool{
		ChooseSTR: func(a component.Actor) bool { return a.STR == 6 },
		ChooseDEX: func(a component.Actor) bool { return a.DEX == 6 },
	} {
		w := ecs.NewWorld()
		log := message.NewLog(10)
		id := newCombatant(w, component.Actor{Name: "p", Level: 1, XP: 100, STR: 5, DEX: 5}, 20)
		LevelUp(w, log, id, choice)
		if !check(w.Get(id, component.CActor).(component.Actor)) {
			t.Errorf("choice %d did not raise its stat", choice)
		}
	}
}
