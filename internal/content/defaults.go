package content

import "spireward/internal/component"
import "spireward/internal/mapgen"

// DefaultCatalog is the compiled-in content every build ships with
// regardless of whether a YAML spawn-table file is present: a small
// bestiary and item set that touches every mechanic the engine has,
// not a full ten-floor content pack.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Actors: map[string]component.Actor{
			"player": {
				Name: "player", Graphic: "@",
				STR: 5, DEX: 5, CON: 5, MaxHP: 20,
				AttackDice: "1d6", Defense: 1,
				Energy: 0, Speed: 100, MoveSpeedCost: 100, AttackSpeedCost: 100,
				Level: 1, XP: 0,
				LootDropChance: 0,
			},
			"rat": {
				Name: "giant rat", Graphic: "r",
				STR: 2, DEX: 4, CON: 2, MaxHP: 4,
				AttackDice: "1d3", Defense: 0,
				Speed: 110, MoveSpeedCost: 100, AttackSpeedCost: 100,
				Level: 1, RewardXP: 5, LootDropChance: 0.1,
				AIBuilder: "hostile",
			},
			"goblin": {
				Name: "goblin", Graphic: "g",
				STR: 4, DEX: 3, CON: 3, MaxHP: 10,
				AttackDice: "1d6+1", Defense: 1,
				Speed: 100, MoveSpeedCost: 100, AttackSpeedCost: 100,
				Level: 2, RewardXP: 12, LootDropChance: 0.2,
				AIBuilder: "hostile",
				RacialTraits: []string{"lesser_poison"},
				Resistances:  map[component.DamageType]component.ResistanceLevel{component.DamagePoison: component.ResHigh},
			},
			"troll": {
				Name: "cave troll", Graphic: "T",
				STR: 8, DEX: 2, CON: 9, MaxHP: 16,
				AttackDice: "2d6+2", Defense: 3,
				Speed: 80, MoveSpeedCost: 120, AttackSpeedCost: 120,
				Level: 5, RewardXP: 60, LootDropChance: 0.4,
				AIBuilder:    "hostile",
				RacialTraits: []string{"lesser_regeneration"},
			},
			"spore_pod": {
				Name: "spore pod", Graphic: "s",
				STR: 1, DEX: 1, CON: 4, MaxHP: 8,
				AttackDice: "1d2", Defense: 0,
				Speed: 40, MoveSpeedCost: 100, AttackSpeedCost: 100,
				Level: 1, RewardXP: 3,
				AIBuilder: "spawner", SpawnTemplate: "rat", SpawnRate: 6,
			},
		},
		Items: map[string]component.Item{
			"healing_potion": {
				Name: "healing potion", Graphic: "!",
				Slot: component.SlotConsumable, MaxCount: 5, Count: 1,
				Apply: component.ApplyAction{Kind: component.ApplyPotion, HealDice: "2d4+2"},
				SpawnWeight: []component.SpawnWeightStep{{MinFloor: 0, Weight: 10}},
			},
			"scroll_of_confusion": {
				Name: "scroll of confusion", Graphic: "?",
				Slot: component.SlotConsumable, MaxCount: 3, Count: 1,
				Apply: component.ApplyAction{Kind: component.ApplyTargetScroll, EffectTemplate: "confuse", AreaKey: "single"},
				SpawnWeight: []component.SpawnWeightStep{{MinFloor: 0, Weight: 6}},
			},
			"scroll_of_fireball": {
				Name: "scroll of fireball", Graphic: "?",
				Slot: component.SlotConsumable, MaxCount: 3, Count: 1,
				Apply: component.ApplyAction{Kind: component.ApplyTargetScroll, AreaKey: "sphere:3", Damage: 12, DamageType: component.DamageFire},
				SpawnWeight: []component.SpawnWeightStep{{MinFloor: 2, Weight: 4}},
			},
			"scroll_of_lightning": {
				Name: "scroll of lightning", Graphic: "?",
				Slot: component.SlotConsumable, MaxCount: 3, Count: 1,
				Apply: component.ApplyAction{Kind: component.ApplyRandomTargetScroll, Damage: 20, DamageType: component.DamageFire, MaxRange: 8},
				SpawnWeight: []component.SpawnWeightStep{{MinFloor: 1, Weight: 5}},
			},
			"leather_armor": {
				Name: "leather armor", Graphic: "[",
				Slot: component.SlotBody, DefenseBonus: 1,
				SpawnWeight: []component.SpawnWeightStep{{MinFloor: 0, Weight: 8}},
			},
			"iron_shield": {
				Name: "iron shield", Graphic: "[",
				Slot: component.SlotOffHand, DefenseBonus: 2,
				SpawnWeight: []component.SpawnWeightStep{{MinFloor: 1, Weight: 5}},
			},
			"long_sword": {
				Name: "long sword", Graphic: "/",
				Slot: component.SlotMainHand, PowerBonus: "1d8",
				SpawnWeight: []component.SpawnWeightStep{{MinFloor: 1, Weight: 6}},
			},
		},
		Traits: map[string]TraitSpawner{
			"lesser_regeneration": {
				Key: "lesser_regeneration", Event: component.OnCreate, Target: component.TargetSelf,
				Chance: 1.0, EffectTemplate: "regen_minor",
			},
			"lesser_poison": {
				Key: "lesser_poison", Event: component.OnAttack, Target: component.TargetEnemy,
				Chance: 0.3, EffectTemplate: "poison_minor",
			},
		},
		EffectTemplates: map[string]EffectTemplate{
			"regen_minor":  {Kind: component.EffectRegeneration, Magnitude: 1, TurnsRemaining: -1},
			"poison_minor": {Kind: component.EffectPoison, Magnitude: 1, TurnsRemaining: 4},
			"confuse":      {Kind: component.EffectConfusion, Magnitude: 0, TurnsRemaining: 10},
			"burn":         {Kind: component.EffectPoison, Magnitude: 4, TurnsRemaining: 3},
		},
		Enemies: []mapgen.EnemyEntry{
			{TemplateKey: "rat", ThreatCost: 2, SpawnWeight: []component.SpawnWeightStep{{MinFloor: 0, Weight: 10}, {MinFloor: 4, Weight: 2}}},
			{TemplateKey: "goblin", ThreatCost: 4, SpawnWeight: []component.SpawnWeightStep{{MinFloor: 0, Weight: 6}}},
			{TemplateKey: "troll", ThreatCost: 12, SpawnWeight: []component.SpawnWeightStep{{MinFloor: 3, Weight: 3}}},
		},
		ItemSpawns: []mapgen.ItemEntry{
			{TemplateKey: "healing_potion", SpawnWeight: []component.SpawnWeightStep{{MinFloor: 0, Weight: 10}}},
			{TemplateKey: "scroll_of_confusion", SpawnWeight: []component.SpawnWeightStep{{MinFloor: 0, Weight: 6}}},
			{TemplateKey: "scroll_of_fireball", SpawnWeight: []component.SpawnWeightStep{{MinFloor: 2, Weight: 4}}},
			{TemplateKey: "scroll_of_lightning", SpawnWeight: []component.SpawnWeightStep{{MinFloor: 1, Weight: 5}}},
		},
		EquipSpawns: []mapgen.ItemEntry{
			{TemplateKey: "leather_armor", SpawnWeight: []component.SpawnWeightStep{{MinFloor: 0, Weight: 8}}},
			{TemplateKey: "iron_shield", SpawnWeight: []component.SpawnWeightStep{{MinFloor: 1, Weight: 5}}},
			{TemplateKey: "long_sword", SpawnWeight: []component.SpawnWeightStep{{MinFloor: 1, Weight: 6}}},
		},
		Inscriptions: []string{
			"the walls remember every name spoken here",
			"turn back while the stairs still know your face",
			"the spire counts floors the way it counts the dead",
			"a draft from below carries the smell of old coins",
		},
	}
}
