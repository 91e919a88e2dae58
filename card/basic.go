package card

// BasicCatalog returns a small built-in catalog: the Paladin basic set, a
// spread of neutral cards, a few Expert1 cards including legendaries, and
// records the pool filter must reject.
func BasicCatalog() StaticCatalog {
	return StaticCatalog{
		// Paladin
		spell("CS2_087", "Blessing of Might", ClassPaladin, SetCore, RarityCommon, 1, 2, 0),
		spell("CS2_094", "Hammer of Wrath", ClassPaladin, SetCore, RarityCommon, 4, 3, 0),
		spell("EX1_371", "Hand of Protection", ClassPaladin, SetCore, RarityCommon, 1, 0, 2),
		spell("CS2_089", "Holy Light", ClassPaladin, SetCore, RarityCommon, 2, 0, 6),
		spell("CS2_093", "Consecration", ClassPaladin, SetCore, RarityCommon, 4, 2, 0),
		weapon("CS2_091", "Light's Justice", ClassPaladin, SetCore, RarityCommon, 1, 1, 4),
		weapon("CS2_097", "Truesilver Champion", ClassPaladin, SetCore, RarityCommon, 4, 4, 2),
		spell("EX1_349", "Divine Favor", ClassPaladin, SetExpert1, RarityRare, 3, 0, 0),
		minion("EX1_383", "Tirion Fordring", ClassPaladin, SetExpert1, RarityLegendary, 8, 6, 6),

		// Neutral basic
		minion("CS2_147", "Gnomish Inventor", ClassNeutral, SetCore, RarityCommon, 4, 2, 4),
		minion("CS1_042", "Goldshire Footman", ClassNeutral, SetCore, RarityCommon, 1, 1, 2),
		minion("CS2_141", "Ironforge Rifleman", ClassNeutral, SetCore, RarityCommon, 3, 2, 2),
		minion("CS2_162", "Lord of the Arena", ClassNeutral, SetCore, RarityCommon, 6, 6, 5),
		minion("EX1_593", "Nightblade", ClassNeutral, SetCore, RarityCommon, 5, 4, 4),
		minion("CS2_122", "Raid Leader", ClassNeutral, SetCore, RarityCommon, 3, 2, 2),
		minion("CS2_171", "Stonetusk Boar", ClassNeutral, SetCore, RarityCommon, 1, 1, 1),
		minion("CS2_150", "Stormpike Commando", ClassNeutral, SetCore, RarityCommon, 5, 4, 2),
		minion("CS2_222", "Stormwind Champion", ClassNeutral, SetCore, RarityCommon, 7, 6, 6),
		minion("CS2_131", "Stormwind Knight", ClassNeutral, SetCore, RarityCommon, 4, 2, 5),
		minion("CS2_182", "Chillwind Yeti", ClassNeutral, SetCore, RarityCommon, 4, 4, 5),
		minion("CS2_200", "Boulderfist Ogre", ClassNeutral, SetCore, RarityCommon, 6, 6, 7),
		minion("CS2_120", "River Crocolisk", ClassNeutral, SetCore, RarityCommon, 2, 2, 3),
		minion("CS2_172", "Bloodfen Raptor", ClassNeutral, SetCore, RarityCommon, 2, 3, 2),
		minion("CS2_168", "Murloc Raider", ClassNeutral, SetCore, RarityCommon, 1, 2, 1),

		// Neutral expert
		minion("EX1_556", "Harvest Golem", ClassNeutral, SetExpert1, RarityCommon, 3, 2, 3),
		minion("EX1_116", "Leeroy Jenkins", ClassNeutral, SetExpert1, RarityLegendary, 5, 6, 2),
		minion("EX1_110", "Cairne Bloodhoof", ClassNeutral, SetExpert1, RarityLegendary, 6, 4, 5),
		minion("EX1_012", "Bloodmage Thalnos", ClassNeutral, SetExpert1, RarityLegendary, 2, 1, 1),

		// Rejected by the default Paladin filter
		spell("CS2_029", "Fireball", ClassMage, SetCore, RarityCommon, 4, 6, 0),
		token("CS2_101t", "Silver Hand Recruit", ClassPaladin, 1, 1, 1),
		{ID: "HERO_04", Name: "Uther Lightbringer", Class: ClassPaladin, Type: TypeHero, Set: SetCore, Implemented: true, Collectible: true},
		minion("GVG_058", "Shielded Minibot", ClassPaladin, SetGvg, RarityCommon, 2, 2, 2),
		{ID: "EX1_590", Name: "Blood Knight", Class: ClassNeutral, Rarity: RarityEpic, Type: TypeMinion, Set: SetExpert1, Implemented: false, Collectible: true, Cost: 3, Attack: 3, Health: 3},
	}
}

// PaladinControlList names the fixed Paladin control deck, two copies each.
func PaladinControlList() []string {
	names := []string{
		"Blessing of Might",
		"Gnomish Inventor",
		"Goldshire Footman",
		"Hammer of Wrath",
		"Hand of Protection",
		"Holy Light",
		"Ironforge Rifleman",
		"Light's Justice",
		"Lord of the Arena",
		"Nightblade",
		"Raid Leader",
		"Stonetusk Boar",
		"Stormpike Commando",
		"Stormwind Champion",
		"Stormwind Knight",
	}
	list := make([]string, 0, 2*len(names))
	for _, n := range names {
		list = append(list, n, n)
	}
	return list
}

func minion(id, name string, class Class, set Set, rarity Rarity, cost, attack, health int) *Card {
	return &Card{ID: id, Name: name, Class: class, Rarity: rarity, Type: TypeMinion, Set: set,
		Implemented: true, Collectible: true, Cost: cost, Attack: attack, Health: health}
}

func spell(id, name string, class Class, set Set, rarity Rarity, cost, damage, heal int) *Card {
	return &Card{ID: id, Name: name, Class: class, Rarity: rarity, Type: TypeSpell, Set: set,
		Implemented: true, Collectible: true, Cost: cost, Attack: damage, Health: heal}
}

func weapon(id, name string, class Class, set Set, rarity Rarity, cost, attack, durability int) *Card {
	return &Card{ID: id, Name: name, Class: class, Rarity: rarity, Type: TypeWeapon, Set: set,
		Implemented: true, Collectible: true, Cost: cost, Attack: attack, Health: durability}
}

func token(id, name string, class Class, cost, attack, health int) *Card {
	return &Card{ID: id, Name: name, Class: class, Type: TypeToken, Set: SetCore,
		Implemented: true, Collectible: false, Cost: cost, Attack: attack, Health: health}
}
