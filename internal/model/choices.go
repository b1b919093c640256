package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// choice is a stable identifier paired with its display label.
type choice struct {
	key   string
	label string
}

// choiceSet is an ordered, immutable table of choices built once at init.
type choiceSet struct {
	ordered []choice
	labels  map[string]string
}

var titleCaser = cases.Title(language.English)

// newChoiceSet builds a table from keys. Labels are derived from the key
// ("HOT_FOOTED_FROG" becomes "Hot Footed Frog") unless overridden.
func newChoiceSet(keys []string, overrides map[string]string) choiceSet {
	cs := choiceSet{labels: make(map[string]string, len(keys))}
	for _, k := range keys {
		label, ok := overrides[k]
		if !ok {
			label = titleCaser.String(strings.ReplaceAll(k, "_", " "))
		}
		cs.ordered = append(cs.ordered, choice{key: k, label: label})
		cs.labels[k] = label
	}
	return cs
}

func (cs choiceSet) label(key string) string {
	if l, ok := cs.labels[key]; ok {
		return l
	}
	return key
}

func (cs choiceSet) valid(key string) bool {
	_, ok := cs.labels[key]
	return ok
}

// BodyPart is the slot an armor piece is worn in.
type BodyPart string

// Body parts.
const (
	BodyPartHead BodyPart = "HEAD"
	BodyPartBody BodyPart = "BODY"
	BodyPartLegs BodyPart = "LEGS"
)

var bodyParts = newChoiceSet([]string{"HEAD", "BODY", "LEGS"}, nil)

// Label returns the display name of the body part.
func (b BodyPart) Label() string { return bodyParts.label(string(b)) }

// Valid reports whether b is a known body part.
func (b BodyPart) Valid() bool { return bodyParts.valid(string(b)) }

// BodyParts returns all body parts in head-to-foot order.
func BodyParts() []BodyPart {
	out := make([]BodyPart, 0, len(bodyParts.ordered))
	for _, c := range bodyParts.ordered {
		out = append(out, BodyPart(c.key))
	}
	return out
}

// ArmorSet identifies a group of armor pieces sharing a set bonus.
type ArmorSet string

var armorSets = newChoiceSet([]string{
	"ANCIENT_SET",
	"BARBARIAN_SET",
	"CLIMBING_SET",
	"DESERT_VOE_SET",
	"FLAMEBREAKER_SET",
	"HYLIAN_SET",
	"RADIANT_SET",
	"RUBBER_SET",
	"SNOWQUILL_SET",
	"SOLDIERS_SET",
	"STEALTH_SET",
	"ZORA_SET",
}, map[string]string{
	"DESERT_VOE_SET": "Desert Voe Set",
	"SOLDIERS_SET":   "Soldier's Set",
})

// Label returns the display name of the set.
func (s ArmorSet) Label() string { return armorSets.label(string(s)) }

// Valid reports whether s is a known set.
func (s ArmorSet) Valid() bool { return armorSets.valid(string(s)) }

// ArmorSets returns all known sets.
func ArmorSets() []ArmorSet {
	out := make([]ArmorSet, 0, len(armorSets.ordered))
	for _, c := range armorSets.ordered {
		out = append(out, ArmorSet(c.key))
	}
	return out
}

// Material is a crafting resource consumed by upgrades.
type Material string

// MaterialRupee is the currency; the fairy tax is charged in it.
const MaterialRupee Material = "RUPEE"

var materials = newChoiceSet([]string{
	"RUPEE",
	"AMBER",
	"OPAL",
	"TOPAZ",
	"RUBY",
	"SAPPHIRE",
	"DIAMOND",
	"FLINT",
	"LUMINOUS_STONE",
	"STAR_FRAGMENT",
	"BOKOBLIN_HORN",
	"BOKOBLIN_FANG",
	"BOKOBLIN_GUTS",
	"MOBLIN_HORN",
	"MOBLIN_FANG",
	"MOBLIN_GUTS",
	"LIZALFOS_HORN",
	"LIZALFOS_TALON",
	"LIZALFOS_TAIL",
	"RED_LIZALFOS_TAIL",
	"ICY_LIZALFOS_TAIL",
	"YELLOW_LIZALFOS_TAIL",
	"LYNEL_HORN",
	"LYNEL_HOOF",
	"LYNEL_GUTS",
	"KEESE_WING",
	"KEESE_EYEBALL",
	"ICE_KEESE_WING",
	"FIRE_KEESE_WING",
	"CHUCHU_JELLY",
	"RED_CHUCHU_JELLY",
	"WHITE_CHUCHU_JELLY",
	"YELLOW_CHUCHU_JELLY",
	"ANCIENT_SCREW",
	"ANCIENT_SPRING",
	"ANCIENT_GEAR",
	"ANCIENT_SHAFT",
	"ANCIENT_CORE",
	"GIANT_ANCIENT_CORE",
	"BLUE_NIGHTSHADE",
	"SILENT_PRINCESS",
	"SUNSET_FIREFLY",
	"FIREPROOF_LIZARD",
	"SMOTHERWING_BUTTERFLY",
	"WINTERWING_BUTTERFLY",
	"THUNDERWING_BUTTERFLY",
	"COLD_DARNER",
	"ELECTRIC_DARNER",
	"SUMMERWING_BUTTERFLY",
	"VOLCANIC_LADYBUG",
	"HOT_FOOTED_FROG",
	"HYRULE_BASS",
	"HEARTY_BASS",
	"VOLTFRUIT",
	"SPICY_PEPPER",
	"HYDROMELON",
	"SWIFT_VIOLET",
	"BLUE_BIRD_FEATHER",
	"HINOX_TOENAIL",
	"HINOX_TOOTH",
	"HINOX_GUTS",
	"DINRAALS_SCALE",
	"NAYDRAS_SCALE",
	"FAROSHS_SCALE",
}, map[string]string{
	"DINRAALS_SCALE":  "Dinraal's Scale",
	"NAYDRAS_SCALE":   "Naydra's Scale",
	"FAROSHS_SCALE":   "Farosh's Scale",
	"HOT_FOOTED_FROG": "Hot-Footed Frog",
})

// Label returns the display name of the material.
func (m Material) Label() string { return materials.label(string(m)) }

// Valid reports whether m is a known material.
func (m Material) Valid() bool { return materials.valid(string(m)) }

// Materials returns all known materials in display order.
func Materials() []Material {
	out := make([]Material, 0, len(materials.ordered))
	for _, c := range materials.ordered {
		out = append(out, Material(c.key))
	}
	return out
}
