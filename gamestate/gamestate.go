package gamestate

import (
	"github.com/ck3tools/ck3save/savefile"
)

// Contract is one vassalage contract. Saves route liege-vassal links
// through contract ids rather than character ids, so the contract
// registry is the level of indirection that keeps those links working.
type Contract struct {
	Vassal *Entity[Character]
}

type countyInfo struct {
	faith   *Entity[Faith]
	culture *Entity[Culture]
}

// GameState is the typed object graph of one save.
type GameState struct {
	characters *Registry[Character]
	titles     *Registry[Title]
	faiths     *Registry[Faith]
	cultures   *Registry[Culture]
	dynasties  *Registry[Dynasty]
	houses     *Registry[House]
	memories   *Registry[Memory]
	artifacts  *Registry[Artifact]
	contracts  *Registry[Contract]

	traitNames []string
	traitIndex map[string]int

	currentDate savefile.Date
	startDate   savefile.Date
	version     string
	metaPlayer  string

	countyData map[string]countyInfo

	attrs   map[string]string
	players []*Player
}

func newGameState() *GameState {
	return &GameState{
		characters: newRegistry[Character](),
		titles:     newRegistry[Title](),
		faiths:     newRegistry[Faith](),
		cultures:   newRegistry[Culture](),
		dynasties:  newRegistry[Dynasty](),
		houses:     newRegistry[House](),
		memories:   newRegistry[Memory](),
		artifacts:  newRegistry[Artifact](),
		contracts:  newRegistry[Contract](),
		traitIndex: make(map[string]int),
		countyData: make(map[string]countyInfo),
	}
}

// Characters returns the character registry.
func (g *GameState) Characters() *Registry[Character] { return g.characters }

// Titles returns the landed-title registry.
func (g *GameState) Titles() *Registry[Title] { return g.titles }

// Faiths returns the faith registry.
func (g *GameState) Faiths() *Registry[Faith] { return g.faiths }

// Cultures returns the culture registry.
func (g *GameState) Cultures() *Registry[Culture] { return g.cultures }

// Dynasties returns the dynasty registry.
func (g *GameState) Dynasties() *Registry[Dynasty] { return g.dynasties }

// Houses returns the dynastic-house registry.
func (g *GameState) Houses() *Registry[House] { return g.houses }

// Memories returns the character-memory registry.
func (g *GameState) Memories() *Registry[Memory] { return g.memories }

// Artifacts returns the artifact registry.
func (g *GameState) Artifacts() *Registry[Artifact] { return g.artifacts }

// Contracts returns the vassalage-contract registry.
func (g *GameState) Contracts() *Registry[Contract] { return g.contracts }

// CurrentDate returns the in-game date the save was written at.
func (g *GameState) CurrentDate() savefile.Date { return g.currentDate }

// StartDate returns the real start date of the campaign.
func (g *GameState) StartDate() savefile.Date { return g.startDate }

// Version returns the game version that wrote the save, when recorded.
func (g *GameState) Version() string { return g.version }

// PlayerName returns the played-character name the save was labeled
// with, when recorded.
func (g *GameState) PlayerName() string { return g.metaPlayer }

// OffsetDate returns the current date shifted by the given number of
// years, clamped to the representable range.
func (g *GameState) OffsetDate(years int) savefile.Date {
	return g.currentDate.AddYears(years)
}

// TraitName resolves a trait index from the save's lookup table.
func (g *GameState) TraitName(index int) (string, bool) {
	if index < 0 || index >= len(g.traitNames) {
		return "", false
	}
	return g.traitNames[index], true
}

// TraitIndex resolves a trait name back to its index.
func (g *GameState) TraitIndex(name string) (int, bool) {
	i, ok := g.traitIndex[name]
	return i, ok
}

func (g *GameState) setTraits(names []string) {
	g.traitNames = names
	g.traitIndex = make(map[string]int, len(names))
	for i, name := range names {
		g.traitIndex[name] = i
	}
}

// Attributes returns the root-level key=value pairs that precede the
// save's sections, save version and checksum among them.
func (g *GameState) Attributes() map[string]string { return g.attrs }

// Players returns one entry per played_character section, in file
// order.
func (g *GameState) Players() []*Player { return g.players }
