package gamestate

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/ck3tools/ck3save/savefile"
	"github.com/ck3tools/ck3save/tape"
)

// Option configures Load.
type Option func(*loader)

// WithLogger routes progress and lenient-mode drop reports to l. The
// default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(ld *loader) { ld.log = l }
}

// WithLenient makes Load log and drop entity defines that fail to
// convert instead of aborting on the first one. Malformed sections
// still abort; leniency covers conversion, not parsing.
func WithLenient() Option {
	return func(ld *loader) { ld.lenient = true }
}

// WithTokenResolver supplies the token dictionary a binary save needs.
func WithTokenResolver(r tape.Resolver) Option {
	return func(ld *loader) { ld.resolver = r }
}

type loader struct {
	log      *slog.Logger
	lenient  bool
	resolver tape.Resolver
	state    *GameState
}

// LoadFile reads and ingests the save at path.
func LoadFile(path string, opts ...Option) (*GameState, error) {
	save, err := savefile.Open(path)
	if err != nil {
		return nil, err
	}
	return Load(save, opts...)
}

// Load walks every top-level section of the save once and builds the
// object graph. Sections outside the dispatch set are skipped without
// parsing. After the walk runs exactly one finalization pass.
func Load(save *savefile.SaveFile, opts ...Option) (*GameState, error) {
	ld := &loader{log: slog.Default(), state: newGameState()}
	for _, o := range opts {
		o(ld)
	}
	sections, err := save.Sections(ld.resolver)
	if err != nil {
		return nil, err
	}
	for {
		sec, err := sections.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := ld.section(sec); err != nil {
			return nil, err
		}
	}
	ld.state.attrs = sections.Attributes()
	ld.state.finalize()
	return ld.state, nil
}

func (ld *loader) section(sec *savefile.Section) error {
	name := sec.Name()
	ld.log.Debug("section", "name", name)
	switch name {
	case "meta_data":
		return ld.loadMeta(sec)
	case "traits_lookup":
		return ld.loadTraits(sec)
	case "landed_titles":
		return ld.loadTitles(sec)
	case "county_manager":
		return ld.loadCounties(sec)
	case "dynasties":
		return ld.loadDynasties(sec)
	case "living", "dead_unprunable":
		obj, err := parseMap(sec)
		if err != nil {
			return err
		}
		return ld.defineCharacters(name, obj)
	case "characters":
		return ld.loadDeadPrunable(sec)
	case "vassal_contracts":
		return ld.loadContracts(sec)
	case "religion":
		return ld.loadFaiths(sec)
	case "culture_manager":
		return ld.loadCultures(sec)
	case "character_memory_manager":
		return ld.loadMemories(sec)
	case "played_character":
		return ld.loadPlayer(sec)
	case "artifacts":
		return ld.loadArtifacts(sec)
	default:
		return sec.Skip()
	}
}

// parseMap parses a section body into its top-level container.
func parseMap(sec *savefile.Section) (*savefile.Object, error) {
	v, err := sec.Parse()
	if err != nil {
		return nil, err
	}
	return v.AsObject()
}

// dropOrFail settles one failed conversion. In lenient mode the entry
// is logged and dropped; otherwise ingestion stops with the section
// context attached.
func (ld *loader) dropOrFail(section, kind, id string, err error) error {
	if err == nil {
		return nil
	}
	if ld.lenient {
		ld.log.Warn("dropping entry", "section", section, "kind", kind, "id", id, "err", err)
		return nil
	}
	return fmt.Errorf("gamestate: section %s: %s %s: %w", section, kind, id, err)
}

func (ld *loader) sectionErr(section string, err error) error {
	if err == nil {
		return nil
	}
	if ld.lenient {
		ld.log.Warn("dropping section contents", "section", section, "err", err)
		return nil
	}
	return fmt.Errorf("gamestate: section %s: %w", section, err)
}

// defineEach walks one id-keyed map of entity bodies and defines each
// entry in the registry. Scalar values are tombstones in most
// sections; skipScalars selects between ignoring them and treating
// them as conversion errors.
func defineEach[T any](ld *loader, section, kind string, r *Registry[T], obj *savefile.Object, skipScalars bool, build func(id uint64, body *savefile.Object) (*T, error)) error {
	for _, ent := range obj.Entries() {
		if ent.Value.Kind() != savefile.KindObject {
			if skipScalars {
				continue
			}
			err := &savefile.ConversionError{Want: "object", Got: ent.Value.Kind().String()}
			if err := ld.dropOrFail(section, kind, ent.Key, err); err != nil {
				return err
			}
			continue
		}
		body, _ := ent.Value.AsObject()
		id, err := strconv.ParseUint(ent.Key, 10, 64)
		if err != nil {
			if err := ld.dropOrFail(section, kind, ent.Key, err); err != nil {
				return err
			}
			continue
		}
		err = r.Define(id, func() (*T, error) {
			return build(id, body)
		})
		if err := ld.dropOrFail(section, kind, ent.Key, err); err != nil {
			return err
		}
	}
	return nil
}

func (ld *loader) loadMeta(sec *savefile.Section) error {
	obj, err := parseMap(sec)
	if err != nil {
		return err
	}
	current, err := obj.GetDate("meta_date")
	if err != nil {
		return ld.sectionErr(sec.Name(), err)
	}
	start, err := obj.GetDate("meta_real_date")
	if err != nil {
		return ld.sectionErr(sec.Name(), err)
	}
	ld.state.currentDate = current
	ld.state.startDate = start
	if v := opt(obj, "version"); v != nil {
		if ld.state.version, err = v.AsString(); err != nil {
			return ld.sectionErr(sec.Name(), err)
		}
	}
	if v := opt(obj, "meta_player_name"); v != nil {
		if ld.state.metaPlayer, err = v.AsString(); err != nil {
			return ld.sectionErr(sec.Name(), err)
		}
	}
	return nil
}

func (ld *loader) loadTraits(sec *savefile.Section) error {
	obj, err := parseMap(sec)
	if err != nil {
		return err
	}
	names := make([]string, 0, obj.Len())
	for _, item := range obj.Items() {
		name, err := item.AsString()
		if err != nil {
			return ld.sectionErr(sec.Name(), err)
		}
		names = append(names, name)
	}
	ld.state.setTraits(names)
	return nil
}

func (ld *loader) loadTitles(sec *savefile.Section) error {
	obj, err := parseMap(sec)
	if err != nil {
		return err
	}
	inner, err := obj.GetObject("landed_titles")
	if err != nil {
		return ld.sectionErr(sec.Name(), err)
	}
	return defineEach(ld, sec.Name(), "title", ld.state.titles, inner, true,
		func(_ uint64, body *savefile.Object) (*Title, error) {
			return ld.state.newTitle(body)
		})
}

func (ld *loader) loadCounties(sec *savefile.Section) error {
	obj, err := parseMap(sec)
	if err != nil {
		return err
	}
	counties, err := obj.GetObject("counties")
	if err != nil {
		return ld.sectionErr(sec.Name(), err)
	}
	for _, ent := range counties.Entries() {
		faith, culture, err := countyPair(ent.Value)
		if err != nil {
			if err := ld.dropOrFail(sec.Name(), "county", ent.Key, err); err != nil {
				return err
			}
			continue
		}
		ld.state.countyData[ent.Key] = countyInfo{
			faith:   ld.state.faiths.GetOrCreate(faith),
			culture: ld.state.cultures.GetOrCreate(culture),
		}
	}
	return nil
}

func countyPair(v *savefile.Value) (faith, culture uint64, err error) {
	county, err := v.AsObject()
	if err != nil {
		return 0, 0, err
	}
	if faith, err = county.GetID("faith"); err != nil {
		return 0, 0, err
	}
	if culture, err = county.GetID("culture"); err != nil {
		return 0, 0, err
	}
	return faith, culture, nil
}

func (ld *loader) loadDynasties(sec *savefile.Section) error {
	obj, err := parseMap(sec)
	if err != nil {
		return err
	}
	houses, err := obj.GetObject("dynasty_house")
	if err != nil {
		return ld.sectionErr(sec.Name(), err)
	}
	err = defineEach(ld, sec.Name(), "house", ld.state.houses, houses, true,
		func(_ uint64, body *savefile.Object) (*House, error) {
			return ld.state.newHouse(body)
		})
	if err != nil {
		return err
	}
	dynasties, err := obj.GetObject("dynasties")
	if err != nil {
		return ld.sectionErr(sec.Name(), err)
	}
	return defineEach(ld, sec.Name(), "dynasty", ld.state.dynasties, dynasties, true,
		func(_ uint64, body *savefile.Object) (*Dynasty, error) {
			return ld.state.newDynasty(body)
		})
}

func (ld *loader) defineCharacters(section string, obj *savefile.Object) error {
	return defineEach(ld, section, "character", ld.state.characters, obj, true,
		func(id uint64, body *savefile.Object) (*Character, error) {
			return ld.state.newCharacter(id, body)
		})
}

func (ld *loader) loadDeadPrunable(sec *savefile.Section) error {
	obj, err := parseMap(sec)
	if err != nil {
		return err
	}
	dead := opt(obj, "dead_prunable")
	if dead == nil {
		return nil
	}
	inner, err := dead.AsObject()
	if err != nil {
		return ld.sectionErr(sec.Name(), err)
	}
	return ld.defineCharacters(sec.Name(), inner)
}

func (ld *loader) loadContracts(sec *savefile.Section) error {
	obj, err := parseMap(sec)
	if err != nil {
		return err
	}
	// The map moved from active to database in save version 1.13.
	inner := opt(obj, "database")
	if inner == nil {
		inner = opt(obj, "active")
	}
	if inner == nil {
		return ld.sectionErr(sec.Name(), &savefile.KeyError{Key: "database"})
	}
	body, err := inner.AsObject()
	if err != nil {
		return ld.sectionErr(sec.Name(), err)
	}
	return defineEach(ld, sec.Name(), "contract", ld.state.contracts, body, true,
		func(_ uint64, b *savefile.Object) (*Contract, error) {
			vassal, err := b.GetID("vassal")
			if err != nil {
				return nil, err
			}
			return &Contract{Vassal: ld.state.characters.GetOrCreate(vassal)}, nil
		})
}

func (ld *loader) loadFaiths(sec *savefile.Section) error {
	obj, err := parseMap(sec)
	if err != nil {
		return err
	}
	faiths, err := obj.GetObject("faiths")
	if err != nil {
		return ld.sectionErr(sec.Name(), err)
	}
	return defineEach(ld, sec.Name(), "faith", ld.state.faiths, faiths, false,
		func(_ uint64, body *savefile.Object) (*Faith, error) {
			return ld.state.newFaith(body)
		})
}

func (ld *loader) loadCultures(sec *savefile.Section) error {
	obj, err := parseMap(sec)
	if err != nil {
		return err
	}
	cultures, err := obj.GetObject("cultures")
	if err != nil {
		return ld.sectionErr(sec.Name(), err)
	}
	return defineEach(ld, sec.Name(), "culture", ld.state.cultures, cultures, false,
		func(_ uint64, body *savefile.Object) (*Culture, error) {
			return ld.state.newCulture(body)
		})
}

func (ld *loader) loadMemories(sec *savefile.Section) error {
	obj, err := parseMap(sec)
	if err != nil {
		return err
	}
	database, err := obj.GetObject("database")
	if err != nil {
		return ld.sectionErr(sec.Name(), err)
	}
	return defineEach(ld, sec.Name(), "memory", ld.state.memories, database, true,
		func(_ uint64, body *savefile.Object) (*Memory, error) {
			return ld.state.newMemory(body)
		})
}

func (ld *loader) loadPlayer(sec *savefile.Section) error {
	obj, err := parseMap(sec)
	if err != nil {
		return err
	}
	p, err := ld.state.newPlayer(obj)
	if err != nil {
		return ld.sectionErr(sec.Name(), err)
	}
	ld.state.players = append(ld.state.players, p)
	return nil
}

func (ld *loader) loadArtifacts(sec *savefile.Section) error {
	obj, err := parseMap(sec)
	if err != nil {
		return err
	}
	artifacts, err := obj.GetObject("artifacts")
	if err != nil {
		return ld.sectionErr(sec.Name(), err)
	}
	return defineEach(ld, sec.Name(), "artifact", ld.state.artifacts, artifacts, true,
		func(_ uint64, body *savefile.Object) (*Artifact, error) {
			return ld.state.newArtifact(body)
		})
}
