// Package game is the top-level orchestrator: it owns the screen, the
// world and its derived indexes, the level cache, and the state machine,
// and wires them together into the blocking event loop. Nothing below
// this package knows the whole picture; nothing here implements game
// rules.
package game

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"spireward/internal/action"
	"spireward/internal/component"
	"spireward/internal/content"
	"spireward/internal/diag"
	"spireward/internal/ecs"
	"spireward/internal/factory"
	"spireward/internal/input"
	"spireward/internal/mapgen"
	"spireward/internal/message"
	"spireward/internal/render"
	"spireward/internal/rng"
	"spireward/internal/save"
	"spireward/internal/spatial"
	"spireward/internal/statemachine"
	"spireward/internal/validate"
)

// Data file paths, resolved relative to the working directory. Both are
// optional: the compiled-in defaults cover a missing file.
const (
	tilesetPath = "data/tileset.toml"
	catalogPath = "data/content.yaml"
	logPath     = "spireward.log"
)

// App owns one game session: terminal, world, and everything derived.
type App struct {
	screen   tcell.Screen
	renderer *render.Renderer
	inputs   *input.Manager
	logger   *zap.Logger
	catalog  *content.Catalog

	world    *ecs.World
	index    *spatial.Index
	registry *factory.Registry
	stream   *rng.Stream
	log      *message.Log
	actx     *action.Context
	levels   *levelStore

	seed     int64
	runID    string
	playerID ecs.EntityID
	state    statemachine.State
	stats    RunStats
	quitting bool
	debug    bool
}

// New initializes the terminal and loads (or defaults) the content data.
// The world itself is not built until the player starts or resumes a
// game.
func New() (*App, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse()

	a := &App{
		screen:  screen,
		inputs:  input.NewManager(),
		logger:  diag.New(logPath),
		catalog: content.LoadCatalog(catalogPath),
		debug:   os.Getenv("SPIREWARD_DEBUG") != "",
	}
	a.renderer = render.New(screen, content.LoadTileset(tilesetPath))

	if snap, err := save.Read(save.Path); err == nil {
		a.restore(snap)
	} else if !errors.Is(err, os.ErrNotExist) {
		a.logger.Warn("save file unusable, starting fresh", zap.Error(err))
	}

	a.state = &statemachine.MainMenu{}
	return a, nil
}

// ctx builds the state-machine wiring. Rebuilt whenever the world is.
func (a *App) ctx() *statemachine.Ctx {
	return &statemachine.Ctx{
		Action:    a.actx,
		Input:     a.inputs,
		Render:    a.renderer,
		Log:       a.log,
		Player:    func() ecs.EntityID { return a.playerID },
		Floor:     a.currentFloor,
		CanResume: func() bool { return a.world != nil },
		NewGame:   a.newGame,
		Quit:      func() { a.quitting = true },
		TurnHook:  a.afterTurn,
	}
}

// Run is the blocking main loop: draw, poll one event, update. Panics
// from an update are logged with the state intact rather than killing
// the session.
func (a *App) Run() {
	defer a.screen.Fini()
	defer a.persist()

	for !a.quitting {
		a.renderer.Clear()
		a.state.Draw(a.ctx())
		a.renderer.Show()

		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		if _, ok := ev.(*tcell.EventResize); ok {
			a.screen.Sync()
			a.renderer.Resize()
			continue
		}
		a.inputs.HandleEvent(ev)
		a.update()
		a.inputs.EndFrame()
	}
}

func (a *App) update() {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("state update panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	a.state = a.state.Update(a.ctx())
}

// newGame discards any current session and builds floor 1 with the
// player on its up-stair.
func (a *App) newGame() {
	a.seed = seedFromEnv()
	a.runID = save.NewRunID()
	a.stats = RunStats{RunID: a.runID, Seed: a.seed, Started: time.Now()}

	a.world = ecs.NewWorld()
	a.world.RegisterCascadeRelation(component.RelAffecting)
	a.index = spatial.New()
	a.index.Attach(a.world)
	a.stream = rng.New(a.seed)
	a.log = message.NewLog(200)
	a.registry = factory.NewRegistry(a.world, a.catalog)
	a.levels = &levelStore{app: a, maps: make(map[int]ecs.EntityID)}
	a.actx = &action.Context{
		World:    a.world,
		Catalog:  a.catalog,
		RNG:      a.stream,
		Log:      a.log,
		Index:    a.index,
		Registry: a.registry,
		Levels:   a.levels,
	}
	a.registerLootHook()

	mapID := a.levels.MapEntity(1)
	x, y := a.levels.startPosition(1)
	a.playerID = a.registry.SpawnPlayer(a.world, a.catalog, a.log, mapID, x, y)
	a.levels.UpdateFOV(a.playerID, false)

	a.log.Add("You step into the spire. The door seals behind you.", message.ColorWelcome)
	a.logger.Info("new game", zap.String("run_id", a.runID), zap.Int64("seed", a.seed))
}

// afterTurn runs once per world-advancing player turn: statistics, and
// in debug mode a full invariant sweep plus fatal log on violation.
func (a *App) afterTurn() {
	a.stats.Turns++
	if f := a.currentFloor(); f > a.stats.FloorsReached {
		a.stats.FloorsReached = f
	}
	if a.debug {
		if err := validate.World(a.world); err != nil {
			a.logger.Error("invariant violation", zap.Error(err))
		}
	}
}

func (a *App) currentFloor() int {
	if a.world == nil {
		return 1
	}
	if a.levels == nil {
		return 1
	}
	return a.levels.floorOf(a.playerID)
}

// persist saves the session on the way out and appends the run record.
func (a *App) persist() {
	if a.world == nil {
		return
	}
	snap := &save.Snapshot{
		RunID:    a.runID,
		Seed:     a.seed,
		Floor:    a.currentFloor(),
		Records:  a.world.Snapshot(),
		Messages: a.log.Entries(),
	}
	if err := save.Write(save.Path, snap); err != nil {
		a.logger.Error("save failed", zap.Error(err))
	}
	a.stats.Ended = time.Now()
	writeRunStats(a.stats)
	_ = a.logger.Sync()
}

// restore rebuilds a session from a snapshot: world, derived indexes,
// hooks, caches.
func (a *App) restore(snap *save.Snapshot) {
	a.world = ecs.RestoreWorld(snap.Records)
	a.world.RegisterCascadeRelation(component.RelAffecting)
	a.index = spatial.New()
	a.index.Attach(a.world)
	a.index.Rebuild(a.world)
	a.seed = snap.Seed
	a.runID = snap.RunID
	a.stream = rng.New(snap.Seed)
	a.log = message.NewLog(200)
	for _, e := range snap.Messages {
		for i := 0; i < e.Count; i++ {
			a.log.Add(e.Text, e.FG)
		}
	}
	a.registry = factory.AdoptTemplates(a.world, a.catalog)
	a.levels = &levelStore{app: a, maps: make(map[int]ecs.EntityID)}
	a.levels.rebuildCache()
	a.actx = &action.Context{
		World:    a.world,
		Catalog:  a.catalog,
		RNG:      a.stream,
		Log:      a.log,
		Index:    a.index,
		Registry: a.registry,
		Levels:   a.levels,
	}
	a.registerLootHook()

	for _, id := range a.world.EntitiesWithTag(component.TagIsPlayer) {
		a.playerID = id
		break
	}
	a.stats = RunStats{RunID: a.runID, Seed: a.seed, Started: time.Now(), FloorsReached: snap.Floor}
	a.logger.Info("resumed game", zap.String("run_id", a.runID))
}

// registerLootHook watches HP: the moment a mortal wound lands on an
// actor with a drop chance, an item template weighted for the current
// floor lands on its tile. The hook fires before Die strips IsAlive, so
// it triggers exactly once per death.
func (a *App) registerLootHook() {
	a.world.OnComponentChange(component.CHealth, func(w *ecs.World, id ecs.EntityID, old, new ecs.Component) {
		if old == nil || new == nil {
			return
		}
		if old.(component.Health).Current <= 0 || new.(component.Health).Current > 0 {
			return
		}
		if !w.HasTag(id, component.TagIsAlive) || w.HasTag(id, component.TagIsPlayer) {
			return
		}
		ac := w.Get(id, component.CActor)
		if ac == nil {
			return
		}
		actor := ac.(component.Actor)
		if actor.LootDropChance <= 0 || !a.stream.Chance(actor.LootDropChance) {
			return
		}
		mapID, ok := w.GetRelation(id, component.RelIsIn)
		if !ok {
			return
		}
		pc := w.Get(id, component.CPosition)
		if pc == nil {
			return
		}
		pos := pc.(component.Position)
		key := a.rollLoot(id, a.levels.floorOf(id))
		if key == "" {
			return
		}
		if a.registry.SpawnItem(w, key, mapID, pos.X, pos.Y) != ecs.NilEntity {
			a.log.Addf(message.ColorNeutral, "The %s drops a %s.", actor.Name, a.catalog.Items[key].Name)
		}
	})
}

// rollLoot picks a drop: an explicit Loot table on the dying entity wins,
// otherwise the floor-weighted item tables decide.
func (a *App) rollLoot(id ecs.EntityID, floor int) string {
	if lc := a.world.Get(id, component.CLoot); lc != nil {
		for _, entry := range lc.(component.Loot).Drops {
			if a.stream.Intn(100) < entry.Chance {
				return entry.ItemKey
			}
		}
		return ""
	}
	table := weightedItems(a.catalog.ItemSpawns, floor)
	table = append(table, weightedItems(a.catalog.EquipSpawns, floor)...)
	total := 0
	for _, e := range table {
		total += e.weight
	}
	if total <= 0 {
		return ""
	}
	roll := a.stream.Intn(total)
	for _, e := range table {
		if roll < e.weight {
			return e.key
		}
		roll -= e.weight
	}
	return ""
}

type weightedKey struct {
	key    string
	weight int
}

// weightedItems evaluates a spawn table's step-function weights at a
// floor, dropping zero-weight entries.
func weightedItems(table []mapgen.ItemEntry, floor int) []weightedKey {
	var out []weightedKey
	for _, e := range table {
		if w := component.WeightAt(e.SpawnWeight, floor); w > 0 {
			out = append(out, weightedKey{key: e.TemplateKey, weight: w})
		}
	}
	return out
}

func seedFromEnv() int64 {
	if s := os.Getenv("SPIREWARD_SEED"); s != "" {
		var v int64
		if _, err := fmt.Sscanf(s, "%d", &v); err == nil {
			return v
		}
	}
	return time.Now().UnixNano()
}
