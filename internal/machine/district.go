package machine

// Scene is an ordered sequence of SystemContainers implementing the
// currently-active behavior for a District.
type Scene []*SystemContainer

// District owns a Scene (behavior) and a Store (persisted state),
// partitioned by game context (none / per-player / per-team). Grounded
// on original_source/frontbox/src/machine/districts/*.rs; the Rust
// source's split() into SystemDistrict/StorageDistrict is collapsed into
// one interface here since Go has no trait-object aliasing concern
// forcing the split.
type District interface {
	CurrentScene() Scene
	CurrentStore() *Store
	OnDistrictEnter(ctx func(*SystemContainer) *Context)
	OnDistrictExit(ctx func(*SystemContainer) *Context)
	OnAddPlayer(newIndex uint8)
	OnChangePlayer(newIndex uint8)

	// AddSystem appends c to the currently active Scene.
	AddSystem(c *SystemContainer)
	// ReplaceSystem swaps the container with id for c in the active
	// Scene, returning false if id wasn't found.
	ReplaceSystem(id uint64, c *SystemContainer) bool
	// TerminateSystem removes the container with id from the active
	// Scene, returning false if id wasn't found.
	TerminateSystem(id uint64) bool
}

func appendToScene(scene Scene, c *SystemContainer) Scene {
	return append(scene, c)
}

func replaceInScene(scene Scene, id uint64, c *SystemContainer) bool {
	for i, existing := range scene {
		if existing.ID == id {
			scene[i] = c
			return true
		}
	}
	return false
}

func removeFromScene(scene Scene, id uint64) (Scene, bool) {
	for i, existing := range scene {
		if existing.ID == id {
			return append(scene[:i], scene[i+1:]...), true
		}
	}
	return scene, false
}

// SimpleDistrict has exactly one Scene and one Store regardless of game
// state.
type SimpleDistrict struct {
	Scene Scene
	Store *Store
}

// NewSimpleDistrict builds a SimpleDistrict from the given containers.
func NewSimpleDistrict(containers ...*SystemContainer) *SimpleDistrict {
	return &SimpleDistrict{Scene: Scene(containers), Store: NewStore()}
}

func (d *SimpleDistrict) CurrentScene() Scene { return d.Scene }
func (d *SimpleDistrict) CurrentStore() *Store { return d.Store }

func (d *SimpleDistrict) OnDistrictEnter(mkCtx func(*SystemContainer) *Context) {
	for _, c := range d.Scene {
		c.Startup(mkCtx(c))
	}
}

func (d *SimpleDistrict) OnDistrictExit(mkCtx func(*SystemContainer) *Context) {
	for _, c := range d.Scene {
		c.Shutdown(mkCtx(c))
	}
}

func (d *SimpleDistrict) OnAddPlayer(uint8)    {}
func (d *SimpleDistrict) OnChangePlayer(uint8) {}

func (d *SimpleDistrict) AddSystem(c *SystemContainer) { d.Scene = appendToScene(d.Scene, c) }
func (d *SimpleDistrict) ReplaceSystem(id uint64, c *SystemContainer) bool {
	return replaceInScene(d.Scene, id, c)
}
func (d *SimpleDistrict) TerminateSystem(id uint64) bool {
	scene, ok := removeFromScene(d.Scene, id)
	d.Scene = scene
	return ok
}

// PlayerDistrict allocates one Scene and one Store per player. Adding a
// player deep-clones the initial scene template, assigning each cloned
// SystemContainer a fresh listener id.
type PlayerDistrict struct {
	initial      Scene
	scenes       []Scene
	stores       []*Store
	activePlayer uint8
}

// NewPlayerDistrict builds a PlayerDistrict whose initial scene template
// is the given containers (not itself active until a player is added).
func NewPlayerDistrict(template ...*SystemContainer) *PlayerDistrict {
	return &PlayerDistrict{initial: Scene(template)}
}

func (d *PlayerDistrict) CurrentScene() Scene {
	if int(d.activePlayer) >= len(d.scenes) {
		return nil
	}
	return d.scenes[d.activePlayer]
}

func (d *PlayerDistrict) CurrentStore() *Store {
	if int(d.activePlayer) >= len(d.stores) {
		return NewStore()
	}
	return d.stores[d.activePlayer]
}

func (d *PlayerDistrict) OnAddPlayer(newIndex uint8) {
	cloned := make(Scene, len(d.initial))
	for i, c := range d.initial {
		cloned[i] = c.CloneWithID(NextListenerID())
	}
	d.scenes = append(d.scenes, cloned)
	d.stores = append(d.stores, NewStore())
	_ = newIndex
}

func (d *PlayerDistrict) OnChangePlayer(newIndex uint8) {
	d.activePlayer = newIndex
}

func (d *PlayerDistrict) AddSystem(c *SystemContainer) {
	if int(d.activePlayer) < len(d.scenes) {
		d.scenes[d.activePlayer] = appendToScene(d.scenes[d.activePlayer], c)
	}
}

func (d *PlayerDistrict) ReplaceSystem(id uint64, c *SystemContainer) bool {
	if int(d.activePlayer) >= len(d.scenes) {
		return false
	}
	return replaceInScene(d.scenes[d.activePlayer], id, c)
}

func (d *PlayerDistrict) TerminateSystem(id uint64) bool {
	if int(d.activePlayer) >= len(d.scenes) {
		return false
	}
	scene, ok := removeFromScene(d.scenes[d.activePlayer], id)
	d.scenes[d.activePlayer] = scene
	return ok
}

func (d *PlayerDistrict) OnDistrictEnter(mkCtx func(*SystemContainer) *Context) {
	for _, c := range d.CurrentScene() {
		c.Startup(mkCtx(c))
	}
}

func (d *PlayerDistrict) OnDistrictExit(mkCtx func(*SystemContainer) *Context) {
	for _, c := range d.CurrentScene() {
		c.Shutdown(mkCtx(c))
	}
}

// TeamDistrict pre-allocates one Scene and one Store per team, up front,
// indexed through a player->team map. Adding a player is a no-op since
// capacity is already sized for every possible player index.
type TeamDistrict struct {
	template      Scene
	playerTeamMap []int
	scenes        []Scene
	stores        []*Store
	activePlayer  uint8
}

// NewTeamDistrict builds a TeamDistrict sized by max(playerTeamMap)+1,
// cloning template into each team's scene.
func NewTeamDistrict(playerTeamMap []int, template ...*SystemContainer) *TeamDistrict {
	maxTeam := -1
	for _, t := range playerTeamMap {
		if t > maxTeam {
			maxTeam = t
		}
	}
	d := &TeamDistrict{template: Scene(template), playerTeamMap: playerTeamMap}
	for i := 0; i <= maxTeam; i++ {
		cloned := make(Scene, len(template))
		for j, c := range template {
			cloned[j] = c.CloneWithID(NextListenerID())
		}
		d.scenes = append(d.scenes, cloned)
		d.stores = append(d.stores, NewStore())
	}
	return d
}

func (d *TeamDistrict) teamIndex() int {
	if int(d.activePlayer) >= len(d.playerTeamMap) {
		return 0
	}
	return d.playerTeamMap[d.activePlayer]
}

func (d *TeamDistrict) CurrentScene() Scene {
	idx := d.teamIndex()
	if idx >= len(d.scenes) {
		return nil
	}
	return d.scenes[idx]
}

func (d *TeamDistrict) CurrentStore() *Store {
	idx := d.teamIndex()
	if idx >= len(d.stores) {
		return NewStore()
	}
	return d.stores[idx]
}

func (d *TeamDistrict) OnAddPlayer(uint8) {}

func (d *TeamDistrict) OnChangePlayer(newIndex uint8) {
	d.activePlayer = newIndex
}

func (d *TeamDistrict) AddSystem(c *SystemContainer) {
	idx := d.teamIndex()
	if idx < len(d.scenes) {
		d.scenes[idx] = appendToScene(d.scenes[idx], c)
	}
}

func (d *TeamDistrict) ReplaceSystem(id uint64, c *SystemContainer) bool {
	idx := d.teamIndex()
	if idx >= len(d.scenes) {
		return false
	}
	return replaceInScene(d.scenes[idx], id, c)
}

func (d *TeamDistrict) TerminateSystem(id uint64) bool {
	idx := d.teamIndex()
	if idx >= len(d.scenes) {
		return false
	}
	scene, ok := removeFromScene(d.scenes[idx], id)
	d.scenes[idx] = scene
	return ok
}

func (d *TeamDistrict) OnDistrictEnter(mkCtx func(*SystemContainer) *Context) {
	for _, c := range d.CurrentScene() {
		c.Startup(mkCtx(c))
	}
}

func (d *TeamDistrict) OnDistrictExit(mkCtx func(*SystemContainer) *Context) {
	for _, c := range d.CurrentScene() {
		c.Shutdown(mkCtx(c))
	}
}
