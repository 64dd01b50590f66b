package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Gateway is the transport side of the world. None of these calls may block
// the simulation goroutine.
type Gateway interface {
	// Send delivers a control message to one connection (reliable channel)
	Send(conn ConnID, msg Envelope)
	// Broadcast delivers a control message to every connection (reliable channel)
	Broadcast(msg Envelope)
	// BroadcastState delivers a snapshot frame to every connection (best-effort)
	BroadcastState(frame []byte)
}

// World runs the fixed-cadence simulation. It exclusively owns the arena;
// the ingress queue is the only thing it shares with other goroutines.
type World struct {
	cfg      Config
	log      *zap.Logger
	gw       Gateway
	queue    *IngressQueue
	journal  *Journal
	arena    *Arena
	ids      *IDPool
	mediator *Mediator
	rng      *rand.Rand

	tick uint64
	now  float64 // simulation seconds
	dt   float64

	enemyTimer    float64
	spikeTimer    float64
	powerUpTimer  float64
	nextPowerUpID int
	lastDropped   uint64

	// reused between ticks
	inbox     []Inbound
	gone      []ConnID
	positions []Vec2
}

// NewWorld creates a world with the initial spike pickups seeded.
// journal may be nil.
func NewWorld(cfg Config, queue *IngressQueue, gw Gateway, journal *Journal, log *zap.Logger) *World {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	w := &World{
		cfg:     cfg,
		log:     log,
		gw:      gw,
		queue:   queue,
		journal: journal,
		arena:   NewArena(cfg.ArenaWidth, cfg.ArenaHeight),
		ids:     NewIDPool(MaxPlayerIDs),
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		dt:      1.0 / float64(cfg.TickRate),
	}
	w.mediator = NewMediator(w.arena, w)
	for len(w.arena.Spikes) < cfg.SpikeTarget {
		w.arena.Spikes = append(w.arena.Spikes, NewSpike(w.randomPos(SpikeSize)))
	}
	return w
}

// Arena exposes the entity collections. Only safe on the simulation goroutine.
func (w *World) Arena() *Arena { return w.arena }

// Tick returns the number of completed ticks
func (w *World) Tick() uint64 { return w.tick }

// Run steps the world at the configured rate until ctx is cancelled.
// A tick that has started always runs to completion.
func (w *World) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.TickDuration())
	defer ticker.Stop()

	w.log.Info("simulation started",
		zap.Int("tick_rate", w.cfg.TickRate),
		zap.Float64("arena_w", w.cfg.ArenaWidth),
		zap.Float64("arena_h", w.cfg.ArenaHeight))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("simulation stopped", zap.Uint64("ticks", w.tick))
			return nil
		case <-ticker.C:
			w.Step()
		}
	}
}

// Step runs one tick: drain input, advance entities, resolve collisions,
// prune, spawn, broadcast, then apply the disconnects drained with the input.
func (w *World) Step() {
	w.tick++
	w.now += w.dt

	w.inbox, w.gone = w.queue.Drain(w.inbox[:0], w.gone[:0])
	for _, in := range w.inbox {
		w.safeDispatch(in)
	}
	clear(w.inbox)
	w.noteDropped()

	w.advance()
	w.mediator.Resolve(w.now)

	for _, p := range w.arena.Prune() {
		w.ids.Release(p.ID)
	}

	w.maybeSpawnEnemy()
	w.maybeRespawnSpike()
	w.maybeSpawnPowerUp()

	w.broadcastSnapshot()

	for _, conn := range w.gone {
		w.disconnect(conn)
	}
}

func (w *World) advance() {
	for _, p := range w.arena.Players {
		p.ExpireEffects(w.now)
		if p.Alive && p.Weapon != nil {
			p.Weapon.Update(w.dt)
		}
	}
	w.positions = w.arena.PlayerPositions(w.positions)
	for _, e := range w.arena.Enemies {
		e.Update(w.positions, w.dt, w.arena.Width, w.arena.Height)
	}
	for _, b := range w.arena.Bullets {
		b.Update(w.dt)
	}
}

// safeDispatch keeps one bad message from taking down the simulation
func (w *World) safeDispatch(in Inbound) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("dispatch panic",
				zap.String("conn", string(in.Conn)),
				zap.String("cmd", fmt.Sprintf("%T", in.Cmd)),
				zap.Any("panic", r))
		}
	}()
	w.dispatch(in)
}

func (w *World) dispatch(in Inbound) {
	switch c := in.Cmd.(type) {
	case LoginCmd:
		w.handleLogin(in.Conn, c)
	case LogoutCmd:
		w.handleLogout(in.Conn, c)
	case MoveCmd:
		w.handleMove(in.Conn, c)
	case ShootCmd:
		w.handleShoot(in.Conn, c)
	case WeaponChangeCmd:
		w.handleWeaponChange(in.Conn, c)
	case PlaceSpikeCmd:
		w.handlePlaceSpike(in.Conn, c)
	case UndoSpikeCmd:
		w.handleUndoSpike(in.Conn, c)
	case ReloadCmd:
		w.handleReload(in.Conn, c)
	default:
		w.log.Debug("dropping unknown command", zap.String("cmd", fmt.Sprintf("%T", in.Cmd)))
	}
}

// player returns the live player with id if conn owns it, nil otherwise
func (w *World) player(conn ConnID, id int) *Player {
	p := w.arena.Player(id)
	if p == nil || p.ConnID != conn {
		w.log.Debug("dropping message for unknown player",
			zap.String("conn", string(conn)), zap.Int("player", id))
		return nil
	}
	return p
}

func (w *World) handleLogin(conn ConnID, c LoginCmd) {
	if existing := w.arena.PlayerByConn(conn); existing != nil {
		w.gw.Send(conn, Envelope{T: MsgLoginOK, Data: LoginOKMsg{ID: existing.ID}})
		return
	}
	id, err := w.ids.Acquire()
	if errors.Is(err, ErrPoolExhausted) {
		w.log.Warn("login rejected", zap.String("conn", string(conn)), zap.Error(err))
		w.gw.Send(conn, Envelope{T: MsgLoginRejected, Data: LoginRejectedMsg{Reason: "server full"}})
		w.track(EvtLoginReject, 0, conn)
		return
	}

	half := PlayerSize / 2
	pos := Vec2{
		X: Clamp(c.Pos.X, half, w.arena.Width-half),
		Y: Clamp(c.Pos.Y, half, w.arena.Height-half),
	}
	p := NewPlayer(id, conn, pos)
	p.Team = c.Team
	p.Weapon, _ = NewWeaponFromConfig(DefaultWeaponConfig)
	w.arena.AddPlayer(p)

	w.gw.Send(conn, Envelope{T: MsgLoginOK, Data: LoginOKMsg{ID: id}})
	w.track(EvtLogin, id, conn)
}

func (w *World) handleLogout(conn ConnID, c LogoutCmd) {
	if w.player(conn, c.PlayerID) == nil {
		return
	}
	w.removePlayer(c.PlayerID)
	w.track(EvtLogout, c.PlayerID, conn)
}

func (w *World) handleMove(conn ConnID, c MoveCmd) {
	p := w.player(conn, c.PlayerID)
	if p == nil {
		return
	}
	p.Move(c.Dir, w.dt, w.now, w.arena.Width, w.arena.Height)
}

func (w *World) handleShoot(conn ConnID, c ShootCmd) {
	p := w.player(conn, c.PlayerID)
	if p == nil || !p.Alive || p.Weapon == nil {
		return
	}
	weapon := p.Weapon
	if !weapon.TryFire() {
		return
	}
	b := NewBullet(p.ID, p.Pos, DegToRad(c.Angle), weapon.Stats, w.cfg.TickRate)
	w.arena.Bullets = append(w.arena.Bullets, b)
	if weapon.State() == StateEmpty {
		w.InventoryChanged(p)
	}
}

func (w *World) handleWeaponChange(conn ConnID, c WeaponChangeCmd) {
	p := w.player(conn, c.PlayerID)
	if p == nil || !p.Alive {
		return
	}
	weapon, err := NewWeaponFromConfig(c.Config)
	if err != nil {
		w.log.Debug("dropping weapon change", zap.Int("player", p.ID), zap.Error(err))
		return
	}
	p.Weapon = weapon
}

func (w *World) handlePlaceSpike(conn ConnID, c PlaceSpikeCmd) {
	p := w.player(conn, c.PlayerID)
	if p == nil || !p.Alive || p.Spikes <= 0 {
		return
	}
	p.Spikes--
	w.arena.PlacedSpikes = append(w.arena.PlacedSpikes, NewPlacedSpike(p.ID, p.Pos, NormalizeDegrees(c.Rotation)))
	w.InventoryChanged(p)
}

// handleUndoSpike takes back the player's most recent trap that has not fired
func (w *World) handleUndoSpike(conn ConnID, c UndoSpikeCmd) {
	p := w.player(conn, c.PlayerID)
	if p == nil || !p.Alive {
		return
	}
	placed := w.arena.PlacedSpikes
	for i := len(placed) - 1; i >= 0; i-- {
		s := placed[i]
		if s.OwnerID != p.ID || !s.Armed() {
			continue
		}
		s.Visible = false
		w.arena.PlacedSpikes = removeFirst(placed, s)
		p.Spikes++
		w.InventoryChanged(p)
		return
	}
}

func (w *World) handleReload(conn ConnID, c ReloadCmd) {
	p := w.player(conn, c.PlayerID)
	if p == nil || !p.Alive || p.Weapon == nil {
		return
	}
	if p.Weapon.TryReload() {
		w.InventoryChanged(p)
	}
}

// disconnect removes whatever player conn had logged in
func (w *World) disconnect(conn ConnID) {
	p := w.arena.PlayerByConn(conn)
	if p == nil {
		return
	}
	w.removePlayer(p.ID)
	w.track(EvtDisconnect, p.ID, conn)
}

func (w *World) removePlayer(id int) {
	if w.arena.RemovePlayer(id) != nil {
		w.ids.Release(id)
	}
}

// PlayerDied announces a death to everyone
func (w *World) PlayerDied(p *Player) {
	w.gw.Broadcast(Envelope{T: MsgDied, Data: DiedMsg{ID: p.ID}})
	w.track(EvtDeath, p.ID, p.ConnID)
}

// InventoryChanged sends the player its spike count and reload hint
func (w *World) InventoryChanged(p *Player) {
	reload := p.Weapon != nil && p.Weapon.State() == StateEmpty
	w.gw.Send(p.ConnID, Envelope{T: MsgInventory, Data: InventoryMsg{
		ID:     p.ID,
		Spikes: p.Spikes,
		Reload: reload,
	}})
}

func (w *World) maybeSpawnEnemy() {
	w.enemyTimer += w.dt
	if w.enemyTimer < w.cfg.EnemySpawnInterval {
		return
	}
	if len(w.arena.Enemies) >= w.cfg.EnemyCap {
		return
	}
	w.enemyTimer = 0
	if w.rng.Float64() >= w.cfg.EnemySpawnChance {
		return
	}
	e := NewEnemy(w.rng, w.arena.Width, w.arena.Height, RandomBehavior(w.rng))
	w.arena.Enemies = append(w.arena.Enemies, e)
}

func (w *World) maybeRespawnSpike() {
	if len(w.arena.Spikes) >= w.cfg.SpikeTarget {
		w.spikeTimer = 0
		return
	}
	w.spikeTimer += w.dt
	if w.spikeTimer < w.cfg.SpikeRespawn {
		return
	}
	w.spikeTimer = 0
	w.arena.Spikes = append(w.arena.Spikes, NewSpike(w.randomPos(SpikeSize)))
}

func (w *World) maybeSpawnPowerUp() {
	if len(w.arena.PowerUps) >= w.cfg.PowerUpCap {
		w.powerUpTimer = 0
		return
	}
	w.powerUpTimer += w.dt
	if w.powerUpTimer < w.cfg.PowerUpRespawn {
		return
	}
	w.powerUpTimer = 0
	w.nextPowerUpID++
	typ := PowerUpType(w.rng.IntN(int(powerUpTypeCount)))
	w.arena.AddPowerUp(NewPowerUp(w.nextPowerUpID, typ, w.randomPos(PowerUpSize)))
}

func (w *World) broadcastSnapshot() {
	frame, err := EncodeSnapshot(BuildSnapshot(w.arena, w.tick, w.now))
	if err != nil {
		w.log.Warn("snapshot encode failed", zap.Error(err))
		return
	}
	w.gw.BroadcastState(frame)
}

func (w *World) noteDropped() {
	dropped := w.queue.Dropped()
	if dropped == w.lastDropped {
		return
	}
	w.log.Warn("ingress queue overflow", zap.Uint64("dropped", dropped-w.lastDropped))
	w.track(EvtQueueDropped, 0, "")
	w.lastDropped = dropped
}

func (w *World) randomPos(size float64) Vec2 {
	half := size / 2
	return Vec2{
		X: randRange(w.rng, half, w.arena.Width-half),
		Y: randRange(w.rng, half, w.arena.Height-half),
	}
}

func (w *World) track(evt string, playerID int, conn ConnID) {
	if w.journal != nil {
		w.journal.Track(evt, playerID, conn, w.tick)
	}
}
