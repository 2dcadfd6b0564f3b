package game

import "github.com/victornm/livequiz/internal/domain"

// roster tracks the players joined to one room, in insertion order so
// standings render deterministically. The connection ID is the key;
// display names carry no uniqueness constraint.
//
// roster is not safe for concurrent use; the owning session serializes
// access under its own mutex.
type roster struct {
	players []domain.Player
	index   map[string]int // conn ID -> position in players
}

func newRoster() *roster {
	return &roster{
		index: make(map[string]int),
	}
}

// Add registers a player. Adding a connection that is already present
// updates the display name (and reactivates the entry) instead of
// creating a duplicate.
func (r *roster) Add(connID, name string) domain.Player {
	if i, ok := r.index[connID]; ok {
		r.players[i].Name = name
		r.players[i].Active = true
		return r.players[i]
	}

	p := domain.Player{ConnID: connID, Name: name, Active: true}
	r.index[connID] = len(r.players)
	r.players = append(r.players, p)
	return p
}

// Deactivate marks a player as disconnected. The entry stays so the
// player's accumulated score survives into the final standings.
func (r *roster) Deactivate(connID string) (domain.Player, bool) {
	i, ok := r.index[connID]
	if !ok {
		return domain.Player{}, false
	}

	r.players[i].Active = false
	return r.players[i], true
}

func (r *roster) Contains(connID string) bool {
	_, ok := r.index[connID]
	return ok
}

func (r *roster) Get(connID string) (domain.Player, bool) {
	i, ok := r.index[connID]
	if !ok {
		return domain.Player{}, false
	}
	return r.players[i], true
}

// Active returns currently connected players in insertion order.
func (r *roster) Active() []domain.Player {
	out := make([]domain.Player, 0, len(r.players))
	for _, p := range r.players {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

// All returns every entry ever added, including disconnected players.
func (r *roster) All() []domain.Player {
	out := make([]domain.Player, len(r.players))
	copy(out, r.players)
	return out
}

func (r *roster) Len() int {
	return len(r.players)
}
