package player

import (
	"time"

	"github.com/google/uuid"

	"github.com/ironreach/starforge/internal/galaxy"
)

// Player :
// One registered account. Identified internally by `ID`; reconnects
// authenticate by presenting `Token`, per §4.4 and
// `original_source/server/player_manager.py`.
type Player struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Token        string `json:"token"`
	HomeSystemID string `json:"home_system_id"`
	LastSeen     int64  `json:"last_seen"`
	GalaxyPath   string `json:"galaxy_path"`

	Galaxy *galaxy.Map `json:"-"`
}

// New :
// Creates a fresh player with a random id and token.
func New(name string) *Player {
	return &Player{
		ID:       uuid.NewString(),
		Name:     name,
		Token:    uuid.NewString(),
		LastSeen: time.Now().Unix(),
	}
}

// Touch :
// Updates `LastSeen` to the current wall-clock time. Called on every
// successful login, not just on account creation, so recency reflects
// the player's last reconnect rather than their join date.
func (p *Player) Touch() {
	p.LastSeen = time.Now().Unix()
}
