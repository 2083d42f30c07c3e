package session

import (
	"fmt"
	"net"
	"sync"

	"github.com/ironreach/starforge/internal/dispatch"
	"github.com/ironreach/starforge/internal/galaxy"
	"github.com/ironreach/starforge/internal/planet"
	"github.com/ironreach/starforge/internal/player"
	"github.com/ironreach/starforge/internal/protocol"
	"github.com/ironreach/starforge/internal/registry"
	"github.com/ironreach/starforge/pkg/logger"
)

// Connection :
// One client's TCP session: the underlying socket, the player it
// authenticated as, and a dedicated send mutex taken around every frame
// written to the socket, so two frames never interleave on the wire. The
// tick scheduler sends nothing to clients; every frame comes from this
// connection's own login and command handling. Per §5 and
// `original_source/server/server_main.py`'s per-writer `asyncio.Lock`.
type Connection struct {
	conn   net.Conn
	player *player.Player

	sendMu sync.Mutex

	reg     *registry.Registry
	players *player.Manager
	log     logger.Logger
}

// newConnection :
// Wraps an accepted socket, not yet authenticated.
func newConnection(conn net.Conn, reg *registry.Registry, players *player.Manager, log logger.Logger) *Connection {
	return &Connection{conn: conn, reg: reg, players: players, log: log}
}

// send :
// Writes one length-prefixed frame, serialized, under the send mutex.
func (c *Connection) send(msgType string, payload map[string]interface{}) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return protocol.WriteFrame(c.conn, msgType, payload)
}

// SendUpdate :
// Pushes a `planet_update` acknowledgement for the most recently
// dispatched action, per §4.7.
func (c *Connection) SendUpdate(action dispatch.Action, target *planet.Planet) error {
	return c.send(protocol.MsgPlanetUpdate, map[string]interface{}{
		"planet_id":        target.ID,
		"planet_global_id": target.GlobalID,
		"action":           string(action),
		"new_state":        target.ToSnapshot(),
	})
}

// run :
// Drives one client's lifetime: the login handshake, the registry and
// galaxy pushes, then the command loop until the connection closes.
func (c *Connection) run(maxFrameBytes int) {
	defer c.conn.Close()

	addr := c.conn.RemoteAddr()
	c.log.Trace(logger.Info, "session", fmt.Sprintf("new client connection from %v", addr))

	if err := c.handleLogin(maxFrameBytes); err != nil {
		c.log.Trace(logger.Warning, "session", fmt.Sprintf("login failed for %v: %v", addr, err))
		return
	}

	c.log.Trace(logger.Info, "session", fmt.Sprintf("player '%s' logged in successfully", c.player.Name))

	if err := c.pushRegistry(); err != nil {
		c.log.Trace(logger.Error, "session", fmt.Sprintf("failed to push registry to %s: %v", c.player.Name, err))
		return
	}
	if err := c.pushGalaxy(); err != nil {
		c.log.Trace(logger.Error, "session", fmt.Sprintf("failed to push galaxy to %s: %v", c.player.Name, err))
		return
	}

	c.commandLoop(maxFrameBytes)

	c.log.Trace(logger.Info, "session", fmt.Sprintf("client %v disconnected", addr))
}

func (c *Connection) handleLogin(maxFrameBytes int) error {
	frame, err := protocol.ReadFrame(c.conn, maxFrameBytes)
	if err != nil {
		return err
	}
	if frame.Type != protocol.MsgLogin {
		return protocol.ErrUnexpectedType
	}

	token, _ := frame.Payload["token"].(string)
	name, ok := frame.Payload["name"].(string)
	if !ok {
		return protocol.ErrAuthError
	}

	c.player = c.players.Resolve(token, name)

	return c.send(protocol.MsgLoginAck, map[string]interface{}{
		"player_id":      c.player.ID,
		"token":          c.player.Token,
		"home_system_id": c.player.HomeSystemID,
	})
}

func (c *Connection) pushRegistry() error {
	return c.send(protocol.MsgRegistrySync, map[string]interface{}{
		"registry": c.reg.ToWire(),
	})
}

func (c *Connection) pushGalaxy() error {
	return c.send(protocol.MsgFullGalaxySync, map[string]interface{}{
		"galaxy": c.player.Galaxy,
	})
}

func (c *Connection) commandLoop(maxFrameBytes int) {
	for {
		frame, err := protocol.ReadFrame(c.conn, maxFrameBytes)
		if err != nil {
			if err != protocol.ErrConnectionClosed {
				c.log.Trace(logger.Warning, "session", fmt.Sprintf("read error for %s: %v", c.player.Name, err))
			}
			return
		}

		switch frame.Type {
		case protocol.MsgPlanetAction:
			c.handlePlanetAction(frame.Payload)
		default:
			c.log.Trace(logger.Warning, "session", fmt.Sprintf("unknown packet type: %s", frame.Type))
		}
	}
}

func (c *Connection) handlePlanetAction(payload map[string]interface{}) {
	action, _ := payload["action"].(string)
	globalID, _ := asInt64(payload["planet_global_id"])

	target := findPlanetByGlobalID(c.player.Galaxy, globalID)
	if target == nil {
		c.log.Trace(logger.Warning, "session", fmt.Sprintf("planet with global id %d not found for %s", globalID, c.player.Name))
		return
	}

	l := c.players.LockPlayer(c.player.ID)
	defer c.players.UnlockPlayer(l)

	if err := dispatch.Dispatch(c.reg, target, dispatch.Action(action), payload["data"]); err != nil {
		c.log.Trace(logger.Error, "session", fmt.Sprintf("action '%s' failed for planet %s: %v", action, target.Name, err))
		return
	}

	if err := c.SendUpdate(dispatch.Action(action), target); err != nil {
		c.log.Trace(logger.Error, "session", fmt.Sprintf("failed to send planet_update for %s: %v", target.Name, err))
	}
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// findPlanetByGlobalID :
// Scans every star-system hex of `g` for a planet with `globalID`, per
// `find_planet_by_global_id` in
// `original_source/server/server_main.py`.
func findPlanetByGlobalID(g *galaxy.Map, globalID int64) *planet.Planet {
	if g == nil {
		return nil
	}
	for _, h := range g.Grid {
		if !h.HasStarSystem() {
			continue
		}
		for _, p := range h.Contents.Planets {
			if p.GlobalID == globalID {
				return p
			}
		}
	}
	return nil
}
