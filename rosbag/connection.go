package rosbag

import (
	"strconv"
	"strings"
)

// Connection is a named channel (topic + message schema) against which
// messages are written. It is created once by AddConnection and never
// destroyed; its ID is dense and zero-based.
type Connection struct {
	ID          uint32
	Topic       string
	MsgType     string
	MsgDef      string
	MD5Sum      string
	CallerID    string // meaningful only if HasCallerID
	HasCallerID bool
	Latching    int // meaningful only if HasLatching
	HasLatching bool
}

// connectionRegistry assigns monotonic ids and enforces that no two
// connections share the same (topic, msgtype, msgdef, md5sum, callerid,
// latching) tuple.
type connectionRegistry struct {
	conns []*Connection
	seen  map[string]bool
}

func newConnectionRegistry() *connectionRegistry {
	return &connectionRegistry{seen: make(map[string]bool)}
}

func identityKey(topic, msgtype, msgdef, md5sum, callerid string, hasCallerID bool, latching int, hasLatching bool) string {
	var b strings.Builder
	b.WriteString(topic)
	b.WriteByte(0)
	b.WriteString(msgtype)
	b.WriteByte(0)
	b.WriteString(msgdef)
	b.WriteByte(0)
	b.WriteString(md5sum)
	b.WriteByte(0)
	if hasCallerID {
		b.WriteString(callerid)
	}
	b.WriteByte(0)
	if hasLatching {
		b.WriteString(strconv.Itoa(latching))
	}
	return b.String()
}

// add registers a new connection, assigning it the next dense id. It
// returns ErrDuplicateConnection if the identifying tuple is already
// registered.
func (r *connectionRegistry) add(topic, msgtype, msgdef, md5sum, callerid string, hasCallerID bool, latching int, hasLatching bool) (*Connection, error) {
	key := identityKey(topic, msgtype, msgdef, md5sum, callerid, hasCallerID, latching, hasLatching)
	if r.seen[key] {
		return nil, ErrDuplicateConnection
	}
	c := &Connection{
		ID:          uint32(len(r.conns)),
		Topic:       topic,
		MsgType:     msgtype,
		MsgDef:      msgdef,
		MD5Sum:      md5sum,
		CallerID:    callerid,
		HasCallerID: hasCallerID,
		Latching:    latching,
		HasLatching: hasLatching,
	}
	r.seen[key] = true
	r.conns = append(r.conns, c)
	return c, nil
}

func (r *connectionRegistry) get(id uint32) (*Connection, bool) {
	if int(id) >= len(r.conns) {
		return nil, false
	}
	return r.conns[id], true
}

func (r *connectionRegistry) len() int {
	return len(r.conns)
}
