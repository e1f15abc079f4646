package relay

import "errors"

var (
	// ErrRoomNotFound means a join named a code with no live room.
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomCapacity means the code space is exhausted and no new room
	// can be created until existing ones are torn down.
	ErrRoomCapacity = errors.New("room code space exhausted")
)

// maxCodeAttempts bounds collision re-rolls during room creation so a
// nearly-full code space degrades into ErrRoomCapacity instead of a
// spin loop.
const maxCodeAttempts = 100

// Room is an ephemeral group of connections sharing a short code,
// typically one screen plus any number of remotes.
type Room struct {
	Code    string
	Members []*Client
}

// RoomStore owns every live room plus the reverse connection-to-room
// index, kept in lockstep: a connection is in the reverse index exactly
// when it is a member of the room it maps to, and an emptied room is
// deleted immediately.
//
// The store is not safe for concurrent use. Every mutation happens on
// the hub goroutine (see Hub.Run), which serializes joins against room
// deletion for free.
type RoomStore struct {
	codes    *CodeGenerator
	rooms    map[string]*Room
	byClient map[*Client]string
}

// NewRoomStore builds an empty store that mints codes from gen.
func NewRoomStore(gen *CodeGenerator) *RoomStore {
	return &RoomStore{
		codes:    gen,
		rooms:    make(map[string]*Room),
		byClient: make(map[*Client]string),
	}
}

// CreateRoom mints an unused code and creates a room with owner as its
// sole member. It fails with ErrRoomCapacity when the code space is
// full or collisions exhaust the retry budget.
func (s *RoomStore) CreateRoom(owner *Client) (string, error) {
	if len(s.rooms) >= s.codes.SpaceSize() {
		return "", ErrRoomCapacity
	}

	var code string
	for attempt := 0; ; attempt++ {
		if attempt == maxCodeAttempts {
			return "", ErrRoomCapacity
		}
		code = s.codes.Generate()
		if _, taken := s.rooms[code]; !taken {
			break
		}
	}

	s.rooms[code] = &Room{Code: code, Members: []*Client{owner}}
	s.byClient[owner] = code
	return code, nil
}

// JoinRoom appends c to the room identified by code. A connection can
// belong to at most one room, so a member joining elsewhere is moved:
// removed from its current room first, then added. Joining the room it
// is already in is a no-op.
func (s *RoomStore) JoinRoom(code string, c *Client) error {
	room, ok := s.rooms[code]
	if !ok {
		return ErrRoomNotFound
	}

	if prev, joined := s.byClient[c]; joined {
		if prev == code {
			return nil
		}
		s.RemoveConnection(c)
	}

	room.Members = append(room.Members, c)
	s.byClient[c] = code
	return nil
}

// RemoveConnection detaches c from its room, deleting the room once it
// has no members left. It tolerates connections that never joined and
// repeated calls for the same connection, since a transport error and a
// close event may both trigger cleanup.
func (s *RoomStore) RemoveConnection(c *Client) {
	code, ok := s.byClient[c]
	if !ok {
		return
	}
	delete(s.byClient, c)

	room, ok := s.rooms[code]
	if !ok {
		return
	}
	for i, m := range room.Members {
		if m == c {
			room.Members = append(room.Members[:i], room.Members[i+1:]...)
			break
		}
	}
	if len(room.Members) == 0 {
		delete(s.rooms, code)
	}
}

// MembersExcept returns the other members of the room for fan-out, or
// nil when the room no longer exists.
func (s *RoomStore) MembersExcept(code string, c *Client) []*Client {
	room, ok := s.rooms[code]
	if !ok {
		return nil
	}
	others := make([]*Client, 0, len(room.Members))
	for _, m := range room.Members {
		if m != c {
			others = append(others, m)
		}
	}
	return others
}

// RoomOf reports the code of the room c belongs to, if any.
func (s *RoomStore) RoomOf(c *Client) (string, bool) {
	code, ok := s.byClient[c]
	return code, ok
}

// Len is the number of live rooms.
func (s *RoomStore) Len() int {
	return len(s.rooms)
}
