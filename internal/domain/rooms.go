package domain

import "fmt"

// Room is one entry of the room directory.
type Room struct {
	Name    string `yaml:"name"`
	Mention string `yaml:"mention"` // e.g. "<@&123456>" role or "<#123>" channel token
}

// RoomDirectory maps provider room ids to display names and mention tokens.
// It is built once at startup and read concurrently afterwards.
type RoomDirectory map[RoomID]Room

// DefaultRooms is used when no room file is configured.
func DefaultRooms() RoomDirectory {
	return RoomDirectory{
		1398:  {Name: "Dooby Doo"},
		2132:  {Name: "Syreni Śpiew"},
		12834: {Name: "Duchy Rosalie"},
		14978: {Name: "Trupia Główka"},
		10985: {Name: "Potworne Miasteczko"},
		10984: {Name: "American School Story"},
	}
}

// Name returns the configured room name or a synthesized "Room #<id>" label.
func (d RoomDirectory) Name(id RoomID) string {
	if r, ok := d[id]; ok && r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("Room #%d", int(id))
}

// Mention returns the mention token for the room, or "".
func (d RoomDirectory) Mention(id RoomID) string {
	return d[id].Mention
}

// WithMentions returns a copy of d with the given mention tokens applied.
// Ids missing from d are added with an empty name.
func (d RoomDirectory) WithMentions(mentions map[RoomID]string) RoomDirectory {
	out := make(RoomDirectory, len(d)+len(mentions))
	for id, r := range d {
		out[id] = r
	}
	for id, m := range mentions {
		r := out[id]
		r.Mention = m
		out[id] = r
	}
	return out
}
