package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/negan-1/lockme-discord-bot/internal/domain"
)

// roomsFile is the on-disk layout of ROOMS_FILE:
//
//	rooms:
//	  1398:
//	    name: Dooby Doo
//	    mention: "<@&123456789>"
type roomsFile struct {
	Rooms map[domain.RoomID]domain.Room `yaml:"rooms"`
}

// LoadRooms reads the room directory from a YAML file. An empty path returns
// domain.DefaultRooms. Entries in the file replace the defaults with the same id.
func LoadRooms(path string) (domain.RoomDirectory, error) {
	rooms := domain.DefaultRooms()
	if strings.TrimSpace(path) == "" {
		return rooms, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ROOMS_FILE: %w", err)
	}
	var f roomsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("ROOMS_FILE %s: %w", path, err)
	}
	for id, r := range f.Rooms {
		r.Name = strings.TrimSpace(r.Name)
		r.Mention = strings.TrimSpace(r.Mention)
		rooms[id] = r
	}
	return rooms, nil
}

// ParseMentions parses ROOM_MENTIONS, a comma separated list of
// "<room id>=<mention token>" pairs such as "1398=<@&111>,2132=<@&222>".
func ParseMentions(s string) (map[domain.RoomID]string, error) {
	out := map[domain.RoomID]string{}
	for _, pair := range splitCSV(s) {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("ROOM_MENTIONS: %q is not id=token", pair)
		}
		id, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("ROOM_MENTIONS: bad room id %q", k)
		}
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, errors.New("ROOM_MENTIONS: empty mention for room " + strconv.Itoa(id))
		}
		out[domain.RoomID(id)] = v
	}
	return out, nil
}
