package leaderboard

import (
	"lol-leaderboard/internal/domain"
)

type queueKey struct {
	playerID string
	queue    domain.Queue
}

// Store holds the latest roster, rank snapshots, match histories and presence. Every collection is
// replaced wholesale: the new collection is built completely before the reference is swapped.
// Store is not safe for concurrent use; the session loop is its only caller.
type Store struct {
	roster    []domain.Player
	ranks     map[queueKey]domain.RankSnapshot
	histories map[queueKey]domain.MatchHistory
	presence  map[string]domain.PresenceRecord
}

func NewStore() *Store {
	return &Store{
		ranks:     map[queueKey]domain.RankSnapshot{},
		histories: map[queueKey]domain.MatchHistory{},
		presence:  map[string]domain.PresenceRecord{},
	}
}

// ReplaceRoster keeps active players only, in source order.
func (s *Store) ReplaceRoster(players []domain.Player) {
	roster := make([]domain.Player, 0, len(players))
	for _, p := range players {
		if p.Active {
			roster = append(roster, p)
		}
	}
	s.roster = roster
}

func (s *Store) ReplaceRankSnapshots(snaps []domain.RankSnapshot) {
	s.ranks = index(snaps, func(r domain.RankSnapshot) queueKey {
		return queueKey{playerID: r.PlayerID, queue: r.Queue}
	})
}

func (s *Store) ReplaceMatchHistories(histories []domain.MatchHistory) {
	s.histories = index(histories, func(h domain.MatchHistory) queueKey {
		return queueKey{playerID: h.PlayerID, queue: h.Queue}
	})
}

func (s *Store) ReplacePresence(records []domain.PresenceRecord) {
	s.presence = index(records, func(p domain.PresenceRecord) string {
		return p.PlayerID
	})
}

// Roster returns the active players. Callers must not modify the slice.
func (s *Store) Roster() []domain.Player {
	return s.roster
}

func (s *Store) RankSnapshot(playerID string, queue domain.Queue) (domain.RankSnapshot, bool) {
	r, ok := s.ranks[queueKey{playerID: playerID, queue: queue}]
	return r, ok
}

func (s *Store) MatchHistory(playerID string, queue domain.Queue) (domain.MatchHistory, bool) {
	h, ok := s.histories[queueKey{playerID: playerID, queue: queue}]
	return h, ok
}

func (s *Store) Presence(playerID string) (domain.PresenceRecord, bool) {
	p, ok := s.presence[playerID]
	return p, ok
}

// index builds a fresh map; a later item with the same key wins.
func index[K comparable, V any](items []V, key func(V) K) map[K]V {
	m := make(map[K]V, len(items))
	for _, item := range items {
		m[key(item)] = item
	}
	return m
}
