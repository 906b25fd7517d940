package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the session client.
var ErrRedisUnavailable = errors.New("redis unavailable")

const subscriberBuffer = 8

// Store is the process-wide, role-partitioned session store. In-memory state
// is authoritative for route guards and the client; Redis persistence is
// advisory — a stale persisted flag is corrected by the first failed
// credential check after restart.
//
// All methods are safe for concurrent use. Local mutations are applied
// synchronously before any persistence I/O, so a reader observes the new
// state even while a persistence call is still in flight.
type Store struct {
	mu      sync.RWMutex
	states  map[Role]State
	subs    map[Role]map[uint64]chan State
	nextSub uint64

	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewStore creates a session [Store]. redis may be nil, in which case the
// store is memory-only. prefix sets the Redis key namespace; snapshotTTL
// bounds how long a persisted snapshot outlives the process (0 means no
// expiry).
func NewStore(redis redis.UniversalClient, prefix string, snapshotTTL time.Duration) *Store {
	if prefix == "" {
		prefix = "scs"
	}
	return &Store{
		states: make(map[Role]State),
		subs:   make(map[Role]map[uint64]chan State),
		redis:  redis,
		prefix: prefix,
		ttl:    snapshotTTL,
	}
}

func (s *Store) key(role Role) string {
	return s.prefix + ":" + string(role)
}

// Login marks the role authenticated. Idempotent: repeated calls leave the
// state identical to a single call. The cached profile snapshot survives a
// re-login.
func (s *Store) Login(ctx context.Context, role Role) error {
	s.mu.Lock()
	st := s.states[role]
	st.Role = role
	st.IsAuthenticated = true
	st.UpdatedAt = time.Now().Unix()
	s.states[role] = st
	s.mu.Unlock()

	s.notify(role, st)
	return s.persist(ctx, st)
}

// Logout resets the role's partition to its initial state: flag cleared,
// role tag cleared, snapshot dropped. The local reset happens before the
// persisted snapshot is removed and is never reversed by a persistence
// failure.
func (s *Store) Logout(ctx context.Context, role Role) error {
	s.mu.Lock()
	delete(s.states, role)
	s.mu.Unlock()

	s.notify(role, State{})

	if s.redis == nil {
		return nil
	}
	if err := s.redis.Del(ctx, s.key(role)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// UpdateProfile merges the non-empty fields of the supplied snapshot into the
// role's cached profile. Caller-trusted: no validation is performed. A merge
// never clears fields the update leaves empty.
func (s *Store) UpdateProfile(ctx context.Context, role Role, fields Profile) error {
	if fields.isZero() {
		return nil
	}

	s.mu.Lock()
	st := s.states[role]
	st.Role = role
	st.Profile = st.Profile.merge(fields)
	st.UpdatedAt = time.Now().Unix()
	s.states[role] = st
	s.mu.Unlock()

	s.notify(role, st)
	return s.persist(ctx, st)
}

// State returns a copy of the role's current state. The zero [State] is
// returned for roles that never logged in.
func (s *Store) State(role Role) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[role]
}

// IsAuthenticated reports whether the role's last credential check succeeded
// and no forced logout has occurred since.
func (s *Store) IsAuthenticated(role Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[role].IsAuthenticated
}

// Subscribe registers a watcher for the role's state changes. The returned
// cancel func must be called to release the subscription. Slow consumers
// lose intermediate states: delivery is non-blocking and the channel holds
// the most recent notifications only.
func (s *Store) Subscribe(role Role) (<-chan State, func()) {
	ch := make(chan State, subscriberBuffer)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	if s.subs[role] == nil {
		s.subs[role] = make(map[uint64]chan State)
	}
	s.subs[role][id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs[role], id)
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Store) notify(role Role, st State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs[role] {
		select {
		case ch <- st:
		default:
		}
	}
}

// Hydrate loads persisted snapshots for the given roles into memory. Roles
// that already hold in-memory state are skipped — a live process never
// regresses to a stale snapshot. Snapshots persisted at an older schema
// version are re-encoded at the current version in place.
func (s *Store) Hydrate(ctx context.Context, roles ...Role) error {
	if s.redis == nil {
		return nil
	}
	if len(roles) == 0 {
		roles = []Role{RoleBusinessOwner, RoleManager, RoleEmployee, RoleSuperAdmin}
	}

	for _, role := range roles {
		data, err := s.redis.Get(ctx, s.key(role)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}

		st, err := Decode(data)
		if err != nil {
			// Corrupt snapshots are advisory data; drop rather than fail startup.
			_ = s.redis.Del(ctx, s.key(role))
			continue
		}

		if err := s.maybeMigrateSnapshotSchema(ctx, role, st); err != nil {
			return err
		}

		s.mu.Lock()
		if _, live := s.states[role]; !live {
			s.states[role] = *st
		}
		s.mu.Unlock()
	}

	return nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	if s.redis == nil {
		return 0, nil
	}
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}

func (s *Store) persist(ctx context.Context, st State) error {
	if s.redis == nil {
		return nil
	}

	data, err := Encode(&st)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(st.Role), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (s *Store) maybeMigrateSnapshotSchema(ctx context.Context, role Role, st *State) error {
	if st == nil || st.SchemaVersion == CurrentSchemaVersion {
		return nil
	}

	pttl, err := s.redis.PTTL(ctx, s.key(role)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if pttl < 0 {
		pttl = s.ttl
	}

	st.SchemaVersion = CurrentSchemaVersion
	encoded, err := Encode(st)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(role), encoded, pttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
