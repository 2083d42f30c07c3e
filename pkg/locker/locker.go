package locker

import (
	"fmt"
	"sync"

	"github.com/ironreach/starforge/pkg/logger"

	"github.com/spf13/viper"
)

// ConcurrentLocker :
// Provides a concurrent lock mechanism allowing the scheduler's three tick
// loops and the session layer to share access to a player's galaxy state
// without serializing every request behind a single mutex.
//
// The production/build/persistence ticks and the command dispatcher all
// touch a player's planets. Locking the entire galaxy model for the
// duration of a single player's update would stall every other connected
// player; creating one mutex per player is wasteful once thousands of
// accounts have ever logged in, most of them idle. Instead a fixed-size
// pool of locks is handed out on demand and associated with a player id:
// the first caller to touch a given player gets a fresh lock from the
// pool, subsequent callers touching the same player reuse it, and the
// lock returns to the pool once nobody references it anymore.
//
// The `locker` is the top level mutex that allows using this object
// concurrently without losing thread safety.
//
// The `locks` defines a slice of locks that can be used to protect the
// concurrent access to a particular player. There are only a finite
// number of them and once all of them are used a call to `Acquire`
// becomes blocking.
//
// The `availableLocks` is used internally to determine which of the
// locks are available and which ones are already distributed to
// callers.
//
// The `registered` maps a player id to the index of the lock currently
// serving it. Entries are erased on the matching `Release` call.
//
// The `cout` notifies errors and information about the process going on
// internally within this element.
type ConcurrentLocker struct {
	locker         sync.Mutex
	locks          []*Lock
	availableLocks chan int
	registered     map[string]int
	cout           logger.Logger
}

// Lock :
// Protects the access to a single player's state by providing a way for
// concurrent callers to wait on it.
//
// The `id` defines the index of this lock in the internal channel of the
// `ConcurrentLocker`. Negative while the lock is not in use.
//
// The `res` defines the player id currently assigned to this lock.
//
// The `use` defines how many concurrent callers currently reference this
// lock.
//
// The `waiter` is used by `Lock`/`Release` to make sure a single caller
// holds the resource secured by this lock at any time.
type Lock struct {
	id     int
	res    string
	use    int
	waiter chan struct{}
}

// configuration :
// Regroups the variables used to customize the number of locks served in
// parallel by an instance of the `ConcurrentLocker`.
//
// The `LockCount` defines the number of locks that can be distributed
// amongst callers before `Acquire` becomes blocking.
// The default value is `32`.
type configuration struct {
	LockCount int
}

// parseConfiguration :
// Parses the configuration file and environment variables for the
// `Concurrent` properties.
//
// Returns the parsed configuration where all non-set properties have
// their default values.
func parseConfiguration() configuration {
	config := configuration{
		LockCount: 32,
	}

	if viper.IsSet("Concurrent.LockCount") {
		config.LockCount = viper.GetInt("Concurrent.LockCount")
	}

	return config
}

// NewConcurrentLocker :
// Creates a new `ConcurrentLocker` with configuration values retrieved
// from the environment variables and config file provided to the
// server.
//
// The `log` is assigned as the internal logging mean for this locker.
//
// Returns the created concurrent locker.
func NewConcurrentLocker(log logger.Logger) *ConcurrentLocker {
	config := parseConfiguration()

	allLocks := make([]*Lock, config.LockCount)
	ids := make(chan int, config.LockCount)

	for id := range allLocks {
		allLocks[id] = &Lock{
			id:     -1,
			res:    "",
			use:    0,
			waiter: make(chan struct{}, 1),
		}
		allLocks[id].waiter <- struct{}{}

		ids <- id
	}

	cl := ConcurrentLocker{
		locker:         sync.Mutex{},
		locks:          allLocks,
		availableLocks: ids,
		registered:     make(map[string]int),
		cout:           log,
	}

	return &cl
}

// Acquire :
// Tries to acquire a locker for the specified player. Queries the
// internal lockers and sees whether one instance is already registered
// for this player; if so returns it and bumps its usage count. If no
// lock exists yet, waits for one to become free (blocking if the whole
// pool is currently in use) and registers it for this player.
//
// The `playerID` identifies the player for which a locker should be
// acquired.
//
// Returns the locker acquired for this player.
func (cl *ConcurrentLocker) Acquire(playerID string) *Lock {
	var l *Lock

	func() {
		cl.locker.Lock()
		defer cl.locker.Unlock()

		id, ok := cl.registered[playerID]
		if ok {
			l = cl.locks[id]
			l.use++

			cl.cout.Trace(logger.Debug, "locker", fmt.Sprintf("adding user to player %q (id: %d, usage: %d, available: %d)", l.res, l.id, l.use, len(cl.availableLocks)))
		}
	}()

	if l != nil {
		return l
	}

	id := <-cl.availableLocks

	func() {
		cl.locker.Lock()
		defer cl.locker.Unlock()

		cl.registered[playerID] = id

		l = cl.locks[id]
		l.id = id
		l.res = playerID
		l.use++

		cl.cout.Trace(logger.Debug, "locker", fmt.Sprintf("creating locker on player %q (id: %d, available: %d)", l.res, l.id, len(cl.availableLocks)))
	}()

	return l
}

// Release :
// Releases the lock provided in input and puts it back in the pool of
// available locks once no other caller references it.
//
// The `lock` defines the locker to release. If this value is `nil`
// nothing happens.
func (cl *ConcurrentLocker) Release(lock *Lock) {
	if lock == nil {
		return
	}

	cl.locker.Lock()
	defer cl.locker.Unlock()

	lock.use--

	if lock.use > 0 {
		return
	}

	cl.cout.Trace(logger.Debug, "locker", fmt.Sprintf("releasing locker on player %q at index %d (available: %d)", lock.res, lock.id, len(cl.availableLocks)))

	delete(cl.registered, lock.res)
	cl.availableLocks <- lock.id

	lock.id = -1
	lock.res = ""
}

// Lock :
// Waits to obtain the lock so that the calling goroutine is the only one
// able to access the player state secured by this object. Blocks until
// the current holder releases it through `Release`.
func (l *Lock) Lock() {
	<-l.waiter
}

// Release :
// Releases this lock so that other callers can access the player state
// protected by it.
//
// Returns an error if the lock has already been released, or if
// `Release` is called without a matching prior `Lock` call.
func (l *Lock) Release() error {
	if len(l.waiter) > 0 {
		return fmt.Errorf("cannot release lock on player %q, already released", l.res)
	}

	l.waiter <- struct{}{}

	return nil
}
