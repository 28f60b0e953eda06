package renderer

import (
	"fmt"

	"github.com/sasha-s/go-deadlock"
)

// lockLevel is the position of a lock in the global acquisition order.
type lockLevel uint8

const (
	lockLoadedMeshes lockLevel = iota
	lockQueue
	lockCulledQueue
	lockMeshesToLoad
	lockMeshesToUnload
	lockPreparingTasks
	lockLevels
)

var lockNames = [lockLevels]string{
	"loadedMeshes", "queue", "culledQueue", "meshesToLoad", "meshesToUnload", "preparingTasks",
}

func (l lockLevel) String() string {
	if l < lockLevels {
		return lockNames[l]
	}
	return fmt.Sprintf("lock(%d)", l)
}

// orderedLocks guards the scheduler collections, one mutex per collection.
type orderedLocks struct {
	mu     [lockLevels]deadlock.Mutex
	checks bool
}

// acquire locks levels, which must be strictly ascending, and returns the release func.
func (l *orderedLocks) acquire(levels ...lockLevel) func() {
	if l.checks {
		checkLockOrder(levels)
	}
	for _, lv := range levels {
		l.mu[lv].Lock()
	}
	return func() {
		for i := len(levels) - 1; i >= 0; i-- {
			l.mu[levels[i]].Unlock()
		}
	}
}

func checkLockOrder(levels []lockLevel) {
	for i := 1; i < len(levels); i++ {
		if levels[i] <= levels[i-1] {
			panic(fmt.Sprintf("renderer: lock order violation, %s requested after %s", levels[i], levels[i-1]))
		}
	}
}

// allLocks is every collection lock in order.
var allLocks = []lockLevel{
	lockLoadedMeshes, lockQueue, lockCulledQueue, lockMeshesToLoad, lockMeshesToUnload, lockPreparingTasks,
}
