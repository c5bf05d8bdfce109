package state

import (
	"github.com/idilsaglam/taskdeck/internal/model"
)

// Phase of a tracked collection. Transitions:
//
//	Idle -> Loading -> {Loaded, Errored}
//	Loaded -> Mutating -> Loaded (confirmed, or rolled back via refetch)
type Phase int

const (
	Idle Phase = iota
	Loading
	Mutating
	Loaded
	Errored
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Mutating:
		return "mutating"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	}
	return "unknown"
}

// Collection is the in-memory view of the user's tasks, owned by whichever
// view currently mounts it. The UI event loop is single-threaded, so there
// is no lock; concurrent ownership across views is not a thing here.
type Collection struct {
	phase Phase
	tasks []model.Task
	err   error
}

func NewCollection() *Collection {
	return &Collection{phase: Idle}
}

func (c *Collection) Phase() Phase { return c.phase }
func (c *Collection) Err() error   { return c.err }

// Tasks returns the rendered slice. Callers must not mutate it.
func (c *Collection) Tasks() []model.Task { return c.tasks }

func (c *Collection) Len() int { return len(c.tasks) }

func (c *Collection) Get(id string) (model.Task, bool) {
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// At returns the task at a position, for index-addressed CLI commands.
func (c *Collection) At(i int) (model.Task, bool) {
	if i < 0 || i >= len(c.tasks) {
		return model.Task{}, false
	}
	return c.tasks[i], true
}

// BeginLoad marks a fetch in flight.
func (c *Collection) BeginLoad() {
	c.phase = Loading
	c.err = nil
}

// Load installs authoritative server state. Also the rollback path: a
// failed mutation refetches and lands here.
func (c *Collection) Load(tasks []model.Task) {
	c.tasks = tasks
	c.phase = Loaded
	c.err = nil
}

// Fail records a load failure.
func (c *Collection) Fail(err error) {
	c.phase = Errored
	c.err = err
}

// ---------------------------------------------------
// Optimistic mutations
// ---------------------------------------------------

// OptimisticToggle flips the completion flag locally before the server
// confirms. Returns the flipped copy for the caller to send upstream.
func (c *Collection) OptimisticToggle(id string) (model.Task, bool) {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks[i].Completed = !c.tasks[i].Completed
			c.phase = Mutating
			return c.tasks[i], true
		}
	}
	return model.Task{}, false
}

// OptimisticRemove drops a task locally; the removed copy is returned so a
// failure path can report what was being deleted.
func (c *Collection) OptimisticRemove(id string) (model.Task, bool) {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			removed := c.tasks[i]
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			c.phase = Mutating
			return removed, true
		}
	}
	return model.Task{}, false
}

// OptimisticRetitle applies an inline title edit locally.
func (c *Collection) OptimisticRetitle(id, title string) (model.Task, bool) {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks[i].Title = title
			c.phase = Mutating
			return c.tasks[i], true
		}
	}
	return model.Task{}, false
}

// ---------------------------------------------------
// Reconciliation
// ---------------------------------------------------

// Reconcile replaces the optimistic entity with the server's returned copy,
// which may have normalized fields. A response older than what is already
// rendered (by server updated_at) is discarded, so overlapping mutations on
// one entity cannot regress to a stale state. Reports whether the server
// copy was applied.
func (c *Collection) Reconcile(server model.Task) bool {
	c.phase = Loaded
	for i := range c.tasks {
		if c.tasks[i].ID == server.ID {
			if c.tasks[i].UpdatedAt.After(server.UpdatedAt) {
				return false // stale response, keep newer state
			}
			c.tasks[i] = server
			return true
		}
	}
	return false
}

// ConfirmRemoved settles an optimistic delete.
func (c *Collection) ConfirmRemoved(id string) {
	c.phase = Loaded
	// entity already dropped optimistically; nothing else to do
}

// Insert appends a server-created task. Creates are not optimistic: the
// server assigns id and timestamps, so the entity only exists after the
// response arrives.
func (c *Collection) Insert(task model.Task) {
	c.tasks = append(c.tasks, task)
	c.phase = Loaded
}
