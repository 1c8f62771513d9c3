package user

import (
	"context"
	"sort"
	"sync"
)

type Repository interface {
	FindByID(ctx context.Context, id int64) (User, error)
	FindAll(ctx context.Context) ([]User, error)
	FindByDateOfBirthBetween(ctx context.Context, from, to Date) ([]User, error)
	// Save inserts user when its ID is 0 and overwrites the stored record otherwise.
	Save(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, user User) error
}

// Transactor runs fn so that every repository call made with the context it
// receives either commits together or not at all.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	users  []User
	nextID int64

	txMu sync.Mutex
}

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	repo := &InMemoryRepository{
		users:  make([]User, 0, len(seed)),
		nextID: 1,
	}

	var maxID int64
	for _, user := range seed {
		repo.users = append(repo.users, user)
		if user.ID > maxID {
			maxID = user.ID
		}
	}
	sort.Slice(repo.users, func(i, j int) bool { return repo.users[i].ID < repo.users[j].ID })

	repo.nextID = maxID + 1
	return repo
}

func (r *InMemoryRepository) FindByID(_ context.Context, id int64) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}

	return User{}, &NotFoundError{ID: id}
}

func (r *InMemoryRepository) FindAll(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, len(r.users))
	copy(users, r.users)
	return users, nil
}

func (r *InMemoryRepository) FindByDateOfBirthBetween(_ context.Context, from, to Date) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, 0)
	for _, user := range r.users {
		if user.DateOfBirth.Between(from, to) {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *InMemoryRepository) Save(ctx context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email && existing.ID != user.ID {
			return User{}, ErrEmailExists
		}
	}

	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
		r.users = append(r.users, user)
		id := user.ID
		r.track(ctx, func() { r.remove(id) })
		return user, nil
	}

	for i, existing := range r.users {
		if existing.ID == user.ID {
			previous := existing
			r.users[i] = user
			r.track(ctx, func() { r.put(previous) })
			return user, nil
		}
	}

	if user.ID >= r.nextID {
		r.nextID = user.ID + 1
	}
	r.put(user)
	id := user.ID
	r.track(ctx, func() { r.remove(id) })
	return user, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.ID == user.ID {
			removed := existing
			r.remove(removed.ID)
			r.track(ctx, func() { r.put(removed) })
			return nil
		}
	}

	return &NotFoundError{ID: user.ID}
}

// WithinTransaction serializes fn against other transactions. When fn fails,
// only the writes made with the context passed to fn are undone; ids handed
// out meanwhile are never reused.
func (r *InMemoryRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(memoryTxKey{}).(*undoLog); ok {
		return fn(ctx)
	}

	r.txMu.Lock()
	defer r.txMu.Unlock()

	undo := &undoLog{}
	if err := fn(context.WithValue(ctx, memoryTxKey{}, undo)); err != nil {
		r.mu.Lock()
		for i := len(undo.ops) - 1; i >= 0; i-- {
			undo.ops[i]()
		}
		r.mu.Unlock()
		return err
	}
	return nil
}

type memoryTxKey struct{}

// undoLog holds the inverse of every write of one transaction, in order.
type undoLog struct {
	ops []func()
}

// track records op on the transaction bound to ctx. Callers hold r.mu.
func (r *InMemoryRepository) track(ctx context.Context, op func()) {
	if undo, ok := ctx.Value(memoryTxKey{}).(*undoLog); ok {
		undo.ops = append(undo.ops, op)
	}
}

// put inserts or replaces user keeping id order. Callers hold r.mu.
func (r *InMemoryRepository) put(user User) {
	for i, existing := range r.users {
		if existing.ID == user.ID {
			r.users[i] = user
			return
		}
	}
	r.users = append(r.users, user)
	sort.Slice(r.users, func(i, j int) bool { return r.users[i].ID < r.users[j].ID })
}

// remove drops the user with id if present. Callers hold r.mu.
func (r *InMemoryRepository) remove(id int64) {
	for i, existing := range r.users {
		if existing.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return
		}
	}
}
