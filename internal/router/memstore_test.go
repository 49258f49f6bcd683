package router

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/storefront-api/internal/auth"
	"github.com/iliyamo/storefront-api/internal/model"
	"github.com/iliyamo/storefront-api/internal/queue"
	"github.com/iliyamo/storefront-api/internal/repository"
)

// memDB is an in-memory stand-in for MySQL shared by the fake stores.
type memDB struct {
	mu       sync.Mutex
	next     uint64
	users    map[string]*model.User
	products map[uint64]*model.Product
	orders   map[uint64]*model.Order
	items    map[uint64]*model.OrderItem
	cart     map[uint64]*model.CartEntry
	reviews  map[uint64]*model.Review
}

func newMemDB() *memDB {
	return &memDB{
		users:    map[string]*model.User{},
		products: map[uint64]*model.Product{},
		orders:   map[uint64]*model.Order{},
		items:    map[uint64]*model.OrderItem{},
		cart:     map[uint64]*model.CartEntry{},
		reviews:  map[uint64]*model.Review{},
	}
}

func (db *memDB) id() uint64 { db.next++; return db.next }

func sortedKeys[V any](m map[uint64]V) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ResolveOwner mirrors repository.OwnershipRepo over the maps.
func (db *memDB) ResolveOwner(_ context.Context, ref auth.ResourceRef) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if ref.Type == auth.ResourceUserAccount {
		if _, ok := db.users[ref.ID]; ok {
			return ref.ID, nil
		}
		return "", auth.ErrNotFound
	}
	id, err := strconv.ParseUint(ref.ID, 10, 64)
	if err != nil {
		return "", auth.ErrNotFound
	}
	switch ref.Type {
	case auth.ResourceOrder:
		if o, ok := db.orders[id]; ok {
			return o.User, nil
		}
	case auth.ResourceOrderItem:
		if it, ok := db.items[id]; ok {
			if o, ok := db.orders[it.OrderID]; ok {
				return o.User, nil
			}
		}
	case auth.ResourceCartEntry:
		if e, ok := db.cart[id]; ok {
			return e.User, nil
		}
	case auth.ResourceReview:
		if rv, ok := db.reviews[id]; ok {
			return rv.User, nil
		}
	}
	return "", auth.ErrNotFound
}

type memUsers struct{ *memDB }

func (s memUsers) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, o := range s.users {
		if o.Username == u.Username || o.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *u
	s.users[u.Username] = &cp
	return nil
}

func (s memUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[username]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s memUsers) List(context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s memUsers) UpdateProfile(_ context.Context, username, name, email string, phone *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return repository.ErrNotFound
	}
	u.Name, u.Email, u.Phone = name, strings.ToLower(email), phone
	return nil
}

func (s memUsers) UpdatePassword(_ context.Context, username, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (s memUsers) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, username)
	return nil
}

type memProducts struct{ *memDB }

func (s memProducts) List(context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Product
	for _, k := range sortedKeys(s.products) {
		out = append(out, *s.products[k])
	}
	return out, nil
}

func (s memProducts) GetByID(_ context.Context, id uint64) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s memProducts) Create(_ context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s memProducts) Update(_ context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s memProducts) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

type memOrders struct{ *memDB }

func (s memOrders) List(context.Context) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, k := range sortedKeys(s.orders) {
		out = append(out, *s.orders[k])
	}
	return out, nil
}

func (s memOrders) ListByUser(_ context.Context, username string) ([]model.Order, error) {
	all, _ := s.List(context.Background())
	var out []model.Order
	for _, o := range all {
		if o.User == username {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s memOrders) GetByID(_ context.Context, id uint64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s memOrders) Create(_ context.Context, o *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[o.User]; !ok {
		return repository.ErrConflict
	}
	if o.Status == "" {
		o.Status = model.OrderPending
	}
	o.ID = s.id()
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s memOrders) Update(_ context.Context, o *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s memOrders) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return repository.ErrNotFound
	}
	for k, it := range s.items {
		if it.OrderID == id {
			delete(s.items, k)
		}
	}
	delete(s.orders, id)
	return nil
}

func (s memOrders) lines(match func(*model.Order) bool) []model.OrderLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.OrderLine
	for _, k := range sortedKeys(s.items) {
		it := s.items[k]
		o := s.orders[it.OrderID]
		if o == nil || !match(o) {
			continue
		}
		l := model.OrderLine{OrderID: o.ID, OrderItemID: it.ID, Status: o.Status, Address: o.Address,
			ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price, LineTotal: float64(it.Quantity) * it.Price}
		if u := s.users[o.User]; u != nil {
			l.CustomerName = u.Name
		}
		if p := s.products[it.ProductID]; p != nil {
			l.ProductName = p.Name
		}
		out = append(out, l)
	}
	return out
}

func (s memOrders) FullOrder(_ context.Context, id uint64) ([]model.OrderLine, error) {
	return s.lines(func(o *model.Order) bool { return o.ID == id }), nil
}

func (s memOrders) FullOrdersByUser(_ context.Context, username string) ([]model.OrderLine, error) {
	return s.lines(func(o *model.Order) bool { return o.User == username }), nil
}

type memItems struct{ *memDB }

func (s memItems) List(context.Context) ([]model.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.OrderItem
	for _, k := range sortedKeys(s.items) {
		out = append(out, *s.items[k])
	}
	return out, nil
}

func (s memItems) GetByID(_ context.Context, id uint64) (*model.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[id]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s memItems) ListByUser(ctx context.Context, username string) ([]model.OrderLine, error) {
	return memOrders(s).FullOrdersByUser(ctx, username)
}

func (s memItems) Create(_ context.Context, it *model.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orders[it.OrderID] == nil || s.products[it.ProductID] == nil {
		return repository.ErrConflict
	}
	it.ID = s.id()
	cp := *it
	s.items[it.ID] = &cp
	return nil
}

func (s memItems) Update(_ context.Context, it *model.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[it.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *it
	s.items[it.ID] = &cp
	return nil
}

func (s memItems) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

type memCart struct{ *memDB }

func (s memCart) List(context.Context) ([]model.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.CartEntry
	for _, k := range sortedKeys(s.cart) {
		out = append(out, *s.cart[k])
	}
	return out, nil
}

func (s memCart) GetByID(_ context.Context, id uint64) (*model.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.cart[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s memCart) LinesByUser(_ context.Context, username string) ([]model.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.CartLine
	for _, k := range sortedKeys(s.cart) {
		e := s.cart[k]
		if e.User != username {
			continue
		}
		l := model.CartLine{CartID: e.ID, ProductID: e.ProductID, Quantity: e.Quantity}
		if p := s.products[e.ProductID]; p != nil {
			l.ProductName, l.Price = p.Name, p.Price
			l.LineTotal = float64(e.Quantity) * p.Price
		}
		if u := s.users[username]; u != nil {
			l.CustomerName = u.Name
		}
		out = append(out, l)
	}
	return out, nil
}

func (s memCart) Create(_ context.Context, e *model.CartEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.id()
	cp := *e
	s.cart[e.ID] = &cp
	return nil
}

func (s memCart) Update(_ context.Context, e *model.CartEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cart[e.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *e
	s.cart[e.ID] = &cp
	return nil
}

func (s memCart) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cart[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.cart, id)
	return nil
}

type memReviews struct{ *memDB }

func (s memReviews) List(context.Context) ([]model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Review
	for _, k := range sortedKeys(s.reviews) {
		out = append(out, *s.reviews[k])
	}
	return out, nil
}

func (s memReviews) ListByProduct(_ context.Context, productID uint64) ([]model.Review, error) {
	all, _ := s.List(context.Background())
	var out []model.Review
	for _, rv := range all {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (s memReviews) GetByID(_ context.Context, id uint64) (*model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rv, ok := s.reviews[id]; ok {
		cp := *rv
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s memReviews) Create(_ context.Context, rv *model.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rv.ID = s.id()
	cp := *rv
	s.reviews[rv.ID] = &cp
	return nil
}

func (s memReviews) Update(_ context.Context, rv *model.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[rv.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *rv
	s.reviews[rv.ID] = &cp
	return nil
}

func (s memReviews) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.reviews, id)
	return nil
}

// mailbox records published reset events.  While gate is set, publishing
// blocks until it is closed.
type mailbox struct {
	mu     sync.Mutex
	gate   chan struct{}
	events []queue.PasswordResetRequestedEvent
}

func (m *mailbox) hold() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gate = make(chan struct{})
}

func (m *mailbox) release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gate != nil {
		close(m.gate)
		m.gate = nil
	}
}

func (m *mailbox) PublishPasswordReset(ctx context.Context, ev queue.PasswordResetRequestedEvent) error {
	m.mu.Lock()
	gate := m.gate
	m.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

// wait returns the most recent event, giving the asynchronous send time to
// land.
func (m *mailbox) wait(t *testing.T) queue.PasswordResetRequestedEvent {
	t.Helper()
	var ev queue.PasswordResetRequestedEvent
	require.Eventually(t, func() bool {
		var ok bool
		ev, ok = m.last()
		return ok
	}, 2*time.Second, 5*time.Millisecond, "no reset mail queued")
	return ev
}

func (m *mailbox) last() (queue.PasswordResetRequestedEvent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) == 0 {
		return queue.PasswordResetRequestedEvent{}, false
	}
	return m.events[len(m.events)-1], true
}
