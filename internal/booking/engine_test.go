package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-reservation/internal/model"
)

// MockStore is a testify mock over the Store contract.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Begin(ctx context.Context) (Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Tx), args.Error(1)
}

func (m *MockStore) GetPerformance(ctx context.Context, id uint64) (*PerformanceInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PerformanceInfo), args.Error(1)
}

func (m *MockStore) SeatTaken(ctx context.Context, tx Tx, performanceID uint64, seat SeatRef) (bool, error) {
	args := m.Called(ctx, tx, performanceID, seat)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) InsertReservation(ctx context.Context, tx Tx, userID uint64) (*model.Reservation, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *MockStore) InsertTicket(ctx context.Context, tx Tx, reservationID, performanceID uint64, seat SeatRef) (*model.Ticket, error) {
	args := m.Called(ctx, tx, reservationID, performanceID, seat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

// MockTx is a testify mock over the Tx contract.
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error   { return m.Called().Error(0) }
func (m *MockTx) Rollback() error { return m.Called().Error(0) }

var testPerf = &PerformanceInfo{
	ID:          1,
	PlayTitle:   "Hamlet",
	HallID:      3,
	HallName:    "Main Stage",
	Rows:        10,
	SeatsPerRow: 20,
	ShowTime:    time.Date(2026, 9, 15, 19, 0, 0, 0, time.UTC),
}

func TestCreateReservation_RejectsEmptySeatList(t *testing.T) {
	store := new(MockStore)
	eng := NewEngine(store)

	_, err := eng.CreateReservation(context.Background(), 1, 1, nil)

	assert.ErrorIs(t, err, ErrNoSeatsRequested)
	store.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestCreateReservation_UnknownPerformance(t *testing.T) {
	store := new(MockStore)
	store.On("GetPerformance", mock.Anything, uint64(42)).Return(nil, ErrPerformanceNotFound)
	eng := NewEngine(store)

	_, err := eng.CreateReservation(context.Background(), 1, 42, []SeatRef{{Row: 1, Seat: 1}})

	assert.ErrorIs(t, err, ErrPerformanceNotFound)
	store.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestCreateReservation_OutOfBoundsSeat(t *testing.T) {
	store := new(MockStore)
	store.On("GetPerformance", mock.Anything, uint64(1)).Return(testPerf, nil)
	eng := NewEngine(store)

	// (99, 99) exceeds both bounds; the row is reported first.  No
	// transaction is opened for a request that cannot succeed.
	_, err := eng.CreateReservation(context.Background(), 1, 1, []SeatRef{{Row: 5, Seat: 10}, {Row: 99, Seat: 99}})

	var oob *OutOfBoundsError
	require.True(t, errors.As(err, &oob))
	assert.Equal(t, "row", oob.Dimension)
	assert.Equal(t, uint32(99), oob.Value)
	store.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestCreateReservation_SeatTakenOnPrecheck(t *testing.T) {
	store := new(MockStore)
	tx := new(MockTx)
	store.On("GetPerformance", mock.Anything, uint64(1)).Return(testPerf, nil)
	store.On("Begin", mock.Anything).Return(tx, nil)
	store.On("SeatTaken", mock.Anything, tx, uint64(1), SeatRef{Row: 5, Seat: 10}).Return(true, nil)
	tx.On("Rollback").Return(nil)
	eng := NewEngine(store)

	_, err := eng.CreateReservation(context.Background(), 1, 1, []SeatRef{{Row: 5, Seat: 10}})

	var taken *SeatTakenError
	require.True(t, errors.As(err, &taken))
	assert.Equal(t, uint32(5), taken.Row)
	assert.Equal(t, uint32(10), taken.Seat)
	tx.AssertCalled(t, "Rollback")
	tx.AssertNotCalled(t, "Commit")
	store.AssertNotCalled(t, "InsertReservation", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReservation_ConstraintViolationAtInsert(t *testing.T) {
	// The pre-check passes for both seats but a competing transaction
	// commits first; the unique key rejects the second ticket and the
	// whole reservation rolls back.
	store := new(MockStore)
	tx := new(MockTx)
	res := &model.Reservation{ID: 7, UserID: 1, CreatedAt: time.Now()}
	store.On("GetPerformance", mock.Anything, uint64(1)).Return(testPerf, nil)
	store.On("Begin", mock.Anything).Return(tx, nil)
	store.On("SeatTaken", mock.Anything, tx, uint64(1), mock.Anything).Return(false, nil)
	store.On("InsertReservation", mock.Anything, tx, uint64(1)).Return(res, nil)
	store.On("InsertTicket", mock.Anything, tx, uint64(7), uint64(1), SeatRef{Row: 5, Seat: 10}).
		Return(&model.Ticket{ID: 1, Row: 5, Seat: 10, PerformanceID: 1, ReservationID: 7}, nil)
	store.On("InsertTicket", mock.Anything, tx, uint64(7), uint64(1), SeatRef{Row: 5, Seat: 11}).
		Return(nil, &SeatTakenError{Row: 5, Seat: 11})
	tx.On("Rollback").Return(nil)
	eng := NewEngine(store)

	_, err := eng.CreateReservation(context.Background(), 1, 1, []SeatRef{{Row: 5, Seat: 10}, {Row: 5, Seat: 11}})

	var taken *SeatTakenError
	require.True(t, errors.As(err, &taken))
	assert.Equal(t, uint32(11), taken.Seat)
	tx.AssertCalled(t, "Rollback")
	tx.AssertNotCalled(t, "Commit")
}

func TestCreateReservation_CommitFailure(t *testing.T) {
	store := new(MockStore)
	tx := new(MockTx)
	res := &model.Reservation{ID: 7, UserID: 1, CreatedAt: time.Now()}
	store.On("GetPerformance", mock.Anything, uint64(1)).Return(testPerf, nil)
	store.On("Begin", mock.Anything).Return(tx, nil)
	store.On("SeatTaken", mock.Anything, tx, uint64(1), mock.Anything).Return(false, nil)
	store.On("InsertReservation", mock.Anything, tx, uint64(1)).Return(res, nil)
	store.On("InsertTicket", mock.Anything, tx, uint64(7), uint64(1), mock.Anything).
		Return(&model.Ticket{ID: 1, Row: 1, Seat: 1, PerformanceID: 1, ReservationID: 7}, nil)
	tx.On("Commit").Return(errors.New("deadlock"))
	tx.On("Rollback").Return(nil)
	eng := NewEngine(store)

	_, err := eng.CreateReservation(context.Background(), 1, 1, []SeatRef{{Row: 1, Seat: 1}})

	require.Error(t, err)
	var taken *SeatTakenError
	assert.False(t, errors.As(err, &taken))
	tx.AssertCalled(t, "Rollback")
}

func TestCreateReservation_Success(t *testing.T) {
	store := newMemStore(testPerf)
	eng := NewEngine(store)

	res, err := eng.CreateReservation(context.Background(), 9, 1, []SeatRef{{Row: 5, Seat: 10}, {Row: 5, Seat: 11}})

	require.NoError(t, err)
	require.Len(t, res.Tickets, 2)
	// Tickets come back in request order.
	assert.Equal(t, uint32(10), res.Tickets[0].Seat)
	assert.Equal(t, uint32(11), res.Tickets[1].Seat)
	for _, tk := range res.Tickets {
		assert.Equal(t, res.ID, tk.ReservationID)
		assert.Equal(t, uint64(1), tk.PerformanceID)
	}
	assert.Equal(t, 2, store.committedTickets())
}

func TestCreateReservation_FailureLeavesNothing(t *testing.T) {
	store := newMemStore(testPerf)
	eng := NewEngine(store)

	// Claim (5, 10), then request it again together with a free seat.
	_, err := eng.CreateReservation(context.Background(), 1, 1, []SeatRef{{Row: 5, Seat: 10}})
	require.NoError(t, err)

	_, err = eng.CreateReservation(context.Background(), 2, 1, []SeatRef{{Row: 1, Seat: 1}, {Row: 5, Seat: 10}})
	var taken *SeatTakenError
	require.True(t, errors.As(err, &taken))

	// The free seat from the failed attempt was not kept.
	assert.Equal(t, 1, store.committedTickets())
	res, err := eng.CreateReservation(context.Background(), 3, 1, []SeatRef{{Row: 1, Seat: 1}})
	require.NoError(t, err)
	assert.Len(t, res.Tickets, 1)
}

func TestCreateReservation_DuplicateSeatInRequest(t *testing.T) {
	store := newMemStore(testPerf)
	eng := NewEngine(store)

	_, err := eng.CreateReservation(context.Background(), 1, 1, []SeatRef{{Row: 1, Seat: 1}, {Row: 1, Seat: 1}})

	var taken *SeatTakenError
	require.True(t, errors.As(err, &taken))
	assert.Equal(t, 0, store.committedTickets())
}

func TestCreateReservation_ConcurrentSingleWinner(t *testing.T) {
	store := newMemStore(testPerf)
	eng := NewEngine(store)
	seat := SeatRef{Row: 5, Seat: 10}

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = eng.CreateReservation(context.Background(), uint64(i+1), 1, []SeatRef{seat})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		var taken *SeatTakenError
		require.True(t, errors.As(err, &taken), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, store.committedTickets())
}

// ----- in-memory store -----

type seatKey struct {
	perf, row, seat uint64
}

// memStore emulates the storage contract including the unique key on
// (performance, row, seat): claims are staged per transaction and the
// second claimant of a seat fails at insert time, exactly like a MySQL
// duplicate-entry error mapped to *SeatTakenError.
type memStore struct {
	mu        sync.Mutex
	perf      *PerformanceInfo
	claimed   map[seatKey]*memTx // staged and committed claims by transaction
	committed map[seatKey]bool
	nextRes   uint64
	nextTkt   uint64
}

func newMemStore(perf *PerformanceInfo) *memStore {
	return &memStore{
		perf:      perf,
		claimed:   make(map[seatKey]*memTx),
		committed: make(map[seatKey]bool),
	}
}

func (s *memStore) committedTickets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.committed)
}

type memTx struct {
	store  *memStore
	staged []seatKey
	done   bool
}

func (t *memTx) Commit() error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.done {
		return errors.New("transaction already finished")
	}
	for _, k := range t.staged {
		t.store.committed[k] = true
	}
	t.done = true
	return nil
}

func (t *memTx) Rollback() error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.done {
		return errors.New("transaction already finished")
	}
	for _, k := range t.staged {
		delete(t.store.claimed, k)
	}
	t.done = true
	return nil
}

func (s *memStore) Begin(ctx context.Context) (Tx, error) {
	return &memTx{store: s}, nil
}

func (s *memStore) GetPerformance(ctx context.Context, id uint64) (*PerformanceInfo, error) {
	if id != s.perf.ID {
		return nil, ErrPerformanceNotFound
	}
	return s.perf, nil
}

func (s *memStore) SeatTaken(ctx context.Context, tx Tx, performanceID uint64, seat SeatRef) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Like a plain SELECT under READ COMMITTED, only committed rows are
	// visible here.  Staged claims of concurrent transactions are not,
	// which is exactly why the unique key has the final say.
	return s.committed[seatKey{performanceID, uint64(seat.Row), uint64(seat.Seat)}], nil
}

func (s *memStore) InsertReservation(ctx context.Context, tx Tx, userID uint64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRes++
	return &model.Reservation{ID: s.nextRes, UserID: userID, CreatedAt: time.Now().UTC()}, nil
}

func (s *memStore) InsertTicket(ctx context.Context, tx Tx, reservationID, performanceID uint64, seat SeatRef) (*model.Ticket, error) {
	mt := tx.(*memTx)
	s.mu.Lock()
	defer s.mu.Unlock()
	// The unique key does not care who holds the claim: a duplicate
	// seat inside the same request fails just like a competing one.
	k := seatKey{performanceID, uint64(seat.Row), uint64(seat.Seat)}
	if _, ok := s.claimed[k]; ok {
		return nil, &SeatTakenError{Row: seat.Row, Seat: seat.Seat}
	}
	s.claimed[k] = mt
	mt.staged = append(mt.staged, k)
	s.nextTkt++
	return &model.Ticket{
		ID:            s.nextTkt,
		Row:           seat.Row,
		Seat:          seat.Seat,
		PerformanceID: performanceID,
		ReservationID: reservationID,
	}, nil
}
