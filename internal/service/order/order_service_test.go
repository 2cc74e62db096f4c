package order

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"padel-academy-service/internal/domain/assignment"
	"padel-academy-service/internal/domain/order"
	"padel-academy-service/internal/domain/plan"
	xerrors "padel-academy-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var baseTime = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

// day returns baseTime shifted by n days.
func day(n int) time.Time {
	return baseTime.AddDate(0, 0, n)
}

type fakeOrderStore struct {
	byID   map[int64]*order.Order
	nextID int64
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{byID: map[int64]*order.Order{}}
}

func (f *fakeOrderStore) Create(ctx context.Context, o *order.Order) error {
	f.nextID++
	o.ID = f.nextID
	o.CreatedAt = baseTime
	o.UpdatedAt = baseTime
	stored := *o
	f.byID[o.ID] = &stored
	return nil
}

func (f *fakeOrderStore) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	o, exists := f.byID[id]
	if !exists {
		return nil, xerrors.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrderStore) List(ctx context.Context, userID *int64, filters *order.OrderListFilters) ([]order.Order, int64, error) {
	out := []order.Order{}
	for _, o := range f.byID {
		if userID != nil && o.UserID != *userID {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderStore) Approve(ctx context.Context, id int64, now time.Time) (*order.Order, error) {
	o, exists := f.byID[id]
	if !exists {
		return nil, xerrors.ErrNotFound
	}
	if o.Status != order.StatusPending {
		return nil, xerrors.ErrInvalidState
	}
	o.Status = order.StatusApproved
	o.ApprovedOrderDate = sql.NullTime{Time: now, Valid: true}
	o.LastProgressDate = sql.NullTime{Time: now, Valid: true}
	o.CurrentWeek = sql.NullInt32{Int32: 1, Valid: true}
	o.UpdatedAt = now
	copied := *o
	return &copied, nil
}

func (f *fakeOrderStore) Reject(ctx context.Context, id int64, message string, now time.Time) error {
	o, exists := f.byID[id]
	if !exists {
		return xerrors.ErrNotFound
	}
	if o.Status != order.StatusPending {
		return xerrors.ErrInvalidState
	}
	o.Status = order.StatusRejected
	o.RejectMessage = sql.NullString{String: message, Valid: true}
	o.UpdatedAt = now
	return nil
}

func (f *fakeOrderStore) Cancel(ctx context.Context, id int64, now time.Time) error {
	o, exists := f.byID[id]
	if !exists {
		return xerrors.ErrNotFound
	}
	if o.Status != order.StatusPending && o.Status != order.StatusApproved {
		return xerrors.ErrInvalidState
	}
	o.Status = order.StatusCancelled
	o.CancellationDate = sql.NullTime{Time: now, Valid: true}
	o.UpdatedAt = now
	return nil
}

func (f *fakeOrderStore) UpdateProgress(ctx context.Context, id int64, currentWeek int, lastProgress time.Time) error {
	o, exists := f.byID[id]
	if !exists {
		return xerrors.ErrNotFound
	}
	if o.Status != order.StatusApproved {
		return xerrors.ErrInvalidState
	}
	o.CurrentWeek = sql.NullInt32{Int32: int32(currentWeek), Valid: true}
	o.LastProgressDate = sql.NullTime{Time: lastProgress, Valid: true}
	o.UpdatedAt = lastProgress
	return nil
}

func (f *fakeOrderStore) MarkCompleted(ctx context.Context, id int64, now time.Time) error {
	o, exists := f.byID[id]
	if !exists {
		return xerrors.ErrNotFound
	}
	if o.Status != order.StatusApproved {
		return xerrors.ErrInvalidState
	}
	o.Status = order.StatusCompleted
	o.CompletedOrderDate = sql.NullTime{Time: now, Valid: true}
	o.UpdatedAt = now
	return nil
}

func (f *fakeOrderStore) MarkExpired(ctx context.Context, id int64, now time.Time) error {
	o, exists := f.byID[id]
	if !exists {
		return xerrors.ErrNotFound
	}
	if o.Status != order.StatusCompleted {
		return xerrors.ErrInvalidState
	}
	o.Status = order.StatusExpired
	o.UpdatedAt = now
	return nil
}

func (f *fakeOrderStore) AttachPaymentProof(ctx context.Context, id int64, proof string, now time.Time) error {
	o, exists := f.byID[id]
	if !exists {
		return xerrors.ErrNotFound
	}
	if o.Status != order.StatusPending {
		return xerrors.ErrInvalidState
	}
	o.PaymentProof = sql.NullString{String: proof, Valid: true}
	o.UpdatedAt = now
	return nil
}

func (f *fakeOrderStore) GetStats(ctx context.Context) (*order.OrderStats, error) {
	stats := &order.OrderStats{}
	for _, o := range f.byID {
		stats.TotalOrders++
		switch o.Status {
		case order.StatusPending:
			stats.PendingOrders++
		case order.StatusApproved:
			stats.ApprovedOrders++
		case order.StatusCompleted:
			stats.CompletedOrders++
		case order.StatusExpired:
			stats.ExpiredOrders++
		}
	}
	return stats, nil
}

type fakePlanStore struct {
	byID map[int64]*plan.Plan
}

func (f *fakePlanStore) FindByID(ctx context.Context, id int64) (*plan.Plan, error) {
	p, exists := f.byID[id]
	if !exists {
		return nil, xerrors.ErrNotFound
	}
	return p, nil
}

type fakeSequence struct {
	value int64
}

func (f *fakeSequence) Next(ctx context.Context, name string) (int64, error) {
	f.value++
	return f.value, nil
}

type fakeMaterializer struct {
	materialized [][2]int64
	deleted      []int64
	failWith     error
}

func (f *fakeMaterializer) MaterializeWeek(ctx context.Context, orderID int64, week int) (*assignment.WeeklyAssignment, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.materialized = append(f.materialized, [2]int64{orderID, int64(week)})
	return &assignment.WeeklyAssignment{OrderID: orderID, Week: week}, nil
}

func (f *fakeMaterializer) DeleteAssignments(ctx context.Context, orderID int64) error {
	f.deleted = append(f.deleted, orderID)
	return nil
}

type fixture struct {
	svc          *Service
	orders       *fakeOrderStore
	plans        *fakePlanStore
	materializer *fakeMaterializer
}

func newFixture() *fixture {
	orders := newFakeOrderStore()
	plans := &fakePlanStore{byID: map[int64]*plan.Plan{
		1: {ID: 1, Name: "Starter", DaysActive: plan.DurationOneMonth, Active: true},
		2: {ID: 2, Name: "Regular", DaysActive: plan.DurationThreeMonths, Active: true},
		3: {ID: 3, Name: "Annual", DaysActive: plan.DurationTwelveMonths, Active: true},
		4: {ID: 4, Name: "Retired", DaysActive: plan.DurationOneMonth, Active: false},
	}}
	materializer := &fakeMaterializer{}
	svc := NewService(orders, plans, &fakeSequence{}, materializer, zap.NewNop())
	return &fixture{svc: svc, orders: orders, plans: plans, materializer: materializer}
}

// seedApproved creates an order and walks it to approved with the given
// approval time used for both approved_order_date and last_progress_date.
func (fx *fixture) seedApproved(t *testing.T, userID, planID int64, approvedAt time.Time) *order.Order {
	t.Helper()
	o, err := fx.svc.CreateOrder(context.Background(), userID, &order.CreateOrderRequest{PlanID: planID})
	require.NoError(t, err)
	_, err = fx.orders.Approve(context.Background(), o.ID, approvedAt)
	require.NoError(t, err)
	approved, err := fx.orders.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	return approved
}

func TestCreateOrder(t *testing.T) {
	fx := newFixture()

	o, err := fx.svc.CreateOrder(context.Background(), 42, &order.CreateOrderRequest{PlanID: 1})
	require.NoError(t, err)

	assert.Equal(t, "PAD-000001", o.OrderNumber)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, int64(42), o.UserID)
	assert.False(t, o.CurrentWeek.Valid)

	second, err := fx.svc.CreateOrder(context.Background(), 42, &order.CreateOrderRequest{PlanID: 2})
	require.NoError(t, err)
	assert.Equal(t, "PAD-000002", second.OrderNumber)
}

func TestCreateOrderInactivePlan(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.CreateOrder(context.Background(), 42, &order.CreateOrderRequest{PlanID: 4})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestCreateOrderUnknownPlan(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.CreateOrder(context.Background(), 42, &order.CreateOrderRequest{PlanID: 99})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestGetOrderOwnership(t *testing.T) {
	fx := newFixture()
	o, err := fx.svc.CreateOrder(context.Background(), 42, &order.CreateOrderRequest{PlanID: 1})
	require.NoError(t, err)

	t.Run("owner", func(t *testing.T) {
		got, err := fx.svc.GetOrder(context.Background(), 42, o.ID, false)
		require.NoError(t, err)
		assert.Equal(t, o.ID, got.ID)
	})

	t.Run("stranger", func(t *testing.T) {
		_, err := fx.svc.GetOrder(context.Background(), 7, o.ID, false)
		assert.ErrorIs(t, err, xerrors.ErrUnauthorized)
	})

	t.Run("admin", func(t *testing.T) {
		got, err := fx.svc.GetOrder(context.Background(), 7, o.ID, true)
		require.NoError(t, err)
		assert.Equal(t, o.ID, got.ID)
	})
}

func TestApproveOrderMaterializesFirstWeek(t *testing.T) {
	fx := newFixture()
	o, err := fx.svc.CreateOrder(context.Background(), 42, &order.CreateOrderRequest{PlanID: 1})
	require.NoError(t, err)

	approved, err := fx.svc.ApproveOrder(context.Background(), o.ID)
	require.NoError(t, err)

	assert.Equal(t, order.StatusApproved, approved.Status)
	assert.True(t, approved.ApprovedOrderDate.Valid)
	assert.Equal(t, int32(1), approved.CurrentWeek.Int32)
	require.Len(t, fx.materializer.materialized, 1)
	assert.Equal(t, [2]int64{approved.ID, 1}, fx.materializer.materialized[0])
}

func TestApproveOrderNonPending(t *testing.T) {
	fx := newFixture()
	o := fx.seedApproved(t, 42, 1, day(0))

	_, err := fx.svc.ApproveOrder(context.Background(), o.ID)
	assert.ErrorIs(t, err, xerrors.ErrInvalidState)
}

func TestApproveOrderSurvivesMaterializeFailure(t *testing.T) {
	fx := newFixture()
	fx.materializer.failWith = assert.AnError
	o, err := fx.svc.CreateOrder(context.Background(), 42, &order.CreateOrderRequest{PlanID: 1})
	require.NoError(t, err)

	approved, err := fx.svc.ApproveOrder(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusApproved, approved.Status)
}

func TestRejectOrder(t *testing.T) {
	fx := newFixture()
	o, err := fx.svc.CreateOrder(context.Background(), 42, &order.CreateOrderRequest{PlanID: 1})
	require.NoError(t, err)

	require.NoError(t, fx.svc.RejectOrder(context.Background(), o.ID, "proof unreadable"))

	got, err := fx.orders.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusRejected, got.Status)
	assert.Equal(t, "proof unreadable", got.RejectMessage.String)
}

func TestCancelOrder(t *testing.T) {
	fx := newFixture()
	o, err := fx.svc.CreateOrder(context.Background(), 42, &order.CreateOrderRequest{PlanID: 1})
	require.NoError(t, err)

	t.Run("stranger cannot cancel", func(t *testing.T) {
		err := fx.svc.CancelOrder(context.Background(), 7, o.ID, false)
		assert.ErrorIs(t, err, xerrors.ErrUnauthorized)
	})

	t.Run("owner cancels", func(t *testing.T) {
		require.NoError(t, fx.svc.CancelOrder(context.Background(), 42, o.ID, false))
		got, err := fx.orders.FindByID(context.Background(), o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, got.Status)
		assert.True(t, got.CancellationDate.Valid)
	})

	t.Run("terminal order stays put", func(t *testing.T) {
		err := fx.svc.CancelOrder(context.Background(), 42, o.ID, false)
		assert.ErrorIs(t, err, xerrors.ErrInvalidState)
	})
}

func TestCompleteIfExpiredAllowance(t *testing.T) {
	tests := []struct {
		name       string
		planID     int64
		approvedAt time.Time
		now        time.Time
		want       order.OrderStatus
	}{
		{"one month still inside allowance", 1, day(0), day(29), order.StatusApproved},
		{"one month on the boundary", 1, day(0), day(30), order.StatusApproved},
		{"one month past allowance", 1, day(0), day(31), order.StatusCompleted},
		{"three months past allowance", 2, day(0), day(91), order.StatusCompleted},
		{"twelve months inside allowance", 3, day(0), day(359), order.StatusApproved},
		{"twelve months past allowance", 3, day(0), day(361), order.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture()
			o := fx.seedApproved(t, 42, tt.planID, tt.approvedAt)

			require.NoError(t, fx.svc.CompleteIfExpiredAllowance(context.Background(), o, tt.now))

			got, err := fx.orders.FindByID(context.Background(), o.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
			if tt.want == order.StatusCompleted {
				assert.True(t, got.CompletedOrderDate.Valid)
				assert.Equal(t, tt.now, got.CompletedOrderDate.Time)
			}
		})
	}
}

func TestCompleteIfExpiredAllowanceSkipsMissingPlan(t *testing.T) {
	fx := newFixture()
	o := fx.seedApproved(t, 42, 1, day(0))
	delete(fx.plans.byID, 1)

	require.NoError(t, fx.svc.CompleteIfExpiredAllowance(context.Background(), o, day(100)))

	got, err := fx.orders.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusApproved, got.Status)
}

func TestCompleteIfExpiredAllowanceSkipsNonApproved(t *testing.T) {
	fx := newFixture()
	o, err := fx.svc.CreateOrder(context.Background(), 42, &order.CreateOrderRequest{PlanID: 1})
	require.NoError(t, err)

	require.NoError(t, fx.svc.CompleteIfExpiredAllowance(context.Background(), o, day(100)))

	got, err := fx.orders.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, got.Status)
}

func TestAdvanceWeekIfDue(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		wantWeek int32
	}{
		{"six days is not a week", day(6), 1},
		{"seven days advances", day(7), 2},
		{"eight days advances once", day(8), 2},
		{"ten days advances once", day(10), 2},
		{"two full weeks advance twice", day(14), 3},
		{"three weeks after a missed run", day(21), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture()
			o := fx.seedApproved(t, 42, 2, day(0))

			require.NoError(t, fx.svc.AdvanceWeekIfDue(context.Background(), o, tt.now))

			got, err := fx.orders.FindByID(context.Background(), o.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantWeek, got.CurrentWeek.Int32)
			if tt.wantWeek > 1 {
				assert.Equal(t, tt.now, got.LastProgressDate.Time)
				last := fx.materializer.materialized[len(fx.materializer.materialized)-1]
				assert.Equal(t, [2]int64{o.ID, int64(tt.wantWeek)}, last)
			} else {
				assert.Equal(t, day(0), got.LastProgressDate.Time)
			}
		})
	}
}

func TestAdvanceWeekLeftoverDaysRollForward(t *testing.T) {
	fx := newFixture()
	o := fx.seedApproved(t, 42, 2, day(0))

	// Ten days in: one week consumed, three leftover days roll forward
	// because last_progress_date resets to now.
	require.NoError(t, fx.svc.AdvanceWeekIfDue(context.Background(), o, day(10)))

	got, err := fx.orders.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), got.CurrentWeek.Int32)
	assert.Equal(t, day(10), got.LastProgressDate.Time)

	// Four more days: only four elapsed since the reset, so no advance.
	require.NoError(t, fx.svc.AdvanceWeekIfDue(context.Background(), got, day(14)))
	got, err = fx.orders.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), got.CurrentWeek.Int32)

	// Seven days after the reset crosses the next boundary.
	require.NoError(t, fx.svc.AdvanceWeekIfDue(context.Background(), got, day(17)))
	got, err = fx.orders.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(3), got.CurrentWeek.Int32)
}

func TestAdvanceWeekSkipsNonApproved(t *testing.T) {
	fx := newFixture()
	o := fx.seedApproved(t, 42, 2, day(0))
	require.NoError(t, fx.orders.MarkCompleted(context.Background(), o.ID, day(95)))
	completed, err := fx.orders.FindByID(context.Background(), o.ID)
	require.NoError(t, err)

	require.NoError(t, fx.svc.AdvanceWeekIfDue(context.Background(), completed, day(120)))

	got, err := fx.orders.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), got.CurrentWeek.Int32)
}

func TestAdvanceWeekSurvivesMaterializeFailure(t *testing.T) {
	fx := newFixture()
	o := fx.seedApproved(t, 42, 2, day(0))
	fx.materializer.failWith = assert.AnError

	require.NoError(t, fx.svc.AdvanceWeekIfDue(context.Background(), o, day(7)))

	got, err := fx.orders.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), got.CurrentWeek.Int32)
}

func TestExpireIfPastRetention(t *testing.T) {
	tests := []struct {
		name        string
		planID      int64
		completedAt time.Time
		now         time.Time
		want        order.OrderStatus
	}{
		{"one month keeps sixty days", 1, day(31), day(90), order.StatusCompleted},
		{"one month past sixty days", 1, day(31), day(92), order.StatusExpired},
		{"three months past sixty days", 2, day(91), day(152), order.StatusExpired},
		{"twelve months keeps thirty days", 3, day(361), day(390), order.StatusCompleted},
		{"twelve months past thirty days", 3, day(361), day(392), order.StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture()
			o := fx.seedApproved(t, 42, tt.planID, day(0))
			require.NoError(t, fx.orders.MarkCompleted(context.Background(), o.ID, tt.completedAt))
			completed, err := fx.orders.FindByID(context.Background(), o.ID)
			require.NoError(t, err)

			require.NoError(t, fx.svc.ExpireIfPastRetention(context.Background(), completed, tt.now))

			got, err := fx.orders.FindByID(context.Background(), o.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
			if tt.want == order.StatusExpired {
				assert.Equal(t, []int64{o.ID}, fx.materializer.deleted)
			} else {
				assert.Empty(t, fx.materializer.deleted)
			}
		})
	}
}

func TestExpireIfPastRetentionSkipsNonCompleted(t *testing.T) {
	fx := newFixture()
	o := fx.seedApproved(t, 42, 1, day(0))

	require.NoError(t, fx.svc.ExpireIfPastRetention(context.Background(), o, day(500)))

	got, err := fx.orders.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusApproved, got.Status)
	assert.Empty(t, fx.materializer.deleted)
}

func TestListOrdersPaginationDefaults(t *testing.T) {
	fx := newFixture()
	for i := 0; i < 3; i++ {
		_, err := fx.svc.CreateOrder(context.Background(), 42, &order.CreateOrderRequest{PlanID: 1})
		require.NoError(t, err)
	}

	resp, err := fx.svc.ListOrders(context.Background(), nil, &order.OrderListFilters{})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 1, resp.TotalPages)
}
