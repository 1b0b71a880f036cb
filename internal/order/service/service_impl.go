package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/labelworks/internal/clock"
	"github.com/smallbiznis/labelworks/internal/derive"
	"github.com/smallbiznis/labelworks/internal/lock"
	"github.com/smallbiznis/labelworks/internal/observability/metrics"
	"github.com/smallbiznis/labelworks/internal/order/domain"
	"github.com/smallbiznis/labelworks/internal/schema"
	"github.com/smallbiznis/labelworks/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	numberAttempts = 5
	numberLockTTL  = 5 * time.Second
	numberLockWait = 2 * time.Second
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Clock   clock.Clock
	Locker  *lock.Locker     `optional:"true"`
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	clock   clock.Clock
	locker  *lock.Locker
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("order.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		clock:   p.Clock,
		locker:  p.Locker,
		metrics: p.Metrics,
	}
}

var immutable = []string{"ID", "TotalAmount", "CreatedAt", "UpdatedAt"}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.OrderView, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	filter.Search = strings.TrimSpace(filter.Search)

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, items)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.OrderView, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return domain.OrderView{}, err
	}
	views, err := s.views(ctx, []*domain.Order{item})
	if err != nil {
		return domain.OrderView{}, err
	}
	return views[0], nil
}

// Create stores a new order. Without a client supplied number the next
// ORD-<year>-<seq> is generated and retried on collision.
func (s *Service) Create(ctx context.Context, order domain.Order) (domain.OrderView, error) {
	if order.Status == "" {
		order.Status = domain.StatusNew
	}
	prepare(&order)
	if err := schema.Validate(&order); err != nil {
		return domain.OrderView{}, err
	}
	if err := s.checkReferences(ctx, &order); err != nil {
		return domain.OrderView{}, err
	}

	now := s.clock.Now()
	order.ID = s.genID.Generate()
	order.CreatedAt = now
	order.UpdatedAt = now

	if order.OrderNumber != "" {
		if err := s.repo.Insert(ctx, s.db, &order); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.OrderView{}, domain.ErrDuplicateOrderNumber
			}
			return domain.OrderView{}, err
		}
	} else if err := s.insertNumbered(ctx, &order); err != nil {
		return domain.OrderView{}, err
	}

	s.metrics.RecordOrderCreated(ctx, order.Status)
	s.log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("total_amount", order.TotalAmount.String()),
	)
	return s.GetByID(ctx, order.ID.String())
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.OrderView, error) {
	fields := schema.Without(req.Fields, immutable...)
	if err := schema.ValidatePartial(&req.Patch, fields); err != nil {
		return domain.OrderView{}, err
	}

	current, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.OrderView{}, err
	}

	merged := *current
	schema.Merge(&merged, &req.Patch, fields)
	prepare(&merged)
	// Moving the order to another customer takes that customer's name
	// unless a company was sent alongside.
	if schema.Contains(fields, "CustomerID") && !schema.Contains(fields, "OrderCompany") && merged.CustomerID != nil {
		merged.OrderCompany = ""
	}
	if schema.Contains(fields, "OrderNumber") && merged.OrderNumber == "" {
		return domain.OrderView{}, schema.Invalid("orderNumber", schema.CodeRequired, "is required")
	}
	if err := schema.Validate(&merged); err != nil {
		return domain.OrderView{}, err
	}
	if merged.Status != current.Status && !domain.CanTransition(current.Status, merged.Status) {
		return domain.OrderView{}, domain.ErrInvalidTransition
	}
	if err := s.checkReferences(ctx, &merged); err != nil {
		return domain.OrderView{}, err
	}
	merged.UpdatedAt = s.clock.Now()

	columns := append(fields, "TotalAmount", "OrderCompany", "UpdatedAt")
	rows, err := s.repo.Update(ctx, s.db, &merged, columns)
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.OrderView{}, domain.ErrDuplicateOrderNumber
		}
		return domain.OrderView{}, err
	}
	if rows == 0 {
		return domain.OrderView{}, domain.ErrNotFound
	}
	if merged.Status != current.Status {
		s.metrics.RecordOrderTransition(ctx, current.Status, merged.Status)
	}
	return s.GetByID(ctx, req.ID)
}

// Transition moves an order to another status. Requesting the current status
// is a no-op.
func (s *Service) Transition(ctx context.Context, req domain.TransitionRequest) (domain.OrderView, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		return domain.OrderView{}, schema.Invalid("status", schema.CodeRequired, "is required")
	}
	if !domain.Statuses.Has(status) {
		return domain.OrderView{}, schema.Invalid("status", schema.CodeEnumMismatch, "must be one of: "+strings.Join(domain.Statuses.Values(), ", "))
	}

	current, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.OrderView{}, err
	}
	if current.Status == status {
		return s.GetByID(ctx, req.ID)
	}
	if !domain.CanTransition(current.Status, status) {
		return domain.OrderView{}, domain.ErrInvalidTransition
	}

	updated := *current
	updated.Status = status
	updated.UpdatedAt = s.clock.Now()
	rows, err := s.repo.Update(ctx, s.db, &updated, []string{"Status", "UpdatedAt"})
	if err != nil {
		return domain.OrderView{}, err
	}
	if rows == 0 {
		return domain.OrderView{}, domain.ErrNotFound
	}

	s.metrics.RecordOrderTransition(ctx, current.Status, status)
	s.log.Info("order status changed",
		zap.String("order_number", current.OrderNumber),
		zap.String("from", current.Status),
		zap.String("to", status),
	)
	return s.GetByID(ctx, req.ID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	orderID, err := parseID(id)
	if err != nil {
		return err
	}
	rows, err := s.repo.Delete(ctx, s.db, orderID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextNumber previews the number the next generated order would receive.
func (s *Service) NextNumber(ctx context.Context) (string, error) {
	return s.nextNumber(ctx, s.clock.Now().Year())
}

// Stats counts orders per status. Revenue is recognised on completed orders
// only.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	totals, err := s.repo.StatusTotals(ctx, s.db)
	if err != nil {
		return domain.Stats{}, err
	}

	stats := domain.Stats{TotalRevenue: decimal.Zero}
	for _, t := range totals {
		switch t.Status {
		case domain.StatusNew:
			stats.NewOrders = t.Count
		case domain.StatusPending:
			stats.Pending = t.Count
		case domain.StatusInProgress:
			stats.InProgress = t.Count
		case domain.StatusCompleted:
			stats.Completed = t.Count
			stats.TotalRevenue = t.Amount
		case domain.StatusCancelled:
			stats.Cancelled = t.Count
		}
	}
	return stats, nil
}

func (s *Service) insertNumbered(ctx context.Context, order *domain.Order) error {
	year := s.clock.Now().Year()

	if s.locker.Enabled() {
		key := fmt.Sprintf("labelworks:order-number:%d", year)
		token, err := s.locker.Acquire(ctx, key, numberLockTTL, numberLockWait)
		if err != nil {
			s.log.Warn("order number lock unavailable, relying on unique index", zap.Error(err))
		} else {
			defer func() {
				if err := s.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
					s.log.Warn("failed to release order number lock", zap.Error(err))
				}
			}()
		}
	}

	for attempt := 1; attempt <= numberAttempts; attempt++ {
		number, err := s.nextNumber(ctx, year)
		if err != nil {
			return err
		}
		order.OrderNumber = number

		err = s.repo.Insert(ctx, s.db, order)
		if err == nil {
			return nil
		}
		if !db.IsDuplicateKeyErr(err) {
			return err
		}
		s.metrics.RecordOrderNumberRetry(ctx)
		s.log.Warn("order number collision",
			zap.String("order_number", number),
			zap.Int("attempt", attempt),
		)
	}

	order.OrderNumber = ""
	return domain.ErrOrderNumberUnavailable
}

func (s *Service) nextNumber(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("ORD-%d-", year)
	numbers, err := s.repo.NumbersWithPrefix(ctx, s.db, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", prefix, nextSequence(numbers, prefix)), nil
}

// nextSequence returns one past the highest numeric suffix. Suffixes that are
// not plain integers are ignored.
func nextSequence(numbers []string, prefix string) int {
	highest := 0
	for _, n := range numbers {
		seq, err := strconv.Atoi(strings.TrimPrefix(n, prefix))
		if err != nil || seq <= 0 {
			continue
		}
		if seq > highest {
			highest = seq
		}
	}
	return highest + 1
}

func (s *Service) find(ctx context.Context, id string) (*domain.Order, error) {
	orderID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func prepare(o *domain.Order) {
	o.ProjectNumber = strings.TrimSpace(o.ProjectNumber)
	o.OrderNumber = strings.TrimSpace(o.OrderNumber)
	o.OrderCompany = strings.TrimSpace(o.OrderCompany)
	o.ProductName = strings.TrimSpace(o.ProductName)
	o.Status = strings.TrimSpace(o.Status)
	o.CustomerID = nonZero(o.CustomerID)
	o.AssignedTo = nonZero(o.AssignedTo)
	o.LabelSpecID = nonZero(o.LabelSpecID)
	o.TotalAmount = derive.TotalAmount(o.Quantity, o.UnitPrice)
}

// checkReferences rejects ids that do not resolve and fills the company name
// from the customer record when none was given.
func (s *Service) checkReferences(ctx context.Context, o *domain.Order) error {
	if o.CustomerID != nil {
		found, err := s.repo.FindCustomers(ctx, s.db, []snowflake.ID{*o.CustomerID})
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return schema.Invalid("customerId", schema.CodeInvalidFormat, "references an unknown customer")
		}
		if o.OrderCompany == "" {
			o.OrderCompany = found[0].Name
		}
	}
	if o.AssignedTo != nil {
		found, err := s.repo.FindUsers(ctx, s.db, []snowflake.ID{*o.AssignedTo})
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return schema.Invalid("assignedTo", schema.CodeInvalidFormat, "references an unknown user")
		}
	}
	if o.LabelSpecID != nil {
		found, err := s.repo.FindLabelSpecs(ctx, s.db, []snowflake.ID{*o.LabelSpecID})
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return schema.Invalid("labelSpecId", schema.CodeInvalidFormat, "references an unknown label specification")
		}
	}
	return nil
}

func (s *Service) views(ctx context.Context, items []*domain.Order) ([]domain.OrderView, error) {
	var customerIDs, userIDs, specIDs []snowflake.ID
	for _, item := range items {
		if item == nil {
			continue
		}
		if item.CustomerID != nil {
			customerIDs = append(customerIDs, *item.CustomerID)
		}
		if item.AssignedTo != nil {
			userIDs = append(userIDs, *item.AssignedTo)
		}
		if item.LabelSpecID != nil {
			specIDs = append(specIDs, *item.LabelSpecID)
		}
	}

	customers, err := s.repo.FindCustomers(ctx, s.db, customerIDs)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.FindUsers(ctx, s.db, userIDs)
	if err != nil {
		return nil, err
	}
	specs, err := s.repo.FindLabelSpecs(ctx, s.db, specIDs)
	if err != nil {
		return nil, err
	}

	customerByID := make(map[snowflake.ID]domain.CustomerSummary, len(customers))
	for _, c := range customers {
		customerByID[c.ID] = c
	}
	userByID := make(map[snowflake.ID]domain.UserSummary, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}
	specByID := make(map[snowflake.ID]domain.LabelSpecSummary, len(specs))
	for _, sp := range specs {
		specByID[sp.ID] = sp
	}

	now := s.clock.Now()
	views := make([]domain.OrderView, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		view := domain.OrderView{Order: *item}
		if item.CustomerID != nil {
			if c, ok := customerByID[*item.CustomerID]; ok {
				view.Customer = &c
			}
		}
		if item.AssignedTo != nil {
			if u, ok := userByID[*item.AssignedTo]; ok {
				view.AssignedUser = &u
			}
		}
		if item.LabelSpecID != nil {
			if sp, ok := specByID[*item.LabelSpecID]; ok {
				view.LabelSpec = &sp
			}
		}
		view.DueDays, view.DueStatus = derive.DueStatus(now, item.RequiredDeliveryDate)
		if domain.IsTerminal(item.Status) {
			view.DueStatus = derive.DueOK
		}
		views = append(views, view)
	}
	return views, nil
}

func nonZero(id *snowflake.ID) *snowflake.ID {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
