// Package booking implements order placement: cart validation, identity
// reconciliation by phone number, conditioned seat reservation and order
// recording.
package booking

import (
	"context"
	"log"
	"strings"
	"time"

	"talentclub/apperr"
	"talentclub/models"
	"talentclub/utils"
)

// genID returns the digit-string reference an order is known by on
// confirmations and receipts.
func genID() string {
	return utils.GenerateRandomDigitString(22)
}

// LessonStore is the slice of the document store the booking service needs.
type LessonStore interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Lesson, error)
	Get(ctx context.Context, id string) (*models.Lesson, error)
	ReserveSeat(ctx context.Context, id string) (bool, error)
	ReleaseSeat(ctx context.Context, id string) error
}

// AccountStore records orders, either embedded in accounts or as standalone
// documents depending on the configured storage variant.
type AccountStore interface {
	Standalone() bool
	FindByPhone(ctx context.Context, phone string) (*models.Account, error)
	Create(ctx context.Context, account models.Account) error
	AppendOrder(ctx context.Context, accountID string, order models.Order) error
	InsertStandalone(ctx context.Context, order models.StandaloneOrder) error
	ListAccounts(ctx context.Context) ([]models.Account, error)
	ListStandalone(ctx context.Context) ([]models.StandaloneOrder, error)
}

// Confirmation is returned on a fully committed order.
type Confirmation struct {
	Message   string `json:"message"`
	AccountID string `json:"accountId,omitempty"`
	OrderID   string `json:"orderId"`
}

type Service struct {
	lessons  LessonStore
	accounts AccountStore
	verifier IdentityVerifier
	emit     func(context.Context, models.SeatUpdate)
}

// NewService wires the booking core. emit may be nil when no live seat feed
// is wanted.
func NewService(lessons LessonStore, accounts AccountStore, verifier IdentityVerifier, emit func(context.Context, models.SeatUpdate)) *Service {
	if verifier == nil {
		verifier = PhoneIdentityVerifier{}
	}
	return &Service{lessons: lessons, accounts: accounts, verifier: verifier, emit: emit}
}

// PlaceOrder validates the cart against live seat counts, reconciles the
// caller's identity and commits one seat per cart entry. Duplicate ids are
// deliberately not deduplicated: a cart [A, A] reserves two seats of A or
// fails.
//
// There is no cross-lesson transaction. The commit phase decrements each
// lesson with a conditioned update; on a lost race every seat already taken
// in this cart is released again before the error is returned.
func (s *Service) PlaceOrder(ctx context.Context, cart []string, name, phone, password string) (*Confirmation, error) {
	if len(cart) == 0 {
		return nil, apperr.New(apperr.InvalidRequest, "cart is empty")
	}
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return nil, apperr.New(apperr.InvalidRequest, "name and phone required")
	}

	needed := make(map[string]int, len(cart))
	distinct := make([]string, 0, len(cart))
	for _, id := range cart {
		if needed[id] == 0 {
			distinct = append(distinct, id)
		}
		needed[id]++
	}

	found, err := s.lessons.FindByIDs(ctx, distinct)
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreFailure, err, "resolving cart lessons")
	}
	if len(found) != len(distinct) {
		return nil, apperr.New(apperr.InvalidRequest, "some lessons not found")
	}

	byID := make(map[string]models.Lesson, len(found))
	for _, lesson := range found {
		byID[lesson.ID] = lesson
	}

	// Fail-fast snapshot check. The commit phase re-checks per seat, this
	// only rejects carts that cannot possibly succeed as read.
	for _, id := range distinct {
		lesson := byID[id]
		if lesson.Spaces < needed[id] {
			return nil, apperr.New(apperr.InsufficientCapacity,
				"not enough spaces left for '%s'", lesson.Topic)
		}
	}

	var account *models.Account
	if !s.accounts.Standalone() {
		account, err = s.accounts.FindByPhone(ctx, phone)
		if err != nil {
			return nil, apperr.Wrap(apperr.StoreFailure, err, "looking up account by phone")
		}
		if account != nil {
			if err := s.verifier.Verify(name, password, *account); err != nil {
				return nil, err
			}
		}
	}

	if err := s.reserve(ctx, cart, byID); err != nil {
		return nil, err
	}

	order := models.Order{
		ID:        genID(),
		CreatedAt: time.Now(),
	}
	for _, id := range cart {
		order.Lines = append(order.Lines, models.OrderLine{
			LessonID: id,
			Topic:    byID[id].Topic,
		})
	}

	confirmation, err := s.record(ctx, account, order, name, phone, password)
	if err != nil {
		return nil, err
	}

	s.emitSeatUpdates(ctx, distinct, needed, byID)
	return confirmation, nil
}

// reserve takes one seat per cart entry with a conditioned decrement. On a
// lost race it releases everything this call already took.
func (s *Service) reserve(ctx context.Context, cart []string, byID map[string]models.Lesson) error {
	for i, id := range cart {
		reserved, err := s.lessons.ReserveSeat(ctx, id)
		if err != nil {
			s.rollback(ctx, cart[:i])
			return apperr.Wrap(apperr.StoreFailure, err, "reserving seat for '%s'", byID[id].Topic)
		}
		if !reserved {
			s.rollback(ctx, cart[:i])
			return apperr.New(apperr.CapacityRace,
				"'%s' sold out while placing the order", byID[id].Topic)
		}
	}
	return nil
}

func (s *Service) rollback(ctx context.Context, reserved []string) {
	for _, id := range reserved {
		if err := s.lessons.ReleaseSeat(ctx, id); err != nil {
			// Nothing left to compensate with; surfaced in the log only.
			log.Printf("failed to release reserved seat for lesson %s: %v", id, err)
		}
	}
}

func (s *Service) record(ctx context.Context, account *models.Account, order models.Order, name, phone, password string) (*Confirmation, error) {
	if s.accounts.Standalone() {
		standalone := models.StandaloneOrder{
			ID:        order.ID,
			Phone:     phone,
			Name:      name,
			Lines:     order.Lines,
			CreatedAt: order.CreatedAt,
		}
		if err := s.accounts.InsertStandalone(ctx, standalone); err != nil {
			s.rollbackOrderLines(ctx, order)
			return nil, apperr.Wrap(apperr.StoreFailure, err, "recording order")
		}
		return &Confirmation{Message: "Order placed", OrderID: order.ID}, nil
	}

	if account != nil {
		if err := s.accounts.AppendOrder(ctx, account.ID, order); err != nil {
			s.rollbackOrderLines(ctx, order)
			return nil, apperr.Wrap(apperr.StoreFailure, err, "appending order to account")
		}
		return &Confirmation{
			Message:   "Order added to existing account",
			AccountID: account.ID,
			OrderID:   order.ID,
		}, nil
	}

	created := models.Account{
		ID:       utils.GetUUID(),
		Phone:    phone,
		Name:     name,
		Password: password,
		Orders:   []models.Order{order},
	}
	if err := s.accounts.Create(ctx, created); err != nil {
		s.rollbackOrderLines(ctx, order)
		return nil, apperr.Wrap(apperr.StoreFailure, err, "creating account")
	}
	return &Confirmation{
		Message:   "New account created & order placed",
		AccountID: created.ID,
		OrderID:   order.ID,
	}, nil
}

func (s *Service) rollbackOrderLines(ctx context.Context, order models.Order) {
	ids := make([]string, 0, len(order.Lines))
	for _, line := range order.Lines {
		ids = append(ids, line.LessonID)
	}
	s.rollback(ctx, ids)
}

// emitSeatUpdates publishes the post-commit seat counts. Best effort: a
// failed re-read falls back to the validation snapshot minus what this
// order took.
func (s *Service) emitSeatUpdates(ctx context.Context, distinct []string, needed map[string]int, byID map[string]models.Lesson) {
	if s.emit == nil {
		return
	}
	for _, id := range distinct {
		lesson := byID[id]
		spaces := lesson.Spaces - needed[id]
		if current, err := s.lessons.Get(ctx, id); err == nil && current != nil {
			spaces = current.Spaces
		}
		s.emit(ctx, models.SeatUpdate{LessonID: id, Topic: lesson.Topic, Spaces: spaces})
	}
}

// ListOrders returns every recorded order in whichever storage variant is
// active.
func (s *Service) ListOrders(ctx context.Context) (any, error) {
	if s.accounts.Standalone() {
		orders, err := s.accounts.ListStandalone(ctx)
		if err != nil {
			return nil, apperr.Wrap(apperr.StoreFailure, err, "listing orders")
		}
		return orders, nil
	}
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreFailure, err, "listing orders")
	}
	return accounts, nil
}
