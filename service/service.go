package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	models "shop-simulator/model"
	"shop-simulator/store"
)

// Service binds the engine to one loaded catalog and user table and writes
// them back through the store after every change.
type Service struct {
	store   store.Store
	engine  *Engine
	catalog *models.Catalog
	users   *models.Users
	log     *zap.Logger
}

// NewService loads the catalog and users from st.
func NewService(ctx context.Context, st store.Store, engine *Engine, log *zap.Logger) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if engine == nil {
		engine = NewEngine(log)
	}
	catalog, err := st.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	users, err := st.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	s := &Service{store: st, engine: engine, catalog: catalog, users: users, log: log}
	// first run: persist the seeded defaults right away
	if err := s.Save(ctx); err != nil {
		return nil, err
	}
	log.Debug("session loaded", zap.Int("products", catalog.Len()), zap.Int("users", users.Len()))
	return s, nil
}

// Save writes the catalog and users through the store.
func (s *Service) Save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.catalog, s.users); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Login returns the user's account, creating and saving it on first use.
func (s *Service) Login(ctx context.Context, userID string) (AccountDTO, bool, error) {
	acct, created, err := s.account(ctx, userID)
	if err != nil {
		return AccountDTO{}, false, err
	}
	return toAccountDTO(userID, acct), created, nil
}

func (s *Service) ListProducts() []models.Product {
	return s.engine.ListProducts(s.catalog)
}

func (s *Service) AddToCart(ctx context.Context, userID, product string, qty int) error {
	acct, _, err := s.account(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.engine.AddToCart(acct, s.catalog, product, qty); err != nil {
		return err
	}
	return s.Save(ctx)
}

func (s *Service) RemoveFromCart(ctx context.Context, userID, product string) (models.CartItem, error) {
	acct, _, err := s.account(ctx, userID)
	if err != nil {
		return models.CartItem{}, err
	}
	item, err := s.engine.RemoveFromCart(acct, s.catalog, product)
	if err != nil {
		return models.CartItem{}, err
	}
	return item, s.Save(ctx)
}

// GetCart returns the cart lines and their untaxed total. Unknown users get
// an empty cart and are not created.
func (s *Service) GetCart(_ context.Context, userID string) ([]models.CartItem, decimal.Decimal, error) {
	acct, ok, err := s.lookup(userID)
	if err != nil || !ok {
		return []models.CartItem{}, decimal.Zero, err
	}
	return s.engine.ViewCart(acct), s.engine.CartTotal(acct), nil
}

// ClearCart reports false when there was nothing to clear.
func (s *Service) ClearCart(ctx context.Context, userID string) (bool, error) {
	acct, _, err := s.account(ctx, userID)
	if err != nil {
		return false, err
	}
	if !s.engine.ClearCart(acct, s.catalog) {
		return false, nil
	}
	return true, s.Save(ctx)
}

func (s *Service) Checkout(ctx context.Context, userID string) (models.CheckoutSummary, error) {
	acct, _, err := s.account(ctx, userID)
	if err != nil {
		return models.CheckoutSummary{}, err
	}
	sum, err := s.engine.Checkout(acct)
	if err != nil {
		return models.CheckoutSummary{}, err
	}
	return sum, s.Save(ctx)
}

// History lists completed checkouts. Unknown users have none.
func (s *Service) History(_ context.Context, userID string) ([]models.Transaction, error) {
	acct, ok, err := s.lookup(userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Transaction{}, nil
	}
	return s.engine.History(acct), nil
}

// lookup finds an existing account without creating one.
func (s *Service) lookup(userID string) (*models.UserAccount, bool, error) {
	if userID == "" {
		return nil, false, ErrUserRequired
	}
	acct, ok := s.users.Get(userID)
	return acct, ok, nil
}

// account initializes the user if needed and saves when it was created.
func (s *Service) account(ctx context.Context, userID string) (*models.UserAccount, bool, error) {
	if userID == "" {
		return nil, false, ErrUserRequired
	}
	acct, created := s.engine.InitializeUser(userID, s.users)
	if created {
		if err := s.Save(ctx); err != nil {
			return nil, false, err
		}
	}
	return acct, created, nil
}

// DTOs

// AccountDTO summarizes an account for display.
type AccountDTO struct {
	UserID       string          `json:"user_id"`
	Balance      decimal.Decimal `json:"balance"`
	CartLines    int             `json:"cart_lines"`
	Transactions int             `json:"transactions"`
}

func toAccountDTO(userID string, a *models.UserAccount) AccountDTO {
	return AccountDTO{
		UserID:       userID,
		Balance:      a.Balance,
		CartLines:    a.Cart.Len(),
		Transactions: len(a.Transactions),
	}
}
