package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Each cart lives under its own key so concurrent terminals never share
// staging state. Carts expire instead of being garbage collected.
const (
	cartKeyPrefix  = "cart:"
	defaultCartTTL = 24 * time.Hour
)

// CartLine is one staged line. Identity is the product, variant and modifier
// combination; adding the same combination again bumps the quantity.
type CartLine struct {
	ProductID   int64   `json:"product_id" binding:"required"`
	VariantID   *int64  `json:"variant_id"`
	ModifierIDs []int64 `json:"modifier_ids"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
}

// Cart is the staged state for one cart id.
type Cart struct {
	ID    string     `json:"id"`
	Lines []CartLine `json:"lines"`
}

// ToCheckoutItems converts the staged lines into checkout line requests.
func (c *Cart) ToCheckoutItems() []CheckoutItemRequest {
	items := make([]CheckoutItemRequest, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, CheckoutItemRequest{
			ProductID:   line.ProductID,
			VariantID:   line.VariantID,
			ModifierIDs: line.ModifierIDs,
			Quantity:    line.Quantity,
		})
	}
	return items
}

// lineKey identifies a line by its product, variant and modifier set.
func (l CartLine) lineKey() string {
	var b strings.Builder
	b.WriteString("p")
	b.WriteString(strconv.FormatInt(l.ProductID, 10))
	if l.VariantID != nil {
		b.WriteString(":v")
		b.WriteString(strconv.FormatInt(*l.VariantID, 10))
	}
	if len(l.ModifierIDs) > 0 {
		mods := append([]int64(nil), l.ModifierIDs...)
		sort.Slice(mods, func(i, j int) bool { return mods[i] < mods[j] })
		parts := make([]string, len(mods))
		for i, m := range mods {
			parts[i] = strconv.FormatInt(m, 10)
		}
		b.WriteString(":m")
		b.WriteString(strings.Join(parts, ","))
	}
	return b.String()
}

// CartService stages cart lines in Redis before checkout.
type CartService interface {
	CreateCart(ctx context.Context) (*Cart, error)
	GetCart(ctx context.Context, cartID string) (*Cart, error)
	AddItem(ctx context.Context, cartID string, line CartLine) (*Cart, error)
	DecreaseItem(ctx context.Context, cartID string, line CartLine) (*Cart, error)
	RemoveItem(ctx context.Context, cartID string, line CartLine) (*Cart, error)
	ClearCart(ctx context.Context, cartID string) error
}

type cartService struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCartService creates a new instance of CartService.
func NewCartService(rdb *redis.Client, ttl time.Duration) CartService {
	if ttl <= 0 {
		ttl = defaultCartTTL
	}
	return &cartService{rdb: rdb, ttl: ttl}
}

func cartKey(cartID string) string {
	return cartKeyPrefix + cartID
}

func (s *cartService) CreateCart(ctx context.Context) (*Cart, error) {
	cart := &Cart{ID: uuid.NewString(), Lines: []CartLine{}}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) GetCart(ctx context.Context, cartID string) (*Cart, error) {
	data, err := s.rdb.Get(ctx, cartKey(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: cart %s", ErrNotFound, cartID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	var cart Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart %s: %w", cartID, err)
	}
	return &cart, nil
}

func (s *cartService) AddItem(ctx context.Context, cartID string, line CartLine) (*Cart, error) {
	if line.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	key := line.lineKey()
	found := false
	for i := range cart.Lines {
		if cart.Lines[i].lineKey() == key {
			cart.Lines[i].Quantity += line.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Lines = append(cart.Lines, line)
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// DecreaseItem lowers a line's quantity by the given amount, dropping the
// line entirely when it reaches zero.
func (s *cartService) DecreaseItem(ctx context.Context, cartID string, line CartLine) (*Cart, error) {
	if line.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	key := line.lineKey()
	for i := range cart.Lines {
		if cart.Lines[i].lineKey() != key {
			continue
		}
		cart.Lines[i].Quantity -= line.Quantity
		if cart.Lines[i].Quantity <= 0 {
			cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
		}
		if err := s.save(ctx, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}
	return nil, fmt.Errorf("%w: line not in cart %s", ErrNotFound, cartID)
}

func (s *cartService) RemoveItem(ctx context.Context, cartID string, line CartLine) (*Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	key := line.lineKey()
	for i := range cart.Lines {
		if cart.Lines[i].lineKey() != key {
			continue
		}
		cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
		if err := s.save(ctx, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}
	return nil, fmt.Errorf("%w: line not in cart %s", ErrNotFound, cartID)
}

func (s *cartService) ClearCart(ctx context.Context, cartID string) error {
	deleted, err := s.rdb.Del(ctx, cartKey(cartID)).Result()
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("%w: cart %s", ErrNotFound, cartID)
	}
	return nil
}

func (s *cartService) save(ctx context.Context, cart *Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart %s: %w", cart.ID, err)
	}
	if err := s.rdb.Set(ctx, cartKey(cart.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", cart.ID, err)
	}
	return nil
}
