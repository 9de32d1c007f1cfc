package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

type orderRepository struct {
	db DB
}

// NewOrderRepository returns the durable order store. Selected by config
// when orders should survive process restarts; the conversation logic is
// unaware which backend it talks to.
func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (id, phone, status, payment_method, delivery_address,
		                    subtotal_paise, delivery_fee_paise, tax_paise, total_paise,
		                    created_at, updated_at, estimated_delivery)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	if _, err := tx.Exec(ctx, query,
		order.ID, order.Phone, order.Status, order.PaymentMethod, order.DeliveryAddress,
		order.Pricing.SubtotalPaise, order.Pricing.DeliveryFeePaise, order.Pricing.TaxPaise,
		order.Pricing.TotalPaise, order.CreatedAt, order.UpdatedAt, order.EstimatedDelivery,
	); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, name, price_paise, quantity, image_url, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, item := range order.Items {
		if _, err := tx.Exec(ctx, itemQuery,
			order.ID, item.ProductID, item.Name, item.PricePaise, item.Quantity,
			item.ImageURL, item.Description,
		); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, phone, status, payment_method, delivery_address,
		       subtotal_paise, delivery_fee_paise, tax_paise, total_paise,
		       created_at, updated_at, estimated_delivery
		FROM orders
		WHERE id = $1
	`
	order, err := r.scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	order, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	// Enforce the transition graph here too; the DB stores whatever the
	// domain allows.
	if err := order.TransitionTo(status); err != nil {
		return err
	}

	affected, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		order.Status, order.UpdatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) SetPaymentMethod(ctx context.Context, id string, method domain.PaymentMethod) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE orders SET payment_method = $1, updated_at = now() WHERE id = $2`,
		method, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set payment method: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) ListByPhone(ctx context.Context, phone string) ([]*domain.Order, error) {
	query := `
		SELECT id, phone, status, payment_method, delivery_address,
		       subtotal_paise, delivery_fee_paise, tax_paise, total_paise,
		       created_at, updated_at, estimated_delivery
		FROM orders
		WHERE phone = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	for _, order := range orders {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *orderRepository) LatestByPhone(ctx context.Context, phone string) (*domain.Order, error) {
	query := `
		SELECT id, phone, status, payment_method, delivery_address,
		       subtotal_paise, delivery_fee_paise, tax_paise, total_paise,
		       created_at, updated_at, estimated_delivery
		FROM orders
		WHERE phone = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	order, err := r.scanOrder(r.db.QueryRow(ctx, query, phone))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) scanOrder(row Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.Phone, &order.Status, &order.PaymentMethod, &order.DeliveryAddress,
		&order.Pricing.SubtotalPaise, &order.Pricing.DeliveryFeePaise, &order.Pricing.TaxPaise,
		&order.Pricing.TotalPaise, &order.CreatedAt, &order.UpdatedAt, &order.EstimatedDelivery,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	rows, err := r.db.Query(ctx,
		`SELECT product_id, name, price_paise, quantity, image_url, description
		 FROM order_items WHERE order_id = $1`,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.PricePaise,
			&item.Quantity, &item.ImageURL, &item.Description); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return nil
}
