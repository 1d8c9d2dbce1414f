package rooms

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

var ErrInvalidTransition = errors.New("invalid status transition")

// ListRooms returns a hostel's room inventory: products in the hostel-room
// category owned by the given seller.
func (r *Repo) ListRooms(ctx context.Context, sellerID string) ([]Room, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, price, seller_id, category, created_at
		FROM products
		WHERE category = $1 AND seller_id = $2
		ORDER BY name`, RoomCategory, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Room
	for rows.Next() {
		var rm Room
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Price, &rm.SellerID, &rm.Category, &rm.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// LoadOrderSnapshot fetches the live orders that affect availability of the
// given rooms: vendor-scoped, joined to their items, status pending_approval
// or approved. Completed and rejected orders no longer hold a room and are
// excluded at the query.
func (r *Repo) LoadOrderSnapshot(ctx context.Context, vendorID string, roomIDs []int64) ([]OrderSnapshot, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}
	rows, err := r.DB.Query(ctx, `
		SELECT o.id, o.status, oi.product_id
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE o.vendor_id = $1
		  AND oi.product_id = ANY($2)
		  AND o.status = ANY($3)
		ORDER BY o.id`,
		vendorID, roomIDs, []string{string(StatusPendingApproval), string(StatusApproved)})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderSnapshot
	idx := map[int64]int{}
	for rows.Next() {
		var (
			id        int64
			status    string
			productID int64
		)
		if err := rows.Scan(&id, &status, &productID); err != nil {
			return nil, err
		}
		i, ok := idx[id]
		if !ok {
			out = append(out, OrderSnapshot{ID: id, Status: Status(status)})
			i = len(out) - 1
			idx[id] = i
		}
		out[i].Items = append(out[i].Items, SnapshotItem{ProductID: productID})
	}
	return out, rows.Err()
}

// UpdateOrderStatus applies a vendor action to an order. The row stays locked
// for the transition check so two dashboard clicks cannot race each other.
// Returns the updated order and the room it reserves (0 if the order somehow
// has no item).
func (r *Repo) UpdateOrderStatus(ctx context.Context, orderID int64, to Status) (Order, int64, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o := Order{ID: orderID}
	var status string
	err = tx.QueryRow(ctx, `
		SELECT buyer_id, vendor_id, total_amount, status
		FROM orders WHERE id = $1 FOR UPDATE`, orderID).
		Scan(&o.BuyerID, &o.VendorID, &o.TotalAmount, &status)
	if err != nil {
		return Order{}, 0, err
	}
	o.Status = Status(status)

	if !CanTransition(o.Status, to) {
		return Order{}, 0, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
		orderID, string(to)); err != nil {
		return Order{}, 0, err
	}

	var productID int64
	err = tx.QueryRow(ctx, `
		SELECT product_id FROM order_items WHERE order_id = $1 LIMIT 1`, orderID).
		Scan(&productID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return Order{}, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, 0, err
	}
	o.Status = to
	return o, productID, nil
}

// InsertOrder creates the order row of a reservation request and returns the
// generated id.
func (r *Repo) InsertOrder(ctx context.Context, buyerID, vendorID string, totalAmount int, status Status) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO orders(buyer_id, vendor_id, total_amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, buyerID, vendorID, totalAmount, string(status)).Scan(&id)
	return id, err
}

func (r *Repo) InsertOrderItem(ctx context.Context, orderID, productID int64, quantity, price int) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO order_items(order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)`, orderID, productID, quantity, price)
	return err
}

func (r *Repo) DeleteOrder(ctx context.Context, orderID int64) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	return err
}

type Summary struct {
	PendingApprovals int `json:"pending_approvals"`
	TotalRevenue     int `json:"total_revenue"`
	UniqueTenants    int `json:"unique_tenants"`
}

// VendorSummary aggregates a hostel vendor's dashboard numbers in one query.
func (r *Repo) VendorSummary(ctx context.Context, vendorID string) (Summary, error) {
	var s Summary
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE status = 'pending_approval'),
		       COALESCE(SUM(total_amount) FILTER (WHERE status <> 'rejected'), 0),
		       COUNT(DISTINCT buyer_id)
		FROM orders
		WHERE vendor_id = $1`, vendorID).
		Scan(&s.PendingApprovals, &s.TotalRevenue, &s.UniqueTenants)
	return s, err
}
