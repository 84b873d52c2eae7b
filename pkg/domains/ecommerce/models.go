package ecommerce

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a customer, seller or administrator account.
type User struct {
	ID        int       `po:"user_id,primaryKey,autoIncrement"`
	Password  string    `po:"password"`
	Name      string    `po:"name"`
	Address   string    `po:"address"`
	Phone     string    `po:"phone"`
	Role      string    `po:"role,enum(customer|seller|admin)"`
	CreatedAt time.Time `po:"created_at,default(now)"`
}

func (User) TableName() string { return "users" }

// Product is an item for sale.
type Product struct {
	ID          int             `po:"product_id,primaryKey,autoIncrement"`
	Name        string          `po:"name"`
	Brand       string          `po:"brand"`
	Description string          `po:"description"`
	Price       decimal.Decimal `po:"price,numeric(10,2)"`
	Stock       int             `po:"stock"`
	Category    string          `po:"category"`
	SKU         string          `po:"sku"`
	ImageURL    string          `po:"image_url"`
	CreatedAt   time.Time       `po:"created_at,default(now)"`
}

func (Product) TableName() string { return "products" }

// Review is a user's rating of a product.
type Review struct {
	ID        int       `po:"review_id,primaryKey,autoIncrement"`
	UserID    *int      `po:"user_id,fk(users.user_id)"`
	ProductID *int      `po:"product_id,fk(products.product_id)"`
	Rating    int       `po:"rating"`
	Comment   string    `po:"comment,text"`
	CreatedAt time.Time `po:"created_at,default(now)"`
}

func (Review) TableName() string { return "reviews" }

// OrderItem is one product line of an order. OrderID is a plain column:
// items are seeded before the orders they belong to.
type OrderItem struct {
	ID        int             `po:"order_item,primaryKey,autoIncrement"`
	OrderID   int             `po:"order_id"`
	ProductID *int            `po:"product_id,fk(products.product_id)"`
	Quantity  int             `po:"quantity"`
	Price     decimal.Decimal `po:"price,numeric(10,2)"`
}

func (OrderItem) TableName() string { return "order_items" }

// Order is a user's purchase.
type Order struct {
	ID          int             `po:"order_id,primaryKey,autoIncrement"`
	UserID      *int            `po:"user_id,fk(users.user_id)"`
	TotalAmount decimal.Decimal `po:"total_amount,numeric(10,2)"`
	Status      string          `po:"status,enum(Pending|Shipped|Delivered|Completed|Cancelled)"`
	CreatedAt   time.Time       `po:"created_at,default(now)"`
}

func (Order) TableName() string { return "orders" }
