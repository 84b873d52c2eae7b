package travel

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int        `po:"user_id,primaryKey,autoIncrement"`
	Username     string     `po:"username,varchar(255),unique"`
	PasswordHash string     `po:"password_hash,varchar(255)"`
	Email        string     `po:"email,varchar(100),unique"`
	PhoneNumber  string     `po:"phone_number,varchar(20)"`
	FirstName    string     `po:"first_name,varchar(50)"`
	LastName     string     `po:"last_name,varchar(50)"`
	Role         string     `po:"user_role,enum(ADMIN|USERS)"`
	CreatedAt    time.Time  `po:"created_at,default(now)"`
	UpdatedAt    time.Time  `po:"updated_at,default(now),onUpdate(now)"`
	DeletedAt    *time.Time `po:"deleted_at"`
}

func (User) TableName() string { return "users" }

// Tour is a bookable trip with a date range and seat capacity.
type Tour struct {
	ID             int             `po:"tour_id,primaryKey,autoIncrement"`
	Name           string          `po:"tour_name"`
	Description    string          `po:"description,text"`
	Price          decimal.Decimal `po:"price,numeric(10,2)"`
	StartDate      time.Time       `po:"start_date,date"`
	EndDate        time.Time       `po:"end_date,date"`
	SeatsAvailable int             `po:"seats_available"`
	ImageURL       string          `po:"image_url,varchar(255)"`
	CreatedAt      time.Time       `po:"created_at,default(now)"`
	UpdatedAt      time.Time       `po:"updated_at,default(now),onUpdate(now)"`
	DeletedAt      *time.Time      `po:"deleted_at"`
}

func (Tour) TableName() string { return "tours" }

type Booking struct {
	ID            int             `po:"booking_id,primaryKey,autoIncrement"`
	UserID        int             `po:"user_id,notNull,fk(users.user_id)"`
	TourID        int             `po:"tour_id,notNull,fk(tours.tour_id)"`
	BookingDate   time.Time       `po:"booking_date,default(now)"`
	TravelDate    time.Time       `po:"travel_date,date"`
	SeatsBooked   int             `po:"seats_booked"`
	TotalAmount   decimal.Decimal `po:"total_amount,numeric(10,2)"`
	PaymentStatus string          `po:"payment_status,enum(SUCCESS|FAILED)"`
	CreatedAt     time.Time       `po:"created_at,default(now)"`
	UpdatedAt     time.Time       `po:"updated_at,default(now),onUpdate(now)"`
}

func (Booking) TableName() string { return "bookings" }

type Payment struct {
	ID            int             `po:"payment_id,primaryKey,autoIncrement"`
	BookingID     int             `po:"booking_id,notNull,fk(bookings.booking_id)"`
	PaymentDate   time.Time       `po:"payment_date,default(now)"`
	Amount        decimal.Decimal `po:"amount,numeric(10,2)"`
	Method        string          `po:"payment_method,enum(GCASH)"`
	Status        string          `po:"payment_status,enum(SUCCESS|FAILED)"`
	TransactionID string          `po:"transaction_id,varchar(100)"`
}

func (Payment) TableName() string { return "payments" }

type Review struct {
	ID        int       `po:"review_id,primaryKey,autoIncrement"`
	UserID    int       `po:"user_id,notNull,fk(users.user_id)"`
	TourID    int       `po:"tour_id,notNull,fk(tours.tour_id)"`
	Rating    int       `po:"rating"`
	Comment   string    `po:"comment,text"`
	CreatedAt time.Time `po:"created_at,default(now)"`
}

func (Review) TableName() string { return "reviews" }

// AdminLog records an action taken by an administrator.
type AdminLog struct {
	ID          int       `po:"log_id,primaryKey,autoIncrement"`
	AdminID     int       `po:"admin_id,notNull,fk(users.user_id)"`
	ActionType  string    `po:"action_type,enum(CREATE|UPDATE|DELETE)"`
	Description string    `po:"description,text"`
	Timestamp   time.Time `po:"timestamp,default(now)"`
}

func (AdminLog) TableName() string { return "admin_logs" }
