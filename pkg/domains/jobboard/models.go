package jobboard

import "time"

// Authentication holds login credentials and the account role.
type Authentication struct {
	ID           int        `po:"authentication_id,primaryKey,autoIncrement"`
	Username     string     `po:"username"`
	Email        string     `po:"email"`
	PasswordHash string     `po:"password_hash"`
	Role         string     `po:"role,enum(admin|employer|job_seeker)"`
	Stock        int        `po:"stock"`
	CreatedAt    time.Time  `po:"created_at,default(now)"`
	UpdatedAt    time.Time  `po:"updated_at,default(now),onUpdate(now)"`
	DeletedAt    *time.Time `po:"deleted_at"`
}

func (Authentication) TableName() string { return "authentication" }

// User is a profile attached to an authentication record.
type User struct {
	ID               int        `po:"user_id,primaryKey,autoIncrement"`
	AuthenticationID *int       `po:"authentication_id,fk(authentication.authentication_id)"`
	Name             string     `po:"name"`
	Birthdate        *time.Time `po:"birthdate"`
	Skills           string     `po:"skills,text"`
	WorkExperience   string     `po:"work_experience,text"`
	UpdatedAt        time.Time  `po:"updated_at,default(now),onUpdate(now)"`
}

func (User) TableName() string { return "user" }

// Message is a direct message between two users.
type Message struct {
	ID          int        `po:"message_id,primaryKey,autoIncrement"`
	SenderID    *int       `po:"sender_id,fk(user.user_id)"`
	RecipientID *int       `po:"recipient_id,fk(user.user_id)"`
	Message     string     `po:"message,text"`
	IsRead      bool       `po:"is_read"`
	MessageType string     `po:"message_type,enum(TEXT|IMAGE|FILE)"`
	SendAt      time.Time  `po:"send_at,default(now)"`
	DeletedAt   *time.Time `po:"deleted_at"`
}

func (Message) TableName() string { return "message" }

// JobPosting is an open position published by an employer.
type JobPosting struct {
	ID          int        `po:"job_id,primaryKey,autoIncrement"`
	EmployerID  *int       `po:"employer_id,fk(user.user_id)"`
	Title       string     `po:"job_title"`
	Description string     `po:"job_description,text"`
	Location    string     `po:"location"`
	Category    string     `po:"category"`
	Industry    string     `po:"industry"`
	MinSalary   int        `po:"min_salary"`
	MaxSalary   int        `po:"max_salary"`
	CreatedAt   time.Time  `po:"created_at,default(now)"`
	UpdatedAt   time.Time  `po:"updated_at,default(now),onUpdate(now)"`
	DeletedAt   *time.Time `po:"deleted_at"`
}

func (JobPosting) TableName() string { return "job_posting" }

// Application is a job seeker's application to a posting.
type Application struct {
	ID             int        `po:"application_id,primaryKey,autoIncrement"`
	JobSeekerID    *int       `po:"job_seeker_id,fk(user.user_id)"`
	JobID          *int       `po:"job_id,fk(job_posting.job_id)"`
	Resume         string     `po:"resume,text"`
	Status         string     `po:"status,enum(PENDING|ACCEPTED|REJECTED)"`
	Skills         string     `po:"skills,text"`
	WorkExperience string     `po:"work_experience,text"`
	AppliedAt      time.Time  `po:"applied_at,default(now)"`
	DeletedAt      *time.Time `po:"deleted_at"`
}

func (Application) TableName() string { return "applications" }

// JobInteraction records a user viewing or applying to a posting.
type JobInteraction struct {
	ID              int       `po:"interaction_id,primaryKey,autoIncrement"`
	UserID          *int      `po:"user_id,fk(user.user_id)"`
	JobID           *int      `po:"job_id,fk(job_posting.job_id)"`
	InteractionType int       `po:"interaction_type"`
	InteractionDate time.Time `po:"interaction_date,default(now)"`
	IsApplied       bool      `po:"is_applied"`
}

func (JobInteraction) TableName() string { return "job_interaction" }
