package events

import "time"

type Admin struct {
	ID       int    `po:"admin_id,primaryKey,autoIncrement"`
	Username string `po:"admin_username"`
	Email    string `po:"admin_email"`
	Password string `po:"admin_password"`
}

func (Admin) TableName() string { return "admin" }

type User struct {
	ID       int    `po:"user_id,primaryKey,autoIncrement"`
	Gmail    string `po:"user_gmail"`
	Password string `po:"user_password"`
	LastName string `po:"user_lastname"`
}

func (User) TableName() string { return "user" }

// Event is a scheduled gathering.
type Event struct {
	ID                    int       `po:"event_id,primaryKey,autoIncrement"`
	Title                 string    `po:"event_title"`
	Description           string    `po:"event_description"`
	AdditionalDescription string    `po:"event_additional_description,text"`
	Address               string    `po:"event_address"`
	Planner               string    `po:"event_planner"`
	Image                 string    `po:"event_image"`
	Status                string    `po:"event_status"`
	Start                 time.Time `po:"event_start,date"`
}

func (Event) TableName() string { return "events" }

// Agenda is a time slot of an event. Times are kept as HH:MM text.
type Agenda struct {
	ID        int    `po:"agenda_id,primaryKey,autoIncrement"`
	EventID   *int   `po:"event_id,fk(events.event_id)"`
	TimeStart string `po:"agenda_time_start"`
	TimeEnd   string `po:"agenda_time_end"`
}

func (Agenda) TableName() string { return "agenda" }

// Invitation is a named seat at an event.
type Invitation struct {
	ID           int    `po:"invitation_id,primaryKey,autoIncrement"`
	Name         string `po:"invitation_name"`
	EventID      *int   `po:"event_id,fk(events.event_id)"`
	AttendeeType string `po:"attendee_type,enum(VIP|Regular)"`
	SeatNumber   string `po:"seat_number"`
}

func (Invitation) TableName() string { return "invited" }

// Attendee records that an invitation was taken up.
type Attendee struct {
	ID           int  `po:"attendees_id,primaryKey,autoIncrement"`
	InvitationID *int `po:"invitation_id,fk(invited.invitation_id)"`
}

func (Attendee) TableName() string { return "attendees" }
