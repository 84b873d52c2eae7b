package quiz

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a teacher or a student.
type User struct {
	ID        int       `po:"user_id,primaryKey,autoIncrement"`
	Name      string    `po:"name,notNull"`
	Email     string    `po:"email,notNull"`
	Password  string    `po:"password,notNull"`
	Role      string    `po:"role,enum(teacher|student),notNull"`
	CreatedAt time.Time `po:"createdAt,default(now)"`
	UpdatedAt time.Time `po:"updatedAt,default(now),onUpdate(now)"`
}

func (User) TableName() string { return "user" }

type Quiz struct {
	ID          int       `po:"quiz_id,primaryKey,autoIncrement"`
	Title       string    `po:"title,notNull"`
	Description string    `po:"description,text"`
	Code        string    `po:"quiz_code,unique"`
	TeacherID   *int      `po:"teacher_id,fk(user.user_id)"`
	Duration    int       `po:"duration"`
	CreatedAt   time.Time `po:"createdAt,default(now)"`
	UpdatedAt   time.Time `po:"updatedAt,default(now),onUpdate(now)"`
}

func (Quiz) TableName() string { return "quiz" }

type Question struct {
	ID        int       `po:"question_id,primaryKey,autoIncrement"`
	QuizID    *int      `po:"quiz_id,fk(quiz.quiz_id)"`
	Text      string    `po:"question_text,text,notNull"`
	Type      string    `po:"question_type,enum(MCQ|true or false|short answer|multimedia)"`
	CreatedAt time.Time `po:"createdAt,default(now)"`
	UpdatedAt time.Time `po:"updatedAt,default(now),onUpdate(now)"`
}

func (Question) TableName() string { return "question" }

// Option is one choice of a question.
type Option struct {
	ID         int    `po:"option_id,primaryKey,autoIncrement"`
	QuestionID *int   `po:"question_id,fk(question.question_id)"`
	Text       string `po:"option_text,notNull"`
	IsCorrect  bool   `po:"is_correct"`
}

func (Option) TableName() string { return "option" }

// Answer is a student's response to a question. It outlives the student.
type Answer struct {
	ID          int       `po:"answer_id,primaryKey,autoIncrement"`
	QuestionID  *int      `po:"question_id,fk(question.question_id)"`
	StudentID   *int      `po:"student_id,fk(user.user_id),onDelete(setNull)"`
	Text        string    `po:"answer_text,text"`
	SubmittedAt time.Time `po:"submitted_At,default(now)"`
}

func (Answer) TableName() string { return "answer" }

// Result is a student's score on a quiz. It outlives the student.
type Result struct {
	ID          int             `po:"result_id,primaryKey,autoIncrement"`
	QuizID      *int            `po:"quiz_id,fk(quiz.quiz_id)"`
	StudentID   *int            `po:"student_id,fk(user.user_id),onDelete(setNull)"`
	Score       decimal.Decimal `po:"score,numeric(5,2)"`
	SubmittedAt time.Time       `po:"submitted_At,default(now)"`
}

func (Result) TableName() string { return "result" }
