package models

type HomeworkStatus string

const (
	StatusApproved  HomeworkStatus = "approved"
	StatusReviewing HomeworkStatus = "reviewing"
	StatusRejected  HomeworkStatus = "rejected"
)

// Verdicts сопоставляет статус ревью с текстом для студента.
var Verdicts = map[HomeworkStatus]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

type Homework struct {
	Name   string
	Status HomeworkStatus
}

// Ключи ответа API домашних работ.
const (
	FieldHomeworks    = "homeworks"
	FieldCurrentDate  = "current_date"
	FieldHomeworkName = "homework_name"
	FieldStatus       = "status"
	FieldFromDate     = "from_date"
	FieldErrorCode    = "code"
	FieldError        = "error"
)
