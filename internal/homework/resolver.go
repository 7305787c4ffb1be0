package homework

import (
	"fmt"

	domainerrors "github.com/central-university-dev/homework-bot/internal/domain/errors"
	"github.com/central-university-dev/homework-bot/internal/domain/models"
)

// Resolve формирует текст уведомления для самой свежей работы.
// ok равен false для пустого списка.
func Resolve(homeworks []any) (text string, ok bool, err error) {
	if len(homeworks) == 0 {
		return "", false, nil
	}

	hw, err := Parse(homeworks[0])
	if err != nil {
		return "", false, err
	}

	verdict, known := models.Verdicts[hw.Status]
	if !known {
		return "", false, &domainerrors.UnknownStatusError{Status: string(hw.Status)}
	}

	return models.StatusChangedText(hw, verdict), true, nil
}

// Parse достаёт имя и статус из сырой записи о работе.
func Parse(raw any) (models.Homework, error) {
	entry, ok := raw.(map[string]any)
	if !ok {
		return models.Homework{}, &domainerrors.SchemaError{Reason: "expected mapping, got " + TypeName(raw)}
	}

	name, err := stringField(entry, models.FieldHomeworkName)
	if err != nil {
		return models.Homework{}, err
	}

	rawStatus, found := entry[models.FieldStatus]
	if !found {
		return models.Homework{}, &domainerrors.SchemaError{Reason: "missing field " + models.FieldStatus}
	}

	status, ok := rawStatus.(string)
	if !ok {
		return models.Homework{}, &domainerrors.UnknownStatusError{Status: fmt.Sprint(rawStatus)}
	}

	return models.Homework{Name: name, Status: models.HomeworkStatus(status)}, nil
}

func stringField(entry map[string]any, field string) (string, error) {
	value, found := entry[field]
	if !found {
		return "", &domainerrors.SchemaError{Reason: "missing field " + field}
	}

	s, ok := value.(string)
	if !ok {
		return "", &domainerrors.SchemaError{Reason: "expected str for " + field + ", got " + TypeName(value)}
	}

	return s, nil
}
