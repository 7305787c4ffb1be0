package homework

import (
	"fmt"

	domainerrors "github.com/central-university-dev/homework-bot/internal/domain/errors"
	"github.com/central-university-dev/homework-bot/internal/domain/models"
)

// Validate проверяет структуру ответа API и возвращает список homeworks как есть.
// Пустой список допустим и означает, что с момента курсора ничего не изменилось.
func Validate(raw any) ([]any, error) {
	response, ok := raw.(map[string]any)
	if !ok {
		return nil, &domainerrors.SchemaError{Reason: "expected mapping, got " + TypeName(raw)}
	}

	value, found := response[models.FieldHomeworks]
	if !found {
		return nil, &domainerrors.SchemaError{Reason: "missing homeworks key"}
	}

	homeworks, ok := value.([]any)
	if !ok {
		return nil, &domainerrors.SchemaError{Reason: "expected list for homeworks, got " + TypeName(value)}
	}

	return homeworks, nil
}

// CurrentDate достаёт current_date из проверенного ответа.
func CurrentDate(raw any) (int64, bool) {
	response, ok := raw.(map[string]any)
	if !ok {
		return 0, false
	}

	switch v := response[models.FieldCurrentDate].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	}

	return 0, false
}

// TypeName возвращает название JSON типа значения.
func TypeName(v any) string {
	switch v.(type) {
	case map[string]any:
		return "dict"
	case []any:
		return "list"
	case string:
		return "str"
	case int, int64:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
