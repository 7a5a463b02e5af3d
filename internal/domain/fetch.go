package domain

import (
	"errors"
	"fmt"
)

// FailureKind классифицирует, почему уровень (tier) не дал данных.
type FailureKind string

const (
	FailSkipped     FailureKind = "skipped"      // уровень не сконфигурирован или проба движка упала
	FailCircuitOpen FailureKind = "circuit_open" // предохранитель движка открыт
	FailTimeout     FailureKind = "timeout"
	FailUnavailable FailureKind = "unavailable" // сеть, отказ соединения, лимитер
	FailStatus      FailureKind = "status"      // не-2xx ответ
	FailDecode      FailureKind = "decode"      // битый JSON
	FailEmpty       FailureKind = "empty"       // ответ валиден, но пуст
	FailQuery       FailureKind = "query"       // ошибка запроса к БД
)

// FetchFailure: типизированная ошибка уровня.
// Резолвер никогда не отдает ее наружу, но по Kind пишет логи и метрики.
type FetchFailure struct {
	Op     string
	Kind   FailureKind
	Status int // только для FailStatus
	Err    error
}

func (f *FetchFailure) Error() string {
	switch {
	case f.Kind == FailStatus:
		return fmt.Sprintf("%s: %s %d", f.Op, f.Kind, f.Status)
	case f.Err != nil:
		return fmt.Sprintf("%s: %s: %v", f.Op, f.Kind, f.Err)
	default:
		return fmt.Sprintf("%s: %s", f.Op, f.Kind)
	}
}

func (f *FetchFailure) Unwrap() error { return f.Err }

// KindOf достает FailureKind из произвольной ошибки цепочки.
func KindOf(err error) FailureKind {
	if err == nil {
		return ""
	}
	var ff *FetchFailure
	if errors.As(err, &ff) {
		return ff.Kind
	}
	return FailUnavailable
}

func Skipped(op string) error {
	return &FetchFailure{Op: op, Kind: FailSkipped}
}

func Empty(op string) error {
	return &FetchFailure{Op: op, Kind: FailEmpty}
}
