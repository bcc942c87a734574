package dosage

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Class определяет, как медикамент делится по дням лечения.
type Class string

const (
	// ClassDiscrete — штучные единицы, выдаются только целыми.
	ClassDiscrete Class = "discrete"
	// ClassContinuous — делимые единицы (упаковки, объёмы), выдаются долями.
	ClassContinuous Class = "continuous"
)

var (
	ErrUnknownUnit     = errors.New("unknown unit label")
	ErrInvalidDays     = errors.New("days must be >= 1")
	ErrNegativeTotal   = errors.New("total must be >= 0")
	ErrFractionalUnits = errors.New("discrete total must be a whole number")
)

// unitClasses — единственная таблица соответствия единиц измерения классу.
// Политика, а не алгоритм: новые единицы добавляются только сюда.
var unitClasses = map[string]Class{
	"шт.":   ClassDiscrete,
	"фл.":   ClassDiscrete,
	"туб.":  ClassDiscrete,
	"амп.":  ClassDiscrete,
	"пар.":  ClassDiscrete,
	"пара.": ClassDiscrete,

	"уп.": ClassContinuous,
	"мл":  ClassContinuous,
	"г":   ClassContinuous,
	"л":   ClassContinuous,
}

// ClassOf возвращает класс для единицы измерения из таблицы.
func ClassOf(unit string) (Class, error) {
	c, ok := unitClasses[unit]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return c, nil
}

// KnownUnit сообщает, есть ли единица в таблице.
func KnownUnit(unit string) bool {
	_, ok := unitClasses[unit]
	return ok
}

// Distribute раскладывает общее количество на дневные дозы за период лечения.
// Чистая функция: одинаковые аргументы всегда дают одинаковый график.
func Distribute(total float64, days int, class Class) ([]float64, error) {
	if days < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDays, days)
	}
	if total < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNegativeTotal, total)
	}

	switch class {
	case ClassDiscrete:
		return distributeUnits(total, days)
	case ClassContinuous:
		return distributeEvenly(total, days), nil
	default:
		return nil, fmt.Errorf("unknown unit class %q", class)
	}
}

// distributeUnits — штучные медикаменты: сначала по одному в первые дни,
// при избытке — поровну с раздачей остатка первым дням. Сумма точная.
func distributeUnits(total float64, days int) ([]float64, error) {
	n := int(math.Round(total))
	if math.Abs(total-float64(n)) > 1e-9 {
		return nil, fmt.Errorf("%w: %v", ErrFractionalUnits, total)
	}

	res := make([]float64, days)
	if n <= days {
		for i := 0; i < n; i++ {
			res[i] = 1
		}
		return res, nil
	}

	base := n / days
	extra := n % days
	for i := range res {
		res[i] = float64(base)
		if i < extra {
			res[i]++
		}
	}
	return res, nil
}

// distributeEvenly — делимые медикаменты: каждый день получает справедливую
// долю остатка, усечённую до одного знака; последний день забирает весь
// накопившийся остаток округления.
func distributeEvenly(total float64, days int) []float64 {
	res := make([]float64, days)
	remaining := total
	for i := 0; i < days; i++ {
		if i == days-1 {
			res[i] = math.Round(remaining*10) / 10
		} else {
			res[i] = math.Floor(remaining/float64(days-i)*10) / 10
			remaining -= res[i]
		}
	}
	return res
}

// ExtractDay возвращает дозу графика на конкретную дату.
// Второе значение false — «дозы нет»: дата вне периода либо доза ровно 0
// (нулевые дозы в ведомость не попадают).
func ExtractDay(schedule []float64, start, target time.Time) (float64, bool) {
	idx := DayIndex(start, target)
	if idx < 0 || idx >= len(schedule) {
		return 0, false
	}
	if schedule[idx] == 0 {
		return 0, false
	}
	return schedule[idx], true
}

// DayIndex — номер дня даты target внутри периода, начинающегося start
// (0 — первый день). Часы и зона отбрасываются.
func DayIndex(start, target time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(s).Hours() / 24)
}

// PeriodDays — длина закрытого периода [start, end] в днях.
func PeriodDays(start, end time.Time) int {
	return DayIndex(start, end) + 1
}
