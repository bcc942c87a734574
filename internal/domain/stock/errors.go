package stock

import "errors"

var (
	// ErrInsufficientStock — запрошено больше, чем есть на остатке.
	// Никакие изменения при этом не выполняются.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrNotFound — медикамент или визит не существует.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuantity — количество должно быть строго больше нуля.
	ErrInvalidQuantity = errors.New("quantity must be > 0")
)
