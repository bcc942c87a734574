package patients_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Spok95/clinic-backend/internal/domain/patients"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Сидоров Андрій Іванович", "Сидоров А. І."},
		{"Коваленко Ірина", "Коваленко І."},
		{"Петренко", "Петренко"},
		{"", ""},
		{"  Мельник   Андрій   Павлович  ", "Мельник А. П."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, patients.Initials(tt.in), tt.in)
	}
}
