package patients

import (
	"strings"
	"time"
)

type Patient struct {
	ID        int64
	Name      string // полное ФИО: «Прізвище Ім'я По батькові»
	Phone     string
	BirthDate string
	Rank      string
	Unit      string
	CreatedAt time.Time
}

// Initials сокращает ФИО до фамилии с инициалами для ведомости:
// «Сидоров Андрій Іванович» → «Сидоров А. І.».
func Initials(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for i := 1; i < len(parts) && i <= 2; i++ {
		r := []rune(parts[i])
		out += " " + string(r[0]) + "."
	}
	return out
}
