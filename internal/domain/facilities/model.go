package facilities

import "time"

type Facility struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
