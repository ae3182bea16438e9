package models

import "time"

type Referee struct {
	ID        int     `json:"id" db:"id"`
	FirstName string  `json:"first_name" db:"first_name"`
	LastName  string  `json:"last_name" db:"last_name"`
	Phone     *string `json:"phone,omitempty" db:"phone"`
	Email     *string `json:"email,omitempty" db:"email"`
	Active    bool    `json:"active" db:"active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (r *Referee) FullName() string {
	return r.FirstName + " " + r.LastName
}
