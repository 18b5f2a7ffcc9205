package entity

import "time"

type User struct {
	ID        int64
	Email     string
	FullName  string
	Status    UserStatus
	UpdatedAt time.Time
}

type NewUser struct {
	ID       int64
	Email    string
	FullName string
	Status   UserStatus
}
