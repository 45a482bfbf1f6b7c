package entity

// Customer is attached to a bill at sale time; it has no identity of its own.
type Customer struct {
	Name  string  `gorm:"size:255;not null" json:"name"`
	Phone string  `gorm:"size:50;index" json:"phone"`
	Email *string `gorm:"size:255" json:"email"`
}
