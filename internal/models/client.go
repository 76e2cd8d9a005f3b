package models

// Client represents a person who owns portfolios.
type Client struct {
	ClientID  uint   `gorm:"primaryKey;autoIncrement" json:"client_id"`
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null;default:''" json:"last_name"`

	// Relationships
	Portfolios []Portfolio `gorm:"foreignKey:ClientID" json:"portfolios,omitempty"`
}

// FullName joins first and last name the way the queries do.
func (c Client) FullName() string {
	return c.FirstName + " " + c.LastName
}
