package entity

type UserRole string

const (
	RoleRequester UserRole = "requester"
	RoleProvider  UserRole = "provider"
	RoleAdmin     UserRole = "admin"
)

type User struct {
	Base
	Email     string   `db:"email"`
	FirstName string   `db:"first_name"`
	LastName  string   `db:"last_name"`
	Phone     *string  `db:"phone"`
	Role      UserRole `db:"role"`
	IsActive  bool     `db:"is_active"`

	// Provider profile fields; null for requesters.
	ServiceCategory *string  `db:"service_category"`
	HourlyRate      *float64 `db:"hourly_rate"`
	City            *string  `db:"city"`
	Latitude        *float64 `db:"latitude"`
	Longitude       *float64 `db:"longitude"`

	// Derived aggregates, maintained by the engine only.
	AverageRating float64 `db:"average_rating"`
	TotalEarnings float64 `db:"total_earnings"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasCoordinates reports whether the user can participate in proximity search.
func (u *User) HasCoordinates() bool {
	return u.Latitude != nil && u.Longitude != nil
}
