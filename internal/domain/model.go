package domain

import (
	"strconv"
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer Role = "Customer"
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
)

// ParseRole maps the stored users.type value onto the closed role set.
// Stored values are char-padded in some schemas, so surrounding whitespace is
// ignored and the comparison is case-insensitive.
func ParseRole(s string) (Role, error) {
	v := strings.TrimSpace(s)
	for _, r := range []Role{RoleCustomer, RoleEmployee, RoleManager} {
		if strings.EqualFold(v, string(r)) {
			return r, nil
		}
	}
	return "", &ValidationError{Field: "role", Reason: "unknown role " + strconv.Quote(s)}
}

func (r Role) String() string { return string(r) }

// Staff reports whether the role may manage orders of other users.
func (r Role) Staff() bool { return r == RoleEmployee || r == RoleManager }

type User struct {
	Login    string
	Password string
	PhoneNum string
	FavItems string
	Role     Role
}

type MenuItem struct {
	Name        string
	Type        string
	Price       float64
	Description string
}

type Order struct {
	ID        int64
	Login     string
	Paid      bool
	CreatedAt time.Time
	Total     float64
}

type ItemStatus struct {
	OrderID  int64
	ItemName string
	Status   string
	Comments string
}

// OrderLine is one priced menu item selected for a new order.
type OrderLine struct {
	ItemName string
	Price    float64
}

// StatusNotStarted is the status every item gets when its order is placed.
const StatusNotStarted = "Hasn't started"

// UserField names a mutable column of Users.
type UserField string

const (
	FieldPhone    UserField = "phone"
	FieldPassword UserField = "password"
	FieldFavItems UserField = "favItems"
	FieldRole     UserField = "role"
)

// MenuField names a mutable column of Menu.
type MenuField string

const (
	FieldType        MenuField = "type"
	FieldPrice       MenuField = "price"
	FieldDescription MenuField = "description"
)
