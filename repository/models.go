package repository

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the principal record. Token holds the current single-use
// confirmation/reset code; it is NULL except between issuance and
// consumption, so a consumed code can never match twice.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	Email         string    `bun:"email,notnull,unique" json:"email"`
	Password      string    `bun:"password,notnull" json:"-"`
	Confirmed     bool      `bun:"confirmed,notnull,default:false" json:"confirmed"`
	Token         string    `bun:"token,nullzero" json:"-"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Budget belongs to exactly one user. UserID is always derived server-side
// from the authenticated principal, never from client input.
type Budget struct {
	bun.BaseModel `bun:"table:budgets,alias:bgt"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	Name          string     `bun:"name,notnull" json:"name"`
	Amount        float64    `bun:"amount,notnull" json:"amount"`
	UserID        int64      `bun:"user_id,notnull" json:"-"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	Expenses      []*Expense `bun:"rel:has-many,join:id=budget_id" json:"expenses,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Expense belongs to exactly one budget. BudgetID is always derived from the
// path-resolved budget.
type Expense struct {
	bun.BaseModel `bun:"table:expenses,alias:exp"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	Amount        float64   `bun:"amount,notnull" json:"amount"`
	BudgetID      int64     `bun:"budget_id,notnull" json:"-"`
	Budget        *Budget   `bun:"rel:belongs-to,join:budget_id=id" json:"-"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
