package repository

import (
	"github.com/jackc/pgx/v4/pgxpool"
)

type Repository struct {
	db        *pgxpool.Pool
	User      UserRepository
	Portfolio PortfolioRepository
	Contact   ContactRepository
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:        db,
		User:      NewUserRepository(db),
		Portfolio: NewPortfolioRepository(db),
		Contact:   NewContactRepository(db),
	}
}

func (r *Repository) Close() {
	r.db.Close()
}

// scanner общий интерфейс pgx.Row и pgx.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}
