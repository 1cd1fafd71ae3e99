package quota

import "context"

// LimitsRepository persists enforcement rows.
type LimitsRepository interface {
	Create(ctx context.Context, limits *Limits) error
	GetByName(ctx context.Context, name AccountKey) (*Limits, error)
	Update(ctx context.Context, limits *Limits) error
}

// TalliesRepository reads the daemon-owned usage rows.
type TalliesRepository interface {
	GetByName(ctx context.Context, name AccountKey) (*Tallies, error)
}

// FTPAccountRepository persists login rows.
type FTPAccountRepository interface {
	Create(ctx context.Context, account *FTPAccount) error
	GetByName(ctx context.Context, name AccountKey) (*FTPAccount, error)
	ExistsByName(ctx context.Context, name AccountKey) (bool, error)
}
