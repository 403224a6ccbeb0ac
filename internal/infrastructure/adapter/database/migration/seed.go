package migration

import (
	"context"
)

// LockSeeder creates the upload lock row when it is missing
type LockSeeder interface {
	Seed(ctx context.Context) error
}

// SeedUploadLock makes sure the unlocked "main" lock row exists
func SeedUploadLock(ctx context.Context, seeder LockSeeder) error {
	return seeder.Seed(ctx)
}
