package record

import (
	"context"
	"testing"
	"time"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/usecase"
	coremocks "github.com/amirhossein-jamali/staff-registry/mocks/port/core"
	persistencemocks "github.com/amirhossein-jamali/staff-registry/mocks/port/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Service, *persistencemocks.MockUnitOfWork, *persistencemocks.MockRecordRepository) {
	uow := persistencemocks.NewMockUnitOfWork(t)
	repo := persistencemocks.NewMockRecordRepository(t)
	svc := NewService(uow, coremocks.NewFakeTimeProvider(fixedTime), coremocks.NewMockLogger(t).AllowAll())
	return svc, uow, repo
}

func TestList(t *testing.T) {
	ctx := context.Background()
	txCtx := context.WithValue(ctx, struct{ name string }{"tx"}, true)

	t.Run("Count and page from one snapshot", func(t *testing.T) {
		svc, uow, repo := setup(t)
		query := entity.NewRecordQuery()
		records := []entity.Record{{ID: "e1"}, {ID: "e2"}}

		uow.On("BeginSnapshot", ctx).Return(txCtx, nil).Once()
		uow.On("GetRecordRepository", txCtx).Return(repo).Once()
		repo.On("Count", txCtx, query).Return(int64(42), nil).Once()
		repo.On("List", txCtx, query).Return(records, nil).Once()
		uow.On("Commit", txCtx).Return(nil).Once()

		page, err := svc.List(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, int64(42), page.Count)
		assert.Equal(t, records, page.Records)
	})

	t.Run("Empty page is never nil", func(t *testing.T) {
		svc, uow, repo := setup(t)
		query := entity.RecordQuery{Offset: 100, Limit: 30}

		uow.On("BeginSnapshot", ctx).Return(txCtx, nil).Once()
		uow.On("GetRecordRepository", txCtx).Return(repo).Once()
		repo.On("Count", txCtx, query).Return(int64(5), nil).Once()
		repo.On("List", txCtx, query).Return(nil, nil).Once()
		uow.On("Commit", txCtx).Return(nil).Once()

		page, err := svc.List(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, int64(5), page.Count)
		assert.NotNil(t, page.Records)
		assert.Empty(t, page.Records)
	})

	t.Run("Limit is capped", func(t *testing.T) {
		svc, uow, repo := setup(t)
		svc.WithMaxLimit(100)
		capped := entity.RecordQuery{Limit: 100}

		uow.On("BeginSnapshot", ctx).Return(txCtx, nil).Once()
		uow.On("GetRecordRepository", txCtx).Return(repo).Once()
		repo.On("Count", txCtx, capped).Return(int64(0), nil).Once()
		repo.On("List", txCtx, capped).Return([]entity.Record{}, nil).Once()
		uow.On("Commit", txCtx).Return(nil).Once()

		_, err := svc.List(ctx, entity.RecordQuery{Limit: 5000})
		require.NoError(t, err)
	})

	t.Run("Invalid paging", func(t *testing.T) {
		svc, _, _ := setup(t)

		_, err := svc.List(ctx, entity.RecordQuery{Offset: -1})
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("Count failure rolls back", func(t *testing.T) {
		svc, uow, repo := setup(t)
		query := entity.NewRecordQuery()

		uow.On("BeginSnapshot", ctx).Return(txCtx, nil).Once()
		uow.On("GetRecordRepository", txCtx).Return(repo).Once()
		repo.On("Count", txCtx, query).Return(int64(0), errs.ErrDatabaseConnection).Once()
		uow.On("Rollback", txCtx).Return(nil).Once()

		_, err := svc.List(ctx, query)
		assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc, uow, repo := setup(t)

	uow.On("GetRecordRepository", ctx).Return(repo)
	repo.On("FindByID", ctx, "e1").Return(&entity.Record{ID: "e1"}, nil).Once()
	repo.On("FindByID", ctx, "ghost").Return(nil, nil).Once()

	found, err := svc.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", found.ID)

	missing, err := svc.Get(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	input := usecase.RecordInput{ID: "e9", Login: "adumbledore", Name: "Albus Dumbledore", Salary: 90000}

	t.Run("Created with the current time", func(t *testing.T) {
		svc, uow, repo := setup(t)

		uow.On("GetRecordRepository", ctx).Return(repo).Once()
		repo.On("FindByID", ctx, "e9").Return(nil, nil).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(r *entity.Record) bool {
			return r.ID == "e9" && r.CreatedAt.Equal(fixedTime)
		})).Return(nil).Once()

		record, err := svc.Create(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "adumbledore", record.Login)
	})

	t.Run("Existing id", func(t *testing.T) {
		svc, uow, repo := setup(t)

		uow.On("GetRecordRepository", ctx).Return(repo).Once()
		repo.On("FindByID", ctx, "e9").Return(&entity.Record{ID: "e9"}, nil).Once()

		_, err := svc.Create(ctx, input)
		assert.ErrorIs(t, err, errs.ErrDuplicateRecord)
	})

	t.Run("Taken login", func(t *testing.T) {
		svc, uow, repo := setup(t)

		uow.On("GetRecordRepository", ctx).Return(repo).Once()
		repo.On("FindByID", ctx, "e9").Return(nil, nil).Once()
		repo.On("Create", ctx, mock.Anything).Return(errs.ErrDuplicateLogin).Once()

		_, err := svc.Create(ctx, input)
		assert.ErrorIs(t, err, errs.ErrDuplicateLogin)
	})

	t.Run("Negative salary", func(t *testing.T) {
		svc, _, _ := setup(t)

		bad := input
		bad.Salary = -1
		_, err := svc.Create(ctx, bad)
		assert.ErrorIs(t, err, errs.ErrNegativeSalary)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	txCtx := context.WithValue(ctx, struct{ name string }{"tx"}, true)
	name := "Harry J. Potter"

	t.Run("Patched and committed", func(t *testing.T) {
		svc, uow, repo := setup(t)
		stored := &entity.Record{ID: "e1", Login: "hpotter", Name: "Harry Potter", Salary: 10, CreatedAt: fixedTime}

		uow.On("Begin", ctx).Return(txCtx, nil).Once()
		uow.On("GetRecordRepository", txCtx).Return(repo).Once()
		repo.On("FindByID", txCtx, "e1").Return(stored, nil).Once()
		repo.On("Update", txCtx, mock.MatchedBy(func(r *entity.Record) bool {
			return r.Name == name && r.Login == "hpotter"
		})).Return(nil).Once()
		uow.On("Commit", txCtx).Return(nil).Once()

		record, err := svc.Update(ctx, "e1", entity.RecordPatch{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, name, record.Name)
	})

	t.Run("Missing record", func(t *testing.T) {
		svc, uow, repo := setup(t)

		uow.On("Begin", ctx).Return(txCtx, nil).Once()
		uow.On("GetRecordRepository", txCtx).Return(repo).Once()
		repo.On("FindByID", txCtx, "ghost").Return(nil, nil).Once()
		uow.On("Rollback", txCtx).Return(nil).Once()

		_, err := svc.Update(ctx, "ghost", entity.RecordPatch{Name: &name})
		assert.ErrorIs(t, err, errs.ErrRecordNotFound)
	})

	t.Run("Empty patch", func(t *testing.T) {
		svc, _, _ := setup(t)

		_, err := svc.Update(ctx, "e1", entity.RecordPatch{})
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("Invalid patch rolls back", func(t *testing.T) {
		svc, uow, repo := setup(t)
		negative := -5.0

		uow.On("Begin", ctx).Return(txCtx, nil).Once()
		uow.On("GetRecordRepository", txCtx).Return(repo).Once()
		repo.On("FindByID", txCtx, "e1").Return(&entity.Record{ID: "e1", Login: "l", Name: "n"}, nil).Once()
		uow.On("Rollback", txCtx).Return(nil).Once()

		_, err := svc.Update(ctx, "e1", entity.RecordPatch{Salary: &negative})
		assert.ErrorIs(t, err, errs.ErrNegativeSalary)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, uow, repo := setup(t)

	uow.On("GetRecordRepository", ctx).Return(repo)
	repo.On("Delete", ctx, "e1").Return(nil).Once()
	repo.On("Delete", ctx, "ghost").Return(errs.ErrRecordNotFound).Once()

	require.NoError(t, svc.Delete(ctx, "e1"))
	assert.ErrorIs(t, svc.Delete(ctx, "ghost"), errs.ErrRecordNotFound)
}
