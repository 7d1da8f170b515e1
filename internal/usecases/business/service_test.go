package business

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/business-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func newTestService(t *testing.T) (Manager, *mocks.MockBusinessRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockBusinessRepository(ctrl)
	return NewService(repo), repo
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("primeiro negócio vira padrão", func(t *testing.T) {
		service, repo := newTestService(t)

		repo.EXPECT().ListByUser(ctx, 1).Return([]domain.Business{}, nil)
		repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, b *domain.Business) (*domain.Business, error) {
			b.ID = 5
			return b, nil
		})

		created, err := service.Create(ctx, 1, &domain.Business{Name: "  Padaria  ", Currency: "usd"})
		require.NoError(t, err)
		assert.Equal(t, 5, created.ID)
		assert.Equal(t, 1, created.UserID)
		assert.Equal(t, "Padaria", created.Name)
		assert.Equal(t, "USD", created.Currency)
		assert.True(t, created.IsDefault)
	})

	t.Run("demais negócios não são padrão", func(t *testing.T) {
		service, repo := newTestService(t)

		repo.EXPECT().ListByUser(ctx, 1).Return([]domain.Business{{ID: 1, IsDefault: true}}, nil)
		repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, b *domain.Business) (*domain.Business, error) {
			return b, nil
		})

		created, err := service.Create(ctx, 1, &domain.Business{Name: "Filial"})
		require.NoError(t, err)
		assert.False(t, created.IsDefault)
		assert.Equal(t, DefaultCurrency, created.Currency)
	})

	t.Run("nome obrigatório", func(t *testing.T) {
		service, _ := newTestService(t)

		_, err := service.Create(ctx, 1, &domain.Business{Name: " "})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestGet_Ownership(t *testing.T) {
	ctx := context.Background()
	service, repo := newTestService(t)

	repo.EXPECT().GetByID(ctx, 9).Return(&domain.Business{ID: 9, UserID: 2}, nil)
	_, err := service.Get(ctx, 1, 9)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	repo.EXPECT().GetByID(ctx, 10).Return(nil, nil)
	_, err = service.Get(ctx, 1, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSwitch(t *testing.T) {
	ctx := context.Background()
	service, repo := newTestService(t)

	repo.EXPECT().GetByID(ctx, 3).Return(&domain.Business{ID: 3, UserID: 1}, nil)
	repo.EXPECT().SetDefault(ctx, 1, 3).Return(nil)

	business, err := service.Switch(ctx, 1, 3)
	require.NoError(t, err)
	assert.True(t, business.IsDefault)
}

func TestDelete_PromotesNextDefault(t *testing.T) {
	ctx := context.Background()
	service, repo := newTestService(t)

	gomock.InOrder(
		repo.EXPECT().GetByID(ctx, 3).Return(&domain.Business{ID: 3, UserID: 1, IsDefault: true}, nil),
		repo.EXPECT().Delete(ctx, 1, 3).Return(nil),
		repo.EXPECT().ListByUser(ctx, 1).Return([]domain.Business{{ID: 4, UserID: 1}}, nil),
		repo.EXPECT().SetDefault(ctx, 1, 4).Return(nil),
	)

	assert.NoError(t, service.Delete(ctx, 1, 3))
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	service, repo := newTestService(t)

	name := "Novo nome"
	phone := "11 99999-0000"

	repo.EXPECT().GetByID(ctx, 3).Return(&domain.Business{ID: 3, UserID: 1, Name: "Antigo", Currency: "BRL"}, nil)
	repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	business, err := service.Update(ctx, 1, &domain.UpdateBusinessRequest{ID: 3, Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Novo nome", business.Name)
	assert.Equal(t, &phone, business.Phone)
	assert.Equal(t, "BRL", business.Currency)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("usa o negócio informado", func(t *testing.T) {
		service, repo := newTestService(t)
		requested := 8

		repo.EXPECT().GetByID(ctx, 8).Return(&domain.Business{ID: 8, UserID: 1}, nil)

		business, err := service.Resolve(ctx, 1, &requested)
		require.NoError(t, err)
		assert.Equal(t, 8, business.ID)
	})

	t.Run("cai no negócio padrão", func(t *testing.T) {
		service, repo := newTestService(t)

		repo.EXPECT().GetDefault(ctx, 1).Return(&domain.Business{ID: 2, UserID: 1, IsDefault: true}, nil)

		business, err := service.Resolve(ctx, 1, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, business.ID)
	})

	t.Run("sem padrão usa o primeiro", func(t *testing.T) {
		service, repo := newTestService(t)

		repo.EXPECT().GetDefault(ctx, 1).Return(nil, nil)
		repo.EXPECT().ListByUser(ctx, 1).Return([]domain.Business{{ID: 6}, {ID: 7}}, nil)

		business, err := service.Resolve(ctx, 1, nil)
		require.NoError(t, err)
		assert.Equal(t, 6, business.ID)
	})

	t.Run("usuário sem negócios", func(t *testing.T) {
		service, repo := newTestService(t)

		repo.EXPECT().GetDefault(ctx, 1).Return(nil, nil)
		repo.EXPECT().ListByUser(ctx, 1).Return([]domain.Business{}, nil)

		_, err := service.Resolve(ctx, 1, nil)
		assert.ErrorIs(t, err, ErrNoBusiness)

		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, apiErrors.ErrNoBusiness, domainErr.Code)
	})
}
