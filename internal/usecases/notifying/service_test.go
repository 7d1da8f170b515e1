package notifying

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/business-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/business-manager-api/internal/domain"
	"go.uber.org/mock/gomock"
)

type testDeps struct {
	feedback      *mocks.MockFeedbackRepository
	notifications *mocks.MockNotificationRepository
	products      *mocks.MockProductRepository
	businesses    *mocks.MockBusinessRepository
}

func newTestService(t *testing.T) (Notifier, testDeps) {
	ctrl := gomock.NewController(t)
	deps := testDeps{
		feedback:      mocks.NewMockFeedbackRepository(ctrl),
		notifications: mocks.NewMockNotificationRepository(ctrl),
		products:      mocks.NewMockProductRepository(ctrl),
		businesses:    mocks.NewMockBusinessRepository(ctrl),
	}

	return NewService(deps.feedback, deps.notifications, deps.products, deps.businesses), deps
}

func TestSubmitFeedback(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		feedback domain.Feedback
		wantErr  bool
	}{
		{name: "válido", feedback: domain.Feedback{UserID: 1, Rating: 5, Message: "  Ótimo  "}},
		{name: "nota zero", feedback: domain.Feedback{UserID: 1, Rating: 0, Message: "ok"}, wantErr: true},
		{name: "nota acima do máximo", feedback: domain.Feedback{UserID: 1, Rating: 6, Message: "ok"}, wantErr: true},
		{name: "mensagem vazia", feedback: domain.Feedback{UserID: 1, Rating: 3, Message: "   "}, wantErr: true},
		{name: "mensagem longa", feedback: domain.Feedback{UserID: 1, Rating: 3, Message: strings.Repeat("a", MaxMessageLength+1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, deps := newTestService(t)
			feedback := tt.feedback

			if !tt.wantErr {
				deps.feedback.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, f *domain.Feedback) (*domain.Feedback, error) {
					assert.Equal(t, "Ótimo", f.Message)
					f.ID = 9
					return f, nil
				})
			}

			created, err := service.SubmitFeedback(ctx, &feedback)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				assert.Nil(t, created)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 9, created.ID)
		})
	}
}

func TestMarkRead_NotFound(t *testing.T) {
	service, deps := newTestService(t)
	ctx := context.Background()

	deps.notifications.EXPECT().MarkRead(ctx, 1, 50).Return(domain.ErrNotFound)

	err := service.MarkRead(ctx, 1, 50)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkAllRead(t *testing.T) {
	service, deps := newTestService(t)
	ctx := context.Background()

	deps.notifications.EXPECT().MarkAllRead(ctx, 1).Return(int64(4), nil)

	count, err := service.MarkAllRead(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestNotifyImport(t *testing.T) {
	service, deps := newTestService(t)
	ctx := context.Background()

	result := &domain.ImportResult{Imported: 3}
	result.Fail(2, errors.New("preço inválido"))

	deps.notifications.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
		assert.Equal(t, 7, n.UserID)
		assert.Equal(t, 2, *n.BusinessID)
		assert.Equal(t, domain.NotificationTypeImport, n.Type)
		assert.Equal(t, "Importação de produtos concluída", n.Title)
		assert.Equal(t, "3 registro(s) importado(s), 1 linha(s) com erro", n.Message)
		return n, nil
	})

	require.NoError(t, service.NotifyImport(ctx, 7, 2, "produtos", result))
}

func TestCreateLowStockAlerts(t *testing.T) {
	ctx := context.Background()

	t.Run("cria alertas sem duplicar", func(t *testing.T) {
		service, deps := newTestService(t)

		deps.products.EXPECT().ListLowStock(ctx).Return([]domain.Product{
			{ID: 1, BusinessID: 10, Name: "Café", SKU: "CAF", Stock: 1},
			{ID: 2, BusinessID: 10, Name: "Chá", SKU: "CHA", Stock: 0},
			{ID: 3, BusinessID: 20, Name: "Pão", SKU: "PAO", Stock: 2},
		}, nil)

		deps.businesses.EXPECT().GetByID(ctx, 10).Return(&domain.Business{ID: 10, UserID: 100}, nil).Times(1)
		deps.businesses.EXPECT().GetByID(ctx, 20).Return(&domain.Business{ID: 20, UserID: 200}, nil).Times(1)

		deps.notifications.EXPECT().HasUnread(ctx, 100, domain.NotificationTypeLowStock, 1).Return(true, nil)
		deps.notifications.EXPECT().HasUnread(ctx, 100, domain.NotificationTypeLowStock, 2).Return(false, nil)
		deps.notifications.EXPECT().HasUnread(ctx, 200, domain.NotificationTypeLowStock, 3).Return(false, nil)

		var recipients []int
		deps.notifications.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
			assert.Equal(t, domain.NotificationTypeLowStock, n.Type)
			require.NotNil(t, n.ReferenceID)
			recipients = append(recipients, n.UserID)
			return n, nil
		}).Times(2)

		created, err := service.CreateLowStockAlerts(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, created)
		assert.Equal(t, []int{100, 200}, recipients)
	})

	t.Run("negócio removido é ignorado", func(t *testing.T) {
		service, deps := newTestService(t)

		deps.products.EXPECT().ListLowStock(ctx).Return([]domain.Product{{ID: 1, BusinessID: 10}}, nil)
		deps.businesses.EXPECT().GetByID(ctx, 10).Return(nil, nil)

		created, err := service.CreateLowStockAlerts(ctx)
		require.NoError(t, err)
		assert.Zero(t, created)
	})

	t.Run("erro ao listar produtos", func(t *testing.T) {
		service, deps := newTestService(t)

		deps.products.EXPECT().ListLowStock(ctx).Return(nil, errors.New("timeout"))

		_, err := service.CreateLowStockAlerts(ctx)
		assert.ErrorIs(t, err, domain.ErrDatabaseOperation)
	})
}
