package commands_test

import (
	"context"
	"errors"
	"testing"

	"samarth/internal/application/commands"
	"samarth/internal/application/ports"
	"samarth/internal/domain/dataset"
	apperrors "samarth/internal/errors"
	"samarth/internal/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) Write(ctx context.Context, snap *dataset.Snapshot) error {
	return m.Called(ctx, snap).Error(0)
}

type mockReloader struct {
	mock.Mock
}

func (m *mockReloader) Reload(ctx context.Context) (*dataset.Snapshot, error) {
	args := m.Called(ctx)
	if snap := args.Get(0); snap != nil {
		return snap.(*dataset.Snapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestImportDataset(t *testing.T) {
	snap := memory.MustSample()
	writer := new(mockWriter)
	writer.On("Write", mock.Anything, snap).Return(nil)
	reloader := new(mockReloader)
	reloader.On("Reload", mock.Anything).Return(snap, nil)

	b, err := commands.NewCommandBus(commands.NewImportDatasetHandler(writer, reloader, zap.NewNop()))
	require.NoError(t, err)

	require.NoError(t, b.Send(context.Background(), commands.ImportDatasetCommand{Snapshot: snap}))
	writer.AssertExpectations(t)
	reloader.AssertExpectations(t)
}

func TestImportDataset_Errors(t *testing.T) {
	snap := memory.MustSample()

	t.Run("no snapshot", func(t *testing.T) {
		b, err := commands.NewCommandBus(commands.NewImportDatasetHandler(new(mockWriter), new(mockReloader), zap.NewNop()))
		require.NoError(t, err)

		err = b.Send(context.Background(), commands.ImportDatasetCommand{})
		var unified *apperrors.UnifiedError
		require.ErrorAs(t, err, &unified)
		assert.Equal(t, apperrors.CodeInvalidDataset, unified.Code)
	})

	t.Run("read only", func(t *testing.T) {
		b, err := commands.NewCommandBus(commands.NewImportDatasetHandler(nil, new(mockReloader), zap.NewNop()))
		require.NoError(t, err)

		err = b.Send(context.Background(), commands.ImportDatasetCommand{Snapshot: snap})
		var unified *apperrors.UnifiedError
		require.ErrorAs(t, err, &unified)
		assert.Equal(t, apperrors.CodeDatasetReadOnly, unified.Code)
	})

	t.Run("write fails", func(t *testing.T) {
		writer := ports.SnapshotWriterFunc(func(context.Context, *dataset.Snapshot) error {
			return errors.New("disk full")
		})
		b, err := commands.NewCommandBus(commands.NewImportDatasetHandler(writer, new(mockReloader), zap.NewNop()))
		require.NoError(t, err)

		err = b.Send(context.Background(), commands.ImportDatasetCommand{Snapshot: snap})
		var unified *apperrors.UnifiedError
		require.ErrorAs(t, err, &unified)
		assert.Equal(t, apperrors.CodeDatasetUnavailable, unified.Code)
		assert.EqualError(t, unified.Cause, "disk full")
	})

	t.Run("read back mismatch", func(t *testing.T) {
		partial, err := dataset.NewSnapshot(memory.SampleRegions()[:1])
		require.NoError(t, err)
		writer := new(mockWriter)
		writer.On("Write", mock.Anything, snap).Return(nil)
		reloader := new(mockReloader)
		reloader.On("Reload", mock.Anything).Return(partial, nil)

		b, err := commands.NewCommandBus(commands.NewImportDatasetHandler(writer, reloader, zap.NewNop()))
		require.NoError(t, err)

		err = b.Send(context.Background(), commands.ImportDatasetCommand{Snapshot: snap})
		assert.ErrorContains(t, err, "read back 1 regions, wrote 3")
	})
}
