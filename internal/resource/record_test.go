package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func zapNop() *zap.Logger { return zap.NewNop() }

type settings struct {
	Name string
}

type fakeSettingsAPI struct {
	getErr  error
	saveErr error
	value   settings
}

func (f *fakeSettingsAPI) Get(context.Context) (settings, error) {
	if f.getErr != nil {
		return settings{}, f.getErr
	}
	return f.value, nil
}

func (f *fakeSettingsAPI) Save(_ context.Context, s settings) (settings, error) {
	if f.saveErr != nil {
		return settings{}, f.saveErr
	}
	f.value = s
	return s, nil
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	api := &fakeSettingsAPI{getErr: errors.New("timeout")}
	rec := NewRecord[settings]("settings", api, api)

	require.Error(t, rec.Load(ctx))
	st := rec.State()
	assert.False(t, st.Loaded)
	assert.Equal(t, "timeout", st.Err)

	api.getErr = nil
	api.value = settings{Name: "Oak & Pine"}
	require.NoError(t, rec.Load(ctx))
	st = rec.State()
	assert.True(t, st.Loaded)
	assert.Empty(t, st.Err)
	assert.Equal(t, "Oak & Pine", st.Data.Name)

	api.saveErr = errors.New("forbidden")
	_, err := rec.Save(ctx, settings{Name: "X"})
	require.Error(t, err)
	assert.Equal(t, "Oak & Pine", rec.State().Data.Name)

	api.saveErr = nil
	saved, err := rec.Save(ctx, settings{Name: "Cedar"})
	require.NoError(t, err)
	assert.Equal(t, "Cedar", saved.Name)
	assert.Equal(t, "Cedar", rec.State().Data.Name)
}

type getterFunc func(ctx context.Context) (settings, error)

func (f getterFunc) Get(ctx context.Context) (settings, error) { return f(ctx) }

func TestRecordCloseDiscardsInFlightLoad(t *testing.T) {
	started := make(chan struct{})
	rec := NewRecord[settings]("settings", getterFunc(func(ctx context.Context) (settings, error) {
		close(started)
		<-ctx.Done()
		return settings{Name: "late"}, nil
	}), nil)

	errCh := make(chan error, 1)
	go func() { errCh <- rec.Load(context.Background()) }()
	<-started
	rec.Close()

	require.ErrorIs(t, <-errCh, ErrSuperseded)
	assert.False(t, rec.State().Loaded)
	assert.Empty(t, rec.State().Data.Name)

	require.ErrorIs(t, rec.Load(context.Background()), ErrClosed)
	assert.False(t, rec.State().Loading)
}
