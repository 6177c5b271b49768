package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/havefun/assets"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrations, err := assets.Migrations()
	require.NoError(t, err)
	for _, m := range migrations {
		db.MustExec(m.SQL)
	}
	return NewSQLite(db)
}

func openTestBolt(t *testing.T) *Bolt {
	t.Helper()
	b, err := OpenBolt(filepath.Join(t.TempDir(), "nested", "test.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBackends(t *testing.T) {
	backends := map[string]func(t *testing.T) Backend{
		"memory": func(t *testing.T) Backend { return NewMemory() },
		"bolt":   func(t *testing.T) Backend { return openTestBolt(t) },
		"sqlite": func(t *testing.T) Backend { return openTestSQLite(t) },
	}
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			b := open(t)

			_, err := b.Load(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, b.Save(ctx, "k", []byte(`{"a":1}`)))
			got, err := b.Load(ctx, "k")
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":1}`, string(got))

			require.NoError(t, b.Save(ctx, "k", []byte(`{"a":2}`)))
			got, err = b.Load(ctx, "k")
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":2}`, string(got))

			require.NoError(t, b.Clear(ctx, "k"))
			_, err = b.Load(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, b.Clear(ctx, "never-set"))
		})
	}
}

func TestOpenBoltRequiresPath(t *testing.T) {
	_, err := OpenBolt("  ")
	assert.Error(t, err)
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewMemory().Save(ctx, "k", []byte("{}"))
	assert.ErrorIs(t, err, context.Canceled)
}

type sheet struct {
	Players []string       `json:"players"`
	Turns   map[string]int `json:"turns"`
}

// broken fails every call, standing in for unavailable storage.
type broken struct{}

func (broken) Load(context.Context, string) ([]byte, error) { return nil, errors.New("disk gone") }
func (broken) Save(context.Context, string, []byte) error { return errors.New("disk gone") }
func (broken) Clear(context.Context, string) error { return errors.New("disk gone") }

func TestSlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewMemory()
	slot := NewSlot[sheet](backend, "have-fun:test")
	assert.Equal(t, "have-fun:test", slot.Key())

	_, ok := slot.Load(ctx)
	assert.False(t, ok)

	want := sheet{Players: []string{"p1"}, Turns: map[string]int{"p1": 3}}
	slot.Save(ctx, want)
	got, ok := slot.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, want, got)

	slot.Clear(ctx)
	_, ok = slot.Load(ctx)
	assert.False(t, ok)
}

func TestSlotSwallowsFailures(t *testing.T) {
	ctx := context.Background()
	slot := NewSlot[sheet](broken{}, "k")
	slot.Save(ctx, sheet{})
	slot.Clear(ctx)
	_, ok := slot.Load(ctx)
	assert.False(t, ok)

	var none *Slot[sheet]
	none.Save(ctx, sheet{})
	_, ok = none.Load(ctx)
	assert.False(t, ok)
}

func TestSlotIgnoresCorruptBlob(t *testing.T) {
	ctx := context.Background()
	backend := NewMemory()
	require.NoError(t, backend.Save(ctx, "k", []byte("not json")))
	_, ok := NewSlot[sheet](backend, "k").Load(ctx)
	assert.False(t, ok)
}
