package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/taco-index/internal/config"
)

func TestInitStore(t *testing.T) {
	tests := []struct {
		name    string
		store   config.StoreConfig
		wantErr string
	}{
		{
			name: "sqlite file",
			store: config.StoreConfig{
				Driver:          "sqlite",
				SQLitePath:      filepath.Join(t.TempDir(), "taco.db"),
				ConnectAttempts: 1,
			},
		},
		{
			name:    "unknown driver is not retried",
			store:   config.StoreConfig{Driver: "mysql", ConnectAttempts: 5, ConnectBackoff: 60000},
			wantErr: "unsupported store driver: mysql",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg = &config.Config{Store: tt.store}
			ctx := context.Background()

			st, err := initStore(ctx)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, st)
				return
			}
			require.NoError(t, err)
			defer st.Close() //nolint:errcheck

			require.NoError(t, st.Migrate(ctx))
			ds, err := st.LoadDataset(ctx)
			require.NoError(t, err)
			assert.True(t, ds.Empty())
		})
	}
}
