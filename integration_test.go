//go:build integration

package ultradns

import (
	"context"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/joho/godotenv"
	"github.com/libdns/libdns"
	"github.com/stretchr/testify/require"
)

func TestProvider(t *testing.T) {
	err := godotenv.Load()
	require.NoError(t, err)

	creds, err := CredentialsFromEnv()
	require.NoError(t, err)

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)

	ctx := context.Background()
	client, err := NewClient(ctx, creds, cfg)
	require.NoError(t, err)

	provider := NewProvider(client)

	zones, err := provider.ListZones(ctx)
	require.NoError(t, err)
	spew.Dump(zones)

	if len(zones) > 0 {
		records, err := provider.GetRecords(ctx, zones[0].Name)
		require.NoError(t, err)
		spew.Dump(records)

		records, err = provider.AppendRecords(ctx, zones[0].Name, []libdns.Record{
			libdns.TXT{Name: "libdns-integration-test", Text: "456"},
		})

		require.NoError(t, err)
		spew.Dump(records)

		records, err = provider.DeleteRecords(ctx, zones[0].Name, []libdns.Record{
			libdns.RR{Name: "libdns-integration-test", Type: "TXT"},
		})

		require.NoError(t, err)
		spew.Dump(records)

		data, err := client.ExportZone(ctx, zones[0].Name)
		require.NoError(t, err)
		t.Log(string(data))
	}
}
