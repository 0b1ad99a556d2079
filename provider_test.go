package ultradns

import (
	"context"
	"net/netip"
	"testing"
	"time"

	"github.com/libdns/libdns"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestProvider_ListZones(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	client := NewMockRecordClient(ctrl)
	client.EXPECT().ListAllZones(ctx).Return([]string{"zone1.org.", "zone2.org."}, nil)

	provider := NewProvider(client)
	zones, err := provider.ListZones(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []libdns.Zone{
		{Name: "zone1.org."},
		{Name: "zone2.org."},
	}, zones)
}

var poolProfile = Profile{"@context": rdPoolContext, "order": "ROUND_ROBIN"}

func TestProvider_GetRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	client := NewMockRecordClient(ctrl)
	client.EXPECT().GetRRSets(ctx, "zone1.org.").Return([]RRSet{
		{OwnerName: "rrset1.zone1.org.", RRType: "A (1)", TTL: 3600, RData: []string{"2.2.2.2", "1.1.1.1"}},
		{OwnerName: "rrset2.zone1.org.", RRType: "CNAME (5)", TTL: 60, RData: []string{"rrset1.zone1.org."}},
		{OwnerName: "zone1.org.", RRType: "MX (15)", TTL: 300, RData: []string{"10 mail.zone1.org."}},
		{OwnerName: "pool.zone1.org.", RRType: "A (1)", TTL: 60, RData: []string{"3.3.3.3"}, Profile: poolProfile},
	}, nil)

	provider := NewProvider(client)
	records, err := provider.GetRecords(ctx, "zone1.org.")
	require.NoError(t, err)
	assert.ElementsMatch(t, []libdns.Record{
		libdns.Address{Name: "rrset1", TTL: time.Hour, IP: netip.AddrFrom4([4]byte{2, 2, 2, 2})},
		libdns.Address{Name: "rrset1", TTL: time.Hour, IP: netip.AddrFrom4([4]byte{1, 1, 1, 1})},
		libdns.CNAME{Name: "rrset2", TTL: time.Minute, Target: "rrset1.zone1.org."},
		libdns.MX{Name: "@", TTL: 5 * time.Minute, Preference: 10, Target: "mail.zone1.org."},
		libdns.Address{Name: "pool", TTL: time.Minute, IP: netip.AddrFrom4([4]byte{3, 3, 3, 3})},
	}, records)
}

func TestProvider_GetRecords_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	client := NewMockRecordClient(ctrl)
	client.EXPECT().GetRRSets(ctx, "zone1.org.").Return(nil, &AuthError{StatusCode: 401, Err: ErrSessionFailed})

	provider := NewProvider(client)
	_, err := provider.GetRecords(ctx, "zone1.org.")
	require.ErrorIs(t, err, ErrSessionFailed)
}

func TestProvider_SetRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	client := NewMockRecordClient(ctrl)

	client.EXPECT().GetRRSets(ctx, "zone1.org.").Return([]RRSet{
		{OwnerName: "rrset1.zone1.org.", RRType: "A (1)", TTL: 3600, RData: []string{"2.2.2.2"}},
		{OwnerName: "rrset2.zone1.org.", RRType: "CNAME (5)", TTL: 60, RData: []string{"rrset1.zone1.org."}},
		{OwnerName: "rrset5.zone1.org.", RRType: "TXT (16)", TTL: 60, RData: []string{"HELLO"}},
	}, nil)

	client.EXPECT().EditRRSet(ctx, "zone1.org.", "A", "rrset1", 3600, []string{"1.1.1.1", "3.3.3.3"}, Profile(nil)).Return(nil, nil)
	client.EXPECT().CreateRRSet(ctx, "zone1.org.", "CNAME", "rrset1", 60, "rrset3.zone1.org.").Return(nil, nil)
	client.EXPECT().CreateRRSet(ctx, "zone1.org.", "TXT", "rrset3", 60, "HELLO").Return(nil, nil)
	client.EXPECT().CreateRRSet(ctx, "zone1.org.", "TXT", "zone1.org.", 300, "v=spf1 -all").Return(nil, nil)

	provider := NewProvider(client)
	records, err := provider.SetRecords(ctx, "zone1.org.", []libdns.Record{
		libdns.Address{
			Name: "rrset1",
			TTL:  time.Hour,
			IP:   netip.AddrFrom4([4]byte{1, 1, 1, 1}),
		},
		libdns.Address{
			Name: "rrset1",
			TTL:  2 * time.Hour,
			IP:   netip.AddrFrom4([4]byte{3, 3, 3, 3}),
		},
		libdns.CNAME{
			Name:   "rrset1",
			TTL:    time.Minute,
			Target: "rrset3.zone1.org.",
		},
		libdns.TXT{
			Name: "rrset3",
			TTL:  time.Minute,
			Text: "HELLO",
		},
		libdns.TXT{
			Name: "rrset5",
			TTL:  time.Minute,
			Text: "HELLO",
		},
		libdns.TXT{
			Name: "@",
			Text: "v=spf1 -all",
		},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []libdns.Record{
		libdns.Address{Name: "rrset1", TTL: time.Hour, IP: netip.AddrFrom4([4]byte{1, 1, 1, 1})},
		libdns.Address{Name: "rrset1", TTL: time.Hour, IP: netip.AddrFrom4([4]byte{3, 3, 3, 3})},
		libdns.CNAME{Name: "rrset1", TTL: time.Minute, Target: "rrset3.zone1.org."},
		libdns.TXT{Name: "rrset3", TTL: time.Minute, Text: "HELLO"},
		libdns.TXT{Name: "rrset5", TTL: time.Minute, Text: "HELLO"},
		libdns.TXT{Name: "@", TTL: 5 * time.Minute, Text: "v=spf1 -all"},
	}, records)
}

func TestProvider_SetRecords_PartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	client := NewMockRecordClient(ctrl)

	client.EXPECT().GetRRSets(ctx, "zone1.org.").Return([]RRSet{
		{OwnerName: "pool.zone1.org.", RRType: "A (1)", TTL: 60, RData: []string{"3.3.3.3"}, Profile: poolProfile},
	}, nil)

	client.EXPECT().CreateRRSet(ctx, "zone1.org.", "A", "rrset1", 60, "1.1.1.1").
		Return(nil, &APIError{StatusCode: 400, ErrorCode: 2111, Message: "Resource Record already exists."})
	client.EXPECT().CreateRRSet(ctx, "zone1.org.", "A", "rrset2", 60, "2.2.2.2").Return(nil, nil)

	provider := NewProvider(client)
	records, err := provider.SetRecords(ctx, "zone1.org.", []libdns.Record{
		libdns.Address{Name: "rrset1", TTL: time.Minute, IP: netip.AddrFrom4([4]byte{1, 1, 1, 1})},
		libdns.Address{Name: "pool", TTL: time.Minute, IP: netip.AddrFrom4([4]byte{4, 4, 4, 4})},
		libdns.Address{Name: "rrset2", TTL: time.Minute, IP: netip.AddrFrom4([4]byte{2, 2, 2, 2})},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "set rrset1 A")
	assert.Contains(t, err.Error(), "set pool A: RR set is a pool")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 2111, apiErr.ErrorCode)

	assert.Equal(t, []libdns.Record{
		libdns.Address{Name: "rrset2", TTL: time.Minute, IP: netip.AddrFrom4([4]byte{2, 2, 2, 2})},
	}, records)
}

func TestProvider_AppendRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	client := NewMockRecordClient(ctrl)

	client.EXPECT().GetRRSets(ctx, "zone1.org.").Return([]RRSet{
		{OwnerName: "rrset1.zone1.org.", RRType: "A (1)", TTL: 3600, RData: []string{"2.2.2.2"}},
		{OwnerName: "rrset2.zone1.org.", RRType: "CNAME (5)", TTL: 60, RData: []string{"rrset1.zone1.org."}},
		{OwnerName: "pool.zone1.org.", RRType: "A (1)", TTL: 60, RData: []string{"3.3.3.3"}, Profile: poolProfile},
	}, nil)

	client.EXPECT().EditRRSet(ctx, "zone1.org.", "A", "rrset1", 3600, []string{"2.2.2.2", "3.3.3.3", "4.4.4.4"}, Profile(nil)).Return(nil, nil)
	client.EXPECT().CreateRRSet(ctx, "zone1.org.", "TXT", "rrset3", 60, "HELLO").Return(nil, nil)

	provider := NewProvider(client)
	records, err := provider.AppendRecords(ctx, "zone1.org.", []libdns.Record{
		libdns.Address{
			Name: "rrset1",
			TTL:  time.Hour,
			IP:   netip.AddrFrom4([4]byte{2, 2, 2, 2}),
		},
		libdns.Address{
			Name: "rrset1",
			TTL:  time.Hour,
			IP:   netip.AddrFrom4([4]byte{3, 3, 3, 3}),
		},
		libdns.Address{
			Name: "rrset1",
			TTL:  2 * time.Hour,
			IP:   netip.AddrFrom4([4]byte{4, 4, 4, 4}),
		},
		libdns.TXT{
			Name: "rrset3",
			TTL:  time.Minute,
			Text: "HELLO",
		},
		libdns.Address{
			Name: "pool",
			TTL:  time.Minute,
			IP:   netip.AddrFrom4([4]byte{3, 3, 3, 3}),
		},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []libdns.Record{
		libdns.Address{Name: "rrset1", TTL: time.Hour, IP: netip.AddrFrom4([4]byte{3, 3, 3, 3})},
		libdns.Address{Name: "rrset1", TTL: time.Hour, IP: netip.AddrFrom4([4]byte{4, 4, 4, 4})},
		libdns.TXT{Name: "rrset3", TTL: time.Minute, Text: "HELLO"},
	}, records)
}

func TestProvider_AppendRecords_Pool(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	client := NewMockRecordClient(ctrl)

	client.EXPECT().GetRRSets(ctx, "zone1.org.").Return([]RRSet{
		{OwnerName: "pool.zone1.org.", RRType: "A (1)", TTL: 60, RData: []string{"3.3.3.3"}, Profile: poolProfile},
	}, nil)

	provider := NewProvider(client)
	records, err := provider.AppendRecords(ctx, "zone1.org.", []libdns.Record{
		libdns.Address{Name: "pool", TTL: time.Minute, IP: netip.AddrFrom4([4]byte{9, 9, 9, 9})},
	})

	require.ErrorContains(t, err, "append pool A: RR set is a pool")
	assert.Empty(t, records)
}

func TestProvider_DeleteRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	client := NewMockRecordClient(ctrl)

	client.EXPECT().GetRRSets(ctx, "zone1.org.").Return([]RRSet{
		{OwnerName: "rrset1.zone1.org.", RRType: "A (1)", TTL: 3600, RData: []string{"2.2.2.2", "1.1.1.1"}},
		{OwnerName: "rrset2.zone1.org.", RRType: "CNAME (5)", TTL: 60, RData: []string{"rrset1.zone1.org."}},
		{OwnerName: "rrset4.zone1.org.", RRType: "TXT (16)", TTL: 60, RData: []string{"HELLO", "GOODBYE"}},
		{OwnerName: "pool.zone1.org.", RRType: "A (1)", TTL: 60, RData: []string{"3.3.3.3"}, Profile: poolProfile},
	}, nil)

	client.EXPECT().EditRRSet(ctx, "zone1.org.", "A", "rrset1", 3600, []string{"1.1.1.1"}, Profile(nil)).Return(nil, nil)
	client.EXPECT().DeleteRRSet(ctx, "zone1.org.", "CNAME", "rrset2").Return(nil, nil)
	client.EXPECT().DeleteRRSet(ctx, "zone1.org.", "TXT", "rrset4").Return(nil, nil)

	provider := NewProvider(client)
	records, err := provider.DeleteRecords(ctx, "zone1.org.", []libdns.Record{
		libdns.Address{
			Name: "rrset1",
			TTL:  time.Hour,
			IP:   netip.AddrFrom4([4]byte{2, 2, 2, 2}),
		},
		libdns.Address{
			Name: "rrset1",
			TTL:  time.Hour,
			IP:   netip.AddrFrom4([4]byte{3, 3, 3, 3}),
		},
		libdns.Address{
			Name: "rrset1",
			TTL:  2 * time.Hour,
			IP:   netip.AddrFrom4([4]byte{1, 1, 1, 1}),
		},
		libdns.CNAME{
			Name:   "rrset2",
			TTL:    time.Minute,
			Target: "rrset1.zone1.org.",
		},
		libdns.RR{
			Name: "rrset4",
		},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []libdns.Record{
		libdns.Address{Name: "rrset1", TTL: time.Hour, IP: netip.AddrFrom4([4]byte{2, 2, 2, 2})},
		libdns.CNAME{Name: "rrset2", TTL: time.Minute, Target: "rrset1.zone1.org."},
		libdns.TXT{Name: "rrset4", TTL: time.Minute, Text: "HELLO"},
		libdns.TXT{Name: "rrset4", TTL: time.Minute, Text: "GOODBYE"},
	}, records)
}

func TestProvider_DeleteRecords_Pool(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	client := NewMockRecordClient(ctrl)

	client.EXPECT().GetRRSets(ctx, "zone1.org.").Return([]RRSet{
		{OwnerName: "pool.zone1.org.", RRType: "A (1)", TTL: 60, RData: []string{"3.3.3.3", "4.4.4.4"}, Profile: poolProfile},
		{OwnerName: "zone1.org.", RRType: "A (1)", TTL: 60, RData: []string{"5.5.5.5"}, Profile: poolProfile},
	}, nil)

	client.EXPECT().DeleteRRSet(ctx, "zone1.org.", "A", "zone1.org.").Return(nil, nil)

	provider := NewProvider(client)
	records, err := provider.DeleteRecords(ctx, "zone1.org.", []libdns.Record{
		libdns.RR{Name: "pool", Type: "A", Data: "3.3.3.3"},
		libdns.RR{Name: "@", Type: "A"},
	})

	require.ErrorContains(t, err, "delete from pool A: RR set is a pool")
	assert.Equal(t, []libdns.Record{
		libdns.Address{Name: "@", TTL: time.Minute, IP: netip.AddrFrom4([4]byte{5, 5, 5, 5})},
	}, records)
}
