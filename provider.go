package ultradns

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/libdns/libdns"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Provider implements libdns interfaces on top of RRSet operations.
// Pools (RRSets with a profile) can be read and deleted as a whole but are never rewritten.
type Provider struct {
	client RecordClient
}

func NewProvider(client RecordClient) *Provider {
	return &Provider{client: client}
}

func (p *Provider) getRRSets(ctx context.Context, zone string) (map[rrSetKey]*rrSet, error) {
	sets, err := p.client.GetRRSets(ctx, zone)
	if err != nil {
		return nil, errors.Wrap(err, "get RR sets")
	}

	result := make(map[rrSetKey]*rrSet, len(sets))
	for _, set := range sets {
		set := fromRRSet(set, zone)
		result[set.Key] = set
	}

	return result, nil
}

func (p *Provider) GetRecords(ctx context.Context, zone string) ([]libdns.Record, error) {
	sets, err := p.getRRSets(ctx, zone)
	if err != nil {
		return nil, err
	}

	var result []libdns.Record
	for _, key := range sortedKeys(sets) {
		result = append(result, sets[key].records()...)
	}

	return result, nil
}

// SetRecords makes every (name, type) pair present in recs hold exactly the given records.
// Other RRSets are left untouched.
func (p *Provider) SetRecords(ctx context.Context, zone string, recs []libdns.Record) (result []libdns.Record, errs error) {
	prev, err := p.getRRSets(ctx, zone)
	if err != nil {
		return nil, err
	}

	next, keys := fromRecords(recs)
	for _, key := range keys {
		set := next[key]
		set.TTL = effectiveTTL(set.TTL)
		owner := key.owner(zone)

		old, ok := prev[key]
		switch {
		case !ok:
			_, err = p.client.CreateRRSet(ctx, zone, key.Type, owner, ttlSeconds(set.TTL), set.Data...)
		case old.Profile != nil:
			err = errors.New("RR set is a pool")
		case old.TTL == set.TTL && sameData(old.Data, set.Data):
			err = nil
		default:
			_, err = p.client.EditRRSet(ctx, zone, key.Type, owner, ttlSeconds(set.TTL), set.Data, nil)
		}

		if !multierr.AppendInto(&errs, errors.Wrapf(err, "set %s %s", key.Name, key.Type)) {
			result = append(result, set.records()...)
		}
	}

	return
}

// AppendRecords adds records to existing RRSets or creates new ones.
// Records already present are not reported as appended.
func (p *Provider) AppendRecords(ctx context.Context, zone string, recs []libdns.Record) (result []libdns.Record, errs error) {
	prev, err := p.getRRSets(ctx, zone)
	if err != nil {
		return nil, err
	}

	next, keys := fromRecords(recs)
	for _, key := range keys {
		set := next[key]
		owner := key.owner(zone)

		old, ok := prev[key]
		if !ok {
			set.TTL = effectiveTTL(set.TTL)
			_, err := p.client.CreateRRSet(ctx, zone, key.Type, owner, ttlSeconds(set.TTL), set.Data...)
			if !multierr.AppendInto(&errs, errors.Wrapf(err, "create %s %s", key.Name, key.Type)) {
				result = append(result, set.records()...)
			}

			continue
		}

		existing := SetOf(old.Data...)
		var added []string
		for _, value := range set.Data {
			if !existing.Has(value) {
				added = append(added, value)
			}
		}

		if len(added) == 0 {
			continue
		}

		if old.Profile != nil {
			multierr.AppendInto(&errs, errors.Errorf("append %s %s: RR set is a pool", key.Name, key.Type))
			continue
		}

		_, err := p.client.EditRRSet(ctx, zone, key.Type, owner, ttlSeconds(old.TTL), append(slices.Clone(old.Data), added...), nil)
		if !multierr.AppendInto(&errs, errors.Wrapf(err, "append %s %s", key.Name, key.Type)) {
			result = append(result, old.records(added...)...)
		}
	}

	return
}

// DeleteRecords removes matching records. Empty type, TTL and data act as wildcards.
// RRSets left without records are deleted.
func (p *Provider) DeleteRecords(ctx context.Context, zone string, recs []libdns.Record) (result []libdns.Record, errs error) {
	prev, err := p.getRRSets(ctx, zone)
	if err != nil {
		return nil, err
	}

	rrs := make([]libdns.RR, len(recs))
	for i, rec := range recs {
		rrs[i] = rec.RR()
	}

	for _, key := range sortedKeys(prev) {
		set := prev[key]
		removed := make(Set[string])
		for _, rr := range rrs {
			if !matches(set, rr) {
				continue
			}

			for _, value := range set.Data {
				if rr.Data == "" || rr.Data == value {
					removed[value] = true
				}
			}
		}

		if len(removed) == 0 {
			continue
		}

		var deleted, remaining []string
		for _, value := range set.Data {
			if removed.Has(value) {
				deleted = append(deleted, value)
			} else {
				remaining = append(remaining, value)
			}
		}

		owner := key.owner(zone)
		switch {
		case len(remaining) == 0:
			_, err = p.client.DeleteRRSet(ctx, zone, key.Type, owner)
		case set.Profile != nil:
			err = errors.New("RR set is a pool")
		default:
			_, err = p.client.EditRRSet(ctx, zone, key.Type, owner, ttlSeconds(set.TTL), remaining, nil)
		}

		if !multierr.AppendInto(&errs, errors.Wrapf(err, "delete from %s %s", key.Name, key.Type)) {
			result = append(result, set.records(deleted...)...)
		}
	}

	return
}

func (p *Provider) ListZones(ctx context.Context) ([]libdns.Zone, error) {
	names, err := p.client.ListAllZones(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list zones")
	}

	zones := make([]libdns.Zone, len(names))
	for i, name := range names {
		zones[i] = libdns.Zone{Name: name}
	}

	return zones, nil
}

func matches(set *rrSet, rr libdns.RR) bool {
	if normalizeName(rr.Name) != set.Key.Name {
		return false
	}

	if rr.Type != "" && !strings.EqualFold(rr.Type, set.Key.Type) {
		return false
	}

	return rr.TTL == 0 || rr.TTL == set.TTL
}

func sameData(a, b []string) bool {
	return maps.Equal(SetOf(a...), SetOf(b...))
}

func sortedKeys(sets map[rrSetKey]*rrSet) []rrSetKey {
	return slices.SortedFunc(maps.Keys(sets), func(a, b rrSetKey) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.Type, b.Type))
	})
}

var (
	_ libdns.RecordGetter   = (*Provider)(nil)
	_ libdns.RecordSetter   = (*Provider)(nil)
	_ libdns.RecordAppender = (*Provider)(nil)
	_ libdns.RecordDeleter  = (*Provider)(nil)
	_ libdns.ZoneLister     = (*Provider)(nil)
)
