package ultradns

import (
	"slices"
	"strings"
	"time"

	"github.com/libdns/libdns"
)

// rrSetKey identifies an RRSet inside a zone by relative owner name and type.
type rrSetKey struct {
	Name string
	Type string
}

type rrSet struct {
	Key  rrSetKey
	TTL  time.Duration
	Data []string
	// Profile marks pools, which the record provider never rewrites.
	Profile Profile
}

func fromRRSet(set RRSet, zone string) *rrSet {
	return &rrSet{
		Key: rrSetKey{
			Name: relativeName(set.OwnerName, zone),
			Type: set.Type(),
		},
		TTL:     time.Duration(set.TTL) * time.Second,
		Data:    slices.Clone(set.RData),
		Profile: set.Profile,
	}
}

func fromRecords(recs []libdns.Record) (map[rrSetKey]*rrSet, []rrSetKey) {
	sets := make(map[rrSetKey]*rrSet)
	var keys []rrSetKey
	for _, rec := range recs {
		rr := rec.RR()
		key := rrSetKey{Name: normalizeName(rr.Name), Type: strings.ToUpper(rr.Type)}
		set, ok := sets[key]
		if !ok {
			set = &rrSet{Key: key}
			sets[key] = set
			keys = append(keys, key)
		}

		set.TTL = getTTL(set.TTL, rr.TTL)
		if !slices.Contains(set.Data, rr.Data) {
			set.Data = append(set.Data, rr.Data)
		}
	}

	return sets, keys
}

func (s *rrSet) record(data string) libdns.Record {
	rr := libdns.RR{
		Name: s.Key.Name,
		TTL:  s.TTL,
		Type: s.Key.Type,
		Data: data,
	}

	if rec, err := rr.Parse(); err == nil {
		return rec
	}

	return rr
}

func (s *rrSet) records(data ...string) []libdns.Record {
	if len(data) == 0 {
		data = s.Data
	}

	recs := make([]libdns.Record, len(data))
	for i, value := range data {
		recs[i] = s.record(value)
	}

	return recs
}

// owner is the name sent to the API. The apex is addressed by the zone name itself.
func (k rrSetKey) owner(zone string) string {
	if k.Name == "@" {
		return strings.TrimSuffix(zone, ".") + "."
	}

	return k.Name
}

func relativeName(owner, zone string) string {
	if !strings.HasSuffix(owner, ".") {
		return normalizeName(owner)
	}

	return normalizeName(libdns.RelativeName(owner, zone))
}

func normalizeName(name string) string {
	if name == "" {
		return "@"
	}

	return name
}
