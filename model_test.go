package ultradns

import (
	"testing"
	"time"

	"github.com/libdns/libdns"
	"github.com/stretchr/testify/assert"
)

func TestRelativeName(t *testing.T) {
	for owner, expected := range map[string]string{
		"www.zone1.org.":   "www",
		"a.b.zone1.org.":   "a.b",
		"zone1.org.":       "@",
		"www":              "www",
		"":                 "@",
		"*.zone1.org.":     "*",
		"_acme.zone1.org.": "_acme",
	} {
		assert.Equal(t, expected, relativeName(owner, "zone1.org."), owner)
	}
}

func TestRRSetKey_Owner(t *testing.T) {
	assert.Equal(t, "zone1.org.", rrSetKey{Name: "@", Type: "A"}.owner("zone1.org"))
	assert.Equal(t, "zone1.org.", rrSetKey{Name: "@", Type: "A"}.owner("zone1.org."))
	assert.Equal(t, "www", rrSetKey{Name: "www", Type: "A"}.owner("zone1.org."))
}

func TestFromRecords(t *testing.T) {
	sets, keys := fromRecords([]libdns.Record{
		libdns.RR{Name: "www", Type: "a", TTL: time.Hour, Data: "1.1.1.1"},
		libdns.RR{Name: "", Type: "TXT", Data: "hello"},
		libdns.RR{Name: "www", Type: "A", TTL: time.Minute, Data: "2.2.2.2"},
		libdns.RR{Name: "www", Type: "A", Data: "1.1.1.1"},
	})

	assert.Equal(t, []rrSetKey{{Name: "www", Type: "A"}, {Name: "@", Type: "TXT"}}, keys)
	assert.Equal(t, &rrSet{
		Key:  rrSetKey{Name: "www", Type: "A"},
		TTL:  time.Minute,
		Data: []string{"1.1.1.1", "2.2.2.2"},
	}, sets[keys[0]])
	assert.Equal(t, time.Duration(0), sets[keys[1]].TTL)
}

func TestTTL(t *testing.T) {
	assert.Equal(t, time.Duration(0), getTTL())
	assert.Equal(t, time.Minute, getTTL(0, time.Hour, time.Minute))
	assert.Equal(t, defaultTTL, effectiveTTL(0))
	assert.Equal(t, time.Second, effectiveTTL(time.Millisecond))
	assert.Equal(t, 300, ttlSeconds(0))
	assert.Equal(t, 3600, ttlSeconds(time.Hour))
}

func TestRRSet_Type(t *testing.T) {
	assert.Equal(t, "A", RRSet{RRType: "A (1)"}.Type())
	assert.Equal(t, "CNAME", RRSet{RRType: "CNAME"}.Type())
}

func TestListOptions_Values(t *testing.T) {
	var opts *ListOptions
	assert.Empty(t, opts.Values())

	opts = &ListOptions{
		Query:   map[string]string{"owner": "www", "kind": "RECORDS"},
		Sort:    "OWNER",
		Reverse: true,
		Offset:  100,
		Limit:   50,
	}

	assert.Equal(t, "limit=50&offset=100&q=kind%3ARECORDS+owner%3Awww&reverse=true&sort=OWNER", opts.Values().Encode())
}

func TestAPIPath(t *testing.T) {
	assert.Equal(t, "/v1/zones/zone1.org./rrsets/A/www", apiPath("v1", "zones", "zone1.org.", "rrsets", "A", "www"))
	assert.Equal(t, "/v1/zones/a%2Fb/rrsets", apiPath("v1", "zones", "a/b", "rrsets"))
}
