package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDenylistExactMatch(t *testing.T) {
	d := NewDenylist([]string{"pinterest.com", "ads.doubleclick.net"})

	assert.True(t, d.Blocked("pinterest.com"))
	assert.True(t, d.Blocked("ads.doubleclick.net"))
	assert.False(t, d.Blocked("styleforum.net"))
	assert.False(t, d.Blocked("sub.pinterest.com"), "exact patterns do not cover subdomains")
}

func TestDenylistSuffixMatch(t *testing.T) {
	d := NewDenylist([]string{"*.pinterest.com", ".tracker.io"})

	assert.True(t, d.Blocked("www.pinterest.com"))
	assert.True(t, d.Blocked("deep.cdn.pinterest.com"))
	assert.True(t, d.Blocked("a.tracker.io"))
	assert.True(t, d.Blocked("pinterest.com"), "wildcard covers the apex too")
	assert.False(t, d.Blocked("notpinterest.com"))
}

func TestDenylistEmptyAndNil(t *testing.T) {
	assert.False(t, NewDenylist(nil).Blocked("anything.com"))

	var d *Denylist
	assert.False(t, d.Blocked("anything.com"))
}
