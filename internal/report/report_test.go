package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bayleafwalker/unlockpath/internal/catalog"
	"github.com/bayleafwalker/unlockpath/internal/resolver"
)

func shop(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New("", []string{"Weld", "Cut"}, []catalog.ProviderNode{
		{ID: 1, Name: "A", Offerings: []catalog.Offering{{Quality: 3, Kind: 0}}},
		{ID: 2, Name: "B", Requires: 1, Offerings: []catalog.Offering{{Quality: 5, Kind: 0}, {Quality: 2, Kind: 1}}},
		{ID: 3, Name: "C", Offerings: []catalog.Offering{{Quality: 5, Kind: 1}}},
	})
	require.NoError(t, err)
	return c
}

var (
	weld5 = resolver.RequestedCapability{Quality: 5, Kind: 0, Pinned: true}
	cut2  = resolver.RequestedCapability{Quality: 2, Kind: 1, Pinned: true}

	path = resolver.UnlockPath{
		Providers: []catalog.ProviderID{1, 2, 3},
		Assignment: map[catalog.ProviderID][]resolver.RequestedCapability{
			2: {weld5},
			3: {cut2},
		},
		Bonus: []catalog.Offering{{Quality: 5, Kind: 1}},
	}
)

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, shop(t), ColorNever)

	p.Header(1)
	p.Summary(0, path)

	want := "There is 1 possible unlocking path.\n" +
		"Unlocking path 1 (3 providers):\n" +
		"\n" +
		"  A\n" +
		"  B                 (5  Weld)\n" +
		"  C                 (2  Cut)\n" +
		"\n" +
		"Additionally you will get access to:\n" +
		"  5  Cut\n"
	assert.Equal(t, want, buf.String())
}

func TestSummary_NoBonus(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, shop(t), ColorNever)

	p.Summary(1, resolver.UnlockPath{Providers: []catalog.ProviderID{3}})
	assert.Contains(t, buf.String(), "Unlocking path 2 (1 provider):")
	assert.Contains(t, buf.String(), "  nothing else\n")
}

func TestDetailed(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, shop(t), ColorNever)

	p.Detailed(0, path, []resolver.RequestedCapability{weld5, cut2})

	want := "Unlocking path 1 (3 providers):\n" +
		"\n" +
		"A:\n" +
		"    3  Weld\n" +
		"\n" +
		"B:\n" +
		">   5  Weld\n" +
		"+   2  Cut\n" +
		"\n" +
		"C:\n" +
		">   5  Cut\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestRequests(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, shop(t), ColorNever)

	p.Requests([]resolver.RequestedCapability{weld5, {Quality: 1, Kind: 1}})
	assert.Equal(t, "  > 5 Weld\n  1 Cut\n", buf.String())
}

func TestColorAlwaysStyles(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, shop(t), ColorAlways)

	p.Header(2)
	p.Summary(0, path)
	assert.Contains(t, buf.String(), "\x1b[")
}
