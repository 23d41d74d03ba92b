package signals

import (
	"reflect"
	"testing"

	"narrative-tracker/internal/models"
)

func doc(t *testing.T, excerpt string, keywords, tickers []string) models.FlaggedDocument {
	t.Helper()
	d, err := models.NewFlaggedDocument(excerpt, keywords, tickers, "reddit")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestClusterGroupsByKeyword(t *testing.T) {
	c := NewClusterer(0)

	docs := []models.FlaggedDocument{
		doc(t, "AAA airdrop live", []string{"airdrop"}, []string{"AAA"}),
		doc(t, "BBB fair launch + airdrop", []string{"airdrop", "launch"}, []string{"BBB"}),
	}

	out := c.Cluster(docs)
	if len(out) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(out))
	}

	airdrop := out[0]
	if airdrop.Keyword != "airdrop" || airdrop.DocumentCount != 2 {
		t.Errorf("airdrop group = %+v", airdrop)
	}
	if !reflect.DeepEqual(airdrop.Tickers, []string{"AAA", "BBB"}) {
		t.Errorf("airdrop tickers = %v", airdrop.Tickers)
	}

	launch := out[1]
	if launch.Keyword != "launch" || launch.DocumentCount != 1 {
		t.Errorf("launch group = %+v", launch)
	}
	if !reflect.DeepEqual(launch.Tickers, []string{"BBB"}) {
		t.Errorf("launch tickers = %v", launch.Tickers)
	}
}

func TestClusterDeduplicatesTickers(t *testing.T) {
	c := NewClusterer(0)

	docs := []models.FlaggedDocument{
		doc(t, "one", []string{"presale"}, []string{"AAA", "BBB"}),
		doc(t, "two", []string{"presale"}, []string{"AAA"}),
	}

	out := c.Cluster(docs)
	if !reflect.DeepEqual(out[0].Tickers, []string{"AAA", "BBB"}) {
		t.Errorf("tickers = %v, want deduplicated union", out[0].Tickers)
	}
}

func TestClusterExcerptCap(t *testing.T) {
	c := NewClusterer(2)

	docs := []models.FlaggedDocument{
		doc(t, "first", []string{"mint"}, nil),
		doc(t, "second", []string{"mint"}, nil),
		doc(t, "third", []string{"mint"}, nil),
	}

	out := c.Cluster(docs)
	if out[0].DocumentCount != 3 {
		t.Errorf("count = %d, want 3", out[0].DocumentCount)
	}
	if !reflect.DeepEqual(out[0].SampleExcerpts, []string{"first", "second"}) {
		t.Errorf("excerpts = %v, want first two in arrival order", out[0].SampleExcerpts)
	}
}

func TestClusterOrdering(t *testing.T) {
	c := NewClusterer(0)

	docs := []models.FlaggedDocument{
		doc(t, "a", []string{"zeta"}, nil),
		doc(t, "b", []string{"alpha"}, nil),
		doc(t, "c", []string{"alpha"}, nil),
		doc(t, "d", []string{"beta"}, nil),
	}

	out := c.Cluster(docs)
	want := []string{"alpha", "beta", "zeta"}
	got := []string{out[0].Keyword, out[1].Keyword, out[2].Keyword}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want count desc then keyword asc %v", got, want)
	}
}

func TestClusterEmpty(t *testing.T) {
	c := NewClusterer(0)
	if out := c.Cluster(nil); len(out) != 0 {
		t.Errorf("no documents must yield no groups, got %+v", out)
	}
}
