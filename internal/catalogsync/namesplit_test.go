package catalogsync

import "testing"

func TestSplitName(t *testing.T) {
	cases := []struct {
		name string
		want NameParts
	}{
		{"blaTEM-1_1_AF091113", NameParts{ShortName: "blaTEM", MainNumbering: "1", SubseqNumbering: "1", Accession: "AF091113"}},
		{"blaOXA-48_1_AY236073", NameParts{ShortName: "blaOXA", MainNumbering: "48", SubseqNumbering: "1", Accession: "AY236073"}},
		{"sul1_9_NC_000001", NameParts{ShortName: "sul", MainNumbering: "1", SubseqNumbering: "9", Accession: "NC_000001"}},
		{"blaCTX-M-15_1_AY044436", NameParts{ShortName: "blaCTX-M", MainNumbering: "15", SubseqNumbering: "1", Accession: "AY044436"}},
		{"aac(6')-Ib_2_M23634", NameParts{ShortName: "aac", MainNumbering: "(6')-Ib", SubseqNumbering: "2", Accession: "M23634"}},
	}
	for _, tc := range cases {
		got, ok := SplitName(tc.name)
		if !ok {
			t.Errorf("SplitName(%q): no match", tc.name)
			continue
		}
		if got != tc.want {
			t.Errorf("SplitName(%q) = %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestSplitNameRejectsUnconventionalNames(t *testing.T) {
	if _, ok := SplitName("plainname"); ok {
		t.Fatalf("expected no match")
	}
}
