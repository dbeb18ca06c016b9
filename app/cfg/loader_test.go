package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestIsConfigured(t *testing.T) {
	cases := []struct {
		token, dbID string
		want        bool
	}{
		{"tok", "db", true},
		{"", "db", false},
		{"tok", "", false},
		{"", "", false},
	}

	for _, c := range cases {
		cfg := &Cfg{NotionToken: c.token, DatabaseID: c.dbID}
		if got := cfg.IsConfigured(); got != c.want {
			t.Errorf("IsConfigured(token=%q, db=%q) = %v, want %v", c.token, c.dbID, got, c.want)
		}
	}
}
