package resolver

import (
	"testing"

	"github.com/ziadkadry99/bpmnav/internal/diagram"
)

func newResolver(t *testing.T, records ...diagram.Record) *Resolver {
	t.Helper()
	store, err := diagram.NewStore(records, diagram.Metadata{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return New(store)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		records  []diagram.Record
		shapeID  string
		want     int
		wantRule Rule
	}{
		{
			name: "filename match wins, first by ascending index",
			records: []diagram.Record{
				{Filename: "main"},
				{Filename: "sub_order_a", Title: "Order Subprocess"},
				{Filename: "sub_order_b", Title: "Order Subprocess"},
			},
			shapeID:  "order_a",
			want:     1,
			wantRule: RuleFilename,
		},
		{
			name: "filename match is case insensitive",
			records: []diagram.Record{
				{Filename: "main"},
				{Filename: "shipping.svg", Title: "Shipping"},
				{Filename: "SubProcess_Payment.svg", Title: "Payment"},
			},
			shapeID:  "subprocess_payment",
			want:     2,
			wantRule: RuleFilename,
		},
		{
			name: "title keyword at a lower index beats a later filename match",
			records: []diagram.Record{
				{Filename: "main"},
				{Filename: "x.svg", Title: "Generic SubProcess"},
				{Filename: "payment.svg", Title: "Payment"},
			},
			shapeID:  "payment",
			want:     1,
			wantRule: RuleTitle,
		},
		{
			name: "main process is never matched",
			records: []diagram.Record{
				{Filename: "payment_main.svg", Title: "Subprocess host"},
				{Filename: "other.svg", Title: "Other"},
			},
			shapeID:  "payment",
			want:     1,
			wantRule: RuleFallback,
		},
		{
			name:     "fallback to first non-main entry",
			records:  []diagram.Record{{Filename: "main"}, {Filename: "x"}},
			shapeID:  "zzz",
			want:     1,
			wantRule: RuleFallback,
		},
		{
			name: "empty identifier only matches by title",
			records: []diagram.Record{
				{Filename: "main"},
				{Filename: "a.svg", Title: "Shipping"},
				{Filename: "b.svg", Title: "Order Subprocess"},
			},
			shapeID:  "",
			want:     2,
			wantRule: RuleTitle,
		},
		{
			name:     "empty identifier without a title match falls back",
			records:  []diagram.Record{{Filename: "main"}, {Filename: "a.svg", Title: "Shipping"}, {Filename: "b.svg", Title: "Billing"}},
			shapeID:  "",
			want:     1,
			wantRule: RuleFallback,
		},
		{
			name:     "no sub-process diagrams",
			records:  []diagram.Record{{Filename: "main"}},
			shapeID:  "anything",
			want:     -1,
			wantRule: RuleNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newResolver(t, tt.records...)

			m := r.Explain(tt.shapeID)
			if m.Index != tt.want || m.Rule != tt.wantRule {
				t.Errorf("Explain(%q) = %+v, want index %d rule %s", tt.shapeID, m, tt.want, tt.wantRule)
			}

			idx, ok := r.Resolve(tt.shapeID)
			if ok != (tt.wantRule != RuleNone) {
				t.Errorf("Resolve(%q) ok = %v", tt.shapeID, ok)
			}
			if ok && idx != tt.want {
				t.Errorf("Resolve(%q) = %d, want %d", tt.shapeID, idx, tt.want)
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := newResolver(t,
		diagram.Record{Filename: "main"},
		diagram.Record{Filename: "review_a.svg", Title: "Review"},
		diagram.Record{Filename: "review_b.svg", Title: "Review"},
	)
	first, _ := r.Resolve("review")
	for i := 0; i < 20; i++ {
		if got, _ := r.Resolve("review"); got != first {
			t.Fatalf("run %d resolved to %d, first run %d", i, got, first)
		}
	}
	if first != 1 {
		t.Errorf("Resolve(review) = %d, want 1", first)
	}
}
