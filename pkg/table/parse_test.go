package table

import (
	"testing"

	"github.com/matzehuels/tracelayout/pkg/errors"
)

var parseSchema = Schema{
	{Name: "ts", Type: TypeLong},
	{Name: "ratio", Type: TypeDouble},
	{Name: "name", Type: TypeString},
	{Name: "filter_track_ids", Type: TypeString, Hidden: true},
}

func TestParseConstraint(t *testing.T) {
	tests := []struct {
		expr    string
		want    Constraint
		wantErr bool
	}{
		{expr: "ts=5", want: Eq(0, Long(5))},
		{expr: "ts>-3", want: Gt(0, Long(-3))},
		{expr: "ratio<0.5", want: Lt(1, Double(0.5))},
		{expr: "name=a=b", want: Eq(2, String("a=b"))},
		{expr: "filter_track_ids=1,2", want: Eq(3, String("1,2"))},
		{expr: "name=", want: Eq(2, String(""))},

		{expr: "ts", wantErr: true},
		{expr: "=5", wantErr: true},
		{expr: "missing=1", wantErr: true},
		{expr: "ts=abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseConstraint(parseSchema, tt.expr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseConstraint() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidArgument) {
					t.Errorf("code = %v, want INVALID_ARGUMENT", errors.GetCode(err))
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseConstraint() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseOrders(t *testing.T) {
	got, err := ParseOrders(parseSchema, []string{"-ts", "+name", "ratio"})
	if err != nil {
		t.Fatalf("ParseOrders() error = %v", err)
	}
	want := []Order{Desc(0), Asc(2), Asc(1)}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseOrders()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if _, err := ParseOrder(parseSchema, "-nope"); err == nil {
		t.Error("ParseOrder(unknown) should fail")
	}
}
