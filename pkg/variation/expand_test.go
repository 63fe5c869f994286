package variation

import (
	"reflect"
	"testing"

	"github.com/Sternrassler/ebay-access-client/pkg/model"
)

func TestExpand(t *testing.T) {
	composite := model.Item{
		ItemID:      "100",
		Title:       "T-Shirt",
		Quantity:    9,
		IsComposite: true,
		Variations: []model.Variation{
			{SKU: "TS-S", Quantity: 2},
			{SKU: "TS-M", Quantity: 3},
			{SKU: "TS-L", Quantity: 4},
		},
	}

	tests := []struct {
		name  string
		input []model.Item
		want  []model.Item
	}{
		{
			name:  "plain item unchanged",
			input: []model.Item{{ItemID: "1", SKU: "A", Quantity: 5}},
			want:  []model.Item{{ItemID: "1", SKU: "A", Quantity: 5}},
		},
		{
			name:  "composite without variations unchanged",
			input: []model.Item{{ItemID: "2", SKU: "B", Quantity: 1, IsComposite: true}},
			want:  []model.Item{{ItemID: "2", SKU: "B", Quantity: 1, IsComposite: true}},
		},
		{
			name:  "composite with single variation unchanged",
			input: []model.Item{{ItemID: "3", IsComposite: true, Variations: []model.Variation{{SKU: "C", Quantity: 7}}}},
			want:  []model.Item{{ItemID: "3", IsComposite: true, Variations: []model.Variation{{SKU: "C", Quantity: 7}}}},
		},
		{
			name:  "variations on non-composite item ignored",
			input: []model.Item{{ItemID: "4", SKU: "D", Variations: []model.Variation{{SKU: "x"}, {SKU: "y"}}}},
			want:  []model.Item{{ItemID: "4", SKU: "D", Variations: []model.Variation{{SKU: "x"}, {SKU: "y"}}}},
		},
		{
			name:  "composite expanded in variation order",
			input: []model.Item{{ItemID: "0", SKU: "first"}, composite, {ItemID: "200", SKU: "last"}},
			want: []model.Item{
				{ItemID: "0", SKU: "first"},
				{ItemID: "100", Title: "T-Shirt", SKU: "TS-S", Quantity: 2},
				{ItemID: "100", Title: "T-Shirt", SKU: "TS-M", Quantity: 3},
				{ItemID: "100", Title: "T-Shirt", SKU: "TS-L", Quantity: 4},
				{ItemID: "200", SKU: "last"},
			},
		},
		{
			name:  "empty input",
			input: nil,
			want:  []model.Item{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expand() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExpand_KeysAreVariationIdentities(t *testing.T) {
	item := model.Item{
		ItemID:      "55",
		IsComposite: true,
		Variations:  []model.Variation{{SKU: "v1"}, {SKU: "v2"}},
	}

	got := Expand([]model.Item{item})
	if len(got) != 2 {
		t.Fatalf("len(Expand()) = %d, want 2", len(got))
	}
	for i, v := range item.Variations {
		want := model.ItemKey{ItemID: "55", SKU: v.SKU}
		if got[i].Key() != want {
			t.Errorf("Key() = %+v, want %+v", got[i].Key(), want)
		}
	}

	// The parent must not be altered.
	if !item.IsComposite || len(item.Variations) != 2 {
		t.Errorf("input item mutated: %+v", item)
	}
}
