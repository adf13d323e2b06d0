package profile

import "testing"

func TestRecognizable(t *testing.T) {
	tests := []struct {
		name string
		ctx  BrandContext
		want bool
	}{
		{"empty profile", BrandContext{}, false},
		{"catalog only", BrandContext{Catalog: []Product{{Title: "Mug"}}}, true},
		{"hero only", BrandContext{HeroProducts: []Product{{Title: "Mug"}}}, true},
		{
			"name and policies without products",
			BrandContext{BrandName: "Acme", Policies: []Policy{{Type: PolicyPrivacy}}},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ctx.Recognizable(); got != tt.want {
				t.Errorf("Recognizable() = %v, want %v", got, tt.want)
			}
		})
	}
}
