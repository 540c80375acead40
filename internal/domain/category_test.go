package domain

import "testing"

func TestCategoriesLocalized(t *testing.T) {
	en := Categories("en")
	ru := Categories("ru")
	ky := Categories("ky")

	if len(en) != len(ru) || len(en) != len(ky) {
		t.Fatalf("catalog sizes differ: en=%d ru=%d ky=%d", len(en), len(ru), len(ky))
	}

	// Los ids son estables entre idiomas; solo cambia la etiqueta.
	for i := range en {
		if en[i].ID != ru[i].ID || en[i].ID != ky[i].ID {
			t.Fatalf("id mismatch at %d: %q %q %q", i, en[i].ID, ru[i].ID, ky[i].ID)
		}
		if en[i].Type != ru[i].Type {
			t.Fatalf("type mismatch for id %q", en[i].ID)
		}
		if en[i].Name == "" || ru[i].Name == "" || ky[i].Name == "" {
			t.Fatalf("missing label for id %q", en[i].ID)
		}
	}

	if en[0].Name != "Sales" || ru[0].Name != "Продажи" || ky[0].Name != "Сатуу" {
		t.Fatalf("first labels = %q %q %q", en[0].Name, ru[0].Name, ky[0].Name)
	}
}

func TestCategoriesFallbackToEnglish(t *testing.T) {
	de := Categories("de")
	en := Categories("en")
	for i := range en {
		if de[i].Name != en[i].Name {
			t.Fatalf("fallback label %q != %q", de[i].Name, en[i].Name)
		}
	}
}

func TestCategoriesIncomeHaveTaxRate(t *testing.T) {
	for _, c := range Categories("en") {
		switch c.Type {
		case TypeIncome:
			if c.TaxRate != 0.12 {
				t.Fatalf("income category %q tax rate = %v, want 0.12", c.ID, c.TaxRate)
			}
		case TypeExpense:
			if c.TaxRate != 0 {
				t.Fatalf("expense category %q tax rate = %v, want 0", c.ID, c.TaxRate)
			}
		default:
			t.Fatalf("category %q has unknown type %q", c.ID, c.Type)
		}
	}
}
