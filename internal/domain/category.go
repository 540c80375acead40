package domain

// Category es una entrada del catálogo fijo de categorías.
// El id es estable entre idiomas; solo la etiqueta se localiza.
// El almacenamiento de transacciones no valida contra el catálogo.
type Category struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	TaxRate float64 `json:"tax_rate"`
	Color   string  `json:"color"`
}

var categoryLabels = map[string]map[string]string{
	"en": {
		"1": "Sales", "2": "Services", "7": "Software Development", "8": "Consulting", "12": "Other",
		"3": "Office Rent", "4": "Salaries", "5": "Utilities", "6": "Marketing",
		"9": "Transport", "10": "Equipment", "11": "Materials", "13": "Other",
	},
	"ru": {
		"1": "Продажи", "2": "Услуги", "7": "Разработка ПО", "8": "Консалтинг", "12": "Другое",
		"3": "Аренда офиса", "4": "Зарплаты", "5": "Коммунальные услуги", "6": "Маркетинг",
		"9": "Транспорт", "10": "Оборудование", "11": "Материалы", "13": "Другое",
	},
	"ky": {
		"1": "Сатуу", "2": "Кызматтар", "7": "ПО иштеп чыгуу", "8": "Консалтинг", "12": "Башка",
		"3": "Офис ижарасы", "4": "Айлык акылар", "5": "Коммуналдык кызматтар", "6": "Маркетинг",
		"9": "Транспорт", "10": "Жабдуулар", "11": "Материалдар", "13": "Башка",
	},
}

var categoryBase = []Category{
	{ID: "1", Type: TypeIncome, TaxRate: 0.12, Color: "#10B981"},
	{ID: "2", Type: TypeIncome, TaxRate: 0.12, Color: "#059669"},
	{ID: "7", Type: TypeIncome, TaxRate: 0.12, Color: "#06B6D4"},
	{ID: "8", Type: TypeIncome, TaxRate: 0.12, Color: "#0EA5E9"},
	{ID: "12", Type: TypeIncome, TaxRate: 0.12, Color: "#6B7280"},
	{ID: "3", Type: TypeExpense, Color: "#EF4444"},
	{ID: "4", Type: TypeExpense, Color: "#DC2626"},
	{ID: "5", Type: TypeExpense, Color: "#B91C1C"},
	{ID: "6", Type: TypeExpense, Color: "#991B1B"},
	{ID: "9", Type: TypeExpense, Color: "#7F1D1D"},
	{ID: "10", Type: TypeExpense, Color: "#F97316"},
	{ID: "11", Type: TypeExpense, Color: "#EA580C"},
	{ID: "13", Type: TypeExpense, Color: "#6B7280"},
}

// Categories devuelve el catálogo localizado para el idioma dado.
// Idiomas desconocidos caen a inglés.
func Categories(language string) []Category {
	labels, ok := categoryLabels[language]
	if !ok {
		labels = categoryLabels["en"]
	}
	out := make([]Category, len(categoryBase))
	for i, c := range categoryBase {
		c.Name = labels[c.ID]
		out[i] = c
	}
	return out
}
