// Package activity holds the curated CNAE-to-category lookup used by the
// cumulative score. The table covers the top codes seen in government
// procurement; unknown codes map to no category and disable the
// predicates that depend on it.
package activity

import "strings"

// Category is a broad procurement category.
type Category string

const (
	Technology   Category = "TECNOLOGIA"
	Construction Category = "CONSTRUCAO"
	Retail       Category = "COMERCIO_VAREJO"
	Health       Category = "SAUDE"
	Food         Category = "ALIMENTACAO"
	Cleaning     Category = "LIMPEZA"
	Security     Category = "SEGURANCA"
	Consulting   Category = "CONSULTORIA"
	Education    Category = "EDUCACAO"
)

var cnaeCategories = map[string]Category{
	// Tecnologia da informacao
	"6201-5": Technology, "6202-3": Technology, "6203-1": Technology,
	"6204-0": Technology, "6209-1": Technology, "6311-9": Technology,
	"6319-4": Technology, "6399-2": Technology,
	// Construcao civil
	"4110-7": Construction, "4120-4": Construction, "4211-1": Construction,
	"4212-0": Construction, "4213-8": Construction, "4221-9": Construction,
	"4222-7": Construction, "4291-0": Construction, "4292-8": Construction,
	"4299-5": Construction,
	// Comercio varejista
	"4711-3": Retail, "4712-1": Retail, "4713-0": Retail, "4721-1": Retail,
	"4722-9": Retail, "4731-8": Retail, "4741-5": Retail, "4742-3": Retail,
	"4744-0": Retail,
	// Saude
	"8610-1": Health, "8621-6": Health, "8622-4": Health, "8630-5": Health,
	"8640-2": Health, "8650-0": Health, "8660-7": Health, "4771-7": Health,
	"4773-3": Health,
	// Alimentacao
	"5611-2": Food, "5612-1": Food, "5620-1": Food,
	// Limpeza e conservacao
	"8121-4": Cleaning, "8122-2": Cleaning, "8129-0": Cleaning,
	// Seguranca privada
	"8011-1": Security, "8012-0": Security,
	// Consultoria e assessoria
	"7020-4": Consulting, "7490-1": Consulting, "6920-6": Consulting,
	// Educacao
	"8511-2": Education, "8512-1": Education, "8513-9": Education,
	"8520-1": Education,
}

var incompatibleCombos = map[Category]map[Category]bool{
	Technology:   set(Construction, Health, Food, Cleaning),
	Retail:       set(Technology, Construction, Health, Security),
	Construction: set(Technology, Health, Food, Security),
	Food:         set(Technology, Construction, Security),
	Cleaning:     set(Technology, Construction, Health),
	Security:     set(Technology, Construction, Health, Food),
	Consulting:   set(Construction, Health, Food, Cleaning),
	Education:    set(Construction, Health, Cleaning, Security),
	Health:       set(Construction, Food, Cleaning, Security),
}

// serviceCategories marks categories whose contracts describe services
// rather than goods. Used by the no-employees predicate and the
// service-sector capital threshold.
var serviceCategories = map[Category]bool{
	Technology: true,
	Cleaning:   true,
	Security:   true,
	Consulting: true,
	Education:  true,
}

func set(cats ...Category) map[Category]bool {
	m := make(map[Category]bool, len(cats))
	for _, c := range cats {
		m[c] = true
	}
	return m
}

// normalize rewrites bare digit forms into the hyphenated class form of
// the table: 7-digit subclasses and 5-digit classes both become NNNN-N.
func normalize(code string) string {
	s := strings.ReplaceAll(strings.TrimSpace(code), " ", "")
	if strings.Contains(s, "-") {
		if i := strings.Index(s, "/"); i >= 0 {
			s = s[:i]
		}
		return s
	}
	if (len(s) == 5 || len(s) == 7) && isDigits(s) {
		return s[:4] + "-" + s[4:5]
	}
	return s
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// CategoryOf returns the category for a CNAE code, or "" when the code is
// not in the curated table.
func CategoryOf(code string) Category {
	return cnaeCategories[normalize(code)]
}

// Incompatible reports whether a CNAE code is incompatible with a contract
// subject category. Unknown codes are never incompatible.
func Incompatible(code string, subject Category) bool {
	cat := CategoryOf(code)
	if cat == "" {
		return false
	}
	return incompatibleCombos[cat][subject]
}

// IsService reports whether a category describes service provision.
func IsService(cat Category) bool {
	return serviceCategories[cat]
}

var subjectKeywords = []struct {
	category Category
	words    []string
}{
	{Technology, []string{"software", "sistema", "ti ", "informatica", "computador", "rede", "dados"}},
	{Construction, []string{"obra", "construcao", "reforma", "pavimentacao", "edificacao", "engenharia civil"}},
	{Health, []string{"medicamento", "hospitalar", "saude", "medico", "farmac", "laboratorio"}},
	{Food, []string{"alimentacao", "refeicao", "merenda", "alimento"}},
	{Cleaning, []string{"limpeza", "conservacao", "higienizacao", "asseio"}},
	{Security, []string{"vigilancia", "seguranca patrimonial", "monitoramento eletronico"}},
	{Consulting, []string{"consultoria", "assessoria", "auditoria"}},
	{Education, []string{"ensino", "treinamento", "capacitacao", "curso"}},
}

// SubjectCategory infers a contract subject category from keywords, or ""
// when nothing matches.
func SubjectCategory(subject string) Category {
	lower := strings.ToLower(subject)
	for _, entry := range subjectKeywords {
		for _, w := range entry.words {
			if strings.Contains(lower, w) {
				return entry.category
			}
		}
	}
	return ""
}
