package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryOfNormalizesBareCodes(t *testing.T) {
	assert.Equal(t, Technology, CategoryOf("6201-5"))
	assert.Equal(t, Technology, CategoryOf("6201500"), "bare subclass digits")
	assert.Equal(t, Technology, CategoryOf("62015"), "bare class digits")
	assert.Equal(t, Technology, CategoryOf("6201-5/00"), "full subclass form")
	assert.Equal(t, Retail, CategoryOf(" 4711-3 "))
	assert.Equal(t, Category(""), CategoryOf("9999-9"))
}

func TestIncompatibleUnknownCodeNeverFires(t *testing.T) {
	assert.True(t, Incompatible("4711-3", Technology))
	assert.False(t, Incompatible("4711-3", Retail))
	assert.False(t, Incompatible("0000-0", Construction))
}

func TestSubjectCategoryKeywords(t *testing.T) {
	cases := map[string]Category{
		"Desenvolvimento de software de gestao": Technology,
		"Obra de pavimentacao asfaltica":        Construction,
		"Aquisicao de medicamento basico":       Health,
		"Servico de limpeza predial":            Cleaning,
		"Consultoria tributaria":                Consulting,
		"Compra de cadeiras":                    "",
	}
	for subject, want := range cases {
		assert.Equal(t, want, SubjectCategory(subject), subject)
	}
}

func TestIsService(t *testing.T) {
	assert.True(t, IsService(Cleaning))
	assert.True(t, IsService(Technology))
	assert.False(t, IsService(Retail))
	assert.False(t, IsService(Construction))
}
