package countries

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Republic of Austria", "republicOfAustria"},
		{"Bosnia and Herzegovina", "bosniaAndHerzegovina"},
		{"Côte d'Ivoire", "coteDivoire"},
		{"Guinea-Bissau", "guineaBissau"},
		{"Lao People's Democratic Republic", "laoPeoplesDemocraticRepublic"},
		{"Democratic People's Republic of Korea", "democraticPeoplesRepublicOfKorea"},
		{"Kingdom of Norway", "kingdomOfNorway"},
		{"Åland Islands", "alandIslands"},
		{"Curaçao", "curacao"},
		{"Réunion", "reunion"},
		{"São Tomé and Príncipe", "saoTomeAndPrincipe"},
		{"Federated States of Micronesia", "federatedStatesOfMicronesia"},
		{"Saint Martin (French part)", "saintMartinFrenchPart"},
		{"South-Eastern Asia", "southEasternAsia"},
		{"Latin America and the Caribbean", "latinAmericaAndTheCaribbean"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeProducesLegalSymbols(t *testing.T) {
	for _, in := range []string{
		"Côte d'Ivoire",
		"Saint Barthélemy",
		"Território Federal de Fernando de Noronha",
		"Türkiye",
	} {
		assert.Regexp(t, `^[a-z][A-Za-z0-9]*$`, Normalize(in), "input %q", in)
	}
}
