package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveFileName(t *testing.T) {
	tests := []struct {
		name      string
		q         int
		stepTitle string
		orig      string
		want      string
	}{
		{"strips punctuation", 3, "identidad visual", "my photo!.png", "P3-IDENTIDAD VISUAL my photo.png"},
		{"strips path separators", 0, "Info", "a/b:c*.pdf", "P0-INFO abc.pdf"},
		{"collapses title whitespace", 12, "  recursos \t visuales  ", "x.jpg", "P12-RECURSOS VISUALES x.jpg"},
		{"keeps accents and underscores", 1, "Información de la Empresa", "logo_año-2024.png", "P1-INFORMACIÓN DE LA EMPRESA logo_año-2024.png"},
		{"removes quotes", 6, "Identidad visual", `"logo" 'final'.png`, "P6-IDENTIDAD VISUAL logo final.png"},
		{"empty original", 18, "Adicionales", "", "P18-ADICIONALES "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveFileName(tt.q, tt.stepTitle, tt.orig))
		})
	}
}

func TestDeriveFileName_Deterministic(t *testing.T) {
	a := DeriveFileName(9, "Recursos visuales", "team photo (1).jpg")
	b := DeriveFileName(9, "Recursos visuales", "team photo (1).jpg")
	assert.Equal(t, a, b)
	assert.Equal(t, "P9-RECURSOS VISUALES team photo 1.jpg", a)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "report.final-v2.pdf", SanitizeFileName("report.final-v2.pdf"))
	assert.Equal(t, "..etcpasswd", SanitizeFileName("../etc/passwd"))
	assert.Equal(t, "ab", SanitizeFileName("a\\b"))
	assert.Equal(t, "naïve café.txt", SanitizeFileName("naïve café?.txt"))
}
